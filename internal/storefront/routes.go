package storefront

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	products := r.Group("/products")
	{
		products.GET("/variants/:id", handler.GetProduct)
		products.POST("/variants/:id/cart", handler.AddToCart)
		products.GET("/:gender/:category", handler.ListProducts)
	}
}
