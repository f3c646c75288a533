package storefront

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"planeta-be/internal/auth"
	"planeta-be/internal/cart"
	"planeta-be/internal/catalog"
	"planeta-be/internal/logger"
	"planeta-be/internal/response"
)

const (
	defaultMaxListings = 10000
	maxPageSize        = 96
)

// DetailsFetcher loads one variant for the product page.
type DetailsFetcher interface {
	GetVariantDetails(ctx context.Context, id string) (*catalog.VariantDetails, error)
}

type Catalog interface {
	catalog.Backend
	DetailsFetcher
}

type AddToCartRequest struct {
	Size string `json:"size" validate:"max=50"`
}

// ProductResponse is the product page payload.
type ProductResponse struct {
	catalog.ProductDetails
	PercentOff string `json:"percentOff,omitempty"`
}

// Handler serves the product listing and product pages. Each cart session
// browses through its own catalog.Listing so a route change only affects
// that session.
type Handler struct {
	catalog      Catalog
	carts        cart.Service
	mediaBaseURL string
	validate     *validator.Validate

	mu       sync.Mutex
	listings *lru.Cache[string, *catalog.Listing]
	loads    singleflight.Group
}

func NewHandler(c Catalog, carts cart.Service, mediaBaseURL string, maxListings int) *Handler {
	if maxListings <= 0 {
		maxListings = defaultMaxListings
	}
	listings, err := lru.New[string, *catalog.Listing](maxListings)
	if err != nil {
		panic(err)
	}
	return &Handler{
		catalog:      c,
		carts:        carts,
		mediaBaseURL: mediaBaseURL,
		validate:     validator.New(),
		listings:     listings,
	}
}

func (h *Handler) listing(sessionID string) *catalog.Listing {
	if sessionID == "" {
		return catalog.NewListing(h.catalog, h.mediaBaseURL)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if l, ok := h.listings.Get(sessionID); ok {
		return l
	}
	l := catalog.NewListing(h.catalog, h.mediaBaseURL)
	h.listings.Add(sessionID, l)
	return l
}

func (h *Handler) ListProducts(c *gin.Context) {
	ctx := c.Request.Context()
	gender := c.Param("gender")
	category := c.Param("category")
	sid, _ := auth.SessionIDFrom(ctx)

	l := h.listing(sid)
	if !l.Showing(gender, category) {
		key := sid + "\x00" + gender + "\x00" + category
		_, err, _ := h.loads.Do(key, func() (any, error) {
			return nil, l.Load(ctx, gender, category)
		})
		if err != nil {
			writeCatalogError(c, err)
			return
		}
	}

	view, err := l.Filter(gender, category, parseFilters(c))
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

func (h *Handler) GetProduct(c *gin.Context) {
	id := c.Param("id")
	details, err := h.details(c.Request.Context(), id)
	if err != nil {
		writeCatalogError(c, err)
		return
	}

	resp := ProductResponse{ProductDetails: details}
	if pct, ok := details.PercentOff(); ok {
		resp.PercentOff = pct
	}
	response.Success(c, http.StatusOK, resp)
}

// AddToCart adds the product in the chosen size to the session's cart after
// checking the size and its stock.
func (h *Handler) AddToCart(c *gin.Context) {
	ctx := c.Request.Context()
	sid, ok := auth.SessionIDFrom(ctx)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", cart.ErrSessionRequired.Error(), nil)
		return
	}

	var req AddToCartRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", err.Error())
			return
		}
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err.Error())
		return
	}

	details, err := h.details(ctx, c.Param("id"))
	if err != nil {
		writeCatalogError(c, err)
		return
	}

	line, err := details.CartLine(req.Size)
	if err != nil {
		writeCatalogError(c, err)
		return
	}

	snap, err := h.carts.Add(ctx, sid, line)
	if err != nil {
		logger.FromCtx(ctx).Error("add to cart failed", zap.String("line_id", line.ID), zap.Error(err))
		response.Error(c, cart.HTTPStatus(err), "ADD_ITEM_ERROR", "could not add item to cart", nil)
		return
	}
	response.Success(c, http.StatusCreated, snap)
}

func (h *Handler) details(ctx context.Context, id string) (catalog.ProductDetails, error) {
	d, err := h.catalog.GetVariantDetails(ctx, id)
	if err != nil {
		return catalog.ProductDetails{}, err
	}
	return catalog.ToDetails(*d, id, h.mediaBaseURL), nil
}

// parseFilters reads the listing query. Malformed values fall back to the
// defaults instead of failing the request.
func parseFilters(c *gin.Context) catalog.FilterState {
	f := catalog.NewFilterState()
	f.Sort = catalog.ParseSortKey(c.Query("sort"))
	f.OnlyInStock = queryBool(c, "inStock")
	f.OnlySale = queryBool(c, "sale")
	for _, b := range c.QueryArray("brand") {
		if b != "" {
			f.Brands[b] = struct{}{}
		}
	}
	for _, s := range c.QueryArray("size") {
		if s != "" {
			f.Sizes[s] = struct{}{}
		}
	}
	f.ApplyPrice(c.Query("minPrice"), c.Query("maxPrice"))

	if n, err := strconv.Atoi(c.Query("pageSize")); err == nil && n > 0 {
		f.PageSize = min(n, maxPageSize)
	}
	f.Page = 1
	if n, err := strconv.Atoi(c.Query("page")); err == nil {
		f.Page = n
	}
	return f
}

func queryBool(c *gin.Context, key string) bool {
	v, err := strconv.ParseBool(c.Query(key))
	return err == nil && v
}

// CatalogStatus maps catalog errors to response codes.
func CatalogStatus(err error) (int, string) {
	switch {
	case errors.Is(err, catalog.ErrUnknownRoute):
		return http.StatusNotFound, "UNKNOWN_ROUTE"
	case errors.Is(err, catalog.ErrProductNotFound):
		return http.StatusNotFound, "PRODUCT_NOT_FOUND"
	case errors.Is(err, catalog.ErrSizeRequired):
		return http.StatusBadRequest, "SIZE_REQUIRED"
	case errors.Is(err, catalog.ErrOutOfStock):
		return http.StatusConflict, "OUT_OF_STOCK"
	case errors.Is(err, catalog.ErrSuperseded):
		return http.StatusConflict, "SUPERSEDED"
	case errors.Is(err, catalog.ErrMissingRouteCategories):
		return http.StatusBadGateway, "CATALOG_MISCONFIGURED"
	}
	return http.StatusBadGateway, "CATALOG_ERROR"
}

func writeCatalogError(c *gin.Context, err error) {
	status, code := CatalogStatus(err)
	if status == http.StatusBadGateway {
		logger.FromCtx(c.Request.Context()).Error("catalog request failed",
			zap.String("code", code),
			zap.Error(err),
		)
	}
	msg := catalog.Message(err)
	if code == "CATALOG_ERROR" && !errors.Is(err, catalog.ErrSearchFailed) {
		msg = "catalog unavailable"
	}
	response.Error(c, status, code, msg, nil)
}
