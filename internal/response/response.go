// Package response writes the JSON envelope every storefront endpoint uses.
package response

import (
	"time"

	"planeta-be/internal/logger"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Success   bool         `json:"success"`
	Data      any          `json:"data"`
	Error     *ErrorDetail `json:"error"`
	RequestID string       `json:"requestId"`
	Timestamp string       `json:"timestamp"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func Success(c *gin.Context, status int, data any) {
	c.JSON(status, APIResponse{
		Success:   true,
		Data:      data,
		RequestID: logger.RequestIDFrom(c.Request.Context()),
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func Error(c *gin.Context, status int, code, message string, details any) {
	c.AbortWithStatusJSON(status, APIResponse{
		Success: false,
		Error: &ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
		RequestID: logger.RequestIDFrom(c.Request.Context()),
		Timestamp: time.Now().Format(time.RFC3339),
	})
}
