package cart

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"planeta-be/internal/auth"
	"planeta-be/internal/logger"
	"planeta-be/internal/response"
)

type Handler struct {
	service         Service
	validate        *validator.Validate
	defaultCurrency string
}

func NewHandler(s Service, defaultCurrency string) *Handler {
	if defaultCurrency == "" {
		defaultCurrency = DefaultCurrency
	}
	return &Handler{
		service:         s,
		validate:        validator.New(),
		defaultCurrency: defaultCurrency,
	}
}

func (h *Handler) Detail(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	snap, err := h.service.Snapshot(c.Request.Context(), sid)
	if err != nil {
		writeError(c, err, "DETAIL_ERROR")
		return
	}
	response.Success(c, http.StatusOK, snap)
}

func (h *Handler) Count(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	n, err := h.service.Count(c.Request.Context(), sid)
	if err != nil {
		writeError(c, err, "COUNT_ERROR")
		return
	}
	response.Success(c, http.StatusOK, CartCountResponse{Count: n})
}

func (h *Handler) AddItem(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	var req AddItemRequest
	if !h.bind(c, &req) {
		return
	}

	snap, err := h.service.Add(c.Request.Context(), sid, req.ToLineItem(h.defaultCurrency))
	if err != nil {
		writeError(c, err, "ADD_ITEM_ERROR")
		return
	}
	response.Success(c, http.StatusCreated, snap)
}

func (h *Handler) UpdateQty(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	var req UpdateQtyRequest
	if !h.bind(c, &req) {
		return
	}

	snap, err := h.service.SetQty(c.Request.Context(), sid, c.Param("id"), *req.Qty)
	if err != nil {
		writeError(c, err, "UPDATE_ERROR")
		return
	}
	response.Success(c, http.StatusOK, snap)
}

func (h *Handler) Increment(c *gin.Context) {
	h.lineOp(c, "INCREMENT_ERROR", h.service.Increment)
}

func (h *Handler) Decrement(c *gin.Context) {
	h.lineOp(c, "DECREMENT_ERROR", h.service.Decrement)
}

func (h *Handler) RemoveItem(c *gin.Context) {
	h.lineOp(c, "DELETE_ITEM_ERROR", h.service.Remove)
}

func (h *Handler) Clear(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	snap, err := h.service.Clear(c.Request.Context(), sid)
	if err != nil {
		writeError(c, err, "CLEAR_ERROR")
		return
	}
	response.Success(c, http.StatusOK, snap)
}

type lineFunc func(ctx context.Context, sessionID, lineID string) (Snapshot, error)

func (h *Handler) lineOp(c *gin.Context, code string, fn lineFunc) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	snap, err := fn(c.Request.Context(), sid, c.Param("id"))
	if err != nil {
		writeError(c, err, code)
		return
	}
	response.Success(c, http.StatusOK, snap)
}

func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", err.Error())
		return false
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", validationDetails(err))
		return false
	}
	return true
}

func sessionID(c *gin.Context) (string, bool) {
	sid, ok := auth.SessionIDFrom(c.Request.Context())
	if !ok {
		writeError(c, ErrSessionRequired, "UNAUTHORIZED")
		return "", false
	}
	return sid, true
}

// HTTPStatus maps cart errors to response codes.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrSessionRequired):
		return http.StatusUnauthorized
	case errors.Is(err, ErrCartItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrLineIDRequired):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, err error, code string) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		logger.FromCtx(c.Request.Context()).Error("cart request failed",
			zap.String("layer", "handler"),
			zap.String("code", code),
			zap.Error(err),
		)
		response.Error(c, status, code, "internal server error", nil)
		return
	}
	response.Error(c, status, code, err.Error(), nil)
}

func validationDetails(err error) any {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Namespace()] = fe.Tag()
	}
	return out
}
