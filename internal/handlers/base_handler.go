package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/boboboiiiw/backend-edutrack/internal/services"
	"github.com/boboboiiiw/backend-edutrack/internal/utils"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the body of requests that only report an outcome.
type MessageResponse struct {
	Message string `json:"message"`
}

// BaseHandler carries the logger shared by all handlers.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs an incoming request with the request-scoped logger.
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	args = append(args, "method", c.Request.Method, "path", c.Request.URL.Path)
	if identity, ok := GetIdentity(c); ok {
		args = append(args, "user_id", identity.ID)
	}
	utils.GetLogger(c, h.logger).Info(msg, args...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	args = append(args, "error", err, "method", c.Request.Method, "path", c.Request.URL.Path)
	utils.GetLogger(c, h.logger).Error(msg, args...)
}

// handleServiceError maps a service error to its status. Unexpected errors
// are logged and answered with fallback so internals never leak.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error, fallback string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.LogError(c, err, "Unexpected service error")
		c.JSON(status, ErrorResponse{Error: fallback})
		return
	}

	utils.GetLogger(c, h.logger).Warn("Request rejected", "status", status, "error", err)
	c.JSON(status, ErrorResponse{Error: services.UserMessage(err, fallback)})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidationFailed):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// parseIDParam reads a positive numeric path parameter.
func parseIDParam(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// parsePaging reads page and per_page, falling back to defaultPerPage when
// per_page is absent. A value that is present but not an integer is rejected.
func parsePaging(c *gin.Context, defaultPerPage int) (page, perPage int, ok bool) {
	page, perPage = 1, defaultPerPage

	if raw, exists := c.GetQuery("page"); exists {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, false
		}
		page = v
	}
	if raw, exists := c.GetQuery("per_page"); exists {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, false
		}
		perPage = v
	}
	return page, perPage, true
}
