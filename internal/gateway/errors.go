package gateway

import (
	"context"
	"errors"
	"net/http"

	catalogapp "github.com/dwikikusuma/ordersvc/internal/catalog/app"
	orderapp "github.com/dwikikusuma/ordersvc/internal/order/app"
	"github.com/gin-gonic/gin"
)

// httpStatusFromError maps service errors to a status, a stable code and the
// message shown to the client.
func httpStatusFromError(err error) (int, string, string) {
	var rej *orderapp.RejectionError
	switch {
	case errors.As(err, &rej):
		if rej.Reason == orderapp.ReasonProductNotFound {
			return http.StatusUnprocessableEntity, "PRODUCT_NOT_FOUND", rej.Error()
		}
		return http.StatusConflict, "INSUFFICIENT_INVENTORY", rej.Error()
	case errors.Is(err, orderapp.ErrInvalidInput), errors.Is(err, catalogapp.ErrInvalidInput):
		return http.StatusBadRequest, "INVALID_ARGUMENT", err.Error()
	case errors.Is(err, orderapp.ErrNotFound), errors.Is(err, catalogapp.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "not found"
	case errors.Is(err, orderapp.ErrIdempotencyInFlight):
		return http.StatusConflict, "IDEMPOTENCY_IN_FLIGHT", "a request with this Idempotency-Key is still in progress"
	case errors.Is(err, orderapp.ErrStoreUnavailable), errors.Is(err, catalogapp.ErrStoreUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "UNAVAILABLE", "store unavailable"
	default:
		return http.StatusInternalServerError, "INTERNAL", "internal error"
	}
}

func writeError(c *gin.Context, err error) {
	status, code, msg := httpStatusFromError(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, gin.H{"detail": msg, "code": code})
}

// writeErrorAs is writeError with a resource-specific not-found message.
func writeErrorAs(c *gin.Context, err error, notFound string) {
	if status, code, _ := httpStatusFromError(err); status == http.StatusNotFound {
		writeDetail(c, status, code, notFound)
		return
	}
	writeError(c, err)
}

func writeDetail(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": msg, "code": code})
}
