// Package respond turns service results and errors into JSON responses
package respond

import (
	"automarket/internal/apperror"
	"automarket/pkg/middleware"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func status(err error) int {
	switch {
	case errors.Is(err, apperror.ErrValidation), errors.Is(err, apperror.ErrNotVerified):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperror.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err with the status of its kind. Errors without a kind are
// logged and hidden behind a 500
func Error(c *gin.Context, err error) {
	requestID := c.GetString("requestID")

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Request failed", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	body := gin.H{
		"error":     appErr.Message,
		"requestID": requestID,
	}

	if appErr.Code != "" {
		body["code"] = appErr.Code
	}

	if len(appErr.Fields) > 0 {
		body["fields"] = appErr.Fields
	}

	c.AbortWithStatusJSON(status(err), body)
}

// BadBody answers a request whose body could not be decoded
func BadBody(c *gin.Context, err error) {
	requestID := c.GetString("requestID")

	if middleware.IsBodyTooLarge(err) {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
			"error":     "Request body size exceeds limit",
			"requestID": requestID,
		})
		return
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error":     "Invalid request body",
		"requestID": requestID,
	})

	zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
}

// Detail writes a {"detail": msg} body
func Detail(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"detail": msg})
}
