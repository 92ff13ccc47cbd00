package middleware

import (
	"automarket/internal/apperror"
	"automarket/internal/model"
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Authenticator resolves an access token to a verified user
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// NewJWTMiddleware reads a bearer token from the Authorization header and
// stores the authenticated user as user and its ID as userID
func NewJWTMiddleware(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Authentication credentials were not provided.",
				"code":      "not_authenticated",
				"requestID": requestID,
			})
			return
		}

		user, err := a.Authenticate(c.Request.Context(), token)
		if err != nil {
			var appErr *apperror.AppError
			if errors.As(err, &appErr) {
				code := appErr.Code
				if code == "" {
					code = "token_not_valid"
				}

				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":     appErr.Message,
					"code":      code,
					"requestID": requestID,
				})
				return
			}

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to authenticate request", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		c.Set("userID", user.ID)
		c.Set("user", user)
		c.Next()
	}
}
