package respond

import (
	"automarket/internal/apperror"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", apperror.ValidationFailed("email", "bad"), http.StatusBadRequest, ""},
		{"not verified", apperror.NotVerified("Your account is not verified."), http.StatusBadRequest, "account_not_verified"},
		{"bad credentials", apperror.InvalidCredentials("nope"), http.StatusUnauthorized, "invalid_credentials"},
		{"forbidden", apperror.Forbidden("nope"), http.StatusForbidden, ""},
		{"wrapped not found", fmt.Errorf("outer: %w", apperror.NotFound("Not found.")), http.StatusNotFound, ""},
		{"unknown", errors.New("db is gone"), http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Set("requestID", "abc")

			Error(c, tt.err)

			require.Equal(t, tt.status, rec.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "abc", body["requestID"])

			if tt.code != "" {
				assert.Equal(t, tt.code, body["code"])
			} else {
				assert.NotContains(t, body, "code")
			}
		})
	}
}

func TestErrorFields(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	Error(c, apperror.ValidationFailed("username", "taken"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]any{"username": "taken"}, body["fields"])
	assert.Equal(t, "taken", body["error"])
}
