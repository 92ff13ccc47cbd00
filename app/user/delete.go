package user

import (
	"automarket/app/respond"
	"automarket/internal"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type deleteBody struct {
	Confirm bool `json:"confirm"`
}

// UserDelete removes the account. confirm comes from the JSON body or the
// query string
func UserDelete(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	confirm := respond.IsTrue(c.Query("confirm"))

	if !confirm && c.Request.Body != nil && c.Request.Body != http.NoBody {
		var data deleteBody
		err := c.ShouldBindJSON(&data)
		if err != nil && !errors.Is(err, io.EOF) {
			respond.BadBody(c, err)
			return
		}

		confirm = data.Confirm
	}

	if err := d.Users.DeleteAccount(c.Request.Context(), userID, confirm); err != nil {
		respond.Error(c, err)
		return
	}

	zap.L().Info("User deleted", zap.Uint("user_id", userID), zap.String("requestID", requestID))

	c.Status(http.StatusNoContent)
}
