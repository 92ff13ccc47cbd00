package user

import (
	"automarket/app/respond"
	"automarket/internal"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type resendBody struct {
	Email string `json:"email"`
}

func UserVerify(c *gin.Context, d *internal.Deps) {
	code := strings.TrimSpace(c.Param("code"))

	if err := d.Users.Verify(c.Request.Context(), code); err != nil {
		respond.Error(c, err)
		return
	}

	respond.Detail(c, http.StatusOK, "Email verified successfully.")
}

// UserResendVerification always answers the same way for unknown and
// already verified addresses
func UserResendVerification(c *gin.Context, d *internal.Deps) {
	var data resendBody
	if err := c.ShouldBindJSON(&data); err != nil {
		respond.BadBody(c, err)
		return
	}

	if err := d.Users.ResendVerification(c.Request.Context(), data.Email); err != nil {
		respond.Error(c, err)
		return
	}

	respond.Detail(c, http.StatusAccepted, "If the account exists and is not verified, a new verification email has been sent.")
}
