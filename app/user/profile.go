package user

import (
	"automarket/app/respond"
	"automarket/internal"
	"automarket/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

func UserProfile(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(uint)

	user, err := d.Users.Profile(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, user.Profile())
}

// UserProfileUpdate serves both POST and PATCH. Only the fields present in
// the body change
func UserProfileUpdate(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(uint)

	var data service.ProfilePatch
	if err := c.ShouldBindJSON(&data); err != nil {
		respond.BadBody(c, err)
		return
	}

	user, err := d.Users.UpdateProfile(c.Request.Context(), userID, data)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, user.Profile())
}
