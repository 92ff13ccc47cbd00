package listing

import (
	"automarket/app/respond"
	"automarket/internal"
	"automarket/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

func ListingEdit(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(uint)

	id, err := listingID(c)
	if err != nil {
		respond.Error(c, err)
		return
	}

	var data service.ListingPatch
	if err := c.ShouldBindJSON(&data); err != nil {
		respond.BadBody(c, err)
		return
	}

	listing, err := d.Listings.Update(c.Request.Context(), userID, id, data)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, listing)
}
