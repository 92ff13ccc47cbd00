package listing

import (
	"automarket/app/respond"
	"automarket/internal"
	"net/http"

	"github.com/gin-gonic/gin"
)

func ListingFetch(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(uint)

	id, err := listingID(c)
	if err != nil {
		respond.Error(c, err)
		return
	}

	listing, err := d.Listings.Get(c.Request.Context(), userID, id)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, listing)
}
