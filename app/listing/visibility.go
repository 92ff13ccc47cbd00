package listing

import (
	"automarket/app/respond"
	"automarket/internal"
	"net/http"

	"github.com/gin-gonic/gin"
)

func ListingHide(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(uint)

	id, err := listingID(c)
	if err != nil {
		respond.Error(c, err)
		return
	}

	if err := d.Listings.Hide(c.Request.Context(), userID, id); err != nil {
		respond.Error(c, err)
		return
	}

	respond.Detail(c, http.StatusOK, "Car listing is now hidden.")
}

func ListingShow(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(uint)

	id, err := listingID(c)
	if err != nil {
		respond.Error(c, err)
		return
	}

	if err := d.Listings.Show(c.Request.Context(), userID, id); err != nil {
		respond.Error(c, err)
		return
	}

	respond.Detail(c, http.StatusOK, "Car listing is now visible.")
}
