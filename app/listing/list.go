package listing

import (
	"automarket/app/respond"
	"automarket/internal"

	"github.com/gin-gonic/gin"
)

// ListingList is public and never returns hidden listings
func ListingList(c *gin.Context, d *internal.Deps) {
	q, err := respond.ListQuery(c)
	if err != nil {
		respond.Error(c, err)
		return
	}

	page, err := d.Listings.ListPublic(c.Request.Context(), q)
	if err != nil {
		respond.Error(c, err)
		return
	}

	respond.Page(c, page)
}

func ListingMine(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(uint)

	q, err := respond.ListQuery(c)
	if err != nil {
		respond.Error(c, err)
		return
	}

	page, err := d.Listings.ListMine(c.Request.Context(), userID, q)
	if err != nil {
		respond.Error(c, err)
		return
	}

	respond.Page(c, page)
}
