package listing

import (
	"automarket/app/respond"
	"automarket/internal"
	"automarket/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func ListingCreate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	var data service.ListingInput
	if err := c.ShouldBindJSON(&data); err != nil {
		respond.BadBody(c, err)
		return
	}

	listing, err := d.Listings.Create(c.Request.Context(), userID, data)
	if err != nil {
		respond.Error(c, err)
		return
	}

	zap.L().Debug("Listing created", zap.Uint("listing_id", listing.ID), zap.String("requestID", requestID))

	c.JSON(http.StatusCreated, listing)
}
