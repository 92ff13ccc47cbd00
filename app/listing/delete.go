package listing

import (
	"automarket/app/respond"
	"automarket/internal"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ListingDelete needs ?confirm=true
func ListingDelete(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	id, err := listingID(c)
	if err != nil {
		respond.Error(c, err)
		return
	}

	if err := d.Listings.Delete(c.Request.Context(), userID, id, respond.IsTrue(c.Query("confirm"))); err != nil {
		respond.Error(c, err)
		return
	}

	zap.L().Debug("Listing deleted", zap.Uint("listing_id", id), zap.String("requestID", requestID))

	c.Status(http.StatusNoContent)
}
