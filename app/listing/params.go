// Package listing holds the car listing handlers
package listing

import (
	"automarket/internal/apperror"
	"strconv"

	"github.com/gin-gonic/gin"
)

// listingID reads the :id path parameter. Anything but a positive
// integer is treated like a missing listing
func listingID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.NotFound("Not found.")
	}

	return uint(id), nil
}
