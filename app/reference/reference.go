// Package reference serves the brands and locations listings refer to
package reference

import (
	"automarket/app/respond"
	"automarket/internal"
	"net/http"

	"github.com/gin-gonic/gin"
)

func BrandList(c *gin.Context, d *internal.Deps) {
	brands, err := d.Reference.Brands(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, brands)
}

func LocationList(c *gin.Context, d *internal.Deps) {
	locations, err := d.Reference.Locations(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, locations)
}
