// Package favorite holds the handlers of a user's favorite listings
package favorite

import (
	"automarket/app/respond"
	"automarket/internal"
	"automarket/internal/apperror"
	"automarket/internal/service"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func listingID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("listing_id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.NotFound("Car listing not found.")
	}

	return uint(id), nil
}

func FavoriteAdd(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(uint)

	id, err := listingID(c)
	if err != nil {
		respond.Error(c, err)
		return
	}

	res, err := d.Favorites.Add(c.Request.Context(), userID, id)
	if err != nil {
		respond.Error(c, err)
		return
	}

	if res == service.AlreadyExists {
		respond.Detail(c, http.StatusOK, "Already in favorites.")
		return
	}

	respond.Detail(c, http.StatusCreated, "Added to favorites.")
}

func FavoriteRemove(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(uint)

	id, err := listingID(c)
	if err != nil {
		respond.Error(c, err)
		return
	}

	if err := d.Favorites.Remove(c.Request.Context(), userID, id); err != nil {
		respond.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func FavoriteList(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(uint)

	q, err := respond.ListQuery(c)
	if err != nil {
		respond.Error(c, err)
		return
	}

	page, err := d.Favorites.List(c.Request.Context(), userID, q)
	if err != nil {
		respond.Error(c, err)
		return
	}

	respond.Page(c, page)
}
