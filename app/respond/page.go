package respond

import (
	"automarket/internal/apperror"
	"automarket/internal/model"
	"automarket/internal/service"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type pageBody[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// Page writes p with absolute next and previous links built from the
// current request
func Page[T any](c *gin.Context, p *service.Page[T]) {
	body := pageBody[T]{
		Count:   p.Count,
		Results: p.Results,
	}

	if p.HasNext() {
		link := pageLink(c, p.Page+1)
		body.Next = &link
	}

	if p.HasPrevious() {
		link := pageLink(c, p.Page-1)
		body.Previous = &link
	}

	c.JSON(http.StatusOK, body)
}

func pageLink(c *gin.Context, page int) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}

	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	q := c.Request.URL.Query()
	if page == 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}

	u := *c.Request.URL
	u.Scheme = scheme
	u.Host = c.Request.Host
	u.RawQuery = q.Encode()

	return u.String()
}

var invalidPage = apperror.NotFound("Invalid page.")

// ListQuery reads pagination and listing filters from the query string
func ListQuery(c *gin.Context) (service.ListQuery, error) {
	q := service.ListQuery{Page: 1}

	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return q, invalidPage
		}
		q.Page = n
	}

	if v := c.Query("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return q, apperror.ValidationFailed("page_size", "A valid integer is required.")
		}
		q.PageSize = n
	}

	q.Search = strings.TrimSpace(c.Query("search"))
	q.Brand = c.Query("brand")
	q.City = c.Query("city")

	var err error
	if q.IsSold, err = boolParam(c, "is_sold"); err != nil {
		return q, err
	}

	if q.Paid, err = boolParam(c, "paid"); err != nil {
		return q, err
	}

	if q.MinPrice, err = priceParam(c, "min_price"); err != nil {
		return q, err
	}

	if q.MaxPrice, err = priceParam(c, "max_price"); err != nil {
		return q, err
	}

	if q.MinYear, err = intParam(c, "min_year"); err != nil {
		return q, err
	}

	if q.MaxYear, err = intParam(c, "max_year"); err != nil {
		return q, err
	}

	return q, nil
}

// IsTrue accepts the spellings of true clients send in query strings
func IsTrue(v string) bool {
	switch v {
	case "true", "True", "1":
		return true
	default:
		return false
	}
}

func boolParam(c *gin.Context, name string) (*bool, error) {
	v, ok := c.GetQuery(name)
	if !ok || v == "" {
		return nil, nil
	}

	switch v {
	case "true", "True", "1":
		b := true
		return &b, nil
	case "false", "False", "0":
		b := false
		return &b, nil
	default:
		return nil, apperror.ValidationFailed(name, "Must be a valid boolean.")
	}
}

func intParam(c *gin.Context, name string) (*int, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, apperror.ValidationFailed(name, "Enter a number.")
	}

	return &n, nil
}

func priceParam(c *gin.Context, name string) (*model.Price, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}

	p, err := model.ParsePrice(v)
	if err != nil {
		return nil, apperror.ValidationFailed(name, "Enter a number.")
	}

	return &p, nil
}
