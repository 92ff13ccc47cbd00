package service

import (
	"automarket/internal/apperror"
	"automarket/internal/model"
)

// Page is one page of a paginated result. Pages are 1-based
type Page[T any] struct {
	Count    int64
	Page     int
	PageSize int
	Results  []T
}

func (p *Page[T]) HasNext() bool {
	return int64(p.Page*p.PageSize) < p.Count
}

func (p *Page[T]) HasPrevious() bool {
	return p.Page > 1
}

// Paging holds the page size limits applied to every paginated query
type Paging struct {
	DefaultSize int
	MaxSize     int
}

// window turns a requested page and size into an offset and limit. A size
// of 0 picks the default and sizes above the maximum are clamped
func (p Paging) window(page, size int) (offset, limit, resolved int, err error) {
	if page < 1 {
		return 0, 0, 0, apperror.NotFound("Invalid page.")
	}

	if size <= 0 {
		size = p.DefaultSize
	}

	if p.MaxSize > 0 && size > p.MaxSize {
		size = p.MaxSize
	}

	return (page - 1) * size, size, page, nil
}

// briefPage builds the page and rejects pages past the end. The first page
// always exists, even when empty
func briefPage(listings []model.CarListing, count int64, page, size int) (*Page[model.ListingBrief], error) {
	if page > 1 && int64((page-1)*size) >= count {
		return nil, apperror.NotFound("Invalid page.")
	}

	results := make([]model.ListingBrief, len(listings))
	for i := range listings {
		results[i] = listings[i].Brief()
	}

	return &Page[model.ListingBrief]{
		Count:    count,
		Page:     page,
		PageSize: size,
		Results:  results,
	}, nil
}
