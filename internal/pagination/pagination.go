// Package pagination normalizes page/limit query parameters and computes
// page metadata for list endpoints.
package pagination

import (
	"math"
	"strconv"

	"gorm.io/gorm"
)

const (
	// DefaultPage is used when no page parameter is supplied.
	DefaultPage = 1
	// DefaultLimit is used when no limit parameter is supplied.
	DefaultLimit = 10
	// MaxLimit bounds the page size regardless of what the client asks for.
	MaxLimit = 100
)

// Parse normalizes raw page/limit query strings. Malformed or out-of-range
// values fall back to safe bounds instead of failing the request.
func Parse(pageStr, limitStr string) (page, limit int) {
	page = DefaultPage
	if n, err := strconv.Atoi(pageStr); err == nil {
		page = n
	}
	if page < 1 {
		page = 1
	}

	limit = DefaultLimit
	if n, err := strconv.Atoi(limitStr); err == nil {
		limit = n
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// Offset returns the SQL OFFSET for the given page and limit.
func Offset(page, limit int) int {
	return (page - 1) * limit
}

// Meta describes a page of results.
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
	NextPage   *int  `json:"nextPage"`
	PrevPage   *int  `json:"prevPage"`
}

// NewMeta computes page metadata from the normalized page/limit and the
// total matching count. total = 0 yields zero pages and no next page.
func NewMeta(page, limit int, total int64) Meta {
	totalPages := int(math.Ceil(float64(total) / float64(limit)))

	meta := Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
	if meta.HasNext {
		next := page + 1
		meta.NextPage = &next
	}
	if meta.HasPrev {
		prev := page - 1
		meta.PrevPage = &prev
	}
	return meta
}

// Paginate returns a GORM scope that applies OFFSET and LIMIT for the given page.
func Paginate(page, limit int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(Offset(page, limit)).Limit(limit)
	}
}
