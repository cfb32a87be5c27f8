package pagination

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Params represents pagination parameters
type Params struct {
	Page   int `json:"page"`
	Limit  int `json:"limit"`
	Offset int `json:"-"`
}

// Meta represents pagination metadata. From and To are 1-based positions of
// the first and last item on the page ("showing From-To of Total"); both are
// 0 when the page is empty.
type Meta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	From       int  `json:"from"`
	To         int  `json:"to"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// DefaultLimit is the catalog page size
const DefaultLimit = 6

// NewParams builds params for a 1-based page index; out-of-range values are clamped
func NewParams(page, limit int) *Params {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// GetParams extracts the page index from the request; the page size is fixed
// by the caller
func GetParams(c *fiber.Ctx, limit int) *Params {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	return NewParams(page, limit)
}

// GetMeta calculates pagination metadata
func GetMeta(params *Params, total int) *Meta {
	totalPages := total / params.Limit
	if total%params.Limit > 0 {
		totalPages++
	}

	meta := &Meta{
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
		HasPrev:    params.Page > 1,
	}
	if params.Offset < total {
		meta.From = params.Offset + 1
		meta.To = params.Offset + params.Limit
		if meta.To > total {
			meta.To = total
		}
	}
	return meta
}

// Bounds returns the [start, end) slice bounds of the page within total items
func Bounds(params *Params, total int) (int, int) {
	start := params.Offset
	if start > total {
		start = total
	}
	end := start + params.Limit
	if end > total {
		end = total
	}
	return start, end
}
