package helpers

import (
	"math"
	"net/url"
	"strconv"

	"github.com/yigit/devcamper/internal/app/models/dto"
)

const (
	DefaultPageSize = 25
	MaxPageSize     = 100
	DefaultPage     = 1 // Default page is 1-based
)

// CalculateOffsetLimit calculates the offset and limit for SQL queries based on 1-based page index.
func CalculateOffsetLimit(page, limit int) (offset uint64, size uint64) {
	page, limit = normalize(page, limit)
	return uint64((page - 1) * limit), uint64(limit)
}

// NewPagination builds the next/prev references for a page of a result of totalItems rows.
func NewPagination(page, limit int, totalItems int64) dto.Pagination {
	page, limit = normalize(page, limit)

	var p dto.Pagination
	skip := int64((page - 1) * limit)
	if skip+int64(limit) < totalItems {
		p.Next = &dto.PageRef{Page: page + 1, Limit: limit}
	}
	if skip > 0 {
		p.Prev = &dto.PageRef{Page: page - 1, Limit: limit}
	}
	return p
}

// ParsePaginationParams extracts page and limit from the query string. Invalid
// values fall back to the defaults and limit is capped at MaxPageSize.
func ParsePaginationParams(values url.Values) (page, limit int) {
	page, err := strconv.Atoi(values.Get("page"))
	if err != nil {
		page = DefaultPage
	}

	limit, err = strconv.Atoi(values.Get("limit"))
	if err != nil {
		limit = DefaultPageSize
	}

	return normalize(page, limit)
}

func normalize(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	// keep (page-1)*limit and the next page number within int
	if maxPage := math.MaxInt / limit; page > maxPage {
		page = maxPage
	}
	return page, limit
}
