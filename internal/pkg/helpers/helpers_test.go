package helpers

import (
	"math"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/devcamper/internal/app/models/dto"
)

func TestParsePaginationParams(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{name: "defaults", query: "", wantPage: 1, wantLimit: 25},
		{name: "explicit", query: "page=3&limit=10", wantPage: 3, wantLimit: 10},
		{name: "garbage", query: "page=abc&limit=x", wantPage: 1, wantLimit: 25},
		{name: "non positive", query: "page=0&limit=-4", wantPage: 1, wantLimit: 25},
		{name: "capped", query: "limit=500", wantPage: 1, wantLimit: MaxPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			assert.NoError(t, err)
			page, limit := ParsePaginationParams(values)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestCalculateOffsetLimit(t *testing.T) {
	offset, limit := CalculateOffsetLimit(3, 10)
	assert.Equal(t, uint64(20), offset)
	assert.Equal(t, uint64(10), limit)

	offset, limit = CalculateOffsetLimit(0, 0)
	assert.Equal(t, uint64(0), offset)
	assert.Equal(t, uint64(DefaultPageSize), limit)
}

func TestHugePageKeepsOffsetArithmetic(t *testing.T) {
	page, limit := ParsePaginationParams(url.Values{"page": {"200000000000000000"}, "limit": {"100"}})
	assert.Equal(t, 100, limit)
	assert.Equal(t, math.MaxInt/100, page)

	offset, _ := CalculateOffsetLimit(page, limit)
	assert.Equal(t, uint64(page-1)*uint64(limit), offset)
	assert.LessOrEqual(t, offset, uint64(math.MaxInt))

	p := NewPagination(page, limit, math.MaxInt64)
	require.NotNil(t, p.Prev)
	assert.Equal(t, page-1, p.Prev.Page)
}

func TestNewPagination(t *testing.T) {
	// first of several pages
	assert.Equal(t, dto.Pagination{Next: &dto.PageRef{Page: 2, Limit: 2}}, NewPagination(1, 2, 5))

	// middle page
	p := NewPagination(2, 2, 5)
	assert.Equal(t, &dto.PageRef{Page: 3, Limit: 2}, p.Next)
	assert.Equal(t, &dto.PageRef{Page: 1, Limit: 2}, p.Prev)

	// last page
	p = NewPagination(3, 2, 5)
	assert.Nil(t, p.Next)
	assert.Equal(t, &dto.PageRef{Page: 2, Limit: 2}, p.Prev)

	// exactly full
	p = NewPagination(2, 2, 4)
	assert.Nil(t, p.Next)

	// single page
	assert.Equal(t, dto.Pagination{}, NewPagination(1, 25, 3))

	// beyond the end still points back
	p = NewPagination(10, 2, 5)
	assert.Nil(t, p.Next)
	assert.Equal(t, &dto.PageRef{Page: 9, Limit: 2}, p.Prev)
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 30*24*time.Hour, ParseDuration("720h", time.Hour))
	assert.Equal(t, time.Hour, ParseDuration("30d", time.Hour))
}

func TestParseDays(t *testing.T) {
	assert.Equal(t, 30, ParseDays("30", 7))
	assert.Equal(t, 14, ParseDays("14d", 7))
	assert.Equal(t, 7, ParseDays("soon", 7))
	assert.Equal(t, 7, ParseDays("0", 7))
}
