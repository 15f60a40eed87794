package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/devcamper/internal/app/models/dto"
	"github.com/yigit/devcamper/internal/pkg/helpers"
	"github.com/yigit/devcamper/internal/pkg/query"
)

// ContextAdvancedResultsKey is where AdvancedResults stores its envelope
const ContextAdvancedResultsKey = "advancedResults"

// AdvancedResults runs the filtered, sorted and paginated read described by the
// query string against resource and hands the envelope to the next handler.
// populate names relations of resource to embed in every row.
func AdvancedResults(finder query.Finder, resource *query.Resource, populate ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		desc, err := query.Parse(c.Request.URL.Query(), resource, populate...)
		if err != nil {
			HandleAPIError(c, err)
			return
		}

		rows, total, err := finder.Find(c.Request.Context(), desc)
		if err != nil {
			HandleAPIError(c, err)
			return
		}
		if rows == nil {
			rows = []map[string]interface{}{}
		}

		c.Set(ContextAdvancedResultsKey, &dto.AdvancedResults{
			Success:    true,
			Count:      len(rows),
			Pagination: helpers.NewPagination(desc.Page, desc.Limit, total),
			Data:       rows,
		})
		c.Next()
	}
}

// GetAdvancedResults returns the envelope stored by AdvancedResults
func GetAdvancedResults(c *gin.Context) (*dto.AdvancedResults, bool) {
	v, exists := c.Get(ContextAdvancedResultsKey)
	if !exists {
		return nil, false
	}
	results, ok := v.(*dto.AdvancedResults)
	return results, ok
}
