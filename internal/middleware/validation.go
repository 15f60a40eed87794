package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/devcamper/internal/pkg/apperrors"
	"github.com/yigit/devcamper/internal/pkg/validation"
)

// BindJSON decodes and validates the request body into obj. Validation
// failures come back as a single 400 listing every field.
func BindJSON(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		if messages := validation.Messages(err); len(messages) > 0 {
			return apperrors.NewValidationError(messages...)
		}
		return err
	}
	return nil
}
