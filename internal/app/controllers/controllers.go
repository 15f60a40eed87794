// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yigit/devcamper/internal/app/models"
	"github.com/yigit/devcamper/internal/middleware"
	"github.com/yigit/devcamper/internal/pkg/apperrors"
)

// pathID reads a UUID path parameter. Malformed ids are reported as not found.
func pathID(ctx *gin.Context, name string) (string, bool) {
	raw := ctx.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewInvalidIDError(raw))
		return "", false
	}
	return id.String(), true
}

// currentUser returns the user set by the Protect middleware
func currentUser(ctx *gin.Context) (*models.User, bool) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.NewUnauthorizedError("not authorised to access the route"))
		return nil, false
	}
	return user, true
}

// advancedResults writes the envelope prepared by the AdvancedResults middleware
func advancedResults(ctx *gin.Context) {
	results, ok := middleware.GetAdvancedResults(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.NewInternalError(nil, "server error"))
		return
	}
	ctx.JSON(http.StatusOK, results)
}
