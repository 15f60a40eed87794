package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/devcamper/internal/app/models"
	"github.com/yigit/devcamper/internal/pkg/apperrors"
	"github.com/yigit/devcamper/internal/pkg/auth"
	"github.com/yigit/devcamper/internal/pkg/dberrors"
)

// ContextUserKey is where Protect stores the authenticated *models.User
const ContextUserKey = "currentUser"

// UserLookup resolves the user a token was issued to
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	users      UserLookup
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, users UserLookup) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		users:      users,
	}
}

// Protect requires a valid bearer token whose user still exists
func (m *AuthMiddleware) Protect() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			HandleAPIError(c, apperrors.NewUnauthorizedError("not authorised to access the route"))
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				HandleAPIError(c, apperrors.Wrap(apperrors.ErrTokenExpired, http.StatusUnauthorized, "token expired"))
				return
			}
			HandleAPIError(c, apperrors.Wrap(apperrors.ErrTokenInvalid, http.StatusUnauthorized, "authorization failed"))
			return
		}

		user, err := m.users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, apperrors.ErrResourceNotFound) || dberrors.IsInvalidTextRepresentation(err) {
				HandleAPIError(c, apperrors.NewUnauthorizedError("authorization failed"))
				return
			}
			HandleAPIError(c, err)
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// Authorize lets only the given roles through. It must run after Protect.
func Authorize(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			HandleAPIError(c, apperrors.NewUnauthorizedError("not authorised to access the route"))
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		HandleAPIError(c, apperrors.NewForbiddenError("role %s is not authorised to access the route", user.Role))
	}
}

// CurrentUser returns the user stored by Protect
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}
