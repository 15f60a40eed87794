package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/devcamper/internal/app/models"
	"github.com/yigit/devcamper/internal/app/models/dto"
	"github.com/yigit/devcamper/internal/app/repositories/repotest"
	"github.com/yigit/devcamper/internal/pkg/apperrors"
	"github.com/yigit/devcamper/internal/pkg/auth"
	"github.com/yigit/devcamper/internal/pkg/query"
	"github.com/yigit/devcamper/internal/pkg/validation"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := validation.Register(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	return body
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"app error", apperrors.NewBadRequestError("please upload a file"), http.StatusBadRequest, "please upload a file"},
		{"wrapped app error", fmt.Errorf("ctx: %w", apperrors.NewForbiddenError("nope")), http.StatusForbidden, "nope"},
		{"app error without status", &apperrors.AppError{Message: "mail relay down"}, http.StatusInternalServerError, "mail relay down"},
		{"invalid id", apperrors.NewInvalidIDError("abc"), http.StatusNotFound, "resource not found for id: abc"},
		{"cast failure", fmt.Errorf("error getting bootcamp: %w", &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "5d725a1b"`}), http.StatusNotFound, "resource not found for id: 5d725a1b"},
		{"duplicate", fmt.Errorf("error creating user: %w", &pgconn.PgError{Code: "23505"}), http.StatusConflict, "duplicate entry not allowed"},
		{"not null", &pgconn.PgError{Code: "23502", ColumnName: "address"}, http.StatusBadRequest, "address is required"},
		{"not found sentinel", apperrors.ErrResourceNotFound, http.StatusNotFound, "resource not found"},
		{"syntax", &json.SyntaxError{}, http.StatusBadRequest, "malformed JSON body"},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, "server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message := ClassifyError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.message, message)
		})
	}
}

type bindTarget struct {
	Name     string       `json:"name" binding:"required,max=5"`
	Email    string       `json:"email" binding:"required,email"`
	Skill    models.Skill `json:"minimumSkill" binding:"omitempty,skill"`
	Password string       `json:"password" binding:"required,min=6"`
}

func TestBindJSONValidationMessages(t *testing.T) {
	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		var req bindTarget
		if err := BindJSON(c, &req); err != nil {
			HandleAPIError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewDataResponse(req))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"toolong","minimumSkill":"guru","password":"123"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeError(t, w)
	assert.Contains(t, body.Error, "name")
	assert.Contains(t, body.Error, "email")
	assert.Contains(t, body.Error, "minimumSkill")
	assert.Contains(t, body.Error, "password")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ok","email":"a@b.com","password":"123456"}`)))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecoveryRendersServerError(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "server error", decodeError(t, w).Error)
}

func TestErrorHandlerRendersAttachedErrors(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/", func(c *gin.Context) { _ = c.Error(apperrors.NewConflictError("duplicate entry not allowed")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusConflict, w.Code)
}

type authFixture struct {
	jwt    *auth.JWTService
	router *gin.Engine
	users  map[models.Role]*models.User
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	store := repotest.NewStore()
	f := &authFixture{
		jwt:   auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", Expiration: time.Hour}),
		users: map[models.Role]*models.User{},
	}
	for _, role := range []models.Role{models.RoleUser, models.RolePublisher, models.RoleAdmin} {
		u := &models.User{Name: string(role), Email: string(role) + "@gmail.com", Role: role, Password: "x"}
		require.NoError(t, store.Users().Create(context.Background(), u))
		f.users[role] = u
	}

	m := NewAuthMiddleware(f.jwt, store.Users())
	f.router = gin.New()
	f.router.GET("/me", m.Protect(), func(c *gin.Context) {
		user, _ := CurrentUser(c)
		c.JSON(http.StatusOK, dto.NewDataResponse(user))
	})
	f.router.GET("/publish", m.Protect(), Authorize(models.RolePublisher, models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	f.router.GET("/unprotected", Authorize(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return f
}

func (f *authFixture) do(t *testing.T, path, authorization string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *authFixture) bearer(t *testing.T, userID string) string {
	t.Helper()
	token, _, err := f.jwt.GenerateToken(userID)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestProtect(t *testing.T) {
	f := newAuthFixture(t)
	user := f.users[models.RoleUser]

	w := f.do(t, "/me", f.bearer(t, user.ID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), user.ID)
	assert.NotContains(t, w.Body.String(), "password")

	w = f.do(t, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "not authorised to access the route", decodeError(t, w).Error)

	w = f.do(t, "/me", "Token abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(t, "/me", "Bearer not.a.token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "authorization failed", decodeError(t, w).Error)

	w = f.do(t, "/me", f.bearer(t, "6f1c9b8e-2f0a-4c1e-9d5b-2a7c3e4f5a6b"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthorize(t *testing.T) {
	f := newAuthFixture(t)

	w := f.do(t, "/publish", f.bearer(t, f.users[models.RolePublisher].ID))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, "/publish", f.bearer(t, f.users[models.RoleAdmin].ID))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, "/publish", f.bearer(t, f.users[models.RoleUser].ID))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "role user is not authorised to access the route", decodeError(t, w).Error)

	w = f.do(t, "/unprotected", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

var gadgets = &query.Resource{
	Name:  "gadgets",
	Table: "gadgets",
	Fields: []query.Field{
		{Name: "id", Column: "gadgets.id", Select: "gadgets.id::text", Kind: query.KindUUID},
		{Name: "name", Column: "gadgets.name", Select: "gadgets.name", Kind: query.KindString},
		{Name: "price", Column: "gadgets.price", Select: "gadgets.price", Kind: query.KindNumber},
		{Name: "createdAt", Column: "gadgets.created_at", Select: "gadgets.created_at", Kind: query.KindTime},
	},
	DefaultSort: "-createdAt",
	Relations:   map[string]string{"parts": "(SELECT json_agg(p) FROM parts p WHERE p.gadget_id = gadgets.id)"},
}

type stubFinder struct {
	rows  []map[string]interface{}
	total int64
	err   error
	seen  *query.Descriptor
}

func (f *stubFinder) Find(_ context.Context, d *query.Descriptor) ([]map[string]interface{}, int64, error) {
	f.seen = d
	return f.rows, f.total, f.err
}

func serveResults(finder query.Finder, target string) *httptest.ResponseRecorder {
	r := gin.New()
	r.GET("/gadgets", AdvancedResults(finder, gadgets, "parts"), func(c *gin.Context) {
		results, _ := GetAdvancedResults(c)
		c.JSON(http.StatusOK, results)
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestAdvancedResults(t *testing.T) {
	finder := &stubFinder{
		rows:  []map[string]interface{}{{"id": "a", "name": "one"}, {"id": "b", "name": "two"}},
		total: 7,
	}

	w := serveResults(finder, "/gadgets?price[lte]=1000&select=name&sort=name&page=2&limit=2")
	require.Equal(t, http.StatusOK, w.Code)

	var body dto.AdvancedResults
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 2, body.Count)
	require.NotNil(t, body.Pagination.Next)
	require.NotNil(t, body.Pagination.Prev)
	assert.Equal(t, dto.PageRef{Page: 3, Limit: 2}, *body.Pagination.Next)
	assert.Equal(t, dto.PageRef{Page: 1, Limit: 2}, *body.Pagination.Prev)

	require.NotNil(t, finder.seen)
	require.Len(t, finder.seen.Filters, 1)
	assert.Equal(t, query.Operator("lte"), finder.seen.Filters[0].Operator)
	assert.Equal(t, []string{"id", "name"}, finder.seen.Select)
	assert.Equal(t, []string{"parts"}, finder.seen.Populate)
}

func TestAdvancedResultsEmptyAndErrors(t *testing.T) {
	w := serveResults(&stubFinder{}, "/gadgets")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"count":0,"pagination":{},"data":[]}`, w.Body.String())

	w = serveResults(&stubFinder{}, "/gadgets?color=red")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serveResults(&stubFinder{err: errors.New("db down")}, "/gadgets")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "server error", decodeError(t, w).Error)
}

func TestRequestLoggerPassesThrough(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(zerolog.Nop()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/?a=b", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}
