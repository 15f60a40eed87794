package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/devcamper/internal/app/models"
	"github.com/yigit/devcamper/internal/app/models/dto"
	"github.com/yigit/devcamper/internal/app/repositories/repotest"
	"github.com/yigit/devcamper/internal/pkg/auth"
	"github.com/yigit/devcamper/internal/pkg/dberrors"
)

func TestUserService_CRUD(t *testing.T) {
	s := NewUserService(repotest.NewStore().Users(), nopLogger)
	ctx := context.Background()

	user, err := s.CreateUser(ctx, &dto.CreateUserRequest{Name: "Admin", Email: "ADMIN@gmail.com", Password: "123456", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, "admin@gmail.com", user.Email)
	assert.True(t, auth.CheckPassword(user.Password, "123456"))

	_, err = s.CreateUser(ctx, &dto.CreateUserRequest{Name: "Dup", Email: "admin@gmail.com", Password: "123456"})
	require.Error(t, err)
	assert.True(t, dberrors.IsUniqueViolation(err))

	role := models.RolePublisher
	password := "abcdef"
	updated, err := s.UpdateUser(ctx, user.ID, &dto.UpdateUserRequest{Role: &role, Password: &password})
	require.NoError(t, err)
	assert.Equal(t, models.RolePublisher, updated.Role)
	assert.Equal(t, "Admin", updated.Name)

	got, err := s.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(got.Password, "abcdef"))

	require.NoError(t, s.DeleteUser(ctx, user.ID))
	_, err = s.GetUserByID(ctx, user.ID)
	requireStatus(t, err, http.StatusNotFound)
	assert.EqualError(t, err, "user details for id: "+user.ID+" is not found")

	err = s.DeleteUser(ctx, user.ID)
	requireStatus(t, err, http.StatusNotFound)
}
