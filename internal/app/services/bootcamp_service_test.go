package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/devcamper/internal/app/models"
	"github.com/yigit/devcamper/internal/app/models/dto"
)

func bootcampRequest(name, address string) *dto.CreateBootcampRequest {
	housing := true
	return &dto.CreateBootcampRequest{
		Name:        name,
		Description: "Devworks is a full stack JavaScript Bootcamp",
		Website:     "https://devworks.com",
		Phone:       "(111) 111-1111",
		Email:       "enroll@devworks.com",
		Address:     address,
		Careers:     []models.Career{models.CareerWebDevelopment, models.CareerUIUX},
		Housing:     &housing,
	}
}

func TestBootcampService_Create(t *testing.T) {
	f := newFixture(0)
	publisher := f.user(t, "pub@gmail.com", models.RolePublisher)

	b, err := f.bootcamps.CreateBootcamp(context.Background(), publisher, bootcampRequest("Devworks Bootcamp", "233 Bay State Rd Boston MA 02215"))
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, "devworks-bootcamp", b.Slug)
	assert.Equal(t, publisher.ID, b.UserID)
	assert.Equal(t, models.DefaultPhoto, b.Photo)
	assert.True(t, b.Housing)
	assert.False(t, b.AcceptGi)
	require.NotNil(t, b.Location)
	assert.Equal(t, "Boston", b.Location.City)
	assert.InDelta(t, 42.350846, b.Location.Latitude(), 1e-9)
}

func TestBootcampService_OneBootcampPerPublisher(t *testing.T) {
	f := newFixture(0)
	ctx := context.Background()
	publisher := f.user(t, "pub@gmail.com", models.RolePublisher)
	admin := f.user(t, "admin@gmail.com", models.RoleAdmin)

	_, err := f.bootcamps.CreateBootcamp(ctx, publisher, bootcampRequest("First", "02118"))
	require.NoError(t, err)
	_, err = f.bootcamps.CreateBootcamp(ctx, publisher, bootcampRequest("Second", "02118"))
	requireStatus(t, err, http.StatusForbidden)

	_, err = f.bootcamps.CreateBootcamp(ctx, admin, bootcampRequest("Admin One", "02118"))
	require.NoError(t, err)
	_, err = f.bootcamps.CreateBootcamp(ctx, admin, bootcampRequest("Admin Two", "02118"))
	require.NoError(t, err)
}

func TestBootcampService_CreateUngeocodableAddress(t *testing.T) {
	f := newFixture(0)
	publisher := f.user(t, "pub@gmail.com", models.RolePublisher)

	_, err := f.bootcamps.CreateBootcamp(context.Background(), publisher, bootcampRequest("Nowhere", "nowhere at all"))
	requireStatus(t, err, http.StatusBadRequest)
}

func TestBootcampService_GetMissing(t *testing.T) {
	f := newFixture(0)
	_, err := f.bootcamps.GetBootcamp(context.Background(), "6f1c9b8e-2f0a-4c1e-9d5b-2a7c3e4f5a6b")
	requireStatus(t, err, http.StatusNotFound)
	assert.EqualError(t, err, "bootcamp not found with id of 6f1c9b8e-2f0a-4c1e-9d5b-2a7c3e4f5a6b")
}

func TestBootcampService_UpdateOwnership(t *testing.T) {
	f := newFixture(0)
	ctx := context.Background()
	owner := f.user(t, "owner@gmail.com", models.RolePublisher)
	other := f.user(t, "other@gmail.com", models.RolePublisher)
	admin := f.user(t, "admin@gmail.com", models.RoleAdmin)

	b, err := f.bootcamps.CreateBootcamp(ctx, owner, bootcampRequest("Devworks Bootcamp", "02118"))
	require.NoError(t, err)

	name := "Renamed Camp"
	_, err = f.bootcamps.UpdateBootcamp(ctx, b.ID, other, &dto.UpdateBootcampRequest{Name: &name})
	requireStatus(t, err, http.StatusUnauthorized)

	updated, err := f.bootcamps.UpdateBootcamp(ctx, b.ID, admin, &dto.UpdateBootcampRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "renamed-camp", updated.Slug)
	assert.Equal(t, owner.ID, updated.UserID)

	address := "45 Upper College Rd Kingston RI 02881"
	updated, err = f.bootcamps.UpdateBootcamp(ctx, b.ID, owner, &dto.UpdateBootcampRequest{Address: &address})
	require.NoError(t, err)
	assert.Equal(t, "Kingston", updated.Location.City)

	stored, err := f.bootcamps.GetBootcamp(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed Camp", stored.Name)
	assert.Equal(t, address, stored.Address)
}

func TestBootcampService_DeleteRemovesCoursesAndPhoto(t *testing.T) {
	f := newFixture(1 << 20)
	ctx := context.Background()
	owner := f.user(t, "owner@gmail.com", models.RolePublisher)

	b, err := f.bootcamps.CreateBootcamp(ctx, owner, bootcampRequest("Devworks Bootcamp", "02118"))
	require.NoError(t, err)
	course, err := f.courses.CreateCourse(ctx, b.ID, owner, courseRequest("Front End", 8000))
	require.NoError(t, err)
	photo, err := f.bootcamps.UploadPhoto(ctx, b.ID, owner, newFileHeader(t, "me.png", pngBytes))
	require.NoError(t, err)

	require.NoError(t, f.bootcamps.DeleteBootcamp(ctx, b.ID, owner))

	_, err = f.bootcamps.GetBootcamp(ctx, b.ID)
	requireStatus(t, err, http.StatusNotFound)
	_, err = f.courses.GetCourse(ctx, course.ID)
	requireStatus(t, err, http.StatusNotFound)
	assert.Contains(t, f.storage.deleted, photo)
}

func TestBootcampService_Radius(t *testing.T) {
	f := newFixture(0)
	ctx := context.Background()
	boston := f.user(t, "boston@gmail.com", models.RolePublisher)
	kingston := f.user(t, "kingston@gmail.com", models.RolePublisher)

	near, err := f.bootcamps.CreateBootcamp(ctx, boston, bootcampRequest("Boston Camp", "233 Bay State Rd Boston MA 02215"))
	require.NoError(t, err)
	_, err = f.bootcamps.CreateBootcamp(ctx, kingston, bootcampRequest("Kingston Camp", "45 Upper College Rd Kingston RI 02881"))
	require.NoError(t, err)

	found, err := f.bootcamps.GetBootcampsInRadius(ctx, "02118", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, near.ID, found[0].ID)

	found, err = f.bootcamps.GetBootcampsInRadius(ctx, "02118", 100)
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = f.bootcamps.GetBootcampsInRadius(ctx, "10001", 10)
	require.NoError(t, err)
	assert.Empty(t, found)

	_, err = f.bootcamps.GetBootcampsInRadius(ctx, "00000", 10)
	requireStatus(t, err, http.StatusBadRequest)
}

func TestBootcampService_UploadPhoto(t *testing.T) {
	f := newFixture(1024)
	ctx := context.Background()
	owner := f.user(t, "owner@gmail.com", models.RolePublisher)
	other := f.user(t, "other@gmail.com", models.RolePublisher)

	b, err := f.bootcamps.CreateBootcamp(ctx, owner, bootcampRequest("Devworks Bootcamp", "02118"))
	require.NoError(t, err)

	name, err := f.bootcamps.UploadPhoto(ctx, b.ID, owner, newFileHeader(t, "Avatar.PNG", pngBytes))
	require.NoError(t, err)
	assert.Equal(t, "photo_"+b.ID+".png", name)
	assert.Equal(t, pngBytes, f.storage.files[name])

	stored, err := f.bootcamps.GetBootcamp(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, name, stored.Photo)

	_, err = f.bootcamps.UploadPhoto(ctx, b.ID, owner, newFileHeader(t, "notes.png", []byte("just some text")))
	requireStatus(t, err, http.StatusBadRequest)
	assert.EqualError(t, err, "please upload an image file")

	big := append(append([]byte{}, pngBytes...), make([]byte, 2048)...)
	_, err = f.bootcamps.UploadPhoto(ctx, b.ID, owner, newFileHeader(t, "big.png", big))
	requireStatus(t, err, http.StatusBadRequest)

	_, err = f.bootcamps.UploadPhoto(ctx, b.ID, other, newFileHeader(t, "me.png", pngBytes))
	requireStatus(t, err, http.StatusUnauthorized)

	f.storage.saveErr = errors.New("disk full")
	_, err = f.bootcamps.UploadPhoto(ctx, b.ID, owner, newFileHeader(t, "me.png", pngBytes))
	requireStatus(t, err, http.StatusInternalServerError)
}
