package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/devcamper/internal/app/models"
	"github.com/yigit/devcamper/internal/app/models/dto"
)

func courseRequest(title string, tuition float64) *dto.CreateCourseRequest {
	return &dto.CreateCourseRequest{
		Title:        title,
		Description:  "This course will provide you with all of the essentials",
		Weeks:        "8",
		Tuition:      &tuition,
		MinimumSkill: models.SkillBeginner,
	}
}

func TestCourseService_AverageCostFollowsCourses(t *testing.T) {
	f := newFixture(0)
	ctx := context.Background()
	owner := f.user(t, "owner@gmail.com", models.RolePublisher)
	b, err := f.bootcamps.CreateBootcamp(ctx, owner, bootcampRequest("Devworks Bootcamp", "02118"))
	require.NoError(t, err)

	first, err := f.courses.CreateCourse(ctx, b.ID, owner, courseRequest("Front End", 8000))
	require.NoError(t, err)
	assert.Equal(t, b.ID, first.BootcampID)
	assert.Equal(t, owner.ID, first.UserID)

	second, err := f.courses.CreateCourse(ctx, b.ID, owner, courseRequest("Full Stack", 10001))
	require.NoError(t, err)

	stored, err := f.bootcamps.GetBootcamp(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.AverageCost)
	assert.Equal(t, 9010.0, *stored.AverageCost)

	tuition := 12000.0
	_, err = f.courses.UpdateCourse(ctx, second.ID, owner, &dto.UpdateCourseRequest{Tuition: &tuition})
	require.NoError(t, err)
	stored, err = f.bootcamps.GetBootcamp(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 10000.0, *stored.AverageCost)

	require.NoError(t, f.courses.DeleteCourse(ctx, first.ID, owner))
	require.NoError(t, f.courses.DeleteCourse(ctx, second.ID, owner))
	stored, err = f.bootcamps.GetBootcamp(ctx, b.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.AverageCost)
}

func TestCourseService_CreateChecks(t *testing.T) {
	f := newFixture(0)
	ctx := context.Background()
	owner := f.user(t, "owner@gmail.com", models.RolePublisher)
	other := f.user(t, "other@gmail.com", models.RolePublisher)
	admin := f.user(t, "admin@gmail.com", models.RoleAdmin)
	b, err := f.bootcamps.CreateBootcamp(ctx, owner, bootcampRequest("Devworks Bootcamp", "02118"))
	require.NoError(t, err)

	missing := "6f1c9b8e-2f0a-4c1e-9d5b-2a7c3e4f5a6b"
	_, err = f.courses.CreateCourse(ctx, missing, owner, courseRequest("Front End", 8000))
	requireStatus(t, err, http.StatusNotFound)
	assert.EqualError(t, err, "no bootcamp found for the id: "+missing)

	_, err = f.courses.CreateCourse(ctx, b.ID, other, courseRequest("Front End", 8000))
	requireStatus(t, err, http.StatusUnauthorized)

	course, err := f.courses.CreateCourse(ctx, b.ID, admin, courseRequest("Front End", 8000))
	require.NoError(t, err)
	assert.Equal(t, admin.ID, course.UserID)
}

func TestCourseService_UpdateAndDeleteOwnership(t *testing.T) {
	f := newFixture(0)
	ctx := context.Background()
	owner := f.user(t, "owner@gmail.com", models.RolePublisher)
	other := f.user(t, "other@gmail.com", models.RolePublisher)
	admin := f.user(t, "admin@gmail.com", models.RoleAdmin)
	b, err := f.bootcamps.CreateBootcamp(ctx, owner, bootcampRequest("Devworks Bootcamp", "02118"))
	require.NoError(t, err)
	course, err := f.courses.CreateCourse(ctx, b.ID, owner, courseRequest("Front End", 8000))
	require.NoError(t, err)

	title := "Back End"
	_, err = f.courses.UpdateCourse(ctx, course.ID, other, &dto.UpdateCourseRequest{Title: &title})
	requireStatus(t, err, http.StatusUnauthorized)
	err = f.courses.DeleteCourse(ctx, course.ID, other)
	requireStatus(t, err, http.StatusUnauthorized)

	updated, err := f.courses.UpdateCourse(ctx, course.ID, admin, &dto.UpdateCourseRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Back End", updated.Title)

	require.NoError(t, f.courses.DeleteCourse(ctx, course.ID, admin))
	_, err = f.courses.GetCourse(ctx, course.ID)
	requireStatus(t, err, http.StatusNotFound)
	assert.EqualError(t, err, "no course found for the id: "+course.ID)
}

func TestCourseService_ListByBootcamp(t *testing.T) {
	f := newFixture(0)
	ctx := context.Background()
	owner := f.user(t, "owner@gmail.com", models.RolePublisher)
	b, err := f.bootcamps.CreateBootcamp(ctx, owner, bootcampRequest("Devworks Bootcamp", "02118"))
	require.NoError(t, err)
	_, err = f.courses.CreateCourse(ctx, b.ID, owner, courseRequest("Front End", 8000))
	require.NoError(t, err)
	_, err = f.courses.CreateCourse(ctx, b.ID, owner, courseRequest("Full Stack", 10000))
	require.NoError(t, err)

	courses, err := f.courses.GetCoursesByBootcamp(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "Front End", courses[0].Title)

	_, err = f.courses.GetCoursesByBootcamp(ctx, "6f1c9b8e-2f0a-4c1e-9d5b-2a7c3e4f5a6b")
	requireStatus(t, err, http.StatusNotFound)
}
