package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	appauth "github.com/yigit/devcamper/internal/app/auth"
	"github.com/yigit/devcamper/internal/app/models"
	"github.com/yigit/devcamper/internal/app/models/dto"
	"github.com/yigit/devcamper/internal/app/repositories"
	"github.com/yigit/devcamper/internal/pkg/apperrors"
)

// CourseService defines the interface for course operations
type CourseService interface {
	GetCoursesByBootcamp(ctx context.Context, bootcampID string) ([]*models.Course, error)
	GetCourse(ctx context.Context, id string) (*models.Course, error)
	CreateCourse(ctx context.Context, bootcampID string, user *models.User, req *dto.CreateCourseRequest) (*models.Course, error)
	UpdateCourse(ctx context.Context, id string, user *models.User, req *dto.UpdateCourseRequest) (*models.Course, error)
	DeleteCourse(ctx context.Context, id string, user *models.User) error
}

// courseServiceImpl implements CourseService. Every mutation is followed by a
// recomputation of the parent bootcamp's average cost.
type courseServiceImpl struct {
	courseRepo   repositories.ICourseRepository
	bootcampRepo repositories.IBootcampRepository
	authz        *appauth.AuthorizationService
	logger       zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(
	courseRepo repositories.ICourseRepository,
	bootcampRepo repositories.IBootcampRepository,
	authz *appauth.AuthorizationService,
	logger zerolog.Logger,
) CourseService {
	return &courseServiceImpl{
		courseRepo:   courseRepo,
		bootcampRepo: bootcampRepo,
		authz:        authz,
		logger:       logger,
	}
}

// GetCoursesByBootcamp lists the courses of an existing bootcamp
func (s *courseServiceImpl) GetCoursesByBootcamp(ctx context.Context, bootcampID string) ([]*models.Course, error) {
	if _, err := s.bootcampRepo.GetByID(ctx, bootcampID); err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewResourceNotFoundError("no bootcamp found for the id: %s", bootcampID)
		}
		return nil, err
	}
	return s.courseRepo.ListByBootcamp(ctx, bootcampID)
}

// GetCourse retrieves a course by ID
func (s *courseServiceImpl) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, appauth.CourseNotFound(id)
		}
		return nil, err
	}
	return course, nil
}

// CreateCourse adds a course to a bootcamp the user may modify
func (s *courseServiceImpl) CreateCourse(ctx context.Context, bootcampID string, user *models.User, req *dto.CreateCourseRequest) (*models.Course, error) {
	bootcamp, err := s.authz.AuthorizeBootcamp(ctx, bootcampID, user, appauth.ActionAddCourse)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewResourceNotFoundError("no bootcamp found for the id: %s", bootcampID)
		}
		return nil, err
	}

	course := &models.Course{
		Title:                strings.TrimSpace(req.Title),
		Description:          req.Description,
		Weeks:                req.Weeks,
		MinimumSkill:         req.MinimumSkill,
		ScholarshipAvailable: req.ScholarshipAvailable,
		BootcampID:           bootcamp.ID,
		UserID:               user.ID,
	}
	if req.Tuition != nil {
		course.Tuition = *req.Tuition
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}
	s.recomputeAverageCost(ctx, course.BootcampID)

	s.logger.Info().Str("courseID", course.ID).Str("bootcampID", bootcamp.ID).Msg("Course created")
	return course, nil
}

// UpdateCourse applies a partial update to a course the user may modify
func (s *courseServiceImpl) UpdateCourse(ctx context.Context, id string, user *models.User, req *dto.UpdateCourseRequest) (*models.Course, error) {
	course, err := s.authz.AuthorizeCourse(ctx, id, user, appauth.ActionUpdate)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		course.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Weeks != nil {
		course.Weeks = *req.Weeks
	}
	if req.Tuition != nil {
		course.Tuition = *req.Tuition
	}
	if req.MinimumSkill != nil {
		course.MinimumSkill = *req.MinimumSkill
	}
	if req.ScholarshipAvailable != nil {
		course.ScholarshipAvailable = *req.ScholarshipAvailable
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}
	s.recomputeAverageCost(ctx, course.BootcampID)
	return course, nil
}

// DeleteCourse removes a course the user may modify
func (s *courseServiceImpl) DeleteCourse(ctx context.Context, id string, user *models.User) error {
	course, err := s.authz.AuthorizeCourse(ctx, id, user, appauth.ActionDelete)
	if err != nil {
		return err
	}

	if err := s.courseRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.recomputeAverageCost(ctx, course.BootcampID)

	s.logger.Info().Str("courseID", id).Str("userID", user.ID).Msg("Course deleted")
	return nil
}

// recomputeAverageCost refreshes the derived cost; a failure is logged and does
// not undo the course change.
func (s *courseServiceImpl) recomputeAverageCost(ctx context.Context, bootcampID string) {
	if err := s.bootcampRepo.UpdateAverageCost(ctx, bootcampID); err != nil {
		s.logger.Error().Err(err).Str("bootcampID", bootcampID).Msg("Failed to recompute average cost")
	}
}
