package auth

import (
	"context"
	"errors"

	"github.com/yigit/devcamper/internal/app/models"
	"github.com/yigit/devcamper/internal/app/repositories"
	"github.com/yigit/devcamper/internal/pkg/apperrors"
	"github.com/yigit/devcamper/internal/pkg/logger"
)

// Actions named in ownership failures
const (
	ActionUpdate    = "update"
	ActionDelete    = "delete"
	ActionAddCourse = "add a course to"
	ActionUpload    = "upload a photo for"
)

// AuthorizationService handles ownership checks on bootcamps and courses
type AuthorizationService struct {
	bootcampRepo repositories.IBootcampRepository
	courseRepo   repositories.ICourseRepository
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(bootcampRepo repositories.IBootcampRepository, courseRepo repositories.ICourseRepository) *AuthorizationService {
	return &AuthorizationService{
		bootcampRepo: bootcampRepo,
		courseRepo:   courseRepo,
	}
}

// Owned is implemented by resources that record the user who created them
type Owned interface {
	OwnedBy(userID string) bool
}

// CanModify reports whether user may change resource. Admins may change anything.
func CanModify(user *models.User, resource Owned) bool {
	if user == nil {
		return false
	}
	return user.IsAdmin() || resource.OwnedBy(user.ID)
}

// BootcampNotFound is the error returned for a missing bootcamp
func BootcampNotFound(id string) error {
	return apperrors.NewResourceNotFoundError("bootcamp not found with id of %s", id)
}

// CourseNotFound is the error returned for a missing course
func CourseNotFound(id string) error {
	return apperrors.NewResourceNotFoundError("no course found for the id: %s", id)
}

// AuthorizeBootcamp loads the bootcamp and checks that user may perform action on it
func (s *AuthorizationService) AuthorizeBootcamp(ctx context.Context, bootcampID string, user *models.User, action string) (*models.Bootcamp, error) {
	bootcamp, err := s.bootcampRepo.GetByID(ctx, bootcampID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, BootcampNotFound(bootcampID)
		}
		return nil, err
	}

	if !CanModify(user, bootcamp) {
		logger.Warn().Str("userID", userID(user)).Str("bootcampID", bootcampID).Str("action", action).
			Msg("Ownership check failed for bootcamp")
		return nil, apperrors.NewUnauthorizedError("user %s is not authorised to %s bootcamp %s", userID(user), action, bootcampID)
	}
	return bootcamp, nil
}

// AuthorizeCourse loads the course and checks that user may perform action on it
func (s *AuthorizationService) AuthorizeCourse(ctx context.Context, courseID string, user *models.User, action string) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, CourseNotFound(courseID)
		}
		return nil, err
	}

	if !CanModify(user, course) {
		logger.Warn().Str("userID", userID(user)).Str("courseID", courseID).Str("action", action).
			Msg("Ownership check failed for course")
		return nil, apperrors.NewUnauthorizedError("user %s is not authorised to %s course %s", userID(user), action, courseID)
	}
	return course, nil
}

func userID(user *models.User) string {
	if user == nil {
		return ""
	}
	return user.ID
}
