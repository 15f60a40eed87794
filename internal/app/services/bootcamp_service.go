package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gosimple/slug"
	"github.com/rs/zerolog"
	appauth "github.com/yigit/devcamper/internal/app/auth"
	"github.com/yigit/devcamper/internal/app/models"
	"github.com/yigit/devcamper/internal/app/models/dto"
	"github.com/yigit/devcamper/internal/app/repositories"
	"github.com/yigit/devcamper/internal/pkg/apperrors"
	"github.com/yigit/devcamper/internal/pkg/filestorage"
	"github.com/yigit/devcamper/internal/pkg/geocoder"
)

// BootcampService defines the interface for bootcamp operations
type BootcampService interface {
	GetBootcamp(ctx context.Context, id string) (*models.Bootcamp, error)
	CreateBootcamp(ctx context.Context, user *models.User, req *dto.CreateBootcampRequest) (*models.Bootcamp, error)
	UpdateBootcamp(ctx context.Context, id string, user *models.User, req *dto.UpdateBootcampRequest) (*models.Bootcamp, error)
	DeleteBootcamp(ctx context.Context, id string, user *models.User) error
	GetBootcampsInRadius(ctx context.Context, zipcode string, miles float64) ([]*models.Bootcamp, error)
	UploadPhoto(ctx context.Context, id string, user *models.User, file *multipart.FileHeader) (string, error)
}

// bootcampServiceImpl implements BootcampService
type bootcampServiceImpl struct {
	bootcampRepo  repositories.IBootcampRepository
	authz         *appauth.AuthorizationService
	geocoder      geocoder.Geocoder
	fileStorage   filestorage.FileStorage
	maxUploadSize int64
	logger        zerolog.Logger
}

// NewBootcampService creates a new BootcampService. A nil geocoder leaves
// locations empty and disables radius search.
func NewBootcampService(
	bootcampRepo repositories.IBootcampRepository,
	authz *appauth.AuthorizationService,
	geo geocoder.Geocoder,
	fileStorage filestorage.FileStorage,
	maxUploadSize int64,
	logger zerolog.Logger,
) BootcampService {
	return &bootcampServiceImpl{
		bootcampRepo:  bootcampRepo,
		authz:         authz,
		geocoder:      geo,
		fileStorage:   fileStorage,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}

// GetBootcamp retrieves a bootcamp by ID
func (s *bootcampServiceImpl) GetBootcamp(ctx context.Context, id string) (*models.Bootcamp, error) {
	bootcamp, err := s.bootcampRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, appauth.BootcampNotFound(id)
		}
		return nil, err
	}
	return bootcamp, nil
}

func (s *bootcampServiceImpl) geocode(ctx context.Context, address string) (*models.Location, error) {
	if s.geocoder == nil {
		return nil, nil
	}
	loc, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		if errors.Is(err, geocoder.ErrNoResults) {
			return nil, apperrors.NewBadRequestError("could not geocode address: %s", address)
		}
		return nil, fmt.Errorf("error geocoding address: %w", err)
	}
	return loc, nil
}

// CreateBootcamp publishes a bootcamp owned by user. Only admins may publish more than one.
func (s *bootcampServiceImpl) CreateBootcamp(ctx context.Context, user *models.User, req *dto.CreateBootcampRequest) (*models.Bootcamp, error) {
	if !user.IsAdmin() {
		count, err := s.bootcampRepo.CountByUser(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, apperrors.NewForbiddenError("the user with id %s has already published a bootcamp", user.ID)
		}
	}

	name := strings.TrimSpace(req.Name)
	bootcamp := &models.Bootcamp{
		Name:          name,
		Slug:          slug.Make(name),
		Description:   req.Description,
		Website:       req.Website,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		Careers:       req.Careers,
		Photo:         models.DefaultPhoto,
		Housing:       boolValue(req.Housing),
		JobAssistance: boolValue(req.JobAssistance),
		JobGuarantee:  boolValue(req.JobGuarantee),
		AcceptGi:      boolValue(req.AcceptGi),
		UserID:        user.ID,
	}

	loc, err := s.geocode(ctx, req.Address)
	if err != nil {
		return nil, err
	}
	bootcamp.Location = loc

	if err := s.bootcampRepo.Create(ctx, bootcamp); err != nil {
		return nil, err
	}

	s.logger.Info().Str("bootcampID", bootcamp.ID).Str("userID", user.ID).Msg("Bootcamp created")
	return bootcamp, nil
}

// UpdateBootcamp applies a partial update. The slug follows the name and the
// location follows the address.
func (s *bootcampServiceImpl) UpdateBootcamp(ctx context.Context, id string, user *models.User, req *dto.UpdateBootcampRequest) (*models.Bootcamp, error) {
	bootcamp, err := s.authz.AuthorizeBootcamp(ctx, id, user, appauth.ActionUpdate)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		bootcamp.Name = strings.TrimSpace(*req.Name)
		bootcamp.Slug = slug.Make(bootcamp.Name)
	}
	if req.Description != nil {
		bootcamp.Description = *req.Description
	}
	if req.Website != nil {
		bootcamp.Website = *req.Website
	}
	if req.Phone != nil {
		bootcamp.Phone = *req.Phone
	}
	if req.Email != nil {
		bootcamp.Email = *req.Email
	}
	if req.Careers != nil {
		bootcamp.Careers = req.Careers
	}
	if req.Housing != nil {
		bootcamp.Housing = *req.Housing
	}
	if req.JobAssistance != nil {
		bootcamp.JobAssistance = *req.JobAssistance
	}
	if req.JobGuarantee != nil {
		bootcamp.JobGuarantee = *req.JobGuarantee
	}
	if req.AcceptGi != nil {
		bootcamp.AcceptGi = *req.AcceptGi
	}
	if req.Address != nil && *req.Address != bootcamp.Address {
		loc, err := s.geocode(ctx, *req.Address)
		if err != nil {
			return nil, err
		}
		bootcamp.Address = *req.Address
		bootcamp.Location = loc
	}

	if err := s.bootcampRepo.Update(ctx, bootcamp); err != nil {
		return nil, err
	}
	return bootcamp, nil
}

// DeleteBootcamp removes a bootcamp together with its courses and photo
func (s *bootcampServiceImpl) DeleteBootcamp(ctx context.Context, id string, user *models.User) error {
	bootcamp, err := s.authz.AuthorizeBootcamp(ctx, id, user, appauth.ActionDelete)
	if err != nil {
		return err
	}

	if err := s.bootcampRepo.Delete(ctx, id); err != nil {
		return err
	}

	if bootcamp.Photo != "" && bootcamp.Photo != models.DefaultPhoto {
		if err := s.fileStorage.Delete(ctx, bootcamp.Photo); err != nil {
			s.logger.Warn().Err(err).Str("photo", bootcamp.Photo).Msg("Failed to delete bootcamp photo")
		}
	}

	s.logger.Info().Str("bootcampID", id).Str("userID", user.ID).Msg("Bootcamp deleted")
	return nil
}

// GetBootcampsInRadius returns the bootcamps within miles of the zipcode
func (s *bootcampServiceImpl) GetBootcampsInRadius(ctx context.Context, zipcode string, miles float64) ([]*models.Bootcamp, error) {
	if s.geocoder == nil {
		return nil, apperrors.New(http.StatusServiceUnavailable, "geocoding is not available")
	}
	if miles < 0 {
		return nil, apperrors.NewBadRequestError("distance must not be negative")
	}

	loc, err := s.geocode(ctx, zipcode)
	if err != nil {
		return nil, err
	}
	return s.bootcampRepo.FindWithinRadius(ctx, loc.Latitude(), loc.Longitude(), miles)
}

// UploadPhoto stores an image as photo_<id><ext> and records it on the bootcamp
func (s *bootcampServiceImpl) UploadPhoto(ctx context.Context, id string, user *models.User, fileHeader *multipart.FileHeader) (string, error) {
	bootcamp, err := s.authz.AuthorizeBootcamp(ctx, id, user, appauth.ActionUpload)
	if err != nil {
		return "", err
	}
	if fileHeader == nil {
		return "", apperrors.NewBadRequestError("please upload a file")
	}
	if s.maxUploadSize > 0 && fileHeader.Size > s.maxUploadSize {
		return "", apperrors.NewBadRequestError("please upload an image less than %d bytes", s.maxUploadSize)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("error opening uploaded file: %w", err)
	}
	defer file.Close()

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return "", fmt.Errorf("error reading uploaded file: %w", err)
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", apperrors.NewBadRequestError("please upload an image file")
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("error rewinding uploaded file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext == "" {
		ext = mtype.Extension()
	}
	name := fmt.Sprintf("photo_%s%s", bootcamp.ID, ext)

	stored, err := s.fileStorage.Save(ctx, name, file, fileHeader.Size, mtype.String())
	if err != nil {
		s.logger.Error().Err(err).Str("bootcampID", bootcamp.ID).Msg("Failed to store bootcamp photo")
		return "", apperrors.NewInternalError(err, "problem with file upload")
	}

	if err := s.bootcampRepo.UpdatePhoto(ctx, bootcamp.ID, stored); err != nil {
		return "", err
	}

	if old := bootcamp.Photo; old != "" && old != models.DefaultPhoto && old != stored {
		if err := s.fileStorage.Delete(ctx, old); err != nil {
			s.logger.Warn().Err(err).Str("photo", old).Msg("Failed to delete replaced photo")
		}
	}

	s.logger.Info().Str("bootcampID", bootcamp.ID).Str("photo", stored).Msg("Bootcamp photo uploaded")
	return stored, nil
}

func boolValue(b *bool) bool {
	return b != nil && *b
}
