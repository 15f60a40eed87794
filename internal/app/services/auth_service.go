package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/devcamper/internal/app/models"
	"github.com/yigit/devcamper/internal/app/models/dto"
	"github.com/yigit/devcamper/internal/app/repositories"
	"github.com/yigit/devcamper/internal/pkg/apperrors"
	"github.com/yigit/devcamper/internal/pkg/auth"
	"github.com/yigit/devcamper/internal/pkg/email"
)

// ResetPasswordPath is the route a reset link points at
const ResetPasswordPath = "/api/v1/auth/resetpassword/"

// AuthService handles authentication operations
type AuthService struct {
	userRepo   repositories.IUserRepository
	jwtService *auth.JWTService
	mailer     email.EmailService
	logger     zerolog.Logger
	now        func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.IUserRepository,
	jwtService *auth.JWTService,
	mailer email.EmailService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		mailer:     mailer,
		logger:     logger,
		now:        time.Now,
	}
}

// Register creates a user with the requested role and a hashed password
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Role:     role,
		Password: hashed,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("userID", user.ID).Str("role", string(user.Role)).Msg("User registered")
	return user, nil
}

// Login verifies the credentials and returns the matching user
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*models.User, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, apperrors.NewBadRequestError("please enter both email and password")
	}

	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.Wrap(apperrors.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials")
		}
		return nil, err
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		s.logger.Warn().Str("userID", user.ID).Msg("Login with wrong password")
		return nil, apperrors.Wrap(apperrors.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials")
	}
	return user, nil
}

// IssueToken signs a token for user
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	token, _, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		return "", fmt.Errorf("error generating token: %w", err)
	}
	return token, nil
}

// GetMe reloads the authenticated user
func (s *AuthService) GetMe(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewResourceNotFoundError("user not found")
		}
		return nil, err
	}
	return user, nil
}

// UpdateDetails changes the name and email of the authenticated user
func (s *AuthService) UpdateDetails(ctx context.Context, userID string, req *dto.UpdateDetailsRequest) (*models.User, error) {
	user, err := s.GetMe(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdatePassword replaces the password after checking the current one
func (s *AuthService) UpdatePassword(ctx context.Context, userID string, req *dto.UpdatePasswordRequest) (*models.User, error) {
	user, err := s.GetMe(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !auth.CheckPassword(user.Password, req.CurrentPassword) {
		return nil, apperrors.NewUnauthorizedError("password is incorrect")
	}

	hashed, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}
	user.Password = hashed
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("userID", user.ID).Msg("Password updated")
	return user, nil
}

// ForgotPassword stores a reset token hash for the user and mails the plain token
// as a link under baseURL. When the mail cannot be sent the token is withdrawn.
func (s *AuthService) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest, baseURL string) error {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return apperrors.NewResourceNotFoundError("there is no user with that email")
		}
		return err
	}

	token, hash, err := auth.GenerateResetToken()
	if err != nil {
		return fmt.Errorf("error generating reset token: %w", err)
	}
	expire := s.now().Add(auth.ResetTokenTTL)
	user.ResetPasswordToken = &hash
	user.ResetPasswordExpire = &expire
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	resetURL := strings.TrimRight(baseURL, "/") + ResetPasswordPath + token
	if err := s.mailer.SendPasswordResetEmail(ctx, user.Email, user.Name, resetURL); err != nil {
		s.logger.Error().Err(err).Str("userID", user.ID).Msg("Failed to send password reset email")

		user.ResetPasswordToken = nil
		user.ResetPasswordExpire = nil
		if clearErr := s.userRepo.Update(ctx, user); clearErr != nil {
			s.logger.Error().Err(clearErr).Str("userID", user.ID).Msg("Failed to clear reset token")
		}
		return apperrors.NewInternalError(apperrors.ErrEmailNotSent, "email could not be sent")
	}

	s.logger.Info().Str("userID", user.ID).Msg("Password reset email sent")
	return nil
}

// ResetPassword sets a new password for the holder of an unexpired reset token
func (s *AuthService) ResetPassword(ctx context.Context, token string, req *dto.ResetPasswordRequest) (*models.User, error) {
	if token == "" {
		return nil, invalidResetToken()
	}

	user, err := s.userRepo.GetByResetToken(ctx, auth.HashResetToken(token), s.now())
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, invalidResetToken()
		}
		return nil, err
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}
	user.Password = hashed
	user.ResetPasswordToken = nil
	user.ResetPasswordExpire = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("userID", user.ID).Msg("Password reset")
	return user, nil
}

func invalidResetToken() error {
	return apperrors.Wrap(apperrors.ErrInvalidPasswordResetToken, http.StatusBadRequest, "invalid token")
}
