package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/devcamper/internal/app/models"
	"github.com/yigit/devcamper/internal/app/models/dto"
	"github.com/yigit/devcamper/internal/app/services"
	"github.com/yigit/devcamper/internal/middleware"
)

// TokenCookieName is the cookie the token response sets
const TokenCookieName = "token"

// CookieConfig controls the token cookie
type CookieConfig struct {
	MaxAge int
	Secure bool
}

// AuthController handles authentication related operations
type AuthController struct {
	authService *services.AuthService
	cookie      CookieConfig
	baseURL     string
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController. baseURL prefixes password
// reset links; when empty the request's scheme and host are used.
func NewAuthController(authService *services.AuthService, cookie CookieConfig, baseURL string, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		cookie:      cookie,
		baseURL:     strings.TrimRight(baseURL, "/"),
		logger:      logger,
	}
}

// sendTokenResponse signs a token for user and returns it both in the body and as a cookie
func (c *AuthController) sendTokenResponse(ctx *gin.Context, user *models.User, status int) {
	token, err := c.authService.IssueToken(user)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(TokenCookieName, token, c.cookie.MaxAge, "/", "", c.cookie.Secure, true)
	ctx.JSON(status, dto.TokenResponse{Success: true, Token: token})
}

func (c *AuthController) requestBaseURL(ctx *gin.Context) string {
	if c.baseURL != "" {
		return c.baseURL
	}
	scheme := "http"
	if ctx.Request.TLS != nil {
		scheme = "https"
	}
	if proto := ctx.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + ctx.Request.Host
}

// Register handles user registration
// @Summary Register a new user
// @Description Creates a user or publisher account and returns a signed token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "User registration information"
// @Success 200 {object} dto.TokenResponse "User registered"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := middleware.BindJSON(ctx, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	user, err := c.authService.Register(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("userID", user.ID).Str("role", string(user.Role)).Msg("User registered")
	c.sendTokenResponse(ctx, user, http.StatusOK)
}

// Login handles user login
// @Summary User login
// @Description Authenticates a user and returns a signed token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.TokenResponse "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Email or password missing"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := middleware.BindJSON(ctx, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	user, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("email", req.Email).Msg("Login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.sendTokenResponse(ctx, user, http.StatusOK)
}

// Logout clears the token cookie
// @Summary Log out
// @Description Expires the token cookie
// @Tags auth
// @Produce json
// @Success 200 {object} dto.APIResponse "Logged out"
// @Router /auth/logout [get]
func (c *AuthController) Logout(ctx *gin.Context) {
	ctx.SetCookie(TokenCookieName, "none", -1, "/", "", c.cookie.Secure, true)
	ctx.JSON(http.StatusOK, dto.NewDataResponse(gin.H{}))
}

// GetMe returns the authenticated user
// @Summary Get current user
// @Description Returns the profile of the user the token was issued to
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.User} "Current user"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Router /auth/me [get]
func (c *AuthController) GetMe(ctx *gin.Context) {
	current, ok := currentUser(ctx)
	if !ok {
		return
	}

	user, err := c.authService.GetMe(ctx.Request.Context(), current.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewDataResponse(user))
}

// UpdateDetails updates the authenticated user's name and email
// @Summary Update current user details
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateDetailsRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=models.User} "Updated user"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Router /auth/userdetails [put]
func (c *AuthController) UpdateDetails(ctx *gin.Context) {
	current, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req dto.UpdateDetailsRequest
	if err := middleware.BindJSON(ctx, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	user, err := c.authService.UpdateDetails(ctx.Request.Context(), current.ID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewDataResponse(user))
}

// UpdatePassword changes the authenticated user's password and issues a new token
// @Summary Update current user password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdatePasswordRequest true "Current and new password"
// @Success 200 {object} dto.TokenResponse "Password updated"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 401 {object} dto.ErrorResponse "Current password is incorrect"
// @Router /auth/userpassword [put]
func (c *AuthController) UpdatePassword(ctx *gin.Context) {
	current, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req dto.UpdatePasswordRequest
	if err := middleware.BindJSON(ctx, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	user, err := c.authService.UpdatePassword(ctx.Request.Context(), current.ID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.sendTokenResponse(ctx, user, http.StatusOK)
}

// ForgotPassword emails a password reset link
// @Summary Request a password reset
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ForgotPasswordRequest true "Account email"
// @Success 200 {object} dto.APIResponse{data=string} "Email sent"
// @Failure 404 {object} dto.ErrorResponse "No user with that email"
// @Failure 500 {object} dto.ErrorResponse "Email could not be sent"
// @Router /auth/forgotpassword [post]
func (c *AuthController) ForgotPassword(ctx *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := middleware.BindJSON(ctx, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.authService.ForgotPassword(ctx.Request.Context(), &req, c.requestBaseURL(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewDataResponse("email sent"))
}

// ResetPassword sets a new password using a reset token
// @Summary Reset password
// @Tags auth
// @Accept json
// @Produce json
// @Param resettoken path string true "Reset token from the email"
// @Param request body dto.ResetPasswordRequest true "New password"
// @Success 200 {object} dto.TokenResponse "Password reset"
// @Failure 400 {object} dto.ErrorResponse "Invalid token"
// @Router /auth/resetpassword/{resettoken} [put]
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := middleware.BindJSON(ctx, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	user, err := c.authService.ResetPassword(ctx.Request.Context(), ctx.Param("resettoken"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.sendTokenResponse(ctx, user, http.StatusOK)
}
