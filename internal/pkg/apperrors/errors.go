package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("duplicate entry not allowed")
	ErrInvalidID        = errors.New("invalid identifier")

	// Authentication errors
	ErrUnauthorized       = errors.New("not authorised to access the route")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Server errors
	ErrInternal = errors.New("server error")
)

// Password reset errors
var (
	ErrInvalidPasswordResetToken = errors.New("invalid token")
	ErrEmailNotSent              = errors.New("email could not be sent")
)

// AppError is an application error that carries the HTTP status it should be rendered with.
type AppError struct {
	Status  int
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an AppError with the given status and message
func New(status int, message string) *AppError {
	return &AppError{Status: status, Message: message}
}

// Wrap creates an AppError around an underlying error
func Wrap(err error, status int, message string) *AppError {
	return &AppError{Status: status, Message: message, Err: err}
}

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(format string, args ...interface{}) error {
	return Wrap(ErrResourceNotFound, http.StatusNotFound, fmt.Sprintf(format, args...))
}

// NewInvalidIDError is returned when a path identifier cannot be cast to a record key
func NewInvalidIDError(id string) error {
	return Wrap(ErrInvalidID, http.StatusNotFound, fmt.Sprintf("resource not found for id: %s", id))
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return Wrap(ErrConflict, http.StatusConflict, message)
}

// NewUnauthorizedError creates an authentication or ownership failure
func NewUnauthorizedError(format string, args ...interface{}) error {
	return Wrap(ErrUnauthorized, http.StatusUnauthorized, fmt.Sprintf(format, args...))
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(format string, args ...interface{}) error {
	return Wrap(ErrPermissionDenied, http.StatusForbidden, fmt.Sprintf(format, args...))
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(format string, args ...interface{}) error {
	return Wrap(ErrBadRequest, http.StatusBadRequest, fmt.Sprintf(format, args...))
}

// NewValidationError joins field level messages into a single 400 error
func NewValidationError(messages ...string) error {
	return Wrap(ErrValidationFailed, http.StatusBadRequest, strings.Join(messages, ", "))
}

// NewInternalError hides err behind a 500 with the given message
func NewInternalError(err error, message string) error {
	if err == nil {
		err = ErrInternal
	}
	return Wrap(err, http.StatusInternalServerError, message)
}

// StatusOf returns the HTTP status carried by err. Errors without one map to 500.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Status != 0 {
		return appErr.Status
	}
	return http.StatusInternalServerError
}
