package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/devcamper/internal/app/models/dto"
	"github.com/yigit/devcamper/internal/pkg/apperrors"
	"github.com/yigit/devcamper/internal/pkg/dberrors"
	"github.com/yigit/devcamper/internal/pkg/logger"
	"github.com/yigit/devcamper/internal/pkg/validation"
)

// ClassifyError maps any error reaching a handler to the status and message the client sees
func ClassifyError(err error) (int, string) {
	var appErr *apperrors.AppError
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	switch {
	case err == nil:
		return http.StatusInternalServerError, apperrors.ErrInternal.Error()
	case errors.As(err, &appErr):
		return apperrors.StatusOf(appErr), appErr.Error()
	case len(validation.Messages(err)) > 0:
		return http.StatusBadRequest, strings.Join(validation.Messages(err), ", ")
	case errors.As(err, &syntaxErr):
		return http.StatusBadRequest, "malformed JSON body"
	case errors.As(err, &typeErr):
		return http.StatusBadRequest, fmt.Sprintf("%s must be of type %s", typeErr.Field, typeErr.Type.String())
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return http.StatusBadRequest, "request body is required"
	case dberrors.IsInvalidTextRepresentation(err):
		return http.StatusNotFound, "resource not found for id: " + castValue(err)
	case dberrors.IsValidationViolation(err):
		return http.StatusBadRequest, dberrors.ValidationMessage(err)
	case dberrors.IsUniqueViolation(err):
		return http.StatusConflict, apperrors.ErrConflict.Error()
	case dberrors.IsForeignKeyViolation(err):
		return http.StatusNotFound, "referenced resource not found"
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, apperrors.ErrResourceNotFound.Error()
	default:
		return http.StatusInternalServerError, apperrors.ErrInternal.Error()
	}
}

// castValue pulls the offending value out of messages such as
// `invalid input syntax for type uuid: "abc"`.
func castValue(err error) string {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return ""
	}
	idx := strings.LastIndex(pgErr.Message, ": ")
	if idx < 0 {
		return ""
	}
	return strings.Trim(pgErr.Message[idx+2:], `"`)
}

// HandleAPIError renders err with the uniform failure envelope and aborts the chain
func HandleAPIError(c *gin.Context, err error) {
	status, message := ClassifyError(err)

	event := logger.Debug()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Int("status", status).
		Msg("Request failed")

	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message))
}

// ErrorHandler renders errors that handlers attached with c.Error
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		HandleAPIError(c, c.Errors.Last().Err)
	}
}

// Recovery turns panics into a 500 response in the failure envelope
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("Recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(apperrors.ErrInternal.Error()))
	})
}

// NotFound answers unknown routes
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(fmt.Sprintf("route %s %s not found", c.Request.Method, c.Request.URL.Path)))
	}
}
