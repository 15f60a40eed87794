package dberrors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn" // Import pgconn for PgError
)

// PostgreSQL error codes the API classifies
const (
	CodeUniqueViolation           = "23505"
	CodeForeignKeyViolation       = "23503"
	CodeNotNullViolation          = "23502"
	CodeCheckViolation            = "23514"
	CodeInvalidTextRepresentation = "22P02"
	CodeStringDataRightTruncation = "22001"
)

func pgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// IsUniqueViolation reports any unique_violation
func IsUniqueViolation(err error) bool {
	pgErr, ok := pgError(err)
	return ok && pgErr.Code == CodeUniqueViolation
}

// IsInvalidTextRepresentation reports a value that could not be cast to the column type,
// e.g. a malformed UUID.
func IsInvalidTextRepresentation(err error) bool {
	pgErr, ok := pgError(err)
	return ok && pgErr.Code == CodeInvalidTextRepresentation
}

// IsForeignKeyViolation reports a reference to a missing parent row
func IsForeignKeyViolation(err error) bool {
	pgErr, ok := pgError(err)
	return ok && pgErr.Code == CodeForeignKeyViolation
}

// IsValidationViolation reports schema constraint failures: check, not-null and length.
func IsValidationViolation(err error) bool {
	pgErr, ok := pgError(err)
	if !ok {
		return false
	}
	switch pgErr.Code {
	case CodeCheckViolation, CodeNotNullViolation, CodeStringDataRightTruncation:
		return true
	}
	return false
}

// ValidationMessage renders a constraint failure for the client
func ValidationMessage(err error) string {
	pgErr, ok := pgError(err)
	if !ok {
		return "validation failed"
	}
	switch pgErr.Code {
	case CodeNotNullViolation:
		return fmt.Sprintf("%s is required", pgErr.ColumnName)
	case CodeCheckViolation:
		if pgErr.ConstraintName != "" {
			return fmt.Sprintf("invalid value violates %s", pgErr.ConstraintName)
		}
	case CodeStringDataRightTruncation:
		return "value is too long"
	}
	return pgErr.Message
}
