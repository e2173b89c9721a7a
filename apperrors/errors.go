package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Kind classifies an error and decides the HTTP status it maps to.
type Kind struct {
	Code   string
	Status int
}

var (
	KindValidation = Kind{Code: "VALIDATION_ERROR", Status: http.StatusBadRequest}
	KindConflict   = Kind{Code: "CONFLICT_ERROR", Status: http.StatusBadRequest}
	KindAuth       = Kind{Code: "AUTH_ERROR", Status: http.StatusUnauthorized}
	KindForbidden  = Kind{Code: "FORBIDDEN_ERROR", Status: http.StatusForbidden}
	KindNotFound   = Kind{Code: "NOT_FOUND_ERROR", Status: http.StatusNotFound}
	KindInternal   = Kind{Code: "INTERNAL_ERROR", Status: http.StatusInternalServerError}
	KindGateway    = Kind{Code: "GATEWAY_ERROR", Status: http.StatusBadGateway}
)

type AppError struct {
	Kind    Kind
	Message string // public-facing message
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *AppError) Unwrap() error { return e.Cause }

func New(kind Kind, msg string, cause error) *AppError {
	return &AppError{Kind: kind, Message: msg, Cause: cause}
}

func Validation(msg string) *AppError { return New(KindValidation, msg, nil) }
func Conflict(msg string) *AppError   { return New(KindConflict, msg, nil) }
func Auth(msg string) *AppError       { return New(KindAuth, msg, nil) }
func Forbidden(msg string) *AppError  { return New(KindForbidden, msg, nil) }
func NotFound(msg string) *AppError   { return New(KindNotFound, msg, nil) }

func Internal(msg string, cause error) *AppError { return New(KindInternal, msg, cause) }

// As returns the AppError carried by err, or an internal error wrapping it.
func As(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("Internal server error", err)
}

// Is reports whether err carries an AppError of the given kind.
func Is(err error, kind Kind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// IsUniqueViolation recognises duplicate-key errors from every supported driver.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062 // ER_DUP_ENTRY
	}
	return false
}

// FromDB maps a persistence error onto an AppError. notFoundMsg and conflictMsg are
// the public messages used for missing rows and unique-constraint violations.
func FromDB(err error, notFoundMsg, conflictMsg string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return New(KindNotFound, notFoundMsg, err)
	}
	if IsUniqueViolation(err) {
		return New(KindConflict, conflictMsg, err)
	}
	return Internal("Database error", err)
}
