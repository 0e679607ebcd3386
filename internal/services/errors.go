package services

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	CodeNotFound          = "not_found"
	CodeValidation        = "validation"
	CodeDependencyFailure = "dependency_failure"
	CodePartialWrite      = "partial_write"
)

// ServiceError carries the HTTP status and stable code a failure maps to.
// Data holds whatever was persisted before a partial write failed.
type ServiceError struct {
	Status  int
	Code    string
	Message string
	Details interface{}
	Data    interface{}
	Err     error
}

func (e ServiceError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e ServiceError) Unwrap() error {
	return e.Err
}

func ErrNotFound(msg string) error {
	return ServiceError{Status: http.StatusNotFound, Code: CodeNotFound, Message: msg}
}

func ErrValidation(msg string, details interface{}) error {
	return ServiceError{Status: http.StatusBadRequest, Code: CodeValidation, Message: msg, Details: details}
}

func ErrDependency(msg string, err error) error {
	return ServiceError{Status: http.StatusInternalServerError, Code: CodeDependencyFailure, Message: msg, Err: err}
}

func ErrPartialWrite(msg string, created interface{}, err error) error {
	return ServiceError{Status: http.StatusInternalServerError, Code: CodePartialWrite, Message: msg, Data: created, Err: err}
}

// AsServiceError returns err as a ServiceError, classifying raw store errors
// on the way. Unknown failures become dependency failures.
func AsServiceError(err error) ServiceError {
	var serr ServiceError
	errors.As(classify(err, "store request failed"), &serr)
	return serr
}

// classify maps a store error onto the error taxonomy. Constraint and input
// errors raised by PostgreSQL are the client's fault.
func classify(err error, msg string) error {
	if err == nil {
		return nil
	}
	var serr ServiceError
	if errors.As(err, &serr) {
		return serr
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ServiceError{Status: http.StatusNotFound, Code: CodeNotFound, Message: msg, Err: err}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503":
			return ServiceError{Status: http.StatusBadRequest, Code: CodeValidation, Message: "referenced record does not exist", Details: pgErr.ConstraintName, Err: err}
		case "23505":
			return ServiceError{Status: http.StatusBadRequest, Code: CodeValidation, Message: "duplicate record", Details: pgErr.ConstraintName, Err: err}
		case "23514", "23502":
			return ServiceError{Status: http.StatusBadRequest, Code: CodeValidation, Message: "record violates a constraint", Details: pgErr.ConstraintName, Err: err}
		case "22P02", "22007", "22008":
			return ServiceError{Status: http.StatusBadRequest, Code: CodeValidation, Message: "malformed value", Err: err}
		}
	}
	return ErrDependency(msg, err)
}

// lookupError reports a missing row as notFound and classifies anything else.
func lookupError(err error, notFound, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound(notFound)
	}
	return classify(err, msg)
}

func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
