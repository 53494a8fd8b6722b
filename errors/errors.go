package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	NotFound            = HttpError{http.StatusNotFound, errors.New("not found")}
	BadRequest          = HttpError{http.StatusBadRequest, errors.New("bad request")}
	Unauthorized        = HttpError{http.StatusUnauthorized, errors.New("unauthorized")}
	Forbidden           = HttpError{http.StatusForbidden, errors.New("forbidden")}
	Conflict            = HttpError{http.StatusConflict, errors.New("conflict")}
	ServiceUnavailable  = HttpError{http.StatusServiceUnavailable, errors.New("service unavailable")}
	InternalServerError = HttpError{http.StatusInternalServerError, errors.New("internal server error")}
)

// ErrUnauthenticated is returned when an operation is attempted without an
// authenticated identity.
var ErrUnauthenticated = fmt.Errorf("%w: no authenticated identity", Unauthorized)

type HttpError struct {
	Code int
	Err  error
}

func (h HttpError) Unwrap() error {
	return h.Err
}

func (h HttpError) Error() string {
	return h.Err.Error()
}

// ValidationError lists the required fields that were blank when a draft
// was committed.
type ValidationError struct {
	Fields []string
}

func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (v *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(v.Fields, ", "))
}

func (v *ValidationError) Unwrap() error {
	return BadRequest
}

// StorageError is returned when the persistence layer could not complete an
// operation. It is never retried automatically.
type StorageError struct {
	Op  string
	Err error
}

func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

func (s *StorageError) Error() string {
	return fmt.Sprintf("unable to %s: %v", s.Op, s.Err)
}

func (s *StorageError) Unwrap() error {
	return s.Err
}

func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsStorageError(err error) bool {
	var s *StorageError
	return errors.As(err, &s)
}
