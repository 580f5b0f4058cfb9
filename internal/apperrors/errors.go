package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates a missing, invalid or expired credential.
// It is surfaced uniformly; callers never learn which part of the credential failed.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller's role does not permit the operation.
var ErrForbidden = errors.New("forbidden")

// ErrStateConflict indicates a lifecycle transition was requested from a
// disallowed source state. The target entity is left untouched.
var ErrStateConflict = errors.New("state conflict")

// ErrIntegrity indicates a stored file's content digest no longer matches the
// digest recorded at ingestion.
var ErrIntegrity = errors.New("integrity check failed")

// AppError wraps an underlying error with an HTTP-ish code and a message.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError wrapping ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

// NewValidationError creates an AppError wrapping ErrValidation.
func NewValidationError(message string) *AppError {
	return &AppError{Code: 400, Message: message, Err: ErrValidation}
}

// NewStateConflictError creates an AppError wrapping ErrStateConflict.
func NewStateConflictError(message string) *AppError {
	return &AppError{Code: 409, Message: message, Err: ErrStateConflict}
}

// ExternalError represents a failure of one of the external collaborators
// (extraction, registry lookup, transfer provider). Retryable failures
// (timeouts, transient 5xx) may be retried with backoff; fatal ones must not.
type ExternalError struct {
	Service   string
	Retryable bool
	Err       error
}

func (e *ExternalError) Error() string {
	kind := "fatal"
	if e.Retryable {
		kind = "retryable"
	}
	return fmt.Sprintf("%s service error (%s): %v", e.Service, kind, e.Err)
}

func (e *ExternalError) Unwrap() error {
	return e.Err
}

// NewExternalError creates an ExternalError for the named service.
func NewExternalError(service string, retryable bool, err error) *ExternalError {
	return &ExternalError{Service: service, Retryable: retryable, Err: err}
}

// IsRetryable reports whether err is an ExternalError marked retryable.
func IsRetryable(err error) bool {
	var extErr *ExternalError
	return errors.As(err, &extErr) && extErr.Retryable
}
