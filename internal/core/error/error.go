package errx

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal server error"
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "redis operation failed"
	// RedisNotFoundMessage describes a missing Redis key.
	RedisNotFoundMessage = "redis key not found"
	// OracleErrorMessage describes a failed or unusable NLU oracle call.
	OracleErrorMessage = "nlu oracle unavailable"
	// NotFoundMessage describes a missing content-store record.
	NotFoundMessage = "record not found"
)

// ErrSchemeNotFound is returned by the scheme catalog when an identifier is unknown.
var ErrSchemeNotFound = errors.New("scheme not found")

// AppError wraps an underlying error with an HTTP status and safe message.
type AppError struct {
	Err     error
	Status  int
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Message: message,
	}
}

// NotFound wraps a content-store miss. The wrapped error keeps the identifier
// that was looked up.
func NotFound(id string) *AppError {
	return New(fmt.Errorf("%w: %s", ErrSchemeNotFound, id), http.StatusNotFound, NotFoundMessage)
}

// WrapOracle marks an NLU oracle failure. These errors never leave the NLU adapter;
// they exist so logs carry a consistent classification.
func WrapOracle(err error) error {
	if err == nil {
		return nil
	}
	return New(err, http.StatusBadGateway, OracleErrorMessage)
}

// IsNotFound reports whether err is a not-found AppError.
func IsNotFound(err error) bool {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Status == http.StatusNotFound
	}
	return false
}

// Is reports whether the target matches the underlying error or the AppError itself.
func (e *AppError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// As allows casting to AppError or the wrapped error in a chain.
func (e *AppError) As(target any) bool {
	if t, ok := target.(**AppError); ok {
		*t = e
		return true
	}
	return errors.As(e.Err, target)
}
