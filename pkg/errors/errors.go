package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the common failure classes of the storefront.
var (
	ErrNotFound        = errors.New("resource not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrInternal        = errors.New("internal error")
	ErrUnavailable     = errors.New("service unavailable")
	ErrParse           = errors.New("parse failure")
	ErrSnapshotCorrupt = errors.New("snapshot corrupt")
	ErrSubmission      = errors.New("submission failed")
)

// AppError is a structured application error with an HTTP status mapping.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a 404 error.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %s not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// InvalidInput creates a 400 error.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// Internal creates a 500 error.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// Unavailable creates a 503 error.
func Unavailable(message string) *AppError {
	return &AppError{
		Code:    "UNAVAILABLE",
		Message: message,
		Status:  http.StatusServiceUnavailable,
		Err:     ErrUnavailable,
	}
}

// ProductNotFound reports an add-to-cart referencing an id that is absent
// from the latest catalog snapshot (typically a stale id after a refresh).
func ProductNotFound(id string) *AppError {
	return &AppError{
		Code:    "PRODUCT_NOT_FOUND",
		Message: fmt.Sprintf("product %s is no longer in the catalog", id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// LineNotFound reports a cart operation on a line that does not exist.
func LineNotFound(ref string) *AppError {
	return &AppError{
		Code:    "LINE_NOT_FOUND",
		Message: fmt.Sprintf("cart line %s not found", ref),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// SubmissionFailed reports a checkout relay failure. The cart is preserved
// and the caller is expected to resubmit.
func SubmissionFailed(message string) *AppError {
	return &AppError{
		Code:    "SUBMISSION_FAILED",
		Message: message,
		Status:  http.StatusBadGateway,
		Err:     ErrSubmission,
	}
}

// Network reports a transport or HTTP status failure on an upstream fetch.
func Network(message string) *AppError {
	return &AppError{
		Code:    "NETWORK_ERROR",
		Message: message,
		Status:  http.StatusBadGateway,
		Err:     ErrUnavailable,
	}
}

// Parse reports a malformed upstream document.
func Parse(message string) *AppError {
	return &AppError{
		Code:    "PARSE_ERROR",
		Message: message,
		Status:  http.StatusBadGateway,
		Err:     ErrParse,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrSubmission), errors.Is(err, ErrParse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
