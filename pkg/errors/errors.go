package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard sentinel errors for common cases.
var (
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidField     = errors.New("invalid address field")
	ErrInvalidProperty  = errors.New("invalid field property")
	ErrUnowned          = errors.New("address has no owner")
	ErrDuplicateAddress = errors.New("address already in address book")
	ErrPersistence      = errors.New("storage write failed")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrInternal         = errors.New("internal error")
)

// AppError represents a structured application error with HTTP status mapping.
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
func NotFound(resource string, id int64) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %d not found", resource, id),
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

// InvalidField creates a 400 error for an unregistered address field name.
func InvalidField(name string) *AppError {
	return &AppError{
		Code:    "INVALID_FIELD",
		Message: fmt.Sprintf("invalid field name %q", name),
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidField,
	}
}

// InvalidProperty creates a 400 error for a missing field handler property.
func InvalidProperty(field, property string) *AppError {
	return &AppError{
		Code:    "INVALID_PROPERTY",
		Message: fmt.Sprintf("field %q has no property %q", field, property),
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidProperty,
	}
}

// Unowned creates a 409 error for saving an address without an owner.
func Unowned() *AppError {
	return &AppError{
		Code:    "UNOWNED_ADDRESS",
		Message: "the address can not be saved because it is not owned by a user",
		Status:  http.StatusConflict,
		Err:     ErrUnowned,
	}
}

// DuplicateAddress creates a 409 error for adding an address twice.
func DuplicateAddress(id int64) *AppError {
	return &AppError{
		Code:    "DUPLICATE_ADDRESS",
		Message: fmt.Sprintf("address with id %d is already in the address book", id),
		Status:  http.StatusConflict,
		Err:     ErrDuplicateAddress,
	}
}

// Persistence creates a 500 error wrapping a failed storage write.
func Persistence(err error) *AppError {
	return &AppError{
		Code:    "PERSISTENCE_ERROR",
		Message: "failed to write address to storage",
		Status:  http.StatusInternalServerError,
		Err:     fmt.Errorf("%w: %w", ErrPersistence, err),
	}
}

// Unauthorized creates a 401 error.
func Unauthorized(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     ErrUnauthorized,
	}
}

// Forbidden creates a 403 error.
func Forbidden(message string) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
		Status:  http.StatusForbidden,
		Err:     ErrForbidden,
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
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidField), errors.Is(err, ErrInvalidProperty):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnowned), errors.Is(err, ErrDuplicateAddress):
		return http.StatusConflict
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
