package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	base := errors.New("boom")
	appErr := &AppError{Code: "X", Message: "msg", Status: 500, Err: base}

	assert.Contains(t, appErr.Error(), "X")
	assert.Contains(t, appErr.Error(), "msg")
	assert.ErrorIs(t, appErr, base)
}

func TestConstructors_SentinelMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		status   int
	}{
		{"not found", NotFound("address", 42), ErrNotFound, http.StatusNotFound},
		{"invalid input", InvalidInput("bad"), ErrInvalidInput, http.StatusBadRequest},
		{"invalid field", InvalidField("no_such_field"), ErrInvalidField, http.StatusBadRequest},
		{"invalid property", InvalidProperty("country", "suffix"), ErrInvalidProperty, http.StatusBadRequest},
		{"unowned", Unowned(), ErrUnowned, http.StatusConflict},
		{"duplicate", DuplicateAddress(7), ErrDuplicateAddress, http.StatusConflict},
		{"persistence", Persistence(errors.New("disk full")), ErrPersistence, http.StatusInternalServerError},
		{"unauthorized", Unauthorized("no token"), ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", Forbidden("nope"), ErrForbidden, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.sentinel)
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}
}

func TestHTTPStatus_WrappedSentinel(t *testing.T) {
	err := fmt.Errorf("load address: %w", ErrNotFound)
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestHTTPStatus_UnknownError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("mystery")))
}

func TestPersistence_KeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Persistence(cause)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, cause)
}
