// Package http implements the HTTP API of the address book service.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/utafrali/addressbook/pkg/errors"
	"github.com/utafrali/addressbook/pkg/validator"
)

type errorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var validationErr *validator.ValidationError
	if errors.As(err, &validationErr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "request validation failed",
			Fields:  validationErr.Fields(),
		})
		return
	}

	status := apperrors.HTTPStatus(err)
	resp := errorResponse{Code: "INTERNAL_ERROR", Message: "an internal error occurred"}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		resp.Code = appErr.Code
		resp.Message = appErr.Message
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", slog.String("error", err.Error()))
		// Internal details stay out of the response body.
		resp.Message = "an internal error occurred"
	}
	writeJSON(w, status, resp)
}
