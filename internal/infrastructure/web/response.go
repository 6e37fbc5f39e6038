// Package web holds the JSON response helpers shared by the HTTP controllers.
package web

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"karen/internal/dto"
	apperrors "karen/internal/errors"
)

const MessageUnexpected = "Unexpected error occurred"

func WriteJSON(w http.ResponseWriter, status int, data any, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

func WriteError(w http.ResponseWriter, status int, message string, logger *zap.Logger) {
	WriteJSON(w, status, dto.ErrorResponse{Error: message}, logger)
}

func WriteMessage(w http.ResponseWriter, status int, message string, logger *zap.Logger) {
	WriteJSON(w, status, dto.MessageResponse{Message: message}, logger)
}

type validationErrorResponse struct {
	Error   string                       `json:"error"`
	Details []apperrors.ValidationDetail `json:"details,omitempty"`
}

// HandleError maps a use case error onto the response. Client errors become 400 with
// their own message, not-found errors 404, and anything else a logged 500.
func HandleError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		WriteJSON(w, http.StatusBadRequest, validationErrorResponse{Error: ve.Message, Details: ve.Details}, logger)
		return
	}

	if apperrors.IsClientError(err) {
		logger.Info("request rejected", zap.String("reason", err.Error()))
		WriteError(w, http.StatusBadRequest, err.Error(), logger)
		return
	}

	if nf, ok := apperrors.IsNotFoundError(err); ok {
		WriteError(w, http.StatusNotFound, nf.Message, logger)
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	WriteError(w, http.StatusInternalServerError, MessageUnexpected, logger)
}

// HandleListError is HandleError for list endpoints, where an empty result is reported
// as a 404 with a message body rather than an error body.
func HandleListError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if nf, ok := apperrors.IsNotFoundError(err); ok {
		WriteMessage(w, http.StatusNotFound, nf.Message, logger)
		return
	}
	HandleError(w, err, logger)
}
