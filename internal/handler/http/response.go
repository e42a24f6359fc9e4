package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chopie/restaurant/internal/logger"
	"github.com/chopie/restaurant/internal/models"
	"go.uber.org/zap"
)

// envelope is the common response shape
type envelope struct {
	Status  bool   `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Log.Error("write response", zap.Error(err))
	}
}

func respondOK(w http.ResponseWriter, code int, message string, data any) {
	writeJSON(w, code, envelope{Status: true, Message: message, Data: data})
}

func respondErr(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, envelope{Status: false, Message: message})
}

// respondServiceError maps domain errors to HTTP statuses. Unexpected errors
// become an opaque 500.
func respondServiceError(w http.ResponseWriter, err error) {
	var validationErr *models.ValidationError

	switch {
	case errors.As(err, &validationErr):
		respondErr(w, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, models.ErrDataNotFound):
		respondErr(w, http.StatusNotFound, "not found")
	case errors.Is(err, models.ErrOrderNotPending):
		respondErr(w, http.StatusConflict, "order no longer available")
	case errors.Is(err, models.ErrCannotUpdateStatus):
		respondErr(w, http.StatusConflict, "cannot update status")
	case errors.Is(err, models.ErrConflictData):
		respondErr(w, http.StatusConflict, "already exists")
	case errors.Is(err, models.ErrNotOrderOwner):
		respondErr(w, http.StatusForbidden, "not authorized")
	case errors.Is(err, models.ErrPermissionDenied):
		respondErr(w, http.StatusForbidden, "access denied")
	case errors.Is(err, models.ErrInvalidCredentials):
		respondErr(w, http.StatusUnauthorized, "invalid login or password")
	case errors.Is(err, models.ErrUserInactive):
		respondErr(w, http.StatusUnauthorized, "account is deactivated")
	default:
		logger.Log.Error("internal error", zap.Error(err))
		respondErr(w, http.StatusInternalServerError, "internal server error")
	}
}
