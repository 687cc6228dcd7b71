package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"shiftsite/internal/models"
)

// ErrorResponse - стандартный ответ с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError - универсальная функция для отправки ошибок
func writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// writeSuccess - функция для успешных ответов
func writeSuccess(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func statusFor(kind models.ErrorKind) int {
	switch kind {
	case models.KindValidation:
		return http.StatusBadRequest
	case models.KindUnauthorized:
		return http.StatusUnauthorized
	case models.KindNotFound:
		return http.StatusNotFound
	case models.KindConflict:
		return http.StatusConflict
	case models.KindTransport:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError maps err to a status. Transport and unknown failures
// are logged and answered without their internal detail.
func (h *Handlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		h.Logger.ErrorContext(r.Context(), "unexpected error",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	status := statusFor(appErr.Kind)
	if appErr.Kind != models.KindTransport {
		writeError(w, appErr.Error(), status)
		return
	}

	h.Logger.ErrorContext(r.Context(), "backend request failed",
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)

	message := "Backend request failed"
	if appErr.Op != "" {
		message = appErr.Op
	}
	writeError(w, message, status)
}
