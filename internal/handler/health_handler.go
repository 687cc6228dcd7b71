package handlers

import (
	"log/slog"
	"net/http"
)

// Health reports 503 with the partial status when the database check fails.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	status, err := h.HealthService.Check(r.Context())
	if err != nil {
		h.Logger.WarnContext(r.Context(), "health check failed", slog.String("error", err.Error()))
		writeSuccess(w, status, http.StatusServiceUnavailable)
		return
	}

	writeSuccess(w, status, http.StatusOK)
}
