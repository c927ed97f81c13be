package web

import (
	"context"
	"net/http"
	"time"
)

const readyTimeout = 2 * time.Second

type healthJSON struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Live reports that the process is up.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthJSON{Status: "ok"})
}

// Ready reports whether the metadata store answers.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := h.svc.Ping(ctx); err != nil {
		h.logger.Warn(r.Context(), "readiness check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, healthJSON{Status: "unavailable", Error: "metadata store unreachable"})
		return
	}
	writeJSON(w, http.StatusOK, healthJSON{Status: "ok"})
}
