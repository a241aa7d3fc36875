package handler

import (
	"net/http"
	"time"
)

// HealthHandler serves the liveness probe and the root banner.
type HealthHandler struct {
	startedAt time.Time
}

// NewHealthHandler creates a HealthHandler. The uptime clock starts here,
// so construct it once at server startup.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{startedAt: time.Now()}
}

// HandleHealth reports liveness and uptime.
//
// HTTP: GET /health
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(h.startedAt).Seconds(),
	})
}

// HandleRoot serves a plain confirmation that the backend is up. The
// original deployment used this as a human-checkable landing page.
//
// HTTP: GET /
func (h *HealthHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("Backend EmoAI funcionando correctamente"))
}
