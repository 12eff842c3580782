package http

import (
	"net/http"
	"time"

	"github.com/fpsgroup/authentic/internal/auth/store"
	"github.com/fpsgroup/authentic/pkg/httpx"
)

// SystemHandler serves the liveness and readiness probes.
type SystemHandler struct {
	Store     store.Store
	StartTime time.Time
}

func (h *SystemHandler) HandleLivez(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(h.StartTime).Round(time.Second).String(),
	})
}

func (h *SystemHandler) HandleReadyz(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Ping(r.Context()); err != nil {
		httpx.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "unavailable",
		})
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}
