package handlers

import (
	"context"
	"net/http"

	pkghttp "github.com/taogeht/reading-practice-app-sub002/pkg/http"
)

// Pinger is anything that can report storage liveness.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler reports service and database liveness.
type HealthHandler struct {
	db Pinger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.HealthCheck(r.Context()); err != nil {
		pkghttp.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "degraded",
			"database": "unreachable",
		})
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
