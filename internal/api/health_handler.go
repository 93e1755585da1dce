package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/phrazzld/taskboard-api/internal/api/shared"
)

// HealthHandler serves the health and readiness probes.
type HealthHandler struct {
	db        *sql.DB
	startedAt time.Time
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{
		db:        db,
		startedAt: time.Now().UTC(),
	}
}

// healthStatus is the payload for the health endpoints.
type healthStatus struct {
	Status    string  `json:"status"`
	UptimeSec float64 `json:"uptimeSec,omitempty"`
	Database  string  `json:"database,omitempty"`
}

// Health handles GET /health requests with a general status report.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := healthStatus{
		Status:    "ok",
		UptimeSec: time.Since(h.startedAt).Seconds(),
		Database:  "up",
	}
	code := http.StatusOK

	if err := h.db.PingContext(r.Context()); err != nil {
		status.Status = "degraded"
		status.Database = "down"
		code = http.StatusServiceUnavailable
	}

	shared.RespondWithJSON(w, r, code, status)
}

// Live handles GET /health/live requests. It only proves the process
// is serving; no dependencies are checked.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, healthStatus{Status: "ok"})
}

// Ready handles GET /health/ready requests. Readiness requires the
// database to answer.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		shared.RespondWithJSON(w, r, http.StatusServiceUnavailable, healthStatus{
			Status:   "not ready",
			Database: "down",
		})
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, healthStatus{
		Status:   "ready",
		Database: "up",
	})
}
