package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"log/slog"

	"agentdb/internal/dbconn"
)

// readyTimeout bounds the database round trip of a readiness probe.
const readyTimeout = 5 * time.Second

// Handler handles status API requests
type Handler struct {
	pool    *dbconn.Pool
	logger  *slog.Logger
	started time.Time
}

// NewHandler creates a new API handler
func NewHandler(pool *dbconn.Pool, logger *slog.Logger) *Handler {
	return &Handler{
		pool:    pool,
		logger:  logger,
		started: time.Now(),
	}
}

// Healthz handles GET /healthz. It reports process liveness only and never
// touches the database.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"status": "ok",
	})
}

// Readyz handles GET /readyz. It pings the shared pool with a bounded
// timeout, opening the resource on first use.
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := h.pool.Ping(ctx); err != nil {
		h.logger.Error("Readiness probe failed", "error", err)
		writeJSON(w, h.logger, http.StatusServiceUnavailable, map[string]interface{}{
			"status": "unavailable",
		})
		return
	}

	writeJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"status": "ready",
	})
}

// Status handles GET /status
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stats := h.pool.Stats()
	writeJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"endpoint":      h.pool.Config().String(),
		"state":         stats.State.String(),
		"uptime":        time.Since(h.started).String(),
		"acquires":      stats.Acquires,
		"releases":      stats.Releases,
		"open_failures": stats.OpenFailures,
		"active_leases": stats.ActiveLeases,
	})
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, code int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Error encoding response", "error", err)
	}
}
