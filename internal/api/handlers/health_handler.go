package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/stonescan/stonescan-be/internal/monitoring"
)

// StatsProvider exposes the latest host stats snapshot.
type StatsProvider interface {
	Snapshot() (monitoring.HostStats, bool)
}

// HealthHandler serves liveness, greeting and host-stats endpoints.
type HealthHandler struct {
	stats StatsProvider
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(stats StatsProvider) *HealthHandler {
	return &HealthHandler{stats: stats}
}

// Health reports liveness.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Welcome greets the caller.
func (h *HealthHandler) Welcome(w http.ResponseWriter, r *http.Request) {
	log.Info().Str("method", r.Method).Str("path", r.URL.Path).Msg("Request received")
	writeMessage(w, http.StatusOK, "Welcome to the Kidney Stone Predictor API!")
}

// System returns the latest host resource snapshot.
func (h *HealthHandler) System(w http.ResponseWriter, r *http.Request) {
	stats, ok := h.stats.Snapshot()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "Stats not collected yet")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
