package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/stonescan/stonescan-be/internal/services"
)

// EventHandler serves the recent-activity log.
type EventHandler struct {
	service services.EventServiceProvider
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(service services.EventServiceProvider) *EventHandler {
	return &EventHandler{service: service}
}

// Recent returns the most recent events, newest first.
func (h *EventHandler) Recent(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.GetRecentEvents(50)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load recent events")
		writeError(w, http.StatusInternalServerError, "Failed to load events")
		return
	}
	writeJSON(w, http.StatusOK, events)
}
