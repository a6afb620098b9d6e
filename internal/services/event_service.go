package services

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/stonescan/stonescan-be/internal/models"
	"github.com/stonescan/stonescan-be/internal/storage"
	ws "github.com/stonescan/stonescan-be/internal/websocket"
)

const (
	recentEventsKey = "recent"
	maxRecentEvents = 100
)

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	Record(eventType, level, message string, email *string)
	GetRecentEvents(limit int) ([]models.Event, error)
}

// EventService keeps a capped log of recent activity in the store and pushes
// each entry to connected websocket clients.
type EventService struct {
	store storage.Store
	hub   *ws.Hub
}

// NewEventService creates a new EventService. The hub may be nil, in which
// case events are only persisted.
func NewEventService(store storage.Store, hub *ws.Hub) *EventService {
	return &EventService{store: store, hub: hub}
}

// Record appends a new event. Recording is best-effort: failures are logged,
// never propagated to the caller whose action triggered the event.
func (s *EventService) Record(eventType, level, message string, email *string) {
	event := models.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Level:     level,
		Message:   message,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}

	var events []models.Event
	err := s.store.Get(storage.BucketEvents, recentEventsKey, &events)
	if err != nil && err != storage.ErrKeyNotFound && err != storage.ErrStoreMissing {
		log.Warn().Err(err).Msg("Failed to read event log")
		return
	}

	events = append(events, event)
	if len(events) > maxRecentEvents {
		events = events[len(events)-maxRecentEvents:]
	}
	if err := s.store.Put(storage.BucketEvents, recentEventsKey, events); err != nil {
		log.Warn().Err(err).Msg("Failed to persist event log")
		return
	}

	if s.hub != nil {
		if payload, err := json.Marshal(ws.Message{Action: "event", Payload: event}); err == nil {
			s.hub.Broadcast <- payload
		}
	}
}

// GetRecentEvents returns up to limit events, newest first.
func (s *EventService) GetRecentEvents(limit int) ([]models.Event, error) {
	var events []models.Event
	err := s.store.Get(storage.BucketEvents, recentEventsKey, &events)
	if err != nil {
		if err == storage.ErrKeyNotFound || err == storage.ErrStoreMissing {
			return []models.Event{}, nil
		}
		return nil, err
	}

	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}
	// Newest first.
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	return events, nil
}
