package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/execution-hub/event-console/internal/domain/eventdetails"
	"github.com/execution-hub/event-console/internal/domain/notification"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Service publishes notifications and state transitions to SSE clients and
// keeps the notification history.
type Service struct {
	repo   notification.Repository
	sseHub notification.SSEHub
	logger zerolog.Logger
}

// NewService creates a new notification service
func NewService(repo notification.Repository, sseHub notification.SSEHub, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		sseHub: sseHub,
		logger: logger.With().Str("service", "notification").Logger(),
	}
}

// Notify validates, stores and broadcasts a notification. A failed write
// is returned without broadcasting.
func (s *Service) Notify(ctx context.Context, n *notification.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}
	s.sseHub.BroadcastToEvent(n.EventID, notification.NewSSEMessage(notification.SSEEventNotification, n.EventID, data))

	evt := s.logger.Debug()
	if n.IsError() {
		evt = s.logger.Info()
	}
	evt.Str("event_id", n.EventID).
		Str("type", string(n.Type)).
		Str("key", n.Key).
		Msg("notification published")
	return nil
}

type transitionPayload struct {
	Type  eventdetails.TransitionType `json:"type"`
	State eventdetails.State          `json:"state"`
}

// BroadcastTransition pushes an applied transition and the resulting state
// to the clients following the event.
func (s *Service) BroadcastTransition(eventID string, t eventdetails.Transition, next eventdetails.State) {
	data, err := json.Marshal(transitionPayload{Type: t.Type, State: next})
	if err != nil {
		s.logger.Error().Err(err).Str("event_id", eventID).Msg("failed to encode transition")
		return
	}
	s.sseHub.BroadcastToEvent(eventID, notification.NewSSEMessage(notification.SSEEventTransition, eventID, data))
}

// List returns stored notifications, newest first.
func (s *Service) List(ctx context.Context, filter notification.Filter, limit, offset int) ([]*notification.Notification, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, filter, limit, offset)
}

// Subscribe registers an SSE client.
func (s *Service) Subscribe(client *notification.SSEClient) {
	s.sseHub.Register(client)
	s.logger.Info().Str("client_id", client.ClientID).Strs("event_ids", client.EventIDs).Msg("sse client connected")
}

// Unsubscribe removes an SSE client.
func (s *Service) Unsubscribe(client *notification.SSEClient) {
	s.sseHub.Unregister(client)
	s.logger.Info().Str("client_id", client.ClientID).Msg("sse client disconnected")
}

// ClientCount returns the number of connected SSE clients.
func (s *Service) ClientCount() int {
	return s.sseHub.GetClientCount()
}
