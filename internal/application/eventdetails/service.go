package eventdetails

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_service.go -package=mocks . AdminAPI,Notifier

import (
	"context"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/execution-hub/event-console/internal/domain/eventdetails"
	"github.com/execution-hub/event-console/internal/domain/notification"
	"github.com/execution-hub/event-console/internal/domain/workflow"
)

// AdminAPI is the transport to the admin REST backend.
type AdminAPI interface {
	Get(ctx context.Context, path string, out interface{}) error
	PostForm(ctx context.Context, path string, form url.Values) error
	Put(ctx context.Context, path, contentType string, form url.Values) error
	Delete(ctx context.Context, path string) error
}

// Notifier publishes user-facing notifications.
type Notifier interface {
	Notify(ctx context.Context, n *notification.Notification) error
}

// Outcome is the result of an operation together with the notifications
// it raised. The notifications are also published through the Notifier.
type Outcome struct {
	OK            bool                         `json:"ok"`
	Notifications []*notification.Notification `json:"notifications"`
}

// Service runs the event details operations.
type Service struct {
	api      AdminAPI
	catalog  workflow.Catalog
	store    eventdetails.Store
	notifier Notifier
	logger   zerolog.Logger
}

// NewService creates an event details service.
func NewService(
	api AdminAPI,
	catalog workflow.Catalog,
	store eventdetails.Store,
	notifier Notifier,
	logger zerolog.Logger,
) *Service {
	return &Service{
		api:      api,
		catalog:  catalog,
		store:    store,
		notifier: notifier,
		logger:   logger.With().Str("service", "eventdetails").Logger(),
	}
}

// State returns the current state of an event.
func (s *Service) State(eventID string) eventdetails.State {
	return s.store.Snapshot(eventID)
}

func (s *Service) dispatch(eventID string, t eventdetails.Transition) eventdetails.State {
	return s.store.Dispatch(eventID, t)
}

func (s *Service) notify(ctx context.Context, out *Outcome, n *notification.Notification) {
	out.Notifications = append(out.Notifications, n)
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.Warn().Err(err).Str("key", n.Key).Msg("failed to publish notification")
	}
}

// eventPath builds event/{id}/part/... with every segment escaped.
func eventPath(eventID string, parts ...string) string {
	segs := make([]string, 0, len(parts)+2)
	segs = append(segs, "event", url.PathEscape(eventID))
	for _, p := range parts {
		segs = append(segs, url.PathEscape(p))
	}
	return strings.Join(segs, "/")
}
