package notification

import (
	"context"
)

// Repository keeps the history of published notifications.
type Repository interface {
	Create(ctx context.Context, notification *Notification) error
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Notification, error)
}

// SSEHub defines the interface for managing SSE connections
type SSEHub interface {
	// Client management
	Register(client *SSEClient)
	Unregister(client *SSEClient)
	GetClientCount() int

	// Broadcasting
	BroadcastToEvent(eventID string, message *SSEMessage)

	Stop()
}
