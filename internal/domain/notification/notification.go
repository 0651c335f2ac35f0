package notification

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Type is the severity category a notification is shown with.
type Type string

const (
	TypeSuccess Type = "success"
	TypeInfo    Type = "info"
	TypeWarning Type = "warning"
	TypeError   Type = "error"
)

// ContextModal scopes a notification to the event details modal.
const ContextModal = "modal"

// DurationPersistent keeps a notification on screen until dismissed.
const DurationPersistent = -1

// Message keys emitted by the event details operations.
const (
	KeyACLSaved    = "SAVED_ACL_RULES"
	KeyACLNotSaved = "ACL_NOT_SAVED"
)

var (
	ErrInvalidType = errors.New("invalid notification type")
)

// Notification is a user-facing message raised by a console operation.
type Notification struct {
	ID             int64     `json:"id,omitempty"`
	NotificationID uuid.UUID `json:"notificationId"`
	EventID        string    `json:"eventId,omitempty"`
	Type           Type      `json:"type"`
	Key            string    `json:"key"`
	Duration       int       `json:"duration"`
	Context        string    `json:"context"`
	CreatedAt      time.Time `json:"createdAt"`
}

// NewNotification creates a persistent notification in the modal context.
func NewNotification(eventID string, typ Type, key string) *Notification {
	return &Notification{
		NotificationID: uuid.New(),
		EventID:        eventID,
		Type:           typ,
		Key:            key,
		Duration:       DurationPersistent,
		Context:        ContextModal,
		CreatedAt:      time.Now().UTC(),
	}
}

// Validate checks the notification can be published.
func (n *Notification) Validate() error {
	switch n.Type {
	case TypeSuccess, TypeInfo, TypeWarning, TypeError:
	default:
		return ErrInvalidType
	}
	if n.Key == "" {
		return errors.New("notification key is required")
	}
	return nil
}

// IsError reports whether the notification announces a failure.
func (n *Notification) IsError() bool {
	return n.Type == TypeError
}

// SSEClient represents an active SSE connection. A client with no event
// ids receives messages for every event.
type SSEClient struct {
	ClientID    string
	EventIDs    []string
	ConnectedAt time.Time
	MessageChan chan *SSEMessage
}

// NewSSEClient creates a new SSE client
func NewSSEClient(clientID string, eventIDs []string) *SSEClient {
	return &SSEClient{
		ClientID:    clientID,
		EventIDs:    eventIDs,
		ConnectedAt: time.Now().UTC(),
		MessageChan: make(chan *SSEMessage, 100),
	}
}

// Follows reports whether the client subscribed to the event.
func (c *SSEClient) Follows(eventID string) bool {
	if len(c.EventIDs) == 0 {
		return true
	}
	for _, id := range c.EventIDs {
		if id == eventID {
			return true
		}
	}
	return false
}

// Close closes the client's message channel
func (c *SSEClient) Close() {
	close(c.MessageChan)
}

// SSE event names.
const (
	SSEEventNotification = "notification"
	SSEEventTransition   = "transition"
)

// SSEMessage represents a message to be sent via SSE
type SSEMessage struct {
	ID        string          `json:"id"`
	Event     string          `json:"event"`
	EventID   string          `json:"eventId,omitempty"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewSSEMessage creates a new SSE message
func NewSSEMessage(event, eventID string, data json.RawMessage) *SSEMessage {
	return &SSEMessage{
		ID:        uuid.New().String(),
		Event:     event,
		EventID:   eventID,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

// Filter represents filters for querying notifications
type Filter struct {
	EventID *string
	Type    *Type
	Since   *time.Time
}
