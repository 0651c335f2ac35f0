package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/execution-hub/event-console/internal/domain/notification"
)

// NotificationRepository keeps notification history in memory, dropping
// the oldest entries past its capacity.
type NotificationRepository struct {
	mu       sync.RWMutex
	items    []*notification.Notification
	capacity int
	nextID   int64
}

func NewNotificationRepository(capacity int) *NotificationRepository {
	if capacity <= 0 {
		capacity = 1000
	}
	return &NotificationRepository{capacity: capacity}
}

func (r *NotificationRepository) Create(_ context.Context, n *notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	n.ID = r.nextID
	r.items = append(r.items, n)
	if over := len(r.items) - r.capacity; over > 0 {
		r.items = append([]*notification.Notification(nil), r.items[over:]...)
	}
	return nil
}

func (r *NotificationRepository) List(_ context.Context, filter notification.Filter, limit, offset int) ([]*notification.Notification, error) {
	r.mu.RLock()
	matched := make([]*notification.Notification, 0, len(r.items))
	for _, n := range r.items {
		if matches(n, filter) {
			matched = append(matched, n)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if offset >= len(matched) {
		return []*notification.Notification{}, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func matches(n *notification.Notification, f notification.Filter) bool {
	if f.EventID != nil && n.EventID != *f.EventID {
		return false
	}
	if f.Type != nil && n.Type != *f.Type {
		return false
	}
	if f.Since != nil && n.CreatedAt.Before(*f.Since) {
		return false
	}
	return true
}
