package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/execution-hub/event-console/internal/domain/notification"
)

// MockRepository is a mock implementation of notification.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockRepository) List(ctx context.Context, filter notification.Filter, limit, offset int) ([]*notification.Notification, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*notification.Notification), args.Error(1)
}

// MockSSEHub is a mock implementation of notification.SSEHub
type MockSSEHub struct {
	mock.Mock
}

func (m *MockSSEHub) Register(client *notification.SSEClient) {
	m.Called(client)
}

func (m *MockSSEHub) Unregister(client *notification.SSEClient) {
	m.Called(client)
}

func (m *MockSSEHub) GetClientCount() int {
	args := m.Called()
	return args.Int(0)
}

func (m *MockSSEHub) BroadcastToEvent(eventID string, message *notification.SSEMessage) {
	m.Called(eventID, message)
}

func (m *MockSSEHub) Stop() {
	m.Called()
}
