package services

import (
	"context"

	"github.com/complyscan/complyscan-api/internal/models"
	"github.com/complyscan/complyscan-api/pkg/logger"
	"github.com/stretchr/testify/mock"
)

func init() {
	_ = logger.Initialize(logger.Config{
		Level:       "debug",
		Environment: "development",
	})
}

// MockNotificationSink records notifications for assertions
type MockNotificationSink struct {
	mock.Mock
}

func (m *MockNotificationSink) Notify(ctx context.Context, notification models.Notification) {
	m.Called(ctx, notification)
}

// MockEventSource is a scriptable provider source
type MockEventSource struct {
	mock.Mock
	name string
}

func NewMockEventSource(name string) *MockEventSource {
	return &MockEventSource{name: name}
}

func (m *MockEventSource) Name() string { return m.name }

func (m *MockEventSource) FetchEvents(ctx context.Context, limit int) ([]models.CalendarEvent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CalendarEvent), args.Error(1)
}
