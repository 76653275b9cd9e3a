package handlers

import (
	"context"

	"github.com/complyscan/complyscan-api/internal/models"
	"github.com/complyscan/complyscan-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

func init() {
	gin.SetMode(gin.TestMode)
	_ = logger.Initialize(logger.Config{
		Level:       "debug",
		Environment: "development",
	})
}

// MockWebhookService mocks services.WebhookService
type MockWebhookService struct {
	mock.Mock
}

func (m *MockWebhookService) HandleCalcomEvent(ctx context.Context, event *models.CalcomWebhookEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockWebhookService) HandleCalendlyEvent(ctx context.Context, event *models.CalendlyWebhookEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockCalendarService mocks services.CalendarService
type MockCalendarService struct {
	mock.Mock
}

func (m *MockCalendarService) GetAllUpcomingEvents(ctx context.Context) []models.CalendarEvent {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]models.CalendarEvent)
}

func (m *MockCalendarService) BookDemo(ctx context.Context, req *models.BookingRequest) *models.BookingResponse {
	args := m.Called(ctx, req)
	return args.Get(0).(*models.BookingResponse)
}
