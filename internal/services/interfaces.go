package services

import (
	"context"

	"github.com/complyscan/complyscan-api/internal/models"
)

// NotificationSink receives normalized internal notifications. Delivery is
// best-effort: implementations swallow their own failures.
type NotificationSink interface {
	Notify(ctx context.Context, notification models.Notification)
}

// WebhookService normalizes provider webhook deliveries into notifications
type WebhookService interface {
	HandleCalcomEvent(ctx context.Context, event *models.CalcomWebhookEvent) error
	HandleCalendlyEvent(ctx context.Context, event *models.CalendlyWebhookEvent) error
}

// CalendarService aggregates provider calendars and accepts demo bookings
type CalendarService interface {
	GetAllUpcomingEvents(ctx context.Context) []models.CalendarEvent
	BookDemo(ctx context.Context, req *models.BookingRequest) *models.BookingResponse
}

// EventSource is one provider's view of upcoming events, already mapped to
// the unified representation
type EventSource interface {
	Name() string
	FetchEvents(ctx context.Context, limit int) ([]models.CalendarEvent, error)
}
