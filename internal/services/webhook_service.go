package services

import (
	"context"

	"github.com/complyscan/complyscan-api/internal/models"
	"github.com/complyscan/complyscan-api/pkg/logger"
	"github.com/complyscan/complyscan-api/pkg/metrics"
	"go.uber.org/zap"
)

// WebhookServiceImpl turns provider webhook deliveries into internal
// notifications. Dispatch never fails the delivery: the provider already
// considers the event delivered once it parses, so handler problems are
// logged and the webhook is still acknowledged.
type WebhookServiceImpl struct {
	notifier NotificationSink
}

// NewWebhookService creates a new webhook service
func NewWebhookService(notifier NotificationSink) *WebhookServiceImpl {
	return &WebhookServiceImpl{notifier: notifier}
}

// HandleCalcomEvent dispatches a Cal.com booking lifecycle event
func (s *WebhookServiceImpl) HandleCalcomEvent(ctx context.Context, event *models.CalcomWebhookEvent) error {
	payload := event.Payload

	logger.Info("Processing Cal.com webhook",
		zap.String("trigger", event.TriggerEvent),
		zap.Int64("booking_id", payload.BookingID))

	switch event.TriggerEvent {
	case models.CalcomBookingCreated:
		s.notifier.Notify(ctx, models.Notification{
			Type: models.NotificationNewBooking,
			Data: map[string]interface{}{
				"bookingId":       payload.BookingID,
				"eventTitle":      payload.Title,
				"organizerName":   payload.Organizer.Name,
				"organizerEmail":  payload.Organizer.Email,
				"attendees":       calcomAttendeeEmails(payload.Attendees),
				"scheduledTime":   payload.StartTime,
				"endTime":         payload.EndTime,
				"location":        payload.Location,
				"customInputs":    payload.CustomInputs,
				"additionalNotes": payload.AdditionalNotes,
			},
		})

	case models.CalcomBookingCancelled:
		s.notifier.Notify(ctx, models.Notification{
			Type: models.NotificationBookingCancelled,
			Data: map[string]interface{}{
				"bookingId":     payload.BookingID,
				"eventTitle":    payload.Title,
				"organizerName": payload.Organizer.Name,
				"attendees":     calcomAttendeeEmails(payload.Attendees),
				"cancelledAt":   event.CreatedAt,
			},
		})

	case models.CalcomBookingRescheduled:
		s.notifier.Notify(ctx, models.Notification{
			Type: models.NotificationBookingRescheduled,
			Data: map[string]interface{}{
				"bookingId":     payload.BookingID,
				"eventTitle":    payload.Title,
				"oldStartTime":  payload.RescheduleStartTime,
				"newStartTime":  payload.StartTime,
				"rescheduledAt": event.CreatedAt,
			},
		})

	case models.CalcomMeetingEnded:
		s.notifier.Notify(ctx, models.Notification{
			Type: models.NotificationMeetingEnded,
			Data: map[string]interface{}{
				"bookingId":  payload.BookingID,
				"eventTitle": payload.Title,
				"endedAt":    payload.EndTime,
			},
		})

	default:
		logger.Warn("Unhandled Cal.com webhook trigger",
			zap.String("trigger", event.TriggerEvent))
		metrics.WebhookEventsTotal.WithLabelValues("calcom", event.TriggerEvent, "ignored").Inc()
		return nil
	}

	metrics.WebhookEventsTotal.WithLabelValues("calcom", event.TriggerEvent, "processed").Inc()
	return nil
}

// HandleCalendlyEvent dispatches a Calendly invitee lifecycle event
func (s *WebhookServiceImpl) HandleCalendlyEvent(ctx context.Context, event *models.CalendlyWebhookEvent) error {
	payload := event.Payload

	logger.Info("Processing Calendly webhook",
		zap.String("event", event.Event),
		zap.String("invitee_email", payload.Email))

	switch event.Event {
	case models.CalendlyInviteeCreated:
		s.notifier.Notify(ctx, models.Notification{
			Type: models.NotificationNewBooking,
			Data: map[string]interface{}{
				"customerName":        payload.Name,
				"customerEmail":       payload.Email,
				"eventType":           payload.Event,
				"scheduledTime":       event.CreatedAt,
				"timezone":            payload.Timezone,
				"questionsAndAnswers": payload.QuestionsAndAnswers,
			},
		})

	case models.CalendlyInviteeCanceled:
		s.notifier.Notify(ctx, models.Notification{
			Type: models.NotificationBookingCanceled,
			Data: map[string]interface{}{
				"customerName":  payload.Name,
				"customerEmail": payload.Email,
				"eventType":     payload.Event,
				"canceledAt":    event.CreatedAt,
			},
		})

	default:
		logger.Warn("Unhandled Calendly webhook event",
			zap.String("event", event.Event))
		metrics.WebhookEventsTotal.WithLabelValues("calendly", event.Event, "ignored").Inc()
		return nil
	}

	metrics.WebhookEventsTotal.WithLabelValues("calendly", event.Event, "processed").Inc()
	return nil
}

func calcomAttendeeEmails(attendees []models.CalcomAttendee) []string {
	emails := make([]string, 0, len(attendees))
	for _, a := range attendees {
		emails = append(emails, a.Email)
	}
	return emails
}
