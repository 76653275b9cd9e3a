package services

import (
	"context"
	"path"
	"strconv"
	"time"

	"github.com/complyscan/complyscan-api/internal/models"
	"github.com/complyscan/complyscan-api/pkg/calcom"
	"github.com/complyscan/complyscan-api/pkg/calendly"
	"github.com/complyscan/complyscan-api/pkg/googlecal"
	"github.com/complyscan/complyscan-api/pkg/msgraph"
)

// Provider adapters mapping each client's native event shape into the
// unified models.CalendarEvent. Fields a provider doesn't supply stay
// empty: titles fall back to a generic label, nothing else is invented.

// CalcomEventSource reads upcoming bookings from Cal.com
type CalcomEventSource struct {
	client *calcom.Client
}

func NewCalcomEventSource(client *calcom.Client) *CalcomEventSource {
	return &CalcomEventSource{client: client}
}

func (s *CalcomEventSource) Name() string { return calcom.ProviderName }

func (s *CalcomEventSource) FetchEvents(ctx context.Context, limit int) ([]models.CalendarEvent, error) {
	resp, err := s.client.GetBookings(ctx, calcom.BookingsParams{
		Status: "upcoming",
		Take:   limit,
	})
	if err != nil {
		return nil, err
	}

	events := make([]models.CalendarEvent, 0, len(resp.Bookings))
	for _, booking := range resp.Bookings {
		events = append(events, mapCalcomBooking(booking))
	}
	return events, nil
}

func mapCalcomBooking(booking calcom.Booking) models.CalendarEvent {
	title := booking.Title
	if title == "" && booking.EventType != nil {
		title = booking.EventType.Title
	}
	if title == "" {
		title = "Meeting"
	}

	attendees := make([]string, 0, len(booking.Attendees))
	for _, a := range booking.Attendees {
		attendees = append(attendees, a.Email)
	}

	meetingURL := ""
	if booking.Location != nil && booking.Location.Type == "integrations:zoom" {
		meetingURL = booking.Location.Link
	}

	status := models.EventStatusCancelled
	if booking.Status == "ACCEPTED" {
		status = models.EventStatusScheduled
	}

	return models.CalendarEvent{
		ID:          strconv.FormatInt(booking.ID, 10),
		Title:       title,
		Description: booking.Description,
		StartTime:   booking.StartTime,
		EndTime:     booking.EndTime,
		Attendees:   attendees,
		MeetingURL:  meetingURL,
		Status:      status,
	}
}

// CalendlyEventSource reads active scheduled events from Calendly
type CalendlyEventSource struct {
	client *calendly.Client
}

func NewCalendlyEventSource(client *calendly.Client) *CalendlyEventSource {
	return &CalendlyEventSource{client: client}
}

func (s *CalendlyEventSource) Name() string { return calendly.ProviderName }

func (s *CalendlyEventSource) FetchEvents(ctx context.Context, limit int) ([]models.CalendarEvent, error) {
	resp, err := s.client.ListScheduledEvents(ctx, calendly.EventsParams{
		Status:       "active",
		Count:        limit,
		MinStartTime: time.Now(),
	})
	if err != nil {
		return nil, err
	}

	events := make([]models.CalendarEvent, 0, len(resp.Collection))
	for _, ev := range resp.Collection {
		events = append(events, mapCalendlyEvent(ev))
	}
	return events, nil
}

func mapCalendlyEvent(ev calendly.ScheduledEvent) models.CalendarEvent {
	meetingURL := ""
	if ev.Location != nil {
		meetingURL = ev.Location.JoinURL
	}

	status := models.EventStatusScheduled
	if ev.Status == "canceled" {
		status = models.EventStatusCancelled
	}

	return models.CalendarEvent{
		// The event URI is the only identifier Calendly exposes; keep its tail
		ID:         path.Base(ev.URI),
		Title:      ev.Name,
		StartTime:  ev.StartTime,
		EndTime:    ev.EndTime,
		Attendees:  []string{},
		MeetingURL: meetingURL,
		Status:     status,
	}
}

// GoogleEventSource reads upcoming events from a Google calendar
type GoogleEventSource struct {
	client *googlecal.Client
}

func NewGoogleEventSource(client *googlecal.Client) *GoogleEventSource {
	return &GoogleEventSource{client: client}
}

func (s *GoogleEventSource) Name() string { return googlecal.ProviderName }

func (s *GoogleEventSource) FetchEvents(ctx context.Context, limit int) ([]models.CalendarEvent, error) {
	items, err := s.client.ListUpcomingEvents(ctx, int64(limit))
	if err != nil {
		return nil, err
	}

	events := make([]models.CalendarEvent, 0, len(items))
	for _, item := range items {
		startTime := ""
		endTime := ""
		if item.Start != nil {
			startTime = item.Start.DateTime
		}
		if item.End != nil {
			endTime = item.End.DateTime
		}

		attendees := make([]string, 0, len(item.Attendees))
		for _, a := range item.Attendees {
			attendees = append(attendees, a.Email)
		}

		status := models.EventStatusScheduled
		if item.Status == "cancelled" {
			status = models.EventStatusCancelled
		}

		events = append(events, models.CalendarEvent{
			ID:          item.Id,
			Title:       item.Summary,
			Description: item.Description,
			StartTime:   startTime,
			EndTime:     endTime,
			Attendees:   attendees,
			MeetingURL:  item.HangoutLink,
			Status:      status,
		})
	}
	return events, nil
}

// MicrosoftEventSource reads upcoming events from a Microsoft 365 calendar
type MicrosoftEventSource struct {
	client *msgraph.Client
}

func NewMicrosoftEventSource(client *msgraph.Client) *MicrosoftEventSource {
	return &MicrosoftEventSource{client: client}
}

func (s *MicrosoftEventSource) Name() string { return msgraph.ProviderName }

func (s *MicrosoftEventSource) FetchEvents(ctx context.Context, limit int) ([]models.CalendarEvent, error) {
	resp, err := s.client.GetEvents(ctx, msgraph.EventsParams{
		Top:          limit,
		MinStartTime: time.Now(),
	})
	if err != nil {
		return nil, err
	}

	events := make([]models.CalendarEvent, 0, len(resp.Value))
	for _, ev := range resp.Value {
		events = append(events, mapGraphEvent(ev))
	}
	return events, nil
}

func mapGraphEvent(ev msgraph.Event) models.CalendarEvent {
	startTime := ""
	endTime := ""
	if ev.Start != nil {
		startTime = ev.Start.DateTime
	}
	if ev.End != nil {
		endTime = ev.End.DateTime
	}

	attendees := make([]string, 0, len(ev.Attendees))
	for _, a := range ev.Attendees {
		attendees = append(attendees, a.EmailAddress.Address)
	}

	meetingURL := ""
	if ev.OnlineMeeting != nil {
		meetingURL = ev.OnlineMeeting.JoinURL
	}

	status := models.EventStatusScheduled
	if ev.IsCancelled {
		status = models.EventStatusCancelled
	}

	return models.CalendarEvent{
		ID:          ev.ID,
		Title:       ev.Subject,
		Description: ev.BodyPreview,
		StartTime:   startTime,
		EndTime:     endTime,
		Attendees:   attendees,
		MeetingURL:  meetingURL,
		Status:      status,
	}
}
