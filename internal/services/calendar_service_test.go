package services

import (
	"context"
	"errors"
	"testing"

	"github.com/complyscan/complyscan-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func eventsFor(provider string, count int) []models.CalendarEvent {
	events := make([]models.CalendarEvent, 0, count)
	for i := 0; i < count; i++ {
		events = append(events, models.CalendarEvent{
			ID:        provider + "-event",
			Title:     "Meeting",
			StartTime: "2026-09-10T14:00:00Z",
			EndTime:   "2026-09-10T14:30:00Z",
			Attendees: []string{},
			Status:    models.EventStatusScheduled,
		})
	}
	return events
}

func TestGetAllUpcomingEventsMergesAllSources(t *testing.T) {
	first := NewMockEventSource("cal.com")
	first.On("FetchEvents", mock.Anything, maxEventsPerProvider).Return(eventsFor("calcom", 2), nil)

	second := NewMockEventSource("calendly")
	second.On("FetchEvents", mock.Anything, maxEventsPerProvider).Return(eventsFor("calendly", 3), nil)

	sink := new(MockNotificationSink)
	svc := NewCalendarService(sink, first, second)

	events := svc.GetAllUpcomingEvents(context.Background())

	assert.Len(t, events, 5)
	// Provider order is stable: all Cal.com events precede Calendly ones
	assert.Equal(t, "calcom-event", events[0].ID)
	assert.Equal(t, "calendly-event", events[2].ID)
	first.AssertExpectations(t)
	second.AssertExpectations(t)
}

func TestGetAllUpcomingEventsToleratesFailingProvider(t *testing.T) {
	healthy := NewMockEventSource("cal.com")
	healthy.On("FetchEvents", mock.Anything, mock.Anything).Return(eventsFor("calcom", 2), nil)

	broken := NewMockEventSource("microsoft")
	broken.On("FetchEvents", mock.Anything, mock.Anything).Return(nil, errors.New("upstream down"))

	sink := new(MockNotificationSink)
	svc := NewCalendarService(sink, healthy, broken)

	events := svc.GetAllUpcomingEvents(context.Background())

	assert.Len(t, events, 2, "failing provider contributes zero events")
}

func TestGetAllUpcomingEventsNoProviders(t *testing.T) {
	sink := new(MockNotificationSink)
	svc := NewCalendarService(sink)

	events := svc.GetAllUpcomingEvents(context.Background())

	require.NotNil(t, events)
	assert.Empty(t, events)
}

func TestBookDemo(t *testing.T) {
	sink := new(MockNotificationSink)
	sink.On("Notify", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
		return n.Type == models.NotificationDemoRequest &&
			n.Data["email"] == "jordan@acme.test"
	})).Once()

	svc := NewCalendarService(sink)
	resp := svc.BookDemo(context.Background(), &models.BookingRequest{
		Name:    "Jordan",
		Email:   "jordan@acme.test",
		Company: "Acme GmbH",
	})

	require.NotNil(t, resp)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.BookingID)
	assert.Contains(t, resp.BookingID, "booking_")
	assert.Equal(t, "Demo booking request received", resp.Message)
	require.NotNil(t, resp.Request)
	assert.Equal(t, "Jordan", resp.Request.Name)
	sink.AssertExpectations(t)
}

func TestBookDemoUniqueIDs(t *testing.T) {
	sink := new(MockNotificationSink)
	sink.On("Notify", mock.Anything, mock.Anything)

	svc := NewCalendarService(sink)
	req := &models.BookingRequest{Name: "Jordan", Email: "jordan@acme.test"}

	first := svc.BookDemo(context.Background(), req)
	second := svc.BookDemo(context.Background(), req)

	assert.True(t, first.Success)
	assert.True(t, second.Success)
}
