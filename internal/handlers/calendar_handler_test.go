package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/complyscan/complyscan-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCalendarRouter(svc *MockCalendarService) *gin.Engine {
	handler := NewCalendarHandler(svc, WidgetConfig{
		CalcomLinkURL:   "https://cal.com/complyscan/demo",
		CalendlyLinkURL: "https://calendly.com/complyscan/demo",
		AppURL:          "https://complyscan.io",
	})

	router := gin.New()
	router.GET("/api/v1/calendar/events", handler.GetEvents)
	router.POST("/api/v1/calendar/events", handler.PostEvent)
	router.GET("/api/v1/calendar/config", handler.GetConfig)
	return router
}

func sampleEvents(count int) []models.CalendarEvent {
	events := make([]models.CalendarEvent, 0, count)
	for i := 0; i < count; i++ {
		events = append(events, models.CalendarEvent{
			ID:        "ev",
			Title:     "Meeting",
			StartTime: "2026-09-10T14:00:00Z",
			EndTime:   "2026-09-10T14:30:00Z",
			Attendees: []string{},
			Status:    models.EventStatusScheduled,
		})
	}
	return events
}

func TestGetEventsDefaultLimit(t *testing.T) {
	svc := new(MockCalendarService)
	svc.On("GetAllUpcomingEvents", mock.Anything).Return(sampleEvents(3))

	router := newCalendarRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/calendar/events", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.EventsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Len(t, resp.Events, 3)
	assert.Equal(t, 3, resp.Total)
}

func TestGetEventsLimitTruncatesButTotalIsFullCount(t *testing.T) {
	svc := new(MockCalendarService)
	svc.On("GetAllUpcomingEvents", mock.Anything).Return(sampleEvents(5))

	router := newCalendarRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/calendar/events?limit=2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp models.EventsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Events, 2)
	assert.Equal(t, 5, resp.Total)
}

func TestGetEventsInvalidLimitFallsBackToDefault(t *testing.T) {
	svc := new(MockCalendarService)
	svc.On("GetAllUpcomingEvents", mock.Anything).Return(sampleEvents(15))

	router := newCalendarRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/calendar/events?limit=banana", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp models.EventsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Events, defaultEventsLimit)
	assert.Equal(t, 15, resp.Total)
}

func TestGetEventsSourceParamIsAdvisory(t *testing.T) {
	svc := new(MockCalendarService)
	svc.On("GetAllUpcomingEvents", mock.Anything).Return(sampleEvents(1))

	router := newCalendarRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/calendar/events?source=calcom", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Source doesn't filter; aggregation still spans all providers
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertCalled(t, "GetAllUpcomingEvents", mock.Anything)
}

func TestPostEventBookDemo(t *testing.T) {
	svc := new(MockCalendarService)
	svc.On("BookDemo", mock.Anything, mock.MatchedBy(func(req *models.BookingRequest) bool {
		return req.Email == "jordan@acme.test"
	})).Return(&models.BookingResponse{
		Success:   true,
		BookingID: "booking_1756728000000",
		Message:   "Demo booking request received",
	})

	router := newCalendarRouter(svc)

	body := []byte(`{"type":"book_demo","name":"Jordan","email":"jordan@acme.test","company":"Acme GmbH"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/calendar/events", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "booking_1756728000000", resp.BookingID)
	svc.AssertExpectations(t)
}

func TestPostEventUnknownType(t *testing.T) {
	svc := new(MockCalendarService)
	router := newCalendarRouter(svc)

	body := []byte(`{"type":"create_meeting","name":"Jordan","email":"jordan@acme.test"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/calendar/events", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Invalid event type"}`, w.Body.String())
	svc.AssertNotCalled(t, "BookDemo", mock.Anything, mock.Anything)
}

func TestPostEventValidationFailure(t *testing.T) {
	svc := new(MockCalendarService)
	router := newCalendarRouter(svc)

	body := []byte(`{"type":"book_demo","name":"Jordan","email":"not-an-email"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/calendar/events", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "Validation failed", resp["error"])
	assert.NotEmpty(t, resp["details"])
	svc.AssertNotCalled(t, "BookDemo", mock.Anything, mock.Anything)
}

func TestPostEventMalformedBody(t *testing.T) {
	svc := new(MockCalendarService)
	router := newCalendarRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/calendar/events", bytes.NewReader([]byte(`{broken`)))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetConfig(t *testing.T) {
	router := newCalendarRouter(new(MockCalendarService))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/calendar/config", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool              `json:"success"`
		Config  map[string]string `json:"config"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "https://cal.com/complyscan/demo", resp.Config["calcomLink"])
	assert.Equal(t, "https://calendly.com/complyscan/demo", resp.Config["calendlyLink"])
	assert.Equal(t, "https://complyscan.io", resp.Config["appUrl"])
}
