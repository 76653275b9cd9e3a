package calcom

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/complyscan/complyscan-api/pkg/errors"
	"github.com/complyscan/complyscan-api/pkg/httpclient"
	"github.com/complyscan/complyscan-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	_ = logger.Initialize(logger.Config{
		Level:       "debug",
		Environment: "development",
	})
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClientWithBaseURL("test-token", server.URL, httpclient.NewStandardClient())
	return client, server
}

func TestGetBookings(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "/bookings", r.URL.Path)
		assert.Equal(t, "upcoming", r.URL.Query().Get("status"))
		assert.Equal(t, "5", r.URL.Query().Get("take"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"bookings": [
				{
					"id": 101,
					"title": "ComplyScan Demo",
					"startTime": "2026-09-10T14:00:00.000Z",
					"endTime": "2026-09-10T14:30:00.000Z",
					"status": "ACCEPTED",
					"attendees": [{"email": "jordan@acme.test", "name": "Jordan"}],
					"location": {"type": "integrations:zoom", "link": "https://zoom.us/j/123"}
				}
			]
		}`))
	})

	resp, err := client.GetBookings(context.Background(), BookingsParams{Status: "upcoming", Take: 5})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)

	booking := resp.Bookings[0]
	assert.Equal(t, int64(101), booking.ID)
	assert.Equal(t, "ACCEPTED", booking.Status)
	require.NotNil(t, booking.Location)
	assert.Equal(t, "integrations:zoom", booking.Location.Type)
	assert.Equal(t, "https://zoom.us/j/123", booking.Location.Link)
}

func TestGetBookingsStringLocation(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"bookings": [
				{"id": 7, "startTime": "2026-09-10T14:00:00.000Z", "endTime": "2026-09-10T15:00:00.000Z", "status": "ACCEPTED", "location": "inPerson"}
			]
		}`))
	})

	resp, err := client.GetBookings(context.Background(), BookingsParams{})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	require.NotNil(t, resp.Bookings[0].Location)
	assert.Equal(t, "inPerson", resp.Bookings[0].Location.Type)
	assert.Empty(t, resp.Bookings[0].Location.Link)
}

func TestGetBookingNotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetBooking(context.Background(), 999)
	require.Error(t, err)

	apiErr, ok := apperrors.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, ProviderName, apiErr.Provider)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestCancelBooking(t *testing.T) {
	var gotBody map[string]string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/bookings/42/cancel", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	})

	err := client.CancelBooking(context.Background(), 42, "customer request")
	require.NoError(t, err)
	assert.Equal(t, "customer request", gotBody["reason"])
}

func TestCreateBooking(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var req CreateBookingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(5), req.EventTypeID)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 200, "startTime": "2026-09-12T10:00:00.000Z", "endTime": "2026-09-12T10:30:00.000Z", "status": "PENDING"}`))
	})

	booking, err := client.CreateBooking(context.Background(), &CreateBookingRequest{
		EventTypeID: 5,
		Start:       "2026-09-12T10:00:00.000Z",
		End:         "2026-09-12T10:30:00.000Z",
		TimeZone:    "Europe/Berlin",
		Language:    "en",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(200), booking.ID)
	assert.Equal(t, "PENDING", booking.Status)
}

func TestServerErrorNoRetry(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.GetMe(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, calls, "client must not retry failed requests")
}
