package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/complyscan/complyscan-api/internal/models"
	"github.com/complyscan/complyscan-api/pkg/httpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyLogOnlyWithoutWebhookURL(t *testing.T) {
	svc := NewNotificationService("", httpclient.NewStandardClient())

	// Must not panic or make any network call
	assert.NotPanics(t, func() {
		svc.Notify(context.Background(), models.Notification{
			Type: models.NotificationNewBooking,
			Data: map[string]interface{}{"bookingId": int64(1)},
		})
	})
}

func TestNotifyForwardsToSlack(t *testing.T) {
	var received map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc := NewNotificationService(server.URL, httpclient.NewStandardClient())
	svc.Notify(context.Background(), models.Notification{
		Type: models.NotificationDemoRequest,
		Data: map[string]interface{}{"email": "jordan@acme.test"},
	})

	require.NotNil(t, received)
	assert.Contains(t, received["text"], models.NotificationDemoRequest)
	assert.Contains(t, received["text"], "jordan@acme.test")
}

func TestNotifySwallowsSlackFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := NewNotificationService(server.URL, httpclient.NewStandardClient())

	assert.NotPanics(t, func() {
		svc.Notify(context.Background(), models.Notification{
			Type: models.NotificationMeetingEnded,
			Data: map[string]interface{}{},
		})
	})
}

func TestFormatSlackMessage(t *testing.T) {
	msg := formatSlackMessage(models.Notification{
		Type: models.NotificationNewBooking,
		Data: map[string]interface{}{"bookingId": int64(42)},
	})

	assert.Contains(t, msg, "*new_booking*")
	assert.Contains(t, msg, "42")

	empty := formatSlackMessage(models.Notification{Type: "x"})
	assert.Equal(t, "*x*", empty)
}
