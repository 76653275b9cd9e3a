package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/complyscan/complyscan-api/internal/models"
	"github.com/complyscan/complyscan-api/pkg/httpclient"
	"github.com/complyscan/complyscan-api/pkg/logger"
	"github.com/complyscan/complyscan-api/pkg/metrics"
	"go.uber.org/zap"
)

// NotificationServiceImpl is the notification sink for the sales team.
// Every notification is logged; when a Slack incoming-webhook URL is
// configured the notification is also forwarded there. Forwarding is
// fire-and-forget: failures are logged and never reach the caller.
type NotificationServiceImpl struct {
	slackWebhookURL string
	httpClient      httpclient.Client
}

// NewNotificationService creates a notification sink. An empty webhook URL
// means log-only mode.
func NewNotificationService(slackWebhookURL string, httpClient httpclient.Client) *NotificationServiceImpl {
	return &NotificationServiceImpl{
		slackWebhookURL: slackWebhookURL,
		httpClient:      httpClient,
	}
}

// Notify delivers a notification to all configured channels
func (s *NotificationServiceImpl) Notify(ctx context.Context, notification models.Notification) {
	logger.Info("Notification",
		zap.String("type", notification.Type),
		zap.Any("data", notification.Data))

	if s.slackWebhookURL == "" {
		metrics.NotificationsTotal.WithLabelValues(notification.Type, "logged").Inc()
		return
	}

	if err := s.postToSlack(notification); err != nil {
		logger.Error("Failed to forward notification to Slack",
			zap.String("type", notification.Type),
			zap.Error(err))
		metrics.NotificationsTotal.WithLabelValues(notification.Type, "error").Inc()
		return
	}

	metrics.NotificationsTotal.WithLabelValues(notification.Type, "sent").Inc()
}

func (s *NotificationServiceImpl) postToSlack(notification models.Notification) error {
	payload, err := json.Marshal(map[string]string{
		"text": formatSlackMessage(notification),
	})
	if err != nil {
		return fmt.Errorf("failed to encode Slack payload: %w", err)
	}

	resp, err := s.httpClient.Post(s.slackWebhookURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("slack request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("slack returned status %s", resp.Status)
	}
	return nil
}

func formatSlackMessage(notification models.Notification) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "*%s*", notification.Type)

	data, err := json.MarshalIndent(notification.Data, "", "  ")
	if err == nil && len(notification.Data) > 0 {
		fmt.Fprintf(&buf, "\n```%s```", data)
	}
	return buf.String()
}
