package googlecal

import (
	"context"
	"fmt"
	"time"

	"github.com/complyscan/complyscan-api/pkg/logger"
	"github.com/complyscan/complyscan-api/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// ProviderName identifies this client in errors, logs and metrics
const ProviderName = "google"

// Client wraps the Google Calendar API for a single account authorized
// via an offline OAuth2 refresh token. The token source transparently
// refreshes and caches access tokens until expiry.
type Client struct {
	service    *calendar.Service
	calendarID string
}

// Config holds the OAuth2 credentials for the calendar account
type Config struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	CalendarID   string // defaults to "primary"
}

// NewClient builds a calendar service from a refresh token
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	oauthConfig := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{calendar.CalendarScope},
	}

	tokenSource := oauthConfig.TokenSource(ctx, &oauth2.Token{
		RefreshToken: cfg.RefreshToken,
	})

	service, err := calendar.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	calendarID := cfg.CalendarID
	if calendarID == "" {
		calendarID = "primary"
	}

	return &Client{
		service:    service,
		calendarID: calendarID,
	}, nil
}

// NewClientWithService creates a client over an existing calendar service.
// Used by tests to target an httptest server.
func NewClientWithService(service *calendar.Service, calendarID string) *Client {
	if calendarID == "" {
		calendarID = "primary"
	}
	return &Client{service: service, calendarID: calendarID}
}

// ListUpcomingEvents returns future events ordered by start time, with
// recurring events expanded to single instances
func (c *Client) ListUpcomingEvents(ctx context.Context, maxResults int64) ([]*calendar.Event, error) {
	start := time.Now()

	call := c.service.Events.List(c.calendarID).
		TimeMin(time.Now().Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx)
	if maxResults > 0 {
		call = call.MaxResults(maxResults)
	}

	events, err := call.Do()
	c.observe("listUpcomingEvents", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events.Items, nil
}

// GetEvent fetches a single event by ID
func (c *Client) GetEvent(ctx context.Context, eventID string) (*calendar.Event, error) {
	start := time.Now()

	event, err := c.service.Events.Get(c.calendarID, eventID).Context(ctx).Do()
	c.observe("getEvent", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to get event %s: %w", eventID, err)
	}
	return event, nil
}

// CreateEvent inserts an event into the calendar
func (c *Client) CreateEvent(ctx context.Context, event *calendar.Event) (*calendar.Event, error) {
	start := time.Now()

	created, err := c.service.Events.Insert(c.calendarID, event).Context(ctx).Do()
	c.observe("createEvent", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return created, nil
}

// DeleteEvent removes an event from the calendar
func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	start := time.Now()

	err := c.service.Events.Delete(c.calendarID, eventID).Context(ctx).Do()
	c.observe("deleteEvent", start, err)
	if err != nil {
		return fmt.Errorf("failed to delete event %s: %w", eventID, err)
	}
	return nil
}

func (c *Client) observe(operation string, start time.Time, err error) {
	duration := metrics.MeasureDuration(start)
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.ProviderRequestDuration.WithLabelValues(ProviderName, operation, status).Observe(duration)
	metrics.ProviderRequestTotal.WithLabelValues(ProviderName, operation, status).Inc()

	if err != nil {
		logger.LogAPICall(ProviderName, operation, "error", duration, zap.Error(err))
		return
	}
	logger.LogAPICall(ProviderName, operation, "success", duration)
}
