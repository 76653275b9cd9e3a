package msgraph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	apperrors "github.com/complyscan/complyscan-api/pkg/errors"
	"github.com/complyscan/complyscan-api/pkg/logger"
	"github.com/complyscan/complyscan-api/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	// ProviderName identifies this client in errors, logs and metrics
	ProviderName = "microsoft"

	defaultBaseURL = "https://graph.microsoft.com/v1.0"
	tokenURLFormat = "https://login.microsoftonline.com/%s/oauth2/v2.0/token"
)

// Client wraps the Microsoft Graph calendar API using the OAuth2
// client-credentials flow. The underlying http.Client acquires app-only
// tokens lazily and reuses them until expiry.
type Client struct {
	baseURL    string
	userID     string
	httpClient *http.Client
}

// Config holds the app registration credentials
type Config struct {
	ClientID     string
	ClientSecret string
	TenantID     string
	UserID       string // mailbox whose calendar is read
}

// NewClient creates a new Graph client for the configured tenant
func NewClient(ctx context.Context, cfg Config) *Client {
	ccConfig := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     fmt.Sprintf(tokenURLFormat, cfg.TenantID),
		Scopes:       []string{"https://graph.microsoft.com/.default"},
	}

	httpClient := ccConfig.Client(ctx)
	httpClient.Timeout = 10 * time.Second

	return &Client{
		baseURL:    defaultBaseURL,
		userID:     cfg.UserID,
		httpClient: httpClient,
	}
}

// NewClientWithHTTPClient creates a client over a pre-built HTTP client
// and API host. Used by tests to target an httptest server.
func NewClientWithHTTPClient(baseURL, userID string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    baseURL,
		userID:     userID,
		httpClient: httpClient,
	}
}

// Event is a Graph calendar event
type Event struct {
	ID            string            `json:"id,omitempty"`
	Subject       string            `json:"subject,omitempty"`
	BodyPreview   string            `json:"bodyPreview,omitempty"`
	Start         *DateTimeTimeZone `json:"start,omitempty"`
	End           *DateTimeTimeZone `json:"end,omitempty"`
	Attendees     []Attendee        `json:"attendees,omitempty"`
	IsCancelled   bool              `json:"isCancelled,omitempty"`
	OnlineMeeting *OnlineMeeting    `json:"onlineMeeting,omitempty"`
}

// DateTimeTimeZone is the Graph date-time representation
type DateTimeTimeZone struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type Attendee struct {
	EmailAddress EmailAddress `json:"emailAddress"`
	Type         string       `json:"type,omitempty"`
}

type EmailAddress struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
}

type OnlineMeeting struct {
	JoinURL string `json:"joinUrl,omitempty"`
}

// EventsResponse wraps the events collection response
type EventsResponse struct {
	Value []Event `json:"value"`
}

// EventsParams are the query parameters of the events listing
type EventsParams struct {
	Top          int
	MinStartTime time.Time
}

// GetEvents lists calendar events for the configured user, ordered by
// start time ascending
func (c *Client) GetEvents(ctx context.Context, params EventsParams) (*EventsResponse, error) {
	q := url.Values{}
	q.Set("$orderby", "start/dateTime")
	if params.Top > 0 {
		q.Set("$top", strconv.Itoa(params.Top))
	}
	if !params.MinStartTime.IsZero() {
		q.Set("$filter", fmt.Sprintf("start/dateTime ge '%s'", params.MinStartTime.UTC().Format(time.RFC3339)))
	}

	endpoint := fmt.Sprintf("/users/%s/events?%s", url.PathEscape(c.userID), q.Encode())

	var out EventsResponse
	if err := c.request(ctx, "getEvents", http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetEvent fetches a single event by ID
func (c *Client) GetEvent(ctx context.Context, eventID string) (*Event, error) {
	endpoint := fmt.Sprintf("/users/%s/events/%s", url.PathEscape(c.userID), url.PathEscape(eventID))

	var out Event
	if err := c.request(ctx, "getEvent", http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateEvent creates a calendar event for the configured user
func (c *Client) CreateEvent(ctx context.Context, event *Event) (*Event, error) {
	endpoint := fmt.Sprintf("/users/%s/events", url.PathEscape(c.userID))

	var out Event
	if err := c.request(ctx, "createEvent", http.MethodPost, endpoint, event, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelEvent cancels an event with an optional comment
func (c *Client) CancelEvent(ctx context.Context, eventID, comment string) error {
	body := map[string]string{}
	if comment != "" {
		body["comment"] = comment
	}
	endpoint := fmt.Sprintf("/users/%s/events/%s/cancel", url.PathEscape(c.userID), url.PathEscape(eventID))
	return c.request(ctx, "cancelEvent", http.MethodPost, endpoint, body, nil)
}

// request issues an authenticated call and decodes the response into out.
// Non-2xx responses fail with an APIError; no retries.
func (c *Client) request(ctx context.Context, operation, method, endpoint string, body, out interface{}) error {
	start := time.Now()

	err := c.do(ctx, method, endpoint, body, out)

	duration := metrics.MeasureDuration(start)
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.ProviderRequestDuration.WithLabelValues(ProviderName, operation, status).Observe(duration)
	metrics.ProviderRequestTotal.WithLabelValues(ProviderName, operation, status).Inc()

	if err != nil {
		logger.LogAPICall(ProviderName, operation, "error", duration, zap.Error(err))
		return err
	}

	logger.LogAPICall(ProviderName, operation, "success", duration)
	return nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out interface{}) error {
	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperrors.NewAPIError(ProviderName, resp.StatusCode, resp.Status)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
