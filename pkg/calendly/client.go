package calendly

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
	"github.com/complyscan/complyscan-api/pkg/httpclient"
	"github.com/complyscan/complyscan-api/pkg/logger"
	"github.com/complyscan/complyscan-api/pkg/metrics"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	// ProviderName identifies this client in errors, logs and metrics
	ProviderName = "calendly"

	defaultBaseURL = "https://api.calendly.com"

	// Scheduled-event listings are scoped to a user URI, which never changes
	// for a given token, so cache the /users/me lookup.
	userCacheKey = "current_user_uri"
	userCacheTTL = 10 * time.Minute
)

// Client wraps the Calendly v2 REST API with bearer-token auth
type Client struct {
	apiToken   string
	baseURL    string
	httpClient httpclient.Client
	cache      *gocache.Cache
}

// NewClient creates a new Calendly API client
func NewClient(apiToken string, httpClient httpclient.Client) *Client {
	return &Client{
		apiToken:   apiToken,
		baseURL:    defaultBaseURL,
		httpClient: httpClient,
		cache:      gocache.New(userCacheTTL, 2*userCacheTTL),
	}
}

// NewClientWithBaseURL creates a client pointed at a non-default API host.
// Used by tests to target an httptest server.
func NewClientWithBaseURL(apiToken, baseURL string, httpClient httpclient.Client) *Client {
	c := NewClient(apiToken, httpClient)
	c.baseURL = baseURL
	return c
}

// User is the authenticated Calendly user
type User struct {
	URI      string `json:"uri"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

// ScheduledEvent is a Calendly scheduled event
type ScheduledEvent struct {
	URI       string         `json:"uri"`
	Name      string         `json:"name"`
	Status    string         `json:"status"`
	StartTime string         `json:"start_time"`
	EndTime   string         `json:"end_time"`
	Location  *EventLocation `json:"location,omitempty"`
}

// EventLocation carries the meeting location of a scheduled event
type EventLocation struct {
	Type    string `json:"type,omitempty"`
	JoinURL string `json:"join_url,omitempty"`
}

// EventsResponse wraps the scheduled-events collection response
type EventsResponse struct {
	Collection []ScheduledEvent `json:"collection"`
	Pagination *Pagination      `json:"pagination,omitempty"`
}

type Pagination struct {
	Count    int    `json:"count"`
	NextPage string `json:"next_page,omitempty"`
}

// EventsParams are the query parameters of the scheduled-events listing
type EventsParams struct {
	Status       string // active, canceled
	Count        int
	MinStartTime time.Time
}

// SchedulingLink is a single-use scheduling link
type SchedulingLink struct {
	BookingURL string `json:"booking_url"`
	Owner      string `json:"owner"`
	OwnerType  string `json:"owner_type"`
}

// GetCurrentUser fetches the authenticated user. The result URI is cached
// because it is needed on every scheduled-events listing.
func (c *Client) GetCurrentUser(ctx context.Context) (*User, error) {
	var out struct {
		Resource User `json:"resource"`
	}
	if err := c.request(ctx, "getCurrentUser", http.MethodGet, "/users/me", nil, &out); err != nil {
		return nil, err
	}
	c.cache.Set(userCacheKey, out.Resource.URI, userCacheTTL)
	return &out.Resource, nil
}

// currentUserURI returns the cached user URI, fetching it on a cache miss
func (c *Client) currentUserURI(ctx context.Context) (string, error) {
	if uri, found := c.cache.Get(userCacheKey); found {
		return uri.(string), nil
	}
	user, err := c.GetCurrentUser(ctx)
	if err != nil {
		return "", err
	}
	return user.URI, nil
}

// ListScheduledEvents lists scheduled events for the authenticated user,
// sorted by start time ascending
func (c *Client) ListScheduledEvents(ctx context.Context, params EventsParams) (*EventsResponse, error) {
	userURI, err := c.currentUserURI(ctx)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("user", userURI)
	q.Set("sort", "start_time:asc")
	if params.Status != "" {
		q.Set("status", params.Status)
	}
	if params.Count > 0 {
		q.Set("count", strconv.Itoa(params.Count))
	}
	if !params.MinStartTime.IsZero() {
		q.Set("min_start_time", params.MinStartTime.UTC().Format(time.RFC3339))
	}

	var out EventsResponse
	if err := c.request(ctx, "listScheduledEvents", http.MethodGet, "/scheduled_events?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetEvent fetches a single scheduled event by UUID
func (c *Client) GetEvent(ctx context.Context, eventUUID string) (*ScheduledEvent, error) {
	var out struct {
		Resource ScheduledEvent `json:"resource"`
	}
	endpoint := "/scheduled_events/" + url.PathEscape(eventUUID)
	if err := c.request(ctx, "getEvent", http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return &out.Resource, nil
}

// CancelEvent cancels a scheduled event with an optional reason
func (c *Client) CancelEvent(ctx context.Context, eventUUID, reason string) error {
	body := map[string]string{}
	if reason != "" {
		body["reason"] = reason
	}
	endpoint := "/scheduled_events/" + url.PathEscape(eventUUID) + "/cancellation"
	return c.request(ctx, "cancelEvent", http.MethodPost, endpoint, body, nil)
}

// CreateSchedulingLink creates a single-use scheduling link for an event type
func (c *Client) CreateSchedulingLink(ctx context.Context, eventTypeURI string) (*SchedulingLink, error) {
	body := map[string]interface{}{
		"max_event_count": 1,
		"owner":           eventTypeURI,
		"owner_type":      "EventType",
	}
	var out struct {
		Resource SchedulingLink `json:"resource"`
	}
	if err := c.request(ctx, "createSchedulingLink", http.MethodPost, "/scheduling_links", body, &out); err != nil {
		return nil, err
	}
	return &out.Resource, nil
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
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
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
