package calcom

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
	"go.uber.org/zap"
)

const (
	// ProviderName identifies this client in errors, logs and metrics
	ProviderName = "cal.com"

	defaultBaseURL = "https://api.cal.com/v1"
)

// Client wraps the Cal.com v1 REST API with bearer-token auth.
// Operations are pass-through: request/response shapes mirror the upstream
// contract and the parsed body is returned without reinterpretation.
type Client struct {
	apiToken   string
	baseURL    string
	httpClient httpclient.Client
}

// NewClient creates a new Cal.com API client
func NewClient(apiToken string, httpClient httpclient.Client) *Client {
	return &Client{
		apiToken:   apiToken,
		baseURL:    defaultBaseURL,
		httpClient: httpClient,
	}
}

// NewClientWithBaseURL creates a client pointed at a non-default API host.
// Used by tests to target an httptest server.
func NewClientWithBaseURL(apiToken, baseURL string, httpClient httpclient.Client) *Client {
	c := NewClient(apiToken, httpClient)
	c.baseURL = baseURL
	return c
}

// Booking is a Cal.com booking record
type Booking struct {
	ID          int64      `json:"id"`
	UID         string     `json:"uid,omitempty"`
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	StartTime   string     `json:"startTime"`
	EndTime     string     `json:"endTime"`
	Status      string     `json:"status"`
	Attendees   []Attendee `json:"attendees,omitempty"`
	EventType   *EventType `json:"eventType,omitempty"`
	Location    *Location  `json:"location,omitempty"`
}

type Attendee struct {
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

type EventType struct {
	ID          int64  `json:"id"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Slug        string `json:"slug,omitempty"`
	Length      int    `json:"length,omitempty"`
}

// Location is a booking location. Cal.com serializes it either as a plain
// string ("inPerson", an address) or as an integration object with a join
// link, so unmarshalling accepts both.
type Location struct {
	Type string `json:"type,omitempty"`
	Link string `json:"link,omitempty"`
}

func (l *Location) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		l.Type = s
		return nil
	}

	type plain Location
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*l = Location(p)
	return nil
}

// BookingsResponse wraps the bookings list endpoint response
type BookingsResponse struct {
	Bookings []Booking `json:"bookings"`
}

// BookingsParams are the query parameters of the bookings list endpoint
type BookingsParams struct {
	Status string // upcoming, recurring, past, cancelled
	Take   int
	Skip   int
}

// CreateBookingRequest mirrors the upstream booking-creation body
type CreateBookingRequest struct {
	EventTypeID int64                  `json:"eventTypeId"`
	Start       string                 `json:"start"`
	End         string                 `json:"end"`
	Responses   map[string]interface{} `json:"responses"`
	TimeZone    string                 `json:"timeZone"`
	Language    string                 `json:"language"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// GetMe fetches the authenticated user
func (c *Client) GetMe(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.request(ctx, "getMe", http.MethodGet, "/me", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetBookings lists bookings filtered by the given params
func (c *Client) GetBookings(ctx context.Context, params BookingsParams) (*BookingsResponse, error) {
	q := url.Values{}
	if params.Status != "" {
		q.Set("status", params.Status)
	}
	if params.Take > 0 {
		q.Set("take", strconv.Itoa(params.Take))
	}
	if params.Skip > 0 {
		q.Set("skip", strconv.Itoa(params.Skip))
	}

	endpoint := "/bookings"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	var out BookingsResponse
	if err := c.request(ctx, "getBookings", http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetBooking fetches a single booking by numeric ID
func (c *Client) GetBooking(ctx context.Context, bookingID int64) (*Booking, error) {
	var out struct {
		Booking Booking `json:"booking"`
	}
	endpoint := fmt.Sprintf("/bookings/%d", bookingID)
	if err := c.request(ctx, "getBooking", http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return &out.Booking, nil
}

// CancelBooking cancels a booking with an optional reason
func (c *Client) CancelBooking(ctx context.Context, bookingID int64, reason string) error {
	body := map[string]string{}
	if reason != "" {
		body["reason"] = reason
	}
	endpoint := fmt.Sprintf("/bookings/%d/cancel", bookingID)
	return c.request(ctx, "cancelBooking", http.MethodDelete, endpoint, body, nil)
}

// GetEventTypes lists the account's event types
func (c *Client) GetEventTypes(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.request(ctx, "getEventTypes", http.MethodGet, "/event-types", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateBooking creates a booking against an event type
func (c *Client) CreateBooking(ctx context.Context, req *CreateBookingRequest) (*Booking, error) {
	var out Booking
	if err := c.request(ctx, "createBooking", http.MethodPost, "/bookings", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
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
