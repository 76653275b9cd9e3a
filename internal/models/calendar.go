package models

// Event statuses in the unified calendar representation
const (
	EventStatusScheduled = "scheduled"
	EventStatusCancelled = "cancelled"
	EventStatusCompleted = "completed"
)

// CalendarEvent is the provider-agnostic representation of a scheduled meeting.
// Fields a provider doesn't supply are left empty, never synthesized.
type CalendarEvent struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	StartTime   string   `json:"startTime"`
	EndTime     string   `json:"endTime"`
	Attendees   []string `json:"attendees"`
	MeetingURL  string   `json:"meetingUrl,omitempty"`
	Status      string   `json:"status"`
}

// BookingRequest represents a demo-booking form submission from the marketing site
type BookingRequest struct {
	Name          string `json:"name" binding:"required,max=100"`
	Email         string `json:"email" binding:"required,email"`
	Company       string `json:"company,omitempty" binding:"max=200"`
	Phone         string `json:"phone,omitempty" binding:"max=40"`
	Message       string `json:"message,omitempty" binding:"max=2000"`
	PreferredTime string `json:"preferredTime,omitempty"`
	Timezone      string `json:"timezone,omitempty"`
}

// BookingResponse acknowledges a demo-booking submission
type BookingResponse struct {
	Success   bool            `json:"success"`
	BookingID string          `json:"bookingId,omitempty"`
	Message   string          `json:"message,omitempty"`
	Request   *BookingRequest `json:"request,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// EventsResponse is the aggregation endpoint response envelope
type EventsResponse struct {
	Success bool            `json:"success"`
	Events  []CalendarEvent `json:"events"`
	Total   int             `json:"total"`
}
