package models

// Notification types emitted by the webhook normalizer
const (
	NotificationNewBooking         = "new_booking"
	NotificationBookingCancelled   = "booking_cancelled"
	NotificationBookingCanceled    = "booking_canceled" // Calendly spelling, kept for parity with its event names
	NotificationBookingRescheduled = "booking_rescheduled"
	NotificationMeetingEnded       = "meeting_ended"
	NotificationDemoRequest        = "demo_request"
)

// Notification is the internal shape forwarded to the notification sink
type Notification struct {
	Type string                 `json:"type"`
	Data map[string]interface{} `json:"data"`
}
