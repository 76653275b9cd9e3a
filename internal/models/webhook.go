package models

// Cal.com webhook trigger types
const (
	CalcomBookingCreated     = "BOOKING_CREATED"
	CalcomBookingCancelled   = "BOOKING_CANCELLED"
	CalcomBookingRescheduled = "BOOKING_RESCHEDULED"
	CalcomMeetingEnded       = "MEETING_ENDED"
)

// Calendly webhook event types
const (
	CalendlyInviteeCreated  = "invitee.created"
	CalendlyInviteeCanceled = "invitee.canceled"
)

// CalcomWebhookEvent represents a Cal.com booking lifecycle webhook delivery
type CalcomWebhookEvent struct {
	TriggerEvent string        `json:"triggerEvent"`
	CreatedAt    string        `json:"createdAt"`
	Payload      CalcomPayload `json:"payload"`
}

// CalcomPayload is the booking payload attached to every Cal.com trigger
type CalcomPayload struct {
	Type                string                 `json:"type"`
	Title               string                 `json:"title"`
	Description         string                 `json:"description,omitempty"`
	AdditionalNotes     string                 `json:"additionalNotes,omitempty"`
	CustomInputs        map[string]interface{} `json:"customInputs,omitempty"`
	StartTime           string                 `json:"startTime"`
	EndTime             string                 `json:"endTime"`
	Organizer           CalcomOrganizer        `json:"organizer"`
	Attendees           []CalcomAttendee       `json:"attendees"`
	Location            string                 `json:"location,omitempty"`
	UID                 string                 `json:"uid"`
	BookingID           int64                  `json:"bookingId"`
	EventTypeID         int64                  `json:"eventTypeId"`
	RescheduleUID       string                 `json:"rescheduleUid,omitempty"`
	RescheduleStartTime string                 `json:"rescheduleStartTime,omitempty"`
	RescheduleEndTime   string                 `json:"rescheduleEndTime,omitempty"`
	Metadata            map[string]interface{} `json:"metadata,omitempty"`
}

type CalcomOrganizer struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	TimeZone string `json:"timeZone"`
}

type CalcomAttendee struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	TimeZone string `json:"timeZone"`
	Locale   string `json:"locale,omitempty"`
}

// CalendlyWebhookEvent represents a Calendly invitee lifecycle webhook delivery
type CalendlyWebhookEvent struct {
	CreatedAt string          `json:"created_at"`
	CreatedBy string          `json:"created_by"`
	Event     string          `json:"event"`
	Payload   CalendlyPayload `json:"payload"`
}

// CalendlyPayload is the invitee payload attached to Calendly events
type CalendlyPayload struct {
	CancelURL           string                   `json:"cancel_url,omitempty"`
	CreatedAt           string                   `json:"created_at"`
	Email               string                   `json:"email"`
	Event               string                   `json:"event"`
	Name                string                   `json:"name"`
	NewInvitee          string                   `json:"new_invitee,omitempty"`
	OldInvitee          string                   `json:"old_invitee,omitempty"`
	QuestionsAndAnswers []CalendlyQuestionAnswer `json:"questions_and_answers,omitempty"`
	RescheduleURL       string                   `json:"reschedule_url,omitempty"`
	Rescheduled         bool                     `json:"rescheduled,omitempty"`
	Status              string                   `json:"status"`
	TextReminderNumber  string                   `json:"text_reminder_number,omitempty"`
	Timezone            string                   `json:"timezone"`
	Tracking            *CalendlyTracking        `json:"tracking,omitempty"`
	UpdatedAt           string                   `json:"updated_at"`
	URI                 string                   `json:"uri"`
}

type CalendlyQuestionAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type CalendlyTracking struct {
	UTMCampaign    string `json:"utm_campaign,omitempty"`
	UTMSource      string `json:"utm_source,omitempty"`
	UTMMedium      string `json:"utm_medium,omitempty"`
	UTMContent     string `json:"utm_content,omitempty"`
	UTMTerm        string `json:"utm_term,omitempty"`
	SalesforceUUID string `json:"salesforce_uuid,omitempty"`
}
