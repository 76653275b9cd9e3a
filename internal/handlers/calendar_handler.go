package handlers

import (
	"net/http"
	"strconv"

	"github.com/complyscan/complyscan-api/internal/models"
	"github.com/complyscan/complyscan-api/internal/services"
	"github.com/complyscan/complyscan-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

const defaultEventsLimit = 10

// WidgetConfig holds the public scheduling-widget values the marketing
// frontend embeds. No secrets belong here.
type WidgetConfig struct {
	CalcomLinkURL   string
	CalendlyLinkURL string
	AppURL          string
}

// CalendarHandler serves the unified calendar endpoints
type CalendarHandler struct {
	calendarService services.CalendarService
	widgetConfig    WidgetConfig
}

// NewCalendarHandler creates a new calendar handler
func NewCalendarHandler(calendarService services.CalendarService, widgetConfig WidgetConfig) *CalendarHandler {
	return &CalendarHandler{
		calendarService: calendarService,
		widgetConfig:    widgetConfig,
	}
}

// GetEvents handles GET /api/v1/calendar/events
//
// total reports the full aggregated count; events is truncated to limit.
// The source parameter is advisory only and logged for analytics.
func (h *CalendarHandler) GetEvents(c *gin.Context) {
	limit := defaultEventsLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	if source := c.Query("source"); source != "" {
		logger.Debug("Calendar events requested for source", zap.String("source", source))
	}

	events := h.calendarService.GetAllUpcomingEvents(c.Request.Context())

	total := len(events)
	if len(events) > limit {
		events = events[:limit]
	}

	c.JSON(http.StatusOK, models.EventsResponse{
		Success: true,
		Events:  events,
		Total:   total,
	})
}

type calendarEventEnvelope struct {
	Type string `json:"type"`
}

// PostEvent handles POST /api/v1/calendar/events
func (h *CalendarHandler) PostEvent(c *gin.Context) {
	var envelope calendarEventEnvelope
	if err := c.ShouldBindBodyWith(&envelope, binding.JSON); err != nil {
		attachError(c, err)
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body",
		})
		return
	}

	if envelope.Type != "book_demo" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid event type",
		})
		return
	}

	var req models.BookingRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		attachError(c, err)
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Validation failed",
			"details": ParseValidationErrors(err),
		})
		return
	}

	resp := h.calendarService.BookDemo(c.Request.Context(), &req)
	c.JSON(http.StatusOK, resp)
}

// GetConfig handles GET /api/v1/calendar/config
func (h *CalendarHandler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"config": gin.H{
			"calcomLink":   h.widgetConfig.CalcomLinkURL,
			"calendlyLink": h.widgetConfig.CalendlyLinkURL,
			"appUrl":       h.widgetConfig.AppURL,
		},
	})
}
