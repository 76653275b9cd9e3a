package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/complyscan/complyscan-api/internal/models"
	"github.com/complyscan/complyscan-api/internal/services"
	"github.com/complyscan/complyscan-api/pkg/logger"
	"github.com/complyscan/complyscan-api/pkg/metrics"
	"github.com/complyscan/complyscan-api/pkg/signature"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	calcomSignatureHeader   = "x-cal-signature-256"
	calendlySignatureHeader = "calendly-webhook-signature"
)

// WebhookHandler receives booking lifecycle webhooks from the scheduling
// providers. Verification is skipped when the provider secret is not
// configured or the delivery carries no signature header; this mirrors the
// providers' own "signing optional" rollout behavior.
type WebhookHandler struct {
	webhookService services.WebhookService
	calcomSecret   string
	calendlySecret string
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(webhookService services.WebhookService, calcomSecret, calendlySecret string) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
		calcomSecret:   calcomSecret,
		calendlySecret: calendlySecret,
	}
}

// HandleCalcomWebhook handles POST /api/webhooks/calcom
func (h *WebhookHandler) HandleCalcomWebhook(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Webhook processing failed", err)
		return
	}

	sigHeader := c.GetHeader(calcomSignatureHeader)
	if h.calcomSecret != "" && sigHeader != "" {
		if !signature.VerifyHex(body, sigHeader, h.calcomSecret) {
			metrics.WebhookSignatureFailures.WithLabelValues("calcom").Inc()
			logger.Warn("Rejected Cal.com webhook with invalid signature")
			respondError(c, http.StatusUnauthorized, "Invalid webhook signature", nil)
			return
		}
	}

	var event models.CalcomWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		logger.Error("Failed to parse Cal.com webhook body", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Webhook processing failed", err)
		return
	}

	if err := h.webhookService.HandleCalcomEvent(c.Request.Context(), &event); err != nil {
		// Dispatch errors are logged inside the service; the delivery is
		// still acknowledged so the provider doesn't redeliver forever
		logger.Error("Cal.com webhook dispatch failed", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CalcomWebhookInfo handles GET /api/webhooks/calcom
func (h *WebhookHandler) CalcomWebhookInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Cal.com webhook endpoint"})
}

// HandleCalendlyWebhook handles POST /api/webhooks/calendly
func (h *WebhookHandler) HandleCalendlyWebhook(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Webhook processing failed", err)
		return
	}

	sigHeader := c.GetHeader(calendlySignatureHeader)
	if h.calendlySecret != "" && sigHeader != "" {
		if !signature.VerifyBase64(body, sigHeader, h.calendlySecret) {
			metrics.WebhookSignatureFailures.WithLabelValues("calendly").Inc()
			logger.Warn("Rejected Calendly webhook with invalid signature")
			respondError(c, http.StatusUnauthorized, "Invalid webhook signature", nil)
			return
		}
	}

	var event models.CalendlyWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		logger.Error("Failed to parse Calendly webhook body", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Webhook processing failed", err)
		return
	}

	if err := h.webhookService.HandleCalendlyEvent(c.Request.Context(), &event); err != nil {
		logger.Error("Calendly webhook dispatch failed", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CalendlyWebhookInfo handles GET /api/webhooks/calendly
func (h *WebhookHandler) CalendlyWebhookInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Calendly webhook endpoint"})
}
