package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/complyscan/complyscan-api/internal/models"
	"github.com/complyscan/complyscan-api/pkg/circuitbreaker"
	"github.com/complyscan/complyscan-api/pkg/logger"
	"github.com/complyscan/complyscan-api/pkg/metrics"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const (
	// providerFetchTimeout bounds each provider branch so one hung provider
	// can't stall the whole aggregation
	providerFetchTimeout = 10 * time.Second

	// maxEventsPerProvider caps the page size requested from each provider
	maxEventsPerProvider = 50
)

// CalendarServiceImpl aggregates upcoming events across all configured
// providers and accepts demo-booking submissions.
type CalendarServiceImpl struct {
	sources  []EventSource
	breakers map[string]*gobreaker.CircuitBreaker
	notifier NotificationSink
}

// NewCalendarService creates an aggregator over the given provider sources.
// Sources for unconfigured providers are simply not passed in.
func NewCalendarService(notifier NotificationSink, sources ...EventSource) *CalendarServiceImpl {
	breakers := make(map[string]*gobreaker.CircuitBreaker, len(sources))
	for _, src := range sources {
		breakers[src.Name()] = circuitbreaker.NewCircuitBreaker(
			circuitbreaker.DefaultConfig(src.Name() + "-events"))
	}

	return &CalendarServiceImpl{
		sources:  sources,
		breakers: breakers,
		notifier: notifier,
	}
}

// GetAllUpcomingEvents fans out to every provider concurrently and merges
// the results in provider order. A failing provider contributes zero events;
// aggregation itself never fails.
func (s *CalendarServiceImpl) GetAllUpcomingEvents(ctx context.Context) []models.CalendarEvent {
	results := make([][]models.CalendarEvent, len(s.sources))

	var wg sync.WaitGroup
	for i, src := range s.sources {
		wg.Add(1)
		go func(i int, src EventSource) {
			defer wg.Done()
			results[i] = s.fetchFromSource(ctx, src)
		}(i, src)
	}
	wg.Wait()

	events := make([]models.CalendarEvent, 0)
	for _, providerEvents := range results {
		events = append(events, providerEvents...)
	}

	metrics.AggregationEventsReturned.Observe(float64(len(events)))
	logger.Debug("Aggregated calendar events",
		zap.Int("providers", len(s.sources)),
		zap.Int("events", len(events)))

	return events
}

func (s *CalendarServiceImpl) fetchFromSource(ctx context.Context, src EventSource) []models.CalendarEvent {
	fetchCtx, cancel := context.WithTimeout(ctx, providerFetchTimeout)
	defer cancel()

	events, err := circuitbreaker.ExecuteWithFallback(s.breakers[src.Name()],
		func() ([]models.CalendarEvent, error) {
			return src.FetchEvents(fetchCtx, maxEventsPerProvider)
		},
		func() ([]models.CalendarEvent, error) {
			return []models.CalendarEvent{}, nil
		})
	if err != nil {
		metrics.AggregationProviderFailures.WithLabelValues(src.Name()).Inc()
		logger.Warn("Provider fetch failed during aggregation",
			zap.String("provider", src.Name()),
			zap.Error(err))
		return nil
	}

	return events
}

// BookDemo acknowledges a demo-booking form submission. Booking the actual
// meeting happens through the embedded scheduling widgets on the site, so
// no provider call is made here; the submission is recorded and the sales
// team is notified.
func (s *CalendarServiceImpl) BookDemo(ctx context.Context, req *models.BookingRequest) *models.BookingResponse {
	bookingID := fmt.Sprintf("booking_%d", time.Now().UnixMilli())

	logger.Info("Demo booking request received",
		zap.String("booking_id", bookingID),
		zap.String("email", req.Email),
		zap.String("company", req.Company))

	metrics.DemoBookingsTotal.WithLabelValues("success").Inc()

	s.notifier.Notify(ctx, models.Notification{
		Type: models.NotificationDemoRequest,
		Data: map[string]interface{}{
			"bookingId":     bookingID,
			"name":          req.Name,
			"email":         req.Email,
			"company":       req.Company,
			"phone":         req.Phone,
			"message":       req.Message,
			"preferredTime": req.PreferredTime,
			"timezone":      req.Timezone,
		},
	})

	return &models.BookingResponse{
		Success:   true,
		BookingID: bookingID,
		Message:   "Demo booking request received",
		Request:   req,
	}
}
