package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/complyscan/complyscan-api/config"
	"github.com/complyscan/complyscan-api/internal/handlers"
	"github.com/complyscan/complyscan-api/internal/middleware"
	"github.com/complyscan/complyscan-api/internal/services"
	"github.com/complyscan/complyscan-api/pkg/calcom"
	"github.com/complyscan/complyscan-api/pkg/calendly"
	"github.com/complyscan/complyscan-api/pkg/googlecal"
	"github.com/complyscan/complyscan-api/pkg/httpclient"
	"github.com/complyscan/complyscan-api/pkg/logger"
	"github.com/complyscan/complyscan-api/pkg/metrics"
	"github.com/complyscan/complyscan-api/pkg/msgraph"
	"github.com/complyscan/complyscan-api/pkg/profiling"
	"github.com/complyscan/complyscan-api/pkg/tracing"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// buildEventSources constructs one event source per provider with
// credentials. Unconfigured providers are logged and skipped; the service
// still runs with whatever remains, down to zero providers.
func buildEventSources(ctx context.Context, cfg *config.Config, httpClient httpclient.Client) []services.EventSource {
	sources := make([]services.EventSource, 0, 4)

	if cfg.HasCalcom() {
		client := calcom.NewClient(cfg.Calcom.APIToken, httpClient)
		sources = append(sources, services.NewCalcomEventSource(client))
	} else {
		logger.Warn("Cal.com integration disabled: CALCOM_API_TOKEN not set")
	}

	if cfg.HasCalendly() {
		client := calendly.NewClient(cfg.Calendly.APIToken, httpClient)
		sources = append(sources, services.NewCalendlyEventSource(client))
	} else {
		logger.Warn("Calendly integration disabled: CALENDLY_API_TOKEN not set")
	}

	if cfg.HasGoogle() {
		client, err := googlecal.NewClient(ctx, googlecal.Config{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RefreshToken: cfg.Google.RefreshToken,
			CalendarID:   cfg.Google.CalendarID,
		})
		if err != nil {
			logger.Error("Failed to initialize Google Calendar client", zap.Error(err))
		} else {
			sources = append(sources, services.NewGoogleEventSource(client))
		}
	} else {
		logger.Warn("Google Calendar integration disabled: credentials not set")
	}

	if cfg.HasMicrosoft() {
		client := msgraph.NewClient(ctx, msgraph.Config{
			ClientID:     cfg.Microsoft.ClientID,
			ClientSecret: cfg.Microsoft.ClientSecret,
			TenantID:     cfg.Microsoft.TenantID,
			UserID:       cfg.Microsoft.UserID,
		})
		sources = append(sources, services.NewMicrosoftEventSource(client))
	} else {
		logger.Warn("Microsoft 365 integration disabled: credentials not set")
	}

	return sources
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting ComplyScan API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceNamespace,
		cfg.Observability.ServiceVersion,
		cfg.Observability.ServiceInstanceID,
		cfg.Server.AppEnv,
		cfg.Observability.AlloyEndpoint,
	)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	// Start continuous profiling (flag-gated)
	profilerStop, err := profiling.InitProfiler(
		cfg.Profiling,
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceNamespace,
		cfg.Observability.ServiceVersion,
		cfg.Observability.ServiceInstanceID,
		cfg.Server.AppEnv,
	)
	if err != nil {
		logger.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer profilerStop()

	// Start infrastructure metrics collection
	metrics.RecordInfrastructureMetrics()

	// Initialize HTTP client for provider API calls
	httpClient := httpclient.NewStandardClient()

	// Initialize services
	notificationService := services.NewNotificationService(cfg.Slack.WebhookURL, httpClient)
	webhookService := services.NewWebhookService(notificationService)

	sources := buildEventSources(context.Background(), cfg, httpClient)
	logger.Info("Calendar providers configured", zap.Int("count", len(sources)))
	calendarService := services.NewCalendarService(notificationService, sources...)

	// Initialize handlers
	webhookHandler := handlers.NewWebhookHandler(
		webhookService,
		cfg.Calcom.WebhookSecret,
		cfg.Calendly.WebhookSecret,
	)
	calendarHandler := handlers.NewCalendarHandler(calendarService, handlers.WidgetConfig{
		CalcomLinkURL:   cfg.Calcom.LinkURL,
		CalendlyLinkURL: cfg.Calendly.LinkURL,
		AppURL:          cfg.Server.BaseURL,
	})
	healthHandler := handlers.NewHealthHandler()

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName)) // OpenTelemetry tracing
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// CORS configuration - SECURITY: Only allow specific origins
	allowedOrigins := cfg.Server.AllowedOrigins
	// Allow localhost in development
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "traceparent", "tracestate"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// SECURITY: Rate limiters to prevent abuse and DoS attacks
	generalRateLimiter := middleware.NewRateLimiter(100, 200) // 100 req/sec, burst of 200
	webhookRateLimiter := middleware.NewRateLimiter(20, 40)   // 20 req/sec, burst of 40
	bookingRateLimiter := middleware.NewRateLimiter(5, 10)    // 5 req/sec, burst of 10 (prevent spam)

	// API routes
	api := router.Group("/api")
	// Utility endpoints (not versioned - operational endpoints)
	api.GET("/healthcheck", generalRateLimiter.Middleware(), healthHandler.Healthcheck)
	api.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.Handler()))

	// Provider webhook endpoints. Providers POST deliveries; GET serves a
	// plain liveness message for manual checks.
	webhooks := api.Group("/webhooks")
	webhooks.POST("/calcom", webhookRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(1*1024*1024), webhookHandler.HandleCalcomWebhook)
	webhooks.GET("/calcom", webhookRateLimiter.Middleware(), webhookHandler.CalcomWebhookInfo)
	webhooks.POST("/calendly", webhookRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(1*1024*1024), webhookHandler.HandleCalendlyWebhook)
	webhooks.GET("/calendly", webhookRateLimiter.Middleware(), webhookHandler.CalendlyWebhookInfo)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.GET("/calendar/events", generalRateLimiter.Middleware(), calendarHandler.GetEvents)
	v1.POST("/calendar/events", bookingRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), calendarHandler.PostEvent)
	v1.GET("/calendar/config", generalRateLimiter.Middleware(), calendarHandler.GetConfig)

	// Create HTTP server
	// SECURITY: Bind to all interfaces for Docker Compose networking
	// Network isolation is enforced by Docker Compose (backend has no public ports)
	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // SECURITY: 1 MB max header size
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
