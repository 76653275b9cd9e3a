package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	Server        ServerConfig
	Calcom        CalcomConfig
	Calendly      CalendlyConfig
	Google        GoogleConfig
	Microsoft     MicrosoftConfig
	Slack         SlackConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	BaseURL        string
	AllowedOrigins []string
}

// CalcomConfig configures the Cal.com integration. All fields are optional:
// a missing API token disables the provider, a missing webhook secret skips
// signature verification on its webhooks.
type CalcomConfig struct {
	APIToken      string
	WebhookSecret string
	LinkURL       string // public scheduling-widget link served to the frontend
}

// CalendlyConfig configures the Calendly integration, same optionality
// rules as Cal.com
type CalendlyConfig struct {
	APIToken      string
	WebhookSecret string
	LinkURL       string // public scheduling-widget link served to the frontend
}

// GoogleConfig configures the Google Calendar integration via an offline
// OAuth2 refresh token
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	CalendarID   string
}

// MicrosoftConfig configures the Microsoft Graph integration via the
// client-credentials flow
type MicrosoftConfig struct {
	ClientID     string
	ClientSecret string
	TenantID     string
	UserID       string
}

// SlackConfig configures the internal notification channel. Optional:
// without a webhook URL notifications are only logged.
type SlackConfig struct {
	WebhookURL string
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	AlloyEndpoint     string
	ServiceName       string
	ServiceNamespace  string
	ServiceVersion    string
	ServiceInstanceID string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("PORT", "8081")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("BASE_URL", "https://complyscan.io")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "https://complyscan.io,https://www.complyscan.io")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "/app/logs")
	v.SetDefault("GOOGLE_CALENDAR_ID", "primary")
	v.SetDefault("CALCOM_LINK_URL", "https://cal.com/complyscan/demo")
	v.SetDefault("CALENDLY_LINK_URL", "https://calendly.com/complyscan/demo")
	v.SetDefault("O11Y_EXPORTER_ENDPOINT", "alloy:4318") // OTLP over HTTP
	v.SetDefault("O11Y_BE_SERVICE_NAME", "complyscan-api")
	v.SetDefault("O11Y_SERVICE_NAMESPACE", "complyscan")
	v.SetDefault("O11Y_BE_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_APP_NAME", "complyscan-api")
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,alloc_objects,goroutines,mutex,block")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)

	// Automatically read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	// Parse allowed CORS origins (comma-separated)
	allowedOrigins := []string{}
	originsStr := v.GetString("ALLOWED_CORS_ORIGINS")
	if originsStr != "" {
		for _, origin := range strings.Split(originsStr, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins = append(allowedOrigins, origin)
			}
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         v.GetString("APP_ENV"),
			BaseURL:        v.GetString("BASE_URL"),
			AllowedOrigins: allowedOrigins,
		},
		Calcom: CalcomConfig{
			APIToken:      v.GetString("CALCOM_API_TOKEN"),
			WebhookSecret: v.GetString("CALCOM_WEBHOOK_SECRET"),
			LinkURL:       v.GetString("CALCOM_LINK_URL"),
		},
		Calendly: CalendlyConfig{
			APIToken:      v.GetString("CALENDLY_API_TOKEN"),
			WebhookSecret: v.GetString("CALENDLY_WEBHOOK_SECRET"),
			LinkURL:       v.GetString("CALENDLY_LINK_URL"),
		},
		Google: GoogleConfig{
			ClientID:     v.GetString("GOOGLE_CLIENT_ID"),
			ClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
			RefreshToken: v.GetString("GOOGLE_REFRESH_TOKEN"),
			CalendarID:   v.GetString("GOOGLE_CALENDAR_ID"),
		},
		Microsoft: MicrosoftConfig{
			ClientID:     v.GetString("MICROSOFT_CLIENT_ID"),
			ClientSecret: v.GetString("MICROSOFT_CLIENT_SECRET"),
			TenantID:     v.GetString("MICROSOFT_TENANT_ID"),
			UserID:       v.GetString("MICROSOFT_USER_ID"),
		},
		Slack: SlackConfig{
			WebhookURL: v.GetString("SLACK_WEBHOOK_URL"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			AlloyEndpoint:     v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:       v.GetString("O11Y_BE_SERVICE_NAME"),
			ServiceNamespace:  v.GetString("O11Y_SERVICE_NAMESPACE"),
			ServiceVersion:    v.GetString("O11Y_BE_SERVICE_VERSION"),
			ServiceInstanceID: v.GetString("SERVICE_INSTANCE_ID"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			AppName:               v.GetString("O11Y_PROFILING_APP_NAME"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration values are set.
// Provider credentials are deliberately not required: each integration is
// optional and the service degrades to the providers that are configured.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Server.BaseURL == "" {
		return fmt.Errorf("BASE_URL is required")
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_CORS_ORIGINS is required")
	}

	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
	}

	return nil
}

// HasCalcom returns true if the Cal.com API client can be constructed
func (c *Config) HasCalcom() bool {
	return c.Calcom.APIToken != ""
}

// HasCalendly returns true if the Calendly API client can be constructed
func (c *Config) HasCalendly() bool {
	return c.Calendly.APIToken != ""
}

// HasGoogle returns true if the Google Calendar client can be constructed
func (c *Config) HasGoogle() bool {
	return c.Google.ClientID != "" && c.Google.ClientSecret != "" && c.Google.RefreshToken != ""
}

// HasMicrosoft returns true if the Microsoft Graph client can be constructed
func (c *Config) HasMicrosoft() bool {
	return c.Microsoft.ClientID != "" && c.Microsoft.ClientSecret != "" &&
		c.Microsoft.TenantID != "" && c.Microsoft.UserID != ""
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}
