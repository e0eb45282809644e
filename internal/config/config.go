package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the main application configuration.
//
// Every external service section is optional: homerelay stays functional
// with any subset of them, it just has fewer sections to show.
type Config struct {
	// External media services aggregated into sections
	Jellyseerr *ServiceConfig `yaml:"jellyseerr,omitempty"`
	Radarr     *ServiceConfig `yaml:"radarr,omitempty"`
	Sonarr     *ServiceConfig `yaml:"sonarr,omitempty"`

	// Primary media server, used for watch links and health probes only
	Jellyfin *ServiceConfig `yaml:"jellyfin,omitempty"`

	// Frontends
	Telegram *TelegramConfig `yaml:"telegram,omitempty"`

	// Incoming webhook notifications
	Webhook *WebhookConfig `yaml:"webhook,omitempty"`

	// Application settings
	App AppConfig `yaml:"app"`
}

// ServiceConfig holds the address and credential of one external service.
type ServiceConfig struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
}

// TelegramConfig holds Telegram bot configuration.
type TelegramConfig struct {
	BotToken       string  `yaml:"bot_token"`
	AllowedUserIDs []int64 `yaml:"allowed_user_ids,omitempty"`
}

// WebhookConfig holds the listener for Jellyseerr notification callbacks.
type WebhookConfig struct {
	Port   int    `yaml:"port"`
	Secret string `yaml:"secret,omitempty"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel string `yaml:"log_level"` // "debug", "info", "warn", "error"
}

// DefaultWebhookPort is used when webhook.port is unset.
const DefaultWebhookPort = 8484

// Load loads configuration from a YAML file with environment variable
// overrides. A missing file is not an error: homerelay can be configured
// entirely through HOMERELAY_* environment variables, and an empty
// configuration is a valid (if unhelpful) state.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// Start from an empty config; env overrides may still fill it in.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyEnvOverrides overrides config values with environment variables.
// Service sections are created on demand so a file-less setup works.
func (c *Config) applyEnvOverrides() {
	overrideService(&c.Jellyseerr, "HOMERELAY_JELLYSEERR")
	overrideService(&c.Radarr, "HOMERELAY_RADARR")
	overrideService(&c.Sonarr, "HOMERELAY_SONARR")
	overrideService(&c.Jellyfin, "HOMERELAY_JELLYFIN")

	if v := os.Getenv("HOMERELAY_TELEGRAM_BOT_TOKEN"); v != "" {
		if c.Telegram == nil {
			c.Telegram = &TelegramConfig{}
		}
		c.Telegram.BotToken = v
	}

	if v := os.Getenv("HOMERELAY_WEBHOOK_SECRET"); v != "" {
		if c.Webhook == nil {
			c.Webhook = &WebhookConfig{}
		}
		c.Webhook.Secret = v
	}

	if v := os.Getenv("HOMERELAY_LOG_LEVEL"); v != "" {
		c.App.LogLevel = v
	}
}

// overrideService applies <prefix>_URL and <prefix>_API_KEY to a service
// section, creating it when either variable is present.
func overrideService(svc **ServiceConfig, prefix string) {
	rawURL := os.Getenv(prefix + "_URL")
	apiKey := os.Getenv(prefix + "_API_KEY")
	if rawURL == "" && apiKey == "" {
		return
	}
	if *svc == nil {
		*svc = &ServiceConfig{}
	}
	if rawURL != "" {
		(*svc).URL = rawURL
	}
	if apiKey != "" {
		(*svc).APIKey = apiKey
	}
}

// Validate checks the configuration and fills in defaults.
//
// Note the deliberate asymmetry with most services' configs: a service
// section with a blank URL or key is not an error here. The section
// aggregator treats such a backend as absent, and "nothing configured at
// all" is a state the presentation layer reports to the user rather than a
// startup failure.
func (c *Config) Validate() error {
	switch c.App.LogLevel {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("app.log_level must be one of debug, info, warn, error; got %q", c.App.LogLevel)
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}

	if c.Telegram != nil && c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required when telegram is configured")
	}

	if c.Webhook != nil {
		if c.Webhook.Port == 0 {
			c.Webhook.Port = DefaultWebhookPort
		}
		if c.Webhook.Port < 1 || c.Webhook.Port > 65535 {
			return fmt.Errorf("webhook.port must be between 1 and 65535, got %d", c.Webhook.Port)
		}
	}

	return nil
}
