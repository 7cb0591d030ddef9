package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/telepay-cash/telepay-go/pkg/apperror"
)

// DefaultBaseURL is the single fixed origin of the TelePay REST API.
const DefaultBaseURL = "https://api.telepay.cash/rest/"

// Config holds all SDK configuration.
type Config struct {
	SecretAPIKey string        `mapstructure:"secret_api_key"`
	BaseURL      string        `mapstructure:"base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	Webhook      WebhookConfig `mapstructure:"webhook"`
	Log          LogConfig     `mapstructure:"log"`
}

// WebhookConfig configures the inbound webhook listener.
type WebhookConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Path string `mapstructure:"path"`
}

// Addr returns the listener bind address.
func (w WebhookConfig) Addr() string {
	return fmt.Sprintf("%s:%d", w.Host, w.Port)
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: TELEPAY_.
// Nested keys use underscore: TELEPAY_SECRET_API_KEY, TELEPAY_WEBHOOK_PORT, etc.
// A missing or empty secret API key fails here, before any network use.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("secret_api_key", "")
	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("timeout", "60s")
	v.SetDefault("webhook.host", "localhost")
	v.SetDefault("webhook.port", 5000)
	v.SetDefault("webhook.path", "/webhook")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("telepay")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: TELEPAY_WEBHOOK_HOST -> webhook.host
	v.SetEnvPrefix("TELEPAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required — env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.SecretAPIKey == "" {
		return nil, apperror.ErrMissingAPIKey()
	}

	return &cfg, nil
}
