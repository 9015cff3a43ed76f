// Package config reads service settings from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Search fan-out.
	ProviderTimeout time.Duration

	// Geocoding.
	GeocodeTimeout    time.Duration
	NominatimInterval time.Duration
	GoogleMapsAPIKey  string
	PositionStackKey  string

	// Provider credentials.
	ConnpassToken   string
	DoorkeeperToken string

	// Optional search-audit publishing. Auditing is off when either
	// value is empty.
	KafkaBrokers    []string
	KafkaAuditTopic string

	// HTTP surface.
	RateLimitRPS     float64
	RateLimitBurst   int
	CORSAllowOrigins []string
}

// AuditEnabled reports whether search auditing is configured.
func (c *Config) AuditEnabled() bool {
	return len(c.KafkaBrokers) > 0 && c.KafkaAuditTopic != ""
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	providerTimeout, err := parseDuration("PROVIDER_TIMEOUT", "20s")
	if err != nil {
		return nil, err
	}
	geocodeTimeout, err := parseDuration("GEOCODE_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	nominatimInterval, err := parseDuration("NOMINATIM_INTERVAL", "1100ms")
	if err != nil {
		return nil, err
	}

	rps, err := parseFloat("RATE_LIMIT_RPS", 10)
	if err != nil {
		return nil, err
	}
	burst, err := parseInt("RATE_LIMIT_BURST", 20)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		ProviderTimeout: providerTimeout,

		GeocodeTimeout:    geocodeTimeout,
		NominatimInterval: nominatimInterval,
		GoogleMapsAPIKey:  os.Getenv("GOOGLE_MAPS_API_KEY"),
		PositionStackKey:  os.Getenv("POSITIONSTACK_API_KEY"),

		ConnpassToken:   os.Getenv("CONNPASS_API_TOKEN"),
		DoorkeeperToken: os.Getenv("DOORKEEPER_API_TOKEN"),

		KafkaBrokers:    splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaAuditTopic: os.Getenv("KAFKA_AUDIT_TOPIC"),

		RateLimitRPS:     rps,
		RateLimitBurst:   burst,
		CORSAllowOrigins: splitList(envOrDefault("CORS_ALLOW_ORIGINS", "*")),
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("HTTP_ADDR is required")
	}
	if cfg.RateLimitRPS <= 0 {
		return nil, errors.New("RATE_LIMIT_RPS must be positive")
	}
	if cfg.RateLimitBurst <= 0 {
		return nil, errors.New("RATE_LIMIT_BURST must be positive")
	}
	if cfg.KafkaAuditTopic != "" && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_AUDIT_TOPIC is set but KAFKA_BROKERS is not")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parseFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return f, nil
}

// splitList parses a comma-separated env value, dropping empty segments.
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
