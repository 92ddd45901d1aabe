package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	APIKeyEnv      = "OPENROUTER_API_KEY"
	DefaultBaseURL = "https://openrouter.ai/api/v1"
)

// ErrMissingAPIKey is returned by Load when OPENROUTER_API_KEY is unset or empty.
var ErrMissingAPIKey = errors.New(APIKeyEnv + " is not set")

type Config struct {
	// Upstream
	APIKey  string
	BaseURL string // default: https://openrouter.ai/api/v1

	// Optional attribution headers (HTTP-Referer, X-Title)
	AppURL   string
	AppTitle string

	// Rate Limiting
	RateLimitWait time.Duration // fixed post-call delay, default: 2s

	// Observability
	OTELExporterType     string // "none", "stdout" or "otlp"
	OTELExporterEndpoint string // default: "localhost:4317"
}

// Load reads the process environment, after merging a .env file if one is present.
// Every other field is filled in before the API key is checked, so callers that
// receive ErrMissingAPIKey still get a usable Config back.
func Load() (*Config, error) {
	// Load .env file if present (non-fatal if missing)
	_ = godotenv.Load()

	cfg := &Config{
		APIKey:               os.Getenv(APIKeyEnv),
		BaseURL:              strings.TrimSuffix(getEnv("OPENROUTER_BASE_URL", DefaultBaseURL), "/"),
		AppURL:               os.Getenv("OPENROUTER_APP_URL"),
		AppTitle:             os.Getenv("OPENROUTER_APP_TITLE"),
		OTELExporterType:     getEnv("OTEL_EXPORTER_TYPE", "none"),
		OTELExporterEndpoint: getEnv("OTEL_EXPORTER_ENDPOINT", "localhost:4317"),
	}

	waitStr := getEnv("RATE_LIMIT_WAIT", "2s")
	wait, err := time.ParseDuration(waitStr)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_WAIT: %w", err)
	}
	if wait < 0 {
		return nil, fmt.Errorf("invalid RATE_LIMIT_WAIT: %s is negative", waitStr)
	}
	cfg.RateLimitWait = wait

	switch cfg.OTELExporterType {
	case "none", "stdout", "otlp":
	default:
		return nil, fmt.Errorf("invalid OTEL_EXPORTER_TYPE %q (want none, stdout or otlp)", cfg.OTELExporterType)
	}

	// Validation
	if cfg.APIKey == "" {
		return cfg, ErrMissingAPIKey
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
