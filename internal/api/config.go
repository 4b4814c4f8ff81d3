package api

import (
	"os"
	"strings"
	"time"
)

// DefaultBaseURL is where the backend listens when nothing else is set.
const DefaultBaseURL = "http://127.0.0.1:8000"

// Config holds client settings.
type Config struct {
	// BaseURL is the backend root, without a trailing slash.
	BaseURL string

	// Timeout bounds a single request. Zero means no client-side timeout;
	// text generation may iterate several times on the backend.
	Timeout time.Duration
}

// DefaultConfig returns a Config pointing at the local backend.
func DefaultConfig() Config {
	return Config{BaseURL: DefaultBaseURL}
}

// ConfigFromEnv builds a Config from READQUIZ_API_BASE_URL and
// READQUIZ_API_TIMEOUT, falling back to defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if u := os.Getenv("READQUIZ_API_BASE_URL"); u != "" {
		cfg.BaseURL = u
	}
	if t := os.Getenv("READQUIZ_API_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			cfg.Timeout = d
		}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return cfg
}
