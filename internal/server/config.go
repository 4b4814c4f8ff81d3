package server

import (
	"os"
	"strings"
	"time"
)

// Default listen address, matching the client's DefaultBaseURL.
const DefaultAddr = "127.0.0.1:8000"

// Config holds HTTP server settings.
type Config struct {
	// Addr is the host:port to listen on.
	Addr string

	// CORSOrigins lists the browser origins allowed to call the API.
	CORSOrigins []string

	// RequestTimeout bounds a single generation request. Zero disables it.
	RequestTimeout time.Duration

	// ShutdownTimeout is how long in-flight requests get on shutdown.
	ShutdownTimeout time.Duration
}

// DefaultConfig returns the local development settings.
func DefaultConfig() Config {
	return Config{
		Addr:            DefaultAddr,
		CORSOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		RequestTimeout:  5 * time.Minute,
		ShutdownTimeout: 10 * time.Second,
	}
}

// ConfigFromEnv overlays READQUIZ_ADDR, READQUIZ_CORS_ORIGINS (comma
// separated) and READQUIZ_REQUEST_TIMEOUT on the defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if a := os.Getenv("READQUIZ_ADDR"); a != "" {
		cfg.Addr = a
	}
	if o := os.Getenv("READQUIZ_CORS_ORIGINS"); o != "" {
		var origins []string
		for _, s := range strings.Split(o, ",") {
			if s = strings.TrimSpace(s); s != "" {
				origins = append(origins, s)
			}
		}
		if len(origins) > 0 {
			cfg.CORSOrigins = origins
		}
	}
	if t := os.Getenv("READQUIZ_REQUEST_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			cfg.RequestTimeout = d
		}
	}
	return cfg
}
