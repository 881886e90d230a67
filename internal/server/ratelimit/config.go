package ratelimit

import (
	"net/http"
	"time"
)

// EndpointConfig is the rate limit for one endpoint.
type EndpointConfig struct {
	Path   string // exact path, or a prefix when it ends in "/"
	Method string
	Limit  int // requests per Window
	Window time.Duration
	Burst  int // defaults to Limit when 0
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	DefaultBurst    int
	CleanupInterval time.Duration
	IdleTTL         time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// NewConfig builds a limiter configuration from the server settings.
// Goal creation starts a full pipeline run and gets its own hourly budget.
func NewConfig(enabled bool, requestsPerMinute, goalsPerHour, burst int) *Config {
	return &Config{
		Enabled:         enabled,
		DefaultLimit:    requestsPerMinute,
		DefaultWindow:   time.Minute,
		DefaultBurst:    burst,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		Whitelist:       make(map[string]bool),
		Blacklist:       make(map[string]bool),
		EndpointConfigs: DefaultEndpointConfigs(goalsPerHour),
	}
}

// DefaultEndpointConfigs returns the endpoint-specific limits.
func DefaultEndpointConfigs(goalsPerHour int) []EndpointConfig {
	goalBurst := goalsPerHour / 10
	if goalBurst < 1 {
		goalBurst = 1
	}
	return []EndpointConfig{
		{Path: "/goals", Method: http.MethodPost, Limit: goalsPerHour, Window: time.Hour, Burst: goalBurst},
		{Path: "/goals/", Method: http.MethodPatch, Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/rank", Method: http.MethodPost, Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/feedback", Method: http.MethodPost, Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/candidates/similar", Method: http.MethodGet, Limit: 60, Window: time.Minute, Burst: 10},
	}
}
