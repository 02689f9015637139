package ratelimit

import (
	"time"
)

// Rule is the rate limit applied to one endpoint.
type Rule struct {
	Path   string        // Endpoint path (a trailing "/" matches by prefix)
	Method string        // HTTP method
	Limit  int           // Requests per window; 0 means unlimited
	Window time.Duration // Refill window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	OptimizeLimit   int
	OptimizeWindow  time.Duration
	OptimizeBurst   int
	CleanupInterval time.Duration
	IdleTTL         time.Duration
	Whitelist       []string
}

// DefaultConfig returns limits suitable for a single small deployment.
func DefaultConfig() Config {
	return Config{
		Enabled:         true,
		DefaultLimit:    120,
		DefaultWindow:   time.Minute,
		OptimizeLimit:   30,
		OptimizeWindow:  time.Hour,
		OptimizeBurst:   3,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
	}
}

// Rules returns the endpoint rules derived from the config. Optimization
// endpoints call the model several times per request and get the strict tier.
func (c Config) Rules() []Rule {
	optimize := func(path string) Rule {
		return Rule{Path: path, Method: "POST", Limit: c.OptimizeLimit, Window: c.OptimizeWindow, Burst: c.OptimizeBurst}
	}
	return []Rule{
		optimize("/optimize"),
		optimize("/optimize/stream"),
		{Path: "/health", Method: "GET", Limit: 0},
		{Path: "/generated/", Method: "GET", Limit: 0},
	}
}

func (c Config) defaultRule() Rule {
	return Rule{Limit: c.DefaultLimit, Window: c.DefaultWindow, Burst: c.DefaultLimit}
}
