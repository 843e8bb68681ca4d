package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/flipscout/internal/flippa"
)

// Config represents the application configuration
type Config struct {
	API       APIConfig       `toml:"api"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	Retry     RetryConfig     `toml:"retry"`
	Logging   LoggingConfig   `toml:"logging"`
	Watch     WatchConfig     `toml:"watch"`
}

// APIConfig contains Flippa API connection settings
type APIConfig struct {
	BaseURL   string `toml:"base_url"`
	Token     string `toml:"token"`   // Bearer credential; empty means unauthenticated
	Timeout   string `toml:"timeout"` // Per-attempt timeout, e.g. "15s"
	UserAgent string `toml:"user_agent"`
}

// RateLimitConfig contains the sliding-window quota
type RateLimitConfig struct {
	MaxRequests int    `toml:"max_requests"`
	Window      string `toml:"window"` // e.g. "60s"
}

// RetryConfig contains the retry policy
type RetryConfig struct {
	MaxRetries        int     `toml:"max_retries"`
	BaseDelay         string  `toml:"base_delay"`
	Multiplier        float64 `toml:"multiplier"`
	DefaultRetryAfter string  `toml:"default_retry_after"` // used when a 429 has no usable Retry-After
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "console", "file"
}

// WatchConfig contains the schedule for the watch command
type WatchConfig struct {
	Schedule     string `toml:"schedule"`      // 5-field cron expression
	PropertyType string `toml:"property_type"` // empty watches every major category
}

// DefaultConfigFile is loaded when present and no config file is named
const DefaultConfigFile = "flipscout.toml"

// ResolveConfigPaths returns the explicit paths, or the fallback when none are
// given and it exists. Explicit paths are returned even if missing so loading reports them.
func ResolveConfigPaths(explicit []string, fallback string) []string {
	var paths []string
	for _, p := range explicit {
		if p != "" {
			paths = append(paths, p)
		}
	}
	if len(paths) > 0 {
		return paths
	}
	if _, err := os.Stat(fallback); err == nil {
		return []string{fallback}
	}
	return nil
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   flippa.DefaultBaseURL,
			Timeout:   "15s",
			UserAgent: UserAgent(),
		},
		RateLimit: RateLimitConfig{
			MaxRequests: flippa.DefaultMaxRequests,
			Window:      "60s",
		},
		Retry: RetryConfig{
			MaxRetries:        3,
			BaseDelay:         "1s",
			Multiplier:        2.0,
			DefaultRetryAfter: "30s",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"console"},
		},
		Watch: WatchConfig{
			Schedule: "0 * * * *",
		},
	}
}

// LoadFromFiles loads configuration with priority: defaults < files (in order) < env
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Later files override earlier files
	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variables, which take priority over files
func applyEnvOverrides(config *Config) {
	// API configuration
	if baseURL := os.Getenv("FLIPPA_BASE_URL"); baseURL != "" {
		config.API.BaseURL = baseURL
	}
	if token := os.Getenv("FLIPPA_API_TOKEN"); token != "" {
		config.API.Token = token
	}
	if timeout := os.Getenv("FLIPSCOUT_REQUEST_TIMEOUT"); timeout != "" {
		config.API.Timeout = timeout
	}
	if userAgent := os.Getenv("FLIPSCOUT_USER_AGENT"); userAgent != "" {
		config.API.UserAgent = userAgent
	}

	// Rate limit configuration
	if maxRequests := os.Getenv("FLIPSCOUT_RATE_LIMIT_MAX_REQUESTS"); maxRequests != "" {
		if n, err := strconv.Atoi(maxRequests); err == nil {
			config.RateLimit.MaxRequests = n
		}
	}
	if window := os.Getenv("FLIPSCOUT_RATE_LIMIT_WINDOW"); window != "" {
		config.RateLimit.Window = window
	}

	// Retry configuration
	if maxRetries := os.Getenv("FLIPSCOUT_RETRY_MAX_RETRIES"); maxRetries != "" {
		if n, err := strconv.Atoi(maxRetries); err == nil {
			config.Retry.MaxRetries = n
		}
	}
	if baseDelay := os.Getenv("FLIPSCOUT_RETRY_BASE_DELAY"); baseDelay != "" {
		config.Retry.BaseDelay = baseDelay
	}

	// Logging configuration
	if level := os.Getenv("FLIPSCOUT_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("FLIPSCOUT_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Watch configuration
	if schedule := os.Getenv("FLIPSCOUT_WATCH_SCHEDULE"); schedule != "" {
		config.Watch.Schedule = schedule
	}
	if propertyType := os.Getenv("FLIPSCOUT_WATCH_PROPERTY_TYPE"); propertyType != "" {
		config.Watch.PropertyType = propertyType
	}
}

// Validate checks durations and numeric bounds
func (c *Config) Validate() error {
	durations := []struct{ key, value string }{
		{"api.timeout", c.API.Timeout},
		{"rate_limit.window", c.RateLimit.Window},
		{"retry.base_delay", c.Retry.BaseDelay},
		{"retry.default_retry_after", c.Retry.DefaultRetryAfter},
	}
	for _, d := range durations {
		parsed, err := time.ParseDuration(d.value)
		if err != nil {
			return fmt.Errorf("invalid duration for %s: %w", d.key, err)
		}
		if parsed <= 0 {
			return fmt.Errorf("%s must be positive, got %s", d.key, d.value)
		}
	}

	if c.RateLimit.MaxRequests < 1 {
		return fmt.Errorf("rate_limit.max_requests must be at least 1, got %d", c.RateLimit.MaxRequests)
	}
	if c.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry.max_retries must not be negative, got %d", c.Retry.MaxRetries)
	}
	if c.Retry.Multiplier < 1 {
		return fmt.Errorf("retry.multiplier must be at least 1, got %g", c.Retry.Multiplier)
	}

	return nil
}

// RequestTimeout returns the parsed per-attempt timeout
func (c *Config) RequestTimeout() time.Duration {
	return mustDuration(c.API.Timeout)
}

// RateLimitWindow returns the parsed sliding window
func (c *Config) RateLimitWindow() time.Duration {
	return mustDuration(c.RateLimit.Window)
}

// RetryPolicy builds the client retry policy from the retry section
func (c *Config) RetryPolicy() *flippa.RetryPolicy {
	return &flippa.RetryPolicy{
		MaxRetries:        c.Retry.MaxRetries,
		BaseDelay:         mustDuration(c.Retry.BaseDelay),
		Multiplier:        c.Retry.Multiplier,
		DefaultRetryAfter: mustDuration(c.Retry.DefaultRetryAfter),
	}
}

// ClientOptions returns the Flippa client options described by the config
func (c *Config) ClientOptions(logger arbor.ILogger) []flippa.ClientOption {
	return []flippa.ClientOption{
		flippa.WithBaseURL(c.API.BaseURL),
		flippa.WithAPIToken(c.API.Token),
		flippa.WithUserAgent(c.API.UserAgent),
		flippa.WithTimeout(c.RequestTimeout()),
		flippa.WithLimiter(flippa.NewLimiter(c.RateLimit.MaxRequests, c.RateLimitWindow())),
		flippa.WithRetryPolicy(c.RetryPolicy()),
		flippa.WithLogger(logger),
	}
}

// mustDuration parses a duration already checked by Validate; bad values yield 0
// so the client falls back to its defaults.
func mustDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}

// ValidateWatchSchedule validates a 5-field cron expression for the watch command.
// Schedules more frequent than every 5 minutes are rejected.
func ValidateWatchSchedule(schedule string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}

	minuteField := strings.Fields(schedule)[0]
	if minuteField == "*" {
		return fmt.Errorf("schedule must have minimum 5-minute interval (every minute is not allowed)")
	}
	if strings.HasPrefix(minuteField, "*/") {
		interval, err := strconv.Atoi(strings.TrimPrefix(minuteField, "*/"))
		if err == nil && interval < 5 {
			return fmt.Errorf("schedule interval must be at least 5 minutes, got %d", interval)
		}
	}

	return nil
}
