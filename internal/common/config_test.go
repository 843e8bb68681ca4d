package common

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/flipscout/internal/flippa"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "flipscout.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFromFiles_Defaults(t *testing.T) {
	config, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, "https://flippa.com/v3", config.API.BaseURL)
	assert.Empty(t, config.API.Token)
	assert.Equal(t, 15*time.Second, config.RequestTimeout())
	assert.Equal(t, 60, config.RateLimit.MaxRequests)
	assert.Equal(t, time.Minute, config.RateLimitWindow())

	policy := config.RetryPolicy()
	assert.Equal(t, 3, policy.MaxRetries)
	assert.Equal(t, time.Second, policy.BaseDelay)
	assert.Equal(t, 2.0, policy.Multiplier)
	assert.Equal(t, 30*time.Second, policy.DefaultRetryAfter)
}

func TestLoadFromFiles_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[api]
base_url = "http://localhost:9999"
timeout = "5s"

[rate_limit]
max_requests = 10
window = "10s"

[logging]
level = "debug"
output = ["file"]
`)

	config, err := LoadFromFiles(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999", config.API.BaseURL)
	assert.Equal(t, 5*time.Second, config.RequestTimeout())
	assert.Equal(t, 10, config.RateLimit.MaxRequests)
	assert.Equal(t, 10*time.Second, config.RateLimitWindow())
	assert.Equal(t, "debug", config.Logging.Level)
	assert.Equal(t, []string{"file"}, config.Logging.Output)

	// untouched sections keep defaults
	assert.Equal(t, 3, config.Retry.MaxRetries)
}

func TestLoadFromFiles_LaterFileWins(t *testing.T) {
	first := writeConfig(t, "[retry]\nmax_retries = 1\nbase_delay = \"2s\"\n")
	second := writeConfig(t, "[retry]\nmax_retries = 5\n")

	config, err := LoadFromFiles(first, second)
	require.NoError(t, err)

	assert.Equal(t, 5, config.Retry.MaxRetries)
	assert.Equal(t, "2s", config.Retry.BaseDelay)
}

func TestLoadFromFiles_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "[api]\nbase_url = \"http://from-file\"\n[rate_limit]\nmax_requests = 10\n")

	t.Setenv("FLIPPA_BASE_URL", "http://from-env")
	t.Setenv("FLIPPA_API_TOKEN", "token-123")
	t.Setenv("FLIPSCOUT_RATE_LIMIT_MAX_REQUESTS", "20")
	t.Setenv("FLIPSCOUT_RATE_LIMIT_WINDOW", "30s")
	t.Setenv("FLIPSCOUT_REQUEST_TIMEOUT", "3s")
	t.Setenv("FLIPSCOUT_RETRY_MAX_RETRIES", "0")
	t.Setenv("FLIPSCOUT_RETRY_BASE_DELAY", "250ms")
	t.Setenv("FLIPSCOUT_LOG_LEVEL", "error")
	t.Setenv("FLIPSCOUT_LOG_OUTPUT", "console, file")
	t.Setenv("FLIPSCOUT_WATCH_SCHEDULE", "*/15 * * * *")

	config, err := LoadFromFiles(path)
	require.NoError(t, err)

	assert.Equal(t, "http://from-env", config.API.BaseURL)
	assert.Equal(t, "token-123", config.API.Token)
	assert.Equal(t, 20, config.RateLimit.MaxRequests)
	assert.Equal(t, 30*time.Second, config.RateLimitWindow())
	assert.Equal(t, 3*time.Second, config.RequestTimeout())
	assert.Equal(t, 0, config.Retry.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, config.RetryPolicy().BaseDelay)
	assert.Equal(t, "error", config.Logging.Level)
	assert.Equal(t, []string{"console", "file"}, config.Logging.Output)
	assert.Equal(t, "*/15 * * * *", config.Watch.Schedule)
}

func TestLoadFromFiles_InvalidEnvNumberIgnored(t *testing.T) {
	t.Setenv("FLIPSCOUT_RATE_LIMIT_MAX_REQUESTS", "lots")

	config, err := LoadFromFiles()
	require.NoError(t, err)
	assert.Equal(t, 60, config.RateLimit.MaxRequests)
}

func TestLoadFromFiles_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "bad toml", content: "[api\n", wantErr: "failed to parse config file"},
		{name: "bad duration", content: "[api]\ntimeout = \"soon\"\n", wantErr: "invalid duration for api.timeout"},
		{name: "zero window", content: "[rate_limit]\nwindow = \"0s\"\n", wantErr: "rate_limit.window must be positive"},
		{name: "zero quota", content: "[rate_limit]\nmax_requests = 0\n", wantErr: "max_requests must be at least 1"},
		{name: "negative retries", content: "[retry]\nmax_retries = -1\n", wantErr: "max_retries must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFiles(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := LoadFromFiles(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestValidateWatchSchedule(t *testing.T) {
	tests := []struct {
		schedule string
		wantErr  bool
	}{
		{schedule: "0 * * * *"},
		{schedule: "*/5 * * * *"},
		{schedule: "30 9 * * 1-5"},
		{schedule: "* * * * *", wantErr: true},
		{schedule: "*/2 * * * *", wantErr: true},
		{schedule: "not a schedule", wantErr: true},
		{schedule: "0 * * *", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.schedule, func(t *testing.T) {
			err := ValidateWatchSchedule(tt.schedule)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestResolveConfigPaths(t *testing.T) {
	fallback := writeConfig(t, "")

	assert.Equal(t, []string{"a.toml", "b.toml"}, ResolveConfigPaths([]string{"a.toml", "", "b.toml"}, fallback))
	assert.Equal(t, []string{fallback}, ResolveConfigPaths([]string{""}, fallback))
	assert.Nil(t, ResolveConfigPaths(nil, filepath.Join(t.TempDir(), "absent.toml")))
}

func TestConfig_ClientOptions(t *testing.T) {
	var gotAuth, gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(`{"data": {"id": "7"}}`))
	}))
	defer server.Close()

	config := NewDefaultConfig()
	config.API.BaseURL = server.URL
	config.API.Token = "abc"
	config.API.UserAgent = "flipscout/test"
	config.RateLimit.MaxRequests = 5

	client := flippa.NewClient(config.ClientOptions(arbor.NewLogger())...)
	listing, err := client.GetListing(context.Background(), "7")
	require.NoError(t, err)

	assert.Equal(t, "7", listing.ID)
	assert.Equal(t, "Bearer abc", gotAuth)
	assert.Equal(t, "flipscout/test", gotAgent)
	assert.Equal(t, 1, client.Limiter().Used())
}
