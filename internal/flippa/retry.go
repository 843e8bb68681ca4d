package flippa

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// RetryPolicy defines how failed attempts are retried.
type RetryPolicy struct {
	MaxRetries        int           // retries after the first attempt
	BaseDelay         time.Duration // backoff before the first retry
	Multiplier        float64       // backoff growth per attempt
	DefaultRetryAfter time.Duration // 429 wait when Retry-After is missing or invalid
}

// NewRetryPolicy creates the default policy: 3 retries, 1s/2s/4s backoff, 30s 429 wait.
func NewRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxRetries:        3,
		BaseDelay:         time.Second,
		Multiplier:        2.0,
		DefaultRetryAfter: 30 * time.Second,
	}
}

// Attempts returns the total number of attempts the policy allows.
func (p *RetryPolicy) Attempts() int {
	return p.MaxRetries + 1
}

// Backoff returns BaseDelay * Multiplier^attempt for a zero-based attempt.
func (p *RetryPolicy) Backoff(attempt int) time.Duration {
	return time.Duration(float64(p.BaseDelay) * math.Pow(p.Multiplier, float64(attempt)))
}

// maxRetryAfterSeconds is the largest wait a time.Duration can hold.
const maxRetryAfterSeconds = float64(math.MaxInt64) / float64(time.Second)

// RetryAfter parses a Retry-After header given in seconds.
// Missing, non-numeric, non-positive or out-of-range values yield DefaultRetryAfter.
func (p *RetryPolicy) RetryAfter(header string) time.Duration {
	seconds, err := strconv.ParseFloat(strings.TrimSpace(header), 64)
	if err != nil || seconds <= 0 || seconds >= maxRetryAfterSeconds || math.IsNaN(seconds) {
		return p.DefaultRetryAfter
	}
	return time.Duration(seconds * float64(time.Second))
}

// statusAction is what the client does with a response status.
type statusAction int

const (
	actionSucceed statusAction = iota
	actionFail                 // 4xx other than 429
	actionThrottled            // 429
	actionRetry                // 5xx and anything else unexpected
)

// classifyStatus maps a response status to the retry decision.
func classifyStatus(code int) statusAction {
	switch {
	case code >= 200 && code < 300:
		return actionSucceed
	case code == http.StatusTooManyRequests:
		return actionThrottled
	case code >= 400 && code < 500:
		return actionFail
	default:
		return actionRetry
	}
}

// sleep waits for d or until ctx ends.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
