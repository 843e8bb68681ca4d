package flippa

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind tags every failure the package surfaces so callers can branch
// on the kind instead of inspecting messages.
type ErrorKind string

const (
	// KindUsage means the caller did not supply enough input.
	KindUsage ErrorKind = "usage"

	// KindClientStatus means the API rejected the request with a 4xx (not 429).
	KindClientStatus ErrorKind = "client_status"

	// KindExhaustedRetries means every attempt failed.
	KindExhaustedRetries ErrorKind = "exhausted_retries"

	// KindDecode means a 2xx body did not match the expected shape.
	KindDecode ErrorKind = "decode"
)

// KindedError is implemented by every error type in this package.
type KindedError interface {
	error
	Kind() ErrorKind
}

// KindOf returns the kind of err, or "" if err did not come from this package.
func KindOf(err error) ErrorKind {
	var ke KindedError
	if errors.As(err, &ke) {
		return ke.Kind()
	}
	return ""
}

// StatusCodeOf returns the HTTP status carried by a ClientStatusError, or 0.
func StatusCodeOf(err error) int {
	var cse *ClientStatusError
	if errors.As(err, &cse) {
		return cse.StatusCode
	}
	return 0
}

// UsageError reports insufficient caller input. No remote call was made.
type UsageError struct {
	Message string
}

// NewUsageError builds a UsageError from a format string.
func NewUsageError(format string, args ...interface{}) *UsageError {
	return &UsageError{Message: fmt.Sprintf(format, args...)}
}

func (e *UsageError) Error() string   { return e.Message }
func (e *UsageError) Kind() ErrorKind { return KindUsage }

// ClientStatusError is a non-retryable 4xx response.
type ClientStatusError struct {
	StatusCode int
	Endpoint   string
}

func (e *ClientStatusError) Error() string {
	return fmt.Sprintf("Flippa API returned %d: %s. Check that the listing ID or parameters are correct.",
		e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *ClientStatusError) Kind() ErrorKind { return KindClientStatus }

// ExhaustedRetriesError is returned once the retry budget is spent.
// It carries no status code; Last describes the final failure.
type ExhaustedRetriesError struct {
	Attempts int
	Endpoint string
	Last     error
}

func (e *ExhaustedRetriesError) Error() string {
	last := "Unknown error"
	if e.Last != nil {
		last = e.Last.Error()
	}
	return fmt.Sprintf("Failed to reach Flippa API after %d attempts. Last error: %s. Try again in a few moments.",
		e.Attempts, last)
}

func (e *ExhaustedRetriesError) Kind() ErrorKind { return KindExhaustedRetries }
func (e *ExhaustedRetriesError) Unwrap() error   { return e.Last }

// DecodeError is a successful response whose body could not be decoded.
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode Flippa API response (endpoint: %s): %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Kind() ErrorKind { return KindDecode }
func (e *DecodeError) Unwrap() error   { return e.Err }

// statusFailure describes a retryable status response (5xx, 429).
type statusFailure struct {
	StatusCode int
}

func (e *statusFailure) Error() string {
	return fmt.Sprintf("server returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}
