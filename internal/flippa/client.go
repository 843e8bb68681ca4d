package flippa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
)

// DefaultUserAgent identifies the client to the API.
const DefaultUserAgent = "flipscout/dev"

// Client is a Flippa API client. Every attempt waits on the rate limiter,
// and failed attempts are retried according to the RetryPolicy.
type Client struct {
	baseURL    string
	apiToken   string
	userAgent  string
	timeout    time.Duration
	httpClient *http.Client
	rest       *resty.Client
	limiter    *Limiter
	retry      *RetryPolicy
	logger     arbor.ILogger
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithAPIToken sets the bearer credential. An empty token sends no Authorization header.
func WithAPIToken(token string) ClientOption {
	return func(c *Client) {
		c.apiToken = token
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithTimeout sets the per-attempt timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLimiter sets a custom rate limiter.
func WithLimiter(limiter *Limiter) ClientOption {
	return func(c *Client) {
		if limiter != nil {
			c.limiter = limiter
		}
	}
}

// WithRetryPolicy sets a custom retry policy.
func WithRetryPolicy(policy *RetryPolicy) ClientOption {
	return func(c *Client) {
		if policy != nil {
			c.retry = policy
		}
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Flippa API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
		timeout:   DefaultTimeout,
		limiter:   NewLimiter(DefaultMaxRequests, DefaultWindow),
		retry:     NewRetryPolicy(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = arbor.NewLogger()
	}
	if c.limiter.logger == nil {
		c.limiter.WithLogger(c.logger)
	}

	if c.httpClient != nil {
		c.rest = resty.NewWithClient(c.httpClient)
	} else {
		c.rest = resty.New()
	}
	c.rest.
		SetBaseURL(c.baseURL).
		SetTimeout(c.timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", c.userAgent)
	if c.apiToken != "" {
		c.rest.SetAuthToken(c.apiToken)
	}

	return c
}

// Limiter returns the client's rate limiter.
func (c *Client) Limiter() *Limiter {
	return c.limiter
}

// SearchListings queries GET /listings.
func (c *Client) SearchListings(ctx context.Context, params SearchParams) (*SearchPage, error) {
	var page SearchPage
	if err := c.get(ctx, "/listings", params.values(), &page); err != nil {
		return nil, err
	}
	if page.Data == nil {
		page.Data = []Listing{}
	}
	return &page, nil
}

// GetListing fetches GET /listings/{id}.
func (c *Client) GetListing(ctx context.Context, listingID string) (*Listing, error) {
	if listingID == "" {
		return nil, NewUsageError("listing ID is required")
	}

	endpoint := "/listings/" + url.PathEscape(listingID)
	var resp listingResponse
	if err := c.get(ctx, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, &DecodeError{Endpoint: endpoint, Err: errors.New("response has no data object")}
	}
	return resp.Data, nil
}

// get performs a GET with rate limiting and retries, decoding a 2xx body into result.
// Failures surface as ClientStatusError, ExhaustedRetriesError or DecodeError;
// a cancelled ctx is returned as-is.
func (c *Client) get(ctx context.Context, path string, params map[string]string, result interface{}) error {
	query := cleanParams(params)
	logger := c.logger.WithCorrelationId(uuid.New().String())
	attempts := c.retry.Attempts()

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("waiting for rate limiter: %w", err)
		}

		logger.Debug().
			Str("endpoint", path).
			Int("attempt", attempt+1).
			Msg("Flippa API request")

		resp, err := c.rest.R().
			SetContext(ctx).
			SetQueryParams(query).
			Get(path)

		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return fmt.Errorf("flippa request cancelled: %w", ctxErr)
			}
			lastErr = err
		} else {
			code := resp.StatusCode()
			switch classifyStatus(code) {
			case actionSucceed:
				if err := json.Unmarshal(resp.Body(), result); err != nil {
					return &DecodeError{Endpoint: path, Err: err}
				}
				return nil

			case actionFail:
				logger.Debug().
					Str("endpoint", path).
					Int("status_code", code).
					Msg("Non-retryable client error, failing immediately")
				return &ClientStatusError{StatusCode: code, Endpoint: path}

			case actionThrottled:
				lastErr = &statusFailure{StatusCode: code}
				if attempt < c.retry.MaxRetries {
					wait := c.retry.RetryAfter(resp.Header().Get("Retry-After"))
					logger.Warn().
						Str("endpoint", path).
						Int("attempt", attempt+1).
						Dur("retry_after", wait).
						Msg("Rate limited by Flippa API, waiting before retry")
					if err := sleep(ctx, wait); err != nil {
						return fmt.Errorf("flippa request cancelled: %w", err)
					}
				}
				continue

			case actionRetry:
				lastErr = &statusFailure{StatusCode: code}
			}
		}

		if attempt < c.retry.MaxRetries {
			backoff := c.retry.Backoff(attempt)
			logger.Debug().
				Str("endpoint", path).
				Int("attempt", attempt+1).
				Err(lastErr).
				Dur("backoff", backoff).
				Msg("Retrying after backoff")
			if err := sleep(ctx, backoff); err != nil {
				return fmt.Errorf("flippa request cancelled: %w", err)
			}
		}
	}

	logger.Warn().
		Str("endpoint", path).
		Int("attempts", attempts).
		Err(lastErr).
		Msg("All retry attempts exhausted")

	return &ExhaustedRetriesError{Attempts: attempts, Endpoint: path, Last: lastErr}
}

// cleanParams drops params with no value so they are never sent as empty strings.
func cleanParams(params map[string]string) map[string]string {
	clean := make(map[string]string, len(params))
	for k, v := range params {
		if v != "" {
			clean[k] = v
		}
	}
	return clean
}
