package cartclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker/v2"
)

const (
	defaultAttempts  = 3
	defaultBaseDelay = time.Second
)

// envelope matches the server's response shape.
type envelope struct {
	Status         string          `json:"status"`
	Data           json.RawMessage `json:"data,omitempty"`
	Message        string          `json:"message,omitempty"`
	AvailableStock int             `json:"availableStock,omitempty"`
}

// Client calls the cart API. Transient failures are retried with
// exponential backoff (1s, 2s) up to three attempts total; permanent
// validation failures are returned immediately. A circuit breaker stops
// hammering an unreachable backend.
type Client struct {
	baseURL   string
	http      *http.Client
	breaker   *gobreaker.CircuitBreaker[*Cart]
	attempts  int
	baseDelay time.Duration
	sleep     func(ctx context.Context, d time.Duration) error
}

type Option func(*Client)

// WithHTTPClient overrides the underlying transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithBackoff overrides the retry envelope. Mostly for tests.
func WithBackoff(attempts int, baseDelay time.Duration) Option {
	return func(c *Client) {
		c.attempts = attempts
		c.baseDelay = baseDelay
	}
}

// WithSleeper replaces the delay function. Mostly for tests.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Client) { c.sleep = sleep }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   baseURL,
		http:      &http.Client{Timeout: 10 * time.Second},
		attempts:  defaultAttempts,
		baseDelay: defaultBaseDelay,
		sleep:     sleepContext,
	}
	c.breaker = gobreaker.NewCircuitBreaker[*Cart](gobreaker.Settings{
		Name:    "cart-api",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			// Validation responses are the backend working correctly.
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return !apiErr.Transient()
			}
			return err == nil
		},
	})

	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) GetCart(ctx context.Context, sessionID string) (*Cart, error) {
	return c.doWithRetry(ctx, http.MethodGet, c.cartPath(sessionID), nil)
}

func (c *Client) AddItem(ctx context.Context, sessionID string, req AddItemRequest) (*Cart, error) {
	return c.doWithRetry(ctx, http.MethodPost, c.cartPath(sessionID)+"/items", req)
}

func (c *Client) UpdateItem(ctx context.Context, sessionID, itemID string, quantity int) (*Cart, error) {
	path := c.cartPath(sessionID) + "/items/" + url.PathEscape(itemID)
	return c.doWithRetry(ctx, http.MethodPut, path, map[string]int{"quantity": quantity})
}

func (c *Client) RemoveItem(ctx context.Context, sessionID, itemID string) (*Cart, error) {
	path := c.cartPath(sessionID) + "/items/" + url.PathEscape(itemID)
	return c.doWithRetry(ctx, http.MethodDelete, path, nil)
}

func (c *Client) ClearCart(ctx context.Context, sessionID string) (*Cart, error) {
	return c.doWithRetry(ctx, http.MethodDelete, c.cartPath(sessionID), nil)
}

func (c *Client) cartPath(sessionID string) string {
	return c.baseURL + "/api/cart/" + url.PathEscape(sessionID)
}

// doWithRetry runs the request up to c.attempts times. Delay before
// attempt n (n ≥ 2) is baseDelay * 2^(n-2), no jitter.
func (c *Client) doWithRetry(ctx context.Context, method, path string, body interface{}) (*Cart, error) {
	var lastErr error

	for attempt := 1; attempt <= c.attempts; attempt++ {
		if attempt > 1 {
			delay := c.baseDelay << (attempt - 2)
			if err := c.sleep(ctx, delay); err != nil {
				return nil, err
			}
		}

		cart, err := c.breaker.Execute(func() (*Cart, error) {
			return c.do(ctx, method, path, body)
		})
		if err == nil {
			return cart, nil
		}
		lastErr = err

		if !isRetryable(err) {
			return nil, err
		}
	}

	return nil, lastErr
}

func isRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Transient()
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	// Transport-level failures (connection refused, reset, timeouts).
	return true
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*Cart, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request failed: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request failed: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response failed: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		if resp.StatusCode >= 400 {
			return nil, &APIError{StatusCode: resp.StatusCode}
		}
		return nil, fmt.Errorf("decode response failed: %w", err)
	}

	if resp.StatusCode >= 400 || env.Status == "error" {
		return nil, &APIError{
			StatusCode:     resp.StatusCode,
			Message:        env.Message,
			AvailableStock: env.AvailableStock,
		}
	}

	var cart Cart
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &cart); err != nil {
			return nil, fmt.Errorf("decode cart failed: %w", err)
		}
	}
	return &cart, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
