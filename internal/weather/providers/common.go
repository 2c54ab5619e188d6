package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/insight-dashboards/internal/weather"
)

// BackoffConfig controls exponential backoff behaviour.
// MaxRetries of zero means a single attempt.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// HTTPClientConfig bundles HTTP client and resilience settings.
type HTTPClientConfig struct {
	Client  *http.Client
	Backoff BackoffConfig
}

// DefaultBackoff is used when the caller leaves the interval unset.
var DefaultBackoff = BackoffConfig{
	MaxRetries:      0,
	InitialInterval: 500 * time.Millisecond,
	MaxInterval:     5 * time.Second,
}

var (
	errRateLimited = errors.New("rate limited")
	errServerError = errors.New("server error")
	errNotFound    = errors.New("not found")
	errUnexpected  = errors.New("unexpected status code")
	errDecode      = errors.New("malformed response body")
	errCircuitOpen = errors.New("circuit breaker open")
)

// upstream performs JSON GETs against one weather API behind a circuit breaker.
type upstream struct {
	name    string
	client  *http.Client
	backoff BackoffConfig
	circuit *gobreaker.CircuitBreaker
}

func newUpstream(name string, cfg HTTPClientConfig) *upstream {
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: 10 * time.Second}
	}
	if cfg.Backoff.MaxRetries < 0 {
		cfg.Backoff.MaxRetries = 0
	}
	if cfg.Backoff.InitialInterval <= 0 {
		cfg.Backoff.InitialInterval = DefaultBackoff.InitialInterval
	}
	if cfg.Backoff.MaxInterval <= 0 {
		cfg.Backoff.MaxInterval = DefaultBackoff.MaxInterval
	}

	return &upstream{
		name:    name,
		client:  cfg.Client,
		backoff: cfg.Backoff,
		circuit: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 5,
			Interval:    1 * time.Minute,
			Timeout:     2 * time.Minute,
			// A city that does not exist is the caller's problem, not the provider's.
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, errNotFound)
			},
		}),
	}
}

// getJSON fetches rawURL and decodes the body into out, retrying transient
// failures with exponential backoff. Failures are wrapped with weather.ErrUpstream.
func (u *upstream) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		_, err := u.circuit.Execute(func() (interface{}, error) {
			return nil, u.fetch(ctx, rawURL, out)
		})
		if err == nil {
			return nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: %s: %w", weather.ErrUpstream, u.name, errCircuitOpen)
		}

		wrapped := fmt.Errorf("%w: %s: %w", weather.ErrUpstream, u.name, err)
		if attempt >= u.backoff.MaxRetries || !retryable(err) {
			return wrapped
		}

		timer := time.NewTimer(u.delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (u *upstream) fetch(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := statusError(resp.StatusCode); err != nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", errDecode, err)
	}
	return nil
}

// delay is the wait before retry number attempt+1.
func (u *upstream) delay(attempt int) time.Duration {
	d := u.backoff.InitialInterval << uint(attempt)
	if d <= 0 || d > u.backoff.MaxInterval {
		d = u.backoff.MaxInterval
	}
	return d
}

func statusError(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", errRateLimited, code)
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: status %d", errNotFound, code)
	case code >= 500:
		return fmt.Errorf("%w: status %d", errServerError, code)
	default:
		return fmt.Errorf("%w: status %d", errUnexpected, code)
	}
}

// retryable reports whether another attempt may succeed.
func retryable(err error) bool {
	return !errors.Is(err, errNotFound) && !errors.Is(err, errUnexpected) && !errors.Is(err, errDecode)
}
