package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrServiceNotConfigured is returned when a ServiceBase has no base URL.
var ErrServiceNotConfigured = errors.New("http service not configured")

// ServiceBase is the shared foundation for JSON-over-HTTP collaborators
// (remote ephemeris, model server).
type ServiceBase struct {
	baseURL string
	client  *Client
}

// NewServiceBase builds a client with timeout for baseURL.
func NewServiceBase(baseURL string, timeout time.Duration, opts ...ClientOption) *ServiceBase {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	opts = append([]ClientOption{WithTimeout(timeout)}, opts...)
	return &ServiceBase{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  NewClient(opts...),
	}
}

// Configured reports whether a base URL was supplied.
func (b *ServiceBase) Configured() bool {
	return b != nil && b.client != nil && b.baseURL != ""
}

// BaseURL returns the service root.
func (b *ServiceBase) BaseURL() string { return b.baseURL }

// PostJSON posts the given payload to `path` under baseURL and decodes JSON into dest.
func (b *ServiceBase) PostJSON(ctx context.Context, path string, payload interface{}, dest interface{}) error {
	if !b.Configured() {
		return ErrServiceNotConfigured
	}
	err := b.client.SendAndParse(ctx, &RequestOptions{
		Method: MethodPost,
		URL:    b.baseURL + path,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: payload,
	}, dest)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	return nil
}

// GetJSON fetches `path` under baseURL and decodes JSON into dest.
func (b *ServiceBase) GetJSON(ctx context.Context, path string, dest interface{}) error {
	if !b.Configured() {
		return ErrServiceNotConfigured
	}
	if err := b.client.SendAndParse(ctx, &RequestOptions{Method: MethodGet, URL: b.baseURL + path}, dest); err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	return nil
}

// PostJSONWithRetry posts JSON with up to `attempts` tries. 4xx responses are not retried.
func (b *ServiceBase) PostJSONWithRetry(ctx context.Context, path string, payload interface{}, dest interface{}, attempts int) error {
	if attempts <= 1 {
		return b.PostJSON(ctx, path, payload, dest)
	}
	var err error
	for i := 1; i <= attempts; i++ {
		err = b.PostJSON(ctx, path, payload, dest)
		if err == nil || !retryable(err) {
			return err
		}
		if i == attempts {
			break
		}
		// simple backoff
		select {
		case <-time.After(time.Duration(i) * 50 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func retryable(err error) bool {
	if errors.Is(err, ErrServiceNotConfigured) || errors.Is(err, context.Canceled) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode >= http.StatusInternalServerError && se.StatusCode != http.StatusServiceUnavailable
	}
	return true
}

// StatusCodeOf returns the HTTP status carried by err, or 0.
func StatusCodeOf(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
