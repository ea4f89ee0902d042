// Package backend talks to the CortexAI HTTP API: the onboarding notification sent after a
// profile is created, and the authenticated dashboard reads.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	apperrors "github.com/Proton-105/cortex-client/internal/errors"
	"github.com/Proton-105/cortex-client/pkg/config"
)

// DefaultAPIBase is used when neither the local override nor the config names a backend.
const DefaultAPIBase = "http://localhost:8000"

var (
	// ErrUnauthorized is matched by responses with status 401.
	ErrUnauthorized = errors.New("backend: unauthorized")
	// ErrNotFound is matched by responses with status 404.
	ErrNotFound = errors.New("backend: not found")
)

// StatusError describes a non-2xx response.
type StatusError struct {
	Method string
	Path   string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s returned %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
}

// Is lets errors.Is match ErrUnauthorized and ErrNotFound.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	default:
		return false
	}
}

// APIBaseSource supplies the locally stored API base override. A blank value means no override.
type APIBaseSource interface {
	APIBase(ctx context.Context) string
}

// Client is the HTTP client for the backend API.
type Client struct {
	http      *http.Client
	base      string
	overrides APIBaseSource
	log       *slog.Logger
	breaker   *apperrors.CircuitBreaker
	retry     apperrors.RetryPolicy
}

// Option customizes a Client.
type Option func(*Client)

// WithLogger sets the client logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithRetryPolicy overrides the retry policy used for reads.
func WithRetryPolicy(p apperrors.RetryPolicy) Option {
	return func(c *Client) {
		c.retry = p
	}
}

// NewClient builds a client for cfg. overrides may be nil.
func NewClient(cfg config.BackendConfig, overrides APIBaseSource, opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{Timeout: cfg.Timeout},
		base:      cfg.APIBase,
		overrides: overrides,
		log:       slog.Default(),
		breaker:   apperrors.NewCircuitBreaker(apperrors.BreakerSettings{}),
		retry:     apperrors.DefaultRetryPolicy,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// BaseURL resolves the API base: the local override when set, then the configured value,
// then DefaultAPIBase. Trailing slashes are trimmed.
func (c *Client) BaseURL(ctx context.Context) string {
	base := ""
	if c.overrides != nil {
		base = strings.TrimSpace(c.overrides.APIBase(ctx))
	}
	if base == "" {
		base = strings.TrimSpace(c.base)
	}
	if base == "" {
		base = DefaultAPIBase
	}

	return strings.TrimRight(base, "/")
}

type request struct {
	name        string
	method      string
	path        string
	token       string
	contentType string
	body        []byte
	header      map[string]string
}

// send performs a single attempt. Failures come back as external API AppErrors; only
// transport errors and 5xx responses are marked retryable.
func (c *Client) send(ctx context.Context, r request, out any) error {
	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}

	url := c.BaseURL(ctx) + r.path
	req, err := http.NewRequestWithContext(ctx, r.method, url, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", r.name, err)
	}

	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	for k, v := range r.header {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.NewExternalAPIError(r.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

		appErr := apperrors.NewExternalAPIError(r.name, &StatusError{Method: r.method, Path: r.path, Status: resp.StatusCode})
		appErr.Retryable = resp.StatusCode >= 500
		return appErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewExternalAPIError(r.name, fmt.Errorf("decode response: %w", err))
	}

	return nil
}

// read runs an idempotent request through the circuit breaker with retries.
func (c *Client) read(ctx context.Context, r request, out any) error {
	return apperrors.WithRetry(ctx, c.retry, func() error {
		return c.breaker.Call(func() error {
			return c.send(ctx, r, out)
		})
	})
}

func jsonBody(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return data, nil
}
