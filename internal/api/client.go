// Package api is the HTTP client for the training registration service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/kachijames/intake/internal/log"
	"github.com/kachijames/intake/internal/registration"
	"github.com/kachijames/intake/internal/tracing"
)

// DefaultTimeout bounds a call when no WithTimeout option is given.
const DefaultTimeout = 15 * time.Second

const maxResponseBytes = 1 << 20

// Client talks to the registration service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	tracer     trace.Tracer
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTracer records spans for every call.
func WithTracer(t trace.Tracer) Option {
	return func(c *Client) { c.tracer = t }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		timeout:   DefaultTimeout,
		userAgent: "intake",
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Transport: tracing.NewTransport(nil, c.tracer)}
	}
	if c.tracer == nil {
		c.tracer = noop.NewTracerProvider().Tracer("api")
	}
	return c
}

// BaseURL returns the service root the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Timeout returns the per-call timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Register submits a complete draft.
func (c *Client) Register(ctx context.Context, draft registration.Draft) (*RegisterResponse, error) {
	var out RegisterResponse
	if err := c.do(ctx, OpRegister, http.MethodPost, PathRegister, draft, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckUser asks whether email is already registered.
func (c *Client) CheckUser(ctx context.Context, email string) (*CheckUserResponse, error) {
	var out CheckUserResponse
	if err := c.do(ctx, OpCheckUser, http.MethodPost, PathCheckUser, checkUserRequest{Email: email}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Stats fetches aggregate registration statistics.
func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var out StatsResponse
	if err := c.do(ctx, OpStats, http.MethodGet, PathStats, nil, &out); err != nil {
		return nil, err
	}
	return &Stats{General: out.Stats, TrainingTracks: out.TrainingTracks}, nil
}

type envelope interface {
	ok() bool
	message() string
}

func (c *Client) do(ctx context.Context, op Operation, method, path string, in any, out envelope) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	id := tracing.RequestIDFromContext(ctx)
	if id == "" {
		id = tracing.NewRequestID()
		ctx = tracing.ContextWithRequestID(ctx, id)
	}

	ctx, span := c.tracer.Start(ctx, tracing.SpanPrefixAPI+string(op),
		trace.WithAttributes(
			attribute.String(tracing.AttrOperation, string(op)),
			attribute.String(tracing.AttrRequestID, id),
		),
	)
	defer span.End()

	start := time.Now()
	err := c.send(ctx, op, method, path, in, out)
	elapsed := time.Since(start)

	if err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) {
			span.SetAttributes(attribute.Bool(tracing.AttrRetryable, apiErr.Retryable()))
			if apiErr.Timeout {
				span.AddEvent(tracing.EventTimedOut)
			}
		}
		span.SetAttributes(attribute.String(tracing.AttrErrorMessage, err.Error()))
		span.SetStatus(codes.Error, err.Error())
		log.ErrorErr(log.CatAPI, "call failed", err, "op", op, "request_id", id, "elapsed", elapsed)
		return err
	}

	span.AddEvent(tracing.EventResponseDecoded)
	if cu, ok := out.(*CheckUserResponse); ok {
		span.SetAttributes(attribute.Bool(tracing.AttrUserExists, cu.Exists))
	}
	span.SetStatus(codes.Ok, "")
	log.Debug(log.CatAPI, "call succeeded", "op", op, "request_id", id, "elapsed", elapsed)
	return nil
}

func (c *Client) send(ctx context.Context, op Operation, method, path string, in any, out envelope) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return &Error{Op: op, Message: op.Fallback(), Err: fmt.Errorf("encode request: %w", err)}
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &Error{Op: op, Message: op.Fallback(), Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.transportError(op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return c.transportError(op, err)
	}

	var decodeErr error
	if len(bytes.TrimSpace(data)) > 0 {
		decodeErr = json.Unmarshal(data, out)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    firstNonEmpty(out.message(), op.Fallback()),
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}
	if decodeErr != nil || len(data) == 0 {
		if decodeErr == nil {
			decodeErr = errors.New("empty response body")
		}
		return &Error{Op: op, StatusCode: resp.StatusCode, Message: op.Fallback(), Err: fmt.Errorf("decode response: %w", decodeErr)}
	}
	if !out.ok() {
		return &Error{Op: op, StatusCode: resp.StatusCode, Message: firstNonEmpty(out.message(), op.Fallback())}
	}
	return nil
}

func (c *Client) transportError(op Operation, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &Error{
			Op:      op,
			Message: fmt.Sprintf("request timed out after %s, please try again", c.timeout),
			Timeout: true,
			Err:     err,
		}
	case errors.Is(err, context.Canceled):
		return &Error{Op: op, Message: op.Fallback(), Err: fmt.Errorf("%w: %w", errCancelled, err)}
	default:
		return &Error{Op: op, Message: op.Fallback(), Err: err}
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
