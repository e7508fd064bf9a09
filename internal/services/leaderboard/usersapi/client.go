// Package usersapi is the leaderboard's accessor for the remote users API.
//
// Every call returns its failure to the caller; the client never logs or
// swallows errors and never retries.
package usersapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/louisbranch/statboard/internal/api/usersv1"
	apperrors "github.com/louisbranch/statboard/internal/platform/errors"
	"github.com/louisbranch/statboard/internal/platform/timeouts"
	"github.com/louisbranch/statboard/internal/stats"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/louisbranch/statboard/internal/services/leaderboard/usersapi"

// maxResponseBytes bounds how much of a list response is decoded.
const maxResponseBytes = 4 << 20

// Client talks to the users API over HTTP.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	timeout    time.Duration
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTimeout sets the per-request budget. Zero or negative disables it.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithTracerProvider replaces the global tracer provider.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(c *Client) {
		if provider != nil {
			c.tracer = provider.Tracer(tracerName)
		}
	}
}

// NewClient builds a client rooted at baseURL, e.g. "http://localhost:8095".
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	raw := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if raw == "" {
		return nil, fmt.Errorf("users api base url is required")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse users api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("users api base url must be http or https, got %q", raw)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("users api base url %q has no host", raw)
	}

	c := &Client{
		baseURL:    parsed,
		httpClient: http.DefaultClient,
		timeout:    timeouts.UsersRequest,
		tracer:     otel.Tracer(tracerName),
		propagator: otel.GetTextMapPropagator(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ListUsers fetches every user record.
func (c *Client) ListUsers(ctx context.Context) ([]stats.User, error) {
	return c.list(ctx, "usersapi.ListUsers", nil)
}

// ListTopUsers fetches the n highest-ranked users. The ranking is the
// server's.
func (c *Client) ListTopUsers(ctx context.Context, n int) ([]stats.User, error) {
	if n <= 0 {
		return nil, apperrors.WithMetadata(
			apperrors.CodeTopCountInvalid,
			fmt.Sprintf("top count must be positive, got %d", n),
			map[string]string{"top": strconv.Itoa(n)},
		)
	}
	query := url.Values{}
	query.Set(usersv1.QueryTop, strconv.Itoa(n))
	return c.list(ctx, "usersapi.ListTopUsers", query)
}

// UpdateStat submits one field of one user. Any 2xx answer is success and
// its body is ignored.
func (c *Client) UpdateStat(ctx context.Context, userID int64, kind stats.Kind, value int) error {
	if userID <= 0 {
		return apperrors.New(apperrors.CodeUserIDInvalid, fmt.Sprintf("invalid user id %d", userID))
	}
	if !kind.Valid() {
		return apperrors.New(apperrors.CodeStatKindInvalid, fmt.Sprintf("unknown stat %q", kind))
	}
	if err := stats.ValidateValue(value); err != nil {
		return err
	}
	body, err := json.Marshal(usersv1.UpdateStatRequest{Stat: kind, Value: value})
	if err != nil {
		return fmt.Errorf("encode stat update: %w", err)
	}

	ctx, span := c.tracer.Start(ctx, "usersapi.UpdateStat", trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.Int64("statboard.user_id", userID),
			attribute.String("statboard.stat", string(kind)),
			attribute.Int("statboard.value", value),
		))
	defer span.End()

	resp, err := c.do(ctx, http.MethodPut, usersv1.UserPath(userID), nil, bytes.NewReader(body))
	if err != nil {
		recordError(span, err)
		return err
	}
	defer drain(resp.Body)
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if err := checkStatus(resp, "update stat"); err != nil {
		recordError(span, err)
		return err
	}
	return nil
}

func (c *Client) list(ctx context.Context, spanName string, query url.Values) ([]stats.User, error) {
	ctx, span := c.tracer.Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	resp, err := c.do(ctx, http.MethodGet, usersv1.PathUsers, query, nil)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	defer drain(resp.Body)
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if err := checkStatus(resp, "list users"); err != nil {
		recordError(span, err)
		return nil, err
	}

	var payload usersv1.ListUsersResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		decodeErr := apperrors.Wrap(apperrors.CodeRemoteDecode, "decode users response", err)
		recordError(span, decodeErr)
		return nil, decodeErr
	}
	users := payload.Data
	if users == nil {
		users = []stats.User{}
	}
	span.SetAttributes(attribute.Int("statboard.users", len(users)))
	return users, nil
}

// do issues one request. The per-request timeout covers the whole exchange,
// including reading the body, so it is released by drain.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cancel := context.CancelFunc(func() {})
	if c.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
	}

	target := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.propagator.Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		cancel()
		return nil, apperrors.WrapWithMetadata(
			apperrors.CodeRemoteUnavailable,
			fmt.Sprintf("%s %s", method, path),
			map[string]string{"url": target.String()},
			err,
		)
	}
	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

func checkStatus(resp *http.Response, operation string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return apperrors.WithMetadata(
		apperrors.CodeRemoteStatus,
		fmt.Sprintf("%s: unexpected status %d", operation, resp.StatusCode),
		map[string]string{"status": strconv.Itoa(resp.StatusCode)},
	)
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(otelcodes.Error, err.Error())
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}

func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, maxResponseBytes))
	_ = body.Close()
}
