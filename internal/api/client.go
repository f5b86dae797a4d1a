// Package api is the client for the upstream employee-management REST API.
// Every method issues one HTTP request with the session's bearer token and
// normalizes the response envelope and error shape at this boundary. No
// method retries; failures are reported to the caller immediately.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/crewhub-app/sync-agent/internal/model"
	"github.com/crewhub-app/sync-agent/internal/session"
	"github.com/crewhub-app/sync-agent/pkg/logger"
	"github.com/crewhub-app/sync-agent/pkg/metrics"
)

const maxResponseBytes = 4 << 20

// Config holds upstream connection settings.
type Config struct {
	BaseURL  string
	CSRFPath string
	Timeout  time.Duration
}

// Client talks to the upstream API. Construct one per session.
type Client struct {
	baseURL  string
	csrfPath string
	http     *http.Client
	session  *session.Session
	logger   *logger.Logger
	tracer   trace.Tracer
}

// New creates an upstream API client bound to the given session.
func New(cfg Config, sess *session.Session, log *logger.Logger) *Client {
	jar, _ := cookiejar.New(nil)

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		csrfPath: cfg.CSRFPath,
		http: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		session: sess,
		logger:  log,
		tracer:  otel.Tracer("upstream-api"),
	}
}

// Session returns the session the client was constructed with.
func (c *Client) Session() *session.Session {
	return c.session
}

// envelope is the single upstream response shape. Payloads usually arrive
// under data; some endpoints put them at the top level, which is normalized
// in decodePayload and nowhere else.
type envelope struct {
	Success *bool               `json:"success"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Errors  map[string][]string `json:"errors"`
}

func (c *Client) do(ctx context.Context, endpoint, method, path string, body, out any) error {
	return c.doWithHeaders(ctx, endpoint, method, path, body, out, nil)
}

func (c *Client) doWithHeaders(ctx context.Context, endpoint, method, path string, body, out any, headers map[string]string) error {
	ctx, span := c.tracer.Start(ctx, "upstream."+endpoint,
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.route", path),
		),
	)
	defer span.End()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordUpstreamRequest(endpoint, method, "error", time.Since(start).Seconds())
		span.SetStatus(codes.Error, "transport failure")
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	metrics.RecordUpstreamRequest(endpoint, method, strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		span.SetStatus(codes.Error, "read failure")
		return fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if len(raw) > 0 {
		// A non-JSON error page still maps onto the status-code taxonomy
		// below, so a decode failure here is not fatal.
		_ = json.Unmarshal(raw, &env)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		c.session.Invalidate()
		span.SetStatus(codes.Error, "unauthorized")
		return ErrUnauthorized

	case resp.StatusCode == http.StatusUnprocessableEntity:
		span.SetStatus(codes.Error, "validation failed")
		return &ValidationError{
			Message: flattenFieldErrors(env.Message, env.Errors),
			Fields:  env.Errors,
		}

	case resp.StatusCode < 200 || resp.StatusCode > 299:
		span.SetStatus(codes.Error, "upstream error")
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	// Some backends answer 200 with success:false; treat it as a server
	// error rather than letting callers see a half-populated payload.
	if env.Success != nil && !*env.Success {
		span.SetStatus(codes.Error, "upstream rejected")
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	if out != nil {
		if err := decodePayload(raw, env.Data, out); err != nil {
			return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
		}
	}
	return nil
}

// decodePayload unwraps the payload from the data field when present, and
// falls back to the top-level body otherwise. This is the only place that
// tolerates the two envelope variants.
func decodePayload(raw, data json.RawMessage, out any) error {
	if len(data) > 0 && string(data) != "null" {
		return json.Unmarshal(data, out)
	}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

// primeCSRF requests the CSRF cookie from the upstream origin and returns
// the token value to echo back as a header on state-changing auth calls.
func (c *Client) primeCSRF(ctx context.Context) (string, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	origin := base.Scheme + "://" + base.Host

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+c.csrfPath, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("csrf priming failed: %w", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	for _, ck := range c.http.Jar.Cookies(base) {
		if ck.Name == "XSRF-TOKEN" {
			if v, err := url.QueryUnescape(ck.Value); err == nil {
				return v, nil
			}
			return ck.Value, nil
		}
	}
	return "", nil
}

// rolePrefix selects the dashboard-specific path prefix for the current
// session.
func (c *Client) rolePrefix() string {
	if c.session.Role() == model.RoleAdmin {
		return "/admin"
	}
	return "/employee"
}

func (c *Client) debugf(msg string, fields ...zap.Field) {
	if c.logger != nil {
		c.logger.Debug(msg, fields...)
	}
}
