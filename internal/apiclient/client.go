// Package apiclient talks to the TalentaTalk backend REST API on behalf of
// one signed-in admin session.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/talentatalk/talentatalk-admin/internal/domain"
)

const (
	// DefaultTimeout bounds ordinary reads and mutations.
	DefaultTimeout = 10 * time.Second
	// DefaultUploadTimeout bounds import uploads.
	DefaultUploadTimeout = 60 * time.Second

	maxResponseBytes = 32 << 20
)

// Config holds the backend connection settings.
type Config struct {
	BaseURL       string
	Timeout       time.Duration
	UploadTimeout time.Duration
}

// Client is the HTTP adapter for one admin session. It injects the bearer
// token, enforces token expiry, and turns backend responses into values or
// *domain.AppError failures.
type Client struct {
	baseURL        *url.URL
	http           *http.Client
	upload         *http.Client
	tokens         TokenStore
	onUnauthorized func()
	logger         *slog.Logger
	now            func() time.Time

	// mu serializes token invalidation so concurrent 401s clear it once.
	mu sync.Mutex
}

// Option configures a Client.
type Option func(*Client)

// WithTransport sets the round tripper shared by both HTTP clients.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.http.Transport = rt
		c.upload.Transport = rt
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithUnauthorizedHandler sets the hook fired once when the session token is
// invalidated by an expired token or a 401 response.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) {
		c.onUnauthorized = fn
	}
}

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a Client for the given token store.
func New(cfg Config, tokens TokenStore, opts ...Option) (*Client, error) {
	if tokens == nil {
		return nil, errors.New("token store is nil")
	}
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("parse backend base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid backend base url %q: scheme must be http or https", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	uploadTimeout := cfg.UploadTimeout
	if uploadTimeout <= 0 {
		uploadTimeout = DefaultUploadTimeout
	}

	c := &Client{
		baseURL: base,
		http:    &http.Client{Timeout: timeout},
		upload:  &http.Client{Timeout: uploadTimeout},
		tokens:  tokens,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Request describes one backend call.
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	Body        io.Reader
	ContentType string
	// Upload selects the extended timeout.
	Upload bool
}

// Response is a raw successful backend response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Do sends req and returns the raw response for any 2xx status.
//
// Failures are always *domain.AppError: CodeUnauthorized for an expired or
// rejected session, CodeTransport for network failures and timeouts, and
// CodeServer carrying the backend's message for other non-2xx statuses.
// A caller-cancelled context is returned as is.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	token := c.tokens.Token()
	if token != "" && TokenExpired(token, c.now()) {
		c.invalidate(token)
		return nil, domain.ErrUnauthorized
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.resolve(req.Path, req.Query), req.Body)
	if err != nil {
		return nil, domain.NewAppError(domain.CodeInternal, "build request", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	hc := c.http
	if req.Upload {
		hc = c.upload
	}

	start := time.Now()
	resp, err := hc.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.WarnContext(ctx, "backend request failed",
			slog.String("method", req.Method),
			slog.String("path", req.Path),
			slog.Duration("latency", time.Since(start)),
			slog.Any("error", err),
		)
		return nil, domain.NewAppError(domain.CodeTransport, domain.ErrTransport.Message, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, domain.NewAppError(domain.CodeTransport, domain.ErrTransport.Message, err)
	}

	c.logger.DebugContext(ctx, "backend request",
		slog.String("method", req.Method),
		slog.String("path", req.Path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode == http.StatusUnauthorized {
		env, _ := parseEnvelope(body)
		if token == "" {
			// No session yet, e.g. rejected credentials on login.
			return nil, domain.NewServerError(resp.StatusCode, failureMessage(env, resp.StatusCode))
		}
		c.invalidate(token)
		return nil, domain.ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		env, _ := parseEnvelope(body)
		msg := failureMessage(env, resp.StatusCode)
		c.logger.WarnContext(ctx, "backend rejected request",
			slog.String("method", req.Method),
			slog.String("path", req.Path),
			slog.Int("status", resp.StatusCode),
			slog.String("message", msg),
		)
		return nil, domain.NewServerError(resp.StatusCode, msg)
	}

	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

// invalidate clears the stored token if it is still the one that was sent,
// then fires the unauthorized hook. Later callers holding the same stale
// token find it already cleared and do nothing.
func (c *Client) invalidate(sent string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if sent == "" || c.tokens.Token() != sent {
		return
	}
	c.tokens.ClearToken()
	c.logger.Info("backend session invalidated")
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}

func (c *Client) resolve(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(c.baseURL.Path, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// Get performs a GET and decodes the response payload into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
	if err != nil {
		return err
	}
	_, err = decodeResponse(resp, out)
	return err
}

// Send performs a mutation with an optional JSON body, decodes the payload
// into out, and returns the backend's message.
func (c *Client) Send(ctx context.Context, method, path string, in, out any) (string, error) {
	req := Request{Method: method, Path: path}
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return "", domain.NewAppError(domain.CodeInternal, "encode request", err)
		}
		req.Body = bytes.NewReader(b)
		req.ContentType = "application/json"
	}
	resp, err := c.Do(ctx, req)
	if err != nil {
		return "", err
	}
	return decodeResponse(resp, out)
}

// decodeResponse applies the envelope rules to a 2xx response.
func decodeResponse(resp *Response, out any) (string, error) {
	env, enveloped := parseEnvelope(resp.Body)
	if enveloped && env.Failed() {
		return "", domain.NewServerError(resp.Status, failureMessage(env, resp.Status))
	}
	if err := decodeData(resp.Body, env, enveloped, out); err != nil {
		return "", err
	}
	return env.Message, nil
}
