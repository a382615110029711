// Package api provides the HTTP client for the 钱呢 expense API.
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

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

const (
	// DefaultBaseURL is used when no base URL is configured.
	DefaultBaseURL = "http://localhost:8000/api"
	// DefaultTimeout bounds every request.
	DefaultTimeout = 30 * time.Second
	// DefaultTicketPath is the external ticket redemption endpoint.
	DefaultTicketPath = "/auth/wechat/ticket"
	// LoginPath is the navigation target after a 401.
	LoginPath = "/login"

	maxBodySize = 4 << 20 // 4 MB
	userAgent   = "qianne/1.0"
)

// ErrUnauthorized matches any 401 response (errors.Is).
var ErrUnauthorized = errors.New("api: unauthorized (token expired or invalid)")

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("api: %s %s: status %d", e.Method, e.Path, e.StatusCode)
}

// Is lets errors.Is(err, ErrUnauthorized) match 401 responses.
func (e *StatusError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// Session is the token holder the client reads on every request.
type Session interface {
	// Current returns the token and the epoch context it belongs to, read
	// together. The context is canceled when the session is cleared, so a
	// logout aborts every request that carried the token.
	Current() (token string, epoch context.Context)
	Clear(ctx context.Context) error
}

// Navigator performs the hard redirect after a 401.
type Navigator interface {
	CurrentPath() string
	Redirect(path string)
}

// Client talks to the expense API. All endpoints go through do, which
// injects the bearer token and handles 401 responses.
type Client struct {
	baseURL    string
	ticketPath string
	timeout    time.Duration
	http       *http.Client
	session    Session
	nav        Navigator
	log        zerolog.Logger
	validate   *validator.Validate
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithNavigator sets the navigator used for 401 redirects.
func WithNavigator(nav Navigator) Option {
	return func(c *Client) { c.nav = nav }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithTicketPath overrides the ticket redemption endpoint.
func WithTicketPath(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.ticketPath = path
		}
	}
}

// NewClient creates a client for baseURL (e.g. "http://host/api").
func NewClient(baseURL string, sess Session, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    baseURL,
		ticketPath: DefaultTicketPath,
		timeout:    DefaultTimeout,
		http:       &http.Client{},
		session:    sess,
		log:        zerolog.Nop(),
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetNavigator attaches the navigator after construction. The router
// needs the auth state, which needs the client, so one side is late-bound.
func (c *Client) SetNavigator(nav Navigator) {
	c.nav = nav
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Login exchanges a username and password for an access token.
func (c *Client) Login(ctx context.Context, username, password string) (*Token, error) {
	creds := Credentials{Username: username, Password: password}
	if err := c.check(creds); err != nil {
		return nil, err
	}
	var tok Token
	if err := c.do(ctx, http.MethodPost, "/auth/login", creds, &tok); err != nil {
		return nil, err
	}
	if err := c.check(tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

// RedeemTicket exchanges a one-time external login ticket for an access token.
func (c *Client) RedeemTicket(ctx context.Context, ticket string) (*Token, error) {
	ticket = strings.TrimSpace(ticket)
	if ticket == "" {
		return nil, errors.New("api: ticket is required")
	}
	var tok Token
	if err := c.do(ctx, http.MethodPost, c.ticketPath, map[string]string{"ticket": ticket}, &tok); err != nil {
		return nil, err
	}
	if err := c.check(tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

// Me returns the current user's profile.
func (c *Client) Me(ctx context.Context) (*Profile, error) {
	var p Profile
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &p); err != nil {
		return nil, err
	}
	if err := c.check(p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Summary returns the aggregate expense summary.
func (c *Client) Summary(ctx context.Context) (*ExpenseSummary, error) {
	var s ExpenseSummary
	if err := c.do(ctx, http.MethodGet, "/expenses/summary", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Monthly returns per-month totals.
func (c *Client) Monthly(ctx context.Context) ([]MonthlyExpense, error) {
	var out []MonthlyExpense
	if err := c.do(ctx, http.MethodGet, "/expenses/monthly", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Categories returns per-category totals in backend order.
func (c *Client) Categories(ctx context.Context) ([]CategoryExpense, error) {
	var out []CategoryExpense
	if err := c.do(ctx, http.MethodGet, "/expenses/categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PaymentMethods returns per-account usage in backend order.
func (c *Client) PaymentMethods(ctx context.Context) ([]PaymentMethod, error) {
	var out []PaymentMethod
	if err := c.do(ctx, http.MethodGet, "/expenses/payment-methods", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Timeline returns per-day totals.
func (c *Client) Timeline(ctx context.Context) ([]TimelineData, error) {
	var out []TimelineData
	if err := c.do(ctx, http.MethodGet, "/expenses/timeline", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Stardust returns the category/transaction graph.
func (c *Client) Stardust(ctx context.Context) (*StardustData, error) {
	var out StardustData
	if err := c.do(ctx, http.MethodGet, "/expenses/stardust", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health returns the backend health payload.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var out Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// do performs one request. in, when non-nil, is sent as the JSON body; out,
// when non-nil, receives the decoded response.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	token := ""
	if c.session != nil {
		var epoch context.Context
		token, epoch = c.session.Current()
		if err := epoch.Err(); err != nil {
			return fmt.Errorf("api: %s %s: %w", method, path, err)
		}
		stop := context.AfterFunc(epoch, cancel)
		defer stop()
	}

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("api: encoding request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("api: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("method", method).Str("path", path).Msg("api request failed")
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		c.log.Error().Err(err).Str("method", method).Str("path", path).Msg("api read failed")
		return fmt.Errorf("api: reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		serr := &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Detail:     parseDetail(raw),
		}
		c.log.Error().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Str("detail", serr.Detail).
			Msg("api request rejected")
		if resp.StatusCode == http.StatusUnauthorized {
			c.handleUnauthorized()
		}
		return serr
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("api request")

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("api: parsing %s: %w", path, err)
	}
	return nil
}

// handleUnauthorized drops the session and sends the user to login, unless
// they are already there.
func (c *Client) handleUnauthorized() {
	if c.session != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := c.session.Clear(ctx); err != nil {
			c.log.Warn().Err(err).Msg("clearing session after 401")
		}
		cancel()
	}
	if c.nav != nil && !strings.HasPrefix(c.nav.CurrentPath(), LoginPath) {
		c.nav.Redirect(LoginPath)
	}
}

func (c *Client) check(v any) error {
	if err := c.validate.Struct(v); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, strings.ToLower(fe.Field())+" is "+fe.Tag())
			}
			return fmt.Errorf("api: invalid %T: %s", v, strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// parseDetail extracts FastAPI-style {"detail": "..."} messages.
func parseDetail(raw []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(body.Detail, &s); err == nil {
		return s
	}
	return string(body.Detail)
}
