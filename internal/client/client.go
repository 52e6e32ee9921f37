package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/desertthunder/sinewave/internal/models"
	"github.com/desertthunder/sinewave/internal/session"
	"github.com/desertthunder/sinewave/internal/shared"
)

// Auth endpoints
const (
	LoginPath    = "/api/auth/login"
	RegisterPath = "/api/auth/register"
	RefreshPath  = "/api/auth/refresh"
	LogoutPath   = "/api/auth/logout"
)

const (
	DefaultBaseURL   = "http://localhost:8080"
	DefaultUserAgent = "sinewave-cli"

	// terminateTimeout bounds the best-effort logout call when no timeout is configured.
	terminateTimeout = 10 * time.Second

	headerRequestID = "X-Request-ID"
)

// authExempt lists endpoints whose responses bypass the renewal protocol.
var authExempt = []string{LoginPath, RegisterPath, RefreshPath, LogoutPath}

// Navigator moves the user to the login view once their session has ended.
type Navigator interface {
	ToLogin(ctx context.Context, reason error)
}

// NavigatorFunc adapts a function to [Navigator].
type NavigatorFunc func(ctx context.Context, reason error)

func (f NavigatorFunc) ToLogin(ctx context.Context, reason error) { f(ctx, reason) }

// Options configures a [Client].
type Options struct {
	BaseURL   string
	Session   session.Manager
	Navigator Navigator
	Logger    *log.Logger

	// HTTPClient must carry a cookie jar for renewal to work. A client with an
	// in-memory jar is created when nil.
	HTTPClient *http.Client

	// Timeout bounds each network exchange whose context has no deadline. Zero disables it.
	Timeout time.Duration

	// RequestsPerSecond throttles outgoing requests. Zero means unlimited.
	RequestsPerSecond float64

	UserAgent string
}

// Request describes one logical call.
type Request struct {
	Method string
	Header http.Header
	Body   Body
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	// Retried is set when the response came from the resend after a renewal.
	Retried bool
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
	}
	return nil
}

// Err returns nil for 2xx responses and an [shared.ErrAPIRequest] carrying the
// backend's message otherwise.
func (r *Response) Err() error {
	if r.OK() {
		return nil
	}
	var apiErr models.APIError
	if err := json.Unmarshal(r.Body, &apiErr); err == nil && apiErr.Text() != "" {
		return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, r.StatusCode, apiErr.Text())
	}
	if text := strings.TrimSpace(string(r.Body)); text != "" && len(text) < 200 {
		return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, r.StatusCode, text)
	}
	return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, r.StatusCode)
}

// Client sends authenticated requests to the SineWave API. It is safe for concurrent use.
type Client struct {
	base      *url.URL
	http      *http.Client
	session   session.Manager
	navigator Navigator
	logger    *log.Logger
	limiter   *rate.Limiter
	timeout   time.Duration
	userAgent string

	renewals singleflight.Group
}

// New creates a [Client]. A session manager is required.
func New(opts Options) (*Client, error) {
	if opts.Session == nil {
		return nil, fmt.Errorf("%w: session manager is required", shared.ErrInvalidInput)
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	base, err := url.Parse(opts.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: invalid base URL %q", shared.ErrInvalidConfig, opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		httpClient = &http.Client{Jar: jar}
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	c := &Client{
		base:      base,
		http:      httpClient,
		session:   opts.Session,
		navigator: opts.Navigator,
		logger:    logger,
		timeout:   opts.Timeout,
		userAgent: opts.UserAgent,
	}
	if c.userAgent == "" {
		c.userAgent = DefaultUserAgent
	}
	if opts.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	return c, nil
}

// BaseURL returns the URL root-relative targets resolve against.
func (c *Client) BaseURL() string { return c.base.String() }

// Session returns the manager the client reads tokens from.
func (c *Client) Session() session.Manager { return c.session }

// Do performs req against target, renewing the session at most once on 401.
//
// Failures of the renewal or of the resend end the session and return
// [shared.ErrRefreshFailed] or [shared.ErrSessionExpired]. Transport failures
// return [shared.ErrTransport] and leave the session as it was.
func (c *Client) Do(ctx context.Context, target string, req Request) (*Response, error) {
	if req.Body.err != nil {
		return nil, req.Body.err
	}
	u, err := c.Resolve(target)
	if err != nil {
		return nil, err
	}
	if req.Method == "" {
		req.Method = http.MethodGet
	}
	requestID := req.Header.Get(headerRequestID)
	if requestID == "" {
		requestID = shared.GenerateID()
	}
	logger := c.logger.With("method", req.Method, "path", u.Path, "request_id", requestID)

	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.send(ctx, u, req, token, requestID)
	if err != nil {
		logger.Debug("request failed", "err", err)
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || isAuthExempt(u.Path) {
		return resp, nil
	}

	// Another call may have renewed while this one was in flight.
	if current, err := c.token(ctx); err == nil && current != "" && current != token {
		logger.Debug("unauthorized with a replaced token, retrying with the current one")
		token = current
	} else {
		logger.Debug("unauthorized, renewing session")
		token, err = c.Renew(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %w", shared.ErrTransport, ctx.Err())
			}
			logger.Warn("session renewal failed", "err", err)
			c.Terminate(ctx, shared.ErrRefreshFailed)
			return nil, fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
		}
	}

	resp, err = c.send(ctx, u, req, token, requestID)
	if err != nil {
		logger.Debug("retry failed", "err", err)
		return nil, err
	}
	resp.Retried = true
	if resp.StatusCode == http.StatusUnauthorized {
		logger.Warn("unauthorized after renewal")
		c.Terminate(ctx, shared.ErrSessionExpired)
		return nil, shared.ErrSessionExpired
	}
	return resp, nil
}

// Get is shorthand for a GET [Client.Do].
func (c *Client) Get(ctx context.Context, target string) (*Response, error) {
	return c.Do(ctx, target, Request{Method: http.MethodGet})
}

// PostJSON sends v as a JSON POST body.
func (c *Client) PostJSON(ctx context.Context, target string, v any) (*Response, error) {
	req := Request{Method: http.MethodPost}
	if v != nil {
		req.Body = JSONBody(v)
	}
	return c.Do(ctx, target, req)
}

// Delete is shorthand for a DELETE [Client.Do].
func (c *Client) Delete(ctx context.Context, target string) (*Response, error) {
	return c.Do(ctx, target, Request{Method: http.MethodDelete})
}

// Upload posts a multipart body.
func (c *Client) Upload(ctx context.Context, target string, fields map[string]string, files ...FilePart) (*Response, error) {
	return c.Do(ctx, target, Request{Method: http.MethodPost, Body: MultipartBody(fields, files...)})
}

// Renew exchanges the session cookie for a new access token and stores it.
//
// Concurrent callers share one in-flight renewal. On failure the session is not modified.
func (c *Client) Renew(ctx context.Context) (string, error) {
	ch := c.renewals.DoChan("renew", func() (any, error) {
		// Detached so that one caller giving up does not fail the others.
		rctx := context.WithoutCancel(ctx)
		return c.refresh(rctx)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (c *Client) refresh(ctx context.Context) (string, error) {
	u, err := c.Resolve(RefreshPath)
	if err != nil {
		return "", err
	}

	resp, err := c.send(ctx, u, Request{Method: http.MethodPost}, "", shared.GenerateID())
	if err != nil {
		return "", err
	}
	if !resp.OK() {
		return "", fmt.Errorf("%w: refresh returned status %d", shared.ErrUnauthorized, resp.StatusCode)
	}

	var auth models.AuthResponse
	if err := resp.Decode(&auth); err != nil {
		return "", err
	}
	if err := auth.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
	}

	if err := c.session.Set(ctx, auth.Token, auth.User); err != nil {
		return "", err
	}
	c.logger.Info("session renewed")
	return auth.Token, nil
}

// Terminate ends the session: it notifies the logout endpoint on a best-effort
// basis, clears the session and navigates to login. It is idempotent.
func (c *Client) Terminate(ctx context.Context, reason error) {
	ctx = context.WithoutCancel(ctx)

	token, _ := c.token(ctx)
	if u, err := c.Resolve(LogoutPath); err == nil {
		lctx := ctx
		if c.timeout == 0 {
			var cancel context.CancelFunc
			lctx, cancel = context.WithTimeout(ctx, terminateTimeout)
			defer cancel()
		}
		if _, err := c.send(lctx, u, Request{Method: http.MethodPost}, token, shared.GenerateID()); err != nil {
			c.logger.Warn("logout notification failed", "err", err)
		}
	}

	if err := c.session.Clear(ctx); err != nil {
		c.logger.Error("failed to clear session", "err", err)
	}
	c.logger.Info("session terminated", "reason", reason)

	if c.navigator != nil {
		c.navigator.ToLogin(ctx, reason)
	}
}

// Resolve turns target into an absolute URL. Root-relative paths resolve against the base URL.
func (c *Client) Resolve(target string) (*url.URL, error) {
	ref, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid target %q: %v", shared.ErrInvalidArgument, target, err)
	}
	if ref.IsAbs() {
		return ref, nil
	}
	if !strings.HasPrefix(ref.Path, "/") {
		ref.Path = "/" + ref.Path
	}
	return c.base.ResolveReference(ref), nil
}

func (c *Client) token(ctx context.Context) (string, error) {
	s, ok, err := c.session.Get(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	return s.Token, nil
}

// send performs a single exchange with headers built from req and token.
func (c *Client) send(ctx context.Context, u *url.URL, req Request, token, requestID string) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", shared.ErrTransport, err)
		}
	}
	if _, ok := ctx.Deadline(); !ok && c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), req.Body.reader())
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.applyHeaders(httpReq, req, token, requestID)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", shared.ErrTransport, err)
	}

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

// applyHeaders merges caller headers, then the bearer token, then the default content type.
func (c *Client) applyHeaders(httpReq *http.Request, req Request, token, requestID string) {
	httpReq.Header = req.Header.Clone()
	if httpReq.Header == nil {
		httpReq.Header = make(http.Header)
	}

	if token != "" {
		(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(httpReq)
	}

	switch {
	case req.Body.IsBinary():
		if ct := req.Body.ContentType(); ct != "" {
			httpReq.Header.Set("Content-Type", ct)
		}
	case httpReq.Header.Get("Content-Type") == "":
		httpReq.Header.Set("Content-Type", contentTypeJSON)
	}

	httpReq.Header.Set(headerRequestID, requestID)
	if httpReq.Header.Get("User-Agent") == "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
}

func isAuthExempt(path string) bool {
	for _, p := range authExempt {
		if strings.HasSuffix(path, p) {
			return true
		}
	}
	return false
}

// IsSessionEnded reports whether err means the session was terminated.
func IsSessionEnded(err error) bool {
	return errors.Is(err, shared.ErrSessionExpired) || errors.Is(err, shared.ErrRefreshFailed)
}
