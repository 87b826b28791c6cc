// Package client is the typed wrapper over the marketplace backend REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/Guyuepp/market-front/domain"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 4 << 20
)

// Client calls the marketplace backend on behalf of one viewer.
// The zero token means an anonymous viewer.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	limiter    *rate.Limiter
	token      string
}

var (
	_ domain.CommentAPI = (*Client)(nil)
	_ domain.LikeAPI    = (*Client)(nil)
	_ domain.ProductAPI = (*Client)(nil)
)

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRateLimit throttles outgoing requests. The limiter is shared by every
// client derived with WithToken. A rate <= 0 disables throttling.
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(c *Client) {
		if r <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(r, max(burst, 1))
	}
}

// New returns a client for the backend at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("backend url %q must be absolute", baseURL)
	}
	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// WithToken returns a copy of c that sends token as bearer credentials.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// envelope is the part every backend response has in common
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// do sends the request and decodes a successful body into out (which may be nil).
// Non-2xx statuses, success=false and malformed bodies become *domain.APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrRequestFailed, err)
		}
	}

	u := c.baseURL.JoinPath(path)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrRequestFailed, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrRequestFailed, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read body: %w", domain.ErrRequestFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &domain.APIError{StatusCode: resp.StatusCode, Message: messageOf(data)}
		logrus.WithFields(logrus.Fields{
			"method": method,
			"path":   path,
			"status": resp.StatusCode,
		}).Warnf("backend request failed: %s", apiErr.Message)
		return apiErr
	}

	if !gjson.ValidBytes(data) {
		return &domain.APIError{StatusCode: resp.StatusCode, Message: "malformed response from marketplace backend"}
	}
	success := gjson.GetBytes(data, "success")
	if !success.Exists() || !success.Bool() {
		return &domain.APIError{StatusCode: resp.StatusCode, Message: messageOf(data)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &domain.APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("malformed response from marketplace backend: %v", err),
		}
	}
	return nil
}

// messageOf pulls the human readable message out of a body that may not be JSON at all.
func messageOf(data []byte) string {
	if !gjson.ValidBytes(data) {
		return ""
	}
	for _, key := range []string{"message", "error"} {
		if m := gjson.GetBytes(data, key); m.Type == gjson.String && m.Str != "" {
			return m.Str
		}
	}
	return ""
}

func escape(id domain.ID) string {
	return url.PathEscape(id.String())
}
