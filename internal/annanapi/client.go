// Package annanapi is the HTTP client for the Annan shogi API server. The
// server is the sole authority on rules and legality; this client only moves
// JSON back and forth.
package annanapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/okamura27/annan-client/pkg/annandto"
)

// APIError carries the server's {"error": ...} payload for non-2xx replies.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) != "" {
		return fmt.Sprintf("annan api: status=%d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("annan api: status=%d", e.Status)
}

// AsAPIError unwraps an *APIError if err carries one.
func AsAPIError(err error) (*APIError, bool) {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

type Client struct {
	baseURL string
	http    *fasthttp.Client

	defaultTimeout time.Duration
	thinkTimeout   time.Duration
	retryMax       int
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.defaultTimeout = d }
}

// WithThinkTimeout sets the longer deadline used for /api/ai_move, where the
// engine searches before answering.
func WithThinkTimeout(d time.Duration) Option {
	return func(c *Client) { c.thinkTimeout = d }
}

func WithMaxConnsPerHost(n int) Option {
	return func(c *Client) { c.http.MaxConnsPerHost = n }
}

func WithRetry(max int) Option {
	return func(c *Client) { c.retryMax = max }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		http:           &fasthttp.Client{ReadTimeout: 60 * time.Second, WriteTimeout: 10 * time.Second, MaxConnsPerHost: 4},
		defaultTimeout: 10 * time.Second,
		thinkTimeout:   60 * time.Second,
		retryMax:       3,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State fetches the current snapshot. Idempotent, retried on 5xx.
func (c *Client) State(ctx context.Context) (*annandto.Snapshot, error) {
	var snap annandto.Snapshot
	if err := c.doJSON(ctx, fasthttp.MethodGet, "/api/state", nil, &snap, true, c.defaultTimeout); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Move submits one move token. Never retried: a replay could double-apply.
func (c *Client) Move(ctx context.Context, move string) (*annandto.Snapshot, error) {
	req := annandto.MoveRequest{Move: move}
	var snap annandto.Snapshot
	if err := c.doJSON(ctx, fasthttp.MethodPost, "/api/move", req, &snap, false, c.defaultTimeout); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (c *Client) Undo(ctx context.Context) (*annandto.Snapshot, error) {
	return c.postState(ctx, "/api/undo", c.defaultTimeout)
}

func (c *Client) Resign(ctx context.Context) (*annandto.Snapshot, error) {
	return c.postState(ctx, "/api/resign", c.defaultTimeout)
}

func (c *Client) Reset(ctx context.Context) (*annandto.Snapshot, error) {
	return c.postState(ctx, "/api/reset", c.defaultTimeout)
}

// AIMove asks the engine side to play. Uses the think deadline.
func (c *Client) AIMove(ctx context.Context) (*annandto.Snapshot, error) {
	return c.postState(ctx, "/api/ai_move", c.thinkTimeout)
}

// SetConfig switches the automated side: "black", "white", or "none".
func (c *Client) SetConfig(ctx context.Context, aiMode string) (*annandto.ConfigResponse, error) {
	req := annandto.ConfigRequest{AIMode: aiMode}
	var resp annandto.ConfigResponse
	if err := c.doJSON(ctx, fasthttp.MethodPost, "/api/config", req, &resp, false, c.defaultTimeout); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) postState(ctx context.Context, path string, timeout time.Duration) (*annandto.Snapshot, error) {
	var snap annandto.Snapshot
	if err := c.doJSON(ctx, fasthttp.MethodPost, path, nil, &snap, false, timeout); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in any, out any, retry bool, timeout time.Duration) error {
	url := c.baseURL + path
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.Header.SetMethod(method)
	req.SetRequestURI(url)
	req.Header.SetContentType("application/json")

	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		req.SetBody(payload)
	}

	attempts := 1
	if retry {
		attempts = c.retryMax
		if attempts <= 0 {
			attempts = 1
		}
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		deadline := c.computeDeadline(ctx, timeout)
		err := c.http.DoDeadline(req, resp, deadline)
		if err != nil {
			if attempt == attempts || !retry {
				return fmt.Errorf("request %s: %w", path, err)
			}
			lastErr = err
			if sleepErr := c.sleepWithContext(ctx, backoffDuration(attempt)); sleepErr != nil {
				return lastErr
			}
			continue
		}

		status := resp.StatusCode()
		if status < 200 || status >= 300 {
			err := decodeAPIError(status, resp.Body())
			if attempt == attempts || !retry || !shouldRetryStatus(status) {
				return err
			}
			lastErr = err
			if sleepErr := c.sleepWithContext(ctx, backoffDuration(attempt)); sleepErr != nil {
				return lastErr
			}
			continue
		}

		if out != nil {
			if err := json.Unmarshal(resp.Body(), out); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
		}
		return nil
	}

	if lastErr == nil {
		lastErr = errors.New("unknown error")
	}
	return lastErr
}

func decodeAPIError(status int, body []byte) error {
	var payload annandto.ErrorResponse
	if err := json.Unmarshal(body, &payload); err == nil && strings.TrimSpace(payload.Error) != "" {
		return &APIError{Status: status, Message: payload.Error}
	}
	return &APIError{Status: status, Message: truncate(string(body), 512)}
}

func (c *Client) computeDeadline(ctx context.Context, timeout time.Duration) time.Time {
	clientDL := time.Now().Add(timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(clientDL) {
		return dl
	}
	return clientDL
}

func (c *Client) sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func backoffDuration(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 6 {
		attempt = 6
	}
	base := 100 * time.Millisecond
	return time.Duration(1<<uint(attempt-1)) * base // 100ms, 200ms ...
}

func shouldRetryStatus(code int) bool {
	switch code {
	case 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
