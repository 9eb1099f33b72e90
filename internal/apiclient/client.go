// Package apiclient is the HTTP wrapper around the remote book API. It owns
// bearer-token attachment and the "401 clears the token" rule; callers only
// see typed request functions.
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
	"strconv"
	"strings"
	"time"

	"github.com/ErlanBelekov/bookshelf/internal/domain"
	"github.com/ErlanBelekov/bookshelf/internal/metrics"
	"github.com/ErlanBelekov/bookshelf/internal/reqctx"
	"github.com/ErlanBelekov/bookshelf/internal/tokenstore"
)

// Client calls the remote API on behalf of one token store.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     tokenstore.Store
	logger     *slog.Logger
}

// APIError is a non-2xx response from the remote API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Is lets callers match API failures against domain sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case domain.ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case domain.ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// New constructs a client for baseURL that reads and clears its token in tokens.
func New(baseURL string, tokens tokenstore.Store, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		logger:     logger.With("component", "apiclient"),
	}
}

// WithTokens returns a client sharing c's transport but bound to tokens.
func (c *Client) WithTokens(tokens tokenstore.Store) *Client {
	cp := *c
	cp.tokens = tokens
	return &cp
}

// Tokens exposes the store the client attaches tokens from.
func (c *Client) Tokens() tokenstore.Store {
	return c.tokens
}

// Ping reports whether the API origin answers at all. Any response below 500
// counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 500 {
		return fmt.Errorf("api responded %s", resp.Status)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, op, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode %s payload: %w", op, err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, op, out)
}

func (c *Client) do(req *http.Request, op string, out any) error {
	ctx := req.Context()

	token, err := c.tokens.Get(ctx)
	if err != nil {
		return fmt.Errorf("read token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")
	if id := reqctx.RequestID(ctx); id != "" {
		req.Header.Set(reqctx.HeaderRequestID, id)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.APIRequestDuration.WithLabelValues(op, "error").Observe(time.Since(start).Seconds())
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()
	metrics.APIRequestDuration.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	if resp.StatusCode == http.StatusUnauthorized {
		metrics.APIUnauthorizedTotal.Inc()
		if err := c.tokens.Remove(ctx); err != nil {
			c.logger.ErrorContext(ctx, "remove token after 401", "op", op, "error", err)
		} else if token != "" {
			c.logger.InfoContext(ctx, "token rejected, cleared", "op", op)
		}
	}

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var errResp struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&errResp)
	msg := strings.TrimSpace(errResp.Message)
	if msg == "" {
		msg = strings.TrimSpace(errResp.Error)
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	if msg == "" {
		msg = resp.Status
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}

// MessageOf returns the server-provided message carried by err, or "" when
// err is not an API failure.
func MessageOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
