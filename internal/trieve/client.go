package trieve

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

	"golang.org/x/time/rate"

	"librarian/internal/contextutil"
)

// maxErrorBody bounds how much of an error response is kept in StatusError.
const maxErrorBody = 1 << 10

// Client talks to the Trieve chunk API.
type Client struct {
	BaseURL string
	headers HeaderProvider
	client  *http.Client
	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.client = c
	}
}

// WithRateLimit limits outgoing requests to rps per second with the given
// burst. rps <= 0 leaves requests unlimited.
func WithRateLimit(rps float64, burst int) Option {
	return func(cl *Client) {
		if rps <= 0 {
			cl.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		cl.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewClient creates a client for the Trieve API at baseURL.
// An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL string, headers HeaderProvider, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		headers: headers,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ChunkExists reports whether a chunk with trackingID is stored.
// Any non-success status is reported as absent; only transport failures
// return an error.
func (c *Client) ChunkExists(ctx context.Context, trackingID string) (bool, error) {
	resp, err := c.do(ctx, http.MethodGet, "/chunk/tracking_id/"+url.PathEscape(trackingID), nil)
	if err != nil {
		return false, err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	return isSuccess(resp.StatusCode), nil
}

// CreateChunk registers a chunk.
func (c *Client) CreateChunk(ctx context.Context, req CreateChunkRequest) error {
	resp, err := c.do(ctx, http.MethodPost, "/chunk", req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if !isSuccess(resp.StatusCode) {
		return newStatusError("create chunk", resp)
	}
	return nil
}

// Search runs a chunk search.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	resp, err := c.do(ctx, http.MethodPost, "/chunk/search", req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if !isSuccess(resp.StatusCode) {
		return nil, newStatusError("search", resp)
	}

	var out SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	logger.DebugContext(ctx, "trieve search completed", "query", req.Query, "hits", len(out.ScoreChunks))
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.headers != nil {
		h, err := c.headers.Headers(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get auth headers: %w", err)
		}
		for k, vs := range h {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

func newStatusError(op string, resp *http.Response) *StatusError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{
		Op:         op,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(raw)),
	}
}
