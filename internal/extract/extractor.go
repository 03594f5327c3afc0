// Package extract fetches a bookmarked page and selects a few representative
// text chunks from it.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"librarian/internal/contextutil"
)

// Defaults for the selection heuristic and the fetch.
const (
	DefaultMaxChunks       = 3
	DefaultMaxChunkRunes   = 2000
	DefaultMinSegmentRunes = 50
	DefaultMaxBodyBytes    = 2 << 20
	DefaultUserAgent       = "librarian/1.0 (+bookmark indexer)"
)

// Extractor turns a URL into text chunks. It never fails: when nothing
// usable comes back, the bookmark title stands in as the only chunk.
type Extractor struct {
	client          *http.Client
	userAgent       string
	maxBodyBytes    int64
	maxChunks       int
	maxChunkRunes   int
	minSegmentRunes int
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithHTTPClient sets the client used for fetching, including its redirect
// and timeout policy.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Extractor) { e.client = c }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(e *Extractor) { e.userAgent = ua }
}

// WithMaxBodyBytes caps how much of a response body is read.
func WithMaxBodyBytes(n int64) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.maxBodyBytes = n
		}
	}
}

// WithMaxChunks sets how many chunks are kept per page.
func WithMaxChunks(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.maxChunks = n
		}
	}
}

// WithMaxChunkRunes sets the length a chunk is truncated to.
func WithMaxChunkRunes(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.maxChunkRunes = n
		}
	}
}

// WithMinSegmentRunes sets the shortest text block considered a chunk.
func WithMinSegmentRunes(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.minSegmentRunes = n
		}
	}
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		client:          &http.Client{Timeout: 20 * time.Second},
		userAgent:       DefaultUserAgent,
		maxBodyBytes:    DefaultMaxBodyBytes,
		maxChunks:       DefaultMaxChunks,
		maxChunkRunes:   DefaultMaxChunkRunes,
		minSegmentRunes: DefaultMinSegmentRunes,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract fetches pageURL and returns up to MaxChunks text chunks, longest
// first. Any failure yields []string{title}, or the URL when title is empty.
func (e *Extractor) Extract(ctx context.Context, pageURL, title string) []string {
	logger := contextutil.LoggerFromContext(ctx)

	fallback := []string{title}
	if strings.TrimSpace(title) == "" {
		fallback = []string{pageURL}
	}

	segments, err := e.segments(ctx, pageURL)
	if err != nil {
		logger.InfoContext(ctx, "content extraction failed, using title", "url", pageURL, "error", err)
		return fallback
	}

	chunks := selectChunks(segments, e.minSegmentRunes, e.maxChunks, e.maxChunkRunes)
	if len(chunks) == 0 {
		logger.InfoContext(ctx, "no usable text on page, using title", "url", pageURL)
		return fallback
	}
	return chunks
}

func (e *Extractor) segments(ctx context.Context, pageURL string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/markdown;q=0.9,text/plain;q=0.8,*/*;q=0.5")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("bad status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	kind := contentKind(contentType, resp.Request.URL, body)
	if kind == kindUnsupported {
		return nil, fmt.Errorf("unsupported content type %q", contentType)
	}

	body, err = decodeUTF8(body, contentType)
	if err != nil {
		return nil, err
	}

	switch kind {
	case kindHTML:
		return htmlSegments(bytes.NewReader(body))
	case kindMarkdown:
		return markdownSegments(body), nil
	case kindPlain:
		return plainSegments(string(body)), nil
	default:
		return nil, fmt.Errorf("unsupported content type %q", contentType)
	}
}

// decodeUTF8 converts body to UTF-8 using a byte order mark, the charset
// parameter of contentType, or a <meta> declaration, in that order.
func decodeUTF8(body []byte, contentType string) ([]byte, error) {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to detect charset: %w", err)
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode body: %w", err)
	}
	return decoded, nil
}

type pageKind int

const (
	kindUnsupported pageKind = iota
	kindHTML
	kindMarkdown
	kindPlain
)

func contentKind(contentType string, u *url.URL, body []byte) pageKind {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType == "" {
		mediaType, _, _ = mime.ParseMediaType(http.DetectContentType(body))
	}

	switch mediaType {
	case "text/markdown", "text/x-markdown":
		return kindMarkdown
	case "text/plain":
		if u != nil && strings.HasSuffix(strings.ToLower(u.Path), ".md") {
			return kindMarkdown
		}
		return kindPlain
	case "text/html", "application/xhtml+xml":
		return kindHTML
	}

	switch {
	case strings.HasPrefix(mediaType, "image/"),
		strings.HasPrefix(mediaType, "audio/"),
		strings.HasPrefix(mediaType, "video/"),
		strings.HasPrefix(mediaType, "font/"),
		mediaType == "application/pdf",
		mediaType == "application/zip",
		mediaType == "application/octet-stream":
		return kindUnsupported
	}
	return kindHTML
}
