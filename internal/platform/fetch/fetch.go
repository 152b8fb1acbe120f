// Package fetch performs bounded, rate-limited GET requests against remote
// sanctions sources and the roster backend. It does not retry; callers decide
// what a failure means for their list.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"
)

const defaultUserAgent = "sanctionscan/1.0 (+compliance screening)"

// Document is a fetched response body with the metadata parsers need.
type Document struct {
	URL         string
	ContentType string
	Body        []byte
}

// Fetcher retrieves remote documents.
type Fetcher interface {
	Get(ctx context.Context, url string, opts ...RequestOption) (*Document, error)
}

// RequestOption customizes a single request.
type RequestOption func(*http.Request)

// WithBasicAuth sets HTTP basic credentials on the request.
func WithBasicAuth(user, password string) RequestOption {
	return func(r *http.Request) {
		r.SetBasicAuth(user, password)
	}
}

// WithHeader sets a request header.
func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) {
		r.Header.Set(key, value)
	}
}

// StatusError reports a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

// ErrBodyTooLarge is returned when a response exceeds the configured limit.
var ErrBodyTooLarge = errors.New("response body exceeds limit")

// Client is the default Fetcher backed by net/http.
type Client struct {
	http      *http.Client
	limiter   *rate.Limiter
	maxBytes  int64
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.http = c
	}
}

// WithRateLimit bounds outbound requests per second. Zero disables limiting.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(cl *Client) {
		if perSecond <= 0 {
			cl.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		cl.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithMaxBytes caps the size of response bodies.
func WithMaxBytes(n int64) Option {
	return func(cl *Client) {
		cl.maxBytes = n
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(cl *Client) {
		if ua != "" {
			cl.userAgent = ua
		}
	}
}

// New builds a Client whose requests time out after timeout.
func New(timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{Timeout: timeout},
		maxBytes:  256 << 20,
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get issues a GET request and reads the full body.
func (c *Client) Get(ctx context.Context, url string, opts ...RequestOption) (*Document, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	for _, opt := range opts {
		opt(req)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	if int64(len(body)) > c.maxBytes {
		return nil, fmt.Errorf("GET %s: %w", url, ErrBodyTooLarge)
	}

	return &Document{
		URL:         url,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// DecodeText converts an HTML or text body to UTF-8 using the declared or
// sniffed charset. Invalid sequences become U+FFFD.
func DecodeText(doc *Document) string {
	raw := doc.Body
	r, err := charset.NewReader(bytes.NewReader(doc.Body), doc.ContentType)
	if err == nil {
		if out, err := io.ReadAll(r); err == nil {
			raw = out
		}
	}
	return strings.ToValidUTF8(string(raw), "\uFFFD")
}
