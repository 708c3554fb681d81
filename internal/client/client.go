package client

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
	"time"

	"github.com/devilmonastery/openproof/internal/pkg/metrics"
)

const (
	// DefaultBaseURL is the registry origin used when no context, env var or
	// flag overrides it.
	DefaultBaseURL = "https://openproof.dev"

	// DefaultTimeout bounds every request unless overridden.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxResponseSize bounds response body reads.
	DefaultMaxResponseSize int64 = 32 << 20
)

// Options configures a Client.
type Options struct {
	BaseURL   string
	UserAgent string
	// Timeout is applied to each request. Zero disables the deadline.
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
	Metrics    *metrics.Registry
	// MaxResponseSize caps response bodies; larger ones are an error.
	// Zero means DefaultMaxResponseSize.
	MaxResponseSize int64
}

// Client talks to the document registry over HTTP. It issues exactly one
// attempt per call; there is no retry.
type Client struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
	maxBody   int64
	http      *http.Client
	logger    *slog.Logger
}

// Request describes a single registry call. Body may be nil, a string, a
// []byte, or any JSON-serializable value.
type Request struct {
	Method   string
	Endpoint string
	Body     any
	Header   map[string]string
}

// Response is a 2xx answer. Value holds the decoded JSON body, or the raw
// body as a string when it is not JSON.
type Response struct {
	StatusCode int
	Raw        []byte
	Value      any
}

// New creates a registry client.
func New(opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "registry-client")

	base := opts.HTTPClient
	if base == nil {
		base = &http.Client{}
	}
	// Copy so the caller's client keeps its own transport.
	httpClient := *base
	httpClient.Transport = NewInstrumentedTransport(base.Transport, logger, opts.Metrics)

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "openproof-cli"
	}
	maxBody := opts.MaxResponseSize
	if maxBody <= 0 {
		maxBody = DefaultMaxResponseSize
	}

	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		timeout:   opts.Timeout,
		maxBody:   maxBody,
		http:      &httpClient,
		logger:    logger,
	}
}

// BaseURL returns the registry origin this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends req and collects the full response.
//
// A 2xx status yields a Response. Any other status yields *HTTPError carrying
// the raw body. Failures below HTTP yield *TransportError.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, isJSON, err := encodeBody(req.Body)
	if err != nil {
		return nil, fmt.Errorf("encode %s body: %w", req.Endpoint, err)
	}

	target := c.baseURL + req.Endpoint
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("User-Agent", c.userAgent)
	if isJSON {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, v := range req.Header {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: target, Err: unwrapURLError(err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: target, Err: fmt.Errorf("reading response body: %w", err)}
	}
	if int64(len(raw)) > c.maxBody {
		c.logger.Warn("response body too large", "method", req.Method, "endpoint", req.Endpoint, "limit", c.maxBody)
		return nil, fmt.Errorf("%s %s: response body exceeds %d bytes", req.Method, req.Endpoint, c.maxBody)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{
			Method:     req.Method,
			Endpoint:   req.Endpoint,
			StatusCode: resp.StatusCode,
			Body:       string(raw),
		}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Raw:        raw,
		Value:      parseBody(raw),
	}, nil
}

// encodeBody turns a request body into a reader. Strings and byte slices
// are sent as-is; anything else is JSON-encoded.
func encodeBody(body any) (io.Reader, bool, error) {
	switch b := body.(type) {
	case nil:
		return nil, false, nil
	case string:
		return strings.NewReader(b), false, nil
	case []byte:
		return bytes.NewReader(b), false, nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, false, err
		}
		return bytes.NewReader(data), true, nil
	}
}

// parseBody decodes raw as JSON, falling back to the raw text.
func parseBody(raw []byte) any {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}

// unwrapURLError strips the *url.Error layer net/http adds, since
// TransportError already carries the method and URL.
func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}
	return err
}
