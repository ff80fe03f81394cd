package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/quocvuong92/ai-apps/internal/constants"
	"github.com/quocvuong92/ai-apps/internal/logging"
	"github.com/quocvuong92/ai-apps/internal/request"
)

// Transport performs one HTTP exchange. Implementations return an error only
// when no response was obtained; any status code is a successful Execute.
type Transport interface {
	Execute(ctx context.Context, method, rawURL string, opts request.Options) (*Response, error)
}

// Response is a fully read provider response
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// BodyAsStructured decodes a JSON object body
func (r *Response) BodyAsStructured() (map[string]any, error) {
	var out map[string]any
	if err := json.Unmarshal(r.Body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}
	if out == nil {
		return nil, fmt.Errorf("failed to decode response body: not a JSON object")
	}
	return out, nil
}

// HTTPTransportOptions configures NewHTTPTransport
type HTTPTransportOptions struct {
	Timeout time.Duration
	Logger  *logging.Logger
	// LogBodies includes redacted request bodies in debug logs
	LogBodies bool
	// Base overrides http.DefaultTransport
	Base http.RoundTripper
}

// HTTPTransport is the net/http Transport
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport creates a transport. With a debug-level logger every
// exchange is logged with credentials redacted.
func NewHTTPTransport(opts HTTPTransportOptions) *HTTPTransport {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultRequestTimeout
	}
	base := opts.Base
	if base == nil {
		base = http.DefaultTransport
	}
	if opts.Logger != nil && opts.Logger.DebugEnabled() {
		base = logging.NewLoggingRoundTripper(base, logging.NewHTTPLogger(opts.Logger), opts.LogBodies)
	}
	return &HTTPTransport{
		client: &http.Client{Timeout: timeout, Transport: base},
	}
}

// Execute implements Transport
func (t *HTTPTransport) Execute(ctx context.Context, method, rawURL string, opts request.Options) (*Response, error) {
	if len(opts.Query) > 0 {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("invalid request URL: %w", err)
		}
		q := u.Query()
		for k, vs := range opts.Query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
		rawURL = u.String()
	}

	var body io.Reader
	if opts.Body != nil {
		data, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}
