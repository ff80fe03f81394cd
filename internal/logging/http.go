package logging

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
)

const redacted = "[REDACTED]"

// HTTPLogger writes request/response pairs of an HTTP client at debug level
type HTTPLogger struct {
	logger      *Logger
	maxBodySize int
}

// NewHTTPLogger creates a new HTTP logger
func NewHTTPLogger(logger *Logger) *HTTPLogger {
	return &HTTPLogger{
		logger:      logger,
		maxBodySize: 10000,
	}
}

// SetMaxBodySize sets the maximum body size to log (in bytes)
func (h *HTTPLogger) SetMaxBodySize(size int) {
	h.maxBodySize = size
}

// LogRequest logs an outgoing request. Credentials are redacted.
func (h *HTTPLogger) LogRequest(req *http.Request, body []byte) {
	fields := Fields{
		"method":  req.Method,
		"url":     req.URL.String(),
		"headers": headerFields(req.Header, true),
	}
	h.addBody(fields, body, true)
	h.logger.Debug("HTTP request", fields)
}

// LogResponse logs a received response
func (h *HTTPLogger) LogResponse(resp *http.Response, body []byte, duration time.Duration) {
	fields := Fields{
		"status":      resp.StatusCode,
		"duration_ms": duration.Milliseconds(),
		"headers":     headerFields(resp.Header, false),
	}
	h.addBody(fields, body, false)
	h.logger.Debug("HTTP response", fields)
}

// LogError logs a transport failure
func (h *HTTPLogger) LogError(err error, req *http.Request) {
	h.logger.Error("HTTP error", err, Fields{
		"method": req.Method,
		"url":    req.URL.String(),
	})
}

func (h *HTTPLogger) addBody(fields Fields, body []byte, redact bool) {
	if len(body) == 0 {
		return
	}
	fields["body_size"] = len(body)
	var parsed interface{}
	if json.Unmarshal(body, &parsed) == nil {
		if redact {
			parsed = redactSensitiveFields(parsed)
		}
		fields["body"] = parsed
		return
	}
	fields["body"] = truncateBody(body, h.maxBodySize)
}

// RoundTripperWrapper wraps an http.RoundTripper with logging
type RoundTripperWrapper struct {
	wrapped http.RoundTripper
	logger  *HTTPLogger
	logBody bool
}

// NewLoggingRoundTripper creates a new logging round tripper
func NewLoggingRoundTripper(wrapped http.RoundTripper, logger *HTTPLogger, logBody bool) *RoundTripperWrapper {
	if wrapped == nil {
		wrapped = http.DefaultTransport
	}
	return &RoundTripperWrapper{
		wrapped: wrapped,
		logger:  logger,
		logBody: logBody,
	}
}

// RoundTrip implements http.RoundTripper
func (rt *RoundTripperWrapper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	var reqBody []byte
	if rt.logBody && req.Body != nil {
		reqBody, _ = io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewReader(reqBody))
	}
	rt.logger.LogRequest(req, reqBody)

	resp, err := rt.wrapped.RoundTrip(req)
	if err != nil {
		rt.logger.LogError(err, req)
		return nil, err
	}

	var respBody []byte
	if rt.logBody {
		respBody, _ = io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		resp.Body = io.NopCloser(bytes.NewReader(respBody))
	}
	rt.logger.LogResponse(resp, respBody, time.Since(start))

	return resp, nil
}

func headerFields(h http.Header, redact bool) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		switch {
		case redact && isSensitiveHeader(k):
			out[k] = redacted
		case len(v) > 0:
			out[k] = v[0]
		}
	}
	return out
}

// isSensitiveHeader checks if a header should be redacted
func isSensitiveHeader(name string) bool {
	switch strings.ToLower(name) {
	case "authorization", "api-key", "x-api-key", "x-auth-token", "cookie", "set-cookie":
		return true
	}
	return false
}

func truncateBody(body []byte, maxSize int) string {
	if len(body) <= maxSize {
		return string(body)
	}
	return string(body[:maxSize]) + "...[truncated]"
}

var sensitiveKeys = []string{"api_key", "apikey", "api-key", "password", "secret", "token", "authorization"}

// redactSensitiveFields walks decoded JSON and masks credential-looking keys
func redactSensitiveFields(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		result := make(map[string]interface{}, len(v))
		for k, val := range v {
			if isSensitiveKey(k) {
				result[k] = redacted
				continue
			}
			result[k] = redactSensitiveFields(val)
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = redactSensitiveFields(item)
		}
		return result
	default:
		return data
	}
}

func isSensitiveKey(k string) bool {
	lower := strings.ToLower(k)
	for _, s := range sensitiveKeys {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
