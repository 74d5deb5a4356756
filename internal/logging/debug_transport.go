package logging

import (
	"net/http"
	"time"
)

// DebugTransport logs each HTTP round trip at DEBUG level. Credentials are
// never logged: only the request line, the presence of an Authorization
// header, the status and the duration.
type DebugTransport struct {
	base   http.RoundTripper
	logger Logger
}

// NewDebugTransport wraps base; a nil base means http.DefaultTransport
func NewDebugTransport(base http.RoundTripper, logger Logger) *DebugTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &DebugTransport{base: base, logger: logger}
}

func (t *DebugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	logger := t.logger.WithContext(req.Context())
	u := *req.URL
	u.User = nil

	logger.Debug("HTTP request",
		F("method", req.Method),
		F("url", u.String()),
		F("contentLength", req.ContentLength),
		F("auth", req.Header.Get("Authorization") != ""),
	)

	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	duration := time.Since(start)
	if err != nil {
		logger.Debug("HTTP request failed",
			F("url", u.String()),
			F("duration_ms", duration.Milliseconds()),
			F("error", err.Error()),
		)
		return nil, err
	}

	logger.Debug("HTTP response",
		F("url", u.String()),
		F("status", resp.StatusCode),
		F("duration_ms", duration.Milliseconds()),
		F("server", resp.Header.Get("X-ClickHouse-Server-Display-Name")),
	)
	return resp, nil
}
