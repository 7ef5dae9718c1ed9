package httputil

import (
	"net/http"
	"time"
)

// DefaultTimeout bounds every outbound weather API call end to end,
// independent of the retry and circuit-breaker layers above it.
const DefaultTimeout = 30 * time.Second

const userAgent = "weather-dashboard/1.0"

// NewClient returns the HTTP client used for provider calls: standard timeout
// and a stable User-Agent on every request.
func NewClient() *http.Client {
	return &http.Client{
		Timeout:   DefaultTimeout,
		Transport: &userAgentTransport{base: http.DefaultTransport},
	}
}

type userAgentTransport struct {
	base http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", userAgent)
	}
	return t.base.RoundTrip(req)
}
