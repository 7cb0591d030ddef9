package telepay

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTimeout bounds each request when no custom transport is supplied.
const DefaultTimeout = 60 * time.Second

// Option customizes a Client at construction.
type Option func(*Client)

// WithBaseURL overrides the API origin. Mainly useful for tests and proxies.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		c.baseURL = baseURL
	}
}

// WithTimeout overrides the default per-request timeout. Ignored when a
// custom transport is supplied.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithHTTPClient supplies a caller-owned *http.Client. The caller keeps
// responsibility for its timeout and pooling settings.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithDoer supplies any transport implementing Doer.
func WithDoer(d Doer) Option {
	return func(c *Client) {
		c.http = d
	}
}

// WithLogger enables SDK request logging. Disabled by default.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}
