package spoadmin

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// ClientOption configures a Client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	adminURL    string
	accessToken string
	httpClient  *http.Client
	timeout     time.Duration
	userAgent   string
	logger      logrus.FieldLogger
}

// WithAdminURL sets the tenant administration endpoint, e.g.
// https://tenant-admin.example.com.
func WithAdminURL(url string) ClientOption {
	return func(c *clientConfig) {
		c.adminURL = url
	}
}

// WithAccessToken sets the bearer token used for tenant admin calls.
func WithAccessToken(token string) ClientOption {
	return func(c *clientConfig) {
		c.accessToken = token
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the default request timeout.
// Note: This option is ignored when WithHTTPClient is used;
// set the timeout directly on the provided client instead.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *clientConfig) {
		c.timeout = d
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *clientConfig) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger used for client diagnostics, most notably the
// operation poller's transient-failure warnings.
func WithLogger(logger logrus.FieldLogger) ClientOption {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// RequestOption configures individual API requests.
type RequestOption func(*requestConfig)

type requestConfig struct {
	headers http.Header
}

func newRequestConfig() *requestConfig {
	return &requestConfig{
		headers: make(http.Header),
	}
}

func (r *requestConfig) apply(opts ...RequestOption) {
	for _, opt := range opts {
		opt(r)
	}
}

// WithHeader adds a custom header to a request.
func WithHeader(key, value string) RequestOption {
	return func(r *requestConfig) {
		r.headers.Set(key, value)
	}
}

// WithHeaders adds multiple custom headers to a request.
func WithHeaders(headers map[string]string) RequestOption {
	return func(r *requestConfig) {
		for k, v := range headers {
			r.headers.Set(k, v)
		}
	}
}

// WithRequestID sets the X-Request-ID header for tracing.
func WithRequestID(id string) RequestOption {
	return WithHeader("X-Request-ID", id)
}

// WaitOption configures a bounded wait on a long-running operation.
type WaitOption func(*waitConfig)

type waitConfig struct {
	maxPolls int
}

func (w *waitConfig) apply(opts ...WaitOption) {
	for _, opt := range opts {
		opt(w)
	}
}

// WithMaxPolls caps the number of refresh attempts performed after the
// initial one. When the cap is reached before the server reports
// completion, Wait returns a *TimeoutError.
func WithMaxPolls(n int) WaitOption {
	return func(w *waitConfig) {
		w.maxPolls = n
	}
}
