package client

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the REST API root used when none is configured.
const DefaultBaseURL = "http://localhost:5000/api"

// Config holds configuration for the record store client.
type Config struct {
	// BaseURL is the root of the REST API.
	// Example: "http://localhost:5000/api"
	BaseURL string

	// Timeout bounds every request.
	// Default: 30s
	Timeout time.Duration

	// Transport is an optional custom RoundTripper, mostly for tests.
	Transport http.RoundTripper
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithBaseURL sets the REST API root.
func WithBaseURL(baseURL string) ConfigOption {
	return func(c *Config) {
		c.BaseURL = baseURL
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithTransport sets a custom RoundTripper.
func WithTransport(transport http.RoundTripper) ConfigOption {
	return func(c *Config) {
		c.Transport = transport
	}
}

// DefaultConfig returns a Config pointing at a local server.
func DefaultConfig() *Config {
	return &Config{
		BaseURL: DefaultBaseURL,
		Timeout: 30 * time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithBaseURL("http://inspections.local:5000"),
//	    WithTimeout(10 * time.Second),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It adds the /api suffix to the base URL if missing.
func (c *Config) Normalize() {
	c.BaseURL = strings.TrimSpace(c.BaseURL)
	if c.BaseURL != "" && !strings.HasSuffix(c.BaseURL, "/api") {
		c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
		c.BaseURL = c.BaseURL + "/api"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.BaseURL == "" {
		return errors.New("client config: BaseURL is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("client config: BaseURL must be an absolute URL")
	}
	if c.Timeout <= 0 {
		return errors.New("client config: Timeout must be positive")
	}
	return nil
}
