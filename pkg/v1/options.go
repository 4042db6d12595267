package v1

import (
	"log/slog"
	"net/http"
)

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	dir        string
	httpClient *http.Client
	logger     *slog.Logger
}

// WithDir sets the package directory. Defaults to the working directory.
func WithDir(dir string) Option {
	return func(c *clientConfig) {
		c.dir = dir
	}
}

// WithHTTPClient sets the client used for registry lookups.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}
