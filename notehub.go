package notehub

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/notehub/internal/platform"
	"github.com/aretw0/notehub/pkg/app"
	"github.com/aretw0/notehub/pkg/core"
)

// Version exposes the version of the library.
// See version.go for the implementation using go:embed.

// --- Types ---

// Note is a public alias for the domain note.
type Note = core.Note

// Draft is a public alias for the input of a create call.
type Draft = core.Draft

// Controller is a public alias for the application controller.
type Controller = app.Controller

// Config is a public alias for the resolved client configuration.
type Config = platform.Config

// --- Configuration ---

// Option defines a functional option for configuring the client.
type Option = platform.Option

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository injects a custom storage adapter (e.g. a mock).
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithConfig uses cfg as is, skipping file discovery and the environment.
func WithConfig(cfg Config) Option {
	return platform.WithConfig(cfg)
}

// WithConfigFile loads the given YAML file instead of searching for one.
func WithConfigFile(path string) Option {
	return platform.WithConfigFile(path)
}

// WithToken sets the API token, overriding NOTEHUB_TOKEN.
func WithToken(token string) Option {
	return platform.WithToken(token)
}

// WithBaseURL sets the API base URL.
func WithBaseURL(url string) Option {
	return platform.WithBaseURL(url)
}

// WithPageSize sets the number of notes per page.
func WithPageSize(n int) Option {
	return platform.WithPageSize(n)
}

// WithDebounce sets the search debounce window.
func WithDebounce(d time.Duration) Option {
	return platform.WithDebounce(d)
}

// WithStaleTime sets how long a fetched page counts as fresh.
func WithStaleTime(d time.Duration) Option {
	return platform.WithStaleTime(d)
}

// WithSearchParam sets the query parameter carrying the search term.
func WithSearchParam(name string) Option {
	return platform.WithSearchParam(name)
}

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(client *http.Client) Option {
	return platform.WithHTTPClient(client)
}

// WithEventBuffer sets the buffer of each Watch subscriber.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// --- Factory ---

// New creates a configured controller. Call Start to issue the first read
// and Close when done.
func New(opts ...Option) (*Controller, error) {
	return platform.New(opts...)
}

// NewService creates the domain service without the view layer.
func NewService(opts ...Option) (*core.Service, error) {
	return platform.NewService(opts...)
}

// LoadConfig resolves defaults, the nearest notehub.yaml and the environment.
func LoadConfig(opts ...Option) (Config, error) {
	return platform.ResolveConfig(opts...)
}

// DefaultConfig returns the built-in configuration without a token.
func DefaultConfig() Config {
	return platform.DefaultConfig()
}
