package platform

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/notehub/pkg/core"
)

// options holds the internal configuration for a NoteHub client.
type options struct {
	repository  core.Repository
	logger      *slog.Logger
	httpClient  *http.Client
	eventBuffer int

	config     Config
	configPath string
	workDir    string
	getenv     func(string) string
	configSet  bool
	overrides  []func(*Config)
}

// Option defines a functional option for configuring the client.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		config: DefaultConfig(),
	}
}

func apply(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRepository injects a custom core.Repository (e.g. a mock).
// The REST adapter and the token check are skipped.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithConfig uses cfg as is, skipping file discovery and the environment.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.config = cfg
		o.configSet = true
	}
}

// WithConfigFile loads the given YAML file instead of searching for one.
func WithConfigFile(path string) Option {
	return func(o *options) {
		o.configPath = path
	}
}

// WithWorkDir sets the directory where config discovery starts.
func WithWorkDir(dir string) Option {
	return func(o *options) {
		o.workDir = dir
	}
}

// WithEnv replaces os.Getenv for config resolution.
func WithEnv(getenv func(string) string) Option {
	return func(o *options) {
		o.getenv = getenv
	}
}

// WithToken sets the API token, overriding the environment.
func WithToken(token string) Option {
	return override(func(c *Config) { c.Token = token })
}

// WithBaseURL sets the API base URL.
func WithBaseURL(url string) Option {
	return override(func(c *Config) { c.BaseURL = url })
}

// WithPageSize sets the number of notes per page.
func WithPageSize(n int) Option {
	return override(func(c *Config) { c.PageSize = n })
}

// WithDebounce sets the search debounce window.
func WithDebounce(d time.Duration) Option {
	return override(func(c *Config) { c.Debounce = d })
}

// WithStaleTime sets how long a fetched page counts as fresh.
func WithStaleTime(d time.Duration) Option {
	return override(func(c *Config) { c.StaleTime = d })
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return override(func(c *Config) { c.Timeout = d })
}

// WithSearchParam sets the query parameter carrying the search term.
func WithSearchParam(name string) Option {
	return override(func(c *Config) { c.SearchParam = name })
}

// WithBreaker configures the circuit breaker around API calls.
// Zero maxFailures disables tripping.
func WithBreaker(maxFailures uint32, openTimeout time.Duration) Option {
	return override(func(c *Config) {
		c.Breaker = BreakerConfig{MaxFailures: maxFailures, OpenTimeout: openTimeout}
	})
}

// WithHTTPClient sets the HTTP client used by the REST adapter.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithEventBuffer sets the per-watcher buffer of the service event stream.
// Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.eventBuffer = size
	}
}

// override records a change applied after file and environment resolution.
func override(fn func(*Config)) Option {
	return func(o *options) {
		o.overrides = append(o.overrides, fn)
	}
}
