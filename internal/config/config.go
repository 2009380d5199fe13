// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Default configuration values.
const (
	DefaultLogLevel            = "INFO"
	DefaultBatchSize           = 1000
	DefaultEnricherKind        = EnricherSQL
	DefaultEndpointTimeout     = 60 * time.Second
	DefaultEndpointMaxRetries  = 5
	DefaultEndpointInitialWait = 2 * time.Second
	DefaultEndpointBackoff     = 2.0
)

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// EnricherKind selects the sentiment enrichment backend.
type EnricherKind string

// EnricherKind values.
const (
	// EnricherSQL invokes the in-database NLP procedure per review.
	EnricherSQL EnricherKind = "sql"
	// EnricherOpenAI classifies review text via a chat-completion endpoint.
	EnricherOpenAI EnricherKind = "openai"
)

// Endpoint configures the remote classification service used by the
// openai enricher.
type Endpoint struct {
	baseURL     string
	model       string
	apiKey      string
	timeout     time.Duration
	maxRetries  int
	initialWait time.Duration
	backoff     float64
}

// NewEndpoint creates an Endpoint with defaults.
func NewEndpoint() Endpoint {
	return Endpoint{
		timeout:     DefaultEndpointTimeout,
		maxRetries:  DefaultEndpointMaxRetries,
		initialWait: DefaultEndpointInitialWait,
		backoff:     DefaultEndpointBackoff,
	}
}

// BaseURL returns the base URL for the endpoint.
func (e Endpoint) BaseURL() string { return e.baseURL }

// Model returns the model identifier.
func (e Endpoint) Model() string { return e.model }

// APIKey returns the API key.
func (e Endpoint) APIKey() string { return e.apiKey }

// Timeout returns the request timeout.
func (e Endpoint) Timeout() time.Duration { return e.timeout }

// MaxRetries returns the maximum retry count.
func (e Endpoint) MaxRetries() int { return e.maxRetries }

// InitialWait returns the initial retry delay.
func (e Endpoint) InitialWait() time.Duration { return e.initialWait }

// Backoff returns the retry backoff multiplier.
func (e Endpoint) Backoff() float64 { return e.backoff }

// IsConfigured returns true if the endpoint has required configuration.
func (e Endpoint) IsConfigured() bool {
	return e.model != ""
}

// EndpointOption is a functional option for Endpoint.
type EndpointOption func(*Endpoint)

// WithBaseURL sets the base URL.
func WithBaseURL(url string) EndpointOption {
	return func(e *Endpoint) { e.baseURL = url }
}

// WithModel sets the model.
func WithModel(model string) EndpointOption {
	return func(e *Endpoint) { e.model = model }
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) EndpointOption {
	return func(e *Endpoint) { e.apiKey = key }
}

// WithEndpointTimeout sets the request timeout.
func WithEndpointTimeout(d time.Duration) EndpointOption {
	return func(e *Endpoint) { e.timeout = d }
}

// WithEndpointMaxRetries sets the maximum retry count.
func WithEndpointMaxRetries(n int) EndpointOption {
	return func(e *Endpoint) { e.maxRetries = n }
}

// NewEndpointWithOptions creates an Endpoint with functional options.
func NewEndpointWithOptions(opts ...EndpointOption) Endpoint {
	e := NewEndpoint()
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// AppConfig holds the main application configuration.
type AppConfig struct {
	dataDir   string
	dbURL     string
	logLevel  string
	logFormat LogFormat
	batchSize int
	enricher  EnricherKind
	endpoint  *Endpoint
}

// DefaultDataDir returns the default data directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".wbreviews"
	}
	return filepath.Join(home, ".wbreviews")
}

// NewAppConfig creates a new AppConfig with defaults.
func NewAppConfig() AppConfig {
	dataDir := DefaultDataDir()
	return AppConfig{
		dataDir:   dataDir,
		dbURL:     "sqlite:///" + filepath.Join(dataDir, "wbreviews.db"),
		logLevel:  DefaultLogLevel,
		logFormat: LogFormatPretty,
		batchSize: DefaultBatchSize,
		enricher:  DefaultEnricherKind,
	}
}

// DataDir returns the data directory path.
func (c AppConfig) DataDir() string { return c.dataDir }

// DBURL returns the database connection URL.
func (c AppConfig) DBURL() string { return c.dbURL }

// LogLevel returns the log level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// BatchSize returns the bulk-insert chunk size.
func (c AppConfig) BatchSize() int { return c.batchSize }

// Enricher returns the selected enrichment backend.
func (c AppConfig) Enricher() EnricherKind { return c.enricher }

// Endpoint returns the classification endpoint config, or nil.
func (c AppConfig) Endpoint() *Endpoint { return c.endpoint }

// EnsureDataDir creates the data directory if it doesn't exist.
func (c AppConfig) EnsureDataDir() error {
	if err := os.MkdirAll(c.dataDir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	return nil
}

// AppConfigOption is a functional option for AppConfig.
type AppConfigOption func(*AppConfig)

// WithDataDir sets the data directory.
func WithDataDir(dir string) AppConfigOption {
	return func(c *AppConfig) {
		c.dataDir = dir
		if c.dbURL == "" || filepath.Base(c.dbURL) == "wbreviews.db" {
			c.dbURL = "sqlite:///" + filepath.Join(dir, "wbreviews.db")
		}
	}
}

// WithDBURL sets the database URL.
func WithDBURL(url string) AppConfigOption {
	return func(c *AppConfig) { c.dbURL = url }
}

// WithLogLevel sets the log level.
func WithLogLevel(level string) AppConfigOption {
	return func(c *AppConfig) { c.logLevel = level }
}

// WithLogFormat sets the log format.
func WithLogFormat(format LogFormat) AppConfigOption {
	return func(c *AppConfig) { c.logFormat = format }
}

// WithBatchSize sets the bulk-insert chunk size.
func WithBatchSize(n int) AppConfigOption {
	return func(c *AppConfig) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

// WithEnricher sets the enrichment backend.
func WithEnricher(kind EnricherKind) AppConfigOption {
	return func(c *AppConfig) { c.enricher = kind }
}

// WithEndpoint sets the classification endpoint.
func WithEndpoint(e Endpoint) AppConfigOption {
	return func(c *AppConfig) { c.endpoint = &e }
}

// NewAppConfigWithOptions creates an AppConfig with functional options.
func NewAppConfigWithOptions(opts ...AppConfigOption) AppConfig {
	c := NewAppConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Apply returns a new AppConfig with the given options applied.
func (c AppConfig) Apply(opts ...AppConfigOption) AppConfig {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
