package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration.
type EnvConfig struct {
	// DataDir is the data directory path.
	// Env: DATA_DIR (default: ~/.wbreviews)
	DataDir string `envconfig:"DATA_DIR"`

	// DBURL is the database connection URL.
	// Env: DB_URL (default: sqlite:///{data_dir}/wbreviews.db)
	DBURL string `envconfig:"DB_URL"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// BatchSize is the bulk-insert chunk size.
	// Env: BATCH_SIZE (default: 1000)
	BatchSize int `envconfig:"BATCH_SIZE" default:"1000"`

	// Enricher selects the sentiment backend (sql or openai).
	// Env: ENRICHER (default: sql)
	Enricher string `envconfig:"ENRICHER" default:"sql"`

	// Endpoint configures the remote classification service.
	Endpoint EndpointEnv `envconfig:"ENRICHMENT_ENDPOINT"`
}

// EndpointEnv holds environment configuration for the classifier endpoint.
type EndpointEnv struct {
	// BaseURL is the base URL for the endpoint.
	// Env: ENRICHMENT_ENDPOINT_BASE_URL
	BaseURL string `envconfig:"BASE_URL"`

	// Model is the model identifier.
	// Env: ENRICHMENT_ENDPOINT_MODEL
	Model string `envconfig:"MODEL"`

	// APIKey is the API key for authentication.
	// Env: ENRICHMENT_ENDPOINT_API_KEY
	APIKey string `envconfig:"API_KEY"`

	// Timeout is the request timeout in seconds.
	// Env: ENRICHMENT_ENDPOINT_TIMEOUT (default: 60)
	Timeout float64 `envconfig:"TIMEOUT" default:"60"`

	// MaxRetries is the maximum number of retries.
	// Env: ENRICHMENT_ENDPOINT_MAX_RETRIES (default: 5)
	MaxRetries int `envconfig:"MAX_RETRIES" default:"5"`
}

// IsConfigured returns true if the endpoint has a model set.
func (e EndpointEnv) IsConfigured() bool {
	return e.Model != ""
}

// ToEndpoint converts EndpointEnv to an Endpoint.
func (e EndpointEnv) ToEndpoint() Endpoint {
	return NewEndpointWithOptions(
		WithBaseURL(e.BaseURL),
		WithModel(e.Model),
		WithAPIKey(e.APIKey),
		WithEndpointTimeout(time.Duration(e.Timeout*float64(time.Second))),
		WithEndpointMaxRetries(e.MaxRetries),
	)
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// ToAppConfig converts EnvConfig to AppConfig.
func (e EnvConfig) ToAppConfig() AppConfig {
	cfg := NewAppConfig()

	if e.DataDir != "" {
		cfg = cfg.Apply(WithDataDir(e.DataDir))
	}
	if e.DBURL != "" {
		cfg = cfg.Apply(WithDBURL(e.DBURL))
	}
	if e.LogLevel != "" {
		cfg = cfg.Apply(WithLogLevel(e.LogLevel))
	}
	if e.LogFormat != "" {
		cfg = cfg.Apply(WithLogFormat(parseLogFormat(e.LogFormat)))
	}
	cfg = cfg.Apply(WithBatchSize(e.BatchSize))
	if e.Enricher != "" {
		cfg = cfg.Apply(WithEnricher(parseEnricherKind(e.Enricher)))
	}
	if e.Endpoint.IsConfigured() {
		cfg = cfg.Apply(WithEndpoint(e.Endpoint.ToEndpoint()))
	}

	return cfg
}

func parseLogFormat(s string) LogFormat {
	if strings.EqualFold(s, string(LogFormatJSON)) {
		return LogFormatJSON
	}
	return LogFormatPretty
}

func parseEnricherKind(s string) EnricherKind {
	if strings.EqualFold(s, string(EnricherOpenAI)) {
		return EnricherOpenAI
	}
	return EnricherSQL
}
