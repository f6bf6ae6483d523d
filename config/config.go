package config

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/jonwraymond/incidentops/observe"
	"github.com/jonwraymond/incidentops/secret"
)

// Prefix is prepended to every environment variable name.
const Prefix = "INCIDENTOPS_"

var (
	ErrMissingAddr      = errors.New("config: listen address is required")
	ErrMissingDBPath    = errors.New("config: database path is required")
	ErrInvalidTTL       = errors.New("config: cache ttl must be positive")
	ErrInvalidLimit     = errors.New("config: board limit must not be negative")
	ErrInvalidAttempts  = errors.New("config: classify attempts must be at least 1")
	ErrInvalidAuthRole  = errors.New("config: default role must be viewer or operator")
	ErrMissingGeminiKey = errors.New("config: gemini api key is required")
)

// Config is the process configuration.
type Config struct {
	Addr            string        `env:"ADDR"             envDefault:":8080"`
	DBPath          string        `env:"DB_PATH"          envDefault:"incidentops.db"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	Cache      CacheConfig      `envPrefix:"CACHE_"`
	Classifier ClassifierConfig `envPrefix:"CLASSIFY_"`
	Gemini     GeminiConfig     `envPrefix:"GEMINI_"`
	Auth       AuthConfig       `envPrefix:"AUTH_"`
	Observe    ObserveConfig    `envPrefix:"OBSERVE_"`

	BoardLimit int `env:"BOARD_LIMIT" envDefault:"0"`
}

// CacheConfig controls the incident cache.
type CacheConfig struct {
	TTL       time.Duration `env:"TTL"       envDefault:"24h"`
	Namespace string        `env:"NAMESPACE" envDefault:"incident_history"`
}

// ClassifierConfig controls the retry policy around the extraction call.
type ClassifierConfig struct {
	MaxAttempts int           `env:"MAX_ATTEMPTS" envDefault:"4"`
	BaseDelay   time.Duration `env:"BASE_DELAY"   envDefault:"1s"`
	JitterMax   time.Duration `env:"JITTER_MAX"   envDefault:"1s"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"0s"`
}

// GeminiConfig configures the classification service client.
type GeminiConfig struct {
	APIKey  string `env:"API_KEY"`
	Model   string `env:"MODEL"    envDefault:"gemini-3-flash-preview"`
	BaseURL string `env:"BASE_URL" envDefault:"https://generativelanguage.googleapis.com"`
}

// AuthConfig configures operator authentication. With no API keys and no
// JWT secret the API is open.
type AuthConfig struct {
	APIKeys     []string `env:"API_KEYS" envSeparator:","`
	JWTSecret   string   `env:"JWT_SECRET"`
	JWTIssuer   string   `env:"JWT_ISSUER"   envDefault:"incidentops"`
	JWTAudience string   `env:"JWT_AUDIENCE"`
	DefaultRole string   `env:"DEFAULT_ROLE" envDefault:"viewer"`
}

// Enabled reports whether any credential source is configured.
func (a AuthConfig) Enabled() bool {
	return len(a.APIKeys) > 0 || a.JWTSecret != ""
}

// ObserveConfig configures telemetry.
type ObserveConfig struct {
	ServiceName     string  `env:"SERVICE_NAME"     envDefault:"incidentops"`
	LogLevel        string  `env:"LOG_LEVEL"        envDefault:"info"`
	TracingExporter string  `env:"TRACING_EXPORTER" envDefault:"none"`
	SamplePct       float64 `env:"SAMPLE_PCT"       envDefault:"1.0"`
	MetricsExporter string  `env:"METRICS_EXPORTER" envDefault:"prometheus"`
}

// Observer converts the settings into an observe.Config.
func (o ObserveConfig) Observer(version string) observe.Config {
	return observe.Config{
		ServiceName: o.ServiceName,
		Version:     version,
		Tracing: observe.TracingConfig{
			Enabled:   o.TracingExporter != "none",
			Exporter:  o.TracingExporter,
			SamplePct: o.SamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  o.MetricsExporter != "none",
			Exporter: o.MetricsExporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: true,
			Level:   o.LogLevel,
		},
	}
}

// Load parses the process environment.
func Load() (Config, error) {
	return parse(env.Options{Prefix: Prefix})
}

// LoadFrom parses the given variables instead of the process environment.
// Keys include the INCIDENTOPS_ prefix.
func LoadFrom(environ map[string]string) (Config, error) {
	return parse(env.Options{Prefix: Prefix, Environment: environ})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	return cfg, nil
}

// Resolve replaces secret references in the secret-bearing fields.
func (c *Config) Resolve(ctx context.Context, r *secret.Resolver) error {
	fields := map[string]*string{
		"gemini api key": &c.Gemini.APIKey,
		"jwt secret":     &c.Auth.JWTSecret,
	}
	if err := r.ResolveFields(ctx, fields); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	keys, err := r.ResolveSlice(ctx, c.Auth.APIKeys)
	if err != nil {
		return fmt.Errorf("config: api keys: %w", err)
	}
	c.Auth.APIKeys = keys
	return nil
}

// Validate checks the configuration. requireGemini is false for commands
// that never call the classification service.
func (c *Config) Validate(requireGemini bool) error {
	if c.Addr == "" {
		return ErrMissingAddr
	}
	if c.DBPath == "" {
		return ErrMissingDBPath
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidTTL, c.Cache.TTL)
	}
	if c.BoardLimit < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidLimit, c.BoardLimit)
	}
	if c.Classifier.MaxAttempts < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidAttempts, c.Classifier.MaxAttempts)
	}
	if !slices.Contains([]string{"viewer", "operator"}, c.Auth.DefaultRole) {
		return fmt.Errorf("%w: %q", ErrInvalidAuthRole, c.Auth.DefaultRole)
	}
	if requireGemini && c.Gemini.APIKey == "" {
		return ErrMissingGeminiKey
	}
	obs := c.Observe.Observer("")
	if err := obs.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
