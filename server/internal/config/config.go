package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/passmeter/passmeter/pkg/analysis"
	"github.com/passmeter/passmeter/pkg/generator"
	"github.com/passmeter/passmeter/pkg/i18n"
	"github.com/passmeter/passmeter/server/internal/policy"
	"github.com/passmeter/passmeter/server/internal/session"
)

// Default values for the server configuration.
const (
	DefaultHTTPPort     = 8080
	DefaultRateLimitRPS = 20.0
	DefaultRateBurst    = 40
	DefaultRateIdleTTL  = 10 * time.Minute
	DefaultWSTick       = 250 * time.Millisecond
	DefaultLogLevel     = "info"
)

// Config is the root of config.yaml.
type Config struct {
	Log       LogConfig       `yaml:"log"`
	Server    ServerConfig    `yaml:"server"`
	Evaluator EvaluatorConfig `yaml:"evaluator"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Policy    PolicyConfig    `yaml:"policy"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	// Level is one of: debug | info | warn | error.
	Level string `yaml:"level"`
}

// SlogLevel converts Level to a slog.Level.
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ServerConfig holds the HTTP-facing settings.
type ServerConfig struct {
	// HTTPPort is the port the REST API and WebSocket hub listen on (default 8080).
	HTTPPort int `yaml:"http_port"`

	// Auth configures how the server authenticates REST and WebSocket clients.
	Auth AuthConfig `yaml:"auth"`

	// RateLimit bounds requests per client address.
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	// Sessions controls REST session retention.
	Sessions SessionsConfig `yaml:"sessions"`

	// WS tunes the live-field hub.
	WS WSConfig `yaml:"ws"`
}

// AuthConfig controls client authentication.
type AuthConfig struct {
	// Mode is one of: apikey | none.
	Mode string `yaml:"mode"`

	// KeyEnv is the name of the environment variable that holds the expected API key.
	// Used when Mode == "apikey".
	KeyEnv string `yaml:"key_env"`

	// Header is the HTTP header to read the key from.
	// Defaults to "x-api-key" if empty.
	Header string `yaml:"header"`
}

// Key returns the expected API key resolved from the environment.
func (a AuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// EffectiveHeader returns the configured header name, or the default "x-api-key".
func (a AuthConfig) EffectiveHeader() string {
	if a.Header != "" {
		return a.Header
	}
	return "x-api-key"
}

// RateLimitConfig is a per-client token bucket.
type RateLimitConfig struct {
	// Enabled turns limiting on. Defaults to true.
	Enabled *bool `yaml:"enabled"`

	// RequestsPerSecond is the sustained rate.
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// Burst is the bucket size.
	Burst int `yaml:"burst"`

	// IdleTTL drops a client's bucket after this long without requests.
	IdleTTL time.Duration `yaml:"idle_ttl"`
}

// IsEnabled reports whether rate limiting is on.
func (r RateLimitConfig) IsEnabled() bool { return r.Enabled == nil || *r.Enabled }

// SessionsConfig controls REST session retention.
type SessionsConfig struct {
	// TTL is how long an idle session survives (default 30m).
	TTL time.Duration `yaml:"ttl"`
}

// WSConfig tunes the WebSocket hub.
type WSConfig struct {
	// Tick is how often the hub checks connected fields for expired reveals.
	Tick time.Duration `yaml:"tick"`
}

// EvaluatorConfig holds the user-facing evaluator behaviour.
type EvaluatorConfig struct {
	// Locale is used when a request carries neither a locale nor Accept-Language.
	Locale string `yaml:"locale"`

	// GeneratorLength is the length of generated passwords when a request
	// does not specify one.
	GeneratorLength int `yaml:"generator_length"`

	// CelebrationCooldown suppresses repeat celebrations (default 5s).
	CelebrationCooldown time.Duration `yaml:"celebration_cooldown"`

	// RevealDuration is how long a generated password stays visible (default 3s).
	RevealDuration time.Duration `yaml:"reveal_duration"`
}

// SessionOptions converts the evaluator timings to controller options.
func (e EvaluatorConfig) SessionOptions() session.Options {
	return session.Options{
		CelebrationCooldown: e.CelebrationCooldown,
		RevealDuration:      e.RevealDuration,
	}
}

// AnalysisConfig sizes the zxcvbn estimate cache.
type AnalysisConfig struct {
	CacheSize int           `yaml:"cache_size"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`
}

// PolicyConfig holds acceptance rules.
type PolicyConfig struct {
	Rules []policy.Rule `yaml:"rules"`
}

// Load reads and parses the config file at path.
// Missing fields are filled with sensible defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("server config: read %q: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML config data, applying defaults and validation.
func Parse(data []byte) (*Config, error) {
	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("server config: parse yaml: %w", err)
	}
	if cfg.Policy.Rules == nil {
		cfg.Policy.Rules = policy.DefaultRules()
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("server config: %w", err)
	}
	return cfg, nil
}

// Defaults returns a Config pre-populated with default values. The server
// runs on it when no config file exists.
func Defaults() *Config {
	return &Config{
		Log: LogConfig{Level: DefaultLogLevel},
		Server: ServerConfig{
			HTTPPort: DefaultHTTPPort,
			RateLimit: RateLimitConfig{
				RequestsPerSecond: DefaultRateLimitRPS,
				Burst:             DefaultRateBurst,
				IdleTTL:           DefaultRateIdleTTL,
			},
			Sessions: SessionsConfig{TTL: session.DefaultTTL},
			WS:       WSConfig{Tick: DefaultWSTick},
		},
		Evaluator: EvaluatorConfig{
			Locale:              i18n.DefaultLocale,
			GeneratorLength:     generator.DefaultLength,
			CelebrationCooldown: session.DefaultCelebrationCooldown,
			RevealDuration:      session.DefaultRevealDuration,
		},
		Analysis: AnalysisConfig{
			CacheSize: analysis.DefaultCacheSize,
			CacheTTL:  analysis.DefaultCacheTTL,
		},
		Policy: PolicyConfig{Rules: policy.DefaultRules()},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error", "":
	default:
		return fmt.Errorf("log.level %q unknown: want debug|info|warn|error", cfg.Log.Level)
	}
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", cfg.Server.HTTPPort)
	}
	switch cfg.Server.Auth.Mode {
	case "apikey", "none", "":
	default:
		return fmt.Errorf("server.auth.mode %q unknown: want apikey|none", cfg.Server.Auth.Mode)
	}
	if cfg.Server.Auth.Mode == "apikey" && cfg.Server.Auth.KeyEnv == "" {
		return fmt.Errorf("server.auth.key_env is required when mode is apikey")
	}
	rl := cfg.Server.RateLimit
	if rl.IsEnabled() && (rl.RequestsPerSecond <= 0 || rl.Burst <= 0) {
		return fmt.Errorf("server.rate_limit: requests_per_second and burst must be positive")
	}
	if cfg.Server.Sessions.TTL < 0 {
		return fmt.Errorf("server.sessions.ttl must not be negative")
	}
	if cfg.Server.WS.Tick <= 0 {
		return fmt.Errorf("server.ws.tick must be positive")
	}
	if n := cfg.Evaluator.GeneratorLength; n < generator.MinLength || n > generator.MaxLength {
		return fmt.Errorf("evaluator.generator_length %d is out of range [%d, %d]",
			n, generator.MinLength, generator.MaxLength)
	}
	if cfg.Evaluator.CelebrationCooldown < 0 || cfg.Evaluator.RevealDuration < 0 {
		return fmt.Errorf("evaluator: durations must not be negative")
	}
	if cfg.Analysis.CacheSize < 0 || cfg.Analysis.CacheTTL < 0 {
		return fmt.Errorf("analysis: cache_size and cache_ttl must not be negative")
	}
	if err := policy.Validate(cfg.Policy.Rules); err != nil {
		return fmt.Errorf("policy: %w", err)
	}
	return nil
}
