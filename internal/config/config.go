// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultConfigName is looked up in the working directory when no --config is given.
const DefaultConfigName = "hiring-agent"

// Embedding provider names
const (
	EmbeddingProviderOllama = "ollama"
	EmbeddingProviderGemini = "gemini"
	EmbeddingProviderNone   = "none"
)

// Outreach writer names
const (
	OutreachWriterTemplate = "template"
	OutreachWriterGemini   = "gemini"
)

// Config is the full application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Embeddings EmbeddingsConfig `mapstructure:"embeddings"`
	Extraction ExtractionConfig `mapstructure:"extraction"`
	Agent      AgentConfig      `mapstructure:"agent"`
	Outreach   OutreachConfig   `mapstructure:"outreach"`
	Events     EventsConfig     `mapstructure:"events"`
	Log        LogConfig        `mapstructure:"log"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port int `mapstructure:"port"`
	// AuthSecret enables bearer-token auth when non-empty.
	AuthSecret string          `mapstructure:"auth-secret"`
	TokenTTL   time.Duration   `mapstructure:"token-ttl"`
	RateLimit  RateLimitConfig `mapstructure:"rate-limit"`
}

// RateLimitConfig configures per-client request limits.
type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests-per-minute"`
	GoalsPerHour      int  `mapstructure:"goals-per-hour"`
	Burst             int  `mapstructure:"burst"`
}

// DatabaseConfig configures the PostgreSQL repository.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// EmbeddingsConfig configures the embedding provider behind similarity scoring.
type EmbeddingsConfig struct {
	Provider string        `mapstructure:"provider"`
	BaseURL  string        `mapstructure:"base-url"`
	Model    string        `mapstructure:"model"`
	APIKey   string        `mapstructure:"api-key"`
	Timeout  time.Duration `mapstructure:"timeout"`
	CacheTTL time.Duration `mapstructure:"cache-ttl"`
}

// ExtractionConfig configures the document text-extraction service.
type ExtractionConfig struct {
	BaseURL string        `mapstructure:"base-url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// AgentConfig tunes the goal-execution pipeline.
type AgentConfig struct {
	Workers       int           `mapstructure:"workers"`
	OutreachLimit int           `mapstructure:"outreach-limit"`
	FollowUpDelay time.Duration `mapstructure:"follow-up-delay"`
	SearchLimit   int           `mapstructure:"search-limit"`
	RecentLimit   int           `mapstructure:"recent-limit"`
	RankPoolSize  int           `mapstructure:"rank-pool-size"`
	RankLimit     int           `mapstructure:"rank-limit"`
	RunRetention  time.Duration `mapstructure:"run-retention"`
}

// OutreachConfig selects how outreach messages are drafted.
type OutreachConfig struct {
	Writer string `mapstructure:"writer"`
	// Model overrides the default Gemini drafting model.
	Model  string `mapstructure:"model"`
	APIKey string `mapstructure:"api-key"`
}

// EventsConfig configures action event publishing.
type EventsConfig struct {
	NATSURL string `mapstructure:"nats-url"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	JSON  bool   `mapstructure:"json"`
	Debug bool   `mapstructure:"debug"`
	File  string `mapstructure:"file"`
}

// NewViper returns a viper instance with defaults and environment bindings applied.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.auth-secret", "")
	v.SetDefault("server.token-ttl", 24*time.Hour)
	v.SetDefault("server.rate-limit.enabled", true)
	v.SetDefault("server.rate-limit.requests-per-minute", 600)
	v.SetDefault("server.rate-limit.goals-per-hour", 30)
	v.SetDefault("server.rate-limit.burst", 20)

	v.SetDefault("database.url", "")

	v.SetDefault("embeddings.provider", EmbeddingProviderOllama)
	v.SetDefault("embeddings.base-url", "http://localhost:11434")
	v.SetDefault("embeddings.model", "nomic-embed-text")
	v.SetDefault("embeddings.api-key", "")
	v.SetDefault("embeddings.timeout", 30*time.Second)
	v.SetDefault("embeddings.cache-ttl", 10*time.Minute)

	v.SetDefault("extraction.base-url", "http://localhost:8001")
	v.SetDefault("extraction.timeout", 60*time.Second)

	v.SetDefault("agent.workers", 4)
	v.SetDefault("agent.outreach-limit", 5)
	v.SetDefault("agent.follow-up-delay", 72*time.Hour)
	v.SetDefault("agent.search-limit", 50)
	v.SetDefault("agent.recent-limit", 20)
	v.SetDefault("agent.rank-pool-size", 200)
	v.SetDefault("agent.rank-limit", 50)
	v.SetDefault("agent.run-retention", time.Hour)

	v.SetDefault("outreach.writer", OutreachWriterTemplate)
	v.SetDefault("outreach.model", "")
	v.SetDefault("outreach.api-key", "")

	v.SetDefault("events.nats-url", "")

	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)
	v.SetDefault("log.file", "")

	v.SetEnvPrefix("HIRING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Conventional variable names used by deployment tooling.
	_ = v.BindEnv("database.url", "HIRING_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("embeddings.api-key", "HIRING_EMBEDDINGS_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("outreach.api-key", "HIRING_OUTREACH_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("server.auth-secret", "HIRING_SERVER_AUTH_SECRET", "JWT_SECRET")
	_ = v.BindEnv("events.nats-url", "HIRING_EVENTS_NATS_URL", "NATS_URL")

	return v
}

// Load reads configuration from path (or the default config file when path is
// empty and one exists), environment variables and defaults, then validates it.
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = NewViper()
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(DefaultConfigName)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// It does not require a database URL; commands that need one call RequireDatabase.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.AuthSecret != "" && c.Server.TokenTTL < time.Hour {
		return fmt.Errorf("config error: 'server.token-ttl' must be at least 1h, got %s", c.Server.TokenTTL)
	}
	if c.Server.RateLimit.Enabled && (c.Server.RateLimit.RequestsPerMinute <= 0 || c.Server.RateLimit.GoalsPerHour <= 0) {
		return fmt.Errorf("config error: rate limits must be positive when rate limiting is enabled")
	}

	switch c.Embeddings.Provider {
	case EmbeddingProviderOllama:
		if c.Embeddings.BaseURL == "" {
			return fmt.Errorf("config error: 'embeddings.base-url' is required for the ollama provider")
		}
	case EmbeddingProviderGemini:
		if c.Embeddings.APIKey == "" {
			return fmt.Errorf("config error: 'embeddings.api-key' is required for the gemini provider")
		}
	case EmbeddingProviderNone:
	default:
		return fmt.Errorf("config error: unknown embeddings provider %q", c.Embeddings.Provider)
	}

	switch c.Outreach.Writer {
	case OutreachWriterTemplate:
	case OutreachWriterGemini:
		if c.Outreach.APIKey == "" {
			return fmt.Errorf("config error: 'outreach.api-key' is required for the gemini writer")
		}
	default:
		return fmt.Errorf("config error: unknown outreach writer %q", c.Outreach.Writer)
	}

	if c.Agent.Workers < 1 {
		return fmt.Errorf("config error: 'agent.workers' must be at least 1")
	}
	if c.Agent.OutreachLimit < 1 {
		return fmt.Errorf("config error: 'agent.outreach-limit' must be at least 1")
	}
	if c.Agent.FollowUpDelay <= 0 {
		return fmt.Errorf("config error: 'agent.follow-up-delay' must be positive")
	}
	if c.Agent.SearchLimit < 1 || c.Agent.RecentLimit < 1 || c.Agent.RankPoolSize < 1 || c.Agent.RankLimit < 1 {
		return fmt.Errorf("config error: agent search and rank limits must be positive")
	}
	if c.Agent.RunRetention <= 0 {
		return fmt.Errorf("config error: 'agent.run-retention' must be positive")
	}

	return nil
}

// RequireDatabase returns an error when no database URL is configured.
func (c *Config) RequireDatabase() error {
	if c.Database.URL == "" {
		return fmt.Errorf("database URL is required (set DATABASE_URL or database.url)")
	}
	return nil
}
