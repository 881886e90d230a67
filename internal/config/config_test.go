package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, EmbeddingProviderOllama, cfg.Embeddings.Provider)
	assert.Equal(t, "nomic-embed-text", cfg.Embeddings.Model)
	assert.Equal(t, 5, cfg.Agent.OutreachLimit)
	assert.Equal(t, 72*time.Hour, cfg.Agent.FollowUpDelay)
	assert.Equal(t, 50, cfg.Agent.SearchLimit)
	assert.Equal(t, 20, cfg.Agent.RecentLimit)
	assert.Equal(t, 200, cfg.Agent.RankPoolSize)
	assert.Equal(t, 50, cfg.Agent.RankLimit)
	assert.Equal(t, time.Hour, cfg.Agent.RunRetention)
	assert.Equal(t, OutreachWriterTemplate, cfg.Outreach.Writer)
}

func TestLoad_YAMLFile(t *testing.T) {
	content := `
server:
  port: 9090
  token-ttl: 48h
database:
  url: postgres://agent@localhost/hiring
embeddings:
  provider: gemini
  api-key: test-key
agent:
  workers: 2
  follow-up-delay: 24h
log:
  json: true
`
	path := filepath.Join(t.TempDir(), "hiring-agent.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(NewViper(), path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 48*time.Hour, cfg.Server.TokenTTL)
	assert.Equal(t, "postgres://agent@localhost/hiring", cfg.Database.URL)
	assert.Equal(t, EmbeddingProviderGemini, cfg.Embeddings.Provider)
	assert.Equal(t, "test-key", cfg.Embeddings.APIKey)
	assert.Equal(t, 2, cfg.Agent.Workers)
	assert.Equal(t, 24*time.Hour, cfg.Agent.FollowUpDelay)
	assert.True(t, cfg.Log.JSON)
	// untouched keys keep their defaults
	assert.Equal(t, 5, cfg.Agent.OutreachLimit)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env@localhost/hiring")
	t.Setenv("HIRING_AGENT_WORKERS", "8")
	t.Setenv("HIRING_SERVER_PORT", "7070")

	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)

	assert.Equal(t, "postgres://env@localhost/hiring", cfg.Database.URL)
	assert.Equal(t, 8, cfg.Agent.Workers)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load(NewViper(), "/nonexistent/path/hiring-agent.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [oops"), 0644))

	cfg, err := Load(NewViper(), path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func validConfig() Config {
	return Config{
		Server:     ServerConfig{Port: 8080, TokenTTL: 24 * time.Hour, RateLimit: RateLimitConfig{Enabled: true, RequestsPerMinute: 10, GoalsPerHour: 1, Burst: 1}},
		Embeddings: EmbeddingsConfig{Provider: EmbeddingProviderOllama, BaseURL: "http://localhost:11434"},
		Agent: AgentConfig{
			Workers: 1, OutreachLimit: 5, FollowUpDelay: 72 * time.Hour,
			SearchLimit: 50, RecentLimit: 20, RankPoolSize: 200, RankLimit: 50,
			RunRetention: time.Hour,
		},
		Outreach: OutreachConfig{Writer: OutreachWriterTemplate},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"short token ttl with secret", func(c *Config) { c.Server.AuthSecret = "s"; c.Server.TokenTTL = time.Minute }, "token-ttl"},
		{"gemini without key", func(c *Config) { c.Embeddings.Provider = EmbeddingProviderGemini }, "api-key"},
		{"unknown provider", func(c *Config) { c.Embeddings.Provider = "openai" }, "unknown embeddings provider"},
		{"provider none", func(c *Config) { c.Embeddings.Provider = EmbeddingProviderNone }, ""},
		{"zero workers", func(c *Config) { c.Agent.Workers = 0 }, "agent.workers"},
		{"zero outreach", func(c *Config) { c.Agent.OutreachLimit = 0 }, "outreach-limit"},
		{"zero follow-up", func(c *Config) { c.Agent.FollowUpDelay = 0 }, "follow-up-delay"},
		{"zero rank pool", func(c *Config) { c.Agent.RankPoolSize = 0 }, "limits must be positive"},
		{"zero run retention", func(c *Config) { c.Agent.RunRetention = 0 }, "run-retention"},
		{"gemini writer without key", func(c *Config) { c.Outreach.Writer = OutreachWriterGemini }, "outreach.api-key"},
		{"gemini writer with key", func(c *Config) { c.Outreach.Writer = OutreachWriterGemini; c.Outreach.APIKey = "k" }, ""},
		{"unknown writer", func(c *Config) { c.Outreach.Writer = "gpt" }, "unknown outreach writer"},
		{"rate limits disabled may be zero", func(c *Config) { c.Server.RateLimit = RateLimitConfig{} }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestRequireDatabase(t *testing.T) {
	cfg := validConfig()
	assert.Error(t, cfg.RequireDatabase())

	cfg.Database.URL = "postgres://localhost/hiring"
	assert.NoError(t, cfg.RequireDatabase())
}
