package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/hiring-agent/internal/config"
	"github.com/jonathan/hiring-agent/internal/db"
	"github.com/jonathan/hiring-agent/internal/embedding"
	"github.com/jonathan/hiring-agent/internal/events"
	"github.com/jonathan/hiring-agent/internal/llm"
	"github.com/jonathan/hiring-agent/internal/pipeline"
)

// commandContext returns the command's context, or Background when the
// command was not started through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// openDatabase connects to the configured database.
func openDatabase(ctx context.Context, cfg *config.Config) (*db.DB, error) {
	if err := cfg.RequireDatabase(); err != nil {
		return nil, err
	}
	database, err := db.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return database, nil
}

// newEmbedder builds the configured embedding backend. The returned embedder
// is nil for the "none" provider; the close func is always safe to call.
func newEmbedder(ctx context.Context, cfg config.EmbeddingsConfig) (embedding.Embedder, func(), error) {
	switch cfg.Provider {
	case config.EmbeddingProviderOllama:
		return embedding.NewOllamaEmbedder(cfg.BaseURL, cfg.Model, cfg.Timeout), func() {}, nil
	case config.EmbeddingProviderGemini:
		model := cfg.Model
		if model == "" || model == "nomic-embed-text" {
			model = embedding.DefaultGeminiModel
		}
		gemini, err := embedding.NewGeminiEmbedder(ctx, cfg.APIKey, model)
		if err != nil {
			return nil, nil, err
		}
		return gemini, func() { _ = gemini.Close() }, nil
	case config.EmbeddingProviderNone:
		return nil, func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown embeddings provider %q", cfg.Provider)
}

// newPublisher connects to NATS when a URL is configured and otherwise
// discards events.
func newPublisher(ctx context.Context, cfg config.EventsConfig, log *zap.Logger) events.Publisher {
	if cfg.NATSURL == "" {
		return events.Noop{}
	}
	publisher, err := events.NewNATSPublisher(ctx, cfg.NATSURL, log)
	if err != nil {
		log.Warn("action events disabled", zap.String("nats_url", cfg.NATSURL), zap.Error(err))
		return events.Noop{}
	}
	return publisher
}

// newMessageWriter builds the outreach drafting model. A nil writer means
// every message uses the built-in template.
func newMessageWriter(ctx context.Context, cfg config.OutreachConfig) (pipeline.MessageWriter, func(), error) {
	if cfg.Writer != config.OutreachWriterGemini {
		return nil, func() {}, nil
	}
	llmConfig := llm.DefaultConfig()
	if cfg.Model != "" {
		llmConfig = llmConfig.WithModel(llm.TierLite, cfg.Model)
	}
	client, err := llm.NewGeminiClient(ctx, llmConfig, cfg.APIKey)
	if err != nil {
		return nil, nil, err
	}
	return llm.NewOutreachWriter(client), func() { _ = client.Close() }, nil
}
