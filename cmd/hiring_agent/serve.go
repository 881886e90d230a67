package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/hiring-agent/internal/actionlog"
	"github.com/jonathan/hiring-agent/internal/agent"
	"github.com/jonathan/hiring-agent/internal/dispatch"
	"github.com/jonathan/hiring-agent/internal/embedding"
	"github.com/jonathan/hiring-agent/internal/feedback"
	"github.com/jonathan/hiring-agent/internal/pipeline"
	"github.com/jonathan/hiring-agent/internal/ranking"
	"github.com/jonathan/hiring-agent/internal/search"
	"github.com/jonathan/hiring-agent/internal/server"
	"github.com/jonathan/hiring-agent/internal/server/ratelimit"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that accepts hiring goals, runs them in the background and exposes ranking, feedback and status endpoints.`,
	RunE:  runServe,
}

var serveMigrate bool

func init() {
	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().Int("workers", 4, "Maximum concurrent goal runs")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Apply the database schema before serving")
	_ = v.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	_ = v.BindPFlag("agent.workers", serveCmd.Flags().Lookup("workers"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadApp()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	if serveMigrate {
		if err := database.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	embedder, closeEmbedder, err := newEmbedder(ctx, cfg.Embeddings)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}
	defer closeEmbedder()

	messages, closeMessages, err := newMessageWriter(ctx, cfg.Outreach)
	if err != nil {
		return fmt.Errorf("failed to create outreach writer: %w", err)
	}
	defer closeMessages()

	publisher := newPublisher(ctx, cfg.Events, log)
	defer publisher.Close()

	provider := embedding.NewProvider(embedder, database, cfg.Embeddings.CacheTTL)
	engine := ranking.NewEngine(provider, log)
	actions := actionlog.New(database, publisher, log)

	runner := pipeline.NewRunner(pipeline.Dependencies{
		Goals:    database,
		Jobs:     database,
		Searcher: search.NewSearcher(database, cfg.Agent.SearchLimit, cfg.Agent.RecentLimit, log),
		Ranker:   engine,
		Actions:  actions,
		Messages: messages,
	}, pipeline.Options{
		OutreachLimit: cfg.Agent.OutreachLimit,
		FollowUpDelay: cfg.Agent.FollowUpDelay,
	}, log)

	dispatcher, err := dispatch.New(runner, cfg.Agent.Workers, log, dispatch.WithRetention(cfg.Agent.RunRetention))
	if err != nil {
		return fmt.Errorf("failed to start dispatcher: %w", err)
	}
	defer func() {
		if err := dispatcher.Close(); err != nil {
			log.Warn("dispatcher close failed", zap.Error(err))
		}
	}()

	service := agent.NewService(agent.Dependencies{
		Repo:     database,
		Runs:     dispatcher,
		Ranker:   engine,
		Actions:  actions,
		Feedback: feedback.NewLearner(database, log),
		Embedder: provider,
	}, agent.Options{
		RankPoolSize: cfg.Agent.RankPoolSize,
		RankLimit:    cfg.Agent.RankLimit,
	}, log)

	rl := cfg.Server.RateLimit
	srv := server.New(server.Config{
		Port:       cfg.Server.Port,
		AuthSecret: cfg.Server.AuthSecret,
		TokenTTL:   cfg.Server.TokenTTL,
		RateLimit:  ratelimit.NewConfig(rl.Enabled, rl.RequestsPerMinute, rl.GoalsPerHour, rl.Burst),
	}, service, log)
	defer srv.Close()

	log.Info("hiring agent starting",
		zap.String("agent_id", service.InstanceID()),
		zap.Int("port", cfg.Server.Port),
		zap.String("embeddings", cfg.Embeddings.Provider),
		zap.String("outreach_writer", cfg.Outreach.Writer),
		zap.Bool("auth", cfg.Server.AuthSecret != ""))

	if err := srv.Start(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := loadApp()
		if err != nil {
			return err
		}
		ctx := commandContext(cmd)

		database, err := openDatabase(ctx, cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		if err := database.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		log.Info("database schema applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
