package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/hiring-agent/internal/agent"
	"github.com/jonathan/hiring-agent/internal/embedding"
	"github.com/jonathan/hiring-agent/internal/observability"
	"github.com/jonathan/hiring-agent/internal/ranking"
	"github.com/jonathan/hiring-agent/internal/schemas"
	"github.com/jonathan/hiring-agent/internal/types"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank stored candidates against a stored job description",
	RunE:  runRank,
}

var (
	rankJobID   string
	rankLimit   int
	rankFilters types.RankFilters
	rankOutFile string
	rankVerbose bool
)

func init() {
	rankCmd.Flags().StringVar(&rankJobID, "job-id", "", "Job description to rank against (required)")
	rankCmd.Flags().IntVar(&rankLimit, "limit", 0, "Maximum number of results (default agent.rank-limit)")
	rankCmd.Flags().StringVar(&rankFilters.Location, "location", "", "Only candidates whose location contains this text")
	rankCmd.Flags().Float64Var(&rankFilters.MinYearsExperience, "min-years", 0, "Only candidates with at least this many years of experience")
	rankCmd.Flags().StringVar(&rankFilters.WorkAuthorization, "work-auth", "", "Only candidates with this work authorization")
	rankCmd.Flags().StringVarP(&rankOutFile, "out", "o", "", "Path to output JSON file (default stdout)")
	rankCmd.Flags().BoolVarP(&rankVerbose, "verbose", "v", false, "Print a readable summary to stderr")
	_ = rankCmd.MarkFlagRequired("job-id")

	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, _ []string) error {
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

	// similarity only reads stored vectors, so no embedder is needed
	provider := embedding.NewProvider(nil, database, cfg.Embeddings.CacheTTL)
	service := agent.NewService(agent.Dependencies{
		Repo:   database,
		Ranker: ranking.NewEngine(provider, log),
	}, agent.Options{
		RankPoolSize: cfg.Agent.RankPoolSize,
		RankLimit:    cfg.Agent.RankLimit,
	}, log)

	resp, err := service.Rank(ctx, &types.RankRequest{JobID: rankJobID, Filters: rankFilters, Limit: rankLimit})
	if err != nil {
		return err
	}
	if resp.Job == nil {
		return fmt.Errorf("job description not found: %s", rankJobID)
	}

	if err := schemas.ValidateDocument(schemas.RankResponse, resp); err != nil {
		return fmt.Errorf("rank response does not validate against schema: %w", err)
	}

	if rankVerbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintRankedCandidates(resp.Results)
	}
	return writeJSON(cmd.OutOrStdout(), rankOutFile, resp)
}
