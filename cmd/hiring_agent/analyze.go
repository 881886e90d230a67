package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/hiring-agent/internal/observability"
	"github.com/jonathan/hiring-agent/internal/parsing"
	"github.com/jonathan/hiring-agent/internal/schemas"
	"github.com/jonathan/hiring-agent/internal/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Build a candidate search strategy from free text or a stored job description",
	Long:  "Infer skills, keywords, minimum experience, seniority and locations and print the search strategy as JSON that validates against the search_strategy schema.",
	RunE:  runAnalyze,
}

var (
	analyzeText    string
	analyzeInFile  string
	analyzeJobID   string
	analyzeOutFile string
	analyzeVerbose bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeText, "text", "t", "", "Free text describing the role")
	analyzeCmd.Flags().StringVarP(&analyzeInFile, "in", "i", "", "Path to a text file describing the role")
	analyzeCmd.Flags().StringVar(&analyzeJobID, "job-id", "", "Stored job description to build the strategy from")
	analyzeCmd.Flags().StringVarP(&analyzeOutFile, "out", "o", "", "Path to output JSON file (default stdout)")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print a readable summary to stderr")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	sources := 0
	for _, set := range []bool{analyzeText != "", analyzeInFile != "", analyzeJobID != ""} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		return fmt.Errorf("exactly one of --text, --in or --job-id is required")
	}

	var strategy types.SearchStrategy
	switch {
	case analyzeJobID != "":
		s, err := strategyForJob(cmd, analyzeJobID)
		if err != nil {
			return err
		}
		strategy = s
	case analyzeInFile != "":
		content, err := os.ReadFile(analyzeInFile)
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}
		s, err := strategyForText(string(content))
		if err != nil {
			return err
		}
		strategy = s
	default:
		s, err := strategyForText(analyzeText)
		if err != nil {
			return err
		}
		strategy = s
	}

	if err := schemas.ValidateDocument(schemas.SearchStrategy, strategy); err != nil {
		return fmt.Errorf("strategy does not validate against schema: %w", err)
	}

	if analyzeVerbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintStrategy(&strategy)
	}
	return writeJSON(cmd.OutOrStdout(), analyzeOutFile, strategy)
}

func strategyForText(text string) (types.SearchStrategy, error) {
	if strings.TrimSpace(text) == "" {
		return types.SearchStrategy{}, fmt.Errorf("role description is empty")
	}
	return parsing.StrategyFromText(text), nil
}

func strategyForJob(cmd *cobra.Command, rawID string) (types.SearchStrategy, error) {
	jobID, err := uuid.Parse(rawID)
	if err != nil {
		return types.SearchStrategy{}, fmt.Errorf("invalid job-id: %w", err)
	}

	cfg, _, err := loadApp()
	if err != nil {
		return types.SearchStrategy{}, err
	}
	ctx := commandContext(cmd)
	database, err := openDatabase(ctx, cfg)
	if err != nil {
		return types.SearchStrategy{}, err
	}
	defer database.Close()

	jd, err := database.GetJobDescription(ctx, jobID)
	if err != nil {
		return types.SearchStrategy{}, err
	}
	if jd == nil {
		return types.SearchStrategy{}, fmt.Errorf("job description not found: %s", jobID)
	}
	return parsing.StrategyFromJob(jd), nil
}
