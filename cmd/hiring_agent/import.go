package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/hiring-agent/internal/agent"
	"github.com/jonathan/hiring-agent/internal/extraction"
	"github.com/jonathan/hiring-agent/internal/schemas"
)

var importCandidateCmd = &cobra.Command{
	Use:   "import-candidate",
	Short: "Extract a resume and store it as a candidate",
	Long:  "Send a resume (.pdf, .txt or .md) to the extraction service, embed its text and store the candidate.",
	RunE:  runImportCandidate,
}

var importJobCmd = &cobra.Command{
	Use:   "import-job",
	Short: "Store a job description from a YAML or JSON file",
	Long:  "Validate a job description file against the job_import schema, infer missing skills and experience, embed it and store it.",
	RunE:  runImportJob,
}

var (
	importFile     string
	importWorkAuth string
	importLocal    bool
)

func init() {
	importCandidateCmd.Flags().StringVarP(&importFile, "file", "f", "", "Resume file to import (required)")
	importCandidateCmd.Flags().StringVar(&importWorkAuth, "work-auth", agent.DefaultWorkAuthorization, "Candidate work authorization")
	_ = importCandidateCmd.MarkFlagRequired("file")

	importJobCmd.Flags().StringVarP(&importFile, "file", "f", "", "Job description file, .yaml or .json (required)")
	importJobCmd.Flags().BoolVar(&importLocal, "local", false, "Infer skills locally instead of asking the extraction service")
	_ = importJobCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(importCandidateCmd, importJobCmd)
}

func runImportCandidate(cmd *cobra.Command, _ []string) error {
	if !extraction.SupportedFormat(importFile) {
		return &extraction.UnsupportedFormatError{Filename: filepath.Base(importFile)}
	}
	data, err := os.ReadFile(importFile)
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}

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

	embedder, closeEmbedder, err := newEmbedder(ctx, cfg.Embeddings)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}
	defer closeEmbedder()

	client := extraction.NewClient(cfg.Extraction.BaseURL, cfg.Extraction.Timeout)
	if err := client.Health(ctx); err != nil {
		return fmt.Errorf("extraction service at %s: %w", cfg.Extraction.BaseURL, err)
	}
	importer := agent.NewImporter(client, embedder, database, log)

	result, err := importer.ImportCandidate(ctx, filepath.Base(importFile), data, importWorkAuth)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), "", result)
}

func runImportJob(cmd *cobra.Command, _ []string) error {
	job, err := loadJobImport(importFile)
	if err != nil {
		return err
	}

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

	embedder, closeEmbedder, err := newEmbedder(ctx, cfg.Embeddings)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}
	defer closeEmbedder()

	var extractor agent.Extractor
	if !importLocal {
		extractor = extraction.NewClient(cfg.Extraction.BaseURL, cfg.Extraction.Timeout)
	}
	importer := agent.NewImporter(extractor, embedder, database, log)

	id, err := importer.ImportJob(ctx, job)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), "", map[string]string{"job_id": id.String()})
}

// loadJobImport reads a job description file and validates it against the
// job_import schema.
func loadJobImport(path string) (*agent.JobImport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job file: %w", err)
	}

	var job agent.JobImport
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&job); err != nil {
			return nil, fmt.Errorf("failed to parse job file: %w", err)
		}
	case ".json":
		if err := schemas.ValidateBytes(schemas.JobImport, data); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &job); err != nil {
			return nil, fmt.Errorf("failed to parse job file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported job file %s: use .yaml, .yml or .json", filepath.Base(path))
	}

	if err := schemas.ValidateDocument(schemas.JobImport, job); err != nil {
		return nil, err
	}
	return &job, nil
}
