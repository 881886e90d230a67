package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/hiring-agent/internal/db"
	"github.com/jonathan/hiring-agent/internal/embedding"
	"github.com/jonathan/hiring-agent/internal/extraction"
	"github.com/jonathan/hiring-agent/internal/logger"
	"github.com/jonathan/hiring-agent/internal/parsing"
	"github.com/jonathan/hiring-agent/internal/types"
)

// DefaultWorkAuthorization is stored when an import does not say otherwise.
const DefaultWorkAuthorization = "Unknown"

// Extractor recovers text and structured fields from documents.
type Extractor interface {
	Extract(ctx context.Context, filename string, data []byte) (*extraction.Result, error)
}

// JobExtractor recovers skills and experience from job posting text.
type JobExtractor interface {
	ExtractJobDescription(ctx context.Context, text string) (*extraction.Result, error)
}

// ImportStore persists imported records.
type ImportStore interface {
	InsertCandidate(ctx context.Context, input *db.CandidateInput) (uuid.UUID, error)
	InsertJobDescription(ctx context.Context, input *db.JobDescriptionInput) (uuid.UUID, error)
}

// Importer turns documents into stored candidates and job descriptions with
// embeddings.
type Importer struct {
	extractor Extractor
	embedder  embedding.Embedder
	store     ImportStore
	logger    *zap.Logger
}

// NewImporter creates an importer. extractor may be nil when only job
// descriptions are imported.
func NewImporter(extractor Extractor, embedder embedding.Embedder, store ImportStore, log *zap.Logger) *Importer {
	return &Importer{extractor: extractor, embedder: embedder, store: store, logger: logger.OrNop(log)}
}

// CandidateImport is the result of importing a resume.
type CandidateImport struct {
	CandidateID uuid.UUID          `json:"candidate_id"`
	Extracted   *extraction.Result `json:"extracted_data"`
}

// JobImport describes a job description to import. Empty skill lists and a
// zero minimum are inferred from RawText.
type JobImport struct {
	Title              string   `json:"title" yaml:"title"`
	Location           string   `json:"location" yaml:"location"`
	RequiredSkills     []string `json:"required_skills" yaml:"required_skills"`
	OptionalSkills     []string `json:"optional_skills" yaml:"optional_skills"`
	MinYearsExperience float64  `json:"min_years_experience" yaml:"min_years_experience"`
	RawText            string   `json:"raw_text" yaml:"raw_text"`
}

// ImportCandidate extracts a resume, embeds its text and stores the candidate.
// Nothing is stored when extraction or embedding fails.
func (i *Importer) ImportCandidate(ctx context.Context, filename string, data []byte, workAuthorization string) (*CandidateImport, error) {
	if i.extractor == nil {
		return nil, extraction.ErrProviderUnavailable
	}
	extracted, err := i.extractor.Extract(ctx, filename, data)
	if err != nil {
		return nil, err
	}

	vec, err := i.embed(ctx, extracted.Text)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(workAuthorization) == "" {
		workAuthorization = DefaultWorkAuthorization
	}

	id, err := i.store.InsertCandidate(ctx, &db.CandidateInput{
		Name:                 extracted.Name,
		Email:                extracted.Email,
		Location:             extracted.Location,
		WorkAuthorization:    workAuthorization,
		Skills:               parsing.NormalizeSkills(extracted.Skills),
		TotalYearsExperience: extracted.ExperienceYears,
		RawText:              extracted.Text,
		StructuredData:       extracted.StructuredData,
		Embedding:            vec,
	})
	if err != nil {
		return nil, err
	}

	i.logger.Info("candidate imported",
		zap.String(logger.FieldCandidateID, id.String()),
		zap.String("file", filename),
		zap.Int("skills", len(extracted.Skills)))

	return &CandidateImport{CandidateID: id, Extracted: extracted}, nil
}

// ImportJob stores a job description with its embedding.
func (i *Importer) ImportJob(ctx context.Context, job *JobImport) (uuid.UUID, error) {
	if job == nil || strings.TrimSpace(job.Title) == "" {
		return uuid.Nil, &types.ValidationError{Field: "title", Message: "is required"}
	}
	if strings.TrimSpace(job.RawText) == "" {
		return uuid.Nil, &types.ValidationError{Field: "raw_text", Message: "is required"}
	}

	required := job.RequiredSkills
	minYears := job.MinYearsExperience
	if len(required) == 0 || minYears <= 0 {
		skills, years, err := i.inferJobRequirements(ctx, job.RawText)
		if err != nil {
			return uuid.Nil, err
		}
		if len(required) == 0 {
			required = skills
		}
		if minYears <= 0 {
			minYears = years
		}
	}

	vec, err := i.embed(ctx, job.Title+"\n"+job.RawText)
	if err != nil {
		return uuid.Nil, err
	}

	id, err := i.store.InsertJobDescription(ctx, &db.JobDescriptionInput{
		Title:              job.Title,
		Location:           job.Location,
		RequiredSkills:     parsing.NormalizeSkills(required),
		OptionalSkills:     parsing.NormalizeSkills(job.OptionalSkills),
		MinYearsExperience: minYears,
		RawText:            job.RawText,
		Embedding:          vec,
	})
	if err != nil {
		return uuid.Nil, err
	}

	i.logger.Info("job description imported",
		zap.String(logger.FieldJobID, id.String()),
		zap.String("title", job.Title))

	return id, nil
}

// inferJobRequirements asks the extraction service when it supports job
// postings and falls back to the local vocabulary otherwise.
func (i *Importer) inferJobRequirements(ctx context.Context, text string) ([]string, float64, error) {
	if jobExtractor, ok := i.extractor.(JobExtractor); ok {
		result, err := jobExtractor.ExtractJobDescription(ctx, text)
		if err != nil {
			return nil, 0, err
		}
		return result.Skills, result.ExperienceYears, nil
	}
	return parsing.ExtractSkills(text), parsing.ExtractYearsExperience(text), nil
}

func (i *Importer) embed(ctx context.Context, text string) ([]float32, error) {
	if i.embedder == nil {
		return nil, nil
	}
	vec, err := i.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed text: %w", err)
	}
	return vec, nil
}
