package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/hiring-agent/internal/types"
)

// JobDescriptionInput holds the fields for importing a job description.
type JobDescriptionInput struct {
	Title              string
	Location           string
	RequiredSkills     []string
	OptionalSkills     []string
	MinYearsExperience float64
	RawText            string
	Embedding          []float32
}

const jobColumns = `id, title, COALESCE(location, ''), required_skills, optional_skills,
	min_years_experience, raw_text, embedding IS NOT NULL, created_at`

func scanJobDescription(row pgx.Row) (*types.JobDescription, error) {
	var jd types.JobDescription
	if err := row.Scan(&jd.ID, &jd.Title, &jd.Location, &jd.RequiredSkills, &jd.OptionalSkills,
		&jd.MinYearsExperience, &jd.RawText, &jd.HasEmbedding, &jd.CreatedAt); err != nil {
		return nil, err
	}
	if jd.RequiredSkills == nil {
		jd.RequiredSkills = []string{}
	}
	if jd.OptionalSkills == nil {
		jd.OptionalSkills = []string{}
	}
	return &jd, nil
}

// InsertJobDescription stores a job description with an optional embedding.
func (db *DB) InsertJobDescription(ctx context.Context, input *JobDescriptionInput) (uuid.UUID, error) {
	embedding, err := vectorParam(input.Embedding)
	if err != nil {
		return uuid.Nil, err
	}

	required, optional := input.RequiredSkills, input.OptionalSkills
	if required == nil {
		required = []string{}
	}
	if optional == nil {
		optional = []string{}
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO job_descriptions (title, location, required_skills, optional_skills,
		                               min_years_experience, raw_text, embedding)
		 VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7::text::vector)
		 RETURNING id`,
		input.Title, input.Location, required, optional, input.MinYearsExperience, input.RawText, embedding,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert job description: %w", err)
	}
	return id, nil
}

// GetJobDescription retrieves a job description by ID. Returns (nil, nil) when not found.
func (db *DB) GetJobDescription(ctx context.Context, id uuid.UUID) (*types.JobDescription, error) {
	jd, err := scanJobDescription(db.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM job_descriptions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job description: %w", err)
	}
	return jd, nil
}

// FindJobDescriptionForGoal returns the most recent job description whose
// title contains the goal title or whose raw text contains the goal
// description. This is a heuristic; (nil, nil) when nothing matches.
func (db *DB) FindJobDescriptionForGoal(ctx context.Context, title, description string) (*types.JobDescription, error) {
	jd, err := scanJobDescription(db.pool.QueryRow(ctx,
		`SELECT `+jobColumns+`
		 FROM job_descriptions
		 WHERE ($1 <> '' AND title ILIKE '%' || $1 || '%')
		    OR ($2 <> '' AND raw_text ILIKE '%' || $2 || '%')
		 ORDER BY created_at DESC
		 LIMIT 1`,
		title, description,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find job description: %w", err)
	}
	return jd, nil
}

// JobEmbedding returns a job description's stored embedding, or nil when absent.
func (db *DB) JobEmbedding(ctx context.Context, id uuid.UUID) ([]float32, error) {
	var text *string
	err := db.pool.QueryRow(ctx,
		`SELECT embedding::text FROM job_descriptions WHERE id = $1`, id).Scan(&text)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job embedding: %w", err)
	}
	return parseVector(text)
}
