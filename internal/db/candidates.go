package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/hiring-agent/internal/types"
)

// CandidateInput holds the fields for importing a candidate.
type CandidateInput struct {
	Name                 string
	Email                string
	Location             string
	WorkAuthorization    string
	Skills               []string
	TotalYearsExperience float64
	RawText              string
	StructuredData       map[string]any
	Embedding            []float32
}

const candidateColumns = `c.id, c.name, COALESCE(c.email, ''), COALESCE(c.location, ''),
	COALESCE(c.work_authorization, ''), c.skills, c.total_years_experience, c.raw_text, c.created_at`

func scanCandidate(row pgx.Row) (*types.CandidateSummary, error) {
	var c types.CandidateSummary
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Location, &c.WorkAuthorization,
		&c.Skills, &c.TotalYearsExperience, &c.RawText, &c.CreatedAt); err != nil {
		return nil, err
	}
	if c.Skills == nil {
		c.Skills = []string{}
	}
	return &c, nil
}

func collectCandidates(rows pgx.Rows) ([]types.CandidateSummary, error) {
	defer rows.Close()

	candidates := []types.CandidateSummary{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read candidates: %w", err)
	}
	return candidates, nil
}

// InsertCandidate stores a candidate with an optional embedding.
func (db *DB) InsertCandidate(ctx context.Context, input *CandidateInput) (uuid.UUID, error) {
	embedding, err := vectorParam(input.Embedding)
	if err != nil {
		return uuid.Nil, err
	}

	var structured []byte
	if input.StructuredData != nil {
		structured, err = json.Marshal(input.StructuredData)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to marshal structured data: %w", err)
		}
	}

	skills := input.Skills
	if skills == nil {
		skills = []string{}
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO candidates (name, email, location, work_authorization, skills,
		                         total_years_experience, raw_text, structured_data, embedding)
		 VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7, $8, $9::text::vector)
		 RETURNING id`,
		input.Name, input.Email, input.Location, input.WorkAuthorization, skills,
		input.TotalYearsExperience, input.RawText, structured, embedding,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert candidate: %w", err)
	}
	return id, nil
}

// GetCandidate retrieves a candidate by ID. Returns (nil, nil) when not found.
func (db *DB) GetCandidate(ctx context.Context, id uuid.UUID) (*types.CandidateSummary, error) {
	c, err := scanCandidate(db.pool.QueryRow(ctx,
		`SELECT `+candidateColumns+` FROM candidates c WHERE c.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	return c, nil
}

// NearestCandidates returns candidates with an embedding ordered by cosine
// distance to the job's embedding. Empty when the job has no embedding.
func (db *DB) NearestCandidates(ctx context.Context, jobID uuid.UUID, limit int) ([]types.CandidateSummary, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+candidateColumns+`
		 FROM candidates c
		 JOIN job_descriptions jd ON jd.id = $1
		 WHERE c.embedding IS NOT NULL AND jd.embedding IS NOT NULL
		 ORDER BY c.embedding <=> jd.embedding ASC, c.id ASC
		 LIMIT $2`,
		jobID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query nearest candidates: %w", err)
	}
	return collectCandidates(rows)
}

// NearestCandidatesToVector returns candidates ordered by cosine distance to vec.
func (db *DB) NearestCandidatesToVector(ctx context.Context, vec []float32, limit int) ([]types.CandidateSummary, error) {
	param, err := vectorParam(vec)
	if err != nil {
		return nil, err
	}
	if param == nil {
		return []types.CandidateSummary{}, nil
	}

	rows, err := db.pool.Query(ctx,
		`SELECT `+candidateColumns+`
		 FROM candidates c
		 WHERE c.embedding IS NOT NULL
		 ORDER BY c.embedding <=> $1::text::vector ASC, c.id ASC
		 LIMIT $2`,
		param, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query nearest candidates: %w", err)
	}
	return collectCandidates(rows)
}

// SearchCandidatesByKeywords returns candidates whose raw text contains any
// keyword (case-insensitive) or whose skills overlap the given skills, newest first.
func (db *DB) SearchCandidatesByKeywords(ctx context.Context, keywords, skills []string, limit int) ([]types.CandidateSummary, error) {
	patterns := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k != "" {
			patterns = append(patterns, "%"+k+"%")
		}
	}
	if skills == nil {
		skills = []string{}
	}

	rows, err := db.pool.Query(ctx,
		`SELECT `+candidateColumns+`
		 FROM candidates c
		 WHERE c.raw_text ILIKE ANY($1) OR c.skills && $2
		 ORDER BY c.created_at DESC
		 LIMIT $3`,
		patterns, skills, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search candidates: %w", err)
	}
	return collectCandidates(rows)
}

// RecentCandidates returns the most recently created candidates.
func (db *DB) RecentCandidates(ctx context.Context, limit int) ([]types.CandidateSummary, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+candidateColumns+` FROM candidates c ORDER BY c.created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent candidates: %w", err)
	}
	return collectCandidates(rows)
}

// CandidateEmbedding returns a candidate's stored embedding, or nil when absent.
func (db *DB) CandidateEmbedding(ctx context.Context, id uuid.UUID) ([]float32, error) {
	var text *string
	err := db.pool.QueryRow(ctx,
		`SELECT embedding::text FROM candidates WHERE id = $1`, id).Scan(&text)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate embedding: %w", err)
	}
	return parseVector(text)
}

// CountContactedCandidates returns the number of distinct candidates with an outreach action.
func (db *DB) CountContactedCandidates(ctx context.Context) (int, error) {
	var count int
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(DISTINCT result->>'candidate_id') FROM agent_actions WHERE action_type = $1`,
		string(types.ActionSendOutreach),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count contacted candidates: %w", err)
	}
	return count, nil
}
