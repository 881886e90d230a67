package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// VectorStore loads stored embeddings. Implementations return (nil, nil)
// when the record exists without an embedding or does not exist.
type VectorStore interface {
	JobEmbedding(ctx context.Context, jobID uuid.UUID) ([]float32, error)
	CandidateEmbedding(ctx context.Context, candidateID uuid.UUID) ([]float32, error)
}

// Provider answers similarity queries from stored vectors and embeds new text.
type Provider struct {
	embedder Embedder
	store    VectorStore
	vectors  *cache.Cache
}

// NewProvider creates a provider. embedder may be nil when only stored vectors
// are compared; Embed then returns ErrProviderUnavailable.
func NewProvider(embedder Embedder, store VectorStore, cacheTTL time.Duration) *Provider {
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &Provider{
		embedder: embedder,
		store:    store,
		vectors:  cache.New(cacheTTL, 2*cacheTTL),
	}
}

// Embed returns the embedding for text.
func (p *Provider) Embed(ctx context.Context, text string) ([]float32, error) {
	if p.embedder == nil {
		return nil, ErrProviderUnavailable
	}
	return p.embedder.Embed(ctx, text)
}

// Similarity returns the cosine similarity between a job's and a candidate's
// stored embeddings, clamped to [0, 1]. A missing embedding on either side scores 0.
func (p *Provider) Similarity(ctx context.Context, jobID, candidateID uuid.UUID) (float64, error) {
	if p.store == nil {
		return 0, ErrProviderUnavailable
	}

	jobVec, err := p.vector(ctx, "job:"+jobID.String(), func(ctx context.Context) ([]float32, error) {
		return p.store.JobEmbedding(ctx, jobID)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to load job embedding: %w", err)
	}
	if len(jobVec) == 0 {
		return 0, nil
	}

	candidateVec, err := p.vector(ctx, "candidate:"+candidateID.String(), func(ctx context.Context) ([]float32, error) {
		return p.store.CandidateEmbedding(ctx, candidateID)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to load candidate embedding: %w", err)
	}
	if len(candidateVec) == 0 {
		return 0, nil
	}

	score := Cosine(jobVec, candidateVec)
	if score < 0 {
		return 0, nil
	}
	if score > 1 {
		return 1, nil
	}
	return score, nil
}

func (p *Provider) vector(ctx context.Context, key string, load func(context.Context) ([]float32, error)) ([]float32, error) {
	if cached, ok := p.vectors.Get(key); ok {
		return cached.([]float32), nil
	}
	vec, err := load(ctx)
	if err != nil {
		return nil, err
	}
	// missing vectors are not cached so a later import is picked up
	if len(vec) > 0 {
		p.vectors.Set(key, vec, cache.DefaultExpiration)
	}
	return vec, nil
}
