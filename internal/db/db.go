// Package db provides PostgreSQL access for goals, actions, candidates, job
// descriptions and feedback.
package db

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

//go:embed schema.sql
var schemaSQL string

// EmbeddingDimensions is the width of the stored embedding columns.
const EmbeddingDimensions = 768

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// Migrate applies the embedded schema. It is safe to run repeatedly.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Schema returns the embedded DDL applied by Migrate.
func Schema() string {
	return schemaSQL
}

// vectorParam encodes an embedding for a `$n::text::vector` parameter. Empty
// embeddings become NULL.
func vectorParam(values []float32) (any, error) {
	if len(values) == 0 {
		return nil, nil
	}
	if len(values) != EmbeddingDimensions {
		return nil, fmt.Errorf("embedding has %d dimensions, expected %d", len(values), EmbeddingDimensions)
	}
	return pgvector.NewVector(values).String(), nil
}

// parseVector decodes the text form of a vector column. NULL yields nil.
func parseVector(text *string) ([]float32, error) {
	if text == nil || *text == "" {
		return nil, nil
	}
	var vec pgvector.Vector
	if err := vec.Scan(*text); err != nil {
		return nil, fmt.Errorf("failed to parse embedding: %w", err)
	}
	return vec.Slice(), nil
}
