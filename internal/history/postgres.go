package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/longevity-snapshot-server/internal/domain"
)

// PostgresStore implements the Store interface using PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL assessment store.
// It expects the schema to already exist (created via migrations).
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("database connection pool is required")
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Save stores a completed assessment. Existing IDs are left untouched.
func (s *PostgresStore) Save(ctx context.Context, assessment *domain.Assessment) error {
	resultJSON, err := json.Marshal(assessment.Result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	if assessment.CreatedAt.IsZero() {
		assessment.CreatedAt = time.Now().UTC()
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO assessments (id, user_id, profile_hash, result, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`,
		assessment.ID,
		assessment.UserID,
		assessment.ProfileHash,
		resultJSON,
		assessment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save assessment: %w", err)
	}
	return nil
}

// Get retrieves an assessment by ID.
func (s *PostgresStore) Get(ctx context.Context, id string) (*domain.Assessment, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, user_id, profile_hash, result, created_at
		FROM assessments
		WHERE id = $1
		LIMIT 1
	`, id)

	a, err := scanAssessment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}
	return a, nil
}

// ListByUser returns a user's assessments, newest first, with pagination.
func (s *PostgresStore) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Assessment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, profile_hash, result, created_at
		FROM assessments
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	defer rows.Close()

	var result []*domain.Assessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

// Count returns the total number of stored assessments.
func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM assessments").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count assessments: %w", err)
	}
	return count, nil
}

// Delete removes an assessment by ID.
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, "DELETE FROM assessments WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete assessment: %w", err)
	}
	return nil
}

// pgMaxExportLimit is the maximum number of entries to export at once.
const pgMaxExportLimit = 1000000

// ExportJSON exports all assessments to a JSON writer.
func (s *PostgresStore) ExportJSON(ctx context.Context, writer io.Writer) error {
	all, err := s.listAll(ctx, pgMaxExportLimit)
	if err != nil {
		return fmt.Errorf("failed to list assessments: %w", err)
	}

	export := &Export{
		Version:     "1.0",
		ExportedAt:  time.Now(),
		Count:       len(all),
		Assessments: all,
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(export)
}

func (s *PostgresStore) listAll(ctx context.Context, limit int) ([]*domain.Assessment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, profile_hash, result, created_at
		FROM assessments
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Assessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
