// Package history provides persistent storage for completed assessments.
// Two backends implement the same Store interface: an embedded SQLite
// database for single-node deployments and PostgreSQL for shared ones.
package history

import (
	"context"
	"io"
	"time"

	"github.com/longevity-snapshot-server/internal/domain"
)

// Store defines the interface for assessment history storage.
type Store interface {
	// Save stores a completed assessment. Assessments are immutable;
	// saving an existing ID is a no-op.
	Save(ctx context.Context, assessment *domain.Assessment) error

	// Get retrieves an assessment by ID. Returns (nil, nil) when no
	// assessment with that ID exists.
	Get(ctx context.Context, id string) (*domain.Assessment, error)

	// ListByUser returns a user's assessments, newest first, with
	// pagination.
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Assessment, error)

	// Count returns the total number of stored assessments.
	Count(ctx context.Context) (int64, error)

	// Delete removes an assessment by ID.
	Delete(ctx context.Context, id string) error

	// ExportJSON writes all stored assessments to a JSON writer.
	ExportJSON(ctx context.Context, writer io.Writer) error

	// Close closes the store and releases resources.
	Close() error
}

// Export represents the JSON export format.
type Export struct {
	Version     string               `json:"version"`
	ExportedAt  time.Time            `json:"exported_at"`
	Count       int                  `json:"count"`
	Assessments []*domain.Assessment `json:"assessments"`
}
