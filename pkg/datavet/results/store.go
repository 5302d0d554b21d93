// Package results provides persistent storage for validation results.
package results

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Result is one recorded validation outcome.
type Result struct {
	// ID uniquely identifies the result. Save assigns a UUID when blank.
	ID string

	// RunID groups the results of one validation run.
	RunID string

	// Suite names the expectation suite the result belongs to.
	Suite string

	// Success reports whether the suite passed.
	Success bool

	// Payload carries the full result document.
	Payload map[string]any

	// CreatedAt is when the result was saved, normalized to UTC.
	// Save fills it when zero.
	CreatedAt time.Time
}

// Store persists validation results.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores a result, assigning ID and CreatedAt when unset, and
	// returns the stored record. Saving an existing ID overwrites it.
	Save(ctx context.Context, result Result) (Result, error)

	// Get retrieves a result by ID.
	// Returns ErrNotFound if no result has that ID.
	Get(ctx context.Context, id string) (Result, error)

	// List returns results for a suite, newest first.
	// An empty suite lists every result.
	List(ctx context.Context, suite string) ([]Result, error)

	// Delete removes a result by ID.
	// Returns ErrNotFound if no result has that ID.
	Delete(ctx context.Context, id string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Sentinel errors for result store operations.
var (
	// ErrNotFound indicates a result doesn't exist.
	ErrNotFound = errors.New("result not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("result store closed")
)

// normalizeResult fills the generated fields Save guarantees.
func normalizeResult(r *Result) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	r.CreatedAt = r.CreatedAt.UTC()
}
