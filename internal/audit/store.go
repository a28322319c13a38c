// Package audit records summarize runs in a local SQLite database. Entries
// hold counts and metadata only; summaries and record values are never stored.
package audit

import (
	"context"

	"github.com/reblol/Pulsepanion/internal/model"
)

// ListParams holds parameters for listing runs.
type ListParams struct {
	Status string
	Limit  int
}

// Store defines the run log interface.
type Store interface {
	// Append assigns an ID and timestamp when missing and stores the run.
	Append(ctx context.Context, run *model.Run) error

	// List returns runs newest first.
	List(ctx context.Context, p ListParams) ([]model.Run, error)

	// Close closes the store.
	Close() error
}
