package audit

import (
	"context"

	"github.com/reblol/Pulsepanion/internal/model"
)

// ExportAll returns every run oldest first, optionally filtered by status.
func (s *SQLiteStore) ExportAll(ctx context.Context, status string) ([]model.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at, id`
	return s.queryRuns(ctx, query, args...)
}
