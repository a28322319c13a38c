package audit

import (
	"context"
	"os"
)

// Stats holds run log statistics.
type Stats struct {
	DBPath      string        `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	DBSizeBytes int64         `json:"db_size_bytes" yaml:"db_size_bytes"`
	TotalRuns   int           `json:"total_runs" yaml:"total_runs"`
	Statuses    []StatusStats `json:"statuses" yaml:"statuses"`
	AvgDuration float64       `json:"avg_duration_ms" yaml:"avg_duration_ms"`
}

// StatusStats holds per-status counts.
type StatusStats struct {
	Status string `json:"status" yaml:"status"`
	Count  int    `json:"count" yaml:"count"`
}

// Stats returns run log statistics.
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{DBPath: s.path}

	if s.path != "" {
		if info, err := os.Stat(s.path); err == nil {
			st.DBSizeBytes = info.Size()
		}
	}

	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(AVG(duration_ms), 0) FROM runs`).Scan(&st.TotalRuns, &st.AvgDuration); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT status, COUNT(*) AS cnt
		FROM runs
		GROUP BY status ORDER BY cnt DESC, status`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var ss StatusStats
		if err := rows.Scan(&ss.Status, &ss.Count); err != nil {
			return st, err
		}
		st.Statuses = append(st.Statuses, ss)
	}
	return st, rows.Err()
}
