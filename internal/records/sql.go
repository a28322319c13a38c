package records

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"github.com/reblol/Pulsepanion/internal/model"
)

var tableRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// LoadSQL reads every row of table in the order the database returns them.
// NULL columns are left out of the row.
func LoadSQL(ctx context.Context, db *sql.DB, table string) (*model.RecordSet, error) {
	if !tableRegex.MatchString(table) {
		return nil, formatErr("load table", fmt.Errorf("invalid table name %q", table))
	}

	rows, err := db.QueryContext(ctx, "SELECT * FROM "+table)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns %s: %w", table, err)
	}

	set := &model.RecordSet{Columns: cols}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}

		rec := make(model.Record, len(cols))
		for i, c := range cols {
			switch v := vals[i].(type) {
			case nil:
			case []byte:
				rec[c] = string(v)
			default:
				rec[c] = v
			}
		}
		set.Rows = append(set.Rows, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}
	return set, nil
}
