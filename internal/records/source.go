package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/reblol/Pulsepanion/internal/model"
)

// Source kinds.
const (
	KindJSON     = "json"
	KindXLSX     = "xlsx"
	KindSQLite   = "sqlite"
	KindPostgres = "postgres"
)

// Source describes where records come from. Path "-" or "" with kind json
// reads Stdin.
type Source struct {
	Kind  string
	Path  string
	Sheet string
	Table string
	DSN   string
	Stdin io.Reader
}

// ResolveKind returns Kind, or infers it from the path extension.
func (s Source) ResolveKind() string {
	if s.Kind != "" {
		return strings.ToLower(s.Kind)
	}
	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".xlsx", ".xlsm":
		return KindXLSX
	case ".db", ".sqlite", ".sqlite3":
		return KindSQLite
	}
	if s.DSN != "" && (strings.HasPrefix(s.DSN, "postgres://") || strings.HasPrefix(s.DSN, "postgresql://")) {
		return KindPostgres
	}
	return KindJSON
}

// Label is a short description of the source for logs and the audit log.
func (s Source) Label() string {
	kind := s.ResolveKind()
	switch kind {
	case KindSQLite, KindPostgres:
		return kind + ":" + s.Table
	}
	if s.Path == "" || s.Path == "-" {
		return kind + ":stdin"
	}
	return kind + ":" + filepath.Base(s.Path)
}

// Load reads the full record set from the source.
func Load(ctx context.Context, s Source) (*model.RecordSet, error) {
	switch kind := s.ResolveKind(); kind {
	case KindJSON:
		r, closeFn, err := s.open()
		if err != nil {
			return nil, err
		}
		defer closeFn()
		return ParseJSON(r)
	case KindXLSX:
		r, closeFn, err := s.open()
		if err != nil {
			return nil, err
		}
		defer closeFn()
		return LoadXLSX(r, s.Sheet)
	case KindSQLite, KindPostgres:
		dsn := s.DSN
		if dsn == "" {
			dsn = s.Path
		}
		if dsn == "" {
			return nil, fmt.Errorf("%s source needs a path or dsn", kind)
		}
		if s.Table == "" {
			return nil, fmt.Errorf("%s source needs a table", kind)
		}
		driver := "sqlite"
		if kind == KindPostgres {
			driver = "postgres"
		}
		db, err := sql.Open(driver, dsn)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", kind, err)
		}
		defer db.Close()
		return LoadSQL(ctx, db, s.Table)
	default:
		return nil, fmt.Errorf("unknown source kind %q", kind)
	}
}

func (s Source) open() (io.Reader, func(), error) {
	if s.Path == "" || s.Path == "-" {
		if s.Stdin == nil {
			return nil, nil, errors.New("no input: pass a file or pipe records on stdin")
		}
		return s.Stdin, func() {}, nil
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	return f, func() { f.Close() }, nil
}
