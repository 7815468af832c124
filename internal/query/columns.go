package query

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"sync"
)

var numericTypeRE = regexp.MustCompile(`(?i)(INT|REAL|NUM|DEC|FLOA|DOUB)`)

// counterSuffix marks counter columns whose declared type is empty, which
// SQLite allows.
const counterSuffix = "_gm_granitebr"

// Registry discovers the snapshot columns eligible for delta computation.
// The result is memoized after the first successful introspection; computing
// it twice under a concurrent first access is harmless because the schema is
// fixed for the life of the process.
type Registry struct {
	db *sql.DB

	mu   sync.Mutex
	cols []string
}

func NewRegistry(db *sql.DB) *Registry {
	return &Registry{db: db}
}

// NumericColumns returns the delta-eligible snapshot columns in schema
// order, always excluding id, player_id and ts.
func (r *Registry) NumericColumns(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cols != nil {
		return r.cols, nil
	}

	rows, err := r.db.QueryContext(ctx, "PRAGMA table_info(snapshot)")
	if err != nil {
		return nil, fmt.Errorf("failed to introspect snapshot schema: %w", err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var (
			cid       int
			name      string
			ctype     sql.NullString
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan table_info row: %w", err)
		}
		switch name {
		case "id", "player_id", "ts":
			continue
		}
		if numericTypeRE.MatchString(ctype.String) || strings.HasSuffix(name, counterSuffix) {
			cols = append(cols, name)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read table_info rows: %w", err)
	}

	r.cols = cols
	return cols, nil
}
