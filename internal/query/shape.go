package query

import "granite-stats/internal/domain"

// ShapeRows normalizes raw rows for the wire: the public timestamp field is
// the "timestamp" alias already selected, so any raw "ts" key that leaked
// through is dropped. Everything else passes through by name.
func ShapeRows(rows []domain.SnapshotRow) []domain.SnapshotRow {
	for _, row := range rows {
		delete(row, "ts")
	}
	return rows
}
