package query

import (
	"granite-stats/internal/domain"
)

// cursorPredicate builds the exclusion clause that resumes strictly after
// (asc) or before (desc) the cursor row in (ts, id) order.
//
// When the cursor carries no id the predicate degrades to a strict
// inequality on ts alone, which can skip or repeat rows that share a
// timestamp. Known limitation of id-less cursors, kept as-is.
func cursorPredicate(c *domain.Cursor, order Order) (string, []any) {
	op := "<"
	if order == OrderAsc {
		op = ">"
	}
	if c.ID == nil {
		return "s.ts " + op + " ?", []any{c.TS}
	}
	return "(s.ts " + op + " ? OR (s.ts = ? AND s.id " + op + " ?))",
		[]any{c.TS, c.TS, *c.ID}
}

// BuildPage truncates an over-fetched row set (limit+1 requested) down to
// the page the client sees. The next cursor points at the last row of the
// truncated page, the row to resume strictly past on the next call; it is
// nil on the terminal page.
func BuildPage(rows []domain.SnapshotRow, limit int) domain.SnapshotPage {
	page := domain.SnapshotPage{Items: rows}
	if page.Items == nil {
		page.Items = []domain.SnapshotRow{}
	}

	if len(rows) > limit {
		page.Items = rows[:limit]
		page.HasMore = true

		last := page.Items[len(page.Items)-1]
		cursor := &domain.Cursor{TS: rowString(last, "timestamp")}
		if id, ok := rowInt(last, "id"); ok {
			cursor.ID = &id
		}
		page.NextCursor = cursor
	}

	return page
}

func rowString(row domain.SnapshotRow, key string) string {
	switch v := row[key].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	}
	return ""
}

func rowInt(row domain.SnapshotRow, key string) (int64, bool) {
	switch v := row[key].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	}
	return 0, false
}
