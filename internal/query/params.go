package query

import (
	"net/url"
	"strconv"
	"strings"

	"granite-stats/internal/constants"
	"granite-stats/internal/domain"
)

type Order string

const (
	OrderAsc  Order = "ASC"
	OrderDesc Order = "DESC"
)

// ParseBool reads a boolean-ish query parameter. Only the literal strings
// "1", "true" and "yes" (case-insensitive) are true; everything else,
// including absence, is false.
func ParseBool(raw string) bool {
	switch strings.ToLower(raw) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// ParseInt falls back instead of erroring on malformed input.
func ParseInt(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// ParseLimit applies the default on malformed input and clamps the result
// into [1, MaxSnapshotLimit].
func ParseLimit(raw string) int {
	limit := ParseInt(raw, constants.DefaultSnapshotLimit)
	if limit < 1 {
		limit = constants.DefaultSnapshotLimit
	}
	if limit > constants.MaxSnapshotLimit {
		limit = constants.MaxSnapshotLimit
	}
	return limit
}

// ParseOrder treats anything other than "asc" as descending.
func ParseOrder(raw string) Order {
	if strings.ToLower(raw) == "asc" {
		return OrderAsc
	}
	return OrderDesc
}

// SnapshotParams is the decoded filter set for a snapshot query.
type SnapshotParams struct {
	Player     string
	From       string
	To         string
	Order      Order
	WithDeltas bool
	Clamp      bool
	Limit      int
	Paged      bool
	Cursor     *domain.Cursor
}

// DecodeSnapshotParams applies the leniency policy uniformly: malformed
// limit and cursor_id fall back silently, booleans follow ParseBool.
func DecodeSnapshotParams(values url.Values) SnapshotParams {
	p := SnapshotParams{
		Player:     values.Get("player"),
		From:       values.Get("from"),
		To:         values.Get("to"),
		Order:      ParseOrder(values.Get("order")),
		WithDeltas: ParseBool(values.Get("with_deltas")),
		Clamp:      ParseBool(values.Get("clamp")),
		Limit:      ParseLimit(values.Get("limit")),
		Paged:      ParseBool(values.Get("paged")),
	}

	if ts := values.Get("cursor_ts"); ts != "" {
		cursor := &domain.Cursor{TS: ts}
		if raw := values.Get("cursor_id"); raw != "" {
			if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
				cursor.ID = &id
			}
		}
		p.Cursor = cursor
	}

	return p
}
