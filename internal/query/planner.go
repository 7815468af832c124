package query

import (
	"context"
)

var baseSnapshotColumns = []string{
	"s.id",
	"s.player_id",
	"p.name AS player_name",
	"s.ts AS timestamp",
}

// Planner turns decoded snapshot parameters into an executable statement.
// All user-supplied values travel as bound parameters; the only identifiers
// written into the text are registry column names taken from the schema.
type Planner struct {
	registry     *Registry
	hiddenPlayer string
}

func NewPlanner(registry *Registry, hiddenPlayer string) *Planner {
	return &Planner{registry: registry, hiddenPlayer: hiddenPlayer}
}

// Plan builds the filtered, ordered snapshot query. fetchLimit is the row
// cap actually sent to the store; the pagination engine passes limit+1 to
// over-fetch, a flat list passes the limit itself.
func (p *Planner) Plan(ctx context.Context, params SnapshotParams, fetchLimit int) (string, []any, error) {
	counters, err := p.registry.NumericColumns(ctx)
	if err != nil {
		return "", nil, err
	}

	b := Select(append([]string(nil), baseSnapshotColumns...)...)
	for _, col := range counters {
		b.Column("s." + col)
	}
	if params.WithDeltas {
		for _, col := range counters {
			b.Column(deltaExpr(col, params.Clamp))
		}
	}

	b.From("snapshot s").Join("player p ON p.id = s.player_id")

	if p.hiddenPlayer != "" {
		b.Where("p.name <> ? COLLATE NOCASE", p.hiddenPlayer)
	}
	if params.Player != "" {
		b.Where("p.name = ?", params.Player)
	}
	if params.From != "" {
		b.Where("s.ts >= ?", params.From)
	}
	if params.To != "" {
		b.Where("s.ts < ?", params.To)
	}
	if params.Paged && params.Cursor != nil {
		expr, cursorArgs := cursorPredicate(params.Cursor, params.Order)
		b.Where(expr, cursorArgs...)
	}

	b.OrderBy("s.ts " + string(params.Order) + ", s.id " + string(params.Order))
	b.Limit(fetchLimit)

	sqlText, args := b.Build()
	return sqlText, args, nil
}
