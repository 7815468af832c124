package repository

import (
	"context"
	"database/sql"
	"fmt"

	"granite-stats/internal/domain"

	"github.com/rs/zerolog"
)

type SnapshotRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewSnapshotRepository(sqlDB *sql.DB, logger zerolog.Logger) *SnapshotRepository {
	return &SnapshotRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// Query executes a planned statement and scans the result generically,
// since the column set varies with the delta flags.
func (r *SnapshotRepository) Query(ctx context.Context, sqlText string, args []any) ([]domain.SnapshotRow, error) {
	rows, err := r.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("snapshot query failed")
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// LastPerPlayer returns each player's most recent snapshot, raw column
// names included.
func (r *SnapshotRepository) LastPerPlayer(ctx context.Context) ([]domain.SnapshotRow, error) {
	const q = `
SELECT s.*
FROM snapshot s
JOIN (
    SELECT player_id, MAX(ts) AS max_ts
    FROM snapshot
    GROUP BY player_id
) x ON x.player_id = s.player_id AND x.max_ts = s.ts`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		r.logger.Error().Err(err).Msg("last-per-player query failed")
		return nil, fmt.Errorf("failed to query latest snapshots: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// Overall returns each player's latest cumulative counters, one row per
// player (ties on ts broken by the higher id), ordered by name.
func (r *SnapshotRepository) Overall(ctx context.Context) ([]domain.OverallRow, error) {
	const q = `
SELECT s.player_id,
       p.name,
       COALESCE(s.kills_gm_granitebr, 0),
       COALESCE(s.deaths_gm_granitebr, 0),
       COALESCE(s.assists_gm_granitebr, 0),
       COALESCE(s.dmg_gm_granitebr, 0),
       COALESCE(s.wins_gm_granitebr, 0),
       COALESCE(s.tp_gm_granitebr, 0),
       COALESCE(s.scorein_gm_granitebr, 0),
       COALESCE(s.revives_gm_granitebr, 0),
       COALESCE(s.spot_gm_granitebr, 0)
FROM snapshot s
JOIN player p ON p.id = s.player_id
JOIN (
    SELECT player_id, MAX(id) AS max_id
    FROM snapshot
    GROUP BY player_id
) x ON x.player_id = s.player_id AND x.max_id = s.id
ORDER BY p.name`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		r.logger.Error().Err(err).Msg("overall query failed")
		return nil, fmt.Errorf("failed to query overall totals: %w", err)
	}
	defer rows.Close()

	var result []domain.OverallRow
	for rows.Next() {
		var row domain.OverallRow
		if err := rows.Scan(
			&row.PlayerID,
			&row.PlayerName,
			&row.Kills,
			&row.Deaths,
			&row.Assists,
			&row.Damage,
			&row.Wins,
			&row.TimePlayed,
			&row.Score,
			&row.Revives,
			&row.Spotted,
		); err != nil {
			return nil, fmt.Errorf("failed to scan overall row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read overall rows: %w", err)
	}
	return result, nil
}

func scanRows(rows *sql.Rows) ([]domain.SnapshotRow, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	var result []domain.SnapshotRow
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}

		row := make(domain.SnapshotRow, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read snapshot rows: %w", err)
	}
	return result, nil
}
