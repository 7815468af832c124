package service

import (
	"context"

	"granite-stats/internal/constants"
	"granite-stats/internal/domain"
	"granite-stats/internal/query"
	"granite-stats/internal/repository"

	"github.com/rs/zerolog"
)

// SnapshotService runs the query engine: plan, execute, shape, and for
// paged requests truncate the over-fetch into a page with a next cursor.
type SnapshotService struct {
	planner *query.Planner
	repo    *repository.SnapshotRepository
	logger  zerolog.Logger
}

func NewSnapshotService(planner *query.Planner, repo *repository.SnapshotRepository, logger zerolog.Logger) *SnapshotService {
	return &SnapshotService{planner: planner, repo: repo, logger: logger}
}

// List returns the flat, limit-bounded result for a non-paged request.
func (s *SnapshotService) List(ctx context.Context, params query.SnapshotParams) ([]domain.SnapshotRow, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	s.logger.Debug().
		Str("player", params.Player).
		Str("order", string(params.Order)).
		Bool("with_deltas", params.WithDeltas).
		Int("limit", params.Limit).
		Msg("listing snapshots")

	sqlText, args, err := s.planner.Plan(ctx, params, params.Limit)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.Query(ctx, sqlText, args)
	if err != nil {
		return nil, err
	}

	rows = query.ShapeRows(rows)
	if rows == nil {
		rows = []domain.SnapshotRow{}
	}
	return rows, nil
}

// Page over-fetches one row past the limit to decide has_more without a
// count query.
func (s *SnapshotService) Page(ctx context.Context, params query.SnapshotParams) (domain.SnapshotPage, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	s.logger.Debug().
		Str("player", params.Player).
		Str("order", string(params.Order)).
		Bool("has_cursor", params.Cursor != nil).
		Int("limit", params.Limit).
		Msg("paging snapshots")

	sqlText, args, err := s.planner.Plan(ctx, params, params.Limit+1)
	if err != nil {
		return domain.SnapshotPage{}, err
	}

	rows, err := s.repo.Query(ctx, sqlText, args)
	if err != nil {
		return domain.SnapshotPage{}, err
	}

	return query.BuildPage(query.ShapeRows(rows), params.Limit), nil
}
