package service

import (
	"context"

	"granite-stats/internal/constants"
	"granite-stats/internal/domain"
	"granite-stats/internal/repository"

	"github.com/rs/zerolog"
)

// StatsService covers the passthrough endpoints: the player list, the
// latest snapshot per player, and the overall lifetime totals.
type StatsService struct {
	players   *repository.PlayerRepository
	snapshots *repository.SnapshotRepository
	logger    zerolog.Logger
}

func NewStatsService(players *repository.PlayerRepository, snapshots *repository.SnapshotRepository, logger zerolog.Logger) *StatsService {
	return &StatsService{players: players, snapshots: snapshots, logger: logger}
}

func (s *StatsService) Players(ctx context.Context) ([]domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	players, err := s.players.List(ctx)
	if err != nil {
		return nil, err
	}
	if players == nil {
		players = []domain.Player{}
	}
	return players, nil
}

func (s *StatsService) LastPerPlayer(ctx context.Context) ([]domain.SnapshotRow, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	rows, err := s.snapshots.LastPerPlayer(ctx)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []domain.SnapshotRow{}
	}
	return rows, nil
}

// Overall decorates each player's latest counters with the derived ratios.
// A battle-royale match ends in either a win or a death, so wins+deaths
// stands in for matches played in the win rate.
func (s *StatsService) Overall(ctx context.Context) ([]domain.OverallRow, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	rows, err := s.snapshots.Overall(ctx)
	if err != nil {
		return nil, err
	}

	for i := range rows {
		rows[i].KD = ratio(rows[i].Kills, rows[i].Deaths)
		rows[i].KDA = ratio(rows[i].Kills+rows[i].Assists, rows[i].Deaths)
		rows[i].WinRate = ratio(rows[i].Wins, rows[i].Wins+rows[i].Deaths)
	}
	if rows == nil {
		rows = []domain.OverallRow{}
	}
	return rows, nil
}

func ratio(num, den int64) float64 {
	if den == 0 {
		return float64(num)
	}
	return float64(num) / float64(den)
}
