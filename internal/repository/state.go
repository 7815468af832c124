package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// StateRepository reads and writes the app_state key-value table shared
// with the out-of-band snapshot ingester.
type StateRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewStateRepository(sqlDB *sql.DB, logger zerolog.Logger) *StateRepository {
	return &StateRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// Get returns the raw value for key; found is false when the key is absent.
func (r *StateRepository) Get(ctx context.Context, key string) (value string, found bool, err error) {
	err = r.db.QueryRowContext(ctx, "SELECT value FROM app_state WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read app_state %q: %w", key, err)
	}
	return value, true, nil
}

// GetUpdatedAt returns the last write time of key as the store recorded it
// (SQLite datetime('now') text, UTC).
func (r *StateRepository) GetUpdatedAt(ctx context.Context, key string) (updatedAt string, found bool, err error) {
	err = r.db.QueryRowContext(ctx, "SELECT updated_at FROM app_state WHERE key = ?", key).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read app_state %q updated_at: %w", key, err)
	}
	return updatedAt, true, nil
}

// SetNow upserts key with the store's own clock so cooldown comparisons use
// a single time source.
func (r *StateRepository) SetNow(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO app_state (key, value, updated_at)
VALUES (?, ?, datetime('now'))
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = datetime('now')`,
		key, value)
	if err != nil {
		r.logger.Error().Err(err).Str("key", key).Msg("failed to upsert app_state")
		return fmt.Errorf("failed to upsert app_state %q: %w", key, err)
	}
	return nil
}
