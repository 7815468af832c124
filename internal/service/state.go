package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"granite-stats/internal/constants"
	"granite-stats/internal/domain"
	"granite-stats/internal/repository"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

const (
	stateKeyForceRefresh = "force_refresh"
	stateKeyTimerMinutes = "timer_minutes"
	stateKeyNextTickAt   = "next_tick_at"
)

// sqliteTimeLayout is what datetime('now') produces, always UTC.
const sqliteTimeLayout = "2006-01-02 15:04:05"

// ErrRefreshCooldown is returned when a refresh was requested within the
// debounce window.
var ErrRefreshCooldown = errors.New("refresh requested too soon")

// StateService owns the refresh-timer collaborator: the debounced
// force_refresh flag and the countdown derived from the scheduler's
// app_state scalars.
type StateService struct {
	repo   *repository.StateRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewStateService(repo *repository.StateRepository, logger zerolog.Logger) *StateService {
	return &StateService{repo: repo, logger: logger, now: time.Now}
}

// TriggerRefresh flips the force_refresh flag for the ingester, rejecting
// calls within the cooldown window of the previous one.
func (s *StateService) TriggerRefresh(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	updatedAt, found, err := s.repo.GetUpdatedAt(ctx, stateKeyForceRefresh)
	if err != nil {
		return err
	}
	if found {
		last, parseErr := time.ParseInLocation(sqliteTimeLayout, updatedAt, time.UTC)
		if parseErr == nil && s.now().UTC().Sub(last) < constants.RefreshCooldown {
			s.logger.Debug().Str("updated_at", updatedAt).Msg("refresh inside cooldown window")
			return ErrRefreshCooldown
		}
	}

	if err := s.repo.SetNow(ctx, stateKeyForceRefresh, "1"); err != nil {
		return err
	}

	s.logger.Info().Msg("refresh requested")
	return nil
}

// Timer reads the scheduler's two scalars. Values may be JSON-encoded or
// plain text; anything unparseable comes back as null rather than an error.
func (s *StateService) Timer(ctx context.Context) (domain.TimerState, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	var state domain.TimerState

	if raw, found, err := s.repo.Get(ctx, stateKeyTimerMinutes); err != nil {
		return state, err
	} else if found {
		if minutes, ok := parseLenientInt(raw); ok {
			state.TimerMinutes = &minutes
		}
	}

	if raw, found, err := s.repo.Get(ctx, stateKeyNextTickAt); err != nil {
		return state, err
	} else if found {
		iso := dejsonString(raw)
		state.NextTickAt = &iso

		if tick, ok := parseNextTick(iso); ok {
			remaining := int64(tick.Sub(s.now().UTC()).Seconds())
			if remaining < 0 {
				remaining = 0
			}
			state.SecondsRemaining = &remaining
		} else {
			s.logger.Warn().Str("next_tick_at", iso).Msg("failed to parse next tick timestamp")
		}
	}

	return state, nil
}

// dejsonString unquotes a value the scheduler may have stored JSON-encoded.
func dejsonString(raw string) string {
	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err == nil {
		if s, ok := decoded.(string); ok {
			return s
		}
	}
	return raw
}

func parseLenientInt(raw string) (int64, bool) {
	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err == nil {
		switch v := decoded.(type) {
		case float64:
			return int64(v), true
		case string:
			raw = v
		}
	}
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseNextTick accepts RFC3339 with or without a zone; a naked timestamp
// is taken as UTC, matching how the scheduler writes it.
func parseNextTick(iso string) (time.Time, bool) {
	iso = strings.TrimSpace(iso)
	if iso == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, iso); err == nil {
		return t, true
	}
	for _, layout := range []string{"2006-01-02T15:04:05", sqliteTimeLayout} {
		if t, err := time.ParseInLocation(layout, iso, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
