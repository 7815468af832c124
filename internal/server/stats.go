package server

import (
	"errors"
	"net/http"

	"granite-stats/internal/query"
	"granite-stats/internal/service"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// StatsServer adapts the services onto the JSON HTTP surface.
type StatsServer struct {
	snapshots *service.SnapshotService
	stats     *service.StatsService
	state     *service.StateService
	logger    zerolog.Logger
}

func NewStatsServer(snapshots *service.SnapshotService, stats *service.StatsService, state *service.StateService, logger zerolog.Logger) *StatsServer {
	return &StatsServer{snapshots: snapshots, stats: stats, state: state, logger: logger}
}

func (s *StatsServer) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/players", s.handlePlayers)
	mux.HandleFunc("GET /api/snapshots", s.handleSnapshots)
	mux.HandleFunc("GET /api/last", s.handleLast)
	mux.HandleFunc("GET /api/overall", s.handleOverall)
	mux.HandleFunc("GET /api/timer", s.handleTimer)
	mux.HandleFunc("POST /api/trigger_refresh", s.handleTriggerRefresh)
}

func (s *StatsServer) handlePlayers(w http.ResponseWriter, r *http.Request) {
	players, err := s.stats.Players(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, players)
}

func (s *StatsServer) handleSnapshots(w http.ResponseWriter, r *http.Request) {
	params := query.DecodeSnapshotParams(r.URL.Query())

	if params.Paged {
		page, err := s.snapshots.Page(r.Context(), params)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, page)
		return
	}

	rows, err := s.snapshots.List(r.Context(), params)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rows)
}

func (s *StatsServer) handleLast(w http.ResponseWriter, r *http.Request) {
	rows, err := s.stats.LastPerPlayer(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rows)
}

func (s *StatsServer) handleOverall(w http.ResponseWriter, r *http.Request) {
	rows, err := s.stats.Overall(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rows)
}

func (s *StatsServer) handleTimer(w http.ResponseWriter, r *http.Request) {
	state, err := s.state.Timer(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, state)
}

type refreshResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

func (s *StatsServer) handleTriggerRefresh(w http.ResponseWriter, r *http.Request) {
	err := s.state.TriggerRefresh(r.Context())
	if errors.Is(err, service.ErrRefreshCooldown) {
		s.writeJSON(w, http.StatusTooManyRequests, refreshResponse{
			OK:      false,
			Message: "Please wait before refreshing again.",
		})
		return
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, refreshResponse{
		OK:      true,
		Message: "Refresh requested",
	})
}

func (s *StatsServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *StatsServer) writeError(w http.ResponseWriter, err error) {
	s.logger.Error().Err(err).Msg("request failed")
	s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}
