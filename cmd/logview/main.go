package main

import (
	"fmt"
	"net/http"

	"granite-stats/internal/config"
	"granite-stats/internal/logger"
	"granite-stats/internal/logview"
)

func main() {
	log := logger.New()

	cfg, err := config.Load(log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	viewer := logview.New(cfg.LogViewUnit, log)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /", viewer.Handler())

	addr := fmt.Sprintf(":%s", cfg.LogViewPort)
	log.Info().Str("addr", addr).Str("unit", cfg.LogViewUnit).Msg("log viewer starting")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal().Err(err).Msg("log viewer failed")
	}
}
