package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	DBPath     string
	ServerPort string
	LogLevel   string
	LogFile    string
	WebDir     string

	// BlockedIPs are redirected to BlockedRedirectURL before any route runs.
	BlockedIPs         []string
	BlockedRedirectURL string

	// HiddenPlayer, when set, is excluded from snapshot queries by name
	// (case-insensitive).
	HiddenPlayer string

	// LogViewUnit is the systemd unit the log viewer tails.
	LogViewUnit string
	LogViewPort string
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		DBPath:             getEnv("DB_PATH", "stats.sqlite3"),
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFile:            getEnv("LOG_FILE", ""),
		WebDir:             getEnv("WEB_DIR", "web"),
		BlockedRedirectURL: getEnv("BLOCKED_REDIRECT_URL", ""),
		HiddenPlayer:       getEnv("HIDDEN_PLAYER", ""),
		LogViewUnit:        getEnv("LOGVIEW_UNIT", "stats"),
		LogViewPort:        getEnv("LOGVIEW_PORT", "8081"),
	}

	if raw := getEnv("BLOCKED_IPS", ""); raw != "" {
		for _, ip := range strings.Split(raw, ",") {
			if ip = strings.TrimSpace(ip); ip != "" {
				cfg.BlockedIPs = append(cfg.BlockedIPs, ip)
			}
		}
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Str("web_dir", cfg.WebDir).
		Int("blocked_ips", len(cfg.BlockedIPs)).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var Module = fx.Provide(Load)
