package constants

import "time"

const (
	// DefaultSnapshotLimit is applied when limit is missing or malformed.
	DefaultSnapshotLimit = 100
	// MaxSnapshotLimit caps limit regardless of what the client asks for.
	MaxSnapshotLimit = 2000
)

const (
	RefreshCooldown = 30 * time.Second
)

const (
	DatabaseTimeout = 5 * time.Second
	RequestTimeout  = 30 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBPingRetries     = 5
	DBPingBackoff     = 500 * time.Millisecond
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	LogViewTimeout      = 15 * time.Second
	LogViewDefaultSince = "6 hours ago"
)
