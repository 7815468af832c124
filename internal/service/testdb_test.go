package service

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

const testSchema = `
CREATE TABLE player (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL UNIQUE
);
CREATE TABLE snapshot (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    player_id INTEGER NOT NULL REFERENCES player(id),
    ts TEXT NOT NULL,
    kills_gm_granitebr INTEGER,
    deaths_gm_granitebr INTEGER,
    assists_gm_granitebr INTEGER,
    dmg_gm_granitebr INTEGER,
    wins_gm_granitebr INTEGER,
    tp_gm_granitebr INTEGER,
    scorein_gm_granitebr INTEGER,
    revives_gm_granitebr INTEGER,
    spot_gm_granitebr INTEGER
);
CREATE TABLE app_state (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
`

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// one shared in-memory database for the whole pool
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return db
}

func seedPlayer(t *testing.T, db *sql.DB, id int64, name string) {
	t.Helper()
	if _, err := db.Exec("INSERT INTO player (id, name) VALUES (?, ?)", id, name); err != nil {
		t.Fatalf("seed player %s: %v", name, err)
	}
}

// seedSnapshot inserts a snapshot with only the kills counter set; the
// remaining counters stay NULL. kills may be nil.
func seedSnapshot(t *testing.T, db *sql.DB, playerID int64, ts string, kills any) int64 {
	t.Helper()
	res, err := db.Exec(
		"INSERT INTO snapshot (player_id, ts, kills_gm_granitebr) VALUES (?, ?, ?)",
		playerID, ts, kills)
	if err != nil {
		t.Fatalf("seed snapshot at %s: %v", ts, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("last insert id: %v", err)
	}
	return id
}

func ts(day int) string {
	return fmt.Sprintf("2025-01-%02d 12:00:00", day)
}
