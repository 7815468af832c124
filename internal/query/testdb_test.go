package query

import (
	"database/sql"
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
