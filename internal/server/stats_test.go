package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"granite-stats/internal/query"
	"granite-stats/internal/repository"
	"granite-stats/internal/service"

	"github.com/goccy/go-json"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
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

func newTestServer(t *testing.T) (*httptest.Server, *sql.DB) {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	log := zerolog.Nop()
	planner := query.NewPlanner(query.NewRegistry(db), "")
	snapshotRepo := repository.NewSnapshotRepository(db, log)
	stats := NewStatsServer(
		service.NewSnapshotService(planner, snapshotRepo, log),
		service.NewStatsService(repository.NewPlayerRepository(db, log), snapshotRepo, log),
		service.NewStateService(repository.NewStateRepository(db, log), log),
		log,
	)

	mux := http.NewServeMux()
	stats.Register(mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, db
}

func seed(t *testing.T, db *sql.DB) {
	t.Helper()
	if _, err := db.Exec(`INSERT INTO player (id, name) VALUES (1, 'Alice')`); err != nil {
		t.Fatalf("seed player: %v", err)
	}
	for day := 1; day <= 5; day++ {
		_, err := db.Exec(
			"INSERT INTO snapshot (player_id, ts, kills_gm_granitebr) VALUES (1, ?, ?)",
			fmt.Sprintf("2025-01-%02d 12:00:00", day), day)
		if err != nil {
			t.Fatalf("seed snapshot: %v", err)
		}
	}
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp
}

func TestPlayersEndpoint(t *testing.T) {
	srv, db := newTestServer(t)
	seed(t, db)

	var players []map[string]any
	resp := getJSON(t, srv.URL+"/api/players", &players)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if len(players) != 1 || players[0]["name"] != "Alice" {
		t.Errorf("players = %v", players)
	}
}

func TestSnapshotsFlatEndpoint(t *testing.T) {
	srv, db := newTestServer(t)
	seed(t, db)

	var rows []map[string]any
	resp := getJSON(t, srv.URL+"/api/snapshots?player=Alice&with_deltas=1&clamp=1&order=asc", &rows)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if len(rows) != 5 {
		t.Fatalf("rows = %d, want 5", len(rows))
	}

	first := rows[0]
	for _, key := range []string{"id", "player_id", "player_name", "timestamp", "kills_gm_granitebr", "delta_kills_gm_granitebr"} {
		if _, found := first[key]; !found {
			t.Errorf("row missing %q: %v", key, first)
		}
	}
	if _, found := first["ts"]; found {
		t.Error("raw ts leaked into response")
	}
	if first["delta_kills_gm_granitebr"].(float64) != 0 {
		t.Errorf("first delta = %v, want 0", first["delta_kills_gm_granitebr"])
	}
}

func TestSnapshotsPagedEndpoint(t *testing.T) {
	srv, db := newTestServer(t)
	seed(t, db)

	type page struct {
		Items      []map[string]any `json:"items"`
		HasMore    bool             `json:"has_more"`
		NextCursor *struct {
			TS string `json:"ts"`
			ID int64  `json:"id"`
		} `json:"next_cursor"`
	}

	var p page
	resp := getJSON(t, srv.URL+"/api/snapshots?paged=1&limit=2", &p)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if len(p.Items) != 2 || !p.HasMore || p.NextCursor == nil {
		t.Fatalf("page 1 = %+v", p)
	}

	seen := len(p.Items)
	pages := 1
	for p.HasMore {
		params := url.Values{}
		params.Set("paged", "1")
		params.Set("limit", "2")
		params.Set("cursor_ts", p.NextCursor.TS)
		params.Set("cursor_id", strconv.FormatInt(p.NextCursor.ID, 10))
		p = page{}
		getJSON(t, srv.URL+"/api/snapshots?"+params.Encode(), &p)
		seen += len(p.Items)
		pages++
		if pages > 10 {
			t.Fatal("pagination did not terminate")
		}
	}

	if seen != 5 || pages != 3 {
		t.Errorf("saw %d rows over %d pages, want 5 over 3", seen, pages)
	}
	if p.NextCursor != nil {
		t.Errorf("terminal next_cursor = %+v, want null", p.NextCursor)
	}
}

func TestSnapshotsEmptyPlayer(t *testing.T) {
	srv, db := newTestServer(t)
	seed(t, db)

	var rows []map[string]any
	resp := getJSON(t, srv.URL+"/api/snapshots?player=nobody", &rows)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 for empty result", resp.StatusCode)
	}
	if rows == nil || len(rows) != 0 {
		t.Errorf("rows = %v, want []", rows)
	}
}

func TestTriggerRefreshEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/trigger_refresh", "application/json", nil)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("first call status = %d, want 200", resp.StatusCode)
	}

	resp, err = http.Post(srv.URL+"/api/trigger_refresh", "application/json", nil)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("second call status = %d, want 429", resp.StatusCode)
	}

	var body struct {
		OK      bool   `json:"ok"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.OK || body.Message == "" {
		t.Errorf("body = %+v, want ok=false with a message", body)
	}
}

func TestTimerEndpointEmpty(t *testing.T) {
	srv, _ := newTestServer(t)

	var body map[string]any
	resp := getJSON(t, srv.URL+"/api/timer", &body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	for _, key := range []string{"timer_minutes", "next_tick_at", "seconds_remaining"} {
		if v, found := body[key]; !found || v != nil {
			t.Errorf("%s = %v, want explicit null", key, v)
		}
	}
}
