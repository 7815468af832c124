package domain

type Player struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SnapshotRow is one row of a snapshot query. The column set is dynamic:
// base columns plus one delta_* entry per registry column when deltas are
// requested, so rows stay generic rather than a fixed struct.
type SnapshotRow map[string]any

// Cursor identifies the last row of a returned page in (ts, id) order.
// ID may be absent on cursors issued by older clients; pagination then
// degrades to a strict inequality on ts alone.
type Cursor struct {
	TS string `json:"ts"`
	ID *int64 `json:"id,omitempty"`
}

type SnapshotPage struct {
	Items      []SnapshotRow `json:"items"`
	HasMore    bool          `json:"has_more"`
	NextCursor *Cursor       `json:"next_cursor"`
}

// OverallRow is a player's lifetime totals (the latest snapshot) plus
// derived ratios.
type OverallRow struct {
	PlayerID   int64   `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Kills      int64   `json:"kills"`
	Deaths     int64   `json:"deaths"`
	Assists    int64   `json:"assists"`
	Damage     int64   `json:"damage"`
	Wins       int64   `json:"wins"`
	TimePlayed int64   `json:"time_played"`
	Score      int64   `json:"score"`
	Revives    int64   `json:"revives"`
	Spotted    int64   `json:"spotted"`
	KD         float64 `json:"kd"`
	KDA        float64 `json:"kda"`
	WinRate    float64 `json:"win_rate"`
}

// TimerState mirrors the two app_state scalars the refresh scheduler keeps.
type TimerState struct {
	TimerMinutes     *int64  `json:"timer_minutes"`
	NextTickAt       *string `json:"next_tick_at"`
	SecondsRemaining *int64  `json:"seconds_remaining"`
}
