// Package logview renders snapshot-ingestion log lines tailed from journald
// as an HTML table, one row per matching journal entry.
package logview

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"html"
	"net/http"
	"os/exec"
	"sort"
	"strconv"
	"time"

	"granite-stats/internal/constants"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Entry is one journal line reduced to the fields the table shows.
type Entry struct {
	TS      string
	Message string
	PID     string
	Host    string
}

type Viewer struct {
	unit   string
	logger zerolog.Logger

	// run is swapped out in tests; the default shells out to journalctl.
	run func(ctx context.Context, since string) ([]byte, error)
}

func New(unit string, logger zerolog.Logger) *Viewer {
	v := &Viewer{unit: unit, logger: logger}
	v.run = v.runJournalctl
	return v
}

func (v *Viewer) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		since := r.URL.Query().Get("since")
		if since == "" {
			since = constants.LogViewDefaultSince
		}

		ctx, cancel := context.WithTimeout(r.Context(), constants.LogViewTimeout)
		defer cancel()

		out, err := v.run(ctx, since)
		if err != nil {
			v.logger.Error().Err(err).Str("since", since).Msg("journalctl failed")
			http.Error(w, "failed to read journal", http.StatusInternalServerError)
			return
		}

		entries := ParseEntries(out)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		renderTable(w, since, entries)
	}
}

func (v *Viewer) runJournalctl(ctx context.Context, since string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "journalctl",
		"-u", v.unit, "--since", since, "-g", "snapshots", "-o", "json")

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start journalctl: %w", err)
	}

	var out, errOut bytes.Buffer
	var g errgroup.Group
	g.Go(func() error {
		_, copyErr := out.ReadFrom(stdout)
		return copyErr
	})
	g.Go(func() error {
		_, copyErr := errOut.ReadFrom(stderr)
		return copyErr
	})
	if err := g.Wait(); err != nil {
		_ = cmd.Wait()
		return nil, fmt.Errorf("failed to drain journalctl output: %w", err)
	}

	// journalctl exits non-zero when the unit has no entries; treat whatever
	// it printed as the result, as the original viewer did (check=False).
	if err := cmd.Wait(); err != nil {
		v.logger.Debug().Err(err).Str("stderr", errOut.String()).Msg("journalctl exited non-zero")
	}

	return out.Bytes(), nil
}

// ParseEntries decodes one JSON object per line, newest first.
func ParseEntries(raw []byte) []Entry {
	var entries []Entry

	scanner := bufio.NewScanner(bytes.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var fields map[string]any
		if err := json.Unmarshal(line, &fields); err != nil {
			continue
		}

		entries = append(entries, Entry{
			TS:      realtimeISO(fieldString(fields, "__REALTIME_TIMESTAMP")),
			Message: fieldString(fields, "MESSAGE"),
			PID:     fieldString(fields, "_PID"),
			Host:    fieldString(fields, "_HOSTNAME"),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].TS > entries[j].TS
	})
	return entries
}

// realtimeISO converts journald's microsecond epoch string to UTC ISO-8601.
func realtimeISO(raw string) string {
	us, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || us == 0 {
		return ""
	}
	return time.UnixMicro(us).UTC().Format("2006-01-02T15:04:05") + "Z"
}

func fieldString(fields map[string]any, key string) string {
	switch v := fields[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatInt(int64(v), 10)
	}
	return ""
}

func renderTable(w http.ResponseWriter, since string, entries []Entry) {
	fmt.Fprint(w, "<!doctype html><meta charset='utf-8'><title>Stats snapshots</title>\n")
	fmt.Fprint(w, "<style>body{font:14px system-ui;margin:24px} table{border-collapse:collapse;width:100%} th,td{border:1px solid #ddd;padding:6px 8px} th{background:#f6f6f6} tr:nth-child(even){background:#fafafa} code{white-space:pre-wrap}</style>\n")
	fmt.Fprint(w, "<h1>Stats snapshots</h1>\n")
	fmt.Fprintf(w, "<div class='meta'>Window: %s — generated %sZ</div>\n",
		html.EscapeString(since), time.Now().UTC().Format("2006-01-02T15:04:05"))
	fmt.Fprint(w, "<table><thead><tr><th>Time (UTC)</th><th>Message</th><th>PID</th><th>Host</th></tr></thead><tbody>\n")
	for _, e := range entries {
		fmt.Fprintf(w, "<tr><td>%s</td><td><code>%s</code></td><td>%s</td><td>%s</td></tr>\n",
			e.TS, html.EscapeString(e.Message), html.EscapeString(e.PID), html.EscapeString(e.Host))
	}
	fmt.Fprint(w, "</tbody></table>\n")
}
