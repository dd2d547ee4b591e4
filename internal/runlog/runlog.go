// Package runlog keeps a local audit trail of monitor runs: what each
// run extracted, what it reported, and how it ended. The trail is
// best-effort observability — a write failure never fails the run.
package runlog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

type Entry struct {
	RunID      string `json:"run_id"`
	StartedAt  int64  `json:"started_at"`
	FinishedAt int64  `json:"finished_at"`
	Strategy   string `json:"strategy"`
	Positions  int    `json:"positions"`
	Opened     int    `json:"opened"`
	Closed     int    `json:"closed"`
	Resized    int    `json:"resized"`
	Heartbeat  bool   `json:"heartbeat"`
	Outcome    string `json:"outcome"`
	Error      string `json:"error,omitempty"`
}

const (
	OutcomeOK       = "ok"
	OutcomeNoChange = "no_change"
	OutcomeSkipped  = "skipped"
	OutcomeError    = "error"
)

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("runlog path cannot be empty")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path))
	if err != nil {
		return nil, err
	}
	const schema = `CREATE TABLE IF NOT EXISTS runs (
		run_id      TEXT PRIMARY KEY,
		started_at  INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		strategy    TEXT NOT NULL DEFAULT '',
		positions   INTEGER NOT NULL DEFAULT 0,
		opened      INTEGER NOT NULL DEFAULT 0,
		closed      INTEGER NOT NULL DEFAULT 0,
		resized     INTEGER NOT NULL DEFAULT 0,
		heartbeat   INTEGER NOT NULL DEFAULT 0,
		outcome     TEXT NOT NULL,
		error       TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Append(e Entry) error {
	heartbeat := 0
	if e.Heartbeat {
		heartbeat = 1
	}
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO runs
		 (run_id, started_at, finished_at, strategy, positions, opened, closed, resized, heartbeat, outcome, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RunID, e.StartedAt, e.FinishedAt, e.Strategy,
		e.Positions, e.Opened, e.Closed, e.Resized, heartbeat, e.Outcome, e.Error,
	)
	return err
}

func (s *Store) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT run_id, started_at, finished_at, strategy, positions, opened, closed, resized, heartbeat, outcome, error
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var heartbeat int
		if err := rows.Scan(&e.RunID, &e.StartedAt, &e.FinishedAt, &e.Strategy,
			&e.Positions, &e.Opened, &e.Closed, &e.Resized, &heartbeat, &e.Outcome, &e.Error); err != nil {
			return nil, err
		}
		e.Heartbeat = heartbeat != 0
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
