package store

import (
	"database/sql"
	"fmt"
	"time"
)

// SavePomodoroSnapshot overwrites the single persisted timer snapshot.
func (s *Store) SavePomodoroSnapshot(snap *PomodoroSnapshot) error {
	_, err := s.db.Exec(
		`INSERT INTO pomodoro_snapshots (id, mode, status, remaining_seconds, completed_cycles, last_update)
		 VALUES (1, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			mode              = excluded.mode,
			status            = excluded.status,
			remaining_seconds = excluded.remaining_seconds,
			completed_cycles  = excluded.completed_cycles,
			last_update       = excluded.last_update`,
		snap.Mode, snap.Status, snap.RemainingSeconds, snap.CompletedCycles,
		snap.LastUpdate.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save pomodoro snapshot: %w", err)
	}
	return nil
}

// LoadPomodoroSnapshot returns the persisted snapshot, or nil when none
// has been saved yet.
func (s *Store) LoadPomodoroSnapshot() (*PomodoroSnapshot, error) {
	snap := &PomodoroSnapshot{}
	var lastUpdate string
	err := s.db.QueryRow(
		`SELECT mode, status, remaining_seconds, completed_cycles, last_update
		 FROM pomodoro_snapshots WHERE id = 1`,
	).Scan(&snap.Mode, &snap.Status, &snap.RemainingSeconds, &snap.CompletedCycles, &lastUpdate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load pomodoro snapshot: %w", err)
	}
	snap.LastUpdate, _ = time.Parse(time.RFC3339, lastUpdate)
	return snap, nil
}
