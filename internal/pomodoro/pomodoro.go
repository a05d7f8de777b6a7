// Package pomodoro implements the countdown state machine. It holds no
// goroutines and reads no clocks of its own: the owner feeds it one
// Tick per elapsed second, which keeps it deterministic and testable.
package pomodoro

import "time"

type Mode string

const (
	ModeWork       Mode = "work"
	ModeShortBreak Mode = "shortBreak"
	ModeLongBreak  Mode = "longBreak"
)

type Status string

const (
	StatusStopped Status = "stopped"
	StatusRunning Status = "running"
	StatusPaused  Status = "paused"
)

// StaleAfter is the snapshot freshness window. A "running" snapshot
// older than this restores as stopped instead of fast-forwarding
// through wall-clock time the timer never observed.
const StaleAfter = time.Minute

// Config holds the per-mode durations and the long-break cadence.
type Config struct {
	Work       time.Duration
	ShortBreak time.Duration
	LongBreak  time.Duration
	// Cycles is the number of completed work phases before a long break.
	Cycles int
}

func DefaultConfig() Config {
	return Config{
		Work:       25 * time.Minute,
		ShortBreak: 5 * time.Minute,
		LongBreak:  15 * time.Minute,
		Cycles:     4,
	}
}

// Event describes what a Tick caused.
type Event int

const (
	EventNone Event = iota
	// EventBreakStarted fires when a work phase completes.
	EventBreakStarted
	// EventWorkStarted fires when a break completes.
	EventWorkStarted
)

// Timer is the countdown state machine.
type Timer struct {
	cfg Config

	mode            Mode
	status          Status
	remaining       int // seconds
	completedCycles int
}

func New(cfg Config) *Timer {
	if cfg.Cycles < 1 {
		cfg.Cycles = 1
	}
	return &Timer{
		cfg:       cfg,
		mode:      ModeWork,
		status:    StatusStopped,
		remaining: int(cfg.Work.Seconds()),
	}
}

func (t *Timer) Mode() Mode            { return t.mode }
func (t *Timer) Status() Status       { return t.status }
func (t *Timer) Remaining() int       { return t.remaining }
func (t *Timer) CompletedCycles() int { return t.completedCycles }
func (t *Timer) Config() Config       { return t.cfg }

// modeSeconds returns the full duration of a mode in seconds.
func (t *Timer) modeSeconds(m Mode) int {
	switch m {
	case ModeShortBreak:
		return int(t.cfg.ShortBreak.Seconds())
	case ModeLongBreak:
		return int(t.cfg.LongBreak.Seconds())
	default:
		return int(t.cfg.Work.Seconds())
	}
}

// Start begins or resumes the countdown. Starting a running timer is a
// no-op; only one countdown is ever active.
func (t *Timer) Start() {
	if t.status == StatusRunning {
		return
	}
	if t.status == StatusStopped && t.remaining <= 0 {
		t.remaining = t.modeSeconds(t.mode)
	}
	t.status = StatusRunning
}

// Pause halts the countdown without touching the remaining time.
func (t *Timer) Pause() {
	if t.status != StatusRunning {
		return
	}
	t.status = StatusPaused
}

// Reset returns the current mode to its full duration and stops.
func (t *Timer) Reset() {
	t.status = StatusStopped
	t.remaining = t.modeSeconds(t.mode)
}

// SetMode switches mode, stopping and resetting to the new mode's full
// duration.
func (t *Timer) SetMode(m Mode) {
	t.mode = m
	t.status = StatusStopped
	t.remaining = t.modeSeconds(m)
}

// SetConfig replaces the durations. A stopped timer picks up the new
// mode duration immediately; a running countdown keeps its remaining
// time.
func (t *Timer) SetConfig(cfg Config) {
	if cfg.Cycles < 1 {
		cfg.Cycles = 1
	}
	t.cfg = cfg
	if t.status == StatusStopped {
		t.remaining = t.modeSeconds(t.mode)
	}
}

// Tick advances the countdown by one second. On reaching zero the timer
// transitions work->break (a long break after every Cycles completed
// work phases) or break->work, stops, and reports the transition.
func (t *Timer) Tick() Event {
	if t.status != StatusRunning {
		return EventNone
	}
	t.remaining--
	if t.remaining > 0 {
		return EventNone
	}

	switch t.mode {
	case ModeWork:
		t.completedCycles++
		if t.completedCycles%t.cfg.Cycles == 0 {
			t.mode = ModeLongBreak
		} else {
			t.mode = ModeShortBreak
		}
		t.status = StatusStopped
		t.remaining = t.modeSeconds(t.mode)
		return EventBreakStarted
	default:
		t.mode = ModeWork
		t.status = StatusStopped
		t.remaining = t.modeSeconds(ModeWork)
		return EventWorkStarted
	}
}

// Snapshot is the persistable timer state.
type Snapshot struct {
	Mode             Mode
	Status           Status
	RemainingSeconds int
	CompletedCycles  int
	LastUpdate       time.Time
}

// Snapshot captures the current state stamped with now.
func (t *Timer) Snapshot(now time.Time) Snapshot {
	return Snapshot{
		Mode:             t.mode,
		Status:           t.status,
		RemainingSeconds: t.remaining,
		CompletedCycles:  t.completedCycles,
		LastUpdate:       now,
	}
}

// Restore rebuilds a timer from a snapshot. A running snapshot is only
// resumed when fresher than StaleAfter; otherwise it comes back
// stopped at the snapshot's remaining time. Paused and stopped
// snapshots restore as-is regardless of age.
func Restore(cfg Config, snap Snapshot, now time.Time) *Timer {
	t := New(cfg)
	switch snap.Mode {
	case ModeWork, ModeShortBreak, ModeLongBreak:
		t.mode = snap.Mode
	default:
		return t
	}
	t.completedCycles = snap.CompletedCycles
	t.remaining = snap.RemainingSeconds
	if t.remaining <= 0 || t.remaining > t.modeSeconds(t.mode) {
		t.remaining = t.modeSeconds(t.mode)
	}

	switch snap.Status {
	case StatusRunning:
		if now.Sub(snap.LastUpdate) <= StaleAfter {
			t.status = StatusRunning
		} else {
			t.status = StatusStopped
		}
	case StatusPaused:
		t.status = StatusPaused
	default:
		t.status = StatusStopped
	}
	return t
}
