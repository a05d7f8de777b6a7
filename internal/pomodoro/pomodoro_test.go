package pomodoro

import (
	"testing"
	"time"
)

func testConfig() Config {
	return Config{
		Work:       3 * time.Second,
		ShortBreak: 2 * time.Second,
		LongBreak:  4 * time.Second,
		Cycles:     2,
	}
}

// runOut ticks a running timer until it transitions, returning the event.
func runOut(t *testing.T, tm *Timer) Event {
	t.Helper()
	for i := 0; i < 10000; i++ {
		if ev := tm.Tick(); ev != EventNone {
			return ev
		}
	}
	t.Fatal("timer never transitioned")
	return EventNone
}

// ============================================================
// Basic transitions
// ============================================================

func TestNewTimerStopped(t *testing.T) {
	tm := New(testConfig())
	if tm.Status() != StatusStopped || tm.Mode() != ModeWork {
		t.Fatalf("new timer: %s/%s", tm.Status(), tm.Mode())
	}
	if tm.Remaining() != 3 {
		t.Fatalf("remaining = %d, want 3", tm.Remaining())
	}
}

func TestStartIdempotent(t *testing.T) {
	tm := New(testConfig())
	tm.Start()
	tm.Tick()
	before := tm.Remaining()

	// Starting again while running must not reset anything.
	tm.Start()
	if tm.Remaining() != before {
		t.Fatalf("second Start changed remaining: %d -> %d", before, tm.Remaining())
	}
	if tm.Status() != StatusRunning {
		t.Fatal("should still be running")
	}
}

func TestTickOnlyWhenRunning(t *testing.T) {
	tm := New(testConfig())
	if ev := tm.Tick(); ev != EventNone {
		t.Fatal("stopped timer should not tick")
	}
	if tm.Remaining() != 3 {
		t.Fatal("stopped timer must not decrement")
	}

	tm.Start()
	tm.Pause()
	if ev := tm.Tick(); ev != EventNone {
		t.Fatal("paused timer should not tick")
	}
	if tm.Remaining() != 3 {
		t.Fatal("paused timer must not decrement")
	}
}

func TestPauseKeepsRemaining(t *testing.T) {
	tm := New(testConfig())
	tm.Start()
	tm.Tick()
	tm.Pause()
	if tm.Remaining() != 2 {
		t.Fatalf("remaining = %d, want 2", tm.Remaining())
	}
	tm.Start() // resume
	if tm.Status() != StatusRunning || tm.Remaining() != 2 {
		t.Fatal("resume should continue from paused remaining")
	}
}

func TestReset(t *testing.T) {
	tm := New(testConfig())
	tm.Start()
	tm.Tick()
	tm.Reset()
	if tm.Status() != StatusStopped {
		t.Fatal("reset should stop the timer")
	}
	if tm.Remaining() != 3 {
		t.Fatalf("reset remaining = %d, want full work duration", tm.Remaining())
	}
}

func TestSetMode(t *testing.T) {
	tm := New(testConfig())
	tm.Start()
	tm.SetMode(ModeShortBreak)
	if tm.Status() != StatusStopped || tm.Mode() != ModeShortBreak || tm.Remaining() != 2 {
		t.Fatalf("after SetMode: %s/%s remaining %d", tm.Status(), tm.Mode(), tm.Remaining())
	}
}

// ============================================================
// Work/break cycle
// ============================================================

func TestWorkToShortBreak(t *testing.T) {
	tm := New(testConfig())
	tm.Start()
	ev := runOut(t, tm)
	if ev != EventBreakStarted {
		t.Fatalf("event = %v, want EventBreakStarted", ev)
	}
	if tm.Mode() != ModeShortBreak {
		t.Fatalf("mode = %s, want shortBreak", tm.Mode())
	}
	if tm.Status() != StatusStopped {
		t.Fatal("timer stops at a transition until started again")
	}
	if tm.CompletedCycles() != 1 {
		t.Fatalf("cycles = %d, want 1", tm.CompletedCycles())
	}
	if tm.Remaining() != 2 {
		t.Fatalf("remaining = %d, want short break duration", tm.Remaining())
	}
}

func TestLongBreakEveryNthCycle(t *testing.T) {
	tm := New(testConfig()) // Cycles: 2

	// First work phase -> short break.
	tm.Start()
	runOut(t, tm)
	if tm.Mode() != ModeShortBreak {
		t.Fatalf("after cycle 1: %s", tm.Mode())
	}

	// Break -> work.
	tm.Start()
	if ev := runOut(t, tm); ev != EventWorkStarted {
		t.Fatal("break should transition back to work")
	}

	// Second work phase -> long break.
	tm.Start()
	runOut(t, tm)
	if tm.Mode() != ModeLongBreak {
		t.Fatalf("after cycle 2: %s, want longBreak", tm.Mode())
	}
	if tm.Remaining() != 4 {
		t.Fatalf("remaining = %d, want long break duration", tm.Remaining())
	}
}

func TestBreakBackToWork(t *testing.T) {
	tm := New(testConfig())
	tm.SetMode(ModeLongBreak)
	tm.Start()
	ev := runOut(t, tm)
	if ev != EventWorkStarted || tm.Mode() != ModeWork {
		t.Fatalf("long break should return to work, got %v/%s", ev, tm.Mode())
	}
}

// ============================================================
// Snapshot / restore
// ============================================================

func TestSnapshotRestoreFresh(t *testing.T) {
	tm := New(testConfig())
	tm.Start()
	tm.Tick()

	now := time.Now()
	snap := tm.Snapshot(now)

	restored := Restore(testConfig(), snap, now.Add(30*time.Second))
	if restored.Status() != StatusRunning {
		t.Fatalf("fresh running snapshot should resume, got %s", restored.Status())
	}
	if restored.Remaining() != 2 || restored.Mode() != ModeWork {
		t.Fatalf("restored state: %d/%s", restored.Remaining(), restored.Mode())
	}
}

func TestSnapshotRestoreStale(t *testing.T) {
	tm := New(testConfig())
	tm.Start()
	tm.Tick()

	now := time.Now()
	snap := tm.Snapshot(now)

	// Past the staleness window: restore stopped, do not fast-forward.
	restored := Restore(testConfig(), snap, now.Add(5*time.Minute))
	if restored.Status() != StatusStopped {
		t.Fatalf("stale running snapshot should restore stopped, got %s", restored.Status())
	}
	if restored.Remaining() != 2 {
		t.Fatalf("remaining should be kept as-is, got %d", restored.Remaining())
	}
}

func TestSnapshotRestorePausedIgnoresAge(t *testing.T) {
	tm := New(testConfig())
	tm.Start()
	tm.Tick()
	tm.Pause()

	now := time.Now()
	snap := tm.Snapshot(now)

	restored := Restore(testConfig(), snap, now.Add(24*time.Hour))
	if restored.Status() != StatusPaused {
		t.Fatalf("paused snapshot restores paused regardless of age, got %s", restored.Status())
	}
	if restored.Remaining() != 2 {
		t.Fatalf("remaining = %d, want 2", restored.Remaining())
	}
}

func TestRestoreGarbageSnapshot(t *testing.T) {
	restored := Restore(testConfig(), Snapshot{Mode: "weird", Status: "???", RemainingSeconds: -4}, time.Now())
	if restored.Status() != StatusStopped || restored.Mode() != ModeWork {
		t.Fatalf("garbage snapshot should fall back to a fresh timer: %s/%s", restored.Status(), restored.Mode())
	}
	if restored.Remaining() != 3 {
		t.Fatalf("remaining = %d, want full work duration", restored.Remaining())
	}
}

func TestRestoreClampsOversizedRemaining(t *testing.T) {
	snap := Snapshot{Mode: ModeShortBreak, Status: StatusStopped, RemainingSeconds: 9999}
	restored := Restore(testConfig(), snap, time.Now())
	if restored.Remaining() != 2 {
		t.Fatalf("oversized remaining should clamp to mode duration, got %d", restored.Remaining())
	}
}

func TestRestorePreservesCycles(t *testing.T) {
	snap := Snapshot{Mode: ModeWork, Status: StatusStopped, RemainingSeconds: 1, CompletedCycles: 3}
	restored := Restore(testConfig(), snap, time.Now())
	if restored.CompletedCycles() != 3 {
		t.Fatalf("cycles = %d, want 3", restored.CompletedCycles())
	}
}
