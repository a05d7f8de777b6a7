package tui

import (
	"fmt"
	"time"
)

// localScope is the owner scope for reports logged from this machine.
// Access codes generated in the access view map remote viewers onto it.
const localScope = "local"

// viewState represents the currently active view.
type viewState int

const (
	viewReports viewState = iota
	viewPomodoro
	viewAccess
	viewSettings
)

var viewNames = []string{"Reports", "Pomodoro", "Access", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatClock(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
