package store

import "time"

// Report is one logged study session. Date is a Jalali civil date in
// zero-padded YYYY/MM/DD form; StartTime and EndTime are wall-clock
// HH:MM within that day.
type Report struct {
	ID          string    `json:"id"`
	OwnerScope  string    `json:"owner_scope"`
	Date        string    `json:"date"`
	CourseName  string    `json:"course_name"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// AccessCode maps a shareable code to a scope. Kind is either
// "private" (edit and delete) or "public" (read only).
type AccessCode struct {
	Scope     string
	Kind      string
	Code      string
	CreatedAt time.Time
}

const (
	CodeKindPrivate = "private"
	CodeKindPublic  = "public"
)

// PomodoroSnapshot is the persisted countdown state. LastUpdate
// decides at load time whether a running timer may be resumed.
type PomodoroSnapshot struct {
	Mode             string
	Status           string
	RemainingSeconds int
	CompletedCycles  int
	LastUpdate       time.Time
}

type Setting struct {
	Key   string
	Value string
}
