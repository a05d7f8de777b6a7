package report

import (
	"errors"
	"strings"
	"testing"

	"github.com/rampup-app/rampup/internal/store"
)

func rec(date, course, start, end string) store.Report {
	return store.Report{Date: date, CourseName: course, StartTime: start, EndTime: end}
}

// ============================================================
// Duration arithmetic
// ============================================================

func TestComputeDuration(t *testing.T) {
	tests := []struct {
		start, end string
		want       int
	}{
		{"09:05", "10:00", 55},
		{"00:00", "23:59", 1439},
		{"9:5", "10:00", 55}, // unpadded input tolerated
		{"12:30", "12:30", 0},
		{"14:00", "13:00", -60}, // negative preserved, not wrapped
	}
	for _, tc := range tests {
		got, err := ComputeDuration(tc.start, tc.end)
		if err != nil {
			t.Fatalf("ComputeDuration(%s, %s): %v", tc.start, tc.end, err)
		}
		if got != tc.want {
			t.Errorf("ComputeDuration(%s, %s) = %d, want %d", tc.start, tc.end, got, tc.want)
		}
	}
}

func TestComputeDurationMalformed(t *testing.T) {
	inputs := [][2]string{
		{"9:5", "garbage"},
		{"garbage", "10:00"},
		{"10", "11:00"},
		{"10:00:00", "11:00"},
		{"", "11:00"},
		{"25:00", "26:00"},
		{"10:75", "11:00"},
	}
	for _, in := range inputs {
		if _, err := ComputeDuration(in[0], in[1]); !errors.Is(err, ErrInvalidTime) {
			t.Errorf("ComputeDuration(%q, %q) err = %v, want ErrInvalidTime", in[0], in[1], err)
		}
	}
}

func TestDurationRoundTrip(t *testing.T) {
	// formatDuration(computeDuration(...)) reproduces the exact elapsed HH:MM.
	tests := []struct {
		start, end, want string
	}{
		{"09:05", "10:00", "00:55"},
		{"08:00", "12:30", "04:30"},
		{"00:00", "23:59", "23:59"},
	}
	for _, tc := range tests {
		mins, err := ComputeDuration(tc.start, tc.end)
		if err != nil {
			t.Fatal(err)
		}
		if got := FormatDuration(mins); got != tc.want {
			t.Errorf("FormatDuration(ComputeDuration(%s, %s)) = %s, want %s", tc.start, tc.end, got, tc.want)
		}
	}
}

func TestFormatDurationNegative(t *testing.T) {
	if got := FormatDuration(-60); got != "-01:00" {
		t.Errorf("FormatDuration(-60) = %s, want -01:00", got)
	}
	if got := FormatDuration(-5); got != "-00:05" {
		t.Errorf("FormatDuration(-5) = %s, want -00:05", got)
	}
}

func TestNormalizeTime(t *testing.T) {
	got, err := NormalizeTime("9:5")
	if err != nil {
		t.Fatal(err)
	}
	if got != "09:05" {
		t.Errorf("NormalizeTime(9:5) = %s, want 09:05", got)
	}
	if _, err := NormalizeTime("nope"); !errors.Is(err, ErrInvalidTime) {
		t.Errorf("expected ErrInvalidTime, got %v", err)
	}
}

// ============================================================
// Filtering
// ============================================================

func TestFilterANDSemantics(t *testing.T) {
	records := []store.Report{
		rec("1403/05/01", "Math", "09:00", "10:00"),
		rec("1403/05/01", "Physics", "10:00", "11:00"),
		rec("1403/05/02", "Math", "09:00", "10:00"),
		rec("1403/05/02", "Physics", "10:00", "11:00"),
	}

	got := Filter(records, "1403/05/01", "math")
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 record, got %d", len(got))
	}
	if got[0].CourseName != "Math" || got[0].Date != "1403/05/01" {
		t.Fatalf("wrong record: %+v", got[0])
	}
}

func TestFilterCaseInsensitiveCourse(t *testing.T) {
	records := []store.Report{rec("1403/05/01", "Math", "09:00", "10:00")}
	if got := Filter(records, "", "MATH"); len(got) != 1 {
		t.Fatal("course match should ignore case")
	}
	if got := Filter(records, "", "mAtH"); len(got) != 1 {
		t.Fatal("course match should ignore case")
	}
}

func TestFilterDateSubstring(t *testing.T) {
	records := []store.Report{
		rec("1403/05/01", "Math", "09:00", "10:00"),
		rec("1403/05/15", "Math", "09:00", "10:00"),
		rec("1403/06/01", "Math", "09:00", "10:00"),
	}
	// "1403/05" is literal containment, so it matches the whole month.
	if got := Filter(records, "1403/05", ""); len(got) != 2 {
		t.Fatalf("expected 2 month matches, got %d", len(got))
	}
}

func TestFilterEmptyMatchesAll(t *testing.T) {
	records := []store.Report{
		rec("1403/05/01", "Math", "09:00", "10:00"),
		rec("1403/05/02", "Physics", "09:00", "10:00"),
	}
	if got := Filter(records, "", ""); len(got) != 2 {
		t.Fatal("empty queries must match everything")
	}
}

func TestFilterNoMatchIsEmptyNotError(t *testing.T) {
	records := []store.Report{rec("1403/05/01", "Math", "09:00", "10:00")}
	if got := Filter(records, "1404", ""); len(got) != 0 {
		t.Fatal("unmatched filter should yield empty slice")
	}
}

// ============================================================
// Grouping
// ============================================================

func TestGroupByDateOrdering(t *testing.T) {
	records := []store.Report{
		rec("1403/05/01", "Math", "14:00", "15:00"),
		rec("1403/05/02", "Chem", "11:00", "12:00"),
		rec("1403/05/01", "Physics", "08:00", "09:30"),
		rec("1403/05/02", "Math", "09:00", "10:00"),
	}

	groups := GroupByDate(records)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	// Most recent day first.
	if groups[0].Date != "1403/05/02" || groups[1].Date != "1403/05/01" {
		t.Fatalf("wrong group order: %s, %s", groups[0].Date, groups[1].Date)
	}
	// Ascending start time within each day.
	if groups[0].Records[0].CourseName != "Math" || groups[0].Records[1].CourseName != "Chem" {
		t.Fatalf("wrong in-group order: %+v", groups[0].Records)
	}
	if groups[1].Records[0].StartTime != "08:00" {
		t.Fatalf("wrong in-group order: %+v", groups[1].Records)
	}
}

func TestGroupByDateTotals(t *testing.T) {
	records := []store.Report{
		rec("1403/05/01", "Math", "09:00", "10:30"),
		rec("1403/05/01", "Physics", "11:00", "11:45"),
	}
	groups := GroupByDate(records)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if groups[0].TotalMinutes != 135 {
		t.Fatalf("total = %d, want 135", groups[0].TotalMinutes)
	}
	if groups[0].TotalDuration() != "02:15" {
		t.Fatalf("formatted total = %s, want 02:15", groups[0].TotalDuration())
	}
}

func TestGroupByDateOverlapsCountFully(t *testing.T) {
	// Overlapping intervals both count: the model is logged effort, not
	// exclusive time allocation.
	records := []store.Report{
		rec("1403/05/01", "Math", "09:00", "10:00"),
		rec("1403/05/01", "Physics", "09:30", "10:30"),
	}
	groups := GroupByDate(records)
	if groups[0].TotalMinutes != 120 {
		t.Fatalf("total = %d, want 120", groups[0].TotalMinutes)
	}
}

func TestGroupByDateIdempotent(t *testing.T) {
	records := []store.Report{
		rec("1403/05/01", "Math", "14:00", "15:00"),
		rec("1403/05/02", "Chem", "11:00", "12:00"),
		rec("1403/05/01", "Physics", "08:00", "09:30"),
	}

	first := GroupByDate(records)

	// Flatten and regroup: same groups, same order.
	var flattened []store.Report
	for _, g := range first {
		flattened = append(flattened, g.Records...)
	}
	second := GroupByDate(flattened)

	if len(first) != len(second) {
		t.Fatalf("group count changed: %d -> %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Date != second[i].Date || first[i].TotalMinutes != second[i].TotalMinutes {
			t.Fatalf("group %d changed: %+v -> %+v", i, first[i], second[i])
		}
		for j := range first[i].Records {
			if first[i].Records[j] != second[i].Records[j] {
				t.Fatalf("record order changed in group %d", i)
			}
		}
	}
}

func TestGroupByDateStableTies(t *testing.T) {
	a := rec("1403/05/01", "First", "09:00", "10:00")
	b := rec("1403/05/01", "Second", "09:00", "10:00")
	groups := GroupByDate([]store.Report{a, b})
	if groups[0].Records[0].CourseName != "First" {
		t.Fatal("equal start times must keep arrival order")
	}
}

func TestGroupByDateDayName(t *testing.T) {
	// 1403/01/01 = 2024-03-20, a Wednesday.
	groups := GroupByDate([]store.Report{rec("1403/01/01", "Math", "09:00", "10:00")})
	if groups[0].DayName != "چهارشنبه" {
		t.Fatalf("day name = %s, want چهارشنبه", groups[0].DayName)
	}
}

func TestGroupByDateBadDateDegrades(t *testing.T) {
	groups := GroupByDate([]store.Report{rec("not-a-date", "Math", "09:00", "10:00")})
	if len(groups) != 1 {
		t.Fatal("bad date still forms a group")
	}
	if groups[0].DayName != "" {
		t.Fatalf("expected empty day name placeholder, got %q", groups[0].DayName)
	}
}

func TestGroupByDateEmptyInput(t *testing.T) {
	if groups := GroupByDate(nil); len(groups) != 0 {
		t.Fatal("no records, no groups")
	}
}

// ============================================================
// Day-over-day comparison
// ============================================================

func TestDayChangeZeroBaseline(t *testing.T) {
	// Yesterday 00:00, today 00:30 -> a fixed 100% increase, not a
	// division error.
	if got := DayChange(0, 30); got != 100 {
		t.Errorf("DayChange(0, 30) = %d, want 100", got)
	}
	if got := DayChange(0, 0); got != 0 {
		t.Errorf("DayChange(0, 0) = %d, want 0", got)
	}
}

func TestDayChange(t *testing.T) {
	if got := DayChange(60, 90); got != 50 {
		t.Errorf("DayChange(60, 90) = %d, want 50", got)
	}
	if got := DayChange(120, 60); got != -50 {
		t.Errorf("DayChange(120, 60) = %d, want -50", got)
	}
}

// ============================================================
// Persian clock labels
// ============================================================

func TestClockLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"00:15", "12:15 صبح"},
		{"09:05", "9:05 صبح"},
		{"11:59", "11:59 صبح"},
		{"12:00", "12:00 بعدازظهر"},
		{"13:30", "1:30 بعدازظهر"},
		{"23:45", "11:45 بعدازظهر"},
	}
	for _, tc := range tests {
		got, err := ClockLabel(tc.in)
		if err != nil {
			t.Fatalf("ClockLabel(%s): %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ClockLabel(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestClockLabelInvalid(t *testing.T) {
	if _, err := ClockLabel("nope"); !errors.Is(err, ErrInvalidTime) {
		t.Errorf("expected ErrInvalidTime, got %v", err)
	}
}

// ============================================================
// Shareable text
// ============================================================

func TestFormatText(t *testing.T) {
	r := rec("1403/01/01", "Math", "09:00", "10:30")
	r.Description = "حل تمرین"
	groups := GroupByDate([]store.Report{r})
	text := FormatText(groups[0])

	for _, want := range []string{
		"1403/01/01",
		"چهارشنبه",
		"🕒 مجموع ساعات: 01:30",
		"1. Math",
		"9:00 صبح",
		"10:30 صبح",
		"📝 توضیحات: حل تمرین",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("formatted text missing %q:\n%s", want, text)
		}
	}
}

func TestSummary(t *testing.T) {
	groups := GroupByDate([]store.Report{
		rec("1403/05/01", "Math", "09:00", "10:00"),
	})
	s := Summary(groups)
	if !strings.Contains(s, "1403/05/01") || !strings.Contains(s, "Math") || !strings.Contains(s, "01:00") {
		t.Fatalf("summary incomplete:\n%s", s)
	}
}
