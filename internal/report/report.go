// Package report turns flat study records into the grouped, duration
// annotated daily view. Grouping is by exact string equality of the
// stored YYYY/MM/DD date: the zero padded form sorts lexicographically
// in date order, so callers must keep dates normalized upstream.
package report

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rampup-app/rampup/internal/jalali"
	"github.com/rampup-app/rampup/internal/store"
)

// ErrInvalidTime reports a time string that is not HH:MM.
var ErrInvalidTime = errors.New("invalid time format")

// DayGroup is the ephemeral aggregation of one civil date. It is
// recomputed on every read and never persisted.
type DayGroup struct {
	Date         string
	DayName      string
	Records      []store.Report
	TotalMinutes int
}

// TotalDuration returns the group total formatted as HH:MM.
func (g DayGroup) TotalDuration() string {
	return FormatDuration(g.TotalMinutes)
}

// Filter applies the search predicates: dateQuery is a literal
// substring match on the raw date string ("1403/05" matches the whole
// month only because of containment), courseQuery a case-insensitive
// substring match on the course name. Both are ANDed; empty queries
// match everything.
func Filter(records []store.Report, dateQuery, courseQuery string) []store.Report {
	if dateQuery == "" && courseQuery == "" {
		return records
	}
	courseQuery = strings.ToLower(courseQuery)

	var out []store.Report
	for _, r := range records {
		if dateQuery != "" && !strings.Contains(r.Date, dateQuery) {
			continue
		}
		if courseQuery != "" && !strings.Contains(strings.ToLower(r.CourseName), courseQuery) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// parseTime parses HH:MM, tolerating an unpadded hour or minute.
func parseTime(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidTime, s)
	}
	return h*60 + m, nil
}

// ComputeDuration returns end minus start in minutes. A negative result
// is returned as-is: it marks a bad record (end before start) that
// callers must surface, never clamp or wrap.
func ComputeDuration(startTime, endTime string) (int, error) {
	start, err := parseTime(startTime)
	if err != nil {
		return 0, err
	}
	end, err := parseTime(endTime)
	if err != nil {
		return 0, err
	}
	return end - start, nil
}

// FormatDuration renders minutes as HH:MM, keeping a leading minus for
// negative values so bad records stay visible.
func FormatDuration(minutes int) string {
	sign := ""
	if minutes < 0 {
		sign = "-"
		minutes = -minutes
	}
	return fmt.Sprintf("%s%02d:%02d", sign, minutes/60, minutes%60)
}

// NormalizeTime re-renders a tolerated time string as zero-padded HH:MM.
func NormalizeTime(s string) (string, error) {
	total, err := parseTime(s)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60), nil
}

// GroupByDate sorts records by (date desc, start time asc) and
// partitions them into contiguous per-date groups. The sort is stable,
// so equal start times keep their arrival order. Records with
// unparseable times contribute zero to the group total; the per-record
// duration still fails loudly when asked for directly.
func GroupByDate(records []store.Report) []DayGroup {
	sorted := make([]store.Report, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Date != sorted[j].Date {
			return sorted[i].Date > sorted[j].Date
		}
		return sorted[i].StartTime < sorted[j].StartTime
	})

	var groups []DayGroup
	for _, r := range sorted {
		if len(groups) == 0 || groups[len(groups)-1].Date != r.Date {
			dayName, err := jalali.WeekdayName(r.Date)
			if err != nil {
				dayName = "" // degrade to an empty label, never crash
			}
			groups = append(groups, DayGroup{Date: r.Date, DayName: dayName})
		}
		g := &groups[len(groups)-1]
		g.Records = append(g.Records, r)
		if mins, err := ComputeDuration(r.StartTime, r.EndTime); err == nil {
			g.TotalMinutes += mins
		}
	}
	return groups
}

// DayChange reports the day-over-day change in percent. A zero baseline
// with any activity today is defined as a flat +100% increase; dividing
// would be meaningless, and hiding the day entirely would be worse.
func DayChange(prevMinutes, curMinutes int) int {
	if prevMinutes == 0 {
		if curMinutes == 0 {
			return 0
		}
		return 100
	}
	return (curMinutes - prevMinutes) * 100 / prevMinutes
}

// ClockLabel maps a 24-hour HH:MM to the 12-hour Persian label used in
// shared report text. Two fixed buckets: صبح before noon, بعدازظهر from
// noon on; hour 0 renders as 12.
func ClockLabel(time24 string) (string, error) {
	total, err := parseTime(time24)
	if err != nil {
		return "", err
	}
	hour, minute := total/60, total%60
	suffix := "صبح"
	if hour >= 12 {
		suffix = "بعدازظهر"
		if hour > 12 {
			hour -= 12
		}
	}
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour, minute, suffix), nil
}

// FormatText renders a day group as the shareable plain-text report.
func FormatText(g DayGroup) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 جمع ساعات مطالعه شما در تاریخ %s (%s)\n\n", g.Date, g.DayName)
	fmt.Fprintf(&sb, "🕒 مجموع ساعات: %s\n\n", g.TotalDuration())
	sb.WriteString("📋 گزارش مطالعات:\n\n")

	for i, r := range g.Records {
		dur := "?"
		if mins, err := ComputeDuration(r.StartTime, r.EndTime); err == nil {
			dur = FormatDuration(mins)
		}
		startLabel, err := ClockLabel(r.StartTime)
		if err != nil {
			startLabel = r.StartTime
		}
		endLabel, err := ClockLabel(r.EndTime)
		if err != nil {
			endLabel = r.EndTime
		}

		fmt.Fprintf(&sb, "%d. %s\n", i+1, r.CourseName)
		fmt.Fprintf(&sb, "   ⏱ زمان: %s تا %s (%s)\n", startLabel, endLabel, dur)
		if r.Description != "" {
			fmt.Fprintf(&sb, "   📝 توضیحات: %s\n", r.Description)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Summary flattens a slice of groups into the course/time lines fed to
// the advisory prompts.
func Summary(groups []DayGroup) string {
	var sb strings.Builder
	for _, g := range groups {
		fmt.Fprintf(&sb, "%s (%s): %s\n", g.Date, g.DayName, g.TotalDuration())
		for _, r := range g.Records {
			dur := ""
			if mins, err := ComputeDuration(r.StartTime, r.EndTime); err == nil {
				dur = FormatDuration(mins)
			}
			fmt.Fprintf(&sb, "  - %s %s-%s (%s)\n", r.CourseName, r.StartTime, r.EndTime, dur)
		}
	}
	return sb.String()
}
