// Package jalali converts between Gregorian instants and Persian (Jalali)
// civil dates. All civil dates produced by the app go through this package
// so that the same calendar arithmetic and the same timezone anchor apply
// everywhere.
package jalali

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ErrInvalidDate reports a date string that is not a well-formed,
// in-range Jalali date.
var ErrInvalidDate = errors.New("invalid jalali date")

// Persian weekday names, Saturday first. The Persian week structurally
// starts on Saturday; index 0 is always شنبه regardless of what the
// underlying Gregorian library considers day zero.
var weekdayNames = [7]string{
	"شنبه",
	"یکشنبه",
	"دوشنبه",
	"سه‌شنبه",
	"چهارشنبه",
	"پنجشنبه",
	"جمعه",
}

var monthNames = [12]string{
	"فروردین", "اردیبهشت", "خرداد", "تیر", "مرداد", "شهریور",
	"مهر", "آبان", "آذر", "دی", "بهمن", "اسفند",
}

var dateRe = regexp.MustCompile(`^(\d{4})/(\d{1,2})/(\d{1,2})$`)

// tehran is the fixed civil timezone all dates are anchored to.
// Converting in UTC instead would shift the civil day around midnight.
var tehran = loadTehran()

func loadTehran() *time.Location {
	if loc, err := time.LoadLocation("Asia/Tehran"); err == nil {
		return loc
	}
	// No tzdata available; Iran has observed a fixed +03:30 since 2022.
	return time.FixedZone("IRST", 3*3600+30*60)
}

// Location returns the civil timezone used to derive dates.
func Location() *time.Location {
	return tehran
}

// ToJalali converts an instant to a Jalali year, month and day in the
// app's civil timezone.
func ToJalali(t time.Time) (year, month, day int) {
	local := t.In(tehran)
	return gregorianToJalali(local.Year(), int(local.Month()), local.Day())
}

// FromJalali returns the midnight instant of the given Jalali date in
// the app's civil timezone.
func FromJalali(year, month, day int) (time.Time, error) {
	if month < 1 || month > 12 || day < 1 || day > MonthDays(year, month) {
		return time.Time{}, fmt.Errorf("%w: %04d/%02d/%02d out of range", ErrInvalidDate, year, month, day)
	}
	gy, gm, gd := jalaliToGregorian(year, month, day)
	return time.Date(gy, time.Month(gm), gd, 0, 0, 0, 0, tehran), nil
}

// Format renders a Jalali date as zero-padded YYYY/MM/DD. The padding is
// load-bearing: report grouping sorts these strings lexicographically.
func Format(year, month, day int) string {
	return fmt.Sprintf("%04d/%02d/%02d", year, month, day)
}

// FormatTime renders the civil date of an instant as YYYY/MM/DD.
func FormatTime(t time.Time) string {
	return Format(ToJalali(t))
}

// Parse validates a YYYY/MM/DD date string (unpadded month/day
// tolerated) and returns its components.
func Parse(s string) (year, month, day int, err error) {
	m := dateRe.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	year, _ = strconv.Atoi(m[1])
	month, _ = strconv.Atoi(m[2])
	day, _ = strconv.Atoi(m[3])
	if month < 1 || month > 12 || day < 1 || day > MonthDays(year, month) {
		return 0, 0, 0, fmt.Errorf("%w: %q out of range", ErrInvalidDate, s)
	}
	return year, month, day, nil
}

// Today returns the current civil date as YYYY/MM/DD.
func Today() string {
	return FormatTime(time.Now())
}

// WeekdayName returns the Persian weekday name for a stored date string.
func WeekdayName(dateStr string) (string, error) {
	y, m, d, err := Parse(dateStr)
	if err != nil {
		return "", err
	}
	t, err := FromJalali(y, m, d)
	if err != nil {
		return "", err
	}
	// Go's week is Sunday-based; rotate so Saturday maps to index 0.
	idx := (int(t.Weekday()) + 1) % 7
	return weekdayNames[idx], nil
}

// AddDays shifts a civil date by n days, rolling over Jalali month and
// year boundaries.
func AddDays(dateStr string, n int) (string, error) {
	y, m, d, err := Parse(dateStr)
	if err != nil {
		return "", err
	}
	t, err := FromJalali(y, m, d)
	if err != nil {
		return "", err
	}
	return FormatTime(t.AddDate(0, 0, n)), nil
}

// IsLeapYear reports whether a Jalali year has a 30-day Esfand.
func IsLeapYear(year int) bool {
	return dayNumber(year+1, 1, 1)-dayNumber(year, 1, 1) == 366
}

// MonthDays returns the length of a Jalali month: the first six months
// have 31 days, the next five 30, and Esfand 29 or 30 in leap years.
func MonthDays(year, month int) int {
	switch {
	case month <= 6:
		return 31
	case month <= 11:
		return 30
	default:
		if IsLeapYear(year) {
			return 30
		}
		return 29
	}
}

// MonthName returns the Persian name of a Jalali month (1-based).
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}

// Day-count conversion. The epoch offsets and cycle constants come from
// the standard 33-year-cycle Jalali algorithm; both directions share the
// same day numbering so round trips are exact.

var gregorianDaysBefore = [12]int{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}

func gregorianToJalali(gy, gm, gd int) (jy, jm, jd int) {
	gy2 := gy
	if gm > 2 {
		gy2 = gy + 1
	}
	days := 355666 + 365*gy + (gy2+3)/4 - (gy2+99)/100 + (gy2+399)/400 + gd + gregorianDaysBefore[gm-1]

	jy = -1595 + 33*(days/12053)
	days %= 12053
	jy += 4 * (days / 1461)
	days %= 1461
	if days > 365 {
		jy += (days - 1) / 365
		days = (days - 1) % 365
	}
	if days < 186 {
		jm = 1 + days/31
		jd = 1 + days%31
	} else {
		jm = 7 + (days-186)/30
		jd = 1 + (days-186)%30
	}
	return jy, jm, jd
}

// dayNumber maps a Jalali date onto the shared linear day count.
func dayNumber(jy, jm, jd int) int {
	jy1 := jy + 1595
	days := -355668 + 365*jy1 + (jy1/33)*8 + ((jy1%33)+3)/4 + jd
	if jm < 7 {
		days += (jm - 1) * 31
	} else {
		days += (jm-7)*30 + 186
	}
	return days
}

func jalaliToGregorian(jy, jm, jd int) (gy, gm, gd int) {
	days := dayNumber(jy, jm, jd)

	gy = 400 * (days / 146097)
	days %= 146097
	if days > 36524 {
		days--
		gy += 100 * (days / 36524)
		days %= 36524
		if days >= 365 {
			days++
		}
	}
	gy += 4 * (days / 1461)
	days %= 1461
	if days > 365 {
		gy += (days - 1) / 365
		days = (days - 1) % 365
	}
	gd = days + 1

	leap := (gy%4 == 0 && gy%100 != 0) || gy%400 == 0
	monthLens := [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	if leap {
		monthLens[1] = 29
	}
	gm = 1
	for gm <= 12 && gd > monthLens[gm-1] {
		gd -= monthLens[gm-1]
		gm++
	}
	return gy, gm, gd
}
