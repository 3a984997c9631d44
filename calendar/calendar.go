package calendar

import "time"

// CalendarID identifies a holiday calendar.
type CalendarID string

const (
	TARGET CalendarID = "TARGET"
	JPN    CalendarID = "JPN"
	USD    CalendarID = "USD"
	GBP    CalendarID = "GBP"
)

// Fixed-date holidays observed every year, keyed "MM-DD".
var targetFixed = map[string]struct{}{
	"01-01": {}, // New Year's Day
	"05-01": {}, // Labour Day
	"12-25": {}, // Christmas
	"12-26": {}, // Goodwill Day
}

var jpnFixed = map[string]struct{}{
	"01-01": {},
	"01-02": {},
	"01-03": {},
	"02-11": {},
	"02-23": {},
	"04-29": {},
	"05-03": {},
	"05-04": {},
	"05-05": {},
	"11-03": {},
	"11-23": {},
	"12-31": {},
}

var usdFixed = map[string]struct{}{
	"01-01": {},
	"06-19": {},
	"07-04": {},
	"11-11": {},
	"12-25": {},
}

var gbpFixed = map[string]struct{}{
	"01-01": {},
	"12-25": {},
	"12-26": {},
}

func isHoliday(cal CalendarID, t time.Time) bool {
	key := t.Format("01-02")
	switch cal {
	case TARGET:
		_, ok := targetFixed[key]
		return ok
	case JPN:
		_, ok := jpnFixed[key]
		return ok
	case USD:
		_, ok := usdFixed[key]
		return ok
	case GBP:
		_, ok := gbpFixed[key]
		return ok
	default:
		return false
	}
}

// IsBusinessDay checks weekends and holiday sets.
func IsBusinessDay(cal CalendarID, t time.Time) bool {
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	return !isHoliday(cal, t)
}

// Adjust applies Modified Following.
func Adjust(cal CalendarID, t time.Time) time.Time {
	origMonth := t.Month()
	for !IsBusinessDay(cal, t) {
		t = t.AddDate(0, 0, 1)
	}
	if t.Month() != origMonth {
		t = t.AddDate(0, 0, -1)
		for !IsBusinessDay(cal, t) {
			t = t.AddDate(0, 0, -1)
		}
	}
	return t
}

// AdjustFollowing applies a simple Following convention (no month preservation).
func AdjustFollowing(cal CalendarID, t time.Time) time.Time {
	for !IsBusinessDay(cal, t) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

// AdjustPreceding rolls backward to the previous business day.
func AdjustPreceding(cal CalendarID, t time.Time) time.Time {
	for !IsBusinessDay(cal, t) {
		t = t.AddDate(0, 0, -1)
	}
	return t
}

// AddBusinessDays advances n business days (n can be negative).
func AddBusinessDays(cal CalendarID, t time.Time, n int) time.Time {
	step := 1
	if n < 0 {
		step = -1
	}
	for n != 0 {
		t = t.AddDate(0, 0, step)
		if IsBusinessDay(cal, t) {
			n -= step
		}
	}
	return t
}

// LastBusinessDayOfMonth returns the last business day of the month containing t.
func LastBusinessDayOfMonth(cal CalendarID, t time.Time) time.Time {
	nextMonth := time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	return AddBusinessDays(cal, nextMonth, -1)
}

// IsEndOfMonth checks if t is the last business day of its month.
func IsEndOfMonth(cal CalendarID, t time.Time) bool {
	return t.Equal(LastBusinessDayOfMonth(cal, t))
}
