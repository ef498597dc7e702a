package banstats

import (
	"errors"
	"time"
)

const monthKeyLayout = "2006-01"

var ErrFutureMonth = errors.New("cannot view future months")

// MonthStart truncates t to midnight UTC on the first of its month.
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthWindow returns [after, before) for the month containing month, clipped at now.
func MonthWindow(month, now time.Time) (after, before time.Time) {
	after = MonthStart(month)
	before = after.AddDate(0, 1, 0)
	if now.Before(before) {
		before = now.UTC()
	}
	return after, before
}

func PrevMonth(month time.Time) time.Time {
	return MonthStart(month).AddDate(0, -1, 0)
}

func NextMonth(month, now time.Time) (time.Time, error) {
	next := MonthStart(month).AddDate(0, 1, 0)
	if next.After(now) {
		return time.Time{}, ErrFutureMonth
	}
	return next, nil
}

func MonthKey(month time.Time) string {
	return MonthStart(month).Format(monthKeyLayout)
}

func ParseMonthKey(key string) (time.Time, error) {
	return time.Parse(monthKeyLayout, key)
}
