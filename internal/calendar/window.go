// Package calendar computes which tasks are visible in a time window and
// where each one is drawn on a day grid. Every function is pure: inputs are
// read-only task snapshots, outputs are fresh values, and nothing is cached.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Window is a closed time range [Start, End].
type Window struct {
	Start time.Time
	End   time.Time
}

// Day is a single calendar day: Start is midnight and End is the last
// instant before the following midnight, both in the day's location.
type Day struct {
	Start time.Time
	End   time.Time
}

// DayOf returns the calendar day containing t, in t's location.
func DayOf(t time.Time) Day {
	start := startOfDay(t)
	return Day{Start: start, End: start.AddDate(0, 0, 1).Add(-time.Nanosecond)}
}

// Location returns the timezone the day boundaries were computed in.
func (d Day) Location() *time.Location {
	return d.Start.Location()
}

// Contains reports whether t falls within the day.
func (d Day) Contains(t time.Time) bool {
	return !t.Before(d.Start) && !t.After(d.End)
}

// Equal reports whether two days denote the same calendar day.
func (d Day) Equal(o Day) bool {
	return d.Start.Equal(o.Start)
}

// Key returns a stable identifier such as "2025-04-20".
func (d Day) Key() string {
	return d.Start.Format(time.DateOnly)
}

// Window returns the day as a closed window.
func (d Day) Window() Window {
	return Window{Start: d.Start, End: d.End}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayWindow returns the window covering the day that contains t.
func DayWindow(t time.Time) Window {
	return DayOf(t).Window()
}

// WeekWindow returns the window covering the week that contains t, where
// weeks begin on weekStart.
func WeekWindow(t time.Time, weekStart time.Weekday) Window {
	day := startOfDay(t)
	offset := (int(day.Weekday()) - int(weekStart) + 7) % 7
	start := day.AddDate(0, 0, -offset)
	end := start.AddDate(0, 0, 7).Add(-time.Nanosecond)
	return Window{Start: start, End: end}
}

// MonthWindow returns the window covering the month that contains t.
func MonthWindow(t time.Time) Window {
	y, m, _ := t.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return Window{Start: start, End: end}
}

// MonthGridWindow returns the whole weeks, starting on weekStart, that
// cover the month containing t. This is what a month grid draws.
func MonthGridWindow(t time.Time, weekStart time.Weekday) Window {
	month := MonthWindow(t)
	start := WeekWindow(month.Start, weekStart).Start
	end := WeekWindow(month.End, weekStart).End
	return Window{Start: start, End: end}
}

// Days lists every calendar day the window touches, in order.
func (w Window) Days() []Day {
	if w.End.Before(w.Start) {
		return nil
	}
	var days []Day
	for d := startOfDay(w.Start); !d.After(w.End); d = d.AddDate(0, 0, 1) {
		days = append(days, DayOf(d))
	}
	return days
}

// Contains reports whether t falls within the window (inclusive).
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// View is a calendar granularity.
type View string

const (
	ViewDay   View = "day"
	ViewWeek  View = "week"
	ViewMonth View = "month"
)

// Views lists the views in display order.
var Views = []View{ViewDay, ViewWeek, ViewMonth}

// ParseView parses a view name, case-insensitively.
func ParseView(s string) (View, error) {
	v := View(strings.ToLower(strings.TrimSpace(s)))
	switch v {
	case ViewDay, ViewWeek, ViewMonth:
		return v, nil
	}
	return "", fmt.Errorf("unknown view %q (want day, week or month)", s)
}

// Window returns the window the view shows around t.
func (v View) Window(t time.Time, weekStart time.Weekday) Window {
	switch v {
	case ViewDay:
		return DayWindow(t)
	case ViewMonth:
		return MonthWindow(t)
	default:
		return WeekWindow(t, weekStart)
	}
}

// Step moves t by n periods of the view (days, weeks or months).
func (v View) Step(t time.Time, n int) time.Time {
	switch v {
	case ViewDay:
		return t.AddDate(0, 0, n)
	case ViewMonth:
		// Anchor on the first of the month so Jan 31 + 1 month stays in February.
		y, m, _ := t.Date()
		first := time.Date(y, m, 1, t.Hour(), t.Minute(), 0, 0, t.Location())
		return first.AddDate(0, n, 0)
	default:
		return t.AddDate(0, 0, 7*n)
	}
}

// Title returns a human-readable heading for the view's period around t.
func (v View) Title(t time.Time, weekStart time.Weekday) string {
	switch v {
	case ViewDay:
		return t.Format("Monday, January 2, 2006")
	case ViewMonth:
		return t.Format("January 2006")
	default:
		w := WeekWindow(t, weekStart)
		return fmt.Sprintf("%s – %s", w.Start.Format("Jan 2"), w.End.Format("Jan 2, 2006"))
	}
}
