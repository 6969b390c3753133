package calendar

import (
	"strconv"
	"time"

	"github.com/nhle/task-calendar/internal/model"
)

// Default layout constants.
const (
	DefaultHourHeight    = 60.0 // pixels per hour
	DefaultMinTaskHeight = 25.0 // pixel floor for a task block
)

// Geometry holds the pixel constants used to place tasks on a day grid.
type Geometry struct {
	HourHeight    float64
	MinTaskHeight float64
}

// DefaultGeometry returns the 60px-per-hour, 25px-floor geometry.
func DefaultGeometry() Geometry {
	return Geometry{HourHeight: DefaultHourHeight, MinTaskHeight: DefaultMinTaskHeight}
}

// DayHeight is the pixel height of a full 24-hour grid.
func (g Geometry) DayHeight() float64 {
	return 24 * g.HourHeight
}

// Position is a task's placement on a day grid. Top and Height are pixels;
// Left and Width are percentages of the day column.
type Position struct {
	Top    float64
	Height float64
	Width  float64
	Left   float64
}

// WidthCSS renders Width as a percentage string such as "50%".
func (p Position) WidthCSS() string {
	return formatPercent(p.Width)
}

// LeftCSS renders Left as a percentage string such as "0%".
func (p Position) LeftCSS() string {
	return formatPercent(p.Left)
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

// Clip returns the part of the task's interval that falls within day.
// The result is inverted (end before start) when the task's own interval
// is inverted or it does not touch the day.
func Clip(task model.Task, day Day) (start, end time.Time) {
	start, end = task.StartDate, task.DueDate
	if start.Before(day.Start) {
		start = day.Start
	}
	if end.After(day.End) {
		end = day.End
	}
	return start, end
}

// PositionInDay computes the vertical placement of task on day using the
// default geometry.
func PositionInDay(task model.Task, day Day) Position {
	return DefaultGeometry().PositionInDay(task, day)
}

// PositionInDay computes the vertical placement of task on day. Width is
// 100% and Left is 0%, the placement of a task with no overlapping peers.
// Very short, zero-length and inverted slices are floored to MinTaskHeight.
func (g Geometry) PositionInDay(task model.Task, day Day) Position {
	start, end := Clip(task, day)
	return Position{
		Top:    g.top(start, day),
		Height: g.height(start, end),
		Width:  100,
		Left:   0,
	}
}

func (g Geometry) top(start time.Time, day Day) float64 {
	local := start.In(day.Location())
	hours := float64(local.Hour()) + float64(local.Minute())/60
	return hours * g.HourHeight
}

func (g Geometry) height(start, end time.Time) float64 {
	// Whole minutes, truncated toward zero; negative for inverted slices.
	minutes := int64(end.Sub(start) / time.Minute)
	return max(g.MinTaskHeight, float64(minutes)/60*g.HourHeight)
}
