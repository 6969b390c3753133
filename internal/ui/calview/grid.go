package calview

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/task-calendar/internal/calendar"
	"github.com/nhle/task-calendar/internal/model"
	"github.com/nhle/task-calendar/internal/theme"
)

const (
	gutterWidth    = 6
	minColumnWidth = 3
	multiDayMarker = "↔ "
	completedMark  = "✓ "

	// eps absorbs float error so that 100/3 + 100/3 lands on the same
	// column as 2*100/3.
	eps = 1e-9
)

// blockRows converts a pixel placement into a top row and a row count on a
// grid with rowsPerHour rows per hour. Every block gets at least one row.
func blockRows(pos calendar.Position, g calendar.Geometry, rowsPerHour int) (top, rows int) {
	scale := float64(rowsPerHour) / g.HourHeight
	top = int(math.Floor(pos.Top*scale + eps))
	rows = max(1, int(math.Ceil(pos.Height*scale-eps)))
	return top, rows
}

// blockCols converts Left/Width percentages into a column offset and width
// within a day column colWidth wide. Adjacent lanes share their boundary
// column exactly, and every block is at least one column wide.
func blockCols(pos calendar.Position, colWidth int) (x, w int) {
	if colWidth <= 0 {
		return 0, 0
	}
	cw := float64(colWidth)
	x = int(math.Floor(pos.Left*cw/100 + eps))
	end := int(math.Floor((pos.Left+pos.Width)*cw/100 + eps))
	x = min(max(x, 0), colWidth-1)
	w = min(max(1, end-x), colWidth-x)
	return x, w
}

// timeGrid renders one or more day columns against a 24-hour gutter.
type timeGrid struct {
	days        []calendar.Day
	tasks       []model.Task
	geometry    calendar.Geometry
	rowsPerHour int
	width       int
	now         time.Time
	cursor      calendar.Day
	selected    string
}

// columnWidth returns the width of each day column after the gutter and
// one separator per day.
func (g timeGrid) columnWidth() int {
	n := len(g.days)
	if n == 0 {
		return 0
	}
	return max(minColumnWidth, (g.width-gutterWidth-n)/n)
}

// columnX returns the first column of day i.
func (g timeGrid) columnX(i int) int {
	return gutterWidth + i*(g.columnWidth()+1) + 1
}

func (g timeGrid) totalWidth() int {
	return g.columnX(len(g.days)) - 1
}

func (g timeGrid) rows() int {
	return 24 * g.rowsPerHour
}

// Header renders the row of day labels above the grid.
func (g timeGrid) Header() string {
	colWidth := g.columnWidth()
	today := calendar.DayOf(g.now)

	parts := []string{strings.Repeat(" ", gutterWidth)}
	for _, day := range g.days {
		label := day.Start.Format("Mon 2")
		if len(label) > colWidth {
			label = day.Start.Format("2")
		}

		style := theme.DayHeaderStyle
		switch {
		case day.Equal(g.cursor):
			style = theme.CursorHeaderStyle
		case day.Equal(today):
			style = theme.TodayHeaderStyle
		}
		parts = append(parts, " ", style.Width(colWidth).Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// Body paints the hour gutter, the grid lines, the current-time line and
// every task block.
func (g timeGrid) Body() *canvas {
	c := newCanvas(g.totalWidth(), g.rows())
	colWidth := g.columnWidth()

	dim := c.addStyle(theme.DimmedStyle)
	gridLine := c.addStyle(theme.GridLineStyle)
	nowLine := c.addStyle(theme.NowLineStyle)

	for h := 0; h < 24; h++ {
		row := h * g.rowsPerHour
		c.text(0, row, gutterWidth-1, fmt.Sprintf("%02d:00", h), dim)
	}

	for i, day := range g.days {
		x := g.columnX(i)
		c.fill(x-1, 0, 1, g.rows(), '│', gridLine)
		for h := 1; h < 24; h++ {
			c.fill(x, h*g.rowsPerHour, colWidth, 1, '┈', gridLine)
		}
		if day.Contains(g.now) {
			top, _ := blockRows(calendar.Position{Top: g.minuteTop(g.now, day)}, g.geometry, g.rowsPerHour)
			c.fill(x, top, colWidth, 1, '─', nowLine)
		}
		g.paintDay(c, day, x, colWidth)
	}

	return c
}

// minuteTop returns the pixel offset of t within day.
func (g timeGrid) minuteTop(t time.Time, day calendar.Day) float64 {
	local := t.In(day.Location())
	return (float64(local.Hour()) + float64(local.Minute())/60) * g.geometry.HourHeight
}

// paintDay lays out and draws the tasks of one day column at column x0.
func (g timeGrid) paintDay(c *canvas, day calendar.Day, x0, colWidth int) {
	tasks := calendar.TasksForDay(g.tasks, day)
	if len(tasks) == 0 {
		return
	}
	positions := g.geometry.LayoutDay(tasks, day)

	for _, task := range calendar.SortForRender(tasks, day) {
		pos := positions[task.ID]
		top, rows := blockRows(pos, g.geometry, g.rowsPerHour)
		top = min(top, g.rows()-1)
		rows = min(rows, g.rows()-top)
		x, w := blockCols(pos, colWidth)

		status := calendar.Classify(task, g.now)
		style := c.addStyle(theme.TaskBlockStyle(status, task.ID == g.selected))
		c.fill(x0+x, top, w, rows, ' ', style)
		c.text(x0+x, top, w, blockTitle(task), style)

		if rows > 1 {
			start, end := calendar.Clip(task, day)
			c.text(x0+x, top+1, w, timeRange(start, end, day), style)
		}
	}
}

// blockTitle is the first line of a task block.
func blockTitle(task model.Task) string {
	var b strings.Builder
	if task.Completed {
		b.WriteString(completedMark)
	}
	if task.IsMultiDay() {
		b.WriteString(multiDayMarker)
	}
	b.WriteString(task.Title)
	return b.String()
}

// timeRange formats a clipped slice such as "09:00-10:30".
func timeRange(start, end time.Time, day calendar.Day) string {
	loc := day.Location()
	return start.In(loc).Format("15:04") + "-" + end.In(loc).Format("15:04")
}
