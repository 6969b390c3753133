package calview

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/task-calendar/internal/calendar"
	"github.com/nhle/task-calendar/internal/model"
	"github.com/nhle/task-calendar/internal/theme"
)

// maxCellTasks is the number of tasks listed in a month cell before the
// rest collapse into "+N more".
const maxCellTasks = 3

// cellTasks splits a day's tasks into the ones listed in a cell with room
// for lines rows and the count hidden behind "+N more".
func cellTasks(tasks []model.Task, lines int) (shown []model.Task, more int) {
	limit := min(maxCellTasks, lines)
	if limit <= 0 {
		return nil, len(tasks)
	}
	if len(tasks) <= limit {
		return tasks, 0
	}
	// The "+N more" line needs a row of its own when the cell is full.
	if limit == lines {
		limit--
	}
	return tasks[:limit], len(tasks) - limit
}

// monthGrid renders whole weeks as a 7-column grid.
type monthGrid struct {
	days     []calendar.Day
	month    time.Month
	tasks    []model.Task
	width    int
	height   int
	now      time.Time
	cursor   calendar.Day
	selected string
}

func (g monthGrid) weeks() int {
	return len(g.days) / 7
}

func (g monthGrid) cellWidth() int {
	return max(minColumnWidth, (g.width-6)/7)
}

// cellHeight divides the height left after the weekday row and the rules
// between weeks. Each cell keeps room for its date and one task.
func (g monthGrid) cellHeight() int {
	weeks := g.weeks()
	if weeks == 0 {
		return 0
	}
	return max(2, (g.height-1-(weeks-1))/weeks)
}

// Header renders the weekday names.
func (g monthGrid) Header() string {
	cw := g.cellWidth()
	parts := make([]string, 0, 13)
	for i := 0; i < 7 && i < len(g.days); i++ {
		if i > 0 {
			parts = append(parts, " ")
		}
		name := g.days[i].Start.Format("Mon")
		parts = append(parts, theme.DayHeaderStyle.Width(cw).Render(name))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// Body paints every cell.
func (g monthGrid) Body() *canvas {
	cw, ch := g.cellWidth(), g.cellHeight()
	weeks := g.weeks()
	c := newCanvas(7*cw+6, weeks*ch+max(weeks-1, 0))

	gridLine := c.addStyle(theme.GridLineStyle)
	dim := c.addStyle(theme.DimmedStyle)
	dateStyle := c.addStyle(lipgloss.NewStyle().Bold(true))
	todayStyle := c.addStyle(theme.TodayHeaderStyle.UnsetWidth().UnsetAlign())
	cursorStyle := c.addStyle(theme.CursorHeaderStyle.UnsetWidth().UnsetAlign())
	moreStyle := c.addStyle(theme.HelpStyle)

	statusStyles := make(map[calendar.Status]int, len(calendar.Statuses))
	for _, st := range calendar.Statuses {
		statusStyles[st] = c.addStyle(lipgloss.NewStyle().Foreground(theme.StatusColor(st)))
	}

	today := calendar.DayOf(g.now)
	for i, day := range g.days {
		col, week := i%7, i/7
		x := col * (cw + 1)
		y := week * (ch + 1)

		if col > 0 {
			c.fill(x-1, y, 1, ch, '│', gridLine)
		}
		if week > 0 {
			c.fill(0, y-1, c.width, 1, '─', gridLine)
		}

		style := dateStyle
		switch {
		case day.Equal(g.cursor):
			style = cursorStyle
		case day.Equal(today):
			style = todayStyle
		case day.Start.Month() != g.month:
			style = dim
		}
		c.text(x, y, cw, day.Start.Format("2"), style)

		tasks := calendar.SortForRender(calendar.TasksForDay(g.tasks, day), day)
		shown, more := cellTasks(tasks, ch-1)
		for j, task := range shown {
			st := statusStyles[calendar.Classify(task, g.now)]
			if task.ID == g.selected {
				st = c.addStyle(theme.TaskBlockStyle(calendar.Classify(task, g.now), true))
			}
			c.text(x, y+1+j, cw, "• "+blockTitle(task), st)
		}
		if more > 0 {
			c.text(x, y+1+len(shown), cw, fmt.Sprintf("+%d more", more), moreStyle)
		}
	}

	return c
}

// dayList renders every task of day, one per line, for the expanded cell.
func dayList(day calendar.Day, tasks []model.Task, now time.Time, selected string) string {
	tasks = calendar.SortForRender(calendar.TasksForDay(tasks, day), day)

	var b strings.Builder
	b.WriteString(theme.DayHeaderStyle.Render(day.Start.Format("Monday, January 2")))
	if len(tasks) == 0 {
		b.WriteString("\n" + theme.DimmedStyle.Render("  No tasks."))
		return b.String()
	}
	for _, task := range tasks {
		status := calendar.Classify(task, now)
		start, end := calendar.Clip(task, day)
		line := fmt.Sprintf("%s  %s  %s",
			timeRange(start, end, day),
			blockTitle(task),
			theme.StatusStyle(status).Render(string(status)),
		)
		if task.ID == selected {
			line = "> " + line
		} else {
			line = "  " + line
		}
		b.WriteString("\n" + line)
	}
	return b.String()
}
