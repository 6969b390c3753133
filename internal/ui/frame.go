// Package ui holds the frame shared by every view: a header row, the
// content area and a status bar row.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/task-calendar/internal/calendar"
	"github.com/nhle/task-calendar/internal/theme"
)

// Header is what the top row shows about the calendar.
type Header struct {
	// Period is the heading of the visible window, e.g. "April 2025".
	Period  string
	View    calendar.View
	Filters []string
	Stats   calendar.Stats
}

// Frame splits the terminal into a one-row header, the content area and a
// one-row status bar.
type Frame struct {
	Width  int
	Height int
}

// NewFrame creates a Frame for the given terminal size.
func NewFrame(width, height int) Frame {
	return Frame{Width: width, Height: height}
}

// ContentWidth returns the width of the content area.
func (f Frame) ContentWidth() int {
	return f.Width
}

// ContentHeight returns the rows left between the header and the status
// bar. It never drops below one row.
func (f Frame) ContentHeight() int {
	return max(f.Height-2, 1)
}

// RenderHeader draws the period, the view tabs and the filter chips on the
// left and the task counts on the right. Chips are dropped from the end
// when the row is too narrow.
func (f Frame) RenderHeader(h Header) string {
	title := theme.HeaderStyle.Render("taskcal · " + h.Period)
	tabs := viewTabs(h.View)
	stats := theme.HeaderStyle.Render(Summary(h.Stats))

	chips := make([]string, len(h.Filters))
	for i, c := range h.Filters {
		chips[i] = theme.FilterChipStyle.Render(c)
	}
	left := lipgloss.JoinHorizontal(lipgloss.Top, append([]string{title, tabs}, chips...)...)
	for len(chips) > 0 && lipgloss.Width(left)+lipgloss.Width(stats) > f.Width {
		chips = chips[:len(chips)-1]
		left = lipgloss.JoinHorizontal(lipgloss.Top, append([]string{title, tabs}, chips...)...)
	}

	return fill(f.Width, left, stats, theme.HeaderStyle)
}

// RenderStatusBar draws the key hints separated by " | ". A non-nil err
// replaces the hints.
func (f Frame) RenderStatusBar(hints []string, err error) string {
	text := theme.StatusBarStyle.Render(strings.Join(hints, " | "))
	if err != nil {
		text = theme.ErrorStyle.Background(theme.StatusBarStyle.GetBackground()).Padding(0, 1).Render("error: " + err.Error())
	}
	return fill(f.Width, text, "", theme.StatusBarStyle)
}

// Render stacks header, content and status bar. The content is cut or
// padded to ContentHeight so the status bar stays on the last row.
func (f Frame) Render(header, content, statusBar string) string {
	h := f.ContentHeight()
	body := lipgloss.NewStyle().Height(h).MaxHeight(h).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, statusBar)
}

// Summary counts tasks by status, e.g. "2 pending · 1 overdue · 3 done (50%)".
func Summary(st calendar.Stats) string {
	if st.Total == 0 {
		return "no tasks"
	}
	return fmt.Sprintf("%d pending · %d overdue · %d done (%.0f%%)",
		st.Pending, st.Overdue, st.Completed, st.CompletionRate*100)
}

func viewTabs(active calendar.View) string {
	tabs := make([]string, len(calendar.Views))
	for i, v := range calendar.Views {
		label := strings.ToUpper(string(v[:1])) + string(v[1:])
		if v == active {
			tabs[i] = theme.ActiveTabStyle.Render(label)
		} else {
			tabs[i] = theme.TabStyle.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// fill pads the gap between left and right with the row's background so
// the row spans width cells.
func fill(width int, left, right string, row lipgloss.Style) string {
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	filler := lipgloss.NewStyle().
		Width(gap).
		Background(row.GetBackground()).
		Render("")
	return lipgloss.JoinHorizontal(lipgloss.Top, left, filler, right)
}
