package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/task-calendar/internal/calendar"
	"github.com/nhle/task-calendar/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorBlack   = lipgloss.AdaptiveColor{Dark: "#1A202C", Light: "#F8F9FA"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// DetailPanelStyle wraps overlay content such as help and forms.
var DetailPanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// TabStyle renders an inactive view tab in the header.
var TabStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Background(ColorBlack).
	Padding(0, 1)

// ActiveTabStyle renders the tab of the active view.
var ActiveTabStyle = TabStyle.
	Bold(true).
	Foreground(ColorBlack).
	Background(ColorYellow)

// FilterChipStyle renders one active filter in the header.
var FilterChipStyle = lipgloss.NewStyle().
	Foreground(ColorBlack).
	Background(ColorMagenta).
	Padding(0, 1).
	MarginLeft(1)

// DimmedStyle renders secondary text such as hour labels.
var DimmedStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// ErrorStyle renders error messages in the status bar.
var ErrorStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed)

// DayHeaderStyle labels a day column.
var DayHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Align(lipgloss.Center)

// TodayHeaderStyle labels the column for the current day.
var TodayHeaderStyle = DayHeaderStyle.
	Foreground(ColorBlue).
	Underline(true)

// CursorHeaderStyle labels the column holding the cursor.
var CursorHeaderStyle = DayHeaderStyle.
	Foreground(ColorBlack).
	Background(ColorBlue)

// NowLineStyle draws the current-time marker across today's column.
var NowLineStyle = lipgloss.NewStyle().
	Foreground(ColorRed)

// GridLineStyle draws hour separators.
var GridLineStyle = lipgloss.NewStyle().
	Foreground(ColorSubtle)

// StatusColor returns the block color for a task status.
func StatusColor(status calendar.Status) lipgloss.AdaptiveColor {
	switch status {
	case calendar.StatusCompleted:
		return ColorGreen
	case calendar.StatusOverdue:
		return ColorRed
	default:
		return ColorBlue
	}
}

// StatusStyle returns a color-coded label style for the given task status.
func StatusStyle(status calendar.Status) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Foreground(StatusColor(status))
}

// TaskBlockStyle returns the fill style of a task block on the time grid.
// Selected blocks are inverted.
func TaskBlockStyle(status calendar.Status, selected bool) lipgloss.Style {
	base := lipgloss.NewStyle().
		Foreground(ColorBlack).
		Background(StatusColor(status))
	if selected {
		return base.
			Bold(true).
			Foreground(StatusColor(status)).
			Background(ColorWhite)
	}
	return base
}

// PriorityStyle returns a color-coded style for the given priority.
func PriorityStyle(priority model.Priority) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch priority {
	case model.PriorityHigh:
		return base.Foreground(ColorRed)
	case model.PriorityMedium:
		return base.Foreground(ColorYellow)
	case model.PriorityLow:
		return base.Foreground(ColorGray)
	default:
		return base.Foreground(ColorGray)
	}
}

// CategoryStyle returns a style colored by a category's color name.
// Unknown names fall back to magenta.
func CategoryStyle(color string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch color {
	case "blue":
		return base.Foreground(ColorBlue)
	case "green":
		return base.Foreground(ColorGreen)
	case "yellow":
		return base.Foreground(ColorYellow)
	case "red":
		return base.Foreground(ColorRed)
	case "orange":
		return base.Foreground(ColorOrange)
	default:
		return base.Foreground(ColorMagenta)
	}
}
