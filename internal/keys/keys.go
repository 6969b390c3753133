package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Period navigation
	Prev  key.Binding
	Next  key.Binding
	Today key.Binding

	// Views
	DayView   key.Binding
	WeekView  key.Binding
	MonthView key.Binding

	// Cursor
	Left  key.Binding
	Right key.Binding
	Up    key.Binding
	Down  key.Binding

	// Selection
	Select     key.Binding
	NextTask   key.Binding
	PrevTask   key.Binding
	Expand     key.Binding
	ClearFocus key.Binding

	// Filters
	FilterCategory key.Binding
	FilterPriority key.Binding
	FilterStatus   key.Binding
	ClearFilters   key.Binding

	// Actions
	New    key.Binding
	Edit   key.Binding
	Toggle key.Binding
	Delete key.Binding

	// Categories and ordering
	Categories key.Binding
	MoveUp     key.Binding
	MoveDown   key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Help toggle
	Help key.Binding

	// Manual refresh
	Refresh key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Prev: key.NewBinding(
			key.WithKeys("[", "pgup"),
			key.WithHelp("[/pgup", "previous period"),
		),
		Next: key.NewBinding(
			key.WithKeys("]", "pgdown"),
			key.WithHelp("]/pgdn", "next period"),
		),
		Today: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "today"),
		),
		DayView: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "day view"),
		),
		WeekView: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "week view"),
		),
		MonthView: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "month view"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "previous day"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "next day"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "scroll up / week up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "scroll down / week down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open task / day"),
		),
		NextTask: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next task"),
		),
		PrevTask: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous task"),
		),
		Expand: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "expand day"),
		),
		ClearFocus: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear selection"),
		),
		FilterCategory: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "cycle category"),
		),
		FilterPriority: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "cycle priority"),
		),
		FilterStatus: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "cycle status"),
		),
		ClearFilters: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "clear filters"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new task"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit task"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "toggle complete"),
		),
		Delete: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete task"),
		),
		Categories: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "manage categories"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("K", "shift+up"),
			key.WithHelp("K", "move up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("J", "shift+down"),
			key.WithHelp("J", "move down"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Prev, k.Next, k.Today, k.NextTask,
		k.New, k.Toggle, k.Quit, k.Help,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.Today, k.DayView, k.WeekView, k.MonthView},
		{k.Left, k.Right, k.Up, k.Down, k.Select, k.Expand},
		{k.NextTask, k.PrevTask, k.ClearFocus, k.New, k.Edit, k.Toggle, k.Delete},
		{k.FilterCategory, k.FilterPriority, k.FilterStatus, k.ClearFilters},
		{k.Categories, k.MoveUp, k.MoveDown},
		{k.Refresh, k.Help, k.Quit},
	}
}
