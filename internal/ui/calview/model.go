package calview

import (
	"context"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/task-calendar/internal/calendar"
	"github.com/nhle/task-calendar/internal/keys"
	"github.com/nhle/task-calendar/internal/model"
	"github.com/nhle/task-calendar/internal/store"
)

// TasksLoadedMsg carries the task snapshot for a window.
type TasksLoadedMsg struct {
	Window calendar.Window
	Tasks  []model.Task
	Err    error
}

// CategoriesLoadedMsg carries the categories used by the category filter.
type CategoriesLoadedMsg struct {
	Categories []model.Category
	Err        error
}

// NewTaskMsg asks the app to open the form for a task starting at Start.
type NewTaskMsg struct {
	Start time.Time
}

// EditTaskMsg asks the app to open the form for an existing task.
type EditTaskMsg struct {
	Task model.Task
}

// ShowTaskMsg asks the app to open the detail view of a task.
type ShowTaskMsg struct {
	ID string
}

// ToggleTaskMsg asks the app to flip a task's completion.
type ToggleTaskMsg struct {
	ID string
}

// DeleteTaskMsg asks the app to delete a task.
type DeleteTaskMsg struct {
	ID string
}

// tickMsg redraws the current-time line.
type tickMsg time.Time

// Options configures the calendar view.
type Options struct {
	Geometry    calendar.Geometry
	WeekStart   time.Weekday
	RowsPerHour int
	View        calendar.View
}

// Model is the calendar view: a day, week or month of tasks around a
// cursor day.
type Model struct {
	store       store.Store
	keys        *keys.KeyMap
	geometry    calendar.Geometry
	weekStart   time.Weekday
	rowsPerHour int
	view        calendar.View
	clock       func() time.Time

	cursor     calendar.Day
	tasks      []model.Task
	categories []model.Category
	filter     calendar.Filter
	selected   string
	expanded   bool
	scrolled   bool
	err        error

	viewport viewport.Model
	width    int
	height   int
}

// New creates a calendar view positioned on today.
func New(s store.Store, k *keys.KeyMap, opts Options, width, height int) Model {
	if opts.Geometry.HourHeight <= 0 {
		opts.Geometry = calendar.DefaultGeometry()
	}
	if opts.RowsPerHour < 1 {
		opts.RowsPerHour = 2
	}
	if opts.View == "" {
		opts.View = calendar.ViewWeek
	}

	m := Model{
		store:       s,
		keys:        k,
		geometry:    opts.Geometry,
		weekStart:   opts.WeekStart,
		rowsPerHour: opts.RowsPerHour,
		view:        opts.View,
		clock:       time.Now,
		cursor:      calendar.DayOf(time.Now()),
		viewport:    viewport.New(width, max(height-1, 1)),
		width:       width,
		height:      height,
	}
	m.refresh()
	return m
}

// SetClock replaces the time source and moves the cursor to its today.
func (m *Model) SetClock(clock func() time.Time) {
	m.clock = clock
	m.cursor = calendar.DayOf(clock())
	m.refresh()
}

// Init loads the initial snapshot and starts the clock.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.LoadTasks(), m.LoadCategories(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Window returns the time range the current view draws.
func (m Model) Window() calendar.Window {
	if m.view == calendar.ViewMonth {
		return calendar.MonthGridWindow(m.cursor.Start, m.weekStart)
	}
	return m.view.Window(m.cursor.Start, m.weekStart)
}

// LoadTasks returns a tea.Cmd that reads the snapshot for the current window.
func (m Model) LoadTasks() tea.Cmd {
	s := m.store
	w := m.Window()
	return func() tea.Msg {
		tasks, err := s.GetTasksInRange(context.Background(), w.Start, w.End)
		return TasksLoadedMsg{Window: w, Tasks: tasks, Err: err}
	}
}

// LoadCategories returns a tea.Cmd that reads all categories.
func (m Model) LoadCategories() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		cats, err := s.GetCategories(context.Background())
		return CategoriesLoadedMsg{Categories: cats, Err: err}
	}
}

// Update handles messages for the calendar view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TasksLoadedMsg:
		// Drop snapshots for a window the user has already left.
		if !msg.Window.Start.Equal(m.Window().Start) {
			return m, nil
		}
		if msg.Err != nil {
			log.Printf("calview: loading tasks: %v", msg.Err)
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.tasks = msg.Tasks
		if _, ok := m.Selected(); !ok {
			m.selected = ""
		}
		m.refresh()
		return m, nil

	case CategoriesLoadedMsg:
		if msg.Err != nil {
			log.Printf("calview: loading categories: %v", msg.Err)
			m.err = msg.Err
			return m, nil
		}
		m.categories = msg.Categories
		return m, nil

	case tickMsg:
		prev := m.Window()
		today := calendar.DayOf(time.Time(msg))
		m.refresh()
		// Crossing midnight while looking at today follows the clock.
		if m.cursor.Equal(calendar.DayOf(time.Time(msg).Add(-time.Minute))) && !m.cursor.Equal(today) {
			m.cursor = today
			m.refresh()
			if !m.Window().Start.Equal(prev.Start) {
				return m, tea.Batch(m.LoadTasks(), tick())
			}
		}
		return m, tick()

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	return m, nil
}

// handleKeys processes calendar key input.
func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	prev := m.Window()

	switch {
	case key.Matches(msg, m.keys.Prev):
		m.moveCursor(m.view.Step(m.cursor.Start, -1))
	case key.Matches(msg, m.keys.Next):
		m.moveCursor(m.view.Step(m.cursor.Start, 1))
	case key.Matches(msg, m.keys.Today):
		m.moveCursor(m.clock())
	case key.Matches(msg, m.keys.DayView):
		m.setView(calendar.ViewDay)
	case key.Matches(msg, m.keys.WeekView):
		m.setView(calendar.ViewWeek)
	case key.Matches(msg, m.keys.MonthView):
		m.setView(calendar.ViewMonth)
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(m.cursor.Start.AddDate(0, 0, -1))
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(m.cursor.Start.AddDate(0, 0, 1))

	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		if m.view == calendar.ViewMonth {
			step := 7
			if key.Matches(msg, m.keys.Up) {
				step = -7
			}
			m.moveCursor(m.cursor.Start.AddDate(0, 0, step))
			break
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case key.Matches(msg, m.keys.Select):
		if task, ok := m.Selected(); ok {
			return m, func() tea.Msg { return ShowTaskMsg{ID: task.ID} }
		}
		switch m.view {
		case calendar.ViewMonth:
			m.expanded = !m.expanded
		case calendar.ViewWeek:
			m.setView(calendar.ViewDay)
		}
	case key.Matches(msg, m.keys.Expand):
		if m.view == calendar.ViewMonth {
			m.expanded = !m.expanded
		}
	case key.Matches(msg, m.keys.NextTask):
		m.cycleSelection(1)
	case key.Matches(msg, m.keys.PrevTask):
		m.cycleSelection(-1)
	case key.Matches(msg, m.keys.ClearFocus):
		m.selected = ""
		m.expanded = false

	case key.Matches(msg, m.keys.FilterCategory):
		m.filter.Category = cycleCategory(m.filter.Category, m.categories)
		m.dropHiddenSelection()
	case key.Matches(msg, m.keys.FilterPriority):
		m.filter.Priority = cyclePriority(m.filter.Priority)
		m.dropHiddenSelection()
	case key.Matches(msg, m.keys.FilterStatus):
		m.filter.Status = cycleStatus(m.filter.Status)
		m.dropHiddenSelection()
	case key.Matches(msg, m.keys.ClearFilters):
		m.filter = calendar.Filter{}

	case key.Matches(msg, m.keys.New):
		start := m.defaultStart()
		return m, func() tea.Msg { return NewTaskMsg{Start: start} }
	case key.Matches(msg, m.keys.Edit):
		if task, ok := m.Selected(); ok {
			return m, func() tea.Msg { return EditTaskMsg{Task: task} }
		}
	case key.Matches(msg, m.keys.Toggle):
		if task, ok := m.Selected(); ok {
			return m, func() tea.Msg { return ToggleTaskMsg{ID: task.ID} }
		}
	case key.Matches(msg, m.keys.Delete):
		if task, ok := m.Selected(); ok {
			return m, func() tea.Msg { return DeleteTaskMsg{ID: task.ID} }
		}
	case key.Matches(msg, m.keys.Refresh):
		return m, tea.Batch(m.LoadTasks(), m.LoadCategories())
	}

	if w := m.Window(); !w.Start.Equal(prev.Start) || !w.End.Equal(prev.End) {
		m.tasks = nil
		m.selected = ""
		m.refresh()
		return m, m.LoadTasks()
	}
	m.refresh()
	return m, nil
}

// moveCursor puts the cursor on the day containing t. Leaving the day drops
// the selection and collapses the month cell.
func (m *Model) moveCursor(t time.Time) {
	day := calendar.DayOf(t)
	if !day.Equal(m.cursor) {
		m.selected = ""
		m.expanded = false
	}
	m.cursor = day
}

func (m *Model) setView(v calendar.View) {
	if m.view != v {
		m.expanded = false
	}
	m.view = v
}

// defaultStart proposes the start of a new task: the next whole hour when
// the cursor is today, otherwise 09:00 on the cursor day.
func (m Model) defaultStart() time.Time {
	now := m.clock()
	if m.cursor.Contains(now) {
		return now.Truncate(time.Hour).Add(time.Hour)
	}
	return m.cursor.Start.Add(9 * time.Hour)
}

// visible returns the snapshot tasks inside the current window that pass
// the active filter.
func (m Model) visible() []model.Task {
	w := m.Window()
	return calendar.SelectTasksForInterval(m.tasks, w.Start, w.End, m.filter, m.clock())
}

// dayTasks returns the visible tasks of the cursor day in drawing order.
func (m Model) dayTasks() []model.Task {
	return calendar.SortForRender(calendar.TasksForDay(m.visible(), m.cursor), m.cursor)
}

// cycleSelection moves the selection dir steps through the cursor day's
// tasks, wrapping around.
func (m *Model) cycleSelection(dir int) {
	tasks := m.dayTasks()
	if len(tasks) == 0 {
		m.selected = ""
		return
	}
	i := slices.IndexFunc(tasks, func(t model.Task) bool { return t.ID == m.selected })
	switch {
	case i < 0 && dir > 0:
		i = 0
	case i < 0:
		i = len(tasks) - 1
	default:
		i = (i + dir + len(tasks)) % len(tasks)
	}
	m.selected = tasks[i].ID
	m.scrollToSelection()
}

func (m *Model) dropHiddenSelection() {
	if _, ok := m.Selected(); !ok {
		m.selected = ""
	}
}

// Selected returns the selected task if it is still visible on the
// cursor day.
func (m Model) Selected() (model.Task, bool) {
	if m.selected == "" {
		return model.Task{}, false
	}
	for _, t := range m.dayTasks() {
		if t.ID == m.selected {
			return t, true
		}
	}
	return model.Task{}, false
}

// scrollToSelection keeps the selected block inside the viewport.
func (m *Model) scrollToSelection() {
	task, ok := m.Selected()
	if !ok || m.view == calendar.ViewMonth {
		return
	}
	top, _ := blockRows(m.geometry.PositionInDay(task, m.cursor), m.geometry, m.rowsPerHour)
	if top < m.viewport.YOffset || top >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(max(top-1, 0))
	}
}

// refresh re-renders the time grid into the viewport.
func (m *Model) refresh() {
	if m.view == calendar.ViewMonth {
		return
	}
	m.viewport.SetContent(m.timeGrid().Body().Render())
	if !m.scrolled {
		// Open on the working day rather than midnight.
		m.viewport.SetYOffset(8 * m.rowsPerHour)
		m.scrolled = true
	}
}

func (m Model) timeGrid() timeGrid {
	return timeGrid{
		days:        m.Window().Days(),
		tasks:       m.visible(),
		geometry:    m.geometry,
		rowsPerHour: m.rowsPerHour,
		width:       m.width,
		now:         m.clock(),
		cursor:      m.cursor,
		selected:    m.selected,
	}
}

func (m Model) monthGrid(height int) monthGrid {
	return monthGrid{
		days:     m.Window().Days(),
		month:    m.cursor.Start.Month(),
		tasks:    m.visible(),
		width:    m.width,
		height:   height,
		now:      m.clock(),
		cursor:   m.cursor,
		selected: m.selected,
	}
}

// View renders the calendar.
func (m Model) View() string {
	if m.view != calendar.ViewMonth {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.timeGrid().Header(),
			m.viewport.View(),
		)
	}

	height := m.height
	var list string
	if m.expanded {
		list = dayList(m.cursor, m.visible(), m.clock(), m.selected)
		height -= lipgloss.Height(list) + 1
	}
	grid := m.monthGrid(height - 1)
	out := lipgloss.JoinVertical(lipgloss.Left, grid.Header(), grid.Body().Render())
	if m.expanded {
		out = lipgloss.JoinVertical(lipgloss.Left, out, "", list)
	}
	return out
}

// Title returns a heading for the current period.
func (m Model) Title() string {
	return m.view.Title(m.cursor.Start, m.weekStart)
}

// CurrentView returns the active granularity.
func (m Model) CurrentView() calendar.View {
	return m.view
}

// Cursor returns the day under the cursor.
func (m Model) Cursor() calendar.Day {
	return m.cursor
}

// Stats summarizes the visible tasks of the current window.
func (m Model) Stats() calendar.Stats {
	return calendar.Summarize(m.visible(), m.clock())
}

// FilterSummary describes the active filters, or "" when none are set.
func (m Model) FilterSummary() string {
	return strings.Join(m.FilterChips(), " ")
}

// FilterChips labels each active filter.
func (m Model) FilterChips() []string {
	return filterChips(m.filter, m.categories)
}

// Categories returns the loaded categories.
func (m Model) Categories() []model.Category {
	return m.categories
}

// Err returns the last store error, if any.
func (m Model) Err() error {
	return m.err
}

// SetSize updates the calendar dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = max(height-1, 1)
	m.refresh()
}
