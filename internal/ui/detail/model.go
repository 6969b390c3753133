package detail

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/task-calendar/internal/calendar"
	"github.com/nhle/task-calendar/internal/keys"
	"github.com/nhle/task-calendar/internal/model"
	"github.com/nhle/task-calendar/internal/store"
	"github.com/nhle/task-calendar/internal/theme"
)

// BackMsg signals the parent to navigate back to the calendar.
type BackMsg struct{}

// DetailLoadedMsg carries the loaded task and its 1-based position among
// the Peers tasks of its category.
type DetailLoadedMsg struct {
	Task  *model.Task
	Rank  int
	Peers int
	Err   error
}

// OrderChangedMsg is sent after the task moved within its category.
type OrderChangedMsg struct {
	TaskID string
	Err    error
}

// SubtaskChangedMsg is sent after a subtask was added, toggled or deleted.
// The parent task's completion may have changed with it.
type SubtaskChangedMsg struct {
	TaskID string
	Err    error
}

// EditMsg asks the parent to open the form for the displayed task.
type EditMsg struct {
	Task model.Task
}

const dateLayout = "Mon Jan 2 2006 15:04"

// Model is the task detail view: the task's fields and its subtasks, which
// can be added, toggled and deleted here.
type Model struct {
	task       *model.Task
	rank       int
	peers      int
	cursor     int
	adding     bool
	input      textinput.Model
	categories []model.Category
	viewport   viewport.Model
	store      store.Store
	keys       *keys.KeyMap
	clock      func() time.Time
	width      int
	height     int
	loading    bool
	err        error
}

// New creates a new detail view model.
func New(s store.Store, keys *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, max(height-2, 1))
	vp.Style = lipgloss.NewStyle()

	ti := textinput.New()
	ti.Placeholder = "subtask title..."
	ti.Prompt = "+ "
	ti.CharLimit = 200
	ti.Width = width - 6

	return Model{
		viewport: vp,
		input:    ti,
		store:    s,
		keys:     keys,
		clock:    time.Now,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command for the detail view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Load returns a command that fetches the task with its subtasks and its
// place in the category order.
func (m Model) Load(id string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		ctx := context.Background()
		task, err := s.GetTaskByID(ctx, id)
		if err != nil {
			return DetailLoadedMsg{Err: fmt.Errorf("loading task %s: %w", id, err)}
		}
		order, err := categoryOrder(ctx, s, task.Category)
		if err != nil {
			return DetailLoadedMsg{Err: fmt.Errorf("loading order of task %s: %w", id, err)}
		}
		return DetailLoadedMsg{Task: task, Rank: slices.Index(order, id) + 1, Peers: len(order)}
	}
}

// categoryOrder lists the ids of a category's tasks by sort order.
func categoryOrder(ctx context.Context, s store.Store, category string) ([]string, error) {
	tasks, err := s.GetTasks(ctx, store.TaskFilter{Category: &category, SortBy: "sort_order"})
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids, nil
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case DetailLoadedMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Err == nil {
			m.task = msg.Task
			m.rank, m.peers = msg.Rank, msg.Peers
			m.cursor = min(m.cursor, max(len(m.task.Subtasks)-1, 0))
		}
		m.refresh()
		return m, nil

	case SubtaskChangedMsg:
		m.err = msg.Err
		return m, m.Load(msg.TaskID)

	case OrderChangedMsg:
		m.err = msg.Err
		return m, m.Load(msg.TaskID)

	case tea.KeyMsg:
		if m.adding {
			return m.updateInput(msg)
		}
		return m.handleKeys(msg)
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.task == nil {
		if key.Matches(msg, m.keys.Back) {
			return m, func() tea.Msg { return BackMsg{} }
		}
		return m, nil
	}
	subtasks := m.task.Subtasks

	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return BackMsg{} }

	case key.Matches(msg, m.keys.MoveUp):
		return m, m.moveTask(-1)

	case key.Matches(msg, m.keys.MoveDown):
		return m, m.moveTask(1)

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.refresh()
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(subtasks)-1 {
			m.cursor++
			m.refresh()
		}
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		if m.cursor < len(subtasks) {
			return m, m.toggleSubtask(subtasks[m.cursor])
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if m.cursor < len(subtasks) {
			return m, m.deleteSubtask(subtasks[m.cursor])
		}
		return m, nil

	case key.Matches(msg, m.keys.New):
		m.adding = true
		m.input.Reset()
		cmd := m.input.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Edit):
		task := *m.task
		return m, func() tea.Msg { return EditMsg{Task: task} }
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// updateInput handles keys while a new subtask title is being typed.
func (m Model) updateInput(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		title := strings.TrimSpace(m.input.Value())
		m.adding = false
		m.input.Reset()
		m.input.Blur()
		if title == "" {
			return m, nil
		}
		return m, m.addSubtask(title)
	case tea.KeyEsc:
		m.adding = false
		m.input.Reset()
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// moveTask swaps the task with its neighbour in the category order. It is
// a no-op at either end.
func (m Model) moveTask(delta int) tea.Cmd {
	to := m.rank + delta
	if m.rank == 0 || to < 1 || to > m.peers {
		return nil
	}
	s := m.store
	task := *m.task
	return func() tea.Msg {
		ctx := context.Background()
		order, err := categoryOrder(ctx, s, task.Category)
		if err != nil {
			return OrderChangedMsg{TaskID: task.ID, Err: err}
		}
		i := slices.Index(order, task.ID)
		j := i + delta
		if i < 0 || j < 0 || j >= len(order) {
			return OrderChangedMsg{TaskID: task.ID}
		}
		order[i], order[j] = order[j], order[i]
		err = s.ReorderTasks(ctx, task.Category, order)
		return OrderChangedMsg{TaskID: task.ID, Err: err}
	}
}

func (m Model) addSubtask(title string) tea.Cmd {
	s := m.store
	sub := model.Subtask{
		TaskID:    m.task.ID,
		Title:     title,
		StartDate: m.task.StartDate,
		DueDate:   m.task.DueDate,
		Priority:  m.task.Priority,
	}
	return func() tea.Msg {
		err := s.AddSubtask(context.Background(), &sub)
		return SubtaskChangedMsg{TaskID: sub.TaskID, Err: err}
	}
}

func (m Model) toggleSubtask(sub model.Subtask) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		err := s.ToggleSubtask(context.Background(), sub.TaskID, sub.ID)
		return SubtaskChangedMsg{TaskID: sub.TaskID, Err: err}
	}
}

func (m Model) deleteSubtask(sub model.Subtask) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		err := s.DeleteSubtask(context.Background(), sub.ID)
		return SubtaskChangedMsg{TaskID: sub.TaskID, Err: err}
	}
}

// View renders the detail view.
func (m Model) View() string {
	placeholder := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.loading {
		return placeholder.Render("Loading task details...")
	}
	if m.task == nil {
		if m.err != nil {
			return placeholder.Foreground(theme.ColorRed).Render(m.err.Error())
		}
		return placeholder.Render("No task selected")
	}

	if m.adding {
		return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), "", m.input.View())
	}
	return m.viewport.View()
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderContent())
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	if m.task == nil {
		return ""
	}

	task := m.task
	status := calendar.Classify(*task, m.clock())
	var sections []string

	// Title
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(task.Title))

	// Badges line: status + priority + category
	badges := []string{
		theme.StatusStyle(status).Render(string(status)),
		theme.PriorityStyle(task.Priority).Render(string(task.Priority)),
	}
	if c, ok := m.category(task.Category); ok {
		badges = append(badges, theme.CategoryStyle(c.Color).Render(c.Name))
	}
	if task.IsMultiDay() {
		badges = append(badges, theme.DimmedStyle.Render("multi-day"))
	}
	sections = append(sections, strings.Join(badges, "  "))
	sections = append(sections, "")

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)
	meta := func(label string, t time.Time) {
		if t.IsZero() {
			return
		}
		sections = append(sections, fmt.Sprintf(
			"%s %s",
			metaStyle.Render(fmt.Sprintf("%-9s", label+":")),
			valStyle.Render(t.In(time.Local).Format(dateLayout)),
		))
	}
	if m.peers > 0 {
		group := "uncategorized"
		if c, ok := m.category(task.Category); ok {
			group = c.Name
		}
		sections = append(sections, fmt.Sprintf(
			"%s %s",
			metaStyle.Render(fmt.Sprintf("%-9s", "Order:")),
			valStyle.Render(fmt.Sprintf("%d of %d in %s", m.rank, m.peers, group)),
		))
	}
	meta("Start", task.StartDate)
	meta("Due", task.DueDate)
	meta("Created", task.CreatedAt)
	meta("Updated", task.UpdatedAt)

	// Separator
	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", max(min(m.width-4, 80), 1)))
	sections = append(sections, "", separator, "")

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite)

	sections = append(sections, headerStyle.Render("Description"))
	body := task.Description
	if body == "" {
		body = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("No description")
	}
	sections = append(sections, body)

	// Subtasks
	done, total := task.SubtaskProgress()
	sections = append(sections, "", separator, "")
	sections = append(sections, headerStyle.Render(fmt.Sprintf("Subtasks (%d/%d)", done, total)))
	if total == 0 {
		sections = append(sections, theme.DimmedStyle.Render("none, press n to add one"))
	}
	for i, st := range task.Subtasks {
		marker := "  "
		if i == m.cursor {
			marker = "› "
		}
		check := "[ ]"
		line := st.Title
		if st.Completed {
			check = "[x]"
			line = theme.DimmedStyle.Strikethrough(true).Render(line)
		}
		sections = append(sections, marker+check+" "+line)
	}

	if m.err != nil {
		sections = append(sections, "", theme.ErrorStyle.Render("error: "+m.err.Error()))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) category(id string) (model.Category, bool) {
	for _, c := range m.categories {
		if c.ID == id {
			return c, true
		}
	}
	return model.Category{}, false
}

// Task returns the displayed task, if any.
func (m Model) Task() (model.Task, bool) {
	if m.task == nil {
		return model.Task{}, false
	}
	return *m.task, true
}

// Adding reports whether a subtask title is being typed.
func (m Model) Adding() bool {
	return m.adding
}

// SetCategories sets the categories used to label the task.
func (m *Model) SetCategories(categories []model.Category) {
	m.categories = categories
}

// SetLoading clears the displayed task and marks a load in flight.
func (m *Model) SetLoading(loading bool) {
	m.loading = loading
	if loading {
		m.task = nil
		m.rank, m.peers = 0, 0
		m.cursor = 0
		m.adding = false
		m.err = nil
	}
}

// SetClock replaces the time source used to classify the task.
func (m *Model) SetClock(clock func() time.Time) {
	m.clock = clock
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = max(height-2, 1)
	m.input.Width = width - 6
	m.refresh()
}
