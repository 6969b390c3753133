package taskform

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/task-calendar/internal/model"
	"github.com/nhle/task-calendar/internal/theme"
)

// DateTimeLayout is the format start and due times are entered in.
const DateTimeLayout = "2006-01-02 15:04"

// TaskCreatedMsg is dispatched when a new task is submitted.
type TaskCreatedMsg struct {
	Task model.Task
}

// TaskUpdatedMsg is dispatched when an existing task is submitted.
type TaskUpdatedMsg struct {
	Task model.Task
}

// TaskFormCancelMsg is dispatched when the user cancels the form.
type TaskFormCancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title       string
	description string
	category    string
	priority    model.Priority
	start       string
	due         string
	completed   bool
}

// Model is the Bubble Tea model for the task create/edit form.
type Model struct {
	form       *huh.Form
	fb         *formBindings
	editMode   bool
	original   model.Task
	categories []model.Category
	loc        *time.Location
	width      int
	height     int
}

// New creates a new task form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{priority: model.PriorityMedium},
		loc:    time.Local,
		width:  width,
		height: height,
	}
}

// SetCategories sets the options for the category selector.
func (m *Model) SetCategories(categories []model.Category) {
	m.categories = categories
}

// SetLocation sets the timezone entered times are read in.
func (m *Model) SetLocation(loc *time.Location) {
	m.loc = loc
}

// StartCreate initializes the form for a new one-hour task at start.
func (m *Model) StartCreate(start time.Time) tea.Cmd {
	m.editMode = false
	m.original = model.Task{}
	m.fb.title = ""
	m.fb.description = ""
	m.fb.category = ""
	m.fb.priority = model.PriorityMedium
	m.fb.start = start.In(m.loc).Format(DateTimeLayout)
	m.fb.due = start.Add(time.Hour).In(m.loc).Format(DateTimeLayout)
	m.fb.completed = false
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form for editing an existing task.
func (m *Model) StartEdit(task model.Task) tea.Cmd {
	m.editMode = true
	m.original = task
	m.fb.title = task.Title
	m.fb.description = task.Description
	m.fb.category = task.Category
	m.fb.priority = task.Priority
	if !m.fb.priority.Valid() {
		m.fb.priority = model.PriorityMedium
	}
	m.fb.start = task.StartDate.In(m.loc).Format(DateTimeLayout)
	m.fb.due = task.DueDate.In(m.loc).Format(DateTimeLayout)
	m.fb.completed = task.Completed
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the task form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return TaskFormCancelMsg{} }
	}

	return m, cmd
}

// View renders the task form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Task"
	if m.editMode {
		titleText = "Edit Task"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Title").
			Placeholder("What needs to be done?").
			Value(&m.fb.title).
			Validate(validateRequired("Title")),
		huh.NewText().
			Title("Description").
			Placeholder("Optional details...").
			Value(&m.fb.description),
		m.categoryField(),
		huh.NewSelect[model.Priority]().
			Title("Priority").
			Options(
				huh.NewOption("High", model.PriorityHigh),
				huh.NewOption("Medium", model.PriorityMedium),
				huh.NewOption("Low", model.PriorityLow),
			).
			Value(&m.fb.priority),
		huh.NewInput().
			Title("Start").
			Placeholder("YYYY-MM-DD HH:MM").
			Value(&m.fb.start).
			Validate(m.validateDateTime),
		huh.NewInput().
			Title("Due").
			Placeholder("YYYY-MM-DD HH:MM").
			Value(&m.fb.due).
			Validate(m.validateDue),
	}
	if m.editMode {
		fields = append(fields,
			huh.NewConfirm().
				Title("Completed").
				Affirmative("Yes").
				Negative("No").
				Value(&m.fb.completed),
		)
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) categoryField() huh.Field {
	opts := []huh.Option[string]{
		huh.NewOption("None", ""),
	}
	for _, c := range m.categories {
		opts = append(opts, huh.NewOption(c.Name, c.ID))
	}
	return huh.NewSelect[string]().
		Title("Category").
		Options(opts...).
		Value(&m.fb.category)
}

func (m Model) handleSubmit() tea.Cmd {
	start, errStart := m.parse(m.fb.start)
	due, errDue := m.parse(m.fb.due)
	if err := errors.Join(errStart, errDue); err != nil {
		return func() tea.Msg { return TaskFormCancelMsg{} }
	}

	task := m.original
	task.Title = strings.TrimSpace(m.fb.title)
	task.Description = m.fb.description
	task.Category = m.fb.category
	task.Priority = m.fb.priority
	task.StartDate = start
	task.DueDate = due

	if m.editMode {
		task.Completed = m.fb.completed
		return func() tea.Msg { return TaskUpdatedMsg{Task: task} }
	}
	return func() tea.Msg { return TaskCreatedMsg{Task: task} }
}

func (m Model) parse(s string) (time.Time, error) {
	return time.ParseInLocation(DateTimeLayout, strings.TrimSpace(s), m.loc)
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func (m Model) validateDateTime(s string) error {
	if _, err := m.parse(s); err != nil {
		return fmt.Errorf("invalid date, use YYYY-MM-DD HH:MM")
	}
	return nil
}

// validateDue requires a parseable due time no earlier than the start.
func (m Model) validateDue(s string) error {
	due, err := m.parse(s)
	if err != nil {
		return fmt.Errorf("invalid date, use YYYY-MM-DD HH:MM")
	}
	if start, err := m.parse(m.fb.start); err == nil && due.Before(start) {
		return fmt.Errorf("due must not be before start")
	}
	return nil
}
