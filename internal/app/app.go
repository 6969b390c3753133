package app

import (
	"log"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/task-calendar/internal/model"
	"github.com/nhle/task-calendar/internal/store"
	tasksync "github.com/nhle/task-calendar/internal/sync"
	"github.com/nhle/task-calendar/internal/ui"
	"github.com/nhle/task-calendar/internal/ui/calview"
	"github.com/nhle/task-calendar/internal/ui/catmgr"
	"github.com/nhle/task-calendar/internal/ui/detail"
	helpview "github.com/nhle/task-calendar/internal/ui/help"
	"github.com/nhle/task-calendar/internal/ui/taskform"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewCalendar ViewState = iota
	ViewHelp
	ViewTaskCreate
	ViewTaskEdit
	ViewDetail
	ViewCategories
)

// Model is the root Bubble Tea model that manages view routing,
// layout, and access to the persistence layer.
type Model struct {
	currentView  ViewState
	previousView ViewState
	frame        ui.Frame
	store        store.Store
	poller       *tasksync.Poller
	keys         *KeyMap
	calendar     calview.Model
	detailView   detail.Model
	categoryMgr  catmgr.Model
	helpView     helpview.Model
	taskForm     taskform.Model
	ready        bool
	status       string
	err          error
}

// New creates a new root application model backed by s and configured
// by cfg.
func New(s store.Store, cfg *model.AppConfig) Model {
	keys := DefaultKeyMap()
	m := Model{
		currentView: ViewCalendar,
		store:       s,
		keys:        keys,
		calendar:    calview.New(s, keys, CalendarOptions(cfg), 80, 24),
		detailView:  detail.New(s, keys, 80, 24),
		categoryMgr: catmgr.New(s, keys, 80, 24),
		helpView:    helpview.New(keys, 80, 24),
		taskForm:    taskform.New(80, 24),
	}
	if sec := cfg.Storage.PollIntervalSec; sec > 0 {
		m.poller = tasksync.New(s, time.Duration(sec)*time.Second)
	}
	return m
}

// Init returns the initial commands that load the calendar and start
// watching the database.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.calendar.Init()}
	if m.poller != nil {
		cmds = append(cmds, m.poller.Start())
	}
	return tea.Batch(cmds...)
}

// Close stops background work started by Init.
func (m Model) Close() {
	if m.poller != nil {
		m.poller.Stop()
	}
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.frame = ui.NewFrame(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.frame.ContentWidth()
		contentHeight := m.frame.ContentHeight()
		m.calendar.SetSize(contentWidth, contentHeight)
		m.detailView.SetSize(contentWidth, contentHeight)
		m.categoryMgr.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.taskForm.SetSize(contentWidth, contentHeight)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case calview.TasksLoadedMsg, calview.CategoriesLoadedMsg:
		// Snapshots belong to the calendar whichever view is showing.
		var cmd tea.Cmd
		m.calendar, cmd = m.calendar.Update(msg)
		return m, cmd

	case calview.NewTaskMsg:
		m.previousView = m.currentView
		m.currentView = ViewTaskCreate
		m.taskForm.SetCategories(m.calendar.Categories())
		m.taskForm.SetLocation(msg.Start.Location())
		cmd := m.taskForm.StartCreate(msg.Start)
		return m, cmd

	case calview.EditTaskMsg:
		m.previousView = m.currentView
		m.currentView = ViewTaskEdit
		m.taskForm.SetCategories(m.calendar.Categories())
		m.taskForm.SetLocation(m.calendar.Cursor().Start.Location())
		cmd := m.taskForm.StartEdit(msg.Task)
		return m, cmd

	case calview.ShowTaskMsg:
		m.previousView = m.currentView
		m.currentView = ViewDetail
		m.detailView.SetCategories(m.calendar.Categories())
		m.detailView.SetLoading(true)
		return m, m.detailView.Load(msg.ID)

	case detail.DetailLoadedMsg:
		var cmd tea.Cmd
		m.detailView, cmd = m.detailView.Update(msg)
		return m, cmd

	case detail.SubtaskChangedMsg:
		if msg.Err != nil {
			log.Printf("app: subtask of %s: %v", msg.TaskID, msg.Err)
		}
		var cmd tea.Cmd
		m.detailView, cmd = m.detailView.Update(msg)
		// Subtasks can complete or reopen the parent task.
		return m, tea.Batch(cmd, m.calendar.LoadTasks())

	case detail.OrderChangedMsg:
		if msg.Err != nil {
			log.Printf("app: moving task %s: %v", msg.TaskID, msg.Err)
		}
		var cmd tea.Cmd
		m.detailView, cmd = m.detailView.Update(msg)
		return m, cmd

	case detail.BackMsg:
		m.currentView = ViewCalendar
		return m, nil

	case detail.EditMsg:
		m.previousView = m.currentView
		m.currentView = ViewTaskEdit
		m.taskForm.SetCategories(m.calendar.Categories())
		m.taskForm.SetLocation(m.calendar.Cursor().Start.Location())
		cmd := m.taskForm.StartEdit(msg.Task)
		return m, cmd

	case catmgr.CategoriesChangedMsg:
		// Deleting a category uncategorizes its tasks.
		return m, tea.Batch(m.calendar.LoadCategories(), m.calendar.LoadTasks())

	case catmgr.CloseMsg:
		m.currentView = ViewCalendar
		return m, nil

	case calview.ToggleTaskMsg:
		return m, m.toggleTask(msg.ID)

	case calview.DeleteTaskMsg:
		return m, m.deleteTask(msg.ID)

	case taskform.TaskCreatedMsg:
		m.currentView = m.afterForm()
		return m, m.createTask(msg.Task)

	case taskform.TaskUpdatedMsg:
		m.currentView = m.afterForm()
		return m, m.updateTask(msg.Task)

	case taskform.TaskFormCancelMsg:
		m.currentView = m.afterForm()
		return m, nil

	case tasksync.ChangedMsg:
		log.Printf("app: task database changed (version %d), reloading", msg.Version)
		return m, tea.Batch(
			m.calendar.LoadTasks(),
			m.calendar.LoadCategories(),
			m.poller.WaitForNextResult(),
		)

	case tasksync.ErrorMsg:
		log.Printf("app: %v", msg.Err)
		return m, m.poller.WaitForNextResult()

	case taskMutatedMsg:
		if msg.err != nil {
			log.Printf("app: task %s: %v", msg.action, msg.err)
			m.err = msg.err
			m.status = ""
			return m, nil
		}
		m.err = nil
		m.status = "task " + msg.action
		if m.currentView == ViewDetail && msg.id != "" {
			return m, tea.Batch(m.calendar.LoadTasks(), m.detailView.Load(msg.id))
		}
		return m, m.calendar.LoadTasks()

	case tea.KeyMsg:
		// Global keys that work regardless of current view
		switch m.currentView {
		case ViewCalendar:
			switch {
			case key.Matches(msg, m.keys.Quit):
				return m, tea.Quit
			case key.Matches(msg, m.keys.Help):
				m.previousView = m.currentView
				m.currentView = ViewHelp
				return m, nil
			case key.Matches(msg, m.keys.Categories):
				m.previousView = m.currentView
				m.currentView = ViewCategories
				return m, m.categoryMgr.Init()
			}
			m.status = ""

		case ViewHelp:
			if key.Matches(msg, m.keys.Help, m.keys.Back, m.keys.Quit) {
				m.currentView = m.previousView
				return m, nil
			}

		default:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
		}
	}

	// Delegate to active sub-view
	if _, isKey := msg.(tea.KeyMsg); !isKey && m.currentView != ViewCalendar {
		// The calendar clock keeps ticking behind the form and help views.
		var calCmd tea.Cmd
		m.calendar, calCmd = m.calendar.Update(msg)
		next, cmd := m.updateActiveView(msg)
		return next, tea.Batch(calCmd, cmd)
	}
	return m.updateActiveView(msg)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewCalendar:
		m.calendar, cmd = m.calendar.Update(msg)
	case ViewDetail:
		m.detailView, cmd = m.detailView.Update(msg)
	case ViewCategories:
		m.categoryMgr, cmd = m.categoryMgr.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewTaskCreate, ViewTaskEdit:
		m.taskForm, cmd = m.taskForm.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.frame.RenderHeader(ui.Header{
		Period:  m.calendar.Title(),
		View:    m.calendar.CurrentView(),
		Filters: m.calendar.FilterChips(),
		Stats:   m.calendar.Stats(),
	})
	return m.frame.Render(header, m.renderContent(), m.statusBar())
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewCalendar:
		return m.calendar.View()
	case ViewDetail:
		return m.detailView.View()
	case ViewCategories:
		return m.categoryMgr.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewTaskCreate, ViewTaskEdit:
		return m.taskForm.View()
	default:
		return ""
	}
}

// statusBar renders the hints for the active view. Store errors replace
// the calendar's hints.
func (m Model) statusBar() string {
	var err error
	if m.currentView == ViewCalendar {
		err = m.lastError()
	}
	return m.frame.RenderStatusBar(m.keyHints(), err)
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() []string {
	switch m.currentView {
	case ViewHelp:
		return []string{"? close help", "esc back"}
	case ViewDetail:
		if m.detailView.Adding() {
			return []string{"enter add subtask", "esc cancel"}
		}
		return []string{"esc back", "j/k subtask", "x toggle", "D delete", "n add subtask", "J/K move task", "e edit task"}
	case ViewCategories:
		if m.categoryMgr.Editing() {
			return []string{"enter submit", "esc cancel"}
		}
		return []string{"j/k select", "n new", "e edit", "D delete", "J/K move", "esc back"}
	case ViewTaskCreate, ViewTaskEdit:
		return []string{"enter submit", "esc cancel"}
	default:
		var hints []string
		if m.status != "" {
			hints = append(hints, m.status)
		}
		if m.calendar.FilterSummary() != "" {
			hints = append(hints, "0 clear filters")
		}
		return append(hints, "q quit", "? help", "n new", "tab select", "d/w/m view", "[ ] period", "c categories")
	}
}

// afterForm is the view the task form returns to.
func (m Model) afterForm() ViewState {
	if m.previousView == ViewDetail {
		return ViewDetail
	}
	return ViewCalendar
}

// lastError returns the most recent store error from a mutation or a load.
func (m Model) lastError() error {
	if m.err != nil {
		return m.err
	}
	return m.calendar.Err()
}
