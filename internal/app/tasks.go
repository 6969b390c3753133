package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/task-calendar/internal/model"
)

// taskMutatedMsg is sent after a create, update, toggle or delete reaches
// the store.
type taskMutatedMsg struct {
	action string
	id     string
	err    error
}

// createTask persists a new task.
func (m *Model) createTask(task model.Task) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		err := s.CreateTask(context.Background(), &task)
		return taskMutatedMsg{action: "created", id: task.ID, err: err}
	}
}

// updateTask persists an edited task, subtasks included.
func (m *Model) updateTask(task model.Task) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		err := s.UpdateTask(context.Background(), task)
		return taskMutatedMsg{action: "updated", id: task.ID, err: err}
	}
}

// toggleTask flips a task's completion.
func (m *Model) toggleTask(id string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		err := s.ToggleTask(context.Background(), id)
		return taskMutatedMsg{action: "toggled", id: id, err: err}
	}
}

// deleteTask removes a task and its subtasks.
func (m *Model) deleteTask(id string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		err := s.DeleteTask(context.Background(), id)
		return taskMutatedMsg{action: "deleted", id: id, err: err}
	}
}
