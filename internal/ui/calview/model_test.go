package calview

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/task-calendar/internal/calendar"
	"github.com/nhle/task-calendar/internal/keys"
	"github.com/nhle/task-calendar/internal/model"
	"github.com/nhle/task-calendar/tests/testutil"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// newTestModel returns a week view on Thursday April 10 2025, 08:20 UTC.
func newTestModel(t *testing.T, view calendar.View) Model {
	t.Helper()
	m := New(testutil.NewTestStore(t), keys.DefaultKeyMap(), Options{
		Geometry:    calendar.DefaultGeometry(),
		WeekStart:   time.Sunday,
		RowsPerHour: 2,
		View:        view,
	}, 80, 40)
	m.SetClock(func() time.Time { return at(10, 8, 20) })
	return m
}

func loaded(m Model, tasks ...model.Task) Model {
	m, _ = m.Update(TasksLoadedMsg{Window: m.Window(), Tasks: tasks})
	return m
}

func TestModelWindowFollowsView(t *testing.T) {
	m := newTestModel(t, calendar.ViewWeek)
	if w := m.Window(); !w.Start.Equal(at(6, 0, 0)) {
		t.Errorf("week starts %v, want April 6", w.Start)
	}

	m, _ = m.Update(runes("d"))
	if w := m.Window(); !w.Start.Equal(at(10, 0, 0)) {
		t.Errorf("day starts %v, want April 10", w.Start)
	}

	m, _ = m.Update(runes("m"))
	if w := m.Window(); !w.Start.Equal(time.Date(2025, time.March, 30, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("month grid starts %v, want March 30", w.Start)
	}
	if got := m.Title(); got != "April 2025" {
		t.Errorf("Title = %q", got)
	}
}

func TestModelNavigationLoadsNewWindow(t *testing.T) {
	m := newTestModel(t, calendar.ViewWeek)
	m = loaded(m, task("a", "Alpha", at(10, 9, 0), at(10, 10, 0)))

	m, cmd := m.Update(runes("]"))
	if cmd == nil {
		t.Fatal("moving to the next week did not load tasks")
	}
	if !m.Cursor().Start.Equal(at(17, 0, 0)) {
		t.Errorf("cursor = %v, want April 17", m.Cursor().Start)
	}
	msg, ok := cmd().(TasksLoadedMsg)
	if !ok {
		t.Fatalf("cmd returned %T", cmd())
	}
	if !msg.Window.Start.Equal(at(13, 0, 0)) || msg.Err != nil {
		t.Errorf("loaded window %v err %v", msg.Window.Start, msg.Err)
	}

	// Moving within the week needs no reload.
	if _, cmd := m.Update(runes("l")); cmd != nil {
		t.Error("moving within the week reloaded tasks")
	}

	m, _ = m.Update(runes("t"))
	if !m.Cursor().Start.Equal(at(10, 0, 0)) {
		t.Errorf("today moved cursor to %v", m.Cursor().Start)
	}
}

func TestModelIgnoresStaleSnapshot(t *testing.T) {
	m := newTestModel(t, calendar.ViewWeek)
	stale := calendar.WeekWindow(at(1, 0, 0), time.Sunday)
	m, _ = m.Update(TasksLoadedMsg{
		Window: stale,
		Tasks:  []model.Task{task("a", "Alpha", at(10, 9, 0), at(10, 10, 0))},
	})
	if got := m.Stats().Total; got != 0 {
		t.Errorf("stale snapshot applied: %d tasks", got)
	}
}

func TestModelLoadTasksFromStore(t *testing.T) {
	s := testutil.NewTestStore(t)
	testutil.MustCreateTask(t, s, "Standup", at(10, 9, 0), at(10, 9, 15))
	testutil.MustCreateTask(t, s, "Later", at(20, 9, 0), at(20, 10, 0))

	m := New(s, keys.DefaultKeyMap(), Options{View: calendar.ViewDay}, 80, 40)
	m.SetClock(func() time.Time { return at(10, 8, 0) })

	msg, ok := m.LoadTasks()().(TasksLoadedMsg)
	if !ok || msg.Err != nil {
		t.Fatalf("LoadTasks: %+v", msg)
	}
	if len(msg.Tasks) != 1 || msg.Tasks[0].Title != "Standup" {
		t.Fatalf("tasks = %+v", msg.Tasks)
	}

	m, _ = m.Update(msg)
	if !strings.Contains(m.View(), "Standup") {
		t.Error("day view does not show the loaded task")
	}

	cats, ok := m.LoadCategories()().(CategoriesLoadedMsg)
	if !ok || cats.Err != nil || len(cats.Categories) != 2 {
		t.Fatalf("LoadCategories: %+v", cats)
	}
}

func TestModelSelectionCycles(t *testing.T) {
	m := newTestModel(t, calendar.ViewWeek)
	m = loaded(m,
		task("b", "Beta", at(10, 9, 30), at(10, 11, 0)),
		task("a", "Alpha", at(10, 9, 0), at(10, 10, 0)),
		task("o", "Other day", at(11, 9, 0), at(11, 10, 0)),
	)

	tab := tea.KeyMsg{Type: tea.KeyTab}
	want := []string{"a", "b", "a"}
	for i, id := range want {
		m, _ = m.Update(tab)
		got, ok := m.Selected()
		if !ok || got.ID != id {
			t.Fatalf("tab %d selected %q, want %q", i+1, got.ID, id)
		}
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if got, _ := m.Selected(); got.ID != "b" {
		t.Errorf("shift+tab selected %q, want b", got.ID)
	}

	_, cmd := m.Update(runes("x"))
	if cmd == nil {
		t.Fatal("toggle produced no command")
	}
	if msg, ok := cmd().(ToggleTaskMsg); !ok || msg.ID != "b" {
		t.Errorf("toggle msg = %#v", cmd())
	}

	_, cmd = m.Update(runes("D"))
	if msg, ok := cmd().(DeleteTaskMsg); !ok || msg.ID != "b" {
		t.Errorf("delete msg = %#v", cmd())
	}

	_, cmd = m.Update(runes("e"))
	if msg, ok := cmd().(EditTaskMsg); !ok || msg.Task.Title != "Beta" {
		t.Errorf("edit msg = %#v", cmd())
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if msg, ok := cmd().(ShowTaskMsg); !ok || msg.ID != "b" {
		t.Errorf("enter msg = %#v", cmd())
	}

	// Moving to another day drops the selection.
	m, _ = m.Update(runes("l"))
	if _, ok := m.Selected(); ok {
		t.Error("selection survived a cursor move")
	}
	if _, cmd := m.Update(runes("x")); cmd != nil {
		t.Error("toggle without a selection produced a command")
	}
}

func TestModelNewTaskStart(t *testing.T) {
	m := newTestModel(t, calendar.ViewWeek)

	_, cmd := m.Update(runes("n"))
	msg, ok := cmd().(NewTaskMsg)
	if !ok || !msg.Start.Equal(at(10, 9, 0)) {
		t.Errorf("today: %#v, want start 09:00", msg)
	}

	m, _ = m.Update(runes("l"))
	_, cmd = m.Update(runes("n"))
	msg, _ = cmd().(NewTaskMsg)
	if !msg.Start.Equal(at(11, 9, 0)) {
		t.Errorf("other day: start %v, want April 11 09:00", msg.Start)
	}
}

func TestModelFilters(t *testing.T) {
	m := newTestModel(t, calendar.ViewWeek)
	high := task("h", "Urgent", at(10, 9, 0), at(10, 10, 0))
	high.Priority = model.PriorityHigh
	high.Category = "work"
	m = loaded(m, high, task("l", "Later", at(10, 11, 0), at(10, 12, 0)))
	m, _ = m.Update(CategoriesLoadedMsg{Categories: []model.Category{{ID: "work", Name: "Work"}}})

	m, _ = m.Update(runes("2"))
	if got := m.FilterSummary(); got != "priority:high" {
		t.Errorf("FilterSummary = %q", got)
	}
	if got := m.Stats().Total; got != 1 {
		t.Errorf("visible tasks = %d, want 1", got)
	}

	m, _ = m.Update(runes("1"))
	if got := m.FilterSummary(); got != "category:Work priority:high" {
		t.Errorf("FilterSummary = %q", got)
	}

	m, _ = m.Update(runes("3"))
	if got := m.Stats().Total; got != 1 {
		t.Errorf("pending filter kept %d tasks, want 1", got)
	}
	m, _ = m.Update(runes("3"))
	if got := m.Stats().Total; got != 0 {
		t.Errorf("overdue filter kept %d tasks, want 0", got)
	}

	m, _ = m.Update(runes("0"))
	if got := m.FilterSummary(); got != "" {
		t.Errorf("FilterSummary after clear = %q", got)
	}
	if got := m.Stats().Total; got != 2 {
		t.Errorf("visible tasks after clear = %d, want 2", got)
	}
}

func TestModelMonthExpand(t *testing.T) {
	m := newTestModel(t, calendar.ViewMonth)
	var tasks []model.Task
	for i, title := range []string{"T1", "T2", "T3", "T4", "T5"} {
		tasks = append(tasks, task(title, title, at(10, 9+i, 0), at(10, 9+i, 30)))
	}
	m = loaded(m, tasks...)

	view := m.View()
	if !strings.Contains(view, "+2 more") || strings.Contains(view, "T5") {
		t.Fatalf("collapsed month view:\n%s", view)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	view = m.View()
	if !strings.Contains(view, "T5") || !strings.Contains(view, "Thursday, April 10") {
		t.Errorf("expanded month view:\n%s", view)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if strings.Contains(m.View(), "T5") {
		t.Error("esc did not collapse the day")
	}

	// Down moves a week in the month grid.
	m, _ = m.Update(runes("j"))
	if !m.Cursor().Start.Equal(at(17, 0, 0)) {
		t.Errorf("cursor = %v, want April 17", m.Cursor().Start)
	}
}

func TestCycle(t *testing.T) {
	opts := []string{"a", "b"}
	var cur *string
	var seen []string
	for i := 0; i < 3; i++ {
		cur = cycle(cur, opts)
		if cur == nil {
			seen = append(seen, "<nil>")
		} else {
			seen = append(seen, *cur)
		}
	}
	if got := strings.Join(seen, ","); got != "a,b,<nil>" {
		t.Errorf("cycle sequence = %s", got)
	}

	unknown := "zzz"
	if cycle(&unknown, opts) != nil {
		t.Error("unknown value did not reset to all")
	}
}

func TestStatsCountOnlyTasksInWindow(t *testing.T) {
	m := newTestModel(t, calendar.ViewDay)
	m = loaded(m,
		task("a", "Today", at(10, 9, 0), at(10, 10, 0)),
		task("b", "Tomorrow", at(11, 9, 0), at(11, 10, 0)),
		task("c", "Late", at(10, 6, 0), at(10, 7, 0)),
	)

	if st := m.Stats(); st.Total != 2 || st.Overdue != 1 || st.Pending != 1 {
		t.Errorf("day stats = %+v, want 1 pending and 1 overdue", st)
	}

	m, _ = m.Update(runes("3"))
	if st := m.Stats(); st.Total != 1 || st.Pending != 1 {
		t.Errorf("stats with status:pending = %+v", st)
	}
}
