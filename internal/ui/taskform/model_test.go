package taskform

import (
	"testing"
	"time"

	"github.com/nhle/task-calendar/internal/model"
)

func newForm() Model {
	m := New(80, 30)
	m.SetLocation(time.UTC)
	m.SetCategories([]model.Category{{ID: "work", Name: "Work"}})
	return m
}

func TestStartCreateDefaults(t *testing.T) {
	m := newForm()
	m.StartCreate(time.Date(2025, time.April, 10, 9, 0, 0, 0, time.UTC))

	if m.fb.start != "2025-04-10 09:00" || m.fb.due != "2025-04-10 10:00" {
		t.Errorf("start/due = %q/%q", m.fb.start, m.fb.due)
	}
	if m.fb.priority != model.PriorityMedium {
		t.Errorf("priority = %q", m.fb.priority)
	}
	if m.form == nil {
		t.Fatal("form not built")
	}
}

func TestSubmitCreate(t *testing.T) {
	m := newForm()
	m.StartCreate(time.Date(2025, time.April, 10, 9, 0, 0, 0, time.UTC))
	m.fb.title = "  Planning  "
	m.fb.category = "work"
	m.fb.priority = model.PriorityHigh
	m.fb.due = "2025-04-10 11:30"

	msg, ok := m.handleSubmit()().(TaskCreatedMsg)
	if !ok {
		t.Fatal("submit did not create")
	}
	got := msg.Task
	if got.Title != "Planning" || got.Category != "work" || got.Priority != model.PriorityHigh {
		t.Errorf("task = %+v", got)
	}
	if !got.StartDate.Equal(time.Date(2025, time.April, 10, 9, 0, 0, 0, time.UTC)) ||
		!got.DueDate.Equal(time.Date(2025, time.April, 10, 11, 30, 0, 0, time.UTC)) {
		t.Errorf("dates = %v..%v", got.StartDate, got.DueDate)
	}
}

func TestSubmitEditKeepsIdentity(t *testing.T) {
	m := newForm()
	orig := model.Task{
		ID:        "t1",
		Title:     "Review",
		StartDate: time.Date(2025, time.April, 10, 14, 0, 0, 0, time.UTC),
		DueDate:   time.Date(2025, time.April, 10, 15, 0, 0, 0, time.UTC),
		Priority:  model.PriorityLow,
		SortOrder: 4,
		Subtasks:  []model.Subtask{{ID: "s1", Title: "Read"}},
	}
	m.StartEdit(orig)
	m.fb.completed = true

	msg, ok := m.handleSubmit()().(TaskUpdatedMsg)
	if !ok {
		t.Fatal("submit did not update")
	}
	got := msg.Task
	if got.ID != "t1" || got.SortOrder != 4 || len(got.Subtasks) != 1 || !got.Completed {
		t.Errorf("task = %+v", got)
	}
}

func TestValidateDue(t *testing.T) {
	m := newForm()
	m.StartCreate(time.Date(2025, time.April, 10, 9, 0, 0, 0, time.UTC))

	cases := []struct {
		due     string
		wantErr bool
	}{
		{"2025-04-10 10:00", false},
		{"2025-04-10 09:00", false},
		{"2025-04-10 08:59", true},
		{"tomorrow", true},
		{"", true},
	}
	for _, tc := range cases {
		err := m.validateDue(tc.due)
		if (err != nil) != tc.wantErr {
			t.Errorf("validateDue(%q) = %v, wantErr %v", tc.due, err, tc.wantErr)
		}
	}

	if err := validateRequired("Title")("   "); err == nil {
		t.Error("blank title accepted")
	}
}
