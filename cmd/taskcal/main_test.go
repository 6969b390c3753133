package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nhle/task-calendar/internal/calendar"
	"github.com/nhle/task-calendar/internal/model"
	"github.com/nhle/task-calendar/internal/store"
	"github.com/nhle/task-calendar/tests/testutil"
)

// runCLI executes the root command against a throwaway config and database.
func runCLI(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{
		"--config", filepath.Join(dir, "config.yaml"),
		"--db", filepath.Join(dir, "data", "tasks.db"),
	}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func openDB(t *testing.T, dir string) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(dir, "data", "tasks.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "add",
		"--title", "Design review",
		"--start", "2025-04-10 10:00",
		"--due", "2025-04-10 11:30",
		"--priority", "HIGH",
		"--category", "Work",
	)
	if err != nil {
		t.Fatalf("add: %v\n%s", err, out)
	}
	if !strings.Contains(out, `"Design review"`) {
		t.Errorf("output = %q", out)
	}

	tasks, err := openDB(t, dir).GetTasks(context.Background(), store.TaskFilter{})
	if err != nil || len(tasks) != 1 {
		t.Fatalf("tasks = %+v, err %v", tasks, err)
	}
	got := tasks[0]
	if got.Priority != model.PriorityHigh || got.Category != "work" {
		t.Errorf("task = %+v", got)
	}
	if d := got.DueDate.Sub(got.StartDate); d != 90*time.Minute {
		t.Errorf("duration = %v, want 1h30m", d)
	}
}

func TestAddOptionsValidation(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name string
		opts addOptions
		want string
	}{
		{"blank title", addOptions{title: "  ", start: "2025-04-10 10:00", priority: "low"}, "--title"},
		{"bad start", addOptions{title: "x", start: "tomorrow", priority: "low"}, "--start"},
		{"due before start", addOptions{title: "x", start: "2025-04-10 10:00", due: "2025-04-10 09:00", priority: "low"}, "before"},
		{"priority", addOptions{title: "x", start: "2025-04-10 10:00", priority: "urgent"}, "priority"},
		{"category", addOptions{title: "x", start: "2025-04-10 10:00", priority: "low", category: "hobby"}, "category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.opts.task(ctx, s, time.UTC)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to mention %q", err, tt.want)
			}
		})
	}

	task, err := (&addOptions{title: "x", start: "2025-04-10 10:00", priority: "low"}).task(ctx, s, time.UTC)
	if err != nil {
		t.Fatalf("task: %v", err)
	}
	if !task.DueDate.Equal(time.Date(2025, time.April, 10, 11, 0, 0, 0, time.UTC)) {
		t.Errorf("default due = %v, want start + 1h", task.DueDate)
	}
}

func TestLayoutRows(t *testing.T) {
	day := func(h, m int) time.Time { return time.Date(2025, time.April, 10, h, m, 0, 0, time.UTC) }
	tasks := []model.Task{
		{ID: "a", Title: "A", StartDate: day(9, 0), DueDate: day(10, 0)},
		{ID: "b", Title: "B", StartDate: day(9, 30), DueDate: day(11, 0)},
	}
	w := calendar.DayWindow(day(0, 0))

	rows := layoutRows(tasks, w, calendar.DefaultGeometry(), calendar.Filter{}, "", day(8, 0))
	if len(rows) != 2 {
		t.Fatalf("rows = %v", rows)
	}
	want := [][]string{
		{"Thu Apr 10", "A", "pending", "540.0", "60.0", "0.00%", "50.00%"},
		{"Thu Apr 10", "B", "pending", "570.0", "90.0", "50.00%", "50.00%"},
	}
	for i := range want {
		if strings.Join(rows[i], "|") != strings.Join(want[i], "|") {
			t.Errorf("row %d = %v, want %v", i, rows[i], want[i])
		}
	}

	table := renderLayoutTable(rows)
	for _, s := range []string{"Top", "570.0", "50.00%"} {
		if !strings.Contains(table, s) {
			t.Errorf("table missing %q:\n%s", s, table)
		}
	}
}

func TestLayoutRowsFilterAndSort(t *testing.T) {
	day := func(h, m int) time.Time { return time.Date(2025, time.April, 10, h, m, 0, 0, time.UTC) }
	tasks := []model.Task{
		{ID: "a", Title: "Low early", Priority: model.PriorityLow, StartDate: day(9, 0), DueDate: day(10, 0)},
		{ID: "b", Title: "High late", Priority: model.PriorityHigh, StartDate: day(11, 0), DueDate: day(12, 0)},
		{ID: "c", Title: "Done", Priority: model.PriorityHigh, StartDate: day(7, 0), DueDate: day(8, 0), Completed: true},
	}
	w := calendar.DayWindow(day(0, 0))
	g := calendar.DefaultGeometry()
	now := day(8, 30)

	titles := func(rows [][]string) string {
		var out []string
		for _, r := range rows {
			out = append(out, r[1])
		}
		return strings.Join(out, ",")
	}

	tests := []struct {
		name string
		f    calendar.Filter
		by   calendar.SortBy
		want string
	}{
		{"drawing order", calendar.Filter{}, "", "Done,Low early,High late"},
		{"priority first", calendar.Filter{}, calendar.SortPriorityDesc, "High late,Done,Low early"},
		{"pending only", calendar.Filter{Status: ptr(calendar.StatusPending)}, "", "Low early,High late"},
		{"high pending due last", calendar.Filter{
			Status:   ptr(calendar.StatusPending),
			Priority: ptr(model.PriorityHigh),
		}, calendar.SortDueDesc, "High late"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := titles(layoutRows(tasks, w, g, tt.f, tt.by, now)); got != tt.want {
				t.Errorf("rows = %s, want %s", got, tt.want)
			}
		})
	}
}

func ptr[T any](v T) *T { return &v }

func TestLayoutOptions(t *testing.T) {
	tests := []struct {
		name    string
		opts    layoutOptions
		wantErr string
	}{
		{"empty", layoutOptions{}, ""},
		{"all set", layoutOptions{status: "Overdue", priority: "HIGH", query: "x", sort: "priority-asc"}, ""},
		{"bad status", layoutOptions{status: "late"}, "--status"},
		{"bad priority", layoutOptions{priority: "urgent"}, "--priority"},
		{"bad sort", layoutOptions{sort: "title"}, "--sort"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, by, err := tt.opts.filter()
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want mention of %s", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if tt.opts.status != "" && (f.Status == nil || *f.Status != calendar.StatusOverdue) {
				t.Errorf("status = %v", f.Status)
			}
			if tt.opts.priority != "" && (f.Priority == nil || *f.Priority != model.PriorityHigh) {
				t.Errorf("priority = %v", f.Priority)
			}
			if tt.opts.sort != "" && by != calendar.SortPriorityAsc {
				t.Errorf("sort = %q", by)
			}
		})
	}
}

func TestSeedAndLayoutCommands(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "seed")
	if err != nil {
		t.Fatalf("seed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Seeded 7 tasks") {
		t.Errorf("seed output = %q", out)
	}

	out, err = runCLI(t, dir, "layout", "--view", "day")
	if err != nil {
		t.Fatalf("layout: %v\n%s", err, out)
	}
	for _, title := range []string{"Team standup", "Design review", "Code review", "Gym"} {
		if !strings.Contains(out, title) {
			t.Errorf("layout output missing %q:\n%s", title, out)
		}
	}

	out, err = runCLI(t, dir, "layout", "--view", "day", "--priority", "high")
	if err != nil {
		t.Fatalf("layout --priority: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Design review") || strings.Contains(out, "Gym") {
		t.Errorf("priority filter output:\n%s", out)
	}

	if _, err := runCLI(t, dir, "layout", "--sort", "title"); err == nil {
		t.Error("unknown sort accepted")
	}
	if _, err := runCLI(t, dir, "layout", "--view", "year"); err == nil {
		t.Error("unknown view accepted")
	}
}

func TestSampleTasksCoverStatuses(t *testing.T) {
	now := time.Date(2025, time.April, 10, 12, 0, 0, 0, time.UTC)
	seen := map[calendar.Status]bool{}
	multiDay := false
	for _, task := range sampleTasks(now) {
		seen[calendar.Classify(task, now)] = true
		multiDay = multiDay || task.IsMultiDay()
	}
	for _, st := range calendar.Statuses {
		if !seen[st] {
			t.Errorf("no sample task is %s", st)
		}
	}
	if !multiDay {
		t.Error("no multi-day sample task")
	}
}
