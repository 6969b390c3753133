package calview

import (
	"strings"
	"testing"
	"time"

	"github.com/nhle/task-calendar/internal/calendar"
	"github.com/nhle/task-calendar/internal/model"
)

func at(day, hh, mm int) time.Time {
	return time.Date(2025, time.April, day, hh, mm, 0, 0, time.UTC)
}

func task(id, title string, start, due time.Time) model.Task {
	return model.Task{ID: id, Title: title, StartDate: start, DueDate: due, Priority: model.PriorityMedium}
}

func TestBlockRows(t *testing.T) {
	g := calendar.DefaultGeometry()
	cases := []struct {
		name     string
		pos      calendar.Position
		rph      int
		top, row int
	}{
		{"one hour at nine", calendar.Position{Top: 540, Height: 60}, 2, 18, 2},
		{"ninety minutes", calendar.Position{Top: 570, Height: 90}, 2, 19, 3},
		{"min height rounds up", calendar.Position{Top: 0, Height: 25}, 2, 0, 1},
		{"quarter rows", calendar.Position{Top: 615, Height: 15}, 4, 41, 1},
		{"single row per hour", calendar.Position{Top: 1410, Height: 30}, 1, 23, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			top, rows := blockRows(tc.pos, g, tc.rph)
			if top != tc.top || rows != tc.row {
				t.Errorf("blockRows = (%d, %d), want (%d, %d)", top, rows, tc.top, tc.row)
			}
		})
	}
}

func TestBlockColsTileWithoutGaps(t *testing.T) {
	for _, colWidth := range []int{7, 10, 20, 31} {
		for lanes := 1; lanes <= 4; lanes++ {
			next := 0
			for lane := 0; lane < lanes; lane++ {
				pos := calendar.Position{
					Width: 100 / float64(lanes),
					Left:  float64(lane) * 100 / float64(lanes),
				}
				x, w := blockCols(pos, colWidth)
				if x != next {
					t.Errorf("width %d lanes %d lane %d: x = %d, want %d", colWidth, lanes, lane, x, next)
				}
				next = x + w
			}
			if next != colWidth {
				t.Errorf("width %d lanes %d: covered %d columns", colWidth, lanes, next)
			}
		}
	}
}

func TestBlockColsNarrowColumn(t *testing.T) {
	x, w := blockCols(calendar.Position{Width: 25, Left: 75}, 3)
	if x != 2 || w != 1 {
		t.Errorf("blockCols = (%d, %d), want (2, 1)", x, w)
	}
	if _, w := blockCols(calendar.Position{Width: 100}, 0); w != 0 {
		t.Errorf("zero column width gave w = %d", w)
	}
}

func TestTimeGridBody(t *testing.T) {
	day := calendar.DayOf(at(10, 0, 0))
	g := timeGrid{
		days: []calendar.Day{day},
		tasks: []model.Task{
			task("a", "Alpha", at(10, 9, 0), at(10, 10, 0)),
			task("b", "Beta", at(10, 9, 30), at(10, 11, 0)),
			task("z", "Elsewhere", at(12, 9, 0), at(12, 10, 0)),
		},
		geometry:    calendar.DefaultGeometry(),
		rowsPerHour: 2,
		width:       27,
		now:         at(11, 12, 0),
	}
	if g.columnWidth() != 20 {
		t.Fatalf("columnWidth = %d, want 20", g.columnWidth())
	}

	lines := strings.Split(g.Body().Plain(), "\n")
	if len(lines) != 48 {
		t.Fatalf("got %d rows, want 48", len(lines))
	}

	want := map[int]string{
		17: "      │" + strings.Repeat(" ", 20),
		18: "09:00 │Alpha" + strings.Repeat(" ", 5) + strings.Repeat("┈", 10),
		19: "      │09:00-10:…Beta" + strings.Repeat(" ", 6),
		20: "10:00 │" + strings.Repeat("┈", 10) + "09:30-11:…",
		21: "      │" + strings.Repeat(" ", 20),
	}
	for row, line := range want {
		if lines[row] != line {
			t.Errorf("row %d = %q, want %q", row, lines[row], line)
		}
	}
	if strings.Contains(g.Body().Plain(), "Elsewhere") {
		t.Error("task from another day drawn")
	}
}

func TestTimeGridNowLine(t *testing.T) {
	day := calendar.DayOf(at(10, 0, 0))
	g := timeGrid{
		days:        []calendar.Day{day},
		geometry:    calendar.DefaultGeometry(),
		rowsPerHour: 2,
		width:       17,
		now:         at(10, 14, 40),
	}
	lines := strings.Split(g.Body().Plain(), "\n")
	if want := "      │" + strings.Repeat("─", 10); lines[29] != want {
		t.Errorf("row 29 = %q, want %q", lines[29], want)
	}
}

func TestTimeGridMarksMultiDayAndCompleted(t *testing.T) {
	day := calendar.DayOf(at(10, 0, 0))
	done := task("c", "Done", at(10, 6, 0), at(10, 7, 0))
	done.Completed = true
	g := timeGrid{
		days: []calendar.Day{day},
		tasks: []model.Task{
			task("m", "Trip", at(9, 20, 0), at(10, 2, 0)),
			done,
		},
		geometry:    calendar.DefaultGeometry(),
		rowsPerHour: 1,
		width:       27,
		now:         at(12, 0, 0),
	}
	lines := strings.Split(g.Body().Plain(), "\n")
	if !strings.HasPrefix(lines[0], "00:00 │↔ Trip") {
		t.Errorf("row 0 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "01:00 │00:00-02:00") {
		t.Errorf("row 1 = %q", lines[1])
	}
	if !strings.HasPrefix(lines[6], "06:00 │✓ Done") {
		t.Errorf("row 6 = %q", lines[6])
	}
}

func TestCellTasks(t *testing.T) {
	five := make([]model.Task, 5)
	cases := []struct {
		name     string
		n, lines int
		shown    int
		wantMore int
	}{
		{"fits", 3, 5, 3, 0},
		{"overflow with room", 5, 5, 3, 2},
		{"overflow tight", 5, 3, 2, 3},
		{"no room", 5, 0, 0, 5},
		{"empty", 0, 5, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			shown, more := cellTasks(five[:tc.n], tc.lines)
			if len(shown) != tc.shown || more != tc.wantMore {
				t.Errorf("cellTasks = (%d, %d), want (%d, %d)", len(shown), more, tc.shown, tc.wantMore)
			}
		})
	}
}

func TestMonthGridBody(t *testing.T) {
	w := calendar.MonthGridWindow(at(15, 0, 0), time.Sunday)
	var tasks []model.Task
	for i, title := range []string{"T1", "T2", "T3", "T4", "T5"} {
		tasks = append(tasks, task(title, title, at(10, 8+i, 0), at(10, 8+i, 30)))
	}
	g := monthGrid{
		days:   w.Days(),
		month:  time.April,
		tasks:  tasks,
		width:  76,
		height: 39,
		now:    at(1, 12, 0),
		cursor: calendar.DayOf(at(1, 0, 0)),
	}
	if g.cellWidth() != 10 || g.cellHeight() != 6 {
		t.Fatalf("cell = %dx%d, want 10x6", g.cellWidth(), g.cellHeight())
	}

	body := g.Body().Plain()
	for _, want := range []string{"• T1", "• T2", "• T3", "+2 more"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
	for _, hidden := range []string{"T4", "T5"} {
		if strings.Contains(body, hidden) {
			t.Errorf("body shows %q behind +N more", hidden)
		}
	}

	lines := strings.Split(body, "\n")
	if len(lines) != 5*6+4 {
		t.Errorf("got %d rows, want 34", len(lines))
	}
	// Week one starts on Sunday March 30.
	if !strings.HasPrefix(lines[0], "30") {
		t.Errorf("first cell = %q", lines[0][:10])
	}
}
