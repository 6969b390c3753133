package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/task-calendar/internal/calendar"
)

func TestFrameContentHeight(t *testing.T) {
	tests := []struct {
		height int
		want   int
	}{
		{40, 38},
		{3, 1},
		{2, 1},
		{0, 1},
	}
	for _, tt := range tests {
		if got := NewFrame(80, tt.height).ContentHeight(); got != tt.want {
			t.Errorf("ContentHeight(%d) = %d, want %d", tt.height, got, tt.want)
		}
	}
}

func TestRenderHeader(t *testing.T) {
	f := NewFrame(120, 30)
	header := f.RenderHeader(Header{
		Period:  "April 2025",
		View:    calendar.ViewWeek,
		Filters: []string{"priority:high", "status:overdue"},
		Stats:   calendar.Stats{Total: 4, Pending: 1, Overdue: 1, Completed: 2, CompletionRate: 0.5},
	})

	for _, want := range []string{"April 2025", "Day", "Week", "Month", "priority:high", "status:overdue", "1 pending · 1 overdue · 2 done (50%)"} {
		if !strings.Contains(header, want) {
			t.Errorf("header missing %q: %q", want, header)
		}
	}
	if w := lipgloss.Width(header); w != 120 {
		t.Errorf("header width = %d, want 120", w)
	}
}

func TestRenderHeaderDropsChipsWhenNarrow(t *testing.T) {
	f := NewFrame(60, 30)
	header := f.RenderHeader(Header{
		Period:  "April 2025",
		View:    calendar.ViewDay,
		Filters: []string{"category:Work", "priority:high"},
	})
	if strings.Contains(header, "priority:high") {
		t.Errorf("narrow header kept every chip: %q", header)
	}
	if !strings.Contains(header, "no tasks") {
		t.Errorf("narrow header lost the summary: %q", header)
	}
}

func TestRenderStatusBar(t *testing.T) {
	f := NewFrame(80, 30)

	bar := f.RenderStatusBar([]string{"q quit", "? help"}, nil)
	if !strings.Contains(bar, "q quit | ? help") {
		t.Errorf("status bar = %q", bar)
	}
	if w := lipgloss.Width(bar); w != 80 {
		t.Errorf("status bar width = %d, want 80", w)
	}

	bar = f.RenderStatusBar([]string{"q quit"}, errors.New("disk full"))
	if !strings.Contains(bar, "error: disk full") || strings.Contains(bar, "q quit") {
		t.Errorf("status bar with error = %q", bar)
	}
}

func TestRenderKeepsStatusBarOnLastRow(t *testing.T) {
	f := NewFrame(40, 6)
	out := f.Render("header", "one\ntwo", "status")
	lines := strings.Split(out, "\n")
	if len(lines) != 6 {
		t.Fatalf("frame has %d rows, want 6:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[5], "status") {
		t.Errorf("last row = %q", lines[5])
	}

	out = f.Render("header", strings.Repeat("x\n", 10)+"x", "status")
	if n := len(strings.Split(out, "\n")); n != 6 {
		t.Errorf("overflowing content gave %d rows, want 6", n)
	}
}

func TestSummary(t *testing.T) {
	if got := Summary(calendar.Stats{}); got != "no tasks" {
		t.Errorf("Summary(empty) = %q", got)
	}
}
