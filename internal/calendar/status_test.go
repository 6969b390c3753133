package calendar

import (
	"testing"
)

func TestClassify(t *testing.T) {
	now := at(20, 12, 0)
	cases := []struct {
		name      string
		completed bool
		due       int // hour on Apr 20
		want      Status
	}{
		{"completed after due", true, 9, StatusCompleted},
		{"completed before due", true, 15, StatusCompleted},
		{"overdue", false, 9, StatusOverdue},
		{"pending", false, 15, StatusPending},
		{"due exactly now", false, 12, StatusPending},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tk := task("1", at(20, 8, 0), at(20, tc.due, 0))
			tk.Completed = tc.completed
			if got := Classify(tk, now); got != tc.want {
				t.Errorf("Classify = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestClassify_CompletedYesterday(t *testing.T) {
	tk := task("1", at(19, 9, 0), at(19, 10, 0))
	tk.Completed = true
	if got := Classify(tk, at(20, 9, 0)); got != StatusCompleted {
		t.Errorf("completed task with past due date classified as %q", got)
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"completed", "Overdue", " pending "} {
		if _, err := ParseStatus(s); err != nil {
			t.Errorf("ParseStatus(%q): %v", s, err)
		}
	}
	if _, err := ParseStatus("done"); err == nil {
		t.Error("expected error for unknown status")
	}
}
