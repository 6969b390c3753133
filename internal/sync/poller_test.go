package sync

import (
	"context"
	"errors"
	gosync "sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type fakeVersioner struct {
	mu      gosync.Mutex
	version int64
	err     error
}

func (f *fakeVersioner) DataVersion(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.version, f.err
}

func (f *fakeVersioner) set(v int64, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.version = v
	f.err = err
}

// pending returns the queued message, or nil when the channel is empty.
func pending(p *Poller) tea.Msg {
	select {
	case msg := <-p.resultCh:
		return msg
	default:
		return nil
	}
}

func TestCheckReportsChangesAfterBaseline(t *testing.T) {
	src := &fakeVersioner{version: 1}
	p := New(src, time.Hour)

	p.check()
	if msg := pending(p); msg != nil {
		t.Fatalf("baseline check sent %#v", msg)
	}

	p.check()
	if msg := pending(p); msg != nil {
		t.Fatalf("unchanged version sent %#v", msg)
	}

	src.set(2, nil)
	p.check()
	msg, ok := pending(p).(ChangedMsg)
	if !ok || msg.Version != 2 {
		t.Fatalf("changed version sent %#v", msg)
	}
	if st := p.Status(); st.Version != 2 || st.LastCheck.IsZero() {
		t.Errorf("status = %+v", st)
	}
}

func TestCheckReportsErrorsOnce(t *testing.T) {
	boom := errors.New("disk gone")
	src := &fakeVersioner{version: 1}
	p := New(src, time.Hour)
	p.check()

	src.set(1, boom)
	p.check()
	p.check()

	msg, ok := pending(p).(ErrorMsg)
	if !ok || !errors.Is(msg.Err, boom) {
		t.Fatalf("first failure sent %#v", msg)
	}
	if extra := pending(p); extra != nil {
		t.Errorf("repeated failure sent %#v", extra)
	}

	// Recovery keeps the old baseline.
	src.set(1, nil)
	p.check()
	if msg := pending(p); msg != nil {
		t.Errorf("recovery without a change sent %#v", msg)
	}
	if p.Status().Error != nil {
		t.Errorf("status error = %v after recovery", p.Status().Error)
	}
}

func TestStartRefreshStop(t *testing.T) {
	src := &fakeVersioner{version: 1}
	p := New(src, time.Hour)

	wait := p.Start()
	if p.Start() != nil {
		t.Error("second Start returned a command")
	}

	deadline := time.Now().Add(2 * time.Second)
	for p.Status().LastCheck.IsZero() {
		if time.Now().After(deadline) {
			t.Fatal("baseline check never ran")
		}
		time.Sleep(time.Millisecond)
	}

	src.set(7, nil)
	p.Refresh()

	done := make(chan tea.Msg, 1)
	go func() { done <- wait() }()
	select {
	case msg := <-done:
		if got, ok := msg.(ChangedMsg); !ok || got.Version != 7 {
			t.Errorf("wait returned %#v", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported after Refresh")
	}

	p.Stop()
	p.Stop()
	if msg := p.WaitForNextResult()(); msg != nil {
		t.Errorf("wait after Stop returned %#v", msg)
	}
}
