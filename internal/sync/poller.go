// Package sync watches the task database for commits made by other
// processes, such as `taskcal add` run from another terminal, and reports
// them to the Bubble Tea runtime.
package sync

import (
	"context"
	"fmt"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Versioner reports a counter that changes whenever another connection
// commits to the database.
type Versioner interface {
	DataVersion(ctx context.Context) (int64, error)
}

// ChangedMsg is a tea.Msg sent when the database changed underneath the UI.
type ChangedMsg struct {
	Version int64
}

// ErrorMsg is a tea.Msg sent when the version check fails.
type ErrorMsg struct {
	Err error
}

// Status describes the last version check.
type Status struct {
	LastCheck time.Time
	Version   int64
	Error     error
}

// checkTimeout is the maximum time allowed for a single version check.
const checkTimeout = 5 * time.Second

// Poller periodically checks the database version in the background.
type Poller struct {
	source    Versioner
	interval  time.Duration
	resultCh  chan tea.Msg
	triggerCh chan struct{}
	stopCh    chan struct{}
	mu        gosync.Mutex
	running   bool
	status    Status
	seen      bool
}

// New creates a Poller that checks source every interval. A non-positive
// interval defaults to five seconds.
func New(source Versioner, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Poller{
		source:    source,
		interval:  interval,
		resultCh:  make(chan tea.Msg, 16),
		triggerCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
	}
}

// Start returns a tea.Cmd that starts the polling goroutine and waits for
// its first result.
func (p *Poller) Start() tea.Cmd {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	p.mu.Unlock()

	go p.poll()

	return p.waitForResult()
}

// Stop halts the polling goroutine. It is safe to call more than once.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}

	close(p.stopCh)
	p.running = false
}

// Refresh triggers an immediate check.
func (p *Poller) Refresh() {
	select {
	case p.triggerCh <- struct{}{}:
	default:
		// A check is already pending.
	}
}

// Status returns the outcome of the last check.
func (p *Poller) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *Poller) poll() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// Record the baseline immediately.
	p.check()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.check()
		case <-p.triggerCh:
			p.check()
		}
	}
}

// check reads the version once. The first successful read only sets the
// baseline; later reads that differ emit a ChangedMsg.
func (p *Poller) check() {
	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	version, err := p.source.DataVersion(ctx)

	p.mu.Lock()
	p.status.LastCheck = time.Now()
	if err != nil {
		// Report only the first failure of a run of failures.
		repeated := p.status.Error != nil
		p.status.Error = err
		p.mu.Unlock()
		if !repeated {
			p.sendResult(ErrorMsg{Err: fmt.Errorf("checking task database: %w", err)})
		}
		return
	}

	changed := p.seen && version != p.status.Version
	p.seen = true
	p.status.Version = version
	p.status.Error = nil
	p.mu.Unlock()

	if changed {
		p.sendResult(ChangedMsg{Version: version})
	}
}

// sendResult sends a message on the result channel without blocking.
func (p *Poller) sendResult(msg tea.Msg) {
	select {
	case p.resultCh <- msg:
	default:
		// Drop if channel is full to avoid blocking the poller
	}
}

// waitForResult returns a tea.Cmd that waits for the next message from
// the result channel.
func (p *Poller) waitForResult() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-p.resultCh:
			return msg
		case <-p.stopCh:
			return nil
		}
	}
}

// WaitForNextResult returns a tea.Cmd that waits for the next message.
// Call it after handling a ChangedMsg or ErrorMsg to keep listening.
func (p *Poller) WaitForNextResult() tea.Cmd {
	return p.waitForResult()
}
