// Package wakeup provides the "check the clipboard now" signal behind one
// uniform interface. Build constraints and runtime probing select the best
// mechanism available:
//
//	wakeup_windows.go: hidden message-only window + AddClipboardFormatListener
//	wakeup_linux.go:   X11 XFixes selection-change events (poll on Wayland)
//	wakeup_other.go:   polling only
//
// Every backend degrades to polling rather than failing: a setup or protocol
// error is reported once on Err() and the owner swaps in a Poll source.
package wakeup

import (
	"sync"
	"time"
)

// DefaultPollInterval is the wake-up period of the polling fallback.
const DefaultPollInterval = 100 * time.Millisecond

// Source emits opaque wake-up signals meaning "re-check the clipboard now".
//
// Wake never closes and signals are coalesced: a consumer that is slow to
// drain sees at most one pending signal. Err delivers at most one terminal
// failure, after which the source emits no further signals and the owner is
// expected to fall back to NewPoll. Close is joinable: it returns only after
// the backend's goroutines have fully stopped, so no listener registration or
// window handle outlives the source.
type Source interface {
	Name() string
	Wake() <-chan struct{}
	Err() <-chan error
	Close()
}

// Poll is the universal fallback source: a fixed-interval ticker. It never
// fails and is used directly on hosts without a usable change-notification
// API (Wayland sessions, headless environments).
type Poll struct {
	interval time.Duration
	wakeCh   chan struct{}
	errCh    chan error
	done     chan struct{}
	wg       sync.WaitGroup
}

// NewPoll returns a started Poll source. A non-positive interval means
// DefaultPollInterval.
func NewPoll(interval time.Duration) *Poll {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	p := &Poll{
		interval: interval,
		wakeCh:   make(chan struct{}, 1),
		errCh:    make(chan error, 1),
		done:     make(chan struct{}),
	}
	p.wg.Add(1)
	go p.run()
	return p
}

func (p *Poll) Name() string { return "poll" }

func (p *Poll) run() {
	defer p.wg.Done()
	t := time.NewTicker(p.interval)
	defer t.Stop()
	for {
		select {
		case <-p.done:
			return
		case <-t.C:
			signal(p.wakeCh)
		}
	}
}

func (p *Poll) Wake() <-chan struct{} { return p.wakeCh }
func (p *Poll) Err() <-chan error     { return p.errCh }

func (p *Poll) Close() {
	close(p.done)
	p.wg.Wait()
}

// signal delivers a coalesced wake-up: if one is already pending it is
// dropped rather than queued.
func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
