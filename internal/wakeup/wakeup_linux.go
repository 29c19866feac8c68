//go:build linux

package wakeup

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xfixes"
	"github.com/BurntSushi/xgb/xproto"
)

// New returns the best wake-up source for this session. Wayland compositors
// expose no portable selection-change event to outside clients, so those
// sessions (and displayless ones) go straight to polling; X11 sessions get
// the XFixes selection listener, which hands the owner a terminal error on
// Err() for fallback if the connection cannot be established.
func New(pollInterval time.Duration) Source {
	if os.Getenv("WAYLAND_DISPLAY") != "" || os.Getenv("DISPLAY") == "" {
		slog.Debug("no X11 display, using poll source")
		return NewPoll(pollInterval)
	}
	return newX11()
}

// x11Source blocks on the X server's event stream and emits a wake-up on
// every XFixes SetSelectionOwner notification for the CLIPBOARD selection.
type x11Source struct {
	wakeCh chan struct{}
	errCh  chan error
	wg     sync.WaitGroup

	mu     sync.Mutex
	conn   *xgb.Conn
	closed bool
}

func newX11() *x11Source {
	s := &x11Source{
		wakeCh: make(chan struct{}, 1),
		errCh:  make(chan error, 1),
	}
	s.wg.Add(1)
	go s.run()
	return s
}

func (s *x11Source) Name() string { return "x11" }

func (s *x11Source) run() {
	defer s.wg.Done()
	if err := s.listen(); err != nil && !s.isClosed() {
		slog.Warn("x11 selection listener failed", "err", err)
		s.errCh <- err
	}
}

// adopt hands the connection to Close's ownership. If Close already ran, the
// connection is shut down immediately and adopt reports failure.
func (s *x11Source) adopt(conn *xgb.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		conn.Close()
		return false
	}
	s.conn = conn
	return true
}

func (s *x11Source) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// listen connects, registers an invisible window for XFixes selection events
// on the CLIPBOARD atom, and blocks on the event stream until Close.
func (s *x11Source) listen() error {
	conn, err := xgb.NewConn()
	if err != nil {
		return fmt.Errorf("connecting to X server: %w", err)
	}
	if !s.adopt(conn) {
		return nil
	}

	if err := xfixes.Init(conn); err != nil {
		return fmt.Errorf("xfixes extension: %w", err)
	}
	if _, err := xfixes.QueryVersion(conn, 5, 0).Reply(); err != nil {
		return fmt.Errorf("xfixes version: %w", err)
	}

	screen := xproto.Setup(conn).DefaultScreen(conn)
	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return fmt.Errorf("allocating window id: %w", err)
	}
	// A 1x1 window that is never mapped; it exists only to receive events.
	err = xproto.CreateWindowChecked(conn, screen.RootDepth, wid, screen.Root,
		0, 0, 1, 1, 0, xproto.WindowClassInputOutput, screen.RootVisual,
		0, []uint32{}).Check()
	if err != nil {
		return fmt.Errorf("creating event window: %w", err)
	}

	const selection = "CLIPBOARD"
	atom, err := xproto.InternAtom(conn, false, uint16(len(selection)), selection).Reply()
	if err != nil {
		return fmt.Errorf("interning %s atom: %w", selection, err)
	}

	const mask = xfixes.SelectionEventMaskSetSelectionOwner |
		xfixes.SelectionEventMaskSelectionWindowDestroy |
		xfixes.SelectionEventMaskSelectionClientClose
	err = xfixes.SelectSelectionInputChecked(conn, wid, atom.Atom, mask).Check()
	if err != nil {
		return fmt.Errorf("selecting selection input: %w", err)
	}

	slog.Debug("x11 selection listener registered")
	for {
		ev, xerr := conn.WaitForEvent()
		if ev == nil && xerr == nil {
			// Connection closed; expected during Close, a protocol
			// failure otherwise.
			if s.isClosed() {
				return nil
			}
			return fmt.Errorf("X connection closed")
		}
		if xerr != nil {
			slog.Debug("x11 event error", "err", xerr)
			continue
		}
		if _, ok := ev.(xfixes.SelectionNotifyEvent); ok {
			signal(s.wakeCh)
		}
	}
}

func (s *x11Source) Wake() <-chan struct{} { return s.wakeCh }
func (s *x11Source) Err() <-chan error     { return s.errCh }

// Close unblocks WaitForEvent by closing the X connection and joins the
// listener goroutine.
func (s *x11Source) Close() {
	s.mu.Lock()
	s.closed = true
	conn := s.conn
	s.mu.Unlock()
	if conn != nil {
		conn.Close()
	}
	s.wg.Wait()
}
