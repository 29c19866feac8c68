// Package state implements the cross-thread mailbox holding the most recently
// published clipboard snapshot.
//
// One writer (the watcher loop) publishes; any number of readers peek or
// drain on their own schedules. Everything is guarded by a single mutex whose
// hold time is a pointer/flag swap, never a clipboard read or a QR decode,
// so readers never block on slow I/O.
package state

import (
	"sync"

	"github.com/undefined-moe/ClipboardQRReader/internal/snapshot"
)

// Entry is what readers receive: the snapshot plus the QR decode-status
// recorded when it was published.
type Entry struct {
	Snapshot snapshot.Snapshot
	Status   snapshot.DecodeStatus
}

// Mailbox holds the latest published entry and an unread flag.
//
// Drain is meant for a single designated primary consumer; two consumer roles
// draining concurrently race on the unread flag and one of them will observe
// the change as already read. Secondary consumers (tray tick, GUI redraw)
// should use Peek, which never clears the flag.
type Mailbox struct {
	mu      sync.Mutex
	current *Entry
	unread  bool
}

// New returns an empty Mailbox: no current entry, nothing unread.
func New() *Mailbox {
	return &Mailbox{}
}

// Publish replaces the current entry and marks it unread. Writer-only; the
// watcher filters duplicates before calling, so publishing here always
// represents a real change.
func (m *Mailbox) Publish(s snapshot.Snapshot, st snapshot.DecodeStatus) {
	m.mu.Lock()
	m.current = &Entry{Snapshot: s, Status: st}
	m.unread = true
	m.mu.Unlock()
}

// Peek returns the current entry without clearing the unread flag. Safe for
// any number of independent readers. Returns nil before the first publish.
func (m *Mailbox) Peek() (*Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current, m.unread
}

// Drain returns the current entry and clears the unread flag. fresh reports
// whether the entry was unread at the time of the call.
func (m *Mailbox) Drain() (e *Entry, fresh bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, fresh = m.current, m.unread
	m.unread = false
	return e, fresh
}
