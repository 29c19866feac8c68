// Package detector decides whether a freshly read clipboard snapshot differs
// from the previously observed one, using identity hashes so the cost stays
// O(1) in the payload size.
package detector

import (
	"sync"
	"time"

	"github.com/undefined-moe/ClipboardQRReader/internal/snapshot"
)

// Detector tracks the last observed snapshot identity. It is owned by the
// watcher loop; the mutex only covers the LastChange accessor, which other
// goroutines may call for display purposes.
type Detector struct {
	mu         sync.Mutex
	primed     bool
	last       snapshot.Identity
	lastChange time.Time
}

// New returns a Detector whose first Evaluate always reports a change, even
// for an Empty snapshot. The first real clipboard state after startup is
// therefore never missed.
func New() *Detector {
	return &Detector{}
}

// Evaluate reports whether s differs from the last evaluated snapshot, and
// if so records its identity and the change time. Identical consecutive
// snapshots report true exactly once, on the first.
func (d *Detector) Evaluate(s snapshot.Snapshot) bool {
	id := s.Identity()

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.primed && id == d.last {
		return false
	}
	d.primed = true
	d.last = id
	d.lastChange = time.Now()
	return true
}

// LastChange returns when Evaluate last reported a change, or the zero time
// if it never has.
func (d *Detector) LastChange() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastChange
}
