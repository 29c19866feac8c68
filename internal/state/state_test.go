package state

import (
	"sync"
	"testing"

	"github.com/undefined-moe/ClipboardQRReader/internal/snapshot"
)

func TestEmptyMailbox(t *testing.T) {
	m := New()
	if e, unread := m.Peek(); e != nil || unread {
		t.Errorf("Peek on empty mailbox = (%v, %v)", e, unread)
	}
	if e, fresh := m.Drain(); e != nil || fresh {
		t.Errorf("Drain on empty mailbox = (%v, %v)", e, fresh)
	}
}

func TestPublishPeekDrain(t *testing.T) {
	m := New()
	m.Publish(snapshot.Text("a"), snapshot.NotAttempted())

	e, unread := m.Peek()
	if e == nil || e.Snapshot.Text() != "a" || !unread {
		t.Fatalf("Peek after publish = (%v, %v)", e, unread)
	}

	// Peek must not clear the flag.
	if _, unread := m.Peek(); !unread {
		t.Error("Peek cleared the unread flag")
	}

	e, fresh := m.Drain()
	if e == nil || e.Snapshot.Text() != "a" || !fresh {
		t.Fatalf("Drain = (%v, %v)", e, fresh)
	}

	// Drain followed by Peek: same current value, unread false.
	e2, unread := m.Peek()
	if unread {
		t.Error("unread still set after Drain")
	}
	if e2 == nil || e2.Snapshot.Text() != "a" {
		t.Errorf("current value lost after Drain: %v", e2)
	}

	if _, fresh := m.Drain(); fresh {
		t.Error("second Drain reported fresh")
	}
}

func TestPublishAfterDrainSetsUnreadAgain(t *testing.T) {
	m := New()
	m.Publish(snapshot.Text("a"), snapshot.NotAttempted())
	m.Drain()
	m.Publish(snapshot.Text("b"), snapshot.NotAttempted())
	if _, unread := m.Peek(); !unread {
		t.Error("unread not set by a publish after drain")
	}
}

func TestConcurrentReaders(t *testing.T) {
	// One writer, many peeking readers; run under -race to catch torn access.
	m := New()
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			m.Publish(snapshot.Text("x"), snapshot.NotAttempted())
		}
	}()
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				if e, _ := m.Peek(); e != nil && e.Snapshot.Text() != "x" {
					t.Error("torn read observed")
					return
				}
			}
		}()
	}
	wg.Wait()
}
