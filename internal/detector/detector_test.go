package detector

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/undefined-moe/ClipboardQRReader/internal/snapshot"
)

func TestEvaluateReportsEachChangeOnce(t *testing.T) {
	d := New()

	reads := []snapshot.Snapshot{
		snapshot.Text("a"),
		snapshot.Text("a"),
		snapshot.Text("b"),
		snapshot.Empty(),
	}
	want := []bool{true, false, true, true}

	var got []bool
	for _, r := range reads {
		got = append(got, d.Evaluate(r))
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Evaluate sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestFirstReadAlwaysChanged(t *testing.T) {
	// Startup behavior: even a first Empty read is reported, so the first
	// real clipboard state is never silently absorbed into the sentinel.
	d := New()
	if !d.Evaluate(snapshot.Empty()) {
		t.Error("first Empty read not reported as changed")
	}
	if d.Evaluate(snapshot.Empty()) {
		t.Error("second Empty read reported as changed")
	}
}

func TestRepeatedAfterDifferent(t *testing.T) {
	d := New()
	d.Evaluate(snapshot.Text("a"))
	d.Evaluate(snapshot.Text("b"))
	if !d.Evaluate(snapshot.Text("a")) {
		t.Error("returning to earlier content not reported as changed")
	}
}

func TestLastChangeOnlyMovesOnChange(t *testing.T) {
	d := New()
	if !d.LastChange().IsZero() {
		t.Error("LastChange set before any Evaluate")
	}
	d.Evaluate(snapshot.Text("a"))
	first := d.LastChange()
	if first.IsZero() {
		t.Fatal("LastChange not set after a change")
	}
	d.Evaluate(snapshot.Text("a"))
	if got := d.LastChange(); !got.Equal(first) {
		t.Errorf("LastChange moved on an unchanged read: %v -> %v", first, got)
	}
}
