// Package snapshot defines the immutable value type for one observed
// clipboard state and the cheap identity hash used to compare two of them.
package snapshot

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Kind discriminates the active variant of a Snapshot.
type Kind int

const (
	KindEmpty Kind = iota
	KindText
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	default:
		return "empty"
	}
}

// Identity is a fixed-size hash deciding equality of two snapshots without
// comparing full payloads. For images it covers only the dimensions and the
// first pixel, so changes confined to the interior may go undetected. That is
// the accepted cost of O(1) comparison; tune hashPixels to trade detection
// granularity against cost.
type Identity uint64

// hashPixels is how many leading pixels feed the image identity hash.
const hashPixels = 1

// emptyIdentity is the fixed identity of the Empty snapshot.
var emptyIdentity = Identity(xxhash.Sum64String("empty"))

// Snapshot is one immutable observed clipboard value. Exactly one variant is
// active; use the constructors, never build one by hand. A Snapshot is never
// mutated after construction, so sharing one across goroutines is safe.
type Snapshot struct {
	kind   Kind
	text   string
	width  uint32
	height uint32
	pixels []byte // row-major RGBA8, len == width*height*4
}

// Empty returns the empty-clipboard snapshot.
func Empty() Snapshot {
	return Snapshot{kind: KindEmpty}
}

// Text returns a text snapshot. An empty string collapses to Empty.
func Text(s string) Snapshot {
	if s == "" {
		return Empty()
	}
	return Snapshot{kind: KindText, text: s}
}

// Image returns an image snapshot from a row-major RGBA8 buffer. The buffer
// length must match the declared dimensions; a mismatch is a malformed read
// and is rejected rather than silently truncated.
func Image(width, height uint32, pixels []byte) (Snapshot, error) {
	if want := int(width) * int(height) * 4; len(pixels) != want {
		return Snapshot{}, fmt.Errorf("image buffer is %d bytes, want %d for %dx%d RGBA", len(pixels), want, width, height)
	}
	return Snapshot{kind: KindImage, width: width, height: height, pixels: pixels}, nil
}

func (s Snapshot) Kind() Kind { return s.kind }

// IsEmpty reports whether the snapshot is the Empty variant.
func (s Snapshot) IsEmpty() bool { return s.kind == KindEmpty }

// Text returns the text payload, or "" for non-text variants.
func (s Snapshot) Text() string { return s.text }

// ImageSize returns the image dimensions, or (0, 0) for non-image variants.
func (s Snapshot) ImageSize() (width, height uint32) { return s.width, s.height }

// Pixels returns the RGBA8 buffer of an image snapshot. Callers must treat
// the returned slice as read-only.
func (s Snapshot) Pixels() []byte { return s.pixels }

// Identity computes the snapshot's identity hash.
func (s Snapshot) Identity() Identity {
	switch s.kind {
	case KindText:
		return Identity(xxhash.Sum64String(s.text))
	case KindImage:
		d := xxhash.New()
		var dims [8]byte
		putU32(dims[0:], s.width)
		putU32(dims[4:], s.height)
		d.Write(dims[:])
		if n := hashPixels * 4; len(s.pixels) >= n {
			d.Write(s.pixels[:n])
		}
		return Identity(d.Sum64())
	default:
		return emptyIdentity
	}
}

// String renders a short human-readable description, never the full payload.
func (s Snapshot) String() string {
	switch s.kind {
	case KindText:
		return fmt.Sprintf("text(%d bytes)", len(s.text))
	case KindImage:
		return fmt.Sprintf("image(%dx%d)", s.width, s.height)
	default:
		return "empty"
	}
}

func putU32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}
