package snapshot

import (
	"bytes"
	"testing"
)

func TestTextCollapsesEmpty(t *testing.T) {
	if got := Text(""); !got.IsEmpty() {
		t.Errorf("Text(\"\") = %v, want empty", got)
	}
	if got := Text("a"); got.Kind() != KindText || got.Text() != "a" {
		t.Errorf("Text(\"a\") = %v", got)
	}
}

func TestImageRejectsBadBuffer(t *testing.T) {
	if _, err := Image(2, 2, make([]byte, 15)); err == nil {
		t.Error("Image with short buffer: want error, got nil")
	}
	s, err := Image(2, 2, make([]byte, 16))
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	if w, h := s.ImageSize(); w != 2 || h != 2 {
		t.Errorf("ImageSize() = %dx%d, want 2x2", w, h)
	}
}

func TestIdentityText(t *testing.T) {
	a1 := Text("a").Identity()
	a2 := Text("a").Identity()
	b := Text("b").Identity()
	if a1 != a2 {
		t.Error("identical text produced different identities")
	}
	if a1 == b {
		t.Error("different text produced equal identities")
	}
	if a1 == Empty().Identity() {
		t.Error("text identity collides with empty sentinel")
	}
}

func TestIdentityEmptyIsFixed(t *testing.T) {
	if Empty().Identity() != Empty().Identity() {
		t.Error("empty identity is not stable")
	}
}

func TestIdentityImageApproximation(t *testing.T) {
	base := bytes.Repeat([]byte{10, 20, 30, 255}, 4)

	img := func(w, h uint32, pix []byte) Snapshot {
		s, err := Image(w, h, pix)
		if err != nil {
			t.Fatalf("Image: %v", err)
		}
		return s
	}

	same := img(2, 2, append([]byte(nil), base...))
	if img(2, 2, base).Identity() != same.Identity() {
		t.Error("identical images produced different identities")
	}

	// Dimension changes are always detected.
	if img(2, 2, base).Identity() == img(4, 1, base).Identity() {
		t.Error("dimension change not reflected in identity")
	}

	// First-pixel changes are detected.
	firstPixel := append([]byte(nil), base...)
	firstPixel[0] = 99
	if img(2, 2, base).Identity() == img(2, 2, firstPixel).Identity() {
		t.Error("first-pixel change not reflected in identity")
	}

	// Interior-only changes are deliberately invisible to the hash.
	interior := append([]byte(nil), base...)
	interior[8] = 99
	if img(2, 2, base).Identity() != img(2, 2, interior).Identity() {
		t.Error("interior-pixel change unexpectedly changed the identity; the approximation contract moved")
	}
}

func TestStringNeverLeaksPayload(t *testing.T) {
	s := Text("secret password")
	if got := s.String(); got != "text(15 bytes)" {
		t.Errorf("String() = %q", got)
	}
}
