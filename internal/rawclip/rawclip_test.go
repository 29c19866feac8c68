package rawclip

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/undefined-moe/ClipboardQRReader/internal/snapshot"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding PNG: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 0xff, A: 0xff})
	img.SetNRGBA(2, 1, color.NRGBA{B: 0xff, A: 0xff})

	s, err := decodeImage(encodePNG(t, img))
	if err != nil {
		t.Fatalf("decodeImage: %v", err)
	}
	if s.Kind() != snapshot.KindImage {
		t.Fatalf("kind = %v, want image", s.Kind())
	}
	if w, h := s.ImageSize(); w != 3 || h != 2 {
		t.Errorf("size = %dx%d, want 3x2", w, h)
	}
	if want := 3 * 2 * 4; len(s.Pixels()) != want {
		t.Fatalf("pixel buffer is %d bytes, want %d", len(s.Pixels()), want)
	}
	if px := s.Pixels(); px[0] != 0xff || px[3] != 0xff {
		t.Errorf("first pixel = %v, want opaque red", px[:4])
	}
}

// Clipboard images from non-zero-origin sources must be normalized to a
// zero-origin buffer before hashing.
func TestDecodeImageNormalizesBounds(t *testing.T) {
	img := image.NewNRGBA(image.Rect(10, 10, 14, 12))
	img.SetNRGBA(10, 10, color.NRGBA{G: 0xff, A: 0xff})

	s, err := decodeImage(encodePNG(t, img))
	if err != nil {
		t.Fatalf("decodeImage: %v", err)
	}
	if w, h := s.ImageSize(); w != 4 || h != 2 {
		t.Errorf("size = %dx%d, want 4x2", w, h)
	}
	if px := s.Pixels(); px[1] != 0xff {
		t.Errorf("first pixel = %v, want opaque green", px[:4])
	}
}

func TestDecodeImageRejectsGarbage(t *testing.T) {
	if _, err := decodeImage([]byte("not a png")); err == nil {
		t.Error("garbage bytes decoded without error")
	}
}

func TestUnavailableClipboard(t *testing.T) {
	c := &Clipboard{}
	if c.Available() {
		t.Error("zero-value clipboard reports available")
	}
	if _, err := c.Read(); err != ErrUnavailable {
		t.Errorf("Read err = %v, want ErrUnavailable", err)
	}
	if err := c.WriteText("x"); err != ErrUnavailable {
		t.Errorf("WriteText err = %v, want ErrUnavailable", err)
	}
}
