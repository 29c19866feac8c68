package qr

import (
	"bytes"
	"errors"
	"image"
	"image/draw"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/undefined-moe/ClipboardQRReader/internal/snapshot"
)

// snapshotFromPNG converts PNG bytes into an image snapshot the way the
// clipboard layer would hand them to the watcher.
func snapshotFromPNG(t *testing.T, data []byte) snapshot.Snapshot {
	t.Helper()
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding PNG: %v", err)
	}
	b := img.Bounds()
	rgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	s, err := snapshot.Image(uint32(b.Dx()), uint32(b.Dy()), rgba.Pix)
	if err != nil {
		t.Fatalf("building snapshot: %v", err)
	}
	return s
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	const payload = "https://example.com/visit?id=42"

	data, err := NewGenerator(0).PNG(payload)
	if err != nil {
		t.Fatalf("PNG: %v", err)
	}

	text, found, err := NewReader().Decode(snapshotFromPNG(t, data))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !found {
		t.Fatal("generated code was not found")
	}
	if text != payload {
		t.Errorf("decoded %q, want %q", text, payload)
	}
}

func TestDecodeAllFindsGeneratedCode(t *testing.T) {
	data, err := NewGenerator(0).PNG("hello")
	if err != nil {
		t.Fatalf("PNG: %v", err)
	}

	got, err := NewReader().DecodeAll(snapshotFromPNG(t, data))
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if diff := cmp.Diff([]string{"hello"}, got); diff != "" {
		t.Errorf("payloads mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path, err := NewGenerator(0).SavePNG(dir, "file payload")
	if err != nil {
		t.Fatalf("SavePNG: %v", err)
	}

	text, found, err := NewReader().DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile: %v", err)
	}
	if !found || text != "file payload" {
		t.Errorf("DecodeFile = (%q, %v), want (\"file payload\", true)", text, found)
	}
}

func TestSaveFilenameIsContentDerived(t *testing.T) {
	dir := t.TempDir()
	g := NewGenerator(0)

	first, err := g.SavePNG(dir, "stable")
	if err != nil {
		t.Fatal(err)
	}
	second, err := g.SavePNG(dir, "stable")
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("same text produced different paths: %s vs %s", first, second)
	}
	if !strings.HasPrefix(filepath.Base(first), "qr_code_") {
		t.Errorf("unexpected filename %s", filepath.Base(first))
	}
}

func TestDecodeNonImageSnapshots(t *testing.T) {
	r := NewReader()
	for _, s := range []snapshot.Snapshot{snapshot.Empty(), snapshot.Text("not an image")} {
		if text, found, err := r.Decode(s); text != "" || found || err != nil {
			t.Errorf("Decode(%v) = (%q, %v, %v), want nothing", s, text, found, err)
		}
		if got, err := r.DecodeAll(s); got != nil || err != nil {
			t.Errorf("DecodeAll(%v) = (%v, %v), want nothing", s, got, err)
		}
	}
}

func TestDecodeBlankImageNotFound(t *testing.T) {
	pixels := make([]byte, 64*64*4)
	for i := range pixels {
		pixels[i] = 0xff
	}
	s, err := snapshot.Image(64, 64, pixels)
	if err != nil {
		t.Fatal(err)
	}

	text, found, err := NewReader().Decode(s)
	if err != nil {
		t.Fatalf("blank image reported a decode error: %v", err)
	}
	if found {
		t.Errorf("found a code in a blank image: %q", text)
	}
}

func TestEmptyTextRejected(t *testing.T) {
	g := NewGenerator(0)
	if _, err := g.Terminal(""); !errors.Is(err, ErrEmptyText) {
		t.Errorf("Terminal(\"\") err = %v, want ErrEmptyText", err)
	}
	if _, err := g.PNG(""); !errors.Is(err, ErrEmptyText) {
		t.Errorf("PNG(\"\") err = %v, want ErrEmptyText", err)
	}
	if _, err := g.SVG(""); !errors.Is(err, ErrEmptyText) {
		t.Errorf("SVG(\"\") err = %v, want ErrEmptyText", err)
	}
}

func TestTerminalAndSVGOutput(t *testing.T) {
	g := NewGenerator(0)

	term, err := g.Terminal("hello")
	if err != nil {
		t.Fatalf("Terminal: %v", err)
	}
	if term == "" {
		t.Error("terminal rendering is empty")
	}

	svg, err := g.SVG("hello")
	if err != nil {
		t.Fatalf("SVG: %v", err)
	}
	if !strings.HasPrefix(svg, "<svg ") || !strings.HasSuffix(strings.TrimSpace(svg), "</svg>") {
		t.Errorf("malformed SVG document:\n%s", svg)
	}
}
