// Package rawclip is the one place that touches the native clipboard API.
// It is only ever called from the watcher goroutine: most native clipboard
// APIs are not safe for concurrent access from multiple threads, so consumers
// read the shared mailbox instead of calling here directly.
package rawclip

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/png" // clipboard images arrive PNG-encoded
	"log/slog"

	"golang.design/x/clipboard"

	"github.com/undefined-moe/ClipboardQRReader/internal/snapshot"
)

// ErrUnavailable is returned from every operation when no clipboard could be
// initialized (headless session, no display server).
var ErrUnavailable = errors.New("clipboard unavailable")

// Clipboard reads and writes the system clipboard, producing snapshots.
type Clipboard struct {
	available bool
}

// New initializes the native clipboard. On failure the returned Clipboard is
// a stub whose reads fail with ErrUnavailable; the watcher treats those as
// transient read errors, so a headless session degrades instead of crashing.
func New() *Clipboard {
	if err := clipboard.Init(); err != nil {
		slog.Warn("clipboard unavailable, reads will fail", "err", err)
		return &Clipboard{}
	}
	return &Clipboard{available: true}
}

// Available reports whether the native clipboard was initialized.
func (c *Clipboard) Available() bool { return c.available }

// Read returns a fresh snapshot of the current clipboard. Images win over
// text when both formats are present, matching how screenshots are usually
// accompanied by a text fallback. An undecodable image buffer is a read
// error; the caller skips the iteration and retries on the next wake-up.
func (c *Clipboard) Read() (snapshot.Snapshot, error) {
	if !c.available {
		return snapshot.Snapshot{}, ErrUnavailable
	}

	if png := clipboard.Read(clipboard.FmtImage); len(png) > 0 {
		return decodeImage(png)
	}
	if text := clipboard.Read(clipboard.FmtText); len(text) > 0 {
		return snapshot.Text(string(text)), nil
	}
	return snapshot.Empty(), nil
}

// WriteText replaces the clipboard with text.
func (c *Clipboard) WriteText(text string) error {
	if !c.available {
		return ErrUnavailable
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

// decodeImage converts clipboard PNG bytes to a row-major RGBA8 snapshot.
func decodeImage(data []byte) (snapshot.Snapshot, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("decoding clipboard image: %w", err)
	}

	b := img.Bounds()
	rgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return snapshot.Image(uint32(b.Dx()), uint32(b.Dy()), rgba.Pix)
}
