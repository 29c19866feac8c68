package qr

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	qrc "github.com/skip2/go-qrcode"
)

// ErrEmptyText is returned when asked to encode an empty string.
var ErrEmptyText = errors.New("no text to encode")

// DefaultImageSize is the default side length in pixels of generated PNGs.
const DefaultImageSize = 300

// Generator renders text as QR matrices in the formats downstream consumers
// need: terminal blocks, PNG bytes, and SVG markup.
type Generator struct {
	size int
}

// NewGenerator returns a Generator producing size×size pixel images. A
// non-positive size means DefaultImageSize.
func NewGenerator(size int) *Generator {
	if size <= 0 {
		size = DefaultImageSize
	}
	return &Generator{size: size}
}

// Terminal renders text as a half-block QR code suitable for printing to a
// terminal.
func (g *Generator) Terminal(text string) (string, error) {
	if text == "" {
		return "", ErrEmptyText
	}
	q, err := qrc.New(text, qrc.Medium)
	if err != nil {
		return "", fmt.Errorf("encoding QR: %w", err)
	}
	return q.ToSmallString(false), nil
}

// PNG renders text as PNG bytes.
func (g *Generator) PNG(text string) ([]byte, error) {
	if text == "" {
		return nil, ErrEmptyText
	}
	data, err := qrc.Encode(text, qrc.Medium, g.size)
	if err != nil {
		return nil, fmt.Errorf("encoding QR: %w", err)
	}
	return data, nil
}

// SVG renders text as a standalone SVG document, one rect per dark module.
func (g *Generator) SVG(text string) (string, error) {
	if text == "" {
		return "", ErrEmptyText
	}
	q, err := qrc.New(text, qrc.Medium)
	if err != nil {
		return "", fmt.Errorf("encoding QR: %w", err)
	}

	bitmap := q.Bitmap() // includes the quiet-zone border
	n := len(bitmap)
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		n, n, g.size, g.size)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="#ffffff"/>`+"\n", n, n)
	for y, row := range bitmap {
		for x, dark := range row {
			if dark {
				fmt.Fprintf(&b, `<rect x="%d" y="%d" width="1" height="1" fill="#000000"/>`+"\n", x, y)
			}
		}
	}
	b.WriteString("</svg>\n")
	return b.String(), nil
}

// SavePNG writes the PNG rendering into dir, creating it if needed. The
// filename is derived from the content hash so the same text always maps to
// the same file. Returns the written path.
func (g *Generator) SavePNG(dir, text string) (string, error) {
	data, err := g.PNG(text)
	if err != nil {
		return "", err
	}
	return writeOutput(dir, text, "png", data)
}

// SaveSVG writes the SVG rendering into dir. Returns the written path.
func (g *Generator) SaveSVG(dir, text string) (string, error) {
	svg, err := g.SVG(text)
	if err != nil {
		return "", err
	}
	return writeOutput(dir, text, "svg", []byte(svg))
}

func writeOutput(dir, text, ext string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("qr_code_%x.%s", xxhash.Sum64String(text), ext))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
