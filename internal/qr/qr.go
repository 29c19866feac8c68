// Package qr wraps the QR codec libraries behind small decode/encode types.
// The algorithms themselves are consumed as black boxes; everything here is
// conversion plumbing between clipboard snapshots and the codec's image and
// matrix types.
package qr

import (
	"image"

	"github.com/undefined-moe/ClipboardQRReader/internal/snapshot"
)

// toImage views an image snapshot's RGBA8 buffer as an image.Image without
// copying. The snapshot constructor already validated the buffer length.
func toImage(s snapshot.Snapshot) image.Image {
	w, h := s.ImageSize()
	return &image.NRGBA{
		Pix:    s.Pixels(),
		Stride: int(w) * 4,
		Rect:   image.Rect(0, 0, int(w), int(h)),
	}
}
