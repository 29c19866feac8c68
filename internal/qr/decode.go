package qr

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/multi"
	zxmulti "github.com/makiuchi-d/gozxing/multi/qrcode"
	zxqrcode "github.com/makiuchi-d/gozxing/qrcode"

	"github.com/undefined-moe/ClipboardQRReader/internal/snapshot"
)

// Reader decodes QR codes from image snapshots and files. Decoding is
// best-effort: "no code in this image" is a normal outcome, not an error.
type Reader struct {
	reader gozxing.Reader
	multi  multi.MultipleBarcodeReader
	hints  map[gozxing.DecodeHintType]interface{}
}

func NewReader() *Reader {
	return &Reader{
		reader: zxqrcode.NewQRCodeReader(),
		multi:  zxmulti.NewQRCodeMultiReader(),
		hints: map[gozxing.DecodeHintType]interface{}{
			gozxing.DecodeHintType_TRY_HARDER: true,
		},
	}
}

// Decode returns the first successful QR payload in an image snapshot.
// found is false both for non-image snapshots and for images without a
// decodable code.
func (r *Reader) Decode(s snapshot.Snapshot) (text string, found bool, err error) {
	if s.Kind() != snapshot.KindImage {
		return "", false, nil
	}
	return r.decodeImage(toImage(s))
}

// DecodeFile decodes the first QR payload in a PNG or JPEG file.
func (r *Reader) DecodeFile(path string) (text string, found bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", false, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return "", false, fmt.Errorf("decoding image %s: %w", path, err)
	}
	return r.decodeImage(img)
}

// DecodeAll returns every QR payload found in an image snapshot, in the
// order the decoder reports them. A nil slice means none were found.
func (r *Reader) DecodeAll(s snapshot.Snapshot) ([]string, error) {
	if s.Kind() != snapshot.KindImage {
		return nil, nil
	}
	bmp, err := gozxing.NewBinaryBitmapFromImage(toImage(s))
	if err != nil {
		return nil, fmt.Errorf("preparing image: %w", err)
	}
	results, err := r.multi.DecodeMultiple(bmp, r.hints)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	out := make([]string, 0, len(results))
	for _, res := range results {
		out = append(out, res.GetText())
	}
	return out, nil
}

func (r *Reader) decodeImage(img image.Image) (string, bool, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", false, fmt.Errorf("preparing image: %w", err)
	}
	result, err := r.reader.Decode(bmp, r.hints)
	if err != nil {
		if isNotFound(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return result.GetText(), true, nil
}

// isNotFound distinguishes "no QR code present" from real decode failures.
func isNotFound(err error) bool {
	_, ok := err.(gozxing.NotFoundException)
	return ok
}
