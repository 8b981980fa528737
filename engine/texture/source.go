package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/Carmen-Shannon/siege/common"
	"github.com/anthonynsimon/bild/transform"
	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrDecode is wrapped by every error a Source returns for unreadable or unsupported images.
var ErrDecode = errors.New("texture decode failed")

// Source decodes image files into RGBA pixel buffers.
type Source interface {
	// Decode reads and decodes an image.
	//
	// Parameters:
	//   - path: the image file path
	//
	// Returns:
	//   - common.TextureStagingData: RGBA pixels with rows stored bottom-up
	//   - error: error wrapping ErrDecode if the file is missing or not a supported image
	Decode(path string) (common.TextureStagingData, error)
}

// FileSource decodes PNG, JPEG, GIF, BMP, TIFF and WebP files from disk.
type FileSource struct{}

var _ Source = FileSource{}

func (FileSource) Decode(path string) (common.TextureStagingData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return common.TextureStagingData{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return DecodeBytes(path, data)
}

// DecodeBytes decodes an in-memory image. The header is sniffed first so that non-image
// data is rejected with a clear message before any decoder runs.
//
// Parameters:
//   - label: a name for the image used in errors and GPU labels
//   - data: the encoded image
//
// Returns:
//   - common.TextureStagingData: RGBA pixels with rows stored bottom-up
//   - error: error wrapping ErrDecode on failure
func DecodeBytes(label string, data []byte) (common.TextureStagingData, error) {
	if !filetype.IsImage(data) {
		kind, _ := filetype.Match(data)
		return common.TextureStagingData{}, fmt.Errorf("%w: %s is not an image (detected %q)", ErrDecode, label, kind.MIME.Value)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return common.TextureStagingData{}, fmt.Errorf("%w: %s: %w", ErrDecode, label, err)
	}
	if img.Bounds().Empty() {
		return common.TextureStagingData{}, fmt.Errorf("%w: %s: empty %s image", ErrDecode, label, format)
	}

	return FromImage(label, img), nil
}

// FromImage converts any image to bottom-up RGBA staging data.
//
// Parameters:
//   - label: a name for the image used in GPU labels
//   - img: the source image
//
// Returns:
//   - common.TextureStagingData: RGBA pixels with rows stored bottom-up
func FromImage(label string, img image.Image) common.TextureStagingData {
	// Texture coordinates start at the bottom row.
	flipped := transform.FlipV(img)
	return common.TextureStagingData{
		Label:  label,
		Pixels: packRows(flipped),
		Width:  uint32(flipped.Rect.Dx()),
		Height: uint32(flipped.Rect.Dy()),
	}
}

// packRows returns the pixel rows without any stride padding.
func packRows(img *image.RGBA) []byte {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	rowBytes := w * 4
	if img.Stride == rowBytes && len(img.Pix) == rowBytes*h {
		return img.Pix
	}
	out := make([]byte, rowBytes*h)
	for y := 0; y < h; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+rowBytes]
		copy(out[y*rowBytes:], src)
	}
	return out
}
