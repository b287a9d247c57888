package imaging

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

var (
	// ErrUnsupportedFormat is returned for files that are not PNG or JPEG by
	// extension.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrCorruptImage is returned when the bytes cannot be decoded.
	ErrCorruptImage = errors.New("corrupt image")
)

// allowedExtensions maps accepted label photo extensions to format names.
var allowedExtensions = map[string]string{
	".png":  "png",
	".jpg":  "jpeg",
	".jpeg": "jpeg",
}

// FormatFromFilename returns "png" or "jpeg" for an accepted filename.
//
// The check is case-insensitive and based on the extension only; the content
// is validated later by DecodeLabel. Filenames without an extension, or with
// any other extension, yield ErrUnsupportedFormat.
func FormatFromFilename(name string) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	format, ok := allowedExtensions[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Base(name))
	}
	return format, nil
}

// LabelImage is a decoded label photo together with what was learned while
// decoding it.
type LabelImage struct {
	Image image.Image

	// Format is "png" or "jpeg".
	Format string

	Width  int
	Height int
}

// DecodeLabel validates filename and decodes r as a label photo.
//
// JPEG photos taken on phones often carry an EXIF orientation tag; the image
// is rotated accordingly so OCR sees upright text.
//
// Errors wrap ErrUnsupportedFormat or ErrCorruptImage.
func DecodeLabel(r io.Reader, filename string) (*LabelImage, error) {
	format, err := FormatFromFilename(filename)
	if err != nil {
		return nil, err
	}

	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptImage, err)
	}

	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("%w: image has no pixels", ErrCorruptImage)
	}

	return &LabelImage{
		Image:  img,
		Format: format,
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}

// LoadLabel opens path and decodes it with DecodeLabel.
func LoadLabel(path string) (*LabelImage, error) {
	if _, err := FormatFromFilename(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	return DecodeLabel(f, path)
}
