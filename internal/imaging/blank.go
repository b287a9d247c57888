package imaging

import (
	"errors"
	"image"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// ErrBlankImage is returned for photos with no visible contrast, where OCR
// cannot possibly find text.
var ErrBlankImage = errors.New("image has no visible content")

// blankThreshold is the minimum CIE L* spread (0 to 1) of a readable label.
const blankThreshold = 0.04

// sampleSize bounds the thumbnail LightnessSpread inspects. Box filtering
// keeps thin strokes visible as darker pixels.
const sampleSize = 256

// LightnessSpread returns the difference between the lightest and darkest
// CIE L* value (0 to 1) in a downscaled copy of img. Fully transparent pixels
// are ignored.
func LightnessSpread(img image.Image) float64 {
	thumb := imaging.Fit(img, sampleSize, sampleSize, imaging.Box)
	b := thumb.Bounds()

	minL, maxL := 1.0, 0.0
	seen := false
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c, ok := colorful.MakeColor(thumb.At(x, y))
			if !ok {
				continue
			}
			l, _, _ := c.Lab()
			if l < minL {
				minL = l
			}
			if l > maxL {
				maxL = l
			}
			seen = true
		}
	}
	if !seen {
		return 0
	}
	return maxL - minL
}

// IsBlank reports whether img is too uniform to contain readable text.
func IsBlank(img image.Image) bool {
	return LightnessSpread(img) < blankThreshold
}
