package imaging

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/histogram"
	"github.com/disintegration/imaging"
)

// DefaultCutoff is the fraction of darkest and of brightest pixels ignored
// when stretching contrast.
const DefaultCutoff = 0.005

// Preprocess prepares a label photo for OCR: grayscale conversion followed by
// AutoContrast with DefaultCutoff.
func Preprocess(img image.Image) *image.NRGBA {
	return AutoContrast(imaging.Grayscale(img), DefaultCutoff)
}

// AutoContrast linearly stretches the luminance of a grayscale image so the
// darkest remaining pixel becomes black and the brightest becomes white,
// after discarding cutoff (0 to 0.5) of the pixels at each end of the
// histogram. Alpha is preserved.
//
// Images whose clipped histogram spans a single level are returned unchanged.
func AutoContrast(img image.Image, cutoff float64) *image.NRGBA {
	hist := histogram.NewRGBAHistogram(img)
	lo, hi := clipRange(hist.R.Bins, cutoff)
	if hi <= lo {
		return imaging.Clone(img)
	}

	var lut [256]uint8
	scale := 255.0 / float64(hi-lo)
	for i := range lut {
		v := (float64(i) - float64(lo)) * scale
		switch {
		case v < 0:
			lut[i] = 0
		case v > 255:
			lut[i] = 255
		default:
			lut[i] = uint8(v)
		}
	}

	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{R: lut[c.R], G: lut[c.G], B: lut[c.B], A: c.A}
	})
}

// clipRange returns the lowest and highest histogram levels still populated
// after removing cutoff of the total count from each end.
func clipRange(bins []int, cutoff float64) (lo, hi int) {
	total := 0
	for _, n := range bins {
		total += n
	}
	cut := int(float64(total) * cutoff)

	acc := 0
	for lo < len(bins) && acc+bins[lo] <= cut {
		acc += bins[lo]
		lo++
	}

	acc = 0
	hi = len(bins) - 1
	for hi >= 0 && acc+bins[hi] <= cut {
		acc += bins[hi]
		hi--
	}
	return lo, hi
}
