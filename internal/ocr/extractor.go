package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/ironsheep/label-verify/internal/config"
	"github.com/ironsheep/label-verify/internal/imaging"
)

// ErrNoText is returned when OCR ran but produced only whitespace.
var ErrNoText = errors.New("no text found on label")

// Bounds represents a rectangular bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// TextRegion represents a recognized word and where it was found.
type TextRegion struct {
	Text string `json:"text"`

	// Confidence is the OCR confidence score (0.0 to 1.0). Backends that do
	// not report confidence leave it at 0.
	Confidence float64 `json:"confidence"`

	Bounds Bounds `json:"bounds"`
}

// OCRResult contains the text read from a label.
type OCRResult struct {
	// FullText is all recognized text with the engine's line breaks kept;
	// verification relies on them being whitespace.
	FullText string `json:"full_text"`

	// Regions lists individual words. May be empty.
	Regions []TextRegion `json:"regions"`

	// Backend names the Extractor that produced the result.
	Backend string `json:"backend"`
}

// Extractor reads text from an image.
type Extractor interface {
	// Name identifies the backend in logs and results.
	Name() string

	// Extract runs OCR on img. Implementations must honor ctx cancellation.
	Extract(ctx context.Context, img image.Image) (*OCRResult, error)
}

// New builds the Extractor selected by cfg.Backend.
func New(cfg config.OCR) (Extractor, error) {
	switch cfg.Backend {
	case config.BackendTesseract, "":
		return NewTesseract(cfg.Language), nil
	case config.BackendAzure:
		return NewAzure(cfg.AzureEndpoint, cfg.AzureKey, cfg.Language)
	default:
		return nil, fmt.Errorf("unknown OCR backend %q", cfg.Backend)
	}
}

// EngineVersion returns the version ex reports, or "" when the backend has
// no local engine to ask.
func EngineVersion(ex Extractor) string {
	if v, ok := ex.(interface{ Version() string }); ok {
		return v.Version()
	}
	return ""
}

// ReadLabel prepares img for OCR and extracts its text with ex.
//
// Errors:
//   - imaging.ErrBlankImage if img has no visible contrast
//   - ErrNoText if the engine found nothing
//   - the wrapped engine error otherwise
func ReadLabel(ctx context.Context, ex Extractor, img image.Image) (*OCRResult, error) {
	if imaging.IsBlank(img) {
		return nil, imaging.ErrBlankImage
	}

	prepared := imaging.Preprocess(img)

	result, err := ex.Extract(ctx, prepared)
	if err != nil {
		return nil, fmt.Errorf("%s OCR failed: %w", ex.Name(), err)
	}
	if strings.TrimSpace(result.FullText) == "" {
		return nil, ErrNoText
	}
	if result.Backend == "" {
		result.Backend = ex.Name()
	}
	return result, nil
}
