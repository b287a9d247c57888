package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract extracts text with a local Tesseract engine.
//
// A new gosseract client is created for every call, so a single Tesseract
// value can serve concurrent requests.
type Tesseract struct {
	// Languages are Tesseract language codes, e.g. ["eng"].
	Languages []string
}

// NewTesseract returns a Tesseract extractor for a "+"-separated language
// list such as "eng" or "eng+fra". An empty string means English.
func NewTesseract(language string) *Tesseract {
	var langs []string
	for _, l := range strings.Split(language, "+") {
		if l = strings.TrimSpace(l); l != "" {
			langs = append(langs, l)
		}
	}
	if len(langs) == 0 {
		langs = []string{"eng"}
	}
	return &Tesseract{Languages: langs}
}

// Name implements Extractor.
func (t *Tesseract) Name() string {
	return "tesseract"
}

// Extract implements Extractor.
//
// gosseract cannot be interrupted, so on cancellation Extract returns
// immediately and the engine finishes in the background before its client is
// closed.
func (t *Tesseract) Extract(ctx context.Context, img image.Image) (*OCRResult, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	type outcome struct {
		result *OCRResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := t.run(buf.Bytes())
		done <- outcome{res, err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("OCR cancelled: %w", ctx.Err())
	case o := <-done:
		return o.result, o.err
	}
}

func (t *Tesseract) run(data []byte) (*OCRResult, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.Languages...); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}

	if err := client.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	result := &OCRResult{
		FullText: text,
		Regions:  []TextRegion{},
		Backend:  t.Name(),
	}

	// Word boxes are informational; keep the text if they fail.
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return result, nil
	}
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		result.Regions = append(result.Regions, TextRegion{
			Text:       box.Word,
			Confidence: float64(box.Confidence) / 100.0,
			Bounds: Bounds{
				X1: box.Box.Min.X,
				Y1: box.Box.Min.Y,
				X2: box.Box.Max.X,
				Y2: box.Box.Max.Y,
			},
		})
	}
	return result, nil
}

// Version returns the linked Tesseract version.
func (t *Tesseract) Version() string {
	client := gosseract.NewClient()
	defer client.Close()
	return client.Version()
}
