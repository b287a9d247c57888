package ocr

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/label-verify/internal/config"
	"github.com/ironsheep/label-verify/internal/imaging"
)

// fakeExtractor returns canned output and records the image it was given.
type fakeExtractor struct {
	text string
	err  error
	got  image.Image
}

func (f *fakeExtractor) Name() string { return "fake" }

func (f *fakeExtractor) Extract(ctx context.Context, img image.Image) (*OCRResult, error) {
	f.got = img
	if f.err != nil {
		return nil, f.err
	}
	return &OCRResult{FullText: f.text, Regions: []TextRegion{}}, nil
}

// labelPhoto is a pale red card with a dark stroke across it.
func labelPhoto() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 200; x++ {
			c := color.RGBA{230, 180, 180, 255}
			if y >= 45 && y < 55 && x >= 20 && x < 180 {
				c = color.RGBA{30, 10, 10, 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestReadLabel(t *testing.T) {
	fake := &fakeExtractor{text: "OLD TOM\n45% ALC"}

	result, err := ReadLabel(context.Background(), fake, labelPhoto())
	if err != nil {
		t.Fatalf("ReadLabel: %v", err)
	}
	if result.FullText != "OLD TOM\n45% ALC" {
		t.Errorf("FullText = %q", result.FullText)
	}
	if result.Backend != "fake" {
		t.Errorf("Backend = %q, want fake", result.Backend)
	}

	// The extractor must receive the preprocessed grayscale image.
	if fake.got == nil {
		t.Fatal("extractor was not called")
	}
	r, g, b, _ := fake.got.At(0, 0).RGBA()
	if r != g || g != b {
		t.Errorf("extractor input not grayscale: (%d,%d,%d)", r, g, b)
	}
}

func TestReadLabel_Errors(t *testing.T) {
	boom := errors.New("engine exploded")
	blank := image.NewRGBA(image.Rect(0, 0, 50, 50))
	for i := range blank.Pix {
		blank.Pix[i] = 255
	}

	tests := []struct {
		name   string
		img    image.Image
		fake   *fakeExtractor
		want   error
		called bool
	}{
		{"blank photo", blank, &fakeExtractor{text: "ignored"}, imaging.ErrBlankImage, false},
		{"empty output", labelPhoto(), &fakeExtractor{text: ""}, ErrNoText, true},
		{"whitespace output", labelPhoto(), &fakeExtractor{text: " \n\t "}, ErrNoText, true},
		{"engine failure", labelPhoto(), &fakeExtractor{err: boom}, boom, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadLabel(context.Background(), tt.fake, tt.img)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if called := tt.fake.got != nil; called != tt.called {
				t.Errorf("extractor called = %v, want %v", called, tt.called)
			}
		})
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.OCR
		wantName string
		wantErr  bool
	}{
		{"default", config.OCR{}, "tesseract", false},
		{"tesseract", config.OCR{Backend: config.BackendTesseract, Language: "eng"}, "tesseract", false},
		{"azure", config.OCR{Backend: config.BackendAzure, AzureEndpoint: "https://example.cognitiveservices.azure.com/", AzureKey: "k"}, "azure", false},
		{"azure without key", config.OCR{Backend: config.BackendAzure, AzureEndpoint: "https://example.cognitiveservices.azure.com/"}, "", true},
		{"unknown", config.OCR{Backend: "paddle"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex, err := New(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if ex.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", ex.Name(), tt.wantName)
			}
		})
	}
}

type versionedFake struct {
	fakeExtractor
	version string
}

func (v *versionedFake) Version() string { return v.version }

func TestEngineVersion(t *testing.T) {
	if got := EngineVersion(&fakeExtractor{}); got != "" {
		t.Errorf("unversioned backend: got %q, want empty", got)
	}
	if got := EngineVersion(&versionedFake{version: "5.3.0"}); got != "5.3.0" {
		t.Errorf("versioned backend: got %q, want 5.3.0", got)
	}
	var _ interface{ Version() string } = (*Tesseract)(nil)
}
