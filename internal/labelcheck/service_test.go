package labelcheck

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ironsheep/label-verify/internal/imaging"
	"github.com/ironsheep/label-verify/internal/ocr"
	"github.com/ironsheep/label-verify/internal/verify"
)

const goodLabel = "OLD TOM DISTILLERY\nKentucky Straight Bourbon Whiskey\n45% Alc./Vol. (90 Proof)\n750 mL\n" + verify.CanonicalWarning

var goodDeclared = verify.DeclaredFields{
	BrandName:      "OLD TOM DISTILLERY",
	ProductClass:   "Kentucky Straight Bourbon Whiskey",
	AlcoholContent: "45",
	NetContents:    "750 mL",
}

// fakeExtractor returns canned text, optionally after a delay.
type fakeExtractor struct {
	text  string
	err   error
	delay time.Duration
	calls atomic.Int32
}

func (f *fakeExtractor) Name() string { return "fake" }

func (f *fakeExtractor) Extract(ctx context.Context, img image.Image) (*ocr.OCRResult, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.delay):
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &ocr.OCRResult{FullText: f.text, Backend: "fake"}, nil
}

// labelPNG returns a PNG with a dark bar on white so it is not blank.
func labelPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 120, 60))
	for y := 0; y < 60; y++ {
		for x := 0; x < 120; x++ {
			c := color.RGBA{255, 255, 255, 255}
			if y >= 25 && y < 35 && x >= 10 && x < 110 {
				c = color.RGBA{0, 0, 0, 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"unsupported", fmt.Errorf("%w: %q", imaging.ErrUnsupportedFormat, "a.gif"), MsgInvalidFormat},
		{"no text", ocr.ErrNoText, MsgNoText},
		{"blank", imaging.ErrBlankImage, MsgNoText},
		{"corrupt", fmt.Errorf("%w: unexpected EOF", imaging.ErrCorruptImage),
			"An error occurred during image processing: corrupt image: unexpected EOF. The image may be corrupted."},
		{"timeout", fmt.Errorf("tesseract OCR failed: %w", context.DeadlineExceeded), MsgTimeout},
		{"cancelled", fmt.Errorf("OCR cancelled: %w", context.Canceled), MsgCancelled},
		{"engine", errors.New("tesseract OCR failed: boom"),
			"An error occurred during image processing: tesseract OCR failed: boom. The image may be corrupted."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCheckText(t *testing.T) {
	svc := New(&fakeExtractor{})

	res := svc.CheckText(goodDeclared, goodLabel)
	if !res.Passed() {
		t.Fatalf("expected success, got %+v", res.Checks)
	}
	if res.OCRText != goodLabel {
		t.Error("OCRText should echo the verified text")
	}
}

func TestCheckUpload(t *testing.T) {
	fake := &fakeExtractor{text: goodLabel}
	svc := New(fake)

	res := svc.CheckUpload(context.Background(), bytes.NewReader(labelPNG(t)), "label.PNG", goodDeclared)
	if res.Error != nil {
		t.Fatalf("unexpected error: %s", *res.Error)
	}
	if !res.Passed() {
		t.Errorf("expected success, got %+v", res.Checks)
	}
	if len(res.Checks) != 5 {
		t.Errorf("checks = %d, want 5", len(res.Checks))
	}
}

func TestCheckUpload_Failures(t *testing.T) {
	good := labelPNG(t)
	blank := func() []byte {
		var buf bytes.Buffer
		img := image.NewGray(image.Rect(0, 0, 40, 40))
		for i := range img.Pix {
			img.Pix[i] = 200
		}
		png.Encode(&buf, img)
		return buf.Bytes()
	}()

	tests := []struct {
		name     string
		data     []byte
		filename string
		fake     *fakeExtractor
		want     string
		calls    int32
	}{
		{"bad extension", good, "label.bmp", &fakeExtractor{text: goodLabel}, MsgInvalidFormat, 0},
		{"corrupt", []byte("not a png"), "label.png", &fakeExtractor{text: goodLabel}, "The image may be corrupted.", 0},
		{"blank", blank, "label.png", &fakeExtractor{text: goodLabel}, MsgNoText, 0},
		{"no text", good, "label.jpg", &fakeExtractor{text: "   "}, MsgNoText, 1},
		{"engine error", good, "label.png", &fakeExtractor{err: errors.New("boom")}, "fake OCR failed: boom", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := New(tt.fake).CheckUpload(context.Background(), bytes.NewReader(tt.data), tt.filename, goodDeclared)
			if res.Error == nil {
				t.Fatal("expected Error to be set")
			}
			if !strings.Contains(*res.Error, tt.want) {
				t.Errorf("Error = %q, want it to contain %q", *res.Error, tt.want)
			}
			if res.OverallStatus != verify.StatusFailure {
				t.Errorf("OverallStatus = %q, want failure", res.OverallStatus)
			}
			if len(res.Checks) != 0 {
				t.Errorf("Checks = %v, want none", res.Checks)
			}
			if got := tt.fake.calls.Load(); got != tt.calls {
				t.Errorf("extractor calls = %d, want %d", got, tt.calls)
			}
		})
	}
}

func TestCheckImage_Timeout(t *testing.T) {
	fake := &fakeExtractor{text: goodLabel, delay: time.Second}
	svc := New(fake, WithTimeout(10*time.Millisecond))

	li, err := imaging.DecodeLabel(bytes.NewReader(labelPNG(t)), "label.png")
	if err != nil {
		t.Fatalf("DecodeLabel: %v", err)
	}

	_, err = svc.CheckImage(context.Background(), li.Image, goodDeclared)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want context.DeadlineExceeded", err)
	}

	res := svc.CheckUpload(context.Background(), bytes.NewReader(labelPNG(t)), "label.png", goodDeclared)
	if res.Error == nil || *res.Error != MsgTimeout {
		t.Errorf("upload error = %v, want %q", res.Error, MsgTimeout)
	}
}

func TestCheckFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "label.png")
	if err := os.WriteFile(path, labelPNG(t), 0644); err != nil {
		t.Fatalf("failed to write label: %v", err)
	}

	declared := goodDeclared
	declared.BrandName = "Jack Rabbit"
	res := New(&fakeExtractor{text: goodLabel}).CheckFile(context.Background(), path, declared)
	if res.Error != nil {
		t.Fatalf("unexpected error: %s", *res.Error)
	}
	if res.Passed() {
		t.Error("mismatched brand should fail")
	}
	if res.Checks[0].Matched || res.Checks[0].Message != "Brand name 'Jack Rabbit' not found on label." {
		t.Errorf("brand check = %+v", res.Checks[0])
	}

	missing := New(&fakeExtractor{}).CheckFile(context.Background(), filepath.Join(t.TempDir(), "none.png"), declared)
	if missing.Error == nil || !strings.Contains(*missing.Error, "failed to open image") {
		t.Errorf("missing file result = %+v", missing)
	}
}

func TestWithVerifier(t *testing.T) {
	v := verify.New(verify.WithWarningText("GOVERNMENT WARNING: drink water."))
	svc := New(&fakeExtractor{}, WithVerifier(v))

	res := svc.CheckText(goodDeclared, "OLD TOM DISTILLERY Kentucky Straight Bourbon Whiskey 45% 750 mL GOVERNMENT WARNING: drink water.")
	if !res.Passed() {
		t.Errorf("custom warning should pass: %+v", res.Checks)
	}
	if svc.Backend() != "fake" {
		t.Errorf("Backend() = %q, want fake", svc.Backend())
	}
}
