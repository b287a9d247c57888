// Package labelcheck runs the full label check: decode the uploaded photo,
// read its text and verify the declared fields against it.
package labelcheck

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"time"

	"github.com/ironsheep/label-verify/internal/imaging"
	"github.com/ironsheep/label-verify/internal/logging"
	"github.com/ironsheep/label-verify/internal/ocr"
	"github.com/ironsheep/label-verify/internal/verify"
)

// User-facing failure messages.
const (
	MsgInvalidFormat = "Invalid image format. Please use PNG, JPG, or JPEG."
	MsgNoText        = "Could not read text from the label image. Please try a clearer image."
	MsgTimeout       = "Reading the label took too long. Please try again."
	MsgCancelled     = "The request was cancelled before the label could be read."
	msgProcessing    = "An error occurred during image processing: %v. The image may be corrupted."
)

// UserMessage turns an error from DecodeLabel or ReadLabel into the message
// shown to the person who submitted the label.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, imaging.ErrUnsupportedFormat):
		return MsgInvalidFormat
	case errors.Is(err, ocr.ErrNoText), errors.Is(err, imaging.ErrBlankImage):
		return MsgNoText
	case errors.Is(err, context.DeadlineExceeded):
		return MsgTimeout
	case errors.Is(err, context.Canceled):
		return MsgCancelled
	default:
		return fmt.Sprintf(msgProcessing, err)
	}
}

// Option configures a Service.
type Option func(*Service)

// WithVerifier replaces the default verify.New() verifier.
func WithVerifier(v *verify.Verifier) Option {
	return func(s *Service) { s.verifier = v }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(lg *logging.Logger) Option {
	return func(s *Service) { s.logger = lg }
}

// WithTimeout bounds each OCR call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// Service checks labels. It holds no per-request state and is safe for
// concurrent use.
type Service struct {
	extractor ocr.Extractor
	verifier  *verify.Verifier
	logger    *logging.Logger
	timeout   time.Duration
}

// New creates a Service reading labels with ex.
func New(ex ocr.Extractor, opts ...Option) *Service {
	s := &Service{
		extractor: ex,
		verifier:  verify.New(),
		logger:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Backend names the OCR engine in use.
func (s *Service) Backend() string {
	return s.extractor.Name()
}

// EngineVersion reports the OCR engine version, or "" if the backend does not
// expose one.
func (s *Service) EngineVersion() string {
	return ocr.EngineVersion(s.extractor)
}

// WarningText returns the legal statement labels must carry.
func (s *Service) WarningText() string {
	return s.verifier.WarningText()
}

// ReadText runs OCR on img under the configured timeout.
func (s *Service) ReadText(ctx context.Context, img image.Image) (*ocr.OCRResult, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := ocr.ReadLabel(ctx, s.extractor, img)
	if err != nil {
		s.logger.Warn("OCR failed", "backend", s.extractor.Name(), "error", err, "elapsed", time.Since(start))
		return nil, err
	}
	s.logger.Debug("OCR complete",
		"backend", res.Backend,
		"chars", len(res.FullText),
		"words", len(res.Regions),
		"elapsed", time.Since(start))
	return res, nil
}

// CheckImage reads img and verifies declared against its text.
func (s *Service) CheckImage(ctx context.Context, img image.Image, declared verify.DeclaredFields) (*verify.Result, error) {
	res, err := s.ReadText(ctx, img)
	if err != nil {
		return nil, err
	}
	return s.CheckText(declared, res.FullText), nil
}

// CheckText verifies declared against text that was already extracted.
func (s *Service) CheckText(declared verify.DeclaredFields, text string) *verify.Result {
	start := time.Now()
	res := s.verifier.Verify(declared, text)

	failed := make([]string, 0, len(res.Checks))
	for _, c := range res.Checks {
		if !c.Matched {
			failed = append(failed, c.Field)
		}
	}
	s.logger.Info("label verified",
		"status", res.OverallStatus,
		"failed", failed,
		"elapsed", time.Since(start))
	return res
}

// CheckUpload decodes an uploaded photo and checks it. Failures before
// verification become a verify.Failed result carrying UserMessage, so the
// returned Result is never nil.
func (s *Service) CheckUpload(ctx context.Context, r io.Reader, filename string, declared verify.DeclaredFields) *verify.Result {
	li, err := imaging.DecodeLabel(r, filename)
	if err != nil {
		s.logger.Warn("rejected label image", "filename", filename, "error", err)
		return verify.Failed(UserMessage(err))
	}
	s.logger.Debug("decoded label image", "format", li.Format, "width", li.Width, "height", li.Height)

	res, err := s.CheckImage(ctx, li.Image, declared)
	if err != nil {
		return verify.Failed(UserMessage(err))
	}
	return res
}

// CheckFile is CheckUpload for a file on disk.
func (s *Service) CheckFile(ctx context.Context, path string, declared verify.DeclaredFields) *verify.Result {
	li, err := imaging.LoadLabel(path)
	if err != nil {
		s.logger.Warn("rejected label image", "path", path, "error", err)
		return verify.Failed(UserMessage(err))
	}

	res, err := s.CheckImage(ctx, li.Image, declared)
	if err != nil {
		return verify.Failed(UserMessage(err))
	}
	return res
}
