// Package ocr turns a label photo into text for verification.
//
// Two backends implement Extractor:
//
//   - Tesseract: local OCR through gosseract/v2 (libtesseract must be installed)
//   - Azure: the Azure Computer Vision printed-text OCR endpoint
//
// # Prerequisites
//
// The Tesseract backend needs the engine and its language data on the host:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// The language is a Tesseract code such as "eng"; several languages may be
// combined with "+" ("eng+fra").
//
// # Reading a Label
//
// ReadLabel is the entry point used by the label check service. It:
//  1. Rejects photos with no visible contrast (imaging.ErrBlankImage)
//  2. Converts to grayscale and stretches contrast (imaging.Preprocess)
//  3. Runs the Extractor under the caller's context
//  4. Rejects whitespace-only output (ErrNoText)
//
// # Error Handling
//
// Engine failures are wrapped with the backend name. ErrNoText and
// imaging.ErrBlankImage mean the photo was readable but nothing legible was
// found; callers usually ask the user for a clearer picture.
package ocr
