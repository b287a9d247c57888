// Package imaging loads label photos and prepares them for OCR.
//
// # Accepted Files
//
// Only PNG, JPG and JPEG files are accepted, judged by the file extension
// before any bytes are read. Decoding failures are reported as
// ErrCorruptImage so callers can tell a bad upload from an unsupported one.
//
// # Preparation
//
// Preprocess converts a photo to grayscale and stretches its contrast with
// AutoContrast, discarding the extreme DefaultCutoff of the histogram at each
// end. Images whose histogram spans a single level are left unchanged.
//
// IsBlank rejects photos with no visible contrast (measured as the CIE L*
// spread of a small thumbnail) so OCR is never run on an empty frame.
//
// All functions are stateless and safe for concurrent use.
package imaging
