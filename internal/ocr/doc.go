// Package ocr recognizes restored text lines with Tesseract.
//
// It is the downstream consumer used to check a restoration by eye: the
// deslanted line is handed to Tesseract through gosseract/v2 and the
// recognized text comes back with word boxes and confidences.
//
// # Prerequisites
//
// Tesseract and its language data must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// Builds without cgo compile a stub whose functions return ErrUnavailable.
//
// # Coordinates
//
// RecognizeRegion reports word boxes in the coordinates of the full line,
// not of the cropped region.
package ocr
