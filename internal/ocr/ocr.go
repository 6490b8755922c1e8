package ocr

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"

	"github.com/ironsheep/htr-preproc/internal/raster"
)

// DefaultLanguage is the Tesseract language used when none is given.
const DefaultLanguage = "eng"

// ErrUnavailable is returned when the binary was built without Tesseract.
var ErrUnavailable = errors.New("ocr: tesseract support not compiled in")

// Bounds is a rectangle in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Word is a recognized word with its location.
type Word struct {
	Text string `json:"text"`

	// Confidence is in [0, 1].
	Confidence float64 `json:"confidence"`
	Bounds     Bounds  `json:"bounds"`
}

// Result is the recognized content of one line.
type Result struct {
	FullText string `json:"full_text"`

	// Words may be empty when Tesseract returns text without boxes.
	Words []Word `json:"words"`
}

// Info describes the OCR backend.
type Info struct {
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Backend   string `json:"backend"`
	Error     string `json:"error,omitempty"`
}

// encodePNG serializes img for Tesseract.
func encodePNG(img *raster.Gray) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img.ToImage()); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// offset moves every word box by (dx, dy).
func (r *Result) offset(dx, dy int) {
	for i := range r.Words {
		b := &r.Words[i].Bounds
		b.X1 += dx
		b.Y1 += dy
		b.X2 += dx
		b.Y2 += dy
	}
}

// language returns lang or the default.
func language(lang string) string {
	if lang == "" {
		return DefaultLanguage
	}
	return lang
}

// RecognizeRegion recognizes the region [x1,x2) x [y1,y2) of img. Word
// boxes are reported in img coordinates.
func RecognizeRegion(img *raster.Gray, x1, y1, x2, y2 int, lang string) (*Result, error) {
	cropped, err := raster.Crop(img, x1, y1, x2, y2)
	if err != nil {
		return nil, err
	}
	res, err := Recognize(cropped, lang)
	if err != nil {
		return nil, err
	}
	res.offset(x1, y1)
	return res, nil
}
