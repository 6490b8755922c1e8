//go:build !cgo

package ocr

import "github.com/ironsheep/htr-preproc/internal/raster"

// Recognize always fails with ErrUnavailable in builds without cgo.
func Recognize(img *raster.Gray, lang string) (*Result, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	return nil, ErrUnavailable
}

// GetInfo reports that OCR is unavailable.
func GetInfo() Info {
	return Info{Available: false, Backend: "none", Error: ErrUnavailable.Error()}
}
