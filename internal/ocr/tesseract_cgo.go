//go:build cgo

package ocr

import (
	"fmt"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/htr-preproc/internal/raster"
)

const backend = "gosseract"

// Recognize runs Tesseract on img in the given language.
func Recognize(img *raster.Gray, lang string) (*Result, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	data, err := encodePNG(img)
	if err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(language(lang)); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	// A single text line.
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_LINE); err != nil {
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	res := &Result{FullText: text, Words: []Word{}}
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return res, nil
	}
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		res.Words = append(res.Words, Word{
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
	return res, nil
}

// GetInfo reports the Tesseract version.
func GetInfo() Info {
	client := gosseract.NewClient()
	defer client.Close()
	return Info{Available: true, Version: client.Version(), Backend: backend}
}
