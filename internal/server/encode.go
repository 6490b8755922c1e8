package server

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/htr-preproc/internal/raster"
)

// ImageResult is an image returned to the client.
type ImageResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// encodeImage renders g as a base64 PNG, resized by scale when scale is
// positive and not 1.
func encodeImage(g *raster.Gray, scale float64) (*ImageResult, error) {
	var img image.Image = g.ToImage()
	if scale != 1.0 && scale > 0 {
		newWidth := max(1, int(float64(g.Width)*scale))
		newHeight := max(1, int(float64(g.Height)*scale))
		img = imaging.Resize(img, newWidth, newHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &ImageResult{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
