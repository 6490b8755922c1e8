//go:build gocv

package binarize

import (
	"gocv.io/x/gocv"

	"github.com/ironsheep/htr-preproc/internal/raster"
)

// otsuLevel asks OpenCV for the Otsu threshold, falling back to the
// histogram scan when img cannot be mapped to a Mat. The thresholded Mat is
// discarded; Threshold builds the mask.
func otsuLevel(img *raster.Gray) int {
	src, err := raster.ToMat(img)
	if err != nil {
		return histogramOtsuLevel(img)
	}
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()

	level := gocv.Threshold(src, &dst, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)
	return int(level)
}
