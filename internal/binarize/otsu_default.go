//go:build !gocv

package binarize

import "github.com/ironsheep/htr-preproc/internal/raster"

func otsuLevel(img *raster.Gray) int {
	return histogramOtsuLevel(img)
}
