//go:build !gocv

package illumination

import "github.com/ironsheep/htr-preproc/internal/raster"

func filter3(src *raster.Float, k *[3][3]float64) *raster.Float {
	return correlate3(src, k)
}
