//go:build !gocv

package illumination

import "github.com/ironsheep/htr-preproc/internal/raster"

func erode(src *raster.Gray) *raster.Gray {
	return erode3(src)
}

func boxMean(src *raster.Float, size int) *raster.Float {
	return meanFilter(src, size)
}
