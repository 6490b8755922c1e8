package binarize

import "github.com/ironsheep/htr-preproc/internal/raster"

// OtsuLevel returns the global Otsu threshold of img. A uniform image yields 0.
func OtsuLevel(img *raster.Gray) int {
	return otsuLevel(img)
}

// Otsu binarizes img with its Otsu level: 255 where v > level, 0 elsewhere.
func Otsu(img *raster.Gray) (*raster.Gray, int) {
	level := otsuLevel(img)
	return Threshold(img, level), level
}

// Threshold sets samples strictly above level to 255 and the rest to 0.
func Threshold(img *raster.Gray, level int) *raster.Gray {
	out := raster.NewGray(img.Width, img.Height)
	for i, v := range img.Pix {
		if int(v) > level {
			out.Pix[i] = 255
		}
	}
	return out
}
