//go:build gocv

package illumination

import (
	"image"

	"gocv.io/x/gocv"

	"github.com/ironsheep/htr-preproc/internal/raster"
)

// filter3 correlates src with k through cv::filter2D with reflect-101
// borders, falling back to correlate3 when the Mats cannot be mapped.
func filter3(src *raster.Float, k *[3][3]float64) *raster.Float {
	out, err := filter2D(src, k)
	if err != nil {
		return correlate3(src, k)
	}
	return out
}

func filter2D(src *raster.Float, k *[3][3]float64) (*raster.Float, error) {
	in, err := raster.FloatToMat(src)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	kernel := gocv.NewMatWithSize(3, 3, gocv.MatTypeCV64F)
	defer kernel.Close()
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			kernel.SetDoubleAt(r, c, k[r][c])
		}
	}

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.Filter2D(in, &dst, gocv.MatTypeCV64F, kernel, image.Pt(-1, -1), 0, gocv.BorderReflect101)
	return raster.MatToFloat(dst)
}
