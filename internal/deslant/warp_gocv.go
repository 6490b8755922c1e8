//go:build gocv

package deslant

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ironsheep/htr-preproc/internal/raster"
)

// warp renders img through cv::warpAffine with a constant border, falling
// back to warpInverse when the Mats cannot be mapped.
func warp(img *raster.Gray, t, inv AffineTransform, width, height int, interp Interpolation, fill uint8) *raster.Gray {
	out, err := warpAffine(img, t, width, height, interp, fill)
	if err != nil {
		return warpInverse(img, inv, width, height, interp, fill)
	}
	return out
}

func warpAffine(img *raster.Gray, t AffineTransform, width, height int, interp Interpolation, fill uint8) (*raster.Gray, error) {
	src, err := raster.ToMat(img)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	m := gocv.NewMatWithSize(2, 3, gocv.MatTypeCV64F)
	defer m.Close()
	for r := 0; r < 2; r++ {
		for c := 0; c < 3; c++ {
			m.SetDoubleAt(r, c, t[r][c])
		}
	}

	flags := gocv.InterpolationNearestNeighbor
	if interp == Linear {
		flags = gocv.InterpolationLinear
	}

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.WarpAffineWithParams(src, &dst, m, image.Pt(width, height), flags,
		gocv.BorderConstant, color.RGBA{R: fill, G: fill, B: fill, A: fill})
	return raster.FromMat(dst)
}
