//go:build !gocv

package deslant

import "github.com/ironsheep/htr-preproc/internal/raster"

func warp(img *raster.Gray, _, inv AffineTransform, width, height int, interp Interpolation, fill uint8) *raster.Gray {
	return warpInverse(img, inv, width, height, interp, fill)
}
