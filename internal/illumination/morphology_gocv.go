//go:build gocv

package illumination

import (
	"image"

	"gocv.io/x/gocv"

	"github.com/ironsheep/htr-preproc/internal/raster"
)

// erode runs cv::erode with a 3x3 rectangle. The default border value keeps
// pixels outside the image out of the minimum, as erode3 does.
func erode(src *raster.Gray) *raster.Gray {
	in, err := raster.ToMat(src)
	if err != nil {
		return erode3(src)
	}
	defer in.Close()

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(3, 3))
	defer kernel.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.Erode(in, &dst, kernel)

	out, err := raster.FromMat(dst)
	if err != nil {
		return erode3(src)
	}
	return out
}

// boxMean runs cv::blur, whose default border is reflect-101.
func boxMean(src *raster.Float, size int) *raster.Float {
	in, err := raster.FloatToMat(src)
	if err != nil {
		return meanFilter(src, size)
	}
	defer in.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.Blur(in, &dst, image.Pt(size, size))

	out, err := raster.MatToFloat(dst)
	if err != nil {
		return meanFilter(src, size)
	}
	return out
}
