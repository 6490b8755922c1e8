package deslant

import (
	"math"

	"github.com/ironsheep/htr-preproc/internal/raster"
)

// AffineTransform maps source to destination coordinates:
//
//	x' = t[0][0]*x + t[0][1]*y + t[0][2]
//	y' = t[1][0]*x + t[1][1]*y + t[1][2]
type AffineTransform [2][3]float64

// Identity is the transform that leaves every point in place.
var Identity = AffineTransform{{1, 0, 0}, {0, 1, 0}}

// Shear returns the horizontal shear by alpha for an image with the given
// number of rows, shifted so that no sheared pixel lands left of column 0.
func Shear(alpha float64, rows int) AffineTransform {
	shift := math.Max(-alpha*float64(rows), 0)
	return AffineTransform{{1, alpha, shift}, {0, 1, 0}}
}

// CanvasWidth is the width needed to hold cols columns sheared by alpha over
// rows rows.
func CanvasWidth(alpha float64, cols, rows int) int {
	return cols + int(math.Ceil(math.Abs(alpha)*float64(rows)))
}

// Invert returns the inverse transform and false when t is singular.
func (t AffineTransform) Invert() (AffineTransform, bool) {
	det := t[0][0]*t[1][1] - t[0][1]*t[1][0]
	if det == 0 {
		return AffineTransform{}, false
	}
	a := t[1][1] / det
	b := -t[0][1] / det
	c := -t[1][0] / det
	d := t[0][0] / det
	return AffineTransform{
		{a, b, -a*t[0][2] - b*t[1][2]},
		{c, d, -c*t[0][2] - d*t[1][2]},
	}, true
}

// Apply maps the point (x, y).
func (t AffineTransform) Apply(x, y float64) (float64, float64) {
	return t[0][0]*x + t[0][1]*y + t[0][2], t[1][0]*x + t[1][1]*y + t[1][2]
}

// Interpolation selects how Warp samples the source.
type Interpolation int

const (
	// Nearest picks the closest source sample, rounding halves up.
	Nearest Interpolation = iota
	// Linear blends the four surrounding samples.
	Linear
)

// Warp renders img through t onto a width x height canvas. Every
// destination pixel is mapped back to the source; samples outside the
// source read as fill.
func Warp(img *raster.Gray, t AffineTransform, width, height int, interp Interpolation, fill uint8) (*raster.Gray, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, &raster.GeometryError{Stage: "warp", Width: width, Height: height}
	}
	inv, ok := t.Invert()
	if !ok {
		return nil, &raster.GeometryError{Stage: "warp", Width: width, Height: height}
	}

	return warp(img, t, inv, width, height, interp, fill), nil
}

// warpInverse samples img at inv(x, y) for every destination pixel.
func warpInverse(img *raster.Gray, inv AffineTransform, width, height int, interp Interpolation, fill uint8) *raster.Gray {
	out := raster.NewGray(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			sx, sy := inv.Apply(float64(x), float64(y))
			var v uint8
			switch interp {
			case Linear:
				v = sampleLinear(img, sx, sy, fill)
			default:
				v = sampleNearest(img, sx, sy, fill)
			}
			out.Pix[y*width+x] = v
		}
	}
	return out
}

// at reads img at integer coordinates, returning fill outside it.
func at(img *raster.Gray, x, y int, fill uint8) uint8 {
	if x < 0 || y < 0 || x >= img.Width || y >= img.Height {
		return fill
	}
	return img.Pix[y*img.Width+x]
}

func sampleNearest(img *raster.Gray, x, y float64, fill uint8) uint8 {
	return at(img, int(math.Floor(x+0.5)), int(math.Floor(y+0.5)), fill)
}

func sampleLinear(img *raster.Gray, x, y float64, fill uint8) uint8 {
	x0, y0 := math.Floor(x), math.Floor(y)
	fx, fy := x-x0, y-y0
	ix, iy := int(x0), int(y0)

	p00 := float64(at(img, ix, iy, fill))
	p10 := float64(at(img, ix+1, iy, fill))
	p01 := float64(at(img, ix, iy+1, fill))
	p11 := float64(at(img, ix+1, iy+1, fill))

	top := p00 + (p10-p00)*fx
	bottom := p01 + (p11-p01)*fx
	return uint8(raster.Clamp(math.Round(top+(bottom-top)*fy), 0, 255))
}
