package illumination

import (
	"math"

	"github.com/ironsheep/htr-preproc/internal/raster"
)

// Directional 3x3 edge kernels, row-major: horizontal, both diagonals and
// vertical gradients.
var edgeKernels = [4][3][3]float64{
	{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	},
	{
		{-2, -1, 0},
		{-1, 0, 1},
		{0, 1, 2},
	},
	{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	},
	{
		{0, 1, 2},
		{-1, 0, 1},
		{-2, -1, 0},
	},
}

// reflect101 maps an out-of-range index back into [0, n) by mirroring
// around the edge samples without repeating them (gfedcb|abcdefgh|gfedcba).
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		} else {
			i = 2*n - 2 - i
		}
	}
	return i
}

// correlate3 applies a 3x3 kernel as a correlation with reflect-101 borders.
func correlate3(src *raster.Float, k *[3][3]float64) *raster.Float {
	w, h := src.Width, src.Height
	dst := raster.NewFloat(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float64
			for ky := -1; ky <= 1; ky++ {
				py := reflect101(y+ky, h)
				for kx := -1; kx <= 1; kx++ {
					px := reflect101(x+kx, w)
					sum += src.Pix[py*w+px] * k[ky+1][kx+1]
				}
			}
			dst.Pix[y*w+x] = sum
		}
	}
	return dst
}

// edgeAverage returns the mean absolute response of the four directional
// kernels, rescaled to [0, 255].
func edgeAverage(src *raster.Float) *raster.Float {
	avg := raster.NewFloat(src.Width, src.Height)
	for i := range edgeKernels {
		eg := filter3(src, &edgeKernels[i])
		for j, v := range eg.Pix {
			avg.Pix[j] += math.Abs(v)
		}
	}
	for j := range avg.Pix {
		avg.Pix[j] /= 4
	}
	return rescale(avg)
}

// rescale stretches f linearly so its minimum maps to 0 and its maximum to
// 255. A constant image maps to 0.
func rescale(f *raster.Float) *raster.Float {
	lo, hi := f.MinMax()
	span := hi - lo
	out := raster.NewFloat(f.Width, f.Height)
	for i, v := range f.Pix {
		out.Pix[i] = raster.SafeDivide(v-lo, span, 0) * 255
	}
	return out
}
