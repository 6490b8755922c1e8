package binarize

import "github.com/ironsheep/htr-preproc/internal/raster"

// Integral holds the summed-area tables of an image and of its squares,
// computed over the image padded with a constant 0 border.
//
// Both tables have (Height+1) rows and (Width+1) columns, where Width and
// Height are the padded dimensions. Entry (x, y) is the sum over all padded
// samples strictly above and to the left of (x, y).
type Integral struct {
	Width  int
	Height int
	PadX   int
	PadY   int

	sum   []int64
	sqsum []int64
}

// NewIntegral pads img by padX columns and padY rows on every side and
// builds both integral tables.
func NewIntegral(img *raster.Gray, padX, padY int) *Integral {
	pw := img.Width + 2*padX
	ph := img.Height + 2*padY
	stride := pw + 1

	ii := &Integral{
		Width:  pw,
		Height: ph,
		PadX:   padX,
		PadY:   padY,
		sum:    make([]int64, stride*(ph+1)),
		sqsum:  make([]int64, stride*(ph+1)),
	}

	for y := 1; y <= ph; y++ {
		var rowSum, rowSq int64
		sy := y - 1 - padY
		for x := 1; x <= pw; x++ {
			sx := x - 1 - padX
			if sy >= 0 && sy < img.Height && sx >= 0 && sx < img.Width {
				v := int64(img.Pix[sy*img.Width+sx])
				rowSum += v
				rowSq += v * v
			}
			ii.sum[y*stride+x] = ii.sum[(y-1)*stride+x] + rowSum
			ii.sqsum[y*stride+x] = ii.sqsum[(y-1)*stride+x] + rowSq
		}
	}
	return ii
}

// Sum returns the sum of padded samples in columns [x0, x1) and rows
// [y0, y1).
func (ii *Integral) Sum(x0, y0, x1, y1 int) int64 {
	return window(ii.sum, ii.Width+1, x0, y0, x1, y1)
}

// SqSum returns the sum of squared padded samples in columns [x0, x1) and
// rows [y0, y1).
func (ii *Integral) SqSum(x0, y0, x1, y1 int) int64 {
	return window(ii.sqsum, ii.Width+1, x0, y0, x1, y1)
}

// window combines the four corner lookups of a summed-area table.
func window(t []int64, stride, x0, y0, x1, y1 int) int64 {
	return t[y1*stride+x1] + t[y0*stride+x0] - t[y1*stride+x0] - t[y0*stride+x1]
}
