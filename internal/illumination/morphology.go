package illumination

import "github.com/ironsheep/htr-preproc/internal/raster"

// erode3 applies one iteration of 3x3 grayscale erosion. Neighbours outside
// the image do not take part in the minimum.
func erode3(src *raster.Gray) *raster.Gray {
	w, h := src.Width, src.Height
	dst := raster.NewGray(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m := uint8(255)
			for ny := y - 1; ny <= y+1; ny++ {
				if ny < 0 || ny >= h {
					continue
				}
				for nx := x - 1; nx <= x+1; nx++ {
					if nx < 0 || nx >= w {
						continue
					}
					if v := src.Pix[ny*w+nx]; v < m {
						m = v
					}
				}
			}
			dst.Pix[y*w+x] = m
		}
	}
	return dst
}

// meanFilter smooths src with a size x size box kernel and reflect-101
// borders. The kernel is applied as two separable passes.
func meanFilter(src *raster.Float, size int) *raster.Float {
	w, h := src.Width, src.Height
	half := size / 2
	norm := float64(size)

	rows := raster.NewFloat(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float64
			for k := -half; k <= half; k++ {
				sum += src.Pix[y*w+reflect101(x+k, w)]
			}
			rows.Pix[y*w+x] = sum / norm
		}
	}

	dst := raster.NewFloat(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float64
			for k := -half; k <= half; k++ {
				sum += rows.Pix[reflect101(y+k, h)*w+x]
			}
			dst.Pix[y*w+x] = sum / norm
		}
	}
	return dst
}
