package deslant

import "github.com/ironsheep/htr-preproc/internal/raster"

// Score sums, over all columns of mask, the squared length of the column's
// foreground run. Columns whose foreground is broken by a gap, or that have
// no foreground, add nothing.
func Score(mask *raster.Gray) float64 {
	var total float64
	for x := 0; x < mask.Width; x++ {
		total += columnScore(mask, x)
	}
	return total
}

func columnScore(mask *raster.Gray, x int) float64 {
	first, last, count := -1, -1, 0
	for y := 0; y < mask.Height; y++ {
		if mask.Pix[y*mask.Width+x] == 0 {
			continue
		}
		if first < 0 {
			first = y
		}
		last = y
		count++
	}
	if count == 0 || last-first+1 != count {
		return 0
	}
	return float64(count) * float64(count)
}
