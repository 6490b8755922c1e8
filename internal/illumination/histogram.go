package illumination

import (
	"errors"
	"fmt"
	"math"

	"github.com/anthonynsimon/bild/histogram"

	"github.com/ironsheep/htr-preproc/internal/raster"
)

// ErrEstimateFailed reports that no background level could be estimated.
var ErrEstimateFailed = errors.New("illumination estimate failed")

// binWidth is the width of the coarse histogram bins. The bin that would
// span [250,260) is cut at 255 so saturated white gets a bin of its own.
const (
	binWidth = 10
	numBins  = 29
)

// coarseBin maps an 8-bit intensity to its coarse histogram bin, using the
// edges 0,10,...,250,255,270,280,290.
func coarseBin(v int) int {
	switch {
	case v < 250:
		return v / binWidth
	case v < 255:
		return 25
	default:
		return 26
	}
}

// coarseHistogram folds the 256-bin intensity histogram into the coarse bins.
func coarseHistogram(img *raster.Gray) [numBins]int {
	var bins [numBins]int
	h := histogram.NewRGBAHistogram(img.ToImage())
	for v, count := range h.R.Bins {
		bins[coarseBin(v)] += count
	}
	return bins
}

// backgroundLevel returns hr, the lower edge of the first coarse bin whose
// population exceeds sqrt(height*width).
func backgroundLevel(img *raster.Gray) (int, error) {
	limit := math.Sqrt(float64(img.Height * img.Width))
	bins := coarseHistogram(img)
	for i, count := range bins {
		if float64(count) > limit {
			return i * binWidth, nil
		}
	}
	return 0, fmt.Errorf("%w: no histogram bin exceeds %.1f samples", ErrEstimateFailed, limit)
}
