package binarize

import (
	"github.com/anthonynsimon/bild/histogram"

	"github.com/ironsheep/htr-preproc/internal/raster"
)

// fltEpsilon is the float32 machine epsilon used to skip degenerate splits.
const fltEpsilon = 1.1920929e-07

// histogramOtsuLevel scans all 256 split points and keeps the first one
// with the largest between-class variance q1*q2*(mu1-mu2)^2.
func histogramOtsuLevel(img *raster.Gray) int {
	bins := histogram.NewRGBAHistogram(img.ToImage()).R.Bins
	total := float64(len(img.Pix))

	var p [256]float64
	mu := 0.0
	for i := 0; i < 256 && i < len(bins); i++ {
		p[i] = float64(bins[i]) / total
		mu += float64(i) * p[i]
	}

	var q1, mu1, maxSigma float64
	level := 0
	for i := 0; i < 256; i++ {
		pi := p[i]
		mu1 *= q1
		q1 += pi
		q2 := 1 - q1

		if min(q1, q2) < fltEpsilon || max(q1, q2) > 1-fltEpsilon {
			continue
		}

		mu1 = (mu1 + float64(i)*pi) / q1
		mu2 := (mu - q1*mu1) / q2
		sigma := q1 * q2 * (mu1 - mu2) * (mu1 - mu2)
		if sigma > maxSigma {
			maxSigma = sigma
			level = i
		}
	}
	return level
}
