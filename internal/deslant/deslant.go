package deslant

import (
	"fmt"

	"github.com/ironsheep/htr-preproc/internal/raster"
)

// Candidates are the slants tried by Deslant, in tie-breaking order.
var Candidates = []float64{-1.0, -0.75, -0.5, -0.25, 0.0, 0.25, 0.5, 0.75, 1.0}

// Candidate is one evaluated shear.
type Candidate struct {
	Alpha float64 `json:"alpha"`
	Width int     `json:"width"`
	Score float64 `json:"score"`
}

// Result is a deslanted line.
type Result struct {
	// Image is the sheared original grayscale line.
	Image *raster.Gray

	// Best is the winning candidate.
	Best Candidate

	// Candidates holds every evaluated shear in search order.
	Candidates []Candidate
}

// Search scores every alpha on the binarized mask and returns the
// candidates in order along with the index of the best one. The first
// maximum wins.
func Search(binarized *raster.Gray, alphas []float64) ([]Candidate, int, error) {
	if err := binarized.Validate(); err != nil {
		return nil, 0, err
	}
	if len(alphas) == 0 {
		return nil, 0, fmt.Errorf("deslant: no candidate slants")
	}

	rows, cols := binarized.Height, binarized.Width
	out := make([]Candidate, 0, len(alphas))
	best := 0
	for i, alpha := range alphas {
		width := CanvasWidth(alpha, cols, rows)
		sheared, err := Warp(binarized, Shear(alpha, rows), width, rows, Nearest, 0)
		if err != nil {
			return nil, 0, fmt.Errorf("deslant: alpha %v: %w", alpha, err)
		}
		c := Candidate{Alpha: alpha, Width: width, Score: Score(sheared)}
		if i > 0 && c.Score > out[best].Score {
			best = i
		}
		out = append(out, c)
	}
	return out, best, nil
}

// Deslant picks the best shear for binarized and applies it to original.
// Both images must have the same dimensions.
func Deslant(original, binarized *raster.Gray) (*Result, error) {
	if err := original.Validate(); err != nil {
		return nil, err
	}
	if err := binarized.Validate(); err != nil {
		return nil, err
	}
	if original.Width != binarized.Width || original.Height != binarized.Height {
		return nil, &raster.GeometryError{Stage: "deslant", Width: binarized.Width, Height: binarized.Height}
	}

	cands, best, err := Search(binarized, Candidates)
	if err != nil {
		return nil, err
	}
	b := cands[best]

	img, err := Warp(original, Shear(b.Alpha, original.Height), b.Width, original.Height, Linear, 255)
	if err != nil {
		return nil, fmt.Errorf("deslant: %w", err)
	}
	return &Result{Image: img, Best: b, Candidates: cands}, nil
}
