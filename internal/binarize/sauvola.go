package binarize

import (
	"fmt"
	"math"

	"github.com/ironsheep/htr-preproc/internal/raster"
)

// Default Sauvola parameters.
const (
	DefaultReferenceContrast = 127
	DefaultK                 = 0.01

	// minMean gates the adaptive threshold; darker windows use threshold 0.
	minMean = 100
)

// Params configures Sauvola binarization.
type Params struct {
	// WindowWidth and WindowHeight give the local window in pixels.
	WindowWidth  int
	WindowHeight int

	// ReferenceContrast is the dynamic range R of the deviation term.
	ReferenceContrast float64

	// K weighs the deviation term.
	K float64
}

// DefaultParams returns the parameters used for an image of the given
// height: a square window of half the height, R = 127, k = 0.01.
func DefaultParams(height int) Params {
	w := max(1, height/2)
	return Params{
		WindowWidth:       w,
		WindowHeight:      w,
		ReferenceContrast: DefaultReferenceContrast,
		K:                 DefaultK,
	}
}

// Sauvola binarizes img with a locally adaptive threshold.
//
// For every pixel the window sum s and squared sum sq over ksize samples
// give
//
//	mean = s / ksize
//	std  = sqrt((sq/ksize - mean*mean/ksize) / ksize)
//	t    = mean * (1 + k*(std/R - 1))   if mean >= 100, else 0
//
// and the output is 255 where v >= t, 0 elsewhere. Note the deviation term
// is not the textbook one.
func Sauvola(img *raster.Gray, p Params) (*raster.Gray, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	if p.WindowWidth <= 0 || p.WindowHeight <= 0 {
		return nil, &raster.GeometryError{Stage: "sauvola", Width: p.WindowWidth, Height: p.WindowHeight}
	}
	if p.ReferenceContrast <= 0 {
		return nil, fmt.Errorf("sauvola: reference contrast must be positive, got %v", p.ReferenceContrast)
	}

	ww, wh := p.WindowWidth, p.WindowHeight
	ii := NewIntegral(img, ww/2, wh/2)
	ksize := float64(ww * wh)

	out := raster.NewGray(img.Width, img.Height)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			s := float64(ii.Sum(x, y, x+ww, y+wh))
			sq := float64(ii.SqSum(x, y, x+ww, y+wh))

			t := threshold(s, sq, ksize, p.ReferenceContrast, p.K)
			if float64(img.Pix[y*img.Width+x]) >= t {
				out.Pix[y*img.Width+x] = 255
			}
		}
	}
	return out, nil
}

// threshold evaluates the gated Sauvola threshold for one window.
func threshold(s, sq, ksize, r, k float64) float64 {
	mean := s / ksize
	if mean < minMean {
		return 0
	}
	variance := ((sq / ksize) - (mean*mean)/ksize) / ksize
	std := math.Sqrt(math.Max(variance, 0))
	return mean * (1 + k*(raster.SafeDivide(std, r, 0)-1))
}
