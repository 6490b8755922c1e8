package normalize

import (
	"fmt"
	"math"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/htr-preproc/internal/raster"
)

// Default geometry.
const (
	DefaultFeatureHeight = 64
	DefaultMaxWidth      = 3500
)

// Options controls the geometry of a normalized line.
type Options struct {
	// FeatureHeight is the number of features per time step.
	FeatureHeight int `json:"feature_height" yaml:"feature_height"`

	// MaxWidth bounds the number of time steps.
	MaxWidth int `json:"max_width" yaml:"max_width"`

	// TargetWidth, when positive, forces every line to this many steps
	// (clamped to MaxWidth). Zero keeps the aspect-preserving width.
	TargetWidth int `json:"target_width" yaml:"target_width"`
}

// DefaultOptions returns the default geometry.
func DefaultOptions() Options {
	return Options{FeatureHeight: DefaultFeatureHeight, MaxWidth: DefaultMaxWidth}
}

// Validate reports whether the options describe a usable geometry.
func (o Options) Validate() error {
	if o.FeatureHeight <= 0 || o.MaxWidth <= 0 {
		return &raster.GeometryError{Stage: "resize", Width: o.MaxWidth, Height: o.FeatureHeight}
	}
	if o.TargetWidth < 0 {
		return fmt.Errorf("resize: negative target width %d", o.TargetWidth)
	}
	return nil
}

// Fit returns the size of a width x height image scaled, aspect preserved,
// to fit within MaxWidth x FeatureHeight.
func Fit(width, height int, opts Options) (int, int, error) {
	scale := math.Min(
		float64(opts.FeatureHeight)/float64(height),
		float64(opts.MaxWidth)/float64(width),
	)
	w := int(math.Round(float64(width) * scale))
	h := int(math.Round(float64(height) * scale))
	if w <= 0 || h <= 0 {
		return 0, 0, &raster.GeometryError{Stage: "resize", Width: w, Height: h}
	}
	return min(w, opts.MaxWidth), min(h, opts.FeatureHeight), nil
}

// targetWidth is the width of the stretch step given the fitted width.
func (o Options) targetWidth(fitted int) int {
	if o.TargetWidth > 0 {
		return min(o.TargetWidth, o.MaxWidth)
	}
	return fitted
}

// Resize runs both geometric steps and returns a FeatureHeight-high raster
// at most MaxWidth wide.
func Resize(img *raster.Gray, opts Options) (*raster.Gray, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	w, h, err := Fit(img.Width, img.Height, opts)
	if err != nil {
		return nil, err
	}
	fitted := resample(img, w, h)

	return resample(fitted, opts.targetWidth(w), opts.FeatureHeight), nil
}

// resample scales img to exactly width x height with linear filtering.
func resample(img *raster.Gray, width, height int) *raster.Gray {
	if img.Width == width && img.Height == height {
		return img.Clone()
	}
	return raster.FromNRGBA(imaging.Resize(img.ToImage(), width, height, imaging.Linear))
}

// Rotate270 rotates img 270 degrees counter-clockwise. Column x of img
// becomes row x of the result, read bottom to top.
func Rotate270(img *raster.Gray) *raster.Gray {
	return raster.FromNRGBA(imaging.Rotate270(img.ToImage()))
}
