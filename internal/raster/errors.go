package raster

import (
	"errors"
	"fmt"
)

// ErrInvalidImage reports a zero-sized or malformed raster. It is always
// wrapped with the offending dimensions.
var ErrInvalidImage = errors.New("invalid image")

// GeometryError reports a stage whose computed output size is not positive.
type GeometryError struct {
	// Stage names the pipeline stage that computed the size (e.g. "resize").
	Stage string

	// Width and Height are the offending target dimensions.
	Width  int
	Height int
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("%s: invalid target geometry %dx%d", e.Stage, e.Width, e.Height)
}

func invalidImage(width, height, samples int) error {
	return fmt.Errorf("%w: %dx%d with %d samples", ErrInvalidImage, width, height, samples)
}
