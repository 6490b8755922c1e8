package raster

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Crop extracts the region [x1,x2) x [y1,y2) from g.
func Crop(g *Gray, x1, y1, x2, y2 int) (*Gray, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if x1 < 0 || y1 < 0 || x2 > g.Width || y2 > g.Height {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (0,0)-(%d,%d)",
			x1, y1, x2, y2, g.Width, g.Height)
	}
	if x1 >= x2 || y1 >= y2 {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}
	return FromNRGBA(imaging.Crop(g.ToImage(), image.Rect(x1, y1, x2, y2))), nil
}
