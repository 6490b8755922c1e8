//go:build gocv

package raster

import (
	"fmt"

	"gocv.io/x/gocv"
)

// ToMat wraps g in a single-channel 8-bit Mat. The Mat shares g's pixels.
func ToMat(g *Gray) (gocv.Mat, error) {
	if err := g.Validate(); err != nil {
		return gocv.Mat{}, err
	}
	return gocv.NewMatFromBytes(g.Height, g.Width, gocv.MatTypeCV8UC1, g.Pix)
}

// FromMat copies a single-channel 8-bit Mat into a new Gray.
func FromMat(m gocv.Mat) (*Gray, error) {
	if m.Empty() || m.Type() != gocv.MatTypeCV8UC1 {
		return nil, fmt.Errorf("unsupported Mat: type %d, %dx%d", int(m.Type()), m.Cols(), m.Rows())
	}
	g := NewGray(m.Cols(), m.Rows())
	b := m.ToBytes()
	if len(b) != len(g.Pix) {
		return nil, fmt.Errorf("mat holds %d bytes, want %d", len(b), len(g.Pix))
	}
	copy(g.Pix, b)
	return g, nil
}

// FloatToMat copies f into a new single-channel CV_64F Mat.
func FloatToMat(f *Float) (gocv.Mat, error) {
	m := gocv.NewMatWithSize(f.Height, f.Width, gocv.MatTypeCV64F)
	data, err := m.DataPtrFloat64()
	if err != nil {
		m.Close()
		return gocv.Mat{}, err
	}
	copy(data, f.Pix)
	return m, nil
}

// MatToFloat copies a single-channel CV_64F Mat into a new Float.
func MatToFloat(m gocv.Mat) (*Float, error) {
	data, err := m.DataPtrFloat64()
	if err != nil {
		return nil, err
	}
	f := NewFloat(m.Cols(), m.Rows())
	if len(data) != len(f.Pix) {
		return nil, fmt.Errorf("mat holds %d values, want %d", len(data), len(f.Pix))
	}
	copy(f.Pix, data)
	return f, nil
}
