package raster

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// Gray is an 8-bit single-channel raster stored row-major.
type Gray struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewGray allocates a black width x height raster. Dimensions are not
// checked; call Validate before handing the buffer to a stage.
func NewGray(width, height int) *Gray {
	n := 0
	if width > 0 && height > 0 {
		n = width * height
	}
	return &Gray{Width: width, Height: height, Pix: make([]uint8, n)}
}

// NewUniform allocates a raster with every sample set to v.
func NewUniform(width, height int, v uint8) *Gray {
	g := NewGray(width, height)
	for i := range g.Pix {
		g.Pix[i] = v
	}
	return g
}

// Validate reports whether g is a usable raster.
func (g *Gray) Validate() error {
	if g == nil {
		return invalidImage(0, 0, 0)
	}
	if g.Width <= 0 || g.Height <= 0 || len(g.Pix) != g.Width*g.Height {
		return invalidImage(g.Width, g.Height, len(g.Pix))
	}
	return nil
}

// At returns the sample at column x, row y.
func (g *Gray) At(x, y int) uint8 {
	return g.Pix[y*g.Width+x]
}

// Set stores v at column x, row y.
func (g *Gray) Set(x, y int, v uint8) {
	g.Pix[y*g.Width+x] = v
}

// Clone returns a deep copy of g.
func (g *Gray) Clone() *Gray {
	c := &Gray{Width: g.Width, Height: g.Height, Pix: make([]uint8, len(g.Pix))}
	copy(c.Pix, g.Pix)
	return c
}

// Equal reports whether g and o have the same size and samples.
func (g *Gray) Equal(o *Gray) bool {
	if g.Width != o.Width || g.Height != o.Height || len(g.Pix) != len(o.Pix) {
		return false
	}
	for i := range g.Pix {
		if g.Pix[i] != o.Pix[i] {
			return false
		}
	}
	return true
}

// Float converts g to a float raster with the same samples.
func (g *Gray) Float() *Float {
	f := NewFloat(g.Width, g.Height)
	for i, v := range g.Pix {
		f.Pix[i] = float64(v)
	}
	return f
}

// ToImage returns g as a standard library grayscale image.
func (g *Gray) ToImage() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, g.Width, g.Height))
	copy(img.Pix, g.Pix)
	return img
}

// FromImage converts any decoded image to an 8-bit luma raster. Color
// images are reduced with imaging.Grayscale; *image.Gray is copied as is.
func FromImage(img image.Image) *Gray {
	b := img.Bounds()
	g := NewGray(b.Dx(), b.Dy())

	if src, ok := img.(*image.Gray); ok {
		for y := 0; y < g.Height; y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(g.Pix[y*g.Width:(y+1)*g.Width], src.Pix[off:off+g.Width])
		}
		return g
	}

	luma := imaging.Grayscale(img)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			g.Pix[y*g.Width+x] = luma.Pix[luma.PixOffset(x, y)]
		}
	}
	return g
}

// FromNRGBA reads the red channel of an imaging result back into a raster.
// imaging keeps gray inputs gray, so any channel carries the luma.
func FromNRGBA(img *image.NRGBA) *Gray {
	b := img.Bounds()
	g := NewGray(b.Dx(), b.Dy())
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			g.Pix[y*g.Width+x] = img.Pix[img.PixOffset(b.Min.X+x, b.Min.Y+y)]
		}
	}
	return g
}

// Float is a float64 raster stored row-major.
type Float struct {
	Width  int
	Height int
	Pix    []float64
}

// NewFloat allocates a zeroed float raster.
func NewFloat(width, height int) *Float {
	n := 0
	if width > 0 && height > 0 {
		n = width * height
	}
	return &Float{Width: width, Height: height, Pix: make([]float64, n)}
}

// At returns the sample at column x, row y.
func (f *Float) At(x, y int) float64 {
	return f.Pix[y*f.Width+x]
}

// Set stores v at column x, row y.
func (f *Float) Set(x, y int, v float64) {
	f.Pix[y*f.Width+x] = v
}

// Clone returns a deep copy of f.
func (f *Float) Clone() *Float {
	c := &Float{Width: f.Width, Height: f.Height, Pix: make([]float64, len(f.Pix))}
	copy(c.Pix, f.Pix)
	return c
}

// MinMax returns the smallest and largest sample.
func (f *Float) MinMax() (float64, float64) {
	if len(f.Pix) == 0 {
		return 0, 0
	}
	lo, hi := f.Pix[0], f.Pix[0]
	for _, v := range f.Pix[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// Bytes clamps every sample to [0, 255] and truncates it to uint8.
// NaN samples become 0.
func (f *Float) Bytes() *Gray {
	g := NewGray(f.Width, f.Height)
	for i, v := range f.Pix {
		g.Pix[i] = ClampByte(v)
	}
	return g
}

// SafeDivide returns num/den, or fallback when den is zero or the quotient
// is not finite.
func SafeDivide(num, den, fallback float64) float64 {
	if den == 0 {
		return fallback
	}
	q := num / den
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return fallback
	}
	return q
}

// Clamp constrains v to [lo, hi]. NaN maps to lo.
func Clamp(v, lo, hi float64) float64 {
	if v < lo || math.IsNaN(v) {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampByte clamps v to [0, 255] and truncates toward zero.
func ClampByte(v float64) uint8 {
	return uint8(Clamp(v, 0, 255))
}
