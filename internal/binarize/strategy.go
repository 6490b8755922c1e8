package binarize

import (
	"fmt"

	"github.com/ironsheep/htr-preproc/internal/raster"
)

// SauvolaCutoff is the Otsu level below which Sauvola is preferred.
const SauvolaCutoff = 127

// Method identifies a binarization algorithm.
type Method int

const (
	// MethodAuto lets Select decide from the Otsu level.
	MethodAuto Method = iota
	MethodOtsu
	MethodSauvola
)

func (m Method) String() string {
	switch m {
	case MethodAuto:
		return "auto"
	case MethodOtsu:
		return "otsu"
	case MethodSauvola:
		return "sauvola"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// ParseMethod parses "auto", "otsu" or "sauvola". The empty string is auto.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "", "auto":
		return MethodAuto, nil
	case "otsu":
		return MethodOtsu, nil
	case "sauvola":
		return MethodSauvola, nil
	}
	return MethodAuto, fmt.Errorf("unknown binarization method %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Method) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Method) UnmarshalText(b []byte) error {
	parsed, err := ParseMethod(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Select picks the binarization method for an Otsu level: Sauvola when the
// level is below SauvolaCutoff, Otsu otherwise.
func Select(otsuLevel int) Method {
	if otsuLevel < SauvolaCutoff {
		return MethodSauvola
	}
	return MethodOtsu
}

// Options configures Binarize.
type Options struct {
	// Force pins the method. MethodAuto defers to Select.
	Force Method

	// Sauvola parameters. Zero values take DefaultParams for the image.
	Sauvola Params
}

// Result is a binarized mask together with the decision that produced it.
type Result struct {
	Image     *raster.Gray
	Method    Method
	OtsuLevel int
}

// Binarize computes the Otsu level of img, chooses a method and returns the
// resulting mask.
func Binarize(img *raster.Gray, opts Options) (*Result, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}

	mask, level := Otsu(img)
	method := opts.Force
	if method == MethodAuto {
		method = Select(level)
	}

	res := &Result{Image: mask, Method: method, OtsuLevel: level}
	if method == MethodSauvola {
		sv, err := Sauvola(img, withDefaults(opts.Sauvola, img.Height))
		if err != nil {
			return nil, err
		}
		res.Image = sv
	}
	return res, nil
}

// withDefaults fills unset Sauvola parameters from DefaultParams.
func withDefaults(p Params, height int) Params {
	d := DefaultParams(height)
	if p.WindowWidth <= 0 {
		p.WindowWidth = d.WindowWidth
	}
	if p.WindowHeight <= 0 {
		p.WindowHeight = d.WindowHeight
	}
	if p.ReferenceContrast == 0 {
		p.ReferenceContrast = d.ReferenceContrast
	}
	if p.K == 0 {
		p.K = d.K
	}
	return p
}
