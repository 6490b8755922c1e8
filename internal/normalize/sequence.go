package normalize

import (
	"fmt"

	"github.com/ironsheep/htr-preproc/internal/raster"
)

// Sequence is a standardized, time-major feature sequence. Step i holds
// Features consecutive values in Data. A recognizer reads it as
// (time, feature, channel): one step per column of the restored line, left
// to right. Feature 0 is the bottom row of the line and feature
// Features-1 the top row.
type Sequence struct {
	Steps    int       `json:"steps"`
	Features int       `json:"features"`
	Data     []float32 `json:"data"`
}

// Shape reports the sequence as (steps, features, 1): the time axis first.
func (s *Sequence) Shape() [3]int {
	return [3]int{s.Steps, s.Features, 1}
}

// Height is the feature axis length.
func (s *Sequence) Height() int { return s.Features }

// Width is the time axis length.
func (s *Sequence) Width() int { return s.Steps }

// Step returns the features of time step i. The slice aliases Data.
func (s *Sequence) Step(i int) []float32 {
	return s.Data[i*s.Features : (i+1)*s.Features]
}

// Validate checks that Data matches the declared shape.
func (s *Sequence) Validate() error {
	if s.Steps < 0 || s.Features <= 0 || len(s.Data) != s.Steps*s.Features {
		return fmt.Errorf("sequence: %d values do not fit %d steps of %d features",
			len(s.Data), s.Steps, s.Features)
	}
	return nil
}

// Stats summarises a normalization run.
type Stats struct {
	// Mean and StdDev are the pixel statistics before standardization.
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// Normalize resizes, rotates and standardizes img into a Sequence.
func Normalize(img *raster.Gray, opts Options) (*Sequence, *Stats, error) {
	resized, err := Resize(img, opts)
	if err != nil {
		return nil, nil, err
	}
	rotated := Rotate270(resized)

	values := make([]float64, len(rotated.Pix))
	for i, v := range rotated.Pix {
		values[i] = float64(v)
	}
	mean, std := Standardize(values)

	data := make([]float32, len(values))
	for i, v := range values {
		data[i] = float32(v)
	}
	seq := &Sequence{Steps: rotated.Height, Features: rotated.Width, Data: data}
	return seq, &Stats{Mean: mean, StdDev: std}, nil
}
