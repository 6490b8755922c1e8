package normalize

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Standardize rescales values in place to zero mean and unit variance and
// returns the population mean and standard deviation it used. The divisor
// never drops below 1/sqrt(len(values)), so a constant input maps to zeros.
func Standardize(values []float64) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean, std = stat.PopMeanStdDev(values, nil)
	div := math.Max(std, 1/math.Sqrt(float64(len(values))))
	for i, v := range values {
		values[i] = (v - mean) / div
	}
	return mean, std
}
