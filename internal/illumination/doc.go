// Package illumination removes uneven lighting and shadow from scanned text
// lines before binarization.
//
// The compensator estimates the paper level from a coarse intensity
// histogram, stretches contrast around it, classifies pixels with a
// directional gradient mask and a contrast mask, fills short dark runs with a
// background ramp and finally divides the stretched image by an 11x11 local
// background estimate.
//
// # Output
//
// Compensate returns a new 8-bit raster of the input's size. The input is
// never modified.
//
// # Error Handling
//
// ErrEstimateFailed is returned when no histogram bin holds more than
// sqrt(width*height) samples. Divisions by a zero background estimate are
// recovered in place and counted in Report.Degenerate.
//
// # Column Runs
//
// Only the first run of text-likely pixels in each column is considered for
// background interpolation. Later runs in the same column are left as they
// are.
package illumination
