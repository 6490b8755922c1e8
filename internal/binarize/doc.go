// Package binarize turns grayscale text lines into 0/255 masks.
//
// Two methods are provided:
//   - Otsu: a global threshold that maximizes between-class variance
//   - Sauvola: a locally adaptive threshold from windowed mean and deviation,
//     computed in O(1) per pixel with integral images
//
// Binarize chooses between them with Select, which prefers Sauvola whenever
// the Otsu level falls below SauvolaCutoff. The choice is returned as a
// tagged Method so callers can log or override it.
//
// Masks use 255 for samples at or above the threshold and 0 below it. The
// deslant scorer treats the nonzero samples as foreground.
//
// The Otsu level is computed natively by default. Building with the gocv tag
// computes it with OpenCV instead; both yield the same level.
package binarize
