// Package normalize turns a restored text line into the standardized,
// time-major feature sequence a recognition model consumes, and pads groups
// of sequences into rectangular batches.
//
// Normalization runs in four steps:
//
//  1. an aspect-preserving resize that fits the line into FeatureHeight x
//     MaxWidth,
//  2. a stretch to exactly FeatureHeight rows and the target width,
//  3. a 270 degree counter-clockwise rotation so image columns become
//     time steps,
//  4. per-image standardization to zero mean and unit variance.
//
// Padding is always appended after the real content and sequences longer
// than the configured maximum are truncated at the end.
package normalize
