// Package pipeline chains the restoration stages for single lines and for
// batches of independent lines.
//
// Every line runs illumination compensation, binarization, deslanting and
// normalization strictly in that order. Lines share no state, so batches
// are spread over a bounded worker pool. A failing line is reported in its
// own result and never stops the rest of the batch.
package pipeline
