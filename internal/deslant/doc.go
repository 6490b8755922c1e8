// Package deslant removes the cursive slant of a text line by searching a
// fixed set of horizontal shears.
//
// Each candidate shear is applied to the binarized line with
// nearest-neighbour sampling and scored by its columns: a column whose
// foreground pixels form one unbroken vertical run contributes the square
// of the run length, any other column contributes nothing. The shear with
// the highest score wins, the first candidate winning ties, and is applied
// to the original grayscale line with bilinear sampling and a white fill.
//
// Foreground is every nonzero mask sample.
package deslant
