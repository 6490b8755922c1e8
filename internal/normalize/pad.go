package normalize

import "fmt"

// PadSequences copies seqs into a rectangular batch. Every row has the
// length of the longest input, capped at maxLen when maxLen > 0. Short rows
// are padded with value after their content and long rows are truncated at
// the end.
func PadSequences(seqs [][]float32, value float32, maxLen int) [][]float32 {
	width := 0
	for _, s := range seqs {
		width = max(width, len(s))
	}
	if maxLen > 0 {
		width = min(width, maxLen)
	}

	out := make([][]float32, len(seqs))
	for i, s := range seqs {
		row := make([]float32, width)
		n := copy(row, s)
		for j := n; j < width; j++ {
			row[j] = value
		}
		out[i] = row
	}
	return out
}

// Batch is a group of sequences padded to a common number of steps.
type Batch struct {
	Steps    int `json:"steps"`
	Features int `json:"features"`

	// Lengths holds the number of real steps of each sequence.
	Lengths []int `json:"lengths"`

	// Data holds len(Lengths) sequences of Steps x Features values each.
	Data []float32 `json:"data"`
}

// Sequence returns the padded steps of batch member i. The slice aliases
// Data.
func (b *Batch) Sequence(i int) []float32 {
	n := b.Steps * b.Features
	return b.Data[i*n : (i+1)*n]
}

// PadBatch pads whole time steps of seqs with value so every sequence has
// the step count of the longest one, capped at maxSteps when maxSteps > 0.
// All sequences must share one feature count.
func PadBatch(seqs []*Sequence, value float32, maxSteps int) (*Batch, error) {
	if len(seqs) == 0 {
		return &Batch{}, nil
	}

	features := seqs[0].Features
	rows := make([][]float32, len(seqs))
	lengths := make([]int, len(seqs))
	for i, s := range seqs {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("batch member %d: %w", i, err)
		}
		if s.Features != features {
			return nil, fmt.Errorf("batch member %d: %d features, want %d", i, s.Features, features)
		}
		rows[i] = s.Data
		lengths[i] = s.Steps
	}

	limit := 0
	if maxSteps > 0 {
		limit = maxSteps * features
	}
	padded := PadSequences(rows, value, limit)

	steps := 0
	if len(padded) > 0 {
		steps = len(padded[0]) / features
	}
	data := make([]float32, 0, len(padded)*steps*features)
	for i, row := range padded {
		data = append(data, row...)
		lengths[i] = min(lengths[i], steps)
	}
	return &Batch{Steps: steps, Features: features, Lengths: lengths, Data: data}, nil
}
