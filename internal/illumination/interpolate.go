package illumination

import "github.com/ironsheep/htr-preproc/internal/raster"

const (
	// maxRunLength is the longest run still treated as a darkened stroke.
	// Longer runs are text and stay untouched.
	maxRunLength = 30

	// rampSamples is the number of cei samples read on each side of a run.
	rampSamples = 5
)

// columnRun is a vertical run of text-likely pixels.
type columnRun struct {
	start  int
	length int
}

func (r columnRun) end() int { return r.start + r.length - 1 }

// firstRun finds the first run of zero mask samples in column x.
func firstRun(mask *raster.Gray, x int) (columnRun, bool) {
	w, h := mask.Width, mask.Height
	for y := 0; y < h; y++ {
		if mask.Pix[y*w+x] != 0 {
			continue
		}
		n := y
		for n < h && mask.Pix[n*w+x] == 0 {
			n++
		}
		return columnRun{start: y, length: n - y}, true
	}
	return columnRun{}, false
}

// interpolateRuns fills the first short run of every column with a linear
// ramp between the brightest cei samples found just before and just after
// it. It returns the filled image and the number of columns it touched.
func interpolateRuns(cei *raster.Float, mask *raster.Gray) (*raster.Float, int) {
	out := cei.Clone()
	w, h := cei.Width, cei.Height
	touched := 0

	for x := 0; x < w; x++ {
		run, ok := firstRun(mask, x)
		if !ok || run.length > maxRunLength {
			continue
		}

		head, tail := 0.0, 0.0
		for k := 0; k < rampSamples; k++ {
			if y := run.start - k; y >= 0 {
				head = max(head, cei.Pix[y*w+x])
			}
			if y := run.end() + k; y < h {
				tail = max(tail, cei.Pix[y*w+x])
			}
		}

		n := float64(run.length)
		for m := 0; m < run.length; m++ {
			out.Pix[(run.start+m)*w+x] = head + float64(m+1)*(tail-head)/n
		}
		touched++
	}
	return out, touched
}
