package illumination

import (
	"github.com/ironsheep/htr-preproc/internal/raster"
)

const (
	// contrastOffset is added to the background level before stretching.
	contrastOffset = 15
	contrastGain   = 2

	edgeThreshold     = 30
	contrastThreshold = 60

	backgroundWindow = 11
	ratioGain        = 260
	backgroundBoost  = 1.5
)

// Report describes a compensation run.
type Report struct {
	// BackgroundLevel is the estimated paper level hr.
	BackgroundLevel int `json:"background_level"`

	// Degenerate counts pixels whose local background estimate was zero.
	Degenerate int `json:"degenerate"`

	// InterpolatedColumns counts columns whose first run was filled.
	InterpolatedColumns int `json:"interpolated_columns"`
}

// Compensate levels the illumination of img. See Analyze.
func Compensate(img *raster.Gray) (*raster.Gray, error) {
	out, _, err := Analyze(img)
	return out, err
}

// Analyze levels the illumination of img and reports the intermediate
// estimates. The result has the dimensions of img.
func Analyze(img *raster.Gray) (*raster.Gray, *Report, error) {
	if err := img.Validate(); err != nil {
		return nil, nil, err
	}

	hr, err := backgroundLevel(img)
	if err != nil {
		return nil, nil, err
	}
	report := &Report{BackgroundLevel: hr}

	src := img.Float()
	cei := contrastEnhance(src, hr)

	egAvg := edgeAverage(src)
	tli := textLikely(egAvg, cei)
	erosion := erode(tli)

	interp, touched := interpolateRuns(cei, erosion)
	report.InterpolatedColumns = touched
	ldi := boxMean(rescale(interp), backgroundWindow)

	out := raster.NewGray(img.Width, img.Height)
	for i, c := range cei.Pix {
		saturated := 0.0
		if c > 0 {
			saturated = 255.0 / ratioGain
		}
		if ldi.Pix[i] == 0 {
			report.Degenerate++
		}
		v := raster.SafeDivide(c, ldi.Pix[i], saturated) * ratioGain
		if erosion.Pix[i] != 0 {
			v *= backgroundBoost
		}
		out.Pix[i] = raster.ClampByte(v)
	}
	return out, report, nil
}

// contrastEnhance computes cei = clamp((v - (hr + 15)) * 2, 0, 255).
func contrastEnhance(src *raster.Float, hr int) *raster.Float {
	cei := raster.NewFloat(src.Width, src.Height)
	offset := float64(hr + contrastOffset)
	for i, v := range src.Pix {
		cei.Pix[i] = raster.Clamp((v-offset)*contrastGain, 0, 255)
	}
	return cei
}

// textLikely marks strong edges and bright contrast pixels with 0 and
// everything else with 255.
func textLikely(egAvg, cei *raster.Float) *raster.Gray {
	tli := raster.NewUniform(cei.Width, cei.Height, 255)
	for i := range tli.Pix {
		if egAvg.Pix[i] >= edgeThreshold || cei.Pix[i] >= contrastThreshold {
			tli.Pix[i] = 0
		}
	}
	return tli
}
