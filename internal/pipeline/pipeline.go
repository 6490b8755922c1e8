package pipeline

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ironsheep/htr-preproc/internal/binarize"
	"github.com/ironsheep/htr-preproc/internal/config"
	"github.com/ironsheep/htr-preproc/internal/deslant"
	"github.com/ironsheep/htr-preproc/internal/illumination"
	"github.com/ironsheep/htr-preproc/internal/normalize"
	"github.com/ironsheep/htr-preproc/internal/raster"
)

// Pipeline processes text lines with a fixed configuration. It is safe for
// concurrent use.
type Pipeline struct {
	cfg    config.Pipeline
	logger zerolog.Logger
	cache  *raster.ImageCache
}

// Output is the result of processing one line.
type Output struct {
	// Sequence is the standardized feature sequence.
	Sequence *normalize.Sequence
	Stats    normalize.Stats

	// Compensated is the illumination-corrected line, or the input when
	// compensation is disabled.
	Compensated *raster.Gray

	// Binarized is the mask the slant search ran on.
	Binarized *raster.Gray

	// Restored is the deslanted grayscale line.
	Restored *raster.Gray

	Method    binarize.Method
	OtsuLevel int

	Slant      deslant.Candidate
	Candidates []deslant.Candidate

	BackgroundLevel int
	Degenerate      int
}

// New validates cfg and returns a pipeline.
func New(cfg config.Pipeline, logger zerolog.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{
		cfg:    cfg,
		logger: logger.With().Str("component", "pipeline").Logger(),
		cache:  raster.NewImageCache(),
	}, nil
}

// Config returns the pipeline parameters.
func (p *Pipeline) Config() config.Pipeline {
	return p.cfg
}

// Cache returns the decoded image cache used by ProcessFile.
func (p *Pipeline) Cache() *raster.ImageCache {
	return p.cache
}

// BinarizeOptions returns the binarization options of the configuration.
func (p *Pipeline) BinarizeOptions() binarize.Options {
	return binarize.Options{Force: p.cfg.Method(), Sauvola: p.cfg.SauvolaParams()}
}

// Process runs every stage on img. Errors are *StageError values.
func (p *Pipeline) Process(img *raster.Gray) (*Output, error) {
	if err := img.Validate(); err != nil {
		return nil, stageErr(StageValidate, err)
	}
	out := &Output{Compensated: img}

	if p.cfg.Illumination {
		comp, report, err := illumination.Analyze(img)
		if err != nil {
			return nil, stageErr(StageIllumination, err)
		}
		out.Compensated = comp
		out.BackgroundLevel = report.BackgroundLevel
		out.Degenerate = report.Degenerate
		if report.Degenerate > 0 {
			p.logger.Debug().
				Int("pixels", report.Degenerate).
				Msg("recovered zero background estimate")
		}
		p.logger.Debug().
			Str("stage", StageIllumination).
			Int("background", report.BackgroundLevel).
			Int("interpolated_columns", report.InterpolatedColumns).
			Msg("stage done")
	}

	bin, err := binarize.Binarize(out.Compensated, p.BinarizeOptions())
	if err != nil {
		return nil, stageErr(StageBinarize, err)
	}
	out.Binarized = bin.Image
	out.Method = bin.Method
	out.OtsuLevel = bin.OtsuLevel
	p.logger.Debug().
		Str("stage", StageBinarize).
		Stringer("method", bin.Method).
		Int("otsu_level", bin.OtsuLevel).
		Msg("stage done")

	ds, err := deslant.Deslant(out.Compensated, bin.Image)
	if err != nil {
		return nil, stageErr(StageDeslant, err)
	}
	out.Restored = ds.Image
	out.Slant = ds.Best
	out.Candidates = ds.Candidates
	p.logger.Debug().
		Str("stage", StageDeslant).
		Float64("alpha", ds.Best.Alpha).
		Float64("score", ds.Best.Score).
		Msg("stage done")

	seq, stats, err := normalize.Normalize(ds.Image, p.cfg.Normalize())
	if err != nil {
		return nil, stageErr(StageNormalize, err)
	}
	out.Sequence = seq
	out.Stats = *stats
	p.logger.Debug().
		Str("stage", StageNormalize).
		Int("steps", seq.Steps).
		Int("features", seq.Features).
		Msg("stage done")

	return out, nil
}

// ProcessFile decodes path through the cache and processes it.
func (p *Pipeline) ProcessFile(path string) (*Output, error) {
	img, err := p.cache.Load(path)
	if err != nil {
		return nil, stageErr(StageDecode, err)
	}
	return p.Process(img)
}

// Pad combines the sequences of successful results into one batch using
// the configured pad value and step limit. Failed results are skipped.
func (p *Pipeline) Pad(results []ItemResult) (*normalize.Batch, error) {
	seqs := make([]*normalize.Sequence, 0, len(results))
	for _, r := range results {
		if r.Err == nil && r.Output != nil {
			seqs = append(seqs, r.Output.Sequence)
		}
	}
	batch, err := normalize.PadBatch(seqs, p.cfg.PadValue, p.cfg.MaxSteps)
	if err != nil {
		return nil, fmt.Errorf("failed to pad batch: %w", err)
	}
	return batch, nil
}
