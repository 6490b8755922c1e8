package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"

	"github.com/ironsheep/htr-preproc/internal/config"
	"github.com/ironsheep/htr-preproc/internal/logging"
	"github.com/ironsheep/htr-preproc/internal/pipeline"
)

const usage = `Usage: lineprep [-config file] [-o dir] [-w workers] [-v] img...

Restores handwritten text line images and writes, for each input,
<name>_restored.png and <name>_features.json into the output directory.
Failed images are logged and counted; the exit status is 1 if any failed.
`

// features is the on-disk form of a feature sequence.
type features struct {
	Shape     [3]int    `json:"shape"`
	Method    string    `json:"method"`
	OtsuLevel int       `json:"otsu_level"`
	Alpha     float64   `json:"alpha"`
	Mean      float64   `json:"mean"`
	StdDev    float64   `json:"std_dev"`
	Data      []float32 `json:"data"`
}

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	outDir := flag.String("o", ".", "output directory")
	workers := flag.Int("w", 0, "number of parallel workers (0 uses the configuration)")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *workers > 0 {
		cfg.Pipeline.Workers = *workers
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}

	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Human)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	p, err := pipeline.New(cfg.Pipeline, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		logger.Fatal().Err(err).Str("dir", *outDir).Msg("failed to create output directory")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	items := make([]pipeline.Item, flag.NArg())
	for i, path := range flag.Args() {
		items[i] = pipeline.Item{Name: lineName(path), Path: path}
	}

	results := p.ProcessBatch(ctx, items)
	failed := 0
	for _, r := range results {
		if r.Err == nil {
			r.Err = save(*outDir, r.Name, r.Output)
		}
		if r.Err != nil {
			failed++
			logger.Error().Err(r.Err).Str("line", r.Name).Msg("failed")
			continue
		}
		logger.Info().
			Str("line", r.Name).
			Stringer("method", r.Output.Method).
			Float64("alpha", r.Output.Slant.Alpha).
			Int("steps", r.Output.Sequence.Steps).
			Msg("processed")
	}

	summary := logger.Info()
	if failed > 0 {
		summary = logger.WithLevel(zerolog.ErrorLevel)
	}
	summary.Int("total", len(results)).Int("failed", failed).Msg("done")
	if failed > 0 {
		os.Exit(1)
	}
}

// lineName is the file name of path without its extension.
func lineName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// save writes the restored image and the feature sequence of one line.
func save(dir, name string, out *pipeline.Output) error {
	if err := imaging.Save(out.Restored.ToImage(), filepath.Join(dir, name+"_restored.png")); err != nil {
		return fmt.Errorf("failed to save restored image: %w", err)
	}

	b, err := json.Marshal(newFeatures(out))
	if err != nil {
		return fmt.Errorf("failed to encode features: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+"_features.json"), b, 0o644); err != nil {
		return fmt.Errorf("failed to save features: %w", err)
	}
	return nil
}

func newFeatures(out *pipeline.Output) features {
	seq := out.Sequence
	return features{
		Shape:     seq.Shape(),
		Method:    out.Method.String(),
		OtsuLevel: out.OtsuLevel,
		Alpha:     out.Slant.Alpha,
		Mean:      out.Stats.Mean,
		StdDev:    out.Stats.StdDev,
		Data:      seq.Data,
	}
}
