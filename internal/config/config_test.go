package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/ironsheep/htr-preproc/internal/binarize"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if !cfg.Pipeline.Illumination {
		t.Error("illumination should be enabled by default")
	}
	if cfg.Pipeline.Method() != binarize.MethodAuto {
		t.Errorf("Method() = %v, want auto", cfg.Pipeline.Method())
	}
	if cfg.Pipeline.FeatureHeight != 64 || cfg.Pipeline.MaxWidth != 3500 {
		t.Errorf("geometry = %dx%d", cfg.Pipeline.FeatureHeight, cfg.Pipeline.MaxWidth)
	}
	if cfg.Pipeline.Workers != runtime.NumCPU() {
		t.Errorf("Workers = %d, want %d", cfg.Pipeline.Workers, runtime.NumCPU())
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoad_KeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
pipeline:
  binarization: sauvola
  sauvola:
    k: 0.2
  target_width: 800
log:
  human: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Pipeline.Method() != binarize.MethodSauvola {
		t.Errorf("Method() = %v, want sauvola", cfg.Pipeline.Method())
	}
	if cfg.Pipeline.Sauvola.K != 0.2 {
		t.Errorf("K = %v, want 0.2", cfg.Pipeline.Sauvola.K)
	}
	if cfg.Pipeline.TargetWidth != 800 {
		t.Errorf("TargetWidth = %d, want 800", cfg.Pipeline.TargetWidth)
	}
	if !cfg.Pipeline.Illumination || cfg.Pipeline.FeatureHeight != 64 {
		t.Error("missing keys did not keep defaults")
	}
	if !cfg.Log.Human || cfg.Log.Level != "info" {
		t.Errorf("Log = %+v", cfg.Log)
	}

	p := cfg.Pipeline.SauvolaParams()
	if p.K != 0.2 || p.WindowWidth != 0 {
		t.Errorf("SauvolaParams() = %+v", p)
	}
	if n := cfg.Pipeline.Normalize(); n.TargetWidth != 800 || n.FeatureHeight != 64 {
		t.Errorf("Normalize() = %+v", n)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := Load(writeConfig(t, "pipeline: [unclosed")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvWorkers, "3")

	cfg := Default()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Pipeline.Workers != 3 {
		t.Errorf("Workers = %d, want 3", cfg.Pipeline.Workers)
	}
}

func TestApplyEnv_BadWorkers(t *testing.T) {
	t.Setenv(EnvWorkers, "many")

	err := Default().ApplyEnv()
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Pipeline)
	}{
		{"unknown method", func(p *Pipeline) { p.Binarization = "niblack" }},
		{"zero feature height", func(p *Pipeline) { p.FeatureHeight = 0 }},
		{"zero max width", func(p *Pipeline) { p.MaxWidth = 0 }},
		{"negative target width", func(p *Pipeline) { p.TargetWidth = -5 }},
		{"negative max steps", func(p *Pipeline) { p.MaxSteps = -1 }},
		{"no workers", func(p *Pipeline) { p.Workers = 0 }},
		{"negative window", func(p *Pipeline) { p.Sauvola.WindowWidth = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg.Pipeline)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}
