package pipeline

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/htr-preproc/internal/binarize"
	"github.com/ironsheep/htr-preproc/internal/config"
	"github.com/ironsheep/htr-preproc/internal/deslant"
	"github.com/ironsheep/htr-preproc/internal/illumination"
	"github.com/ironsheep/htr-preproc/internal/raster"
)

func newPipeline(t *testing.T, mutate func(*config.Pipeline)) *Pipeline {
	t.Helper()
	cfg := config.DefaultPipeline()
	cfg.Workers = 2
	if mutate != nil {
		mutate(&cfg)
	}
	p, err := New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return p
}

// shearedBar draws a black bar on white paper, leaning right by deg
// degrees from the vertical.
func shearedBar(width, height int, x0, barWidth, deg float64) *raster.Gray {
	g := raster.NewUniform(width, height, 255)
	tg := math.Tan(deg * math.Pi / 180)
	for y := 0; y < height; y++ {
		left := x0 + tg*float64(y)
		for x := 0; x < width; x++ {
			if fx := float64(x); fx >= left && fx < left+barWidth {
				g.Set(x, y, 0)
			}
		}
	}
	return g
}

// textLine renders s in black on white paper.
func textLine(width, height int, s string) *raster.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(8, height/2+5),
	}
	d.DrawString(s)
	return raster.FromImage(img)
}

// estimateFailure spreads 729 samples evenly over the 27 populated coarse
// histogram bins, so no bin exceeds sqrt(729).
func estimateFailure() *raster.Gray {
	g := raster.NewGray(27, 27)
	for y := 0; y < 27; y++ {
		v := uint8(min(y*10, 255))
		if y == 26 {
			v = 255
		}
		for x := 0; x < 27; x++ {
			g.Set(x, y, v)
		}
	}
	return g
}

func meanStd(values []float32) (float64, float64) {
	var sum float64
	for _, v := range values {
		sum += float64(v)
	}
	mean := sum / float64(len(values))
	var sq float64
	for _, v := range values {
		d := float64(v) - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / float64(len(values)))
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := config.DefaultPipeline()
	cfg.Workers = 0
	if _, err := New(cfg, zerolog.Nop()); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestProcess_ShearedBar(t *testing.T) {
	p := newPipeline(t, nil)
	img := shearedBar(400, 100, 150, 12, 20)

	out, err := p.Process(img)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if out.Method != binarize.MethodSauvola {
		t.Errorf("Method = %v, want sauvola", out.Method)
	}
	if out.OtsuLevel != 0 {
		t.Errorf("OtsuLevel = %d, want 0", out.OtsuLevel)
	}
	if out.BackgroundLevel != 0 {
		t.Errorf("BackgroundLevel = %d, want 0", out.BackgroundLevel)
	}

	// The bar leans right, so the correcting shear leans left.
	if out.Slant.Alpha >= 0 {
		t.Errorf("Slant.Alpha = %v, want negative", out.Slant.Alpha)
	}
	var zero float64
	for _, c := range out.Candidates {
		if c.Alpha == 0 {
			zero = c.Score
		}
	}
	if out.Slant.Score <= zero {
		t.Errorf("winning score %v does not beat unsheared score %v", out.Slant.Score, zero)
	}

	// The restored line itself is more vertical than the input.
	inMask, _ := binarize.Otsu(img)
	outMask, _ := binarize.Otsu(out.Restored)
	if in, restored := deslant.Score(inMask), deslant.Score(outMask); restored <= in {
		t.Errorf("restored column score %v does not beat input score %v", restored, in)
	}

	seq := out.Sequence
	if seq.Features != 64 {
		t.Errorf("Features = %d, want 64", seq.Features)
	}
	if seq.Steps == 0 || seq.Steps > 3500 {
		t.Errorf("Steps = %d, want 1..3500", seq.Steps)
	}
	if out.Restored.Width != out.Slant.Width || out.Restored.Height != 100 {
		t.Errorf("restored size = %dx%d", out.Restored.Width, out.Restored.Height)
	}

	mean, std := meanStd(seq.Data)
	if math.Abs(mean) > 1e-4 || math.Abs(std-1) > 1e-4 {
		t.Errorf("output mean %v std %v, want 0 and 1", mean, std)
	}
}

func TestProcess_Deterministic(t *testing.T) {
	p := newPipeline(t, nil)
	img := textLine(240, 40, "Hello, world")

	first, err := p.Process(img)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	for run := 0; run < 3; run++ {
		again, err := p.Process(img)
		if err != nil {
			t.Fatalf("Process failed: %v", err)
		}
		if len(again.Sequence.Data) != len(first.Sequence.Data) {
			t.Fatalf("run %d: %d values, want %d", run, len(again.Sequence.Data), len(first.Sequence.Data))
		}
		for i, v := range again.Sequence.Data {
			if math.Float32bits(v) != math.Float32bits(first.Sequence.Data[i]) {
				t.Fatalf("run %d: value %d differs: %v vs %v", run, i, v, first.Sequence.Data[i])
			}
		}
	}
}

func TestProcess_TextLine(t *testing.T) {
	p := newPipeline(t, func(c *config.Pipeline) { c.TargetWidth = 512 })

	out, err := p.Process(textLine(240, 40, "restoration"))
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if out.Sequence.Steps != 512 || out.Sequence.Features != 64 {
		t.Errorf("shape = %v, want [512 64 1]", out.Sequence.Shape())
	}
	for i, v := range out.Sequence.Data {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			t.Fatalf("Data[%d] = %v", i, v)
		}
	}
}

func TestProcess_WithoutIllumination(t *testing.T) {
	p := newPipeline(t, func(c *config.Pipeline) { c.Illumination = false })
	img := textLine(160, 32, "abc")

	out, err := p.Process(img)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if !out.Compensated.Equal(img) {
		t.Error("Compensated should be the input when illumination is disabled")
	}
}

func TestProcess_ForcedMethod(t *testing.T) {
	p := newPipeline(t, func(c *config.Pipeline) { c.Binarization = "otsu" })

	out, err := p.Process(shearedBar(200, 50, 50, 8, 10))
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if out.Method != binarize.MethodOtsu {
		t.Errorf("Method = %v, want otsu", out.Method)
	}
}

func TestProcess_StageErrors(t *testing.T) {
	tests := []struct {
		name   string
		img    *raster.Gray
		stage  string
		target error
	}{
		{"empty image", &raster.Gray{}, StageValidate, raster.ErrInvalidImage},
		{"flat histogram", estimateFailure(), StageIllumination, illumination.ErrEstimateFailed},
	}

	p := newPipeline(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Process(tt.img)

			var se *StageError
			if !errors.As(err, &se) {
				t.Fatalf("expected StageError, got %v", err)
			}
			if se.Stage != tt.stage {
				t.Errorf("Stage = %q, want %q", se.Stage, tt.stage)
			}
			if !errors.Is(err, tt.target) {
				t.Errorf("expected %v, got %v", tt.target, err)
			}
		})
	}
}

func TestProcess_CollapsedGeometry(t *testing.T) {
	p := newPipeline(t, nil)
	img := raster.NewUniform(20000, 2, 255)

	_, err := p.Process(img)

	var se *StageError
	if !errors.As(err, &se) || se.Stage != StageNormalize {
		t.Fatalf("expected normalize StageError, got %v", err)
	}
	var ge *raster.GeometryError
	if !errors.As(err, &ge) || ge.Stage != "resize" {
		t.Errorf("expected resize GeometryError, got %v", err)
	}
}

func writePNG(t *testing.T, g *raster.Gray) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "line.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, g.ToImage()); err != nil {
		t.Fatalf("failed to encode PNG: %v", err)
	}
	return path
}

func TestProcessFile(t *testing.T) {
	p := newPipeline(t, nil)
	path := writePNG(t, textLine(160, 32, "file"))

	out, err := p.ProcessFile(path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if out.Sequence.Features != 64 {
		t.Errorf("Features = %d, want 64", out.Sequence.Features)
	}
	if p.Cache().Len() != 1 {
		t.Errorf("cache holds %d images, want 1", p.Cache().Len())
	}

	_, err = p.ProcessFile(filepath.Join(t.TempDir(), "missing.png"))
	var se *StageError
	if !errors.As(err, &se) || se.Stage != StageDecode {
		t.Errorf("expected decode StageError, got %v", err)
	}
}

func TestProcessBatch_PerItemFailures(t *testing.T) {
	p := newPipeline(t, nil)
	items := []Item{
		{Name: "a", Image: textLine(160, 32, "one"), Label: "one"},
		{Name: "b", Label: "none"},
		{Name: "c", Image: estimateFailure()},
		{Name: "d", Image: textLine(200, 32, "four"), Label: "four"},
	}

	results := p.ProcessBatch(context.Background(), items)
	if len(results) != len(items) {
		t.Fatalf("got %d results, want %d", len(results), len(items))
	}
	for i, r := range results {
		if r.Name != items[i].Name || r.Label != items[i].Label {
			t.Errorf("result %d = %s/%s, want %s/%s", i, r.Name, r.Label, items[i].Name, items[i].Label)
		}
	}

	if results[0].Err != nil || results[3].Err != nil {
		t.Errorf("good items failed: %v, %v", results[0].Err, results[3].Err)
	}
	if !errors.Is(results[1].Err, ErrNoImage) {
		t.Errorf("item b: expected ErrNoImage, got %v", results[1].Err)
	}
	if !errors.Is(results[2].Err, illumination.ErrEstimateFailed) {
		t.Errorf("item c: expected ErrEstimateFailed, got %v", results[2].Err)
	}
	if n := Failed(results); n != 2 {
		t.Errorf("Failed() = %d, want 2", n)
	}
}

func TestProcessBatch_MatchesSerial(t *testing.T) {
	p := newPipeline(t, func(c *config.Pipeline) { c.Workers = 4 })
	words := []string{"alpha", "beta", "gamma", "delta", "epsilon", "zeta"}

	items := make([]Item, len(words))
	for i, w := range words {
		items[i] = Item{Name: w, Image: textLine(180, 32, w)}
	}

	results := p.ProcessBatch(context.Background(), items)
	for i, r := range results {
		if r.Err != nil {
			t.Fatalf("%s failed: %v", r.Name, r.Err)
		}
		serial, err := p.Process(items[i].Image)
		if err != nil {
			t.Fatalf("Process failed: %v", err)
		}
		if len(serial.Sequence.Data) != len(r.Output.Sequence.Data) {
			t.Fatalf("%s: length mismatch", r.Name)
		}
		for j, v := range serial.Sequence.Data {
			if v != r.Output.Sequence.Data[j] {
				t.Fatalf("%s: value %d differs", r.Name, j)
			}
		}
	}
}

func TestProcessBatch_Cancelled(t *testing.T) {
	p := newPipeline(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := p.ProcessBatch(ctx, []Item{
		{Name: "a", Image: textLine(160, 32, "x")},
		{Name: "b", Image: textLine(160, 32, "y")},
	})
	for _, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("%s: expected context.Canceled, got %v", r.Name, r.Err)
		}
	}
}

func TestProcessSplits(t *testing.T) {
	p := newPipeline(t, nil)
	splits := map[string][]Item{
		"train": {
			{Name: "t1", Image: textLine(160, 32, "train"), Label: "train"},
			{Name: "t2", Image: textLine(200, 32, "more"), Label: "more"},
		},
		"valid": {
			{Name: "v1", Image: textLine(160, 32, "valid"), Label: "valid"},
		},
	}

	out := p.ProcessSplits(context.Background(), splits)
	if len(out) != 2 {
		t.Fatalf("got %d splits, want 2", len(out))
	}
	for name, items := range splits {
		results := out[name]
		if len(results) != len(items) {
			t.Fatalf("%s: got %d results, want %d", name, len(results), len(items))
		}
		for i, r := range results {
			if r.Err != nil {
				t.Errorf("%s/%s failed: %v", name, r.Name, r.Err)
			}
			if r.Label != items[i].Label {
				t.Errorf("%s/%s label = %q, want %q", name, r.Name, r.Label, items[i].Label)
			}
		}
	}
}

func TestPad(t *testing.T) {
	p := newPipeline(t, func(c *config.Pipeline) { c.PadValue = -1 })
	results := p.ProcessBatch(context.Background(), []Item{
		{Name: "short", Image: textLine(120, 32, "ab")},
		{Name: "bad"},
		{Name: "long", Image: textLine(300, 32, "abcdefgh")},
	})

	batch, err := p.Pad(results)
	if err != nil {
		t.Fatalf("Pad failed: %v", err)
	}
	if len(batch.Lengths) != 2 {
		t.Fatalf("batch has %d members, want 2", len(batch.Lengths))
	}
	short, long := results[0].Output.Sequence, results[2].Output.Sequence
	if batch.Steps != long.Steps || batch.Lengths[0] != short.Steps {
		t.Errorf("Steps = %d, Lengths = %v", batch.Steps, batch.Lengths)
	}

	row := batch.Sequence(0)
	if row[len(row)-1] != -1 {
		t.Errorf("last padded value = %v, want -1", row[len(row)-1])
	}
	for i, v := range short.Data {
		if row[i] != v {
			t.Fatalf("value %d changed by padding", i)
		}
	}
}
