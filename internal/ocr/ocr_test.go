package ocr

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/htr-preproc/internal/raster"
)

// createTextLine renders text with basicfont, scaled up for recognition.
func createTextLine(text string, scale int) *raster.Gray {
	w := len(text)*7 + 40
	h := 40

	small := image.NewGray(image.Rect(0, 0, w, h))
	draw.Draw(small, small.Bounds(), image.White, image.Point{}, draw.Src)
	d := &font.Drawer{
		Dst:  small,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(20), Y: fixed.I(25)},
	}
	d.DrawString(text)

	out := raster.NewGray(w*scale, h*scale)
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			out.Set(x, y, small.GrayAt(x/scale, y/scale).Y)
		}
	}
	return out
}

// skipIfUnavailable skips tests on builds or hosts without Tesseract.
func skipIfUnavailable(t *testing.T, err error) {
	t.Helper()
	msg := strings.ToLower(err.Error())
	if errors.Is(err, ErrUnavailable) ||
		strings.Contains(msg, "tesseract") ||
		strings.Contains(msg, "tessbaseapi") ||
		strings.Contains(msg, "library") {
		t.Skip("Tesseract not available")
	}
}

func TestLanguage(t *testing.T) {
	if got := language(""); got != DefaultLanguage {
		t.Errorf("language(\"\") = %q, want %q", got, DefaultLanguage)
	}
	if got := language("deu"); got != "deu" {
		t.Errorf("language(\"deu\") = %q", got)
	}
}

func TestResultOffset(t *testing.T) {
	res := &Result{Words: []Word{
		{Text: "a", Bounds: Bounds{X1: 1, Y1: 2, X2: 3, Y2: 4}},
		{Text: "b", Bounds: Bounds{X1: 10, Y1: 0, X2: 12, Y2: 5}},
	}}

	res.offset(100, 50)
	want := []Bounds{
		{X1: 101, Y1: 52, X2: 103, Y2: 54},
		{X1: 110, Y1: 50, X2: 112, Y2: 55},
	}
	for i, w := range want {
		if res.Words[i].Bounds != w {
			t.Errorf("word %d bounds = %+v, want %+v", i, res.Words[i].Bounds, w)
		}
	}
}

func TestEncodePNG(t *testing.T) {
	data, err := encodePNG(raster.NewUniform(4, 3, 128))
	if err != nil {
		t.Fatalf("encodePNG failed: %v", err)
	}
	if !strings.HasPrefix(string(data), "\x89PNG") {
		t.Error("output is not a PNG")
	}
}

func TestRecognize_InvalidImage(t *testing.T) {
	_, err := Recognize(&raster.Gray{}, "eng")
	if !errors.Is(err, raster.ErrInvalidImage) {
		t.Errorf("expected ErrInvalidImage, got %v", err)
	}
}

func TestRecognizeRegion_InvalidRegion(t *testing.T) {
	_, err := RecognizeRegion(raster.NewUniform(20, 10, 255), 10, 0, 5, 10, "eng")
	if err == nil {
		t.Error("expected error for inverted region")
	}
}

func TestRecognize_RenderedText(t *testing.T) {
	img := createTextLine("HELLO", 4)

	result, err := Recognize(img, "eng")
	if err != nil {
		skipIfUnavailable(t, err)
		t.Fatalf("Recognize failed: %v", err)
	}
	t.Logf("Recognized %q with %d words", strings.TrimSpace(result.FullText), len(result.Words))

	for _, w := range result.Words {
		if w.Confidence < 0 || w.Confidence > 1 {
			t.Errorf("word %q confidence %v out of range", w.Text, w.Confidence)
		}
	}
}

func TestRecognizeRegion_Offsets(t *testing.T) {
	img := createTextLine("ABC", 4)

	result, err := RecognizeRegion(img, 40, 40, img.Width, img.Height, "eng")
	if err != nil {
		skipIfUnavailable(t, err)
		t.Fatalf("RecognizeRegion failed: %v", err)
	}
	for _, w := range result.Words {
		if w.Bounds.X1 < 40 || w.Bounds.Y1 < 40 {
			t.Errorf("word %q bounds %+v not offset into line coordinates", w.Text, w.Bounds)
		}
	}
}

func TestGetInfo(t *testing.T) {
	info := GetInfo()
	if info.Backend == "" {
		t.Error("Backend is empty")
	}
	if !info.Available && info.Error == "" {
		t.Error("unavailable backend should report an error")
	}
}
