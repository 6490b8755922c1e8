//go:build gocv

package raster

import "testing"

func TestMat_GrayRoundTrip(t *testing.T) {
	g := NewGray(5, 3)
	for i := range g.Pix {
		g.Pix[i] = uint8(i * 17)
	}

	m, err := ToMat(g)
	if err != nil {
		t.Fatalf("ToMat failed: %v", err)
	}
	defer m.Close()
	if m.Rows() != 3 || m.Cols() != 5 {
		t.Fatalf("Mat size = %dx%d, want 5x3", m.Cols(), m.Rows())
	}

	back, err := FromMat(m)
	if err != nil {
		t.Fatalf("FromMat failed: %v", err)
	}
	if !back.Equal(g) {
		t.Errorf("round trip changed pixels: %v, want %v", back.Pix, g.Pix)
	}
}

func TestMat_FloatRoundTrip(t *testing.T) {
	f := NewFloat(4, 2)
	for i := range f.Pix {
		f.Pix[i] = float64(i) - 2.5
	}

	m, err := FloatToMat(f)
	if err != nil {
		t.Fatalf("FloatToMat failed: %v", err)
	}
	defer m.Close()

	back, err := MatToFloat(m)
	if err != nil {
		t.Fatalf("MatToFloat failed: %v", err)
	}
	for i, v := range back.Pix {
		if v != f.Pix[i] {
			t.Errorf("Pix[%d] = %v, want %v", i, v, f.Pix[i])
		}
	}
}

func TestFromMat_RejectsFloatMat(t *testing.T) {
	m, err := FloatToMat(NewFloat(2, 2))
	if err != nil {
		t.Fatalf("FloatToMat failed: %v", err)
	}
	defer m.Close()
	if _, err := FromMat(m); err == nil {
		t.Error("FromMat accepted a CV_64F Mat")
	}
}
