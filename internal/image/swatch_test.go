package image

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jmylchreest/colourbalance/internal/colour"
)

func TestSwatchStrip(t *testing.T) {
	red := colour.FromRGB(colour.RGB{R: 255})
	blue := colour.FromRGB(colour.RGB{B: 255})
	swatches := []Swatch{
		{Colour: red, Weight: 75},
		{Colour: colour.Neutral, Weight: 0},
		{Colour: blue, Weight: 25},
	}

	strip, err := SwatchStrip(swatches, 100, 10)
	if err != nil {
		t.Fatalf("SwatchStrip() error = %v", err)
	}
	if b := strip.Bounds(); b.Dx() != 100 || b.Dy() != 10 {
		t.Fatalf("SwatchStrip() bounds = %v, want 100x10", b)
	}

	tests := []struct {
		x    int
		want colour.RGB
	}{
		{0, colour.RGB{R: 255}},
		{74, colour.RGB{R: 255}},
		{75, colour.RGB{B: 255}},
		{99, colour.RGB{B: 255}},
	}
	for _, tt := range tests {
		if got := colour.ToRGB(strip.At(tt.x, 5)); got != tt.want {
			t.Errorf("pixel %d = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestSwatchStripErrors(t *testing.T) {
	if _, err := SwatchStrip(nil, 10, 10); err == nil {
		t.Error("SwatchStrip(nil) error = nil, want error")
	}
	if _, err := SwatchStrip([]Swatch{{Weight: 1}}, 0, 10); err == nil {
		t.Error("SwatchStrip() with zero width error = nil, want error")
	}
}

func TestSaveSwatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swatch.png")
	if err := SaveSwatch(path, []Swatch{{Colour: colour.Neutral, Weight: 1}}, 8, 4); err != nil {
		t.Fatalf("SaveSwatch() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("swatch not written: %v", err)
	}
}
