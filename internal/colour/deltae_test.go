package colour

import (
	"math"
	"testing"
)

func TestDeltaE2000ReferencePairs(t *testing.T) {
	// Pairs from Sharma, Wu & Dalal, "The CIEDE2000 Color-Difference Formula".
	tests := []struct {
		x, y Lab
		want float64
	}{
		{Lab{50, 2.6772, -79.7751}, Lab{50, 0, -82.7485}, 2.0425},
		{Lab{50, 3.1571, -77.2803}, Lab{50, 0, -82.7485}, 2.8615},
		{Lab{50, 0, 0}, Lab{50, -1, 2}, 2.3669},
	}

	for _, tt := range tests {
		got := DeltaE2000(tt.x, tt.y)
		if math.Abs(got-tt.want) > 1e-3 {
			t.Errorf("DeltaE2000(%v, %v) = %.4f, want %.4f", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestDeltaE2000Symmetric(t *testing.T) {
	colours := []Lab{
		{50, 0, 0},
		{53, 0, 0},
		{20, 40, -30},
		{90, -20, 60},
		{60, 80, 70},
	}
	for _, a := range colours {
		if d := DeltaE2000(a, a); d != 0 {
			t.Errorf("DeltaE2000(%v, %v) = %g, want 0", a, a, d)
		}
		for _, b := range colours {
			ab, ba := DeltaE2000(a, b), DeltaE2000(b, a)
			if math.Abs(ab-ba) > 1e-12 {
				t.Errorf("DeltaE2000 not symmetric for %v, %v: %g vs %g", a, b, ab, ba)
			}
			if ab < 0 {
				t.Errorf("DeltaE2000(%v, %v) negative: %g", a, b, ab)
			}
		}
	}
}

func TestDeltaE2000LightnessStep(t *testing.T) {
	d := DeltaE2000(Lab{50, 0, 0}, Lab{53, 0, 0})
	if d < 2.5 || d > 3.0 {
		t.Errorf("DeltaE2000 of a 3-unit lightness step = %f, want ~2.98", d)
	}
}
