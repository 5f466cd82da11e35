package colour

import (
	"image/color"
	"testing"
)

func TestToRGB(t *testing.T) {
	tests := []struct {
		name  string
		color color.Color
		want  RGB
	}{
		{
			name:  "red",
			color: color.RGBA{R: 255, G: 0, B: 0, A: 255},
			want:  RGB{R: 255, G: 0, B: 0},
		},
		{
			name:  "gray16",
			color: color.Gray16{Y: 0x8080},
			want:  RGB{R: 128, G: 128, B: 128},
		},
		{
			name:  "black",
			color: color.RGBA{R: 0, G: 0, B: 0, A: 255},
			want:  RGB{R: 0, G: 0, B: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToRGB(tt.color); got != tt.want {
				t.Errorf("ToRGB() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRGBHex(t *testing.T) {
	tests := []struct {
		rgb  RGB
		want string
	}{
		{RGB{R: 255, G: 0, B: 0}, "#ff0000"},
		{RGB{R: 0, G: 0, B: 0}, "#000000"},
		{RGB{R: 26, G: 43, B: 60}, "#1a2b3c"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.rgb.Hex(); got != tt.want {
				t.Errorf("Hex() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseHex(t *testing.T) {
	got, err := ParseHex("#1a2b3c")
	if err != nil {
		t.Fatalf("ParseHex() error = %v", err)
	}
	if want := (RGB{R: 26, G: 43, B: 60}); got != want {
		t.Errorf("ParseHex() = %+v, want %+v", got, want)
	}

	for _, bad := range []string{"", "1a2b3c", "#12345", "#zzzzzz"} {
		if _, err := ParseHex(bad); err == nil {
			t.Errorf("ParseHex(%q) expected error", bad)
		}
	}
}
