// Package colour provides the colour types shared by the balance pipeline:
// CIE L*a*b* samples and grids, perceptual differences and display rendering.
package colour

import (
	"fmt"
	"image/color"
)

// RGB represents a color in RGB format.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB color as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB color as a hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// RGBA implements color.Color so an RGB can be drawn directly.
func (rgb RGB) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}.RGBA()
}

// ToRGB converts a color.Color to RGB.
func ToRGB(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	// RGBA returns values in the range [0, 65535], convert to [0, 255]
	return RGB{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
	}
}

// ParseHex parses a "#rrggbb" string.
func ParseHex(s string) (RGB, error) {
	var rgb RGB
	if len(s) != 7 || s[0] != '#' {
		return rgb, fmt.Errorf("invalid hex colour: %q", s)
	}
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &rgb.R, &rgb.G, &rgb.B); err != nil {
		return rgb, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}
	return rgb, nil
}
