package colour

import (
	"fmt"
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Lab is a colour in CIE L*a*b* space with the D65 reference white.
// L is in [0, 100]; A and B are roughly in [-128, 127].
type Lab struct {
	L float64 `json:"l"`
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// Neutral is the placeholder colour used where no real colour exists.
var Neutral = Lab{}

// go-colorful works on L*a*b* scaled down by 100.
const colorfulScale = 100.0

// FromColor converts any color.Color to Lab.
func FromColor(c color.Color) Lab {
	cc, _ := colorful.MakeColor(c)
	return fromColorful(cc)
}

// FromRGB converts an 8-bit sRGB triple to Lab.
func FromRGB(rgb RGB) Lab {
	return fromColorful(colorful.Color{
		R: float64(rgb.R) / 255.0,
		G: float64(rgb.G) / 255.0,
		B: float64(rgb.B) / 255.0,
	})
}

func fromColorful(c colorful.Color) Lab {
	l, a, b := c.Lab()
	return Lab{L: l * colorfulScale, A: a * colorfulScale, B: b * colorfulScale}
}

// Colorful returns the colour as a go-colorful value. The result may be out of
// the sRGB gamut; use Clamped before rendering.
func (c Lab) Colorful() colorful.Color {
	return colorful.Lab(c.L/colorfulScale, c.A/colorfulScale, c.B/colorfulScale)
}

// RGB renders the colour to 8-bit sRGB, clamping out-of-gamut values.
func (c Lab) RGB() RGB {
	r, g, b := c.Colorful().Clamped().RGB255()
	return RGB{R: r, G: g, B: b}
}

// Hex renders the colour as "#rrggbb".
func (c Lab) Hex() string {
	return c.RGB().Hex()
}

// Vec returns the coordinates as a slice in L, a, b order.
func (c Lab) Vec() []float64 {
	return []float64{c.L, c.A, c.B}
}

// LabFromVec builds a Lab from the first three elements of v.
func LabFromVec(v []float64) Lab {
	return Lab{L: v[0], A: v[1], B: v[2]}
}

// String implements fmt.Stringer.
func (c Lab) String() string {
	return fmt.Sprintf("lab(%.2f, %.2f, %.2f)", c.L, c.A, c.B)
}

// LabImage is an H×W grid of Lab pixels stored interleaved, row major.
type LabImage struct {
	W, H int
	Pix  []float64 // len = W*H*3
}

// NewLabImage allocates a w×h grid.
func NewLabImage(w, h int) *LabImage {
	return &LabImage{W: w, H: h, Pix: make([]float64, w*h*3)}
}

// Len returns the number of pixels.
func (m *LabImage) Len() int {
	if m == nil {
		return 0
	}
	return m.W * m.H
}

// At returns the pixel at (x, y).
func (m *LabImage) At(x, y int) Lab {
	return m.AtIndex(y*m.W + x)
}

// AtIndex returns the i-th pixel in row-major order.
func (m *LabImage) AtIndex(i int) Lab {
	off := i * 3
	return Lab{L: m.Pix[off], A: m.Pix[off+1], B: m.Pix[off+2]}
}

// Set stores c at (x, y).
func (m *LabImage) Set(x, y int, c Lab) {
	off := (y*m.W + x) * 3
	m.Pix[off] = c.L
	m.Pix[off+1] = c.A
	m.Pix[off+2] = c.B
}

// LabImageFrom converts an image to a Lab grid. Alpha is ignored.
func LabImageFrom(img image.Image) *LabImage {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := NewLabImage(w, h)
	for y := range h {
		for x := range w {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			out.Set(x, y, fromColorful(colorful.Color{
				R: float64(r) / 65535.0,
				G: float64(g) / 65535.0,
				B: float64(b) / 65535.0,
			}))
		}
	}
	return out
}
