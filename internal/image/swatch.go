package image

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/jmylchreest/colourbalance/internal/colour"
)

// Swatch is one colour of a swatch strip with its relative weight.
type Swatch struct {
	Colour colour.Lab
	Weight float64
}

// SwatchStrip draws the swatches left to right as a width×height strip. Each
// swatch's width is proportional to its weight; the last one takes up any
// rounding slack. Swatches with no weight are skipped.
func SwatchStrip(swatches []Swatch, width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid swatch size %dx%d", width, height)
	}
	total := 0.0
	var visible []Swatch
	for _, s := range swatches {
		if s.Weight > 0 {
			total += s.Weight
			visible = append(visible, s)
		}
	}
	if len(visible) == 0 {
		return nil, fmt.Errorf("empty palette")
	}

	strip := imaging.New(width, height, color.Black)
	x, acc := 0, 0.0
	for i, s := range visible {
		acc += s.Weight
		x1 := int(float64(width) * acc / total)
		if i == len(visible)-1 {
			x1 = width
		}
		if x1 <= x {
			continue
		}
		tile := imaging.New(x1-x, height, s.Colour.RGB())
		strip = imaging.Paste(strip, tile, image.Pt(x, 0))
		x = x1
	}
	return strip, nil
}

// SaveSwatch writes a swatch strip to filename. The format follows the file
// extension.
func SaveSwatch(filename string, swatches []Swatch, width, height int) error {
	strip, err := SwatchStrip(swatches, width, height)
	if err != nil {
		return err
	}
	if err := imaging.Save(strip, filename); err != nil {
		return fmt.Errorf("failed to save swatch: %w", err)
	}
	return nil
}
