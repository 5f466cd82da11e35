package image

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/jmylchreest/colourbalance/internal/colour"
)

// Options controls preprocessing before segmentation.
type Options struct {
	// MaxDim bounds the longer side. Larger images are downscaled keeping
	// their aspect ratio; smaller ones are left alone. Zero disables it.
	MaxDim int `json:"max_dim"`

	// Sigma is the Gaussian blur radius applied after resizing. Zero
	// disables blurring.
	Sigma float64 `json:"sigma"`
}

// DefaultOptions returns the default preprocessing options.
func DefaultOptions() Options {
	return Options{MaxDim: 1200, Sigma: 1.0}
}

// Validate checks the options.
func (o Options) Validate() error {
	if o.MaxDim < 0 {
		return fmt.Errorf("max dimension must not be negative, got %d", o.MaxDim)
	}
	if o.Sigma < 0 {
		return fmt.Errorf("sigma must not be negative, got %g", o.Sigma)
	}
	return nil
}

// Resize downscales img so neither side exceeds maxDim.
func Resize(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	if maxDim <= 0 || (b.Dx() <= maxDim && b.Dy() <= maxDim) {
		return img
	}
	return imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
}

// Prepare resizes and blurs img, then converts it to a Lab grid.
func Prepare(img image.Image, opts Options) (*colour.LabImage, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}

	img = Resize(img, opts.MaxDim)
	if opts.Sigma > 0 {
		img = imaging.Blur(img, opts.Sigma)
	}
	return colour.LabImageFrom(img), nil
}
