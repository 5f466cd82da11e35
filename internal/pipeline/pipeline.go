// Package pipeline runs an image through preprocessing, segmentation and the
// balance analysis. It is shared by the CLI and the HTTP server.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	stdimage "image"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/colourbalance/internal/balance"
	"github.com/jmylchreest/colourbalance/internal/colour"
	"github.com/jmylchreest/colourbalance/internal/image"
	"github.com/jmylchreest/colourbalance/internal/segment"
)

// Options configures the stages before the analyzer.
type Options struct {
	Preprocess image.Options
	Segment    segment.Options
}

// DefaultOptions returns the default preprocessing and segmentation options.
func DefaultOptions() Options {
	return Options{
		Preprocess: image.DefaultOptions(),
		Segment:    segment.DefaultOptions(),
	}
}

// Validate checks both option sets. Errors wrap balance.ErrConfiguration.
func (o Options) Validate() error {
	if err := o.Preprocess.Validate(); err != nil {
		return fmt.Errorf("%w: %w", balance.ErrConfiguration, err)
	}
	if err := o.Segment.Validate(); err != nil {
		return fmt.Errorf("%w: %w", balance.ErrConfiguration, err)
	}
	return nil
}

// Report is the outcome of running one image through the pipeline.
type Report struct {
	Source   string `json:"source,omitempty"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Segments int    `json:"segments"`

	*balance.Result
}

// Runner runs images through the pipeline with a fixed analyzer.
type Runner struct {
	analyzer *balance.Analyzer
	options  Options
	logger   hclog.Logger
}

// NewRunner validates opts and creates a Runner. A nil logger discards output.
func NewRunner(analyzer *balance.Analyzer, opts Options, logger hclog.Logger) (*Runner, error) {
	if analyzer == nil {
		return nil, fmt.Errorf("%w: analyzer is required", balance.ErrConfiguration)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Runner{analyzer: analyzer, options: opts, logger: logger}, nil
}

// Prepare resizes, blurs and segments img. Cancellation of ctx is observed
// after preprocessing and between SLIC iterations.
func (r *Runner) Prepare(ctx context.Context, img stdimage.Image) (*colour.LabImage, *segment.Labels, error) {
	start := time.Now()
	lab, err := image.Prepare(img, r.options.Preprocess)
	if err != nil {
		if errors.Is(err, image.ErrEmptyImage) {
			return nil, nil, fmt.Errorf("%w: %w", balance.ErrEmptyInput, err)
		}
		return nil, nil, fmt.Errorf("%w: %w", balance.ErrConfiguration, err)
	}
	r.logger.Debug("preprocessed image", "width", lab.W, "height", lab.H, "duration", time.Since(start))
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	start = time.Now()
	labels, err := segment.SLIC(ctx, lab, r.options.Segment)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, nil, ctxErr
		}
		return nil, nil, fmt.Errorf("%w: failed to segment image: %w", balance.ErrConfiguration, err)
	}
	r.logger.Debug("segmented image", "segments", labels.Count, "duration", time.Since(start))

	return lab, labels, nil
}

// Run analyses img. source is recorded in the report as given.
func (r *Runner) Run(ctx context.Context, img stdimage.Image, source string) (*Report, error) {
	lab, labels, err := r.Prepare(ctx, img)
	if err != nil {
		return nil, err
	}

	res, err := r.analyzer.Analyze(ctx, lab, labels)
	if err != nil {
		return nil, err
	}
	return &Report{
		Source:   source,
		Width:    lab.W,
		Height:   lab.H,
		Segments: labels.Count,
		Result:   res,
	}, nil
}

// Swatches returns the filtered groups of a result as swatches weighted by
// their share of the image.
func Swatches(res *balance.Result) []image.Swatch {
	out := make([]image.Swatch, 0, len(res.Filtered))
	for _, g := range res.Filtered {
		out = append(out, image.Swatch{Colour: g.Centroid, Weight: g.Percent})
	}
	return out
}
