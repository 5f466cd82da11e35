package balance

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/samber/lo"

	"github.com/jmylchreest/colourbalance/internal/colour"
	"github.com/jmylchreest/colourbalance/internal/segment"
)

// Analyzer runs the aggregation, clustering, merge and evaluation stages.
// It holds only configuration and is safe for concurrent use.
type Analyzer struct {
	config    Config
	clusterer Clusterer
	logger    hclog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger used for stage diagnostics.
func WithLogger(logger hclog.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithClusterer overrides the clusterer selected by Config.Algorithm.
func WithClusterer(c Clusterer) Option {
	return func(a *Analyzer) {
		a.clusterer = c
	}
}

// New validates cfg and creates an Analyzer.
func New(cfg Config, opts ...Option) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &Analyzer{
		config: cfg,
		logger: hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.clusterer == nil {
		c, err := NewClusterer(cfg)
		if err != nil {
			return nil, err
		}
		a.clusterer = c
	}
	return a, nil
}

// Config returns the configuration the analyzer was built with.
func (a *Analyzer) Config() Config {
	return a.config
}

// Analyze reduces img to regions using labels and scores the result.
// A nil labels grid treats every pixel as its own region.
func (a *Analyzer) Analyze(ctx context.Context, img *colour.LabImage, labels *segment.Labels) (*Result, error) {
	start := time.Now()
	regions, err := Aggregate(img, labels)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate regions: %w", err)
	}
	a.logger.Debug("aggregated regions", "regions", len(regions), "duration", time.Since(start))

	return a.AnalyzeRegions(ctx, regions)
}

// AnalyzeRegions scores precomputed regions. Regions with zero area are
// ignored; a negative area is a configuration error.
func (a *Analyzer) AnalyzeRegions(ctx context.Context, regions []Region) (*Result, error) {
	for _, r := range regions {
		if r.Area < 0 {
			return nil, fmt.Errorf("%w: region %d has negative area %d", ErrConfiguration, r.ID, r.Area)
		}
	}
	regions = lo.Filter(regions, func(r Region, _ int) bool { return r.Area > 0 })
	if len(regions) == 0 {
		return nil, fmt.Errorf("%w: no regions with positive area", ErrClustering)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	total := lo.SumBy(regions, func(r Region) int { return r.Area })
	k := min(a.config.Clusters, len(regions))

	start := time.Now()
	raw, err := a.clusterer.Cluster(ctx, regions, k)
	if err != nil {
		return nil, fmt.Errorf("failed to cluster regions: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: clusterer returned no clusters", ErrClustering)
	}
	a.logger.Debug("clustered regions", "k", k, "clusters", len(raw), "duration", time.Since(start))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	merged := Merge(raw, total, a.config.MergeDelta)
	a.logger.Debug("merged clusters", "delta", a.config.MergeDelta, "groups", len(merged))

	filtered, small := Partition(merged, a.config.SmallThreshold)
	eval := Evaluate(merged, total, a.config.Evaluator())

	a.logger.Info("analysis complete",
		"regions", len(regions),
		"groups", len(merged),
		"balanced", eval.Balanced)

	return &Result{
		Regions:      len(regions),
		EffectiveK:   k,
		Seed:         a.config.Seed,
		RawClusters:  raw,
		MergedGroups: merged,
		Filtered:     filtered,
		Small:        small,
		TotalArea:    total,
		Evaluation:   eval,
	}, nil
}
