package cli

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/jmylchreest/colourbalance/internal/balance"
	"github.com/jmylchreest/colourbalance/internal/pipeline"
)

// tuningFlags are the analysis parameters shared by analyze and serve.
type tuningFlags struct {
	clusters       int
	mergeDelta     float64
	smallThreshold float64
	tolerance      float64
	targets        []float64
	seed           int64
	inits          int
	algorithm      string

	segments    int
	compactness float64
	maxDim      int
	sigma       float64
}

func (f *tuningFlags) register(fs *pflag.FlagSet) {
	cfg := balance.DefaultConfig()
	opts := pipeline.DefaultOptions()

	fs.IntVarP(&f.clusters, "clusters", "k", cfg.Clusters, "number of k-means clusters")
	fs.Float64Var(&f.mergeDelta, "merge-delta", cfg.MergeDelta, "CIEDE2000 distance below which clusters merge")
	fs.Float64Var(&f.smallThreshold, "small-threshold", cfg.SmallThreshold, "fraction of the image under which a colour counts as small")
	fs.Float64Var(&f.tolerance, "tolerance", cfg.Tolerance, "allowed deviation from each target, in percentage points")
	fs.Float64SliceVar(&f.targets, "targets", cfg.Targets[:], "dominant, secondary and accent target percentages")
	fs.Int64Var(&f.seed, "seed", cfg.Seed, "random seed for clustering")
	fs.IntVar(&f.inits, "inits", cfg.Inits, "number of k-means restarts")
	fs.StringVar(&f.algorithm, "algorithm", string(cfg.Algorithm), fmt.Sprintf("clustering algorithm %v", balance.ValidAlgorithms()))

	fs.IntVar(&f.segments, "segments", opts.Segment.Segments, "approximate number of superpixels")
	fs.Float64Var(&f.compactness, "compactness", opts.Segment.Compactness, "superpixel compactness")
	fs.IntVar(&f.maxDim, "max-dim", opts.Preprocess.MaxDim, "downscale so the longer side is at most this (0 disables)")
	fs.Float64Var(&f.sigma, "sigma", opts.Preprocess.Sigma, "Gaussian blur sigma (0 disables)")
}

// resolve layers explicitly set flags over the environment over the defaults.
func (f *tuningFlags) resolve(fs *pflag.FlagSet) (balance.Config, pipeline.Options, error) {
	cfg, err := balance.NewBuilder().WithEnvConfig().Build()
	if err != nil {
		return cfg, pipeline.Options{}, err
	}
	opts := pipeline.DefaultOptions()

	set := func(name string, apply func()) {
		if fs.Changed(name) {
			apply()
		}
	}
	set("clusters", func() { cfg.Clusters = f.clusters })
	set("merge-delta", func() { cfg.MergeDelta = f.mergeDelta })
	set("small-threshold", func() { cfg.SmallThreshold = f.smallThreshold })
	set("tolerance", func() { cfg.Tolerance = f.tolerance })
	set("seed", func() { cfg.Seed = f.seed })
	set("inits", func() { cfg.Inits = f.inits })
	set("algorithm", func() { cfg.Algorithm = balance.Algorithm(f.algorithm) })
	set("segments", func() { opts.Segment.Segments = f.segments })
	set("compactness", func() { opts.Segment.Compactness = f.compactness })
	set("max-dim", func() { opts.Preprocess.MaxDim = f.maxDim })
	set("sigma", func() { opts.Preprocess.Sigma = f.sigma })

	if fs.Changed("targets") {
		if len(f.targets) != 3 {
			return cfg, opts, fmt.Errorf("%w: --targets needs 3 values, got %d", balance.ErrConfiguration, len(f.targets))
		}
		copy(cfg.Targets[:], f.targets)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, opts, err
	}
	return cfg, opts, opts.Validate()
}
