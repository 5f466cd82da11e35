package balance

import (
	"context"
	"fmt"
	"slices"

	"github.com/muesli/clusters"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"

	"github.com/jmylchreest/colourbalance/internal/colour"
)

// Clusterer partitions region colours into at most k clusters.
// Implementations must return clusters in their own label order, with the
// region areas summed per cluster, and must omit clusters with no members.
type Clusterer interface {
	Cluster(ctx context.Context, regions []Region, k int) ([]Cluster, error)
}

// Algorithm names a clustering implementation.
type Algorithm string

const (
	// AlgorithmKMeans is the seeded, multi-start k-means (default).
	AlgorithmKMeans Algorithm = "kmeans"

	// AlgorithmMuesli delegates to github.com/muesli/kmeans. It seeds itself
	// from the clock, so results are not reproducible.
	AlgorithmMuesli Algorithm = "muesli"
)

// ValidAlgorithms returns a list of valid algorithm names.
func ValidAlgorithms() []Algorithm {
	return []Algorithm{AlgorithmKMeans, AlgorithmMuesli}
}

// IsValidAlgorithm checks if the given algorithm name is valid.
func IsValidAlgorithm(alg Algorithm) bool {
	return slices.Contains(ValidAlgorithms(), alg)
}

// NewClusterer creates the Clusterer selected by c.Algorithm.
func NewClusterer(c Config) (Clusterer, error) {
	switch c.Algorithm {
	case AlgorithmKMeans:
		return &KMeans{Seed: c.Seed, Inits: c.Inits, MaxIterations: c.MaxIterations}, nil
	case AlgorithmMuesli:
		return NewMuesli(), nil
	default:
		return nil, fmt.Errorf("%w: unknown algorithm: %s (valid algorithms: %v)", ErrConfiguration, c.Algorithm, ValidAlgorithms())
	}
}

// regionObservation adapts a Region to the muesli/clusters observation
// interface. index points back into the regions slice.
type regionObservation struct {
	index  int
	coords clusters.Coordinates
}

func (o regionObservation) Coordinates() clusters.Coordinates {
	return o.coords
}

// Distance is the Euclidean distance in Lab space.
func (o regionObservation) Distance(point clusters.Coordinates) float64 {
	return floats.Distance(o.coords, point, 2)
}

func observationsOf(regions []Region) clusters.Observations {
	obs := make(clusters.Observations, len(regions))
	for i, r := range regions {
		obs[i] = regionObservation{index: i, coords: r.Mean.Vec()}
	}
	return obs
}

// checkClusterInput applies the shared k and region checks and returns the
// effective k.
func checkClusterInput(regions []Region, k int) (int, error) {
	if len(regions) == 0 {
		return 0, fmt.Errorf("%w: no regions to cluster", ErrClustering)
	}
	if k < 1 {
		return 0, fmt.Errorf("%w: cluster count must be at least 1, got %d", ErrConfiguration, k)
	}
	return min(k, len(regions)), nil
}

// assign rebuilds every cluster's membership from its current center, so
// each observation belongs to exactly one cluster.
func assign(cc clusters.Clusters, obs clusters.Observations) {
	for i := range cc {
		cc[i].Observations = nil
	}
	for _, o := range obs {
		cc[cc.Nearest(o)].Append(o)
	}
}

// summarise converts partitioned observations into Clusters, keeping the
// partition's label order and skipping empty clusters.
func summarise(cc clusters.Clusters, regions []Region) []Cluster {
	total := lo.SumBy(regions, func(r Region) int { return r.Area })
	out := make([]Cluster, 0, len(cc))
	for label, c := range cc {
		area := 0
		for _, o := range c.Observations {
			area += regions[o.(regionObservation).index].Area
		}
		if len(c.Observations) == 0 {
			continue
		}
		centroid := colour.LabFromVec(c.Center)
		out = append(out, Cluster{
			Label:    label,
			Centroid: centroid,
			Area:     area,
			Percent:  percentOf(area, total),
			Hex:      centroid.Hex(),
		})
	}
	return out
}
