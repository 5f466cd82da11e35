package balance

import (
	"context"
	"fmt"

	"github.com/muesli/kmeans"
)

// Muesli partitions regions with github.com/muesli/kmeans. The library seeds
// itself from the clock, so two runs over the same regions may differ.
type Muesli struct {
	km kmeans.Kmeans
}

// NewMuesli creates a Muesli clusterer with the library defaults.
func NewMuesli() *Muesli {
	return &Muesli{km: kmeans.New()}
}

// Cluster implements Clusterer.
func (m *Muesli) Cluster(ctx context.Context, regions []Region, k int) ([]Cluster, error) {
	k, err := checkClusterInput(regions, k)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	obs := observationsOf(regions)
	cc, err := m.km.Partition(obs, k)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrClustering, err)
	}

	// The library can leave an observation in more than one cluster when it
	// refills empty ones, so rebuild membership from the final centers.
	assign(cc, obs)
	return summarise(cc, regions), nil
}
