package balance

import (
	"context"
	"math"
	"math/rand"
	"slices"

	"github.com/muesli/clusters"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// KMeans is a reproducible k-means: k-means++ seeding, Lloyd iterations and
// several restarts, keeping the one with the lowest inertia.
type KMeans struct {
	// Seed drives every random choice. Equal seeds give equal results.
	Seed int64
	// Inits is the number of restarts. Defaults to 10.
	Inits int
	// MaxIterations bounds each restart. Defaults to 300.
	MaxIterations int
	// RelativeTolerance stops a restart once the squared center shift falls
	// below this fraction of the mean per-dimension variance. Defaults to 1e-4.
	RelativeTolerance float64
}

type kmeansRun struct {
	clusters clusters.Clusters
	inertia  float64
}

// Cluster implements Clusterer.
func (km *KMeans) Cluster(ctx context.Context, regions []Region, k int) ([]Cluster, error) {
	k, err := checkClusterInput(regions, k)
	if err != nil {
		return nil, err
	}

	obs := observationsOf(regions)
	tol := km.tolerance(obs)

	inits := km.Inits
	if inits < 1 {
		inits = 10
	}

	// Restart seeds are drawn up front so the outcome does not depend on
	// scheduling.
	master := rand.New(rand.NewSource(km.Seed)) // #nosec G404 -- reproducible clustering, not security
	seeds := make([]int64, inits)
	for i := range seeds {
		seeds[i] = master.Int63()
	}

	runs := make([]kmeansRun, inits)
	g, ctx := errgroup.WithContext(ctx)
	for i, seed := range seeds {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- reproducible clustering, not security
			runs[i] = km.run(obs, k, rng, tol)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	best := 0
	for i := 1; i < len(runs); i++ {
		if runs[i].inertia < runs[best].inertia {
			best = i
		}
	}
	return summarise(runs[best].clusters, regions), nil
}

func (km *KMeans) maxIterations() int {
	if km.MaxIterations < 1 {
		return 300
	}
	return km.MaxIterations
}

// tolerance scales the relative tolerance by the data's mean variance.
func (km *KMeans) tolerance(obs clusters.Observations) float64 {
	if len(obs) < 2 {
		return 0
	}
	rel := km.RelativeTolerance
	if rel <= 0 {
		rel = 1e-4
	}
	dims := len(obs[0].Coordinates())
	column := make([]float64, len(obs))
	var sum float64
	for d := range dims {
		for i, o := range obs {
			column[i] = o.Coordinates()[d]
		}
		sum += stat.PopVariance(column, nil)
	}
	return rel * sum / float64(dims)
}

func (km *KMeans) run(obs clusters.Observations, k int, rng *rand.Rand, tol float64) kmeansRun {
	cc := seedPlusPlus(obs, k, rng)

	for range km.maxIterations() {
		assign(cc, obs)
		relocateEmpty(cc)

		shift := 0.0
		for i := range cc {
			prev := cc[i].Center
			cc[i].Recenter()
			d := floats.Distance(prev, cc[i].Center, 2)
			shift += d * d
		}
		if shift <= tol {
			break
		}
	}

	assign(cc, obs)
	inertia := 0.0
	for _, c := range cc {
		for _, o := range c.Observations {
			d := o.Distance(c.Center)
			inertia += d * d
		}
	}
	return kmeansRun{clusters: cc, inertia: inertia}
}

// seedPlusPlus picks k initial centers with the k-means++ rule: each new
// center is drawn with probability proportional to its squared distance from
// the nearest existing center.
func seedPlusPlus(obs clusters.Observations, k int, rng *rand.Rand) clusters.Clusters {
	cc := make(clusters.Clusters, 0, k)
	first := obs[rng.Intn(len(obs))]
	cc = append(cc, clusters.Cluster{Center: slices.Clone(first.Coordinates())})

	d2 := make([]float64, len(obs))
	for i, o := range obs {
		d := o.Distance(cc[0].Center)
		d2[i] = d * d
	}

	for len(cc) < k {
		total := floats.Sum(d2)
		next := len(obs) - 1
		if total == 0 {
			// Every point already coincides with a center.
			next = rng.Intn(len(obs))
		} else {
			target := rng.Float64() * total
			cumulative := 0.0
			for i, v := range d2 {
				cumulative += v
				if cumulative >= target && v > 0 {
					next = i
					break
				}
			}
		}

		center := slices.Clone(obs[next].Coordinates())
		cc = append(cc, clusters.Cluster{Center: center})
		for i, o := range obs {
			d := o.Distance(center)
			d2[i] = math.Min(d2[i], d*d)
		}
	}
	return cc
}

// relocateEmpty moves, for each empty cluster, the observation farthest from
// its own center into it, taking only from clusters with more than one member.
func relocateEmpty(cc clusters.Clusters) {
	for ei := range cc {
		if len(cc[ei].Observations) > 0 {
			continue
		}
		from, at := -1, -1
		farthest := -1.0
		for ci, c := range cc {
			if len(c.Observations) < 2 {
				continue
			}
			for oi, o := range c.Observations {
				if d := o.Distance(c.Center); d > farthest {
					farthest, from, at = d, ci, oi
				}
			}
		}
		if from < 0 {
			return
		}
		o := cc[from].Observations[at]
		cc[from].Observations = slices.Delete(cc[from].Observations, at, at+1)
		cc[ei].Append(o)
	}
}
