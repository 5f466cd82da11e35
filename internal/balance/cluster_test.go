package balance

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jmylchreest/colourbalance/internal/colour"
)

// randomRegions returns n regions scattered over the Lab gamut.
func randomRegions(n int, seed int64) []Region {
	rng := rand.New(rand.NewSource(seed))
	regions := make([]Region, n)
	for i := range regions {
		regions[i] = Region{
			ID: i,
			Mean: colour.Lab{
				L: rng.Float64() * 100,
				A: rng.Float64()*200 - 100,
				B: rng.Float64()*200 - 100,
			},
			Area: 1 + rng.Intn(500),
		}
	}
	return regions
}

func totalArea[T any](items []T, area func(T) int) int {
	sum := 0
	for _, it := range items {
		sum += area(it)
	}
	return sum
}

func TestKMeansDeterministic(t *testing.T) {
	regions := randomRegions(120, 7)
	km := &KMeans{Seed: 42, Inits: 10, MaxIterations: 300}

	first, err := km.Cluster(context.Background(), regions, 5)
	if err != nil {
		t.Fatalf("Cluster() error = %v", err)
	}
	for range 3 {
		again, err := km.Cluster(context.Background(), regions, 5)
		if err != nil {
			t.Fatalf("Cluster() error = %v", err)
		}
		if diff := cmp.Diff(first, again); diff != "" {
			t.Errorf("Cluster() not reproducible (-first +again):\n%s", diff)
		}
	}
}

func TestKMeansConservesArea(t *testing.T) {
	for _, k := range []int{1, 2, 5, 12} {
		regions := randomRegions(60, int64(k))
		got, err := (&KMeans{Seed: 42}).Cluster(context.Background(), regions, k)
		if err != nil {
			t.Fatalf("Cluster(k=%d) error = %v", k, err)
		}
		want := totalArea(regions, func(r Region) int { return r.Area })
		if sum := totalArea(got, func(c Cluster) int { return c.Area }); sum != want {
			t.Errorf("Cluster(k=%d) area sum = %d, want %d", k, sum, want)
		}
		if len(got) > k {
			t.Errorf("Cluster(k=%d) returned %d clusters", k, len(got))
		}
	}
}

func TestKMeansCapsK(t *testing.T) {
	regions := []Region{
		{ID: 0, Mean: colour.Lab{L: 20}, Area: 10},
		{ID: 1, Mean: colour.Lab{L: 80}, Area: 30},
	}
	got, err := (&KMeans{Seed: 42}).Cluster(context.Background(), regions, 5)
	if err != nil {
		t.Fatalf("Cluster() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Cluster() returned %d clusters, want 2", len(got))
	}
	areas := map[int]bool{got[0].Area: true, got[1].Area: true}
	if !areas[10] || !areas[30] {
		t.Errorf("Cluster() areas = %d, %d, want 10 and 30", got[0].Area, got[1].Area)
	}
}

func TestKMeansSeparatesBlobs(t *testing.T) {
	var regions []Region
	for i := range 10 {
		regions = append(regions, Region{ID: i, Mean: colour.Lab{L: 20 + float64(i%3), A: 40}, Area: 5})
	}
	for i := range 6 {
		regions = append(regions, Region{ID: 10 + i, Mean: colour.Lab{L: 85, A: -40 + float64(i%2)}, Area: 3})
	}

	got, err := (&KMeans{Seed: 1}).Cluster(context.Background(), regions, 2)
	if err != nil {
		t.Fatalf("Cluster() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Cluster() returned %d clusters, want 2", len(got))
	}
	for _, c := range got {
		switch {
		case c.Centroid.L < 50 && c.Area != 50:
			t.Errorf("dark cluster area = %d, want 50", c.Area)
		case c.Centroid.L >= 50 && c.Area != 18:
			t.Errorf("light cluster area = %d, want 18", c.Area)
		}
	}
}

func TestKMeansIdenticalRegions(t *testing.T) {
	regions := []Region{
		{ID: 0, Mean: colour.Lab{L: 50}, Area: 4},
		{ID: 1, Mean: colour.Lab{L: 50}, Area: 6},
		{ID: 2, Mean: colour.Lab{L: 50}, Area: 10},
	}
	got, err := (&KMeans{Seed: 42}).Cluster(context.Background(), regions, 3)
	if err != nil {
		t.Fatalf("Cluster() error = %v", err)
	}
	if sum := totalArea(got, func(c Cluster) int { return c.Area }); sum != 20 {
		t.Errorf("area sum = %d, want 20", sum)
	}
}

func TestClusterErrors(t *testing.T) {
	regions := randomRegions(3, 1)
	clusterers := map[string]Clusterer{
		"kmeans": &KMeans{Seed: 42},
		"muesli": NewMuesli(),
	}

	for name, c := range clusterers {
		t.Run(name+"/no regions", func(t *testing.T) {
			if _, err := c.Cluster(context.Background(), nil, 3); !errors.Is(err, ErrClustering) {
				t.Errorf("Cluster() error = %v, want ErrClustering", err)
			}
		})
		t.Run(name+"/zero k", func(t *testing.T) {
			if _, err := c.Cluster(context.Background(), regions, 0); !errors.Is(err, ErrConfiguration) {
				t.Errorf("Cluster() error = %v, want ErrConfiguration", err)
			}
		})
	}
}

func TestKMeansCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := (&KMeans{Seed: 42}).Cluster(ctx, randomRegions(10, 1), 3)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Cluster() error = %v, want context.Canceled", err)
	}
}

func TestMuesliConservesArea(t *testing.T) {
	regions := randomRegions(40, 3)
	got, err := NewMuesli().Cluster(context.Background(), regions, 4)
	if err != nil {
		t.Fatalf("Cluster() error = %v", err)
	}
	want := totalArea(regions, func(r Region) int { return r.Area })
	if sum := totalArea(got, func(c Cluster) int { return c.Area }); sum != want {
		t.Errorf("area sum = %d, want %d", sum, want)
	}
	if len(got) > 4 {
		t.Errorf("Cluster() returned %d clusters, want at most 4", len(got))
	}
}

func TestNewClusterer(t *testing.T) {
	cfg := DefaultConfig()
	c, err := NewClusterer(cfg)
	if err != nil {
		t.Fatalf("NewClusterer() error = %v", err)
	}
	km, ok := c.(*KMeans)
	if !ok {
		t.Fatalf("NewClusterer() = %T, want *KMeans", c)
	}
	if km.Seed != cfg.Seed || km.Inits != cfg.Inits {
		t.Errorf("NewClusterer() = %+v, want seed %d inits %d", km, cfg.Seed, cfg.Inits)
	}

	cfg.Algorithm = AlgorithmMuesli
	if c, err := NewClusterer(cfg); err != nil {
		t.Errorf("NewClusterer(muesli) error = %v", err)
	} else if _, ok := c.(*Muesli); !ok {
		t.Errorf("NewClusterer(muesli) = %T, want *Muesli", c)
	}

	cfg.Algorithm = "bogus"
	if _, err := NewClusterer(cfg); !errors.Is(err, ErrConfiguration) {
		t.Errorf("NewClusterer(bogus) error = %v, want ErrConfiguration", err)
	}
}
