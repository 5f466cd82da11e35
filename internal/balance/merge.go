package balance

import (
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/jmylchreest/colourbalance/internal/colour"
)

// Merge folds perceptually close clusters into groups in a single greedy
// pass. Clusters are visited in the given order; each unvisited cluster
// becomes an anchor and absorbs every later unvisited cluster whose CIEDE2000
// distance to the anchor's own centroid is strictly below delta. The group
// centroid is the area-weighted mean of its members.
//
// The result depends on input order. Groups are returned sorted by area,
// largest first, with ties kept in anchor order.
func Merge(raw []Cluster, total int, delta float64) []Group {
	used := make([]bool, len(raw))
	groups := make([]Group, 0, len(raw))

	for i, anchor := range raw {
		if used[i] {
			continue
		}
		used[i] = true

		area := anchor.Area
		members := []int{anchor.Label}
		sum := anchor.Centroid.Vec()
		floats.Scale(float64(anchor.Area), sum)

		for j := i + 1; j < len(raw); j++ {
			if used[j] {
				continue
			}
			if colour.DeltaE2000(anchor.Centroid, raw[j].Centroid) < delta {
				used[j] = true
				area += raw[j].Area
				members = append(members, raw[j].Label)
				floats.AddScaled(sum, float64(raw[j].Area), raw[j].Centroid.Vec())
			}
		}

		centroid := anchor.Centroid
		if area > 0 {
			floats.Scale(1/float64(area), sum)
			centroid = colour.LabFromVec(sum)
		}
		groups = append(groups, Group{
			Centroid: centroid,
			Area:     area,
			Percent:  percentOf(area, total),
			Hex:      centroid.Hex(),
			Members:  members,
		})
	}

	slices.SortStableFunc(groups, func(a, b Group) int {
		return b.Area - a.Area
	})
	return groups
}
