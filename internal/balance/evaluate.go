package balance

import (
	"math"

	"github.com/samber/lo"

	"github.com/jmylchreest/colourbalance/internal/colour"
)

// placeholderHex is the colour reported for padding slots.
const placeholderHex = "#000000"

// EvaluatorConfig holds the settings used to score merged groups.
type EvaluatorConfig struct {
	SmallThreshold float64
	Targets        [3]float64
	Tolerance      float64
}

// Partition splits groups into those covering at least threshold of the
// total area and the rest. Both keep the input order.
func Partition(groups []Group, threshold float64) (filtered, small []Group) {
	cut := threshold * 100
	keep := func(g Group, _ int) bool { return g.Percent >= cut }
	return lo.Filter(groups, keep), lo.Reject(groups, keep)
}

// Evaluate scores the three largest groups against the targets. Groups must
// be sorted by area, largest first. Small groups only fill the ranking when
// there are fewer than three large ones, and missing positions are padded
// with zero-area placeholders. total is the area the percentages are
// relative to; a positive total recomputes each group's share from its area.
func Evaluate(groups []Group, total int, cfg EvaluatorConfig) Evaluation {
	filtered, small := Partition(groups, cfg.SmallThreshold)
	ranked := append(filtered, small...)

	var ev Evaluation
	ev.Tolerance = cfg.Tolerance
	ev.Balanced = true
	for i := range ev.Top3 {
		g := placeholder()
		if i < len(ranked) {
			g = ranked[i]
		}
		actual := g.Percent
		if total > 0 && !g.Placeholder {
			actual = percentOf(g.Area, total)
		}
		diff := actual - cfg.Targets[i]
		within := math.Abs(diff) <= cfg.Tolerance

		ev.Top3[i] = g
		ev.Slots[i] = Slot{
			Position:        i + 1,
			TargetPercent:   cfg.Targets[i],
			ActualPercent:   actual,
			Difference:      diff,
			WithinTolerance: within,
			Hex:             g.Hex,
		}
		ev.Balanced = ev.Balanced && within
	}
	return ev
}

func placeholder() Group {
	return Group{
		Centroid:    colour.Neutral,
		Hex:         placeholderHex,
		Placeholder: true,
	}
}
