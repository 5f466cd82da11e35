package balance

import "github.com/jmylchreest/colourbalance/internal/colour"

// Region is one labelled area of the image reduced to its mean colour.
type Region struct {
	ID   int        `json:"id"`
	Mean colour.Lab `json:"lab"`
	Area int        `json:"area"`
}

// Cluster is a raw k-means cluster of regions.
type Cluster struct {
	Label    int        `json:"label"`
	Centroid colour.Lab `json:"lab"`
	Area     int        `json:"area"`
	Percent  float64    `json:"percent"`
	Hex      string     `json:"hex"`
}

// Group is one or more raw clusters merged because their colours are
// perceptually close.
type Group struct {
	Centroid colour.Lab `json:"lab"`
	Area     int        `json:"area"`
	Percent  float64    `json:"percent"`
	Hex      string     `json:"hex"`

	// Members lists the labels of the raw clusters folded into this group,
	// anchor first.
	Members []int `json:"members,omitempty"`

	// Placeholder marks padding added by the evaluator.
	Placeholder bool `json:"placeholder,omitempty"`
}

// Slot is the evaluation of one ranked position against its target.
type Slot struct {
	Position        int     `json:"position"`
	TargetPercent   float64 `json:"target_percent"`
	ActualPercent   float64 `json:"actual_percent"`
	Difference      float64 `json:"difference"`
	WithinTolerance bool    `json:"within_tolerance"`
	Hex             string  `json:"hex"`
}

// Evaluation is the outcome of scoring the top three groups.
type Evaluation struct {
	Top3      [3]Group `json:"top3"`
	Slots     [3]Slot  `json:"evaluation"`
	Balanced  bool     `json:"balanced"`
	Tolerance float64  `json:"tolerance"`
}

// Result is everything one analysis produced.
type Result struct {
	Regions      int        `json:"regions"`
	EffectiveK   int        `json:"effective_k"`
	Seed         int64      `json:"seed"`
	RawClusters  []Cluster  `json:"raw_clusters"`
	MergedGroups []Group    `json:"merged_clusters"`
	Filtered     []Group    `json:"filtered_clusters"`
	Small        []Group    `json:"small_clusters"`
	TotalArea    int        `json:"total_area"`
	Evaluation   Evaluation `json:"60_30_10_evaluation"`
}

// percentOf returns area as a percentage of total, or 0 when total is 0.
func percentOf(area, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(area) * 100 / float64(total)
}
