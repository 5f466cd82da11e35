package balance

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jmylchreest/colourbalance/internal/colour"
	"github.com/jmylchreest/colourbalance/internal/segment"
)

// aggregateBand is the number of rows reduced by one worker. It is fixed so
// the floating point summation order does not depend on the CPU count.
const aggregateBand = 64

type regionSum struct {
	l, a, b float64
	n       int
}

func (s *regionSum) add(c colour.Lab) {
	s.l += c.L
	s.a += c.A
	s.b += c.B
	s.n++
}

func (s *regionSum) merge(o regionSum) {
	s.l += o.l
	s.a += o.a
	s.b += o.b
	s.n += o.n
}

func (s regionSum) mean() colour.Lab {
	n := float64(s.n)
	return colour.Lab{L: s.l / n, A: s.a / n, B: s.b / n}
}

// Aggregate reduces img to one Region per label, in ascending label order.
// Labels that cover no pixels are dropped. A nil labels grid makes every
// pixel its own region.
func Aggregate(img *colour.LabImage, labels *segment.Labels) ([]Region, error) {
	if img.Len() == 0 {
		return nil, fmt.Errorf("%w: image has no pixels", ErrEmptyInput)
	}
	if len(img.Pix) != img.Len()*3 {
		return nil, fmt.Errorf("%w: image buffer has %d values, want %d", ErrConfiguration, len(img.Pix), img.Len()*3)
	}
	if labels == nil {
		return pixelRegions(img), nil
	}
	if labels.W != img.W || labels.H != img.H || len(labels.Labels) != img.Len() {
		return nil, fmt.Errorf("%w: label grid %dx%d does not match image %dx%d", ErrConfiguration, labels.W, labels.H, img.W, img.H)
	}

	n := labels.Count
	if n < 0 {
		return nil, fmt.Errorf("%w: label count %d is negative", ErrConfiguration, n)
	}

	var total []regionSum
	var err error
	if n > aggregateBand*img.W {
		// Dense grids would cost a Count-sized buffer per band.
		total, err = reduceRows(img, labels.Labels, n, 0, img.H)
	} else {
		total, err = reduceBands(img, labels.Labels, n)
	}
	if err != nil {
		return nil, err
	}

	regions := make([]Region, 0, n)
	for l, s := range total {
		if s.n == 0 {
			continue
		}
		regions = append(regions, Region{ID: l, Mean: s.mean(), Area: s.n})
	}
	if len(regions) == 0 {
		return nil, fmt.Errorf("%w: no labelled pixels", ErrEmptyInput)
	}
	return regions, nil
}

// reduceBands sums each band of rows in its own worker and merges the
// partial sums in band order.
func reduceBands(img *colour.LabImage, labels []int, n int) ([]regionSum, error) {
	bands := (img.H + aggregateBand - 1) / aggregateBand
	partial := make([][]regionSum, bands)

	var g errgroup.Group
	for band := range bands {
		g.Go(func() error {
			y0 := band * aggregateBand
			sums, err := reduceRows(img, labels, n, y0, min(y0+aggregateBand, img.H))
			partial[band] = sums
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := make([]regionSum, n)
	for _, sums := range partial {
		for l := range sums {
			total[l].merge(sums[l])
		}
	}
	return total, nil
}

// reduceRows sums the pixels of rows [y0, y1) per label.
func reduceRows(img *colour.LabImage, labels []int, n, y0, y1 int) ([]regionSum, error) {
	sums := make([]regionSum, n)
	for i := y0 * img.W; i < y1*img.W; i++ {
		l := labels[i]
		if l < 0 || l >= n {
			return nil, fmt.Errorf("%w: label %d at pixel %d outside [0, %d)", ErrConfiguration, l, i, n)
		}
		sums[l].add(img.AtIndex(i))
	}
	return sums, nil
}

func pixelRegions(img *colour.LabImage) []Region {
	regions := make([]Region, img.Len())
	for i := range regions {
		regions[i] = Region{ID: i, Mean: img.AtIndex(i), Area: 1}
	}
	return regions
}
