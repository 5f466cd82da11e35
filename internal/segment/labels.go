// Package segment partitions a Lab image into regions (superpixels).
package segment

import "fmt"

// Labels assigns every pixel of a W×H grid to a region id in [0, Count).
type Labels struct {
	W, H   int
	Labels []int // len = W*H, row major
	Count  int
}

// New wraps a row-major label slice. Count is derived from the largest label.
func New(w, h int, labels []int) (*Labels, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid label grid size %dx%d", w, h)
	}
	if len(labels) != w*h {
		return nil, fmt.Errorf("label grid has %d entries, want %d", len(labels), w*h)
	}
	count := 0
	for i, l := range labels {
		if l < 0 {
			return nil, fmt.Errorf("negative label %d at index %d", l, i)
		}
		count = max(count, l+1)
	}
	return &Labels{W: w, H: h, Labels: labels, Count: count}, nil
}

// Grid splits a w×h image into cols×rows rectangular cells, labelled row by
// row. Cells at the right and bottom edges absorb any remainder.
func Grid(w, h, cols, rows int) *Labels {
	cols = max(1, min(cols, w))
	rows = max(1, min(rows, h))
	cellW, cellH := w/cols, h/rows
	labels := make([]int, w*h)
	for y := range h {
		cy := min(y/cellH, rows-1)
		for x := range w {
			cx := min(x/cellW, cols-1)
			labels[y*w+x] = cy*cols + cx
		}
	}
	return &Labels{W: w, H: h, Labels: labels, Count: cols * rows}
}

// At returns the label at (x, y).
func (l *Labels) At(x, y int) int {
	return l.Labels[y*l.W+x]
}

// Sizes returns the number of pixels per label.
func (l *Labels) Sizes() []int {
	sizes := make([]int, l.Count)
	for _, v := range l.Labels {
		if v >= 0 && v < l.Count {
			sizes[v]++
		}
	}
	return sizes
}
