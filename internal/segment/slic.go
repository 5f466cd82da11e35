package segment

import (
	"context"
	"fmt"
	"math"

	"github.com/jmylchreest/colourbalance/internal/colour"
)

// Options configures SLIC superpixel generation.
type Options struct {
	// Segments is the approximate number of superpixels to generate.
	Segments int
	// Compactness trades colour similarity against spatial proximity.
	// Higher values give squarer, more regular superpixels.
	Compactness float64
	// Iterations of the assignment/update loop.
	Iterations int
	// EnforceConnectivity merges disconnected fragments into a neighbour.
	EnforceConnectivity bool
}

// DefaultOptions returns the options used by the analyzer.
func DefaultOptions() Options {
	return Options{
		Segments:            300,
		Compactness:         20,
		Iterations:          10,
		EnforceConnectivity: true,
	}
}

// Validate checks the options are usable.
func (o Options) Validate() error {
	if o.Segments < 1 {
		return fmt.Errorf("segments must be at least 1, got %d", o.Segments)
	}
	if o.Compactness <= 0 {
		return fmt.Errorf("compactness must be positive, got %g", o.Compactness)
	}
	if o.Iterations < 1 {
		return fmt.Errorf("iterations must be at least 1, got %d", o.Iterations)
	}
	return nil
}

type center struct{ l, a, b, x, y float64 }

// SLIC segments img into roughly opts.Segments superpixels using simple
// linear iterative clustering in Lab+xy space. The returned labels are dense:
// every id in [0, Count) has at least one pixel. ctx is checked before each
// iteration.
func SLIC(ctx context.Context, img *colour.LabImage, opts Options) (*Labels, error) {
	if img == nil || img.Len() == 0 {
		return nil, fmt.Errorf("image has no pixels")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	w, h := img.W, img.H
	step := max(int(math.Sqrt(float64(w*h)/float64(opts.Segments))), 1)
	ratio := (opts.Compactness / float64(step)) * (opts.Compactness / float64(step))

	centers := seedCenters(img, step)

	assigned := make([]int, w*h)
	distances := make([]float64, w*h)
	for i := range assigned {
		assigned[i] = -1
	}

	type acc struct {
		l, a, b, x, y float64
		n             int
	}
	sums := make([]acc, len(centers))

	for range opts.Iterations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for i := range distances {
			distances[i] = math.MaxFloat64
		}
		for ci, c := range centers {
			x0, x1 := max(int(c.x)-step, 0), min(int(c.x)+step, w)
			y0, y1 := max(int(c.y)-step, 0), min(int(c.y)+step, h)
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					p := img.At(x, y)
					dL, dA, dB := p.L-c.l, p.A-c.a, p.B-c.b
					dx, dy := float64(x)-c.x, float64(y)-c.y
					d := dL*dL + dA*dA + dB*dB + ratio*(dx*dx+dy*dy)
					idx := y*w + x
					if d < distances[idx] {
						distances[idx] = d
						assigned[idx] = ci
					}
				}
			}
		}

		clear(sums)
		for y := range h {
			for x := range w {
				ci := assigned[y*w+x]
				if ci < 0 {
					continue
				}
				p := img.At(x, y)
				sums[ci].l += p.L
				sums[ci].a += p.A
				sums[ci].b += p.B
				sums[ci].x += float64(x)
				sums[ci].y += float64(y)
				sums[ci].n++
			}
		}
		for ci := range centers {
			if sums[ci].n == 0 {
				continue
			}
			n := float64(sums[ci].n)
			centers[ci] = center{sums[ci].l / n, sums[ci].a / n, sums[ci].b / n, sums[ci].x / n, sums[ci].y / n}
		}
	}

	if !opts.EnforceConnectivity {
		return compact(w, h, assigned), nil
	}
	return connect(w, h, assigned, max((w*h)/len(centers), 1)), nil
}

// seedCenters places centers on a regular grid, nudged to the lowest-gradient
// pixel in a 3×3 neighbourhood so they do not start on an edge.
func seedCenters(img *colour.LabImage, step int) []center {
	w, h := img.W, img.H
	var centers []center
	for cy := step / 2; cy < h; cy += step {
		for cx := step / 2; cx < w; cx += step {
			minGrad := math.MaxFloat64
			lx, ly := cx, cy
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := cx+dx, cy+dy
					if nx < 0 || nx >= w-1 || ny < 0 || ny >= h-1 {
						continue
					}
					here := img.At(nx, ny).L
					grad := math.Abs(img.At(nx, ny+1).L-here) + math.Abs(img.At(nx+1, ny).L-here)
					if grad < minGrad {
						minGrad = grad
						lx, ly = nx, ny
					}
				}
			}
			p := img.At(lx, ly)
			centers = append(centers, center{p.L, p.A, p.B, float64(lx), float64(ly)})
		}
	}
	if len(centers) == 0 {
		cx, cy := w/2, h/2
		p := img.At(cx, cy)
		centers = append(centers, center{p.L, p.A, p.B, float64(cx), float64(cy)})
	}
	return centers
}

// connect relabels 4-connected components; components smaller than a quarter
// of the expected superpixel size are folded into the previously visited
// adjacent component.
func connect(w, h int, assigned []int, expected int) *Labels {
	dx4 := [4]int{-1, 0, 1, 0}
	dy4 := [4]int{0, -1, 0, 1}

	out := make([]int, w*h)
	for i := range out {
		out[i] = -1
	}

	label := 0
	elems := make([]int, 0, 64)
	for y := range h {
		for x := range w {
			start := y*w + x
			if out[start] != -1 {
				continue
			}

			elems = append(elems[:0], start)
			out[start] = label
			adjLabel := label
			for k := range 4 {
				nx, ny := x+dx4[k], y+dy4[k]
				if nx >= 0 && nx < w && ny >= 0 && ny < h && out[ny*w+nx] >= 0 {
					adjLabel = out[ny*w+nx]
					break
				}
			}
			for c := 0; c < len(elems); c++ {
				cur := elems[c]
				cx, cy := cur%w, cur/w
				for k := range 4 {
					nx, ny := cx+dx4[k], cy+dy4[k]
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					n := ny*w + nx
					if out[n] == -1 && assigned[cur] == assigned[n] {
						out[n] = label
						elems = append(elems, n)
					}
				}
			}
			if len(elems) <= expected>>2 && adjLabel != label {
				for _, e := range elems {
					out[e] = adjLabel
				}
				continue
			}
			label++
		}
	}
	return &Labels{W: w, H: h, Labels: out, Count: label}
}

// compact renumbers assignments to dense ids in order of first appearance.
func compact(w, h int, assigned []int) *Labels {
	ids := make(map[int]int)
	out := make([]int, len(assigned))
	for i, a := range assigned {
		id, ok := ids[a]
		if !ok {
			id = len(ids)
			ids[a] = id
		}
		out[i] = id
	}
	return &Labels{W: w, H: h, Labels: out, Count: len(ids)}
}
