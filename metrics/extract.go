package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/morphogen/grid"
)

const (
	// SampleRes is the side length of the fixed analysis downsample.
	SampleRes = 64
	// ClusterCap bounds the flood-fill region count.
	ClusterCap = 100
)

// Extractor downsamples the V channel to SampleRes×SampleRes and folds
// the raw descriptors into a running EMA. It owns only its smoothing
// state and borrows the field read-only during Extract; it never
// mutates the grid.
type Extractor struct {
	alpha float64

	cur     Metrics
	sample  []float32
	prev    []float32
	hasPrev bool

	// Scratch, reused across calls
	mask  []bool
	seen  []bool
	stack []int
	left  []float64
	right []float64
}

// NewExtractor creates an extractor with the given EMA smoothing
// factor (0 < alpha <= 1).
func NewExtractor(alpha float64) *Extractor {
	n := SampleRes * SampleRes
	return &Extractor{
		alpha:  alpha,
		sample: make([]float32, n),
		prev:   make([]float32, n),
		mask:   make([]bool, n),
		seen:   make([]bool, n),
		stack:  make([]int, 0, n),
		left:   make([]float64, 0, n/2),
		right:  make([]float64, 0, n/2),
	}
}

// Reset clears the smoothing state and the previous sample, so the
// next Extract starts from zero and reports delta 0. Call on model
// switch or grid reseed.
func (e *Extractor) Reset() {
	e.cur = Metrics{}
	e.hasPrev = false
}

// Current returns the running descriptor values.
func (e *Extractor) Current() Metrics { return e.cur }

// Extract samples f's V channel, computes the raw descriptors against
// threshold, blends them into the running EMA, and returns the result.
// step is recorded on the returned Metrics as-is.
func (e *Extractor) Extract(f *grid.Field, threshold float32, step int) Metrics {
	e.downsample(f)

	res := SampleRes
	cells := res * res

	// Threshold mask and coverage.
	above := 0
	for i, v := range e.sample {
		on := v > threshold
		e.mask[i] = on
		if on {
			above++
		}
	}
	coverage := float64(above) / float64(cells)

	// Mean absolute change against the previous sample.
	delta := 0.0
	if e.hasPrev {
		var sum float64
		for i, v := range e.sample {
			sum += math.Abs(float64(v - e.prev[i]))
		}
		delta = sum / float64(cells)
	}

	clusters := float64(e.countClusters())
	edges := e.edgeDensity()
	cx, cy := e.centerOfMass()

	// Left-right correlation; degenerate columns keep the previous
	// smoothed value instead of propagating NaN.
	symmetry := e.cur.Symmetry
	if raw, ok := e.symmetry(); ok {
		symmetry = e.blend(e.cur.Symmetry, raw)
	}

	e.cur = Metrics{
		Step:         step,
		Coverage:     e.blend(e.cur.Coverage, coverage),
		Delta:        e.blend(e.cur.Delta, delta),
		ClusterCount: e.blend(e.cur.ClusterCount, clusters),
		Symmetry:     symmetry,
		EdgeDensity:  e.blend(e.cur.EdgeDensity, edges),
		CenterX:      e.blend(e.cur.CenterX, cx),
		CenterY:      e.blend(e.cur.CenterY, cy),
	}

	// The fresh sample becomes the next call's reference.
	e.sample, e.prev = e.prev, e.sample
	e.hasPrev = true

	return e.cur
}

func (e *Extractor) blend(old, raw float64) float64 {
	return old*(1-e.alpha) + raw*e.alpha
}

// downsample box-averages f.V into the fixed sample grid. Block bounds
// are integer, so the reduction is deterministic for given contents.
func (e *Extractor) downsample(f *grid.Field) {
	n := f.N
	res := SampleRes
	for sy := 0; sy < res; sy++ {
		y0 := sy * n / res
		y1 := (sy + 1) * n / res
		if y1 <= y0 {
			y1 = y0 + 1
		}
		for sx := 0; sx < res; sx++ {
			x0 := sx * n / res
			x1 := (sx + 1) * n / res
			if x1 <= x0 {
				x1 = x0 + 1
			}

			var sum float32
			for y := y0; y < y1; y++ {
				row := y * n
				for x := x0; x < x1; x++ {
					sum += f.V[row+x]
				}
			}
			e.sample[sy*res+sx] = sum / float32((y1-y0)*(x1-x0))
		}
	}
}

// countClusters flood-fills 4-connected above-threshold regions on the
// toroidal sample grid, stopping at ClusterCap.
func (e *Extractor) countClusters() int {
	res := SampleRes
	for i := range e.seen {
		e.seen[i] = false
	}

	count := 0
	for start, on := range e.mask {
		if !on || e.seen[start] {
			continue
		}
		count++
		if count >= ClusterCap {
			return ClusterCap
		}

		// Iterative fill; recursion depth would be unbounded.
		e.stack = e.stack[:0]
		e.stack = append(e.stack, start)
		e.seen[start] = true
		for len(e.stack) > 0 {
			i := e.stack[len(e.stack)-1]
			e.stack = e.stack[:len(e.stack)-1]

			x := i % res
			y := i / res
			for _, j := range [4]int{
				grid.Wrap(y-1, res)*res + x,
				grid.Wrap(y+1, res)*res + x,
				y*res + grid.Wrap(x-1, res),
				y*res + grid.Wrap(x+1, res),
			} {
				if e.mask[j] && !e.seen[j] {
					e.seen[j] = true
					e.stack = append(e.stack, j)
				}
			}
		}
	}
	return count
}

// edgeDensity is the fraction of cells whose threshold state differs
// from at least one 4-neighbor.
func (e *Extractor) edgeDensity() float64 {
	res := SampleRes
	edges := 0
	for y := 0; y < res; y++ {
		yN := grid.Wrap(y-1, res) * res
		yS := grid.Wrap(y+1, res) * res
		row := y * res
		for x := 0; x < res; x++ {
			on := e.mask[row+x]
			if e.mask[yN+x] != on || e.mask[yS+x] != on ||
				e.mask[row+grid.Wrap(x-1, res)] != on ||
				e.mask[row+grid.Wrap(x+1, res)] != on {
				edges++
			}
		}
	}
	return float64(edges) / float64(res*res)
}

// centerOfMass is the |V|-weighted centroid in normalized [0,1]
// coordinates, or the grid center when there is no mass.
func (e *Extractor) centerOfMass() (float64, float64) {
	res := SampleRes
	var mass, mx, my float64
	for y := 0; y < res; y++ {
		for x := 0; x < res; x++ {
			w := math.Abs(float64(e.sample[y*res+x]))
			mass += w
			mx += w * float64(x)
			my += w * float64(y)
		}
	}
	if mass <= 0 {
		return 0.5, 0.5
	}
	return mx / mass / float64(res-1), my / mass / float64(res-1)
}

// symmetry correlates each cell of the left half with its horizontal
// mirror. Reports ok=false when either half has zero variance.
func (e *Extractor) symmetry() (float64, bool) {
	res := SampleRes
	e.left = e.left[:0]
	e.right = e.right[:0]
	for y := 0; y < res; y++ {
		row := y * res
		for x := 0; x < res/2; x++ {
			e.left = append(e.left, float64(e.sample[row+x]))
			e.right = append(e.right, float64(e.sample[row+res-1-x]))
		}
	}
	r := stat.Correlation(e.left, e.right, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}
	return r, true
}
