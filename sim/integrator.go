package sim

import (
	"github.com/pthm-cable/morphogen/grid"
	"github.com/pthm-cable/morphogen/reaction"
)

// 3x3 Laplacian stencil weights. They sum to exactly zero, so a
// uniform grid diffuses nowhere.
const (
	lapOrtho  = 0.2
	lapDiag   = 0.05
	lapCenter = -1.0
)

// Brush is the per-frame editing overlay supplied by the pointer
// collaborator: a normalized position, a radius in grid cells, and
// what touching a cell does.
type Brush struct {
	Active bool
	X, Y   float32 // normalized [0,1]
	Radius float32 // grid cells
	Mode   reaction.BrushMode
}

// Integrator advances a buffer one timestep at a time. Every cell of
// next is computed purely from current, so rows fan out across a
// persistent worker pool with no locking; the swap at the end of Step
// is the only visibility point for readers.
type Integrator struct {
	pool *rowPool
}

// NewIntegrator creates an integrator with an idle worker pool.
func NewIntegrator() *Integrator {
	return &Integrator{pool: newRowPool()}
}

// Close stops the worker pool.
func (it *Integrator) Close() {
	if it.pool != nil {
		it.pool.stop()
	}
}

// Step applies kernel to every cell of buf and swaps. Small grids run
// on the calling goroutine; larger ones fan out across the pool.
func (it *Integrator) Step(buf *grid.Buffer, kernel reaction.StepFunc, dt float32) {
	cur, nxt := buf.Cur(), buf.Next()
	n := cur.N

	if n < parallelThreshold {
		stepRows(cur, nxt, kernel, dt, 0, n)
	} else {
		it.pool.run(n, func(y0, y1 int) {
			stepRows(cur, nxt, kernel, dt, y0, y1)
		})
	}

	buf.Swap()
}

// stepRows computes rows [y0,y1) of nxt from cur. Neighbor rows are
// resolved once per row; columns wrap per cell.
func stepRows(cur, nxt *grid.Field, kernel reaction.StepFunc, dt float32, y0, y1 int) {
	n := cur.N
	u, v := cur.U, cur.V

	for y := y0; y < y1; y++ {
		rowC := y * n
		rowN := grid.Wrap(y-1, n) * n
		rowS := grid.Wrap(y+1, n) * n

		for x := 0; x < n; x++ {
			xW := grid.Wrap(x-1, n)
			xE := grid.Wrap(x+1, n)

			i := rowC + x
			lapU := lapOrtho*(u[rowN+x]+u[rowS+x]+u[rowC+xW]+u[rowC+xE]) +
				lapDiag*(u[rowN+xW]+u[rowN+xE]+u[rowS+xW]+u[rowS+xE]) +
				lapCenter*u[i]
			lapV := lapOrtho*(v[rowN+x]+v[rowS+x]+v[rowC+xW]+v[rowC+xE]) +
				lapDiag*(v[rowN+xW]+v[rowN+xE]+v[rowS+xW]+v[rowS+xE]) +
				lapCenter*v[i]

			nxt.U[i], nxt.V[i] = kernel(u[i], v[i], lapU, lapV, dt)
		}
	}
}

// ApplyBrush substitutes the model's paint values into every cell of f
// within the brush radius. Substitution, not blending: the painted
// cells take exactly what Paint returns.
func ApplyBrush(f *grid.Field, m reaction.Model, p reaction.Params, b Brush) {
	if !b.Active {
		return
	}

	n := f.N
	px := b.X * float32(n)
	py := b.Y * float32(n)
	r := b.Radius
	r2 := r * r

	cx := int(px)
	cy := int(py)
	ri := int(r) + 1
	for dy := -ri; dy <= ri; dy++ {
		yy := grid.Wrap(cy+dy, n)
		fy := float32(cy+dy) + 0.5 - py
		for dx := -ri; dx <= ri; dx++ {
			fx := float32(cx+dx) + 0.5 - px
			if fx*fx+fy*fy > r2 {
				continue
			}
			i := yy*n + grid.Wrap(cx+dx, n)
			f.U[i], f.V[i] = m.Paint(b.Mode, f.U[i], f.V[i], p)
		}
	}
}
