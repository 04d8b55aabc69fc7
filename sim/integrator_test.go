package sim

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/morphogen/grid"
	"github.com/pthm-cable/morphogen/reaction"
)

// diffKernel is pure diffusion with no reaction terms, handy for
// checking the stencil in isolation.
func diffKernel(u, v, lapU, lapV, dt float32) (float32, float32) {
	return u + dt*lapU, v + dt*lapV
}

func TestStepLeavesUniformGridUniform(t *testing.T) {
	buf, err := grid.New(48)
	if err != nil {
		t.Fatalf("grid.New: %v", err)
	}
	buf.Cur().Fill(0.42, 0.17)

	it := NewIntegrator()
	defer it.Close()
	it.Step(buf, diffKernel, 1.0)

	f := buf.Cur()
	for i := range f.U {
		if d := math.Abs(float64(f.U[i]) - 0.42); d > 1e-6 {
			t.Fatalf("U[%d] drifted to %v on uniform grid", i, f.U[i])
		}
		if d := math.Abs(float64(f.V[i]) - 0.17); d > 1e-6 {
			t.Fatalf("V[%d] drifted to %v on uniform grid", i, f.V[i])
		}
	}
}

func TestStepDiffusesSpikeAcrossStencil(t *testing.T) {
	const n = 16
	buf, err := grid.New(n)
	if err != nil {
		t.Fatalf("grid.New: %v", err)
	}
	f := buf.Cur()
	f.Fill(0, 0)
	cx, cy := 0, 0 // corner, so the spike must reach neighbors by wrapping
	f.U[cy*n+cx] = 1

	it := NewIntegrator()
	defer it.Close()
	it.Step(buf, diffKernel, 1.0)

	out := buf.Cur()
	at := func(x, y int) float32 {
		return out.U[grid.Wrap(y, n)*n+grid.Wrap(x, n)]
	}

	if got := at(cx, cy); got != 0 {
		t.Errorf("spike cell = %v, want 0", got)
	}
	for _, p := range [][2]int{{cx - 1, cy}, {cx + 1, cy}, {cx, cy - 1}, {cx, cy + 1}} {
		if got := at(p[0], p[1]); got != 0.2 {
			t.Errorf("orthogonal neighbor (%d,%d) = %v, want 0.2", p[0], p[1], got)
		}
	}
	for _, p := range [][2]int{{cx - 1, cy - 1}, {cx + 1, cy - 1}, {cx - 1, cy + 1}, {cx + 1, cy + 1}} {
		if got := at(p[0], p[1]); got != 0.05 {
			t.Errorf("diagonal neighbor (%d,%d) = %v, want 0.05", p[0], p[1], got)
		}
	}
	if got := at(cx+2, cy); got != 0 {
		t.Errorf("cell two away = %v, want 0", got)
	}

	var mass float64
	for _, u := range out.U {
		mass += float64(u)
	}
	if math.Abs(mass-1.0) > 1e-6 {
		t.Errorf("diffusion lost mass: total = %v, want 1", mass)
	}
}

func TestStepParallelMatchesSerial(t *testing.T) {
	const n = 128 // large enough to take the pool path
	buf, err := grid.New(n)
	if err != nil {
		t.Fatalf("grid.New: %v", err)
	}
	rng := rand.New(rand.NewSource(7))
	f := buf.Cur()
	for i := range f.U {
		f.U[i] = rng.Float32()
		f.V[i] = rng.Float32()
	}

	m, _ := reaction.Get("gray-scott")
	kernel := m.Kernel(reaction.Defaults(m))

	ref := grid.NewField(n)
	src := grid.NewField(n)
	copy(src.U, f.U)
	copy(src.V, f.V)
	stepRows(src, ref, kernel, 1.0, 0, n)

	it := NewIntegrator()
	defer it.Close()
	it.Step(buf, kernel, 1.0)

	out := buf.Cur()
	for i := range out.U {
		if out.U[i] != ref.U[i] || out.V[i] != ref.V[i] {
			t.Fatalf("cell %d: parallel (%v,%v) != serial (%v,%v)",
				i, out.U[i], out.V[i], ref.U[i], ref.V[i])
		}
	}
}

func TestStepSwapsBuffers(t *testing.T) {
	buf, err := grid.New(32)
	if err != nil {
		t.Fatalf("grid.New: %v", err)
	}
	wasCur, wasNext := buf.Cur(), buf.Next()

	it := NewIntegrator()
	defer it.Close()
	it.Step(buf, diffKernel, 1.0)

	if buf.Cur() != wasNext || buf.Next() != wasCur {
		t.Error("Step did not swap the buffers")
	}
}

func TestApplyBrushPaintsDisk(t *testing.T) {
	const n = 64
	f := grid.NewField(n)
	f.Fill(1, 0)

	m, _ := reaction.Get("gray-scott")
	p := reaction.Defaults(m)
	ApplyBrush(f, m, p, Brush{Active: true, X: 0.5, Y: 0.5, Radius: 4, Mode: reaction.BrushSeed})

	if got := f.V[32*n+32]; got != 1 {
		t.Errorf("center V = %v, want 1", got)
	}
	if got := f.U[32*n+32]; got != 1 {
		t.Errorf("seed brush must not touch U: center U = %v, want 1", got)
	}
	if got := f.V[32*n+38]; got != 0 {
		t.Errorf("cell outside radius painted: V = %v", got)
	}

	var painted int
	for _, v := range f.V {
		if v == 1 {
			painted++
		}
	}
	// Area of a radius-4 disk is ~50 cells; allow for edge rasterization.
	if painted < 40 || painted > 64 {
		t.Errorf("painted %d cells, want roughly pi*r^2 = 50", painted)
	}
}

func TestApplyBrushWrapsAtEdges(t *testing.T) {
	const n = 64
	f := grid.NewField(n)
	f.Fill(1, 0)

	m, _ := reaction.Get("gray-scott")
	p := reaction.Defaults(m)
	ApplyBrush(f, m, p, Brush{Active: true, X: 0, Y: 0, Radius: 3, Mode: reaction.BrushSeed})

	if got := f.V[(n-1)*n+(n-1)]; got != 1 {
		t.Errorf("brush at origin should wrap to far corner, V = %v", got)
	}
	if got := f.V[0]; got != 1 {
		t.Errorf("brush at origin should cover cell (0,0), V = %v", got)
	}
}

func TestApplyBrushEraseRestoresSubstrate(t *testing.T) {
	const n = 64
	f := grid.NewField(n)
	f.Fill(0.3, 0.7)

	m, _ := reaction.Get("gray-scott")
	p := reaction.Defaults(m)
	ApplyBrush(f, m, p, Brush{Active: true, X: 0.5, Y: 0.5, Radius: 4, Mode: reaction.BrushErase})

	i := 32*n + 32
	if f.U[i] != 1 || f.V[i] != 0 {
		t.Errorf("erased cell = (%v,%v), want (1,0)", f.U[i], f.V[i])
	}
}

func TestApplyBrushInactiveIsNoop(t *testing.T) {
	const n = 32
	f := grid.NewField(n)
	f.Fill(0.3, 0.7)

	m, _ := reaction.Get("gray-scott")
	ApplyBrush(f, m, reaction.Defaults(m), Brush{Active: false, X: 0.5, Y: 0.5, Radius: 10})

	for i := range f.V {
		if f.U[i] != 0.3 || f.V[i] != 0.7 {
			t.Fatalf("inactive brush modified cell %d", i)
		}
	}
}

func BenchmarkIntegratorStep(b *testing.B) {
	buf, err := grid.New(256)
	if err != nil {
		b.Fatalf("grid.New: %v", err)
	}
	m, _ := reaction.Get("gray-scott")
	p := reaction.Defaults(m)
	m.Seed(buf.Cur(), p, rand.New(rand.NewSource(1)))
	kernel := m.Kernel(p)

	it := NewIntegrator()
	defer it.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		it.Step(buf, kernel, 1.0)
	}
}
