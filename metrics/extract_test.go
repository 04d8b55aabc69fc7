package metrics

import (
	"math"
	"testing"

	"github.com/pthm-cable/morphogen/grid"
)

// alpha=1 makes Extract report raw descriptor values, which keeps the
// arithmetic in these tests readable.
func rawExtractor() *Extractor { return NewExtractor(1.0) }

func TestQuietGridYieldsZeroDescriptors(t *testing.T) {
	e := rawExtractor()
	f := grid.NewField(64)

	m := e.Extract(f, 0.25, 0)
	if m.Coverage != 0 {
		t.Errorf("coverage = %v, want 0", m.Coverage)
	}
	if m.ClusterCount != 0 {
		t.Errorf("cluster_count = %v, want 0", m.ClusterCount)
	}
	if m.EdgeDensity != 0 {
		t.Errorf("edge_density = %v, want 0", m.EdgeDensity)
	}
	if m.Delta != 0 {
		t.Errorf("delta = %v on first call, want 0", m.Delta)
	}
	if m.CenterX != 0.5 || m.CenterY != 0.5 {
		t.Errorf("center = (%v, %v), want (0.5, 0.5)", m.CenterX, m.CenterY)
	}
	// Uniform halves have no variance, so symmetry keeps its reset value.
	if m.Symmetry != 0 {
		t.Errorf("symmetry = %v, want 0", m.Symmetry)
	}
}

func TestCoverageCountsStrictlyAbove(t *testing.T) {
	e := rawExtractor()
	f := grid.NewField(64)
	for i := range f.V {
		f.V[i] = 0.25
	}
	if m := e.Extract(f, 0.25, 0); m.Coverage != 0 {
		t.Errorf("cells at the threshold counted as above: coverage = %v", m.Coverage)
	}

	for i := range f.V {
		f.V[i] = 0.26
	}
	e.Reset()
	if m := e.Extract(f, 0.25, 0); m.Coverage != 1 {
		t.Errorf("coverage = %v, want 1", m.Coverage)
	}
}

func TestDownsampleBoxAverage(t *testing.T) {
	e := rawExtractor()
	f := grid.NewField(128) // 2x2 blocks per sample cell

	// One hot cell in the top-left 2x2 block averages to 1/4.
	f.V[0] = 1.0
	e.downsample(f)
	if got := e.sample[0]; got != 0.25 {
		t.Errorf("sample[0] = %v, want 0.25", got)
	}
	if got := e.sample[1]; got != 0 {
		t.Errorf("sample[1] = %v, want 0", got)
	}
}

func TestDownsampleDeterministic(t *testing.T) {
	f := grid.NewField(96) // blocks of uneven size
	for i := range f.V {
		f.V[i] = float32(i%17) / 17
	}

	a := rawExtractor()
	b := rawExtractor()
	a.downsample(f)
	b.downsample(f)
	for i := range a.sample {
		if a.sample[i] != b.sample[i] {
			t.Fatalf("sample mismatch at %d: %v vs %v", i, a.sample[i], b.sample[i])
		}
	}
}

func TestDeltaTracksChange(t *testing.T) {
	e := rawExtractor()
	f := grid.NewField(64)

	e.Extract(f, 0.25, 0)
	for i := range f.V {
		f.V[i] = 0.5
	}
	m := e.Extract(f, 0.25, 8)
	if math.Abs(m.Delta-0.5) > 1e-6 {
		t.Errorf("delta = %v, want 0.5", m.Delta)
	}
}

func TestClusterCountAndCap(t *testing.T) {
	e := rawExtractor()
	f := grid.NewField(64)

	// Two blobs well apart.
	f.V[10*64+10] = 1
	f.V[10*64+11] = 1
	f.V[40*64+40] = 1
	m := e.Extract(f, 0.25, 0)
	if m.ClusterCount != 2 {
		t.Errorf("cluster_count = %v, want 2", m.ClusterCount)
	}

	// A dot every other row and column: 1024 clusters, capped.
	for i := range f.V {
		f.V[i] = 0
	}
	for y := 0; y < 64; y += 2 {
		for x := 0; x < 64; x += 2 {
			f.V[y*64+x] = 1
		}
	}
	e.Reset()
	m = e.Extract(f, 0.25, 0)
	if m.ClusterCount != ClusterCap {
		t.Errorf("cluster_count = %v, want cap %d", m.ClusterCount, ClusterCap)
	}
}

func TestClustersWrapAcrossEdges(t *testing.T) {
	e := rawExtractor()
	f := grid.NewField(64)

	// One region straddling the left-right seam of row 5.
	f.V[5*64+0] = 1
	f.V[5*64+63] = 1
	m := e.Extract(f, 0.25, 0)
	if m.ClusterCount != 1 {
		t.Errorf("cluster_count = %v, want 1 (toroidal join)", m.ClusterCount)
	}
}

func TestEdgeDensitySingleDot(t *testing.T) {
	e := rawExtractor()
	f := grid.NewField(64)
	f.V[20*64+20] = 1

	m := e.Extract(f, 0.25, 0)
	// The dot plus its four neighbors disagree with a neighbor.
	want := 5.0 / (64.0 * 64.0)
	if math.Abs(m.EdgeDensity-want) > 1e-9 {
		t.Errorf("edge_density = %v, want %v", m.EdgeDensity, want)
	}
}

func TestSymmetryOfMirroredPattern(t *testing.T) {
	e := rawExtractor()
	f := grid.NewField(64)
	// Horizontally mirrored random-ish pattern.
	for y := 0; y < 64; y++ {
		for x := 0; x < 32; x++ {
			v := float32((x*7+y*3)%13) / 13
			f.V[y*64+x] = v
			f.V[y*64+63-x] = v
		}
	}

	m := e.Extract(f, 2.0, 0)
	if math.Abs(m.Symmetry-1.0) > 1e-6 {
		t.Errorf("symmetry = %v, want 1.0 for a mirrored pattern", m.Symmetry)
	}
}

func TestSymmetryKeepsPreviousWhenDegenerate(t *testing.T) {
	e := rawExtractor()
	f := grid.NewField(64)
	for y := 0; y < 64; y++ {
		for x := 0; x < 32; x++ {
			v := float32((x*5+y)%11) / 11
			f.V[y*64+x] = v
			f.V[y*64+63-x] = v
		}
	}
	e.Extract(f, 2.0, 0)

	// A uniform grid has no variance; the value must hold.
	f.Fill(0, 0.5)
	m := e.Extract(f, 2.0, 8)
	if math.Abs(m.Symmetry-1.0) > 1e-6 {
		t.Errorf("symmetry = %v after degenerate sample, want held 1.0", m.Symmetry)
	}
}

func TestCenterOfMassFollowsPattern(t *testing.T) {
	e := rawExtractor()
	f := grid.NewField(64)
	// All mass in the left column band.
	for y := 0; y < 64; y++ {
		f.V[y*64+0] = 1
	}

	m := e.Extract(f, 2.0, 0)
	if m.CenterX != 0 {
		t.Errorf("center_x = %v, want 0", m.CenterX)
	}
	if math.Abs(m.CenterY-0.5) > 1e-9 {
		t.Errorf("center_y = %v, want 0.5", m.CenterY)
	}

	// Negative values still carry mass.
	e.Reset()
	for i := range f.V {
		f.V[i] = 0
	}
	for y := 0; y < 64; y++ {
		f.V[y*64+63] = -1
	}
	m = e.Extract(f, 2.0, 0)
	if m.CenterX != 1 {
		t.Errorf("center_x = %v, want 1 for |V| mass", m.CenterX)
	}
}

func TestEMABlending(t *testing.T) {
	e := NewExtractor(0.15)
	f := grid.NewField(64)
	for i := range f.V {
		f.V[i] = 1
	}

	m := e.Extract(f, 0.25, 0)
	if math.Abs(m.Coverage-0.15) > 1e-9 {
		t.Errorf("first blend = %v, want 0.15", m.Coverage)
	}
	m = e.Extract(f, 0.25, 8)
	want := 0.15*0.85 + 0.15
	if math.Abs(m.Coverage-want) > 1e-9 {
		t.Errorf("second blend = %v, want %v", m.Coverage, want)
	}
}

func TestResetClearsState(t *testing.T) {
	e := NewExtractor(0.15)
	f := grid.NewField(64)
	for i := range f.V {
		f.V[i] = 1
	}
	e.Extract(f, 0.25, 0)

	e.Reset()
	if e.Current() != (Metrics{}) {
		t.Errorf("Current() after Reset = %+v, want zero", e.Current())
	}

	// First post-reset extraction reports delta 0 even though the
	// grid changed since the pre-reset sample.
	for i := range f.V {
		f.V[i] = 0
	}
	m := e.Extract(f, 0.25, 0)
	if m.Delta != 0 {
		t.Errorf("delta after reset = %v, want 0", m.Delta)
	}
}

func BenchmarkExtract(b *testing.B) {
	e := NewExtractor(0.15)
	f := grid.NewField(256)
	for i := range f.V {
		f.V[i] = float32(i%97) / 97
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Extract(f, 0.25, i)
	}
}
