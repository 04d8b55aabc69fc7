package sim

import (
	"testing"
	"time"
)

func TestPerfAverages(t *testing.T) {
	p := NewPerf()
	p.Record("step", 10*time.Millisecond)
	p.Record("step", 20*time.Millisecond)
	p.Record("metrics", 2*time.Millisecond)

	if got := p.Avg("step"); got != 15*time.Millisecond {
		t.Errorf("Avg(step) = %v, want 15ms", got)
	}
	if got := p.Avg("metrics"); got != 2*time.Millisecond {
		t.Errorf("Avg(metrics) = %v, want 2ms", got)
	}
	if got := p.Avg("missing"); got != 0 {
		t.Errorf("Avg(missing) = %v, want 0", got)
	}
	if got := p.Total(); got != 17*time.Millisecond {
		t.Errorf("Total = %v, want 17ms", got)
	}
}

func TestPerfSortedNamesSlowestFirst(t *testing.T) {
	p := NewPerf()
	p.Record("fast", time.Millisecond)
	p.Record("slow", 10*time.Millisecond)

	names := p.SortedNames()
	if len(names) != 2 || names[0] != "slow" || names[1] != "fast" {
		t.Errorf("SortedNames = %v, want [slow fast]", names)
	}
}

func TestPerfRollingWindow(t *testing.T) {
	p := NewPerf()
	// Fill well past the window with 1ms, then push one 121ms sample.
	for i := 0; i < 200; i++ {
		p.Record("step", time.Millisecond)
	}
	p.Record("step", 121*time.Millisecond)

	// Window holds 120 samples: 119 at 1ms plus the outlier -> 2ms avg.
	if got := p.Avg("step"); got != 2*time.Millisecond {
		t.Errorf("Avg = %v, want 2ms", got)
	}
}
