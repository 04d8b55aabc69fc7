package sim

import (
	"log/slog"
	"sort"
	"time"
)

// Perf tracks rolling execution times per pipeline phase ("step",
// "metrics", "render").
type Perf struct {
	samples    map[string][]time.Duration
	maxSamples int
}

// NewPerf creates a tracker holding roughly two seconds of samples at
// display rate.
func NewPerf() *Perf {
	return &Perf{
		samples:    make(map[string][]time.Duration),
		maxSamples: 120,
	}
}

// Record adds a duration sample for the named phase.
func (p *Perf) Record(name string, d time.Duration) {
	p.samples[name] = append(p.samples[name], d)
	if len(p.samples[name]) > p.maxSamples {
		p.samples[name] = p.samples[name][1:]
	}
}

// Avg returns the average duration for the named phase.
func (p *Perf) Avg(name string) time.Duration {
	s := p.samples[name]
	if len(s) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range s {
		total += d
	}
	return total / time.Duration(len(s))
}

// Total returns the sum of all phase averages.
func (p *Perf) Total() time.Duration {
	var total time.Duration
	for name := range p.samples {
		total += p.Avg(name)
	}
	return total
}

// SortedNames returns phase names sorted by average duration,
// slowest first.
func (p *Perf) SortedNames() []string {
	names := make([]string, 0, len(p.samples))
	for name := range p.samples {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return p.Avg(names[i]) > p.Avg(names[j])
	})
	return names
}

// Log emits one structured line with every phase average.
func (p *Perf) Log() {
	args := make([]any, 0, 2*len(p.samples)+2)
	for _, name := range p.SortedNames() {
		args = append(args, name, p.Avg(name).String())
	}
	args = append(args, "total", p.Total().String())
	slog.Info("perf", args...)
}
