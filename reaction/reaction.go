// Package reaction defines the reaction-diffusion model contract and the
// built-in variants (Gray-Scott, FitzHugh-Nagumo, Schnakenberg).
//
// A model owns its parameter schema, presets, seeding rule, brush
// semantics, and per-cell kinetics. Everything spatial (the Laplacian,
// the cell loop, parallelism) belongs to the integrator; a model only
// ever sees one cell at a time.
package reaction

import (
	"math/rand"
	"sort"

	"github.com/pthm-cable/morphogen/grid"
)

// StepFunc computes one cell's next (u, v) from its current values and
// per-channel Laplacians. Implementations must be pure functions of
// their arguments so the integrator may evaluate cells from any worker
// in any order.
type StepFunc func(u, v, lapU, lapV, dt float32) (float32, float32)

// ParamSpec describes one tunable of a model, in display order.
type ParamSpec struct {
	Key     string
	Label   string
	Min     float64
	Max     float64
	Default float64
	Step    float64
}

// Clamp bounds v to the spec's declared range.
func (s ParamSpec) Clamp(v float64) float64 {
	if v < s.Min {
		return s.Min
	}
	if v > s.Max {
		return s.Max
	}
	return v
}

// Preset is a named partial parameter assignment. Keys absent from
// Vals keep their current values when the preset is applied.
type Preset struct {
	Name string
	Note string
	Vals map[string]float64
}

// Params is the full parameter assignment of the active model, keyed by
// ParamSpec.Key. Always fully populated: defaults first, overrides on
// top.
type Params map[string]float64

// Clone returns an independent copy of p.
func (p Params) Clone() Params {
	c := make(Params, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

// BrushMode selects what painting does to a touched cell.
type BrushMode int

const (
	BrushSeed BrushMode = iota
	BrushErase
)

// Model is one reaction-diffusion variant. Implementations are
// stateless; all tunable state lives in the Params passed to each call.
type Model interface {
	// ID is the stable identity used in config and share links.
	ID() string
	// Title is the display name.
	Title() string
	// Specs lists the model's tunables in display order.
	Specs() []ParamSpec
	// Presets lists named parameter bundles in display order.
	Presets() []Preset
	// Kernel compiles p into the per-cell update rule.
	Kernel(p Params) StepFunc
	// Seed writes the model's initial state into f.
	Seed(f *grid.Field, p Params, rng *rand.Rand)
	// Paint returns the (u, v) a brushed cell takes in the given mode.
	Paint(mode BrushMode, u, v float32, p Params) (float32, float32)
	// Threshold is the activation level separating "on" cells for the
	// pattern descriptors.
	Threshold(p Params) float32
	// Bounds is the clamp range both channels are held to.
	Bounds() (lo, hi float32)
	// DisplayRange is the value window the render gradient spans.
	DisplayRange(p Params) (lo, hi float32)
}

// Defaults builds a fully populated Params from m's specs.
func Defaults(m Model) Params {
	specs := m.Specs()
	p := make(Params, len(specs))
	for _, s := range specs {
		p[s.Key] = s.Default
	}
	return p
}

// Spec returns the ParamSpec registered under key, if any.
func Spec(m Model, key string) (ParamSpec, bool) {
	for _, s := range m.Specs() {
		if s.Key == key {
			return s, true
		}
	}
	return ParamSpec{}, false
}

// FindPreset returns the preset with the given name, if any.
func FindPreset(m Model, name string) (Preset, bool) {
	for _, pr := range m.Presets() {
		if pr.Name == name {
			return pr, true
		}
	}
	return Preset{}, false
}

// DefaultID is the model used when an unknown id is requested.
const DefaultID = "gray-scott"

var models = map[string]Model{}

// Register adds a model under its ID. Nil models and empty ids are
// ignored.
func Register(m Model) {
	if m == nil || m.ID() == "" {
		return
	}
	models[m.ID()] = m
}

// Get returns the model registered under id.
func Get(id string) (Model, bool) {
	m, ok := models[id]
	return m, ok
}

// IDs returns the registered model ids, sorted.
func IDs() []string {
	ids := make([]string, 0, len(models))
	for id := range models {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func clampf(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
