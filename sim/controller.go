// Package sim owns the running simulation: the double-buffered grid,
// the integrator and its worker pool, the live parameters, and the
// metrics cadence.
package sim

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/morphogen/config"
	"github.com/pthm-cable/morphogen/grid"
	"github.com/pthm-cable/morphogen/metrics"
	"github.com/pthm-cable/morphogen/reaction"
	"github.com/pthm-cable/morphogen/render"
)

// Phase is the controller lifecycle state. A freshly constructed
// controller is Seeded; Play moves it to Running.
type Phase int

const (
	PhaseSeeded Phase = iota
	PhaseRunning
	PhasePaused
)

func (p Phase) String() string {
	switch p {
	case PhaseSeeded:
		return "seeded"
	case PhaseRunning:
		return "running"
	case PhasePaused:
		return "paused"
	}
	return "unknown"
}

// SupportedSizes lists the grid side lengths the controller accepts.
var SupportedSizes = []int{64, 96, 128, 192, 256, 384, 512}

// SupportedSize reports whether n is an accepted grid side length.
func SupportedSize(n int) bool {
	for _, s := range SupportedSizes {
		if s == n {
			return true
		}
	}
	return false
}

const maxStepsPerFrame = 64

// Controller owns all mutable simulation state and exposes snapshots
// of it to the render and metrics collaborators. A single goroutine
// drives it: Update/StepOnce and every setter run between frames,
// never concurrently with a step, so model switches and resizes are
// naturally serialized with the hot loop.
type Controller struct {
	buf   *grid.Buffer
	integ *Integrator
	ext   *metrics.Extractor
	perf  *Perf
	rng   *rand.Rand

	model  reaction.Model
	params reaction.Params
	kernel reaction.StepFunc

	phase         Phase
	stepsPerFrame int
	metricsEvery  int
	stepCount     int
	gradientID    string
	presetName    string
	brush         Brush

	onMetrics []func(metrics.Metrics)
}

// New builds a seeded controller from the loaded configuration.
// Unknown model, size, or gradient values fall back to defaults with
// a warning; the constructor fails only if the grid cannot be
// allocated.
func New(seed int64) (*Controller, error) {
	cfg := config.Cfg()

	m, ok := reaction.Get(cfg.Sim.Model)
	if !ok {
		slog.Warn("unknown model in config, using default", "id", cfg.Sim.Model)
		m, _ = reaction.Get(reaction.DefaultID)
	}

	n := cfg.Sim.GridSize
	if !SupportedSize(n) {
		slog.Warn("unsupported grid size in config, using 256", "size", n)
		n = 256
	}
	buf, err := grid.New(n)
	if err != nil {
		return nil, fmt.Errorf("allocating grid: %w", err)
	}

	gradient := cfg.Render.Gradient
	if !render.Known(gradient) {
		slog.Warn("unknown gradient in config, using default", "id", gradient)
		gradient = render.DefaultID
	}

	c := &Controller{
		buf:           buf,
		integ:         NewIntegrator(),
		ext:           metrics.NewExtractor(cfg.Derived.MetricsAlpha),
		perf:          NewPerf(),
		rng:           rand.New(rand.NewSource(seed)),
		model:         m,
		stepsPerFrame: clampSteps(cfg.Derived.StepsPerFrame),
		metricsEvery:  cfg.Derived.MetricsEvery,
		gradientID:    gradient,
	}
	c.params = reaction.Defaults(m)
	c.kernel = m.Kernel(c.params)
	c.reseed()

	slog.Info("simulation ready",
		"model", m.ID(),
		"grid_size", n,
		"steps_per_frame", c.stepsPerFrame,
		"seed", seed,
	)
	return c, nil
}

// Close stops the integrator's worker pool.
func (c *Controller) Close() {
	c.integ.Close()
}

// reseed rewrites the visible field with the model's initial state and
// clears everything derived from grid history.
func (c *Controller) reseed() {
	c.model.Seed(c.buf.Cur(), c.params, c.rng)
	c.ext.Reset()
	c.stepCount = 0
	c.phase = PhaseSeeded
}

// SetModel switches the active model: defaults re-derived, grid
// reseeded, metrics cleared. Unknown ids fall back to the default
// model.
func (c *Controller) SetModel(id string) {
	m, ok := reaction.Get(id)
	if !ok {
		slog.Warn("unknown model, using default", "id", id)
		m, _ = reaction.Get(reaction.DefaultID)
	}
	c.model = m
	c.presetName = ""
	c.params = reaction.Defaults(m)
	c.kernel = m.Kernel(c.params)
	c.reseed()
}

// SetGridSize resizes and reseeds. Sizes outside SupportedSizes are
// rejected: the previous grid is kept and the error surfaced to the
// caller.
func (c *Controller) SetGridSize(n int) error {
	if !SupportedSize(n) {
		return fmt.Errorf("unsupported grid size %d", n)
	}
	if err := c.buf.Resize(n); err != nil {
		return err
	}
	c.reseed()
	return nil
}

// ApplyPreset overwrites only the parameters the preset names, leaving
// everything else at its current value. Unknown names are ignored
// with a warning.
func (c *Controller) ApplyPreset(name string) {
	pr, ok := reaction.FindPreset(c.model, name)
	if !ok {
		slog.Warn("unknown preset", "model", c.model.ID(), "preset", name)
		return
	}
	for k, v := range pr.Vals {
		c.setParamValue(k, v)
	}
	c.kernel = c.model.Kernel(c.params)
	c.presetName = name
}

// SetParam sets one parameter, clamped to its declared range.
func (c *Controller) SetParam(key string, v float64) {
	if !c.setParamValue(key, v) {
		return
	}
	c.kernel = c.model.Kernel(c.params)
	c.presetName = ""
}

func (c *Controller) setParamValue(key string, v float64) bool {
	s, ok := reaction.Spec(c.model, key)
	if !ok {
		slog.Warn("unknown parameter", "model", c.model.ID(), "key", key)
		return false
	}
	c.params[key] = s.Clamp(v)
	return true
}

// SetBrush stores this frame's editing overlay. The brush is consumed
// by the next Update and cleared afterwards.
func (c *Controller) SetBrush(b Brush) {
	c.brush = b
}

// Play starts stepping.
func (c *Controller) Play() { c.phase = PhaseRunning }

// Pause stops stepping; the grid keeps its state.
func (c *Controller) Pause() {
	if c.phase == PhaseRunning {
		c.phase = PhasePaused
	}
}

// Toggle flips between Running and Paused.
func (c *Controller) Toggle() {
	if c.phase == PhaseRunning {
		c.phase = PhasePaused
	} else {
		c.phase = PhaseRunning
	}
}

// Reset reseeds without changing model or parameters.
func (c *Controller) Reset() {
	c.reseed()
}

// StepOnce performs exactly one integration step plus the cadenced
// metrics refresh, without starting the run. No-op while running.
func (c *Controller) StepOnce() {
	if c.phase == PhaseRunning {
		return
	}
	c.step()
	c.phase = PhasePaused
}

// Update advances one display frame: the configured number of steps
// while running, or just the brush edit while paused. Either way the
// frame's brush is consumed.
func (c *Controller) Update() {
	if c.phase == PhaseRunning {
		start := time.Now()
		for k := 0; k < c.stepsPerFrame; k++ {
			c.step()
		}
		c.perf.Record("step", time.Since(start))
	} else if c.brush.Active {
		// Painting still works while paused; edits land directly on
		// the visible field.
		ApplyBrush(c.buf.Cur(), c.model, c.params, c.brush)
	}
	c.brush = Brush{}
}

func (c *Controller) step() {
	c.integ.Step(c.buf, c.kernel, float32(c.params["dt"]))
	if c.brush.Active {
		ApplyBrush(c.buf.Cur(), c.model, c.params, c.brush)
	}
	c.stepCount++
	if c.stepCount%c.metricsEvery == 0 {
		c.refreshMetrics()
	}
}

func (c *Controller) refreshMetrics() {
	start := time.Now()
	m := c.ext.Extract(c.buf.Cur(), c.model.Threshold(c.params), c.stepCount)
	c.perf.Record("metrics", time.Since(start))
	for _, fn := range c.onMetrics {
		fn(m)
	}
}

// Perturb adds one layer of smooth spatial noise to the V channel,
// clamped to the model bounds. A way to break symmetry or kick a
// stalled pattern without reseeding.
func (c *Controller) Perturb() {
	cfg := config.Cfg()
	amp := cfg.Derived.PerturbAmp
	if amp <= 0 {
		return
	}

	noise := opensimplex.New(c.rng.Int63())
	f := c.buf.Cur()
	n := f.N
	lo, hi := c.model.Bounds()
	scale := float64(cfg.Derived.PerturbFreq) / float64(n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			i := y*n + x
			d := float32(noise.Eval2(float64(x)*scale, float64(y)*scale))
			f.V[i] = clamp32(f.V[i]+amp*d, lo, hi)
		}
	}
}

// OnMetrics registers an observer invoked after every metrics refresh
// with the freshly blended record.
func (c *Controller) OnMetrics(fn func(metrics.Metrics)) {
	if fn != nil {
		c.onMetrics = append(c.onMetrics, fn)
	}
}

// Frame returns the visible V channel. The slice aliases live grid
// memory and is valid until the next Update or StepOnce.
func (c *Controller) Frame() []float32 { return c.buf.Cur().V }

// Metrics returns a copy of the current descriptor record.
func (c *Controller) Metrics() metrics.Metrics { return c.ext.Current() }

// Phase returns the lifecycle state.
func (c *Controller) Phase() Phase { return c.phase }

// Model returns the active model.
func (c *Controller) Model() reaction.Model { return c.model }

// Params returns a copy of the live parameter assignment.
func (c *Controller) Params() reaction.Params { return c.params.Clone() }

// Preset returns the name of the last applied preset, or "" once any
// parameter has been edited away from it.
func (c *Controller) Preset() string { return c.presetName }

// Size returns the grid side length.
func (c *Controller) Size() int { return c.buf.Size() }

// StepCount returns integration steps since the last reseed.
func (c *Controller) StepCount() int { return c.stepCount }

// StepsPerFrame returns the per-frame step cadence K.
func (c *Controller) StepsPerFrame() int { return c.stepsPerFrame }

// SetStepsPerFrame sets the cadence, clamped to [1,64].
func (c *Controller) SetStepsPerFrame(k int) {
	c.stepsPerFrame = clampSteps(k)
}

// Gradient returns the active colormap id.
func (c *Controller) Gradient() string { return c.gradientID }

// SetGradient selects the render colormap, falling back to the
// default for unknown ids.
func (c *Controller) SetGradient(id string) {
	if !render.Known(id) {
		slog.Warn("unknown gradient, using default", "id", id)
		id = render.DefaultID
	}
	c.gradientID = id
}

// DisplayRange returns the value window the active model wants the
// gradient to span.
func (c *Controller) DisplayRange() (float32, float32) {
	return c.model.DisplayRange(c.params)
}

// Perf returns the rolling phase timings.
func (c *Controller) Perf() *Perf { return c.perf }

// Share serializes the shareable state (model, size, speed, colormap,
// preset, parameters) as a URL query string.
func (c *Controller) Share() string {
	return config.EncodeShare(config.ShareConfig{
		Model:  c.model.ID(),
		Size:   c.buf.Size(),
		Speed:  c.stepsPerFrame,
		Map:    c.gradientID,
		Preset: c.presetName,
		Params: c.params.Clone(),
	})
}

// ApplyShare loads a share link: model first, then preset, then
// explicit parameters, then size, speed, and colormap. Each layer is
// clamped or falls back the same way the interactive setters do.
// Ends reseeded, since seeds can depend on the loaded parameters.
func (c *Controller) ApplyShare(raw string) error {
	s, err := config.DecodeShare(raw)
	if err != nil {
		return err
	}

	if s.Model != "" {
		c.SetModel(s.Model)
	}
	if s.Preset != "" {
		c.ApplyPreset(s.Preset)
	}
	for k, v := range s.Params {
		c.setParamValue(k, v)
	}
	c.kernel = c.model.Kernel(c.params)
	if s.Size > 0 {
		if err := c.SetGridSize(s.Size); err != nil {
			slog.Warn("share link grid size rejected", "size", s.Size, "err", err)
		}
	}
	if s.Speed > 0 {
		c.SetStepsPerFrame(s.Speed)
	}
	if s.Map != "" {
		c.SetGradient(s.Map)
	}
	c.reseed()
	return nil
}

func clampSteps(k int) int {
	if k < 1 {
		return 1
	}
	if k > maxStepsPerFrame {
		return maxStepsPerFrame
	}
	return k
}

func clamp32(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
