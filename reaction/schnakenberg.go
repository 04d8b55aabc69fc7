package reaction

import (
	"math/rand"

	"github.com/pthm-cable/morphogen/grid"
)

// schnakenberg is the trimolecular autocatalysis model (2U + V -> 3U)
// with constant feeds a and b and a kinetics scale gamma. It Turing-
// destabilizes from a spatially uniform equilibrium, so the seed is the
// equilibrium plus a whisper of noise rather than a shaped blob.
type schnakenberg struct{}

func init() { Register(schnakenberg{}) }

func (schnakenberg) ID() string    { return "schnakenberg" }
func (schnakenberg) Title() string { return "Schnakenberg" }

func (schnakenberg) Specs() []ParamSpec {
	return []ParamSpec{
		{Key: "du", Label: "Diffuse U", Min: 0.01, Max: 1, Default: 0.2, Step: 0.01},
		{Key: "dv", Label: "Diffuse V", Min: 0.1, Max: 20, Default: 2.0, Step: 0.1},
		{Key: "a", Label: "Feed A", Min: 0, Max: 1, Default: 0.1, Step: 0.005},
		{Key: "b", Label: "Feed B", Min: 0, Max: 2, Default: 0.9, Step: 0.005},
		{Key: "gamma", Label: "Kinetics", Min: 0.1, Max: 10, Default: 1.0, Step: 0.05},
		{Key: "dt", Label: "Time step", Min: 0.01, Max: 0.5, Default: 0.15, Step: 0.01},
	}
}

func (schnakenberg) Presets() []Preset {
	return []Preset{
		{Name: "Spots", Note: "even polka dots", Vals: map[string]float64{"gamma": 1.0}},
		{Name: "Fine Spots", Note: "tighter, denser dots", Vals: map[string]float64{"gamma": 4.0, "dt": 0.1}},
		{Name: "Sparse Spots", Note: "wide-spaced islands", Vals: map[string]float64{"gamma": 0.5}},
	}
}

// equilibrium returns the uniform steady state (a+b, b/(a+b)^2). The
// degenerate a=b=0 case pins both channels to zero.
func equilibrium(p Params) (float32, float32) {
	a := p["a"]
	b := p["b"]
	ueq := a + b
	if ueq < 1e-9 {
		return 0, 0
	}
	return float32(ueq), float32(b / (ueq * ueq))
}

func (schnakenberg) Kernel(p Params) StepFunc {
	du := float32(p["du"])
	dv := float32(p["dv"])
	a := float32(p["a"])
	b := float32(p["b"])
	g := float32(p["gamma"])
	return func(u, v, lapU, lapV, dt float32) (float32, float32) {
		uuv := u * u * v
		nu := u + (du*lapU+g*(a-u+uuv))*dt
		nv := v + (dv*lapV+g*(b-uuv))*dt
		return clampf(nu, 0, 10), clampf(nv, 0, 10)
	}
}

// Seed sets every cell to the analytic equilibrium, perturbed by
// uniform noise in [-0.005, 0.005] per channel so the Turing
// instability has something to amplify.
func (schnakenberg) Seed(f *grid.Field, p Params, rng *rand.Rand) {
	ueq, veq := equilibrium(p)
	for i := range f.U {
		f.U[i] = ueq + noise005(rng)
		f.V[i] = veq + noise005(rng)
	}
}

func noise005(rng *rand.Rand) float32 {
	return (rng.Float32() - 0.5) * 0.01
}

func (schnakenberg) Paint(mode BrushMode, u, v float32, p Params) (float32, float32) {
	if mode == BrushErase {
		return equilibrium(p)
	}
	return clampf(u+0.5, 0, 10), v
}

func (schnakenberg) Threshold(p Params) float32 {
	_, veq := equilibrium(p)
	return 1.2 * veq
}

func (schnakenberg) Bounds() (float32, float32) { return 0, 10 }

func (schnakenberg) DisplayRange(p Params) (float32, float32) {
	_, veq := equilibrium(p)
	if veq <= 0 {
		return 0, 1
	}
	return 0, 2 * veq
}
