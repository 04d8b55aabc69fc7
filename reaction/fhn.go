package reaction

import (
	"math/rand"

	"github.com/pthm-cable/morphogen/grid"
)

// fhn is the FitzHugh-Nagumo excitable medium: U is the fast activator
// with cubic kinetics, V the slow inhibitor recovering at rate eps.
// Channels live in [-2,2] and the quiescent state is all-zero when the
// offset a0 is zero.
type fhn struct{}

func init() { Register(fhn{}) }

func (fhn) ID() string    { return "fitzhugh-nagumo" }
func (fhn) Title() string { return "FitzHugh-Nagumo" }

func (fhn) Specs() []ParamSpec {
	return []ParamSpec{
		{Key: "du", Label: "Diffuse U", Min: 0, Max: 4, Default: 1.0, Step: 0.01},
		{Key: "dv", Label: "Diffuse V", Min: 0, Max: 10, Default: 2.0, Step: 0.05},
		{Key: "a0", Label: "Offset", Min: -0.5, Max: 0.5, Default: 0.0, Step: 0.005},
		{Key: "a1", Label: "Damping", Min: 0.1, Max: 3, Default: 1.0, Step: 0.01},
		{Key: "eps", Label: "Recovery", Min: 0.001, Max: 1, Default: 0.06, Step: 0.001},
		{Key: "dt", Label: "Time step", Min: 0.01, Max: 1, Default: 0.15, Step: 0.01},
	}
}

func (fhn) Presets() []Preset {
	return []Preset{
		{Name: "Spiral Waves", Note: "rotating broken wavefronts", Vals: map[string]float64{"eps": 0.02, "a1": 1.0}},
		{Name: "Pulses", Note: "travelling excitation rings", Vals: map[string]float64{"eps": 0.05, "a1": 2.0}},
		{Name: "Labyrinth", Note: "frozen stripe maze", Vals: map[string]float64{"eps": 1.0, "dv": 4.0, "dt": 0.05}},
	}
}

func (fhn) Kernel(p Params) StepFunc {
	du := float32(p["du"])
	dv := float32(p["dv"])
	a0 := float32(p["a0"])
	a1 := float32(p["a1"])
	eps := float32(p["eps"])
	return func(u, v, lapU, lapV, dt float32) (float32, float32) {
		nu := u + (du*lapU+u-u*u*u-v)*dt
		nv := v + (dv*lapV+eps*(u-a1*v-a0))*dt
		return clampf(nu, -2, 2), clampf(nv, -2, 2)
	}
}

// Seed leaves the medium quiescent; patterns come from the brush.
func (fhn) Seed(f *grid.Field, _ Params, _ *rand.Rand) {
	f.Fill(0, 0)
}

func (fhn) Paint(mode BrushMode, u, v float32, _ Params) (float32, float32) {
	if mode == BrushErase {
		return 0, 0
	}
	return 1, v
}

func (fhn) Threshold(_ Params) float32 { return 0 }

func (fhn) Bounds() (float32, float32) { return -2, 2 }

func (fhn) DisplayRange(_ Params) (float32, float32) { return -0.5, 0.5 }
