package reaction

import (
	"math/rand"

	"github.com/pthm-cable/morphogen/grid"
)

// grayScott is the two-chemical autocatalytic model of Pearson: U feeds
// in at rate f, V converts U to itself (U + 2V -> 3V) and is killed at
// rate f+k. Both channels live in [0,1].
type grayScott struct{}

func init() { Register(grayScott{}) }

func (grayScott) ID() string    { return "gray-scott" }
func (grayScott) Title() string { return "Gray-Scott" }

func (grayScott) Specs() []ParamSpec {
	return []ParamSpec{
		{Key: "du", Label: "Diffuse U", Min: 0, Max: 2, Default: 1.0, Step: 0.01},
		{Key: "dv", Label: "Diffuse V", Min: 0, Max: 2, Default: 0.5, Step: 0.01},
		{Key: "f", Label: "Feed", Min: 0, Max: 0.1, Default: 0.055, Step: 0.0005},
		{Key: "k", Label: "Kill", Min: 0, Max: 0.1, Default: 0.062, Step: 0.0005},
		{Key: "dt", Label: "Time step", Min: 0.1, Max: 2, Default: 1.0, Step: 0.05},
	}
}

func (grayScott) Presets() []Preset {
	return []Preset{
		{Name: "Turing Pattern", Note: "self-replicating spots", Vals: map[string]float64{"f": 0.028, "k": 0.062}},
		{Name: "Solitons", Note: "stable isolated dots", Vals: map[string]float64{"f": 0.030, "k": 0.062}},
		{Name: "Mitosis", Note: "dots that divide endlessly", Vals: map[string]float64{"f": 0.0367, "k": 0.0649}},
		{Name: "Coral Growth", Note: "branching fronts", Vals: map[string]float64{"f": 0.0545, "k": 0.062}},
		{Name: "Mazes", Note: "dense labyrinth walls", Vals: map[string]float64{"f": 0.029, "k": 0.057}},
		{Name: "Worms", Note: "crawling segments", Vals: map[string]float64{"f": 0.078, "k": 0.061}},
		{Name: "U-Skate World", Note: "gliders and still lifes", Vals: map[string]float64{"f": 0.062, "k": 0.0609}},
	}
}

func (grayScott) Kernel(p Params) StepFunc {
	du := float32(p["du"])
	dv := float32(p["dv"])
	f := float32(p["f"])
	k := float32(p["k"])
	return func(u, v, lapU, lapV, dt float32) (float32, float32) {
		uvv := u * v * v
		nu := u + (du*lapU-uvv+f*(1-u))*dt
		nv := v + (dv*lapV+uvv-(f+k)*v)*dt
		return clampf(nu, 0, 1), clampf(nv, 0, 1)
	}
}

// Seed fills the substrate (U=1, V=0) and drops a part-converted disk
// at the center to kick the reaction off.
func (grayScott) Seed(f *grid.Field, _ Params, _ *rand.Rand) {
	f.Fill(1, 0)

	n := f.N
	r := n / 20
	if r < 4 {
		r = 4
	}
	cx, cy := n/2, n/2
	for dy := -r; dy <= r; dy++ {
		yy := grid.Wrap(cy+dy, n)
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy > r*r {
				continue
			}
			i := yy*n + grid.Wrap(cx+dx, n)
			f.U[i] = 0.5
			f.V[i] = 0.25
		}
	}
}

func (grayScott) Paint(mode BrushMode, u, v float32, _ Params) (float32, float32) {
	if mode == BrushErase {
		return 1, 0
	}
	return u, 1
}

func (grayScott) Threshold(_ Params) float32 { return 0.25 }

func (grayScott) Bounds() (float32, float32) { return 0, 1 }

func (grayScott) DisplayRange(_ Params) (float32, float32) { return 0, 1 }
