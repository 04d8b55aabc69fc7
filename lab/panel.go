package lab

import (
	"fmt"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/morphogen/reaction"
	"github.com/pthm-cable/morphogen/render"
	"github.com/pthm-cable/morphogen/sim"
)

// drawPanel renders the right-hand control column: model and preset
// pickers, one slider per model parameter, transport buttons, and the
// live metrics readout.
func (l *Lab) drawPanel() {
	x := float32(rl.GetScreenWidth()) - panelWidth - margin
	y := float32(margin)
	w := float32(panelWidth)

	rl.DrawText("Morphogen", int32(x), int32(y), 20, rl.White)
	rl.DrawText(l.ctrl.Phase().String(), int32(x+w)-rl.MeasureText(l.ctrl.Phase().String(), 16), int32(y+2), 16, rl.Gray)
	y += 32

	y = l.drawModelRow(x, y, w)
	y = l.drawPresets(x, y, w)
	y = l.drawSliders(x, y, w)

	rl.DrawLine(int32(x), int32(y), int32(x+w), int32(y), rl.DarkGray)
	y += 10

	y = l.drawViewRow(x, y, w)
	y = l.drawSpeedSlider(x, y, w)
	y = l.drawTransport(x, y, w)

	rl.DrawLine(int32(x), int32(y), int32(x+w), int32(y), rl.DarkGray)
	y += 10

	l.drawMetrics(x, y)
	l.drawHints(x)
}

func (l *Lab) drawModelRow(x, y, w float32) float32 {
	rl.DrawText("Model", int32(x), int32(y+6), 14, rl.Gray)
	if gui.Button(rl.Rectangle{X: x + 60, Y: y, Width: w - 60, Height: 26}, l.ctrl.Model().Title()) {
		l.ctrl.SetModel(nextIn(reaction.IDs(), l.ctrl.Model().ID()))
	}
	return y + 34
}

func (l *Lab) drawPresets(x, y, w float32) float32 {
	for _, p := range l.ctrl.Model().Presets() {
		active := l.ctrl.Preset() == p.Name
		marker := rl.Color{R: 80, G: 80, B: 80, A: 255}
		if active {
			marker = rl.Color{R: 100, G: 200, B: 100, A: 255}
		}
		rl.DrawRectangle(int32(x), int32(y+8), 8, 8, marker)

		if gui.Button(rl.Rectangle{X: x + 14, Y: y, Width: w - 14, Height: 24}, p.Name) {
			l.ctrl.ApplyPreset(p.Name)
		}
		y += 28
	}
	return y + 6
}

func (l *Lab) drawSliders(x, y, w float32) float32 {
	params := l.ctrl.Params()
	for _, s := range l.ctrl.Model().Specs() {
		rl.DrawText(s.Label, int32(x), int32(y), 14, rl.Gray)
		val := fmt.Sprintf("%.4g", params[s.Key])
		rl.DrawText(val, int32(x+w)-rl.MeasureText(val, 14), int32(y), 14, rl.White)
		y += 16

		cur := float32(params[s.Key])
		nv := gui.SliderBar(
			rl.Rectangle{X: x, Y: y, Width: w, Height: 16},
			"", "",
			cur, float32(s.Min), float32(s.Max),
		)
		if nv != cur {
			l.ctrl.SetParam(s.Key, float64(nv))
		}
		y += 24
	}
	return y + 4
}

func (l *Lab) drawViewRow(x, y, w float32) float32 {
	half := (w - 10) / 2
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 26}, fmt.Sprintf("Grid %d", l.ctrl.Size())) {
		if err := l.ctrl.SetGridSize(nextSize(l.ctrl.Size())); err != nil {
			l.flash(err.Error())
		}
	}
	if gui.Button(rl.Rectangle{X: x + half + 10, Y: y, Width: half, Height: 26}, "Map "+render.Get(l.ctrl.Gradient()).Title) {
		l.ctrl.SetGradient(nextIn(render.IDs(), l.ctrl.Gradient()))
	}
	return y + 34
}

func (l *Lab) drawSpeedSlider(x, y, w float32) float32 {
	rl.DrawText("Steps / frame", int32(x), int32(y), 14, rl.Gray)
	val := fmt.Sprintf("%d", l.ctrl.StepsPerFrame())
	rl.DrawText(val, int32(x+w)-rl.MeasureText(val, 14), int32(y), 14, rl.White)
	y += 16

	cur := l.ctrl.StepsPerFrame()
	nk := gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: w, Height: 16},
		"1", "64",
		float32(cur), 1, 64,
	)
	if int(nk) != cur {
		l.ctrl.SetStepsPerFrame(int(nk))
	}
	return y + 26
}

func (l *Lab) drawTransport(x, y, w float32) float32 {
	bw := (w - 30) / 4
	running := l.ctrl.Phase() == sim.PhaseRunning

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: bw, Height: 28}, toggleText(running, "Pause", "Play")) {
		l.ctrl.Toggle()
	}
	if gui.Button(rl.Rectangle{X: x + bw + 10, Y: y, Width: bw, Height: 28}, "Step") {
		l.ctrl.StepOnce()
	}
	if gui.Button(rl.Rectangle{X: x + 2*(bw+10), Y: y, Width: bw, Height: 28}, "Reset") {
		l.ctrl.Reset()
	}
	if gui.Button(rl.Rectangle{X: x + 3*(bw+10), Y: y, Width: bw, Height: 28}, "Perturb") {
		l.ctrl.Perturb()
	}
	return y + 38
}

func (l *Lab) drawMetrics(x, y float32) {
	m := l.lastMetrics
	lines := []string{
		fmt.Sprintf("step %d", l.ctrl.StepCount()),
		fmt.Sprintf("coverage %.3f   delta %.4f", m.Coverage, m.Delta),
		fmt.Sprintf("clusters %.1f   edges %.3f", m.ClusterCount, m.EdgeDensity),
		fmt.Sprintf("symmetry %.2f   center %.2f,%.2f", m.Symmetry, m.CenterX, m.CenterY),
	}
	for _, line := range lines {
		rl.DrawText(line, int32(x), int32(y), 14, rl.LightGray)
		y += 18
	}

	perf := fmt.Sprintf("step %s   metrics %s   %d fps",
		l.ctrl.Perf().Avg("step").Round(time.Microsecond),
		l.ctrl.Perf().Avg("metrics").Round(time.Microsecond),
		rl.GetFPS(),
	)
	rl.DrawText(perf, int32(x), int32(y+4), 12, rl.Gray)
}

func (l *Lab) drawHints(x float32) {
	hints := []string{
		"[space] run/pause   [s] step   [r] reset   [p] perturb",
		"[,] [.] speed   [c] copy share link   [f11] fullscreen",
		"paint: left seed, right erase, wheel brush size",
	}
	y := int32(rl.GetScreenHeight()) - int32(len(hints))*16 - 36
	for _, h := range hints {
		rl.DrawText(h, int32(x), y, 12, rl.Color{R: 120, G: 120, B: 130, A: 255})
		y += 16
	}
}

// nextIn returns the element after cur in ids, wrapping around.
func nextIn(ids []string, cur string) string {
	for i, id := range ids {
		if id == cur {
			return ids[(i+1)%len(ids)]
		}
	}
	return ids[0]
}

// nextSize returns the supported grid size after n, wrapping around.
func nextSize(n int) int {
	for i, s := range sim.SupportedSizes {
		if s == n {
			return sim.SupportedSizes[(i+1)%len(sim.SupportedSizes)]
		}
	}
	return sim.SupportedSizes[0]
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
