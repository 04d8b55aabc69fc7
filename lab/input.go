package lab

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/morphogen/reaction"
	"github.com/pthm-cable/morphogen/sim"
)

// handleInput processes keyboard and mouse input for one frame.
func (l *Lab) handleInput() {
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		l.ctrl.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyS) {
		l.ctrl.StepOnce()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		l.ctrl.Reset()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		l.ctrl.Perturb()
	}

	// Steps-per-frame control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) {
		l.ctrl.SetStepsPerFrame(l.ctrl.StepsPerFrame() - 1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		l.ctrl.SetStepsPerFrame(l.ctrl.StepsPerFrame() + 1)
	}

	if rl.IsKeyPressed(rl.KeyC) {
		link := l.ctrl.Share()
		rl.SetClipboardText(link)
		l.flash("share link copied to clipboard")
	}

	l.handleBrush()
}

// handleBrush turns pointer state over the viewport into this frame's
// brush overlay. Left paints seed material, right erases back to the
// substrate; the wheel adjusts the radius.
func (l *Lab) handleBrush() {
	mouse := rl.GetMousePosition()
	vp := l.viewport()
	if !inRect(mouse, vp) {
		return
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		l.brushRadius += wheel
		if l.brushRadius < 1 {
			l.brushRadius = 1
		}
		if l.brushRadius > maxBrush {
			l.brushRadius = maxBrush
		}
	}

	var mode reaction.BrushMode
	switch {
	case rl.IsMouseButtonDown(rl.MouseButtonLeft):
		mode = reaction.BrushSeed
	case rl.IsMouseButtonDown(rl.MouseButtonRight):
		mode = reaction.BrushErase
	default:
		return
	}

	l.ctrl.SetBrush(sim.Brush{
		Active: true,
		X:      (mouse.X - vp.X) / vp.Width,
		Y:      (mouse.Y - vp.Y) / vp.Height,
		Radius: l.brushRadius,
		Mode:   mode,
	})
}
