// Package lab is the interactive raylib front end. It owns the grid
// texture, the control panel, and the pointer-to-grid mapping, and
// drives a sim.Controller one display frame at a time.
package lab

import (
	"image/color"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/morphogen/config"
	"github.com/pthm-cable/morphogen/metrics"
	"github.com/pthm-cable/morphogen/render"
	"github.com/pthm-cable/morphogen/sim"
)

const (
	panelWidth  = 330
	margin      = 10
	maxBrush    = 32
	statusFlash = 2 * time.Second
)

// Lab couples a controller to the window. The texture is recreated
// whenever the grid is resized; everything else redraws from live
// controller state each frame.
type Lab struct {
	ctrl *sim.Controller

	texture rl.Texture2D
	pixels  []color.RGBA
	texSize int

	brushRadius float32

	lastMetrics metrics.Metrics
	status      string
	statusUntil time.Time
}

// New builds the view for an already constructed controller. The
// raylib window must be open.
func New(ctrl *sim.Controller) *Lab {
	l := &Lab{
		ctrl:        ctrl,
		brushRadius: config.Cfg().Derived.BrushRadius,
	}
	l.rebuildTexture()
	ctrl.OnMetrics(func(m metrics.Metrics) { l.lastMetrics = m })
	return l
}

// Unload releases the GPU texture.
func (l *Lab) Unload() {
	if l.texSize > 0 {
		rl.UnloadTexture(l.texture)
		l.texSize = 0
	}
}

// Update processes input and advances the simulation one frame.
func (l *Lab) Update() {
	l.handleInput()
	l.ctrl.Update()
}

// Draw uploads the current field and renders the frame.
func (l *Lab) Draw() {
	start := time.Now()
	if l.ctrl.Size() != l.texSize {
		l.rebuildTexture()
	}

	lo, hi := l.ctrl.DisplayRange()
	render.Map(l.pixels, l.ctrl.Frame(), render.Get(l.ctrl.Gradient()), lo, hi)
	rl.UpdateTexture(l.texture, l.pixels)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 18, G: 18, B: 24, A: 255})

	vp := l.viewport()
	rl.DrawTexturePro(
		l.texture,
		rl.Rectangle{X: 0, Y: 0, Width: float32(l.texSize), Height: float32(l.texSize)},
		vp,
		rl.Vector2{X: 0, Y: 0},
		0,
		rl.White,
	)
	rl.DrawRectangleLines(int32(vp.X), int32(vp.Y), int32(vp.Width), int32(vp.Height), rl.DarkGray)

	l.drawBrushCursor(vp)
	l.drawPanel()
	l.drawStatus()

	rl.EndDrawing()
	l.ctrl.Perf().Record("render", time.Since(start))
}

// rebuildTexture resizes the GPU texture and pixel buffer to match the
// controller's grid.
func (l *Lab) rebuildTexture() {
	if l.texSize > 0 {
		rl.UnloadTexture(l.texture)
	}
	n := l.ctrl.Size()
	img := rl.GenImageColor(n, n, rl.Black)
	l.texture = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	l.texSize = n
	l.pixels = make([]color.RGBA, n*n)
}

// viewport returns the square screen rectangle the grid is drawn
// into, letterboxed left of the control panel.
func (l *Lab) viewport() rl.Rectangle {
	w := float32(rl.GetScreenWidth()) - panelWidth - 3*margin
	h := float32(rl.GetScreenHeight()) - 2*margin
	side := w
	if h < side {
		side = h
	}
	return rl.Rectangle{
		X:      margin + (w-side)/2,
		Y:      margin + (h-side)/2,
		Width:  side,
		Height: side,
	}
}

// flash shows msg at the bottom of the panel for a couple seconds.
func (l *Lab) flash(msg string) {
	l.status = msg
	l.statusUntil = time.Now().Add(statusFlash)
}

func (l *Lab) drawBrushCursor(vp rl.Rectangle) {
	mouse := rl.GetMousePosition()
	if !inRect(mouse, vp) {
		return
	}
	// Brush radius in cells, scaled to screen pixels.
	r := l.brushRadius * vp.Width / float32(l.ctrl.Size())
	rl.DrawCircleLines(int32(mouse.X), int32(mouse.Y), r, rl.Gray)
}

func inRect(p rl.Vector2, r rl.Rectangle) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

func (l *Lab) drawStatus() {
	if l.status == "" || time.Now().After(l.statusUntil) {
		return
	}
	y := int32(rl.GetScreenHeight()) - 28
	rl.DrawText(l.status, margin+4, y, 16, rl.SkyBlue)
}
