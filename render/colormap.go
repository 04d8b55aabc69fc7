// Package render maps one grid channel to RGBA pixels through named
// five-stop gradients. It is stateless and UI-free; callers hand the
// filled pixel buffer to whatever displays or encodes it.
package render

import (
	"image/color"
	"sort"
)

// Gradient is a five-stop color ramp sampled by piecewise-linear
// interpolation over [0,1].
type Gradient struct {
	ID    string
	Title string
	Stops [5]color.RGBA
}

// DefaultID is the gradient used when an unknown id is requested.
const DefaultID = "thermal"

var gradients = map[string]Gradient{
	"thermal": {
		ID: "thermal", Title: "Thermal",
		Stops: [5]color.RGBA{
			{0, 0, 0, 255},
			{64, 0, 96, 255},
			{192, 32, 64, 255},
			{255, 160, 32, 255},
			{255, 255, 224, 255},
		},
	},
	"ocean": {
		ID: "ocean", Title: "Ocean",
		Stops: [5]color.RGBA{
			{4, 8, 32, 255},
			{8, 40, 112, 255},
			{16, 104, 176, 255},
			{64, 192, 208, 255},
			{224, 248, 255, 255},
		},
	},
	"verdant": {
		ID: "verdant", Title: "Verdant",
		Stops: [5]color.RGBA{
			{8, 16, 8, 255},
			{16, 64, 32, 255},
			{32, 128, 48, 255},
			{128, 200, 64, 255},
			{240, 255, 192, 255},
		},
	},
	"mono": {
		ID: "mono", Title: "Mono",
		Stops: [5]color.RGBA{
			{0, 0, 0, 255},
			{64, 64, 64, 255},
			{128, 128, 128, 255},
			{192, 192, 192, 255},
			{255, 255, 255, 255},
		},
	},
	"neon": {
		ID: "neon", Title: "Neon",
		Stops: [5]color.RGBA{
			{8, 0, 16, 255},
			{96, 0, 160, 255},
			{224, 0, 224, 255},
			{64, 224, 255, 255},
			{224, 255, 255, 255},
		},
	},
}

// Get returns the gradient registered under id, or the default table
// for unknown ids.
func Get(id string) Gradient {
	if g, ok := gradients[id]; ok {
		return g
	}
	return gradients[DefaultID]
}

// Known reports whether id names a registered gradient.
func Known(id string) bool {
	_, ok := gradients[id]
	return ok
}

// IDs returns the registered gradient ids, sorted.
func IDs() []string {
	ids := make([]string, 0, len(gradients))
	for id := range gradients {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Map writes one pixel per value into buf, spanning [lo,hi] across
// g's stops. Values outside the range clamp to the end stops. buf
// must hold at least len(values) pixels.
func Map(buf []color.RGBA, values []float32, g Gradient, lo, hi float32) {
	span := hi - lo
	inv := float32(0)
	if span > 0 {
		inv = 1 / span
	}

	for i, v := range values {
		t := (v - lo) * inv
		if t < 0 {
			t = 0
		}
		if t > 1 {
			t = 1
		}

		// Position within the four stop segments.
		pos := t * 4
		seg := int(pos)
		if seg > 3 {
			seg = 3
		}
		frac := pos - float32(seg)

		a := g.Stops[seg]
		b := g.Stops[seg+1]
		buf[i] = color.RGBA{
			R: lerp8(a.R, b.R, frac),
			G: lerp8(a.G, b.G, frac),
			B: lerp8(a.B, b.B, frac),
			A: 255,
		}
	}
}

func lerp8(a, b uint8, t float32) uint8 {
	return uint8(float32(a) + (float32(b)-float32(a))*t + 0.5)
}
