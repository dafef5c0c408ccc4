// Package lighting holds the light rig for the paper scene: one ambient
// term and one directional light.
package lighting

import "github.com/chewxy/math32"

// Ambient light reaches every surface equally.
type Ambient struct {
	Color     [3]float32 // RGB color (0-1 range)
	Intensity float32
}

// Radiance returns color scaled by intensity.
func (a Ambient) Radiance() [3]float32 {
	return scale(a.Color, a.Intensity)
}

// Directional is a light infinitely far away, placed at Position and
// shining toward the origin.
type Directional struct {
	Position  [3]float32
	Color     [3]float32 // RGB color (0-1 range)
	Intensity float32
}

// Direction returns the normalized vector from the origin toward the light.
// A light at the origin points straight down onto the scene.
func (d Directional) Direction() [3]float32 {
	p := d.Position
	l := math32.Sqrt(p[0]*p[0] + p[1]*p[1] + p[2]*p[2])
	if l == 0 {
		return [3]float32{0, 1, 0}
	}
	return [3]float32{p[0] / l, p[1] / l, p[2] / l}
}

// Radiance returns color scaled by intensity.
func (d Directional) Radiance() [3]float32 {
	return scale(d.Color, d.Intensity)
}

// Rig is the full set of lights for one frame.
type Rig struct {
	Ambient Ambient
	Sun     Directional
}

// DefaultRig returns white ambient at 0.6 and a white key light at
// (3, 5, 2) with intensity 1.2.
func DefaultRig() Rig {
	white := [3]float32{1, 1, 1}
	return Rig{
		Ambient: Ambient{Color: white, Intensity: 0.6},
		Sun: Directional{
			Position:  [3]float32{3, 5, 2},
			Color:     white,
			Intensity: 1.2,
		},
	}
}

func scale(c [3]float32, k float32) [3]float32 {
	if k < 0 {
		k = 0
	}
	return [3]float32{c[0] * k, c[1] * k, c[2] * k}
}
