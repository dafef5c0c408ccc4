// Package motion holds the time-driven animation state of the scene.
package motion

import gomath "math"

// Rates are angular speeds in radians per second.
type Rates struct {
	X float64
	Y float64
}

// DefaultRates turns the loop slowly about two axes at different speeds.
func DefaultRates() Rates {
	return Rates{X: 0.25, Y: 0.35}
}

// Spin is the rotation state of the paper loop. It only records elapsed
// time; angles are derived from it on demand.
type Spin struct {
	Elapsed float64 // seconds
}

// Advance returns s moved forward by dt seconds.
// Negative or NaN dt leaves the state unchanged.
func Advance(s Spin, dt float64) Spin {
	if !(dt > 0) {
		return s
	}
	return Spin{Elapsed: s.Elapsed + dt}
}

// Angles returns the rotation about X and Y for the given rates,
// wrapped to one turn so float32 precision holds over long sessions.
func (s Spin) Angles(r Rates) (x, y float32) {
	return wrap(s.Elapsed * r.X), wrap(s.Elapsed * r.Y)
}

func wrap(angle float64) float32 {
	return float32(gomath.Mod(angle, 2*gomath.Pi))
}
