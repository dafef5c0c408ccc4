// Package mobius builds a textured Möbius strip mesh from its parametric form.
package mobius

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is returned for parameters that would give an empty or
// self-intersecting strip.
var ErrInvalidConfig = errors.New("mobius: invalid configuration")

// MaxVertices bounds the sample grid so every vertex stays addressable by
// a uint32 index with room to spare in memory.
const MaxVertices = 1 << 24

// Params define the strip geometry.
type Params struct {
	Radius    float64 // loop radius, center line to origin
	HalfWidth float64 // half of the strip width
	Slices    int     // cells around the loop
	Stacks    int     // cells across the strip
}

// DefaultParams returns the paper loop used by the viewer.
func DefaultParams() Params {
	return Params{
		Radius:    0.9,
		HalfWidth: 0.28,
		Slices:    240,
		Stacks:    40,
	}
}

// Validate reports whether the parameters describe a usable strip.
func (p Params) Validate() error {
	switch {
	case p.Slices < 1 || p.Stacks < 1:
		return fmt.Errorf("%w: need at least one slice and stack, got %dx%d", ErrInvalidConfig, p.Slices, p.Stacks)
	case int64(p.Slices) >= MaxVertices || int64(p.Stacks) >= MaxVertices ||
		(int64(p.Slices)+1)*(int64(p.Stacks)+1) > MaxVertices:
		return fmt.Errorf("%w: grid %dx%d exceeds %d vertices", ErrInvalidConfig, p.Slices, p.Stacks, MaxVertices)
	case !finite(p.Radius) || !finite(p.HalfWidth):
		return fmt.Errorf("%w: radius %v, half width %v", ErrInvalidConfig, p.Radius, p.HalfWidth)
	case p.Radius <= 0:
		return fmt.Errorf("%w: radius must be positive, got %v", ErrInvalidConfig, p.Radius)
	case p.HalfWidth <= 0:
		return fmt.Errorf("%w: half width must be positive, got %v", ErrInvalidConfig, p.HalfWidth)
	case p.HalfWidth >= p.Radius:
		return fmt.Errorf("%w: half width %v reaches the loop center (radius %v)", ErrInvalidConfig, p.HalfWidth, p.Radius)
	}
	return nil
}

// Point evaluates the strip at (u, v) in [0,1]x[0,1].
// u runs once around the loop, v across the strip width. The half-angle
// term gives the single twist: Point(0, v) == Point(1, 1-v).
// The result is emitted as (x, z, y) so the loop lies in the XZ plane.
func Point(u, v, radius, halfWidth float64) [3]float64 {
	angle := u * 2 * math.Pi
	offset := (v - 0.5) * 2 * halfWidth

	r := radius + offset*math.Cos(angle/2)
	x := r * math.Cos(angle)
	y := r * math.Sin(angle)
	z := offset * math.Sin(angle/2)

	return [3]float64{x, z, y}
}

// GenerateMobiusSurface builds a strip with the given radius, half width
// and grid resolution.
func GenerateMobiusSurface(radius, halfWidth float64, slices, stacks int) (*Mesh, error) {
	return Generate(Params{Radius: radius, HalfWidth: halfWidth, Slices: slices, Stacks: stacks})
}

// Generate samples the strip on a (Slices+1) x (Stacks+1) grid, stitches
// two triangles per cell and smooths the normals. The result depends only
// on p.
func Generate(p Params) (*Mesh, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	cols := p.Slices + 1
	rows := p.Stacks + 1

	m := &Mesh{
		Params:   p,
		Vertices: make([]Vertex, 0, cols*rows),
		Indices:  make([]uint32, 0, p.Slices*p.Stacks*6),
		Bounds:   emptyBounds(),
	}

	for i := 0; i < rows; i++ {
		v := float64(i) / float64(p.Stacks)
		for j := 0; j < cols; j++ {
			u := float64(j) / float64(p.Slices)
			pt := Point(u, v, p.Radius, p.HalfWidth)
			pos := [3]float32{float32(pt[0]), float32(pt[1]), float32(pt[2])}

			m.Bounds.extend(pos)
			m.Vertices = append(m.Vertices, Vertex{
				Position: pos,
				TexCoord: [2]float32{float32(u), float32(v)},
			})
		}
	}

	// The seam columns (j == 0 and j == Slices) meet with the strip flipped,
	// so they are not welded: each keeps its own UV and normal.
	for i := 0; i < p.Stacks; i++ {
		for j := 0; j < p.Slices; j++ {
			a := uint32(i*cols + j)
			b := uint32(i*cols + j + 1)
			c := uint32((i+1)*cols + j + 1)
			d := uint32((i+1)*cols + j)

			m.Indices = append(m.Indices, a, b, d, b, c, d)
		}
	}

	ComputeNormals(m.Vertices, m.Indices)

	return m, nil
}

// ComputeNormals sets each vertex normal to the normalized sum of the
// normals of the triangles that use it. Triangle normals are left
// unnormalized so larger faces weigh more. Vertices with no area around
// them get +Y.
func ComputeNormals(vertices []Vertex, indices []uint32) {
	sums := make([][3]float64, len(vertices))

	for t := 0; t+2 < len(indices); t += 3 {
		ia, ib, ic := indices[t], indices[t+1], indices[t+2]
		a := widen(vertices[ia].Position)
		b := widen(vertices[ib].Position)
		c := widen(vertices[ic].Position)

		n := cross(sub(c, b), sub(a, b))
		for _, idx := range [3]uint32{ia, ib, ic} {
			sums[idx][0] += n[0]
			sums[idx][1] += n[1]
			sums[idx][2] += n[2]
		}
	}

	for i := range vertices {
		vertices[i].Normal = normalize(sums[i])
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
