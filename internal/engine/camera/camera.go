// Package camera provides the orbit camera and projection for the scene.
package camera

import (
	gomath "math"

	"github.com/chewxy/math32"

	"github.com/Faultbox/mobius-paper/pkg/math"
)

// OrbitCamera orbits around a fixed target. The target never moves:
// there is no panning.
type OrbitCamera struct {
	// Point to orbit around
	Target math.Vec3

	// Spherical coordinates
	Distance  float32 // Distance from target
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates a camera at eye looking at target, with zoom
// limited to [minDistance, maxDistance].
func NewOrbitCamera(eye, target math.Vec3, minDistance, maxDistance float32) *OrbitCamera {
	c := &OrbitCamera{
		Target:          target,
		MinDistance:     minDistance,
		MaxDistance:     maxDistance,
		MinPitch:        -gomath.Pi/2 + 0.01,
		MaxPitch:        gomath.Pi/2 - 0.01,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.05,
	}
	c.LookFrom(eye)
	return c
}

// LookFrom places the camera at eye, keeping the target.
// Distance and pitch are clamped to the camera limits.
func (c *OrbitCamera) LookFrom(eye math.Vec3) {
	offset := eye.Sub(c.Target)
	d := offset.Length()
	if d == 0 {
		d = c.MinDistance
		offset = math.Vec3{Z: d}
	}

	c.Distance = d
	c.RotationX = math32.Asin(offset.Y / d)
	c.RotationY = math32.Atan2(offset.X, offset.Z)
	c.clampPitch()
	c.clampDistance()
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	cosPitch := math32.Cos(c.RotationX)
	x := c.Distance * cosPitch * math32.Sin(c.RotationY)
	y := c.Distance * math32.Sin(c.RotationX)
	z := c.Distance * cosPitch * math32.Cos(c.RotationY)

	return c.Target.Add(math.Vec3{X: x, Y: y, Z: z})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	up := math.Vec3{X: 0, Y: 1, Z: 0}
	return math.LookAt(c.Position(), c.Target, up)
}

// HandleDrag updates rotation based on mouse drag delta in pixels.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX += deltaY * c.DragSensitivity
	c.clampPitch()
}

// HandleZoom updates distance based on scroll wheel delta.
// Positive delta moves closer.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.clampDistance()
}

func (c *OrbitCamera) clampPitch() {
	if c.RotationX < c.MinPitch {
		c.RotationX = c.MinPitch
	}
	if c.RotationX > c.MaxPitch {
		c.RotationX = c.MaxPitch
	}
}

func (c *OrbitCamera) clampDistance() {
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// Projection is a perspective projection with a vertical field of view.
type Projection struct {
	FovY float32 // degrees
	Near float32
	Far  float32
}

// Matrix returns the projection matrix for a viewport of the given size.
func (p Projection) Matrix(width, height int) math.Mat4 {
	aspect := float32(1)
	if width > 0 && height > 0 {
		aspect = float32(width) / float32(height)
	}
	return math.Perspective(p.FovY*gomath.Pi/180, aspect, p.Near, p.Far)
}
