package geometry

import (
	"math"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

// maxPitchDot bounds |direction·up| so pitching never aligns the view with up,
// which would collapse the camera basis
const maxPitchDot = 0.999

// CameraConfig contains the canonical camera parameters. Everything else the
// camera stores is derived from these.
type CameraConfig struct {
	Origin      core.Vec3 // Camera position
	Direction   core.Vec3 // Viewing direction (normalized by the camera)
	Up          core.Vec3 // Up vector, need not be perpendicular to Direction
	VerticalFOV float64   // Vertical field of view in radians
	AspectRatio float64   // Width / height
}

// DefaultCameraConfig returns a camera 5 units back on -Z looking down +Z
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Origin:      core.NewVec3(0, 0, -5),
		Direction:   core.NewVec3(0, 0, 1),
		Up:          core.NewVec3(0, 1, 0),
		VerticalFOV: math.Pi / 3,
		AspectRatio: 16.0 / 9.0,
	}
}

// CameraMovement is a movement delta: translation along the ground-projected
// forward, strafe (right) and up axes, plus yaw about up and pitch about the
// strafe axis in radians
type CameraMovement struct {
	Forward  float64
	Strafe   float64
	Vertical float64
	Yaw      float64
	Pitch    float64
}

// IsZero reports whether the movement does nothing
func (m CameraMovement) IsZero() bool {
	return m == CameraMovement{}
}

// Scale returns the movement with every component multiplied by factor
func (m CameraMovement) Scale(factor float64) CameraMovement {
	return CameraMovement{
		Forward:  m.Forward * factor,
		Strafe:   m.Strafe * factor,
		Vertical: m.Vertical * factor,
		Yaw:      m.Yaw * factor,
		Pitch:    m.Pitch * factor,
	}
}

// Camera is a perspective camera with a movable pose
type Camera struct {
	origin      core.Vec3
	direction   core.Vec3 // unit, world forward
	up          core.Vec3
	verticalFOV float64
	aspectRatio float64

	// Derived from the fields above by recalculate
	horizontal      core.Vec3
	vertical        core.Vec3
	lowerLeftCorner core.Vec3
}

// NewCamera creates a camera from the given configuration
func NewCamera(config CameraConfig) *Camera {
	c := &Camera{
		origin:      config.Origin,
		direction:   config.Direction.Normalize(),
		up:          config.Up,
		verticalFOV: config.VerticalFOV,
		aspectRatio: config.AspectRatio,
	}
	c.recalculate()
	return c
}

// GetRay returns the ray through viewport coordinates (h, v), the fractions
// across the viewport from the left and bottom edges
func (c *Camera) GetRay(h, v float64) core.Ray {
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Mul(h)).
		Add(c.vertical.Mul(v)).
		Sub(c.origin)

	return core.NewRay(c.origin, direction)
}

// recalculate derives the viewport vectors from the canonical parameters
func (c *Camera) recalculate() {
	viewportHeight := 2.0 * math.Tan(c.verticalFOV/2)
	viewportWidth := c.aspectRatio * viewportHeight

	// w points backwards, away from the scene
	w := c.direction.Mul(-1)
	u := c.up.Cross(w).Normalize()
	v := w.Cross(u)

	c.horizontal = u.Mul(viewportWidth)
	c.vertical = v.Mul(viewportHeight)
	c.lowerLeftCorner = c.origin.
		Sub(c.horizontal.Mul(0.5)).
		Sub(c.vertical.Mul(0.5)).
		Sub(w)
}

// Config returns the canonical parameters of the camera
func (c *Camera) Config() CameraConfig {
	return CameraConfig{
		Origin:      c.origin,
		Direction:   c.direction,
		Up:          c.up,
		VerticalFOV: c.verticalFOV,
		AspectRatio: c.aspectRatio,
	}
}

func (c *Camera) Origin() core.Vec3    { return c.origin }
func (c *Camera) Direction() core.Vec3 { return c.direction }
func (c *Camera) Up() core.Vec3        { return c.up }
func (c *Camera) VerticalFOV() float64 { return c.verticalFOV }
func (c *Camera) AspectRatio() float64 { return c.aspectRatio }

// HorizontalFOV returns the horizontal field of view implied by the vertical
// field of view and the aspect ratio
func (c *Camera) HorizontalFOV() float64 {
	return 2 * math.Atan(math.Tan(c.verticalFOV/2)*c.aspectRatio)
}

// SetOrigin moves the camera
func (c *Camera) SetOrigin(origin core.Vec3) {
	c.origin = origin
	c.recalculate()
}

// SetDirection sets the viewing direction
func (c *Camera) SetDirection(direction core.Vec3) {
	c.direction = direction.Normalize()
	c.recalculate()
}

// SetOriginAndDirection sets both the position and the viewing direction
func (c *Camera) SetOriginAndDirection(origin, direction core.Vec3) {
	c.origin = origin
	c.direction = direction.Normalize()
	c.recalculate()
}

// LookAt points the camera at target
func (c *Camera) LookAt(target core.Vec3) {
	c.SetDirection(target.Sub(c.origin))
}

// SetVerticalFOV sets the vertical field of view in radians
func (c *Camera) SetVerticalFOV(verticalFOV float64) {
	c.verticalFOV = verticalFOV
	c.recalculate()
}

// SetHorizontalFOV sets the vertical field of view that yields the given
// horizontal field of view at the stored aspect ratio
func (c *Camera) SetHorizontalFOV(horizontalFOV float64) {
	c.verticalFOV = 2 * math.Atan(math.Tan(horizontalFOV/2)/c.aspectRatio)
	c.recalculate()
}

// SetAspectRatio sets the width / height ratio of the viewport
func (c *Camera) SetAspectRatio(aspectRatio float64) {
	c.aspectRatio = aspectRatio
	c.recalculate()
}

// groundAxes returns the unit up vector, the view direction projected onto the
// plane perpendicular to up, and the strafe (right) axis for direction
func (c *Camera) groundAxes(direction core.Vec3) (up, forward, strafe core.Vec3) {
	up = c.up.Normalize()
	forward = direction.Sub(up.Mul(direction.Dot(up))).Normalize()
	strafe = forward.Cross(up).Normalize()
	return up, forward, strafe
}

// Move translates the camera along the ground-projected view axes and turns it
// by yaw about up and pitch about the strafe axis
func (c *Camera) Move(m CameraMovement) {
	if m.IsZero() {
		return
	}

	up, forward, strafe := c.groundAxes(c.direction)
	c.origin = c.origin.
		Add(forward.Mul(m.Forward)).
		Add(strafe.Mul(m.Strafe)).
		Add(up.Mul(m.Vertical))

	direction := c.direction
	if m.Yaw != 0 {
		direction = core.Rotate(direction, up, m.Yaw)
	}
	if m.Pitch != 0 {
		_, _, strafe = c.groundAxes(direction)
		pitched := core.Rotate(direction, strafe, m.Pitch)
		if math.Abs(pitched.Dot(up)) <= maxPitchDot {
			direction = pitched
		}
	}

	c.direction = direction.Normalize()
	c.recalculate()
}

// Orbit rotates the camera position about the up axis through center by angle
// radians and turns the camera to face center
func (c *Camera) Orbit(center core.Vec3, angle float64) {
	offset := core.Rotate(c.origin.Sub(center), c.up, angle)
	c.origin = center.Add(offset)
	c.direction = center.Sub(c.origin).Normalize()
	c.recalculate()
}
