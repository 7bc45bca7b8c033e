package renderer

import (
	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/geometry"
)

// cameraController holds the camera motion applied by Update
type cameraController struct {
	movement    geometry.CameraMovement // Rates in units and radians per second
	orbiting    bool
	orbitCenter core.Vec3
	orbitSpeed  float64 // Radians per second
}

// SetMovement sets the camera movement rates applied on each Update
func (t *Tracer) SetMovement(movement geometry.CameraMovement) {
	t.controller.movement = movement
}

// Movement returns the current camera movement rates
func (t *Tracer) Movement() geometry.CameraMovement {
	return t.controller.movement
}

// SetOrbit makes Update circle the camera around center. A zero speed stops orbiting.
func (t *Tracer) SetOrbit(center core.Vec3, radiansPerSecond float64) {
	t.controller.orbiting = radiansPerSecond != 0
	t.controller.orbitCenter = center
	t.controller.orbitSpeed = radiansPerSecond
}

// Update advances the camera by dt seconds of motion and marks the buffer
// stale if the camera moved. It never renders. Returns whether the camera moved.
func (t *Tracer) Update(dt float64) bool {
	if dt <= 0 {
		return false
	}

	moved := false
	camera := t.scene.Camera

	if movement := t.controller.movement.Scale(dt); !movement.IsZero() {
		camera.Move(movement)
		moved = true
	}

	if t.controller.orbiting {
		camera.Orbit(t.controller.orbitCenter, t.controller.orbitSpeed*dt)
		moved = true
	}

	if moved {
		t.Invalidate()
	}
	return moved
}
