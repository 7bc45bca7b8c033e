package renderer

import (
	"math"
	"testing"

	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/geometry"
	"github.com/df07/go-direct-raytracer/pkg/scene"
)

func TestTracer_Update_Movement(t *testing.T) {
	s := scene.NewScene(nil)
	tracer := newTestTracer(t, s, 4, 4, DefaultTracerConfig())
	tracer.StartRender()

	tracer.SetMovement(geometry.CameraMovement{Forward: 2})
	if tracer.Movement().Forward != 2 {
		t.Errorf("Expected forward rate 2, got %f", tracer.Movement().Forward)
	}
	if tracer.Status() != StatusFinished {
		t.Errorf("Setting rates alone should not invalidate, got %s", tracer.Status())
	}

	if !tracer.Update(0.5) {
		t.Fatal("Expected Update to move the camera")
	}
	if !s.Camera.Origin().ApproxEqualThreshold(core.NewVec3(0, 0, -4), 1e-12) {
		t.Errorf("Expected origin (0,0,-4) after half a second at 2 units/s, got %v", s.Camera.Origin())
	}
	if tracer.Status() != StatusNeedsQuickRender {
		t.Errorf("Expected movement to invalidate the render, got %s", tracer.Status())
	}
}

func TestTracer_Update_NoMovement(t *testing.T) {
	s := scene.NewScene(nil)
	tracer := newTestTracer(t, s, 4, 4, DefaultTracerConfig())
	tracer.StartRender()
	before := s.Camera.Config()

	if tracer.Update(1) {
		t.Error("Expected no movement without rates")
	}

	tracer.SetMovement(geometry.CameraMovement{Yaw: 1})
	if tracer.Update(0) || tracer.Update(-1) {
		t.Error("Expected no movement for non-positive dt")
	}

	if s.Camera.Config() != before {
		t.Errorf("Camera changed: %+v -> %+v", before, s.Camera.Config())
	}
	if tracer.Status() != StatusFinished {
		t.Errorf("Expected render to stay finished, got %s", tracer.Status())
	}
}

func TestTracer_Update_Orbit(t *testing.T) {
	s := scene.NewScene(nil)
	tracer := newTestTracer(t, s, 4, 4, DefaultTracerConfig())

	tracer.SetOrbit(core.NewVec3(0, 0, 0), math.Pi/4)
	tracer.Update(1)
	tracer.Update(1)

	if !s.Camera.Origin().ApproxEqualThreshold(core.NewVec3(-5, 0, 0), 1e-9) {
		t.Errorf("Expected origin (-5,0,0) after a quarter orbit, got %v", s.Camera.Origin())
	}
	if !s.Camera.Direction().ApproxEqualThreshold(core.NewVec3(1, 0, 0), 1e-9) {
		t.Errorf("Expected camera to face the center, got %v", s.Camera.Direction())
	}

	tracer.SetOrbit(core.NewVec3(0, 0, 0), 0)
	if tracer.Update(1) {
		t.Error("Expected a zero orbit speed to stop orbiting")
	}
}
