package scene

import (
	"math"

	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/geometry"
)

// NewDefaultScene creates three spheres on a ground plane under a sun and sky light
func NewDefaultScene() *Scene {
	s := NewScene(geometry.NewCamera(geometry.CameraConfig{
		Origin:      core.NewVec3(0, 1, -5),
		Direction:   core.NewVec3(0, -0.15, 1),
		Up:          core.NewVec3(0, 1, 0),
		VerticalFOV: math.Pi / 3,
		AspectRatio: 16.0 / 9.0,
	}))

	s.AddPlane(core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0), core.NewColor(0.5, 0.5, 0.5))

	s.AddSphere(core.NewVec3(0, 0, 0), 1, core.NewColor(0.8, 0.3, 0.3))
	s.AddSphere(core.NewVec3(-2.2, -0.4, 1), 0.6, core.NewColor(0.3, 0.8, 0.3))
	s.AddSphere(core.NewVec3(2.2, -0.4, 1), 0.6, core.NewColor(0.3, 0.3, 0.8))

	// Warm sun from the upper left, cool sky fill
	s.AddDirectionalLight(core.NewColor(0.9, 0.85, 0.8), core.NewVec3(1, -1, 0.5))
	s.AddAmbientLight(core.NewColor(0.1, 0.12, 0.15))

	return s
}
