package scene

import (
	"math"

	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/geometry"
)

// NewShadowsScene creates spheres of different heights under two low lights
// so their shadows overlap on the ground
func NewShadowsScene() *Scene {
	s := NewScene(geometry.NewCamera(geometry.CameraConfig{
		Origin:      core.NewVec3(0, 4, -8),
		Direction:   core.NewVec3(0, -4, 8),
		Up:          core.NewVec3(0, 1, 0),
		VerticalFOV: math.Pi / 4,
		AspectRatio: 16.0 / 9.0,
	}))
	s.TopColor = core.NewColor(0.2, 0.2, 0.3)
	s.BottomColor = core.Black

	s.AddPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), core.NewColor(0.9, 0.9, 0.9))

	s.AddSphere(core.NewVec3(-1.5, 0.5, 0), 0.5, core.Red)
	s.AddSphere(core.NewVec3(0, 1.5, 0.5), 0.4, core.Green)
	s.AddSphere(core.NewVec3(1.5, 0.75, -0.5), 0.75, core.Blue)

	s.AddDirectionalLight(core.NewColor(0.6, 0.5, 0.4), core.NewVec3(1, -0.6, 0.3))
	s.AddDirectionalLight(core.NewColor(0.3, 0.35, 0.5), core.NewVec3(-1, -0.8, 0.2))
	s.AddAmbientLight(core.NewColor(0.05, 0.05, 0.05))

	return s
}
