package lights

import "github.com/df07/go-direct-raytracer/pkg/core"

// DirectionalLight is a light infinitely far away shining along a fixed direction
type DirectionalLight struct {
	Color     core.Color
	Direction core.Vec3 // Unit direction the light travels in
}

// NewDirectionalLight creates a directional light travelling along direction
func NewDirectionalLight(color core.Color, direction core.Vec3) *DirectionalLight {
	return &DirectionalLight{
		Color:     color,
		Direction: direction.Normalize(),
	}
}

func (dl *DirectionalLight) Type() LightType {
	return LightTypeDirectional
}

// LightAt casts a shadow ray from point back toward the light
func (dl *DirectionalLight) LightAt(occluder Occluder, point core.Vec3) (LightRay, bool) {
	toLight := dl.Direction.Mul(-1)

	if _, blocked := occluder.AnyHit(core.NewRay(point, toLight)); blocked {
		return LightRay{}, false
	}

	return LightRay{
		Direction:    toLight,
		HasDirection: true,
		Color:        dl.Color,
	}, true
}
