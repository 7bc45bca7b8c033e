package lights

import "github.com/df07/go-direct-raytracer/pkg/core"

// AmbientLight lights every point equally, with no direction and no shadows
type AmbientLight struct {
	Color core.Color
}

// NewAmbientLight creates an ambient light
func NewAmbientLight(color core.Color) *AmbientLight {
	return &AmbientLight{Color: color}
}

func (al *AmbientLight) Type() LightType {
	return LightTypeAmbient
}

// LightAt always succeeds; ambient light is never occluded
func (al *AmbientLight) LightAt(occluder Occluder, point core.Vec3) (LightRay, bool) {
	return LightRay{Color: al.Color}, true
}
