package lights

import "github.com/df07/go-direct-raytracer/pkg/core"

type LightType string

const (
	LightTypeDirectional LightType = "directional"
	LightTypeAmbient     LightType = "ambient"
)

// Occluder answers shadow queries for lights (scene interface to avoid circular imports)
type Occluder interface {
	// AnyHit returns any intersection along the ray, not necessarily the nearest
	AnyHit(ray core.Ray) (*core.HitRecord, bool)
}

// Light interface for sources evaluated by direct lighting
type Light interface {
	Type() LightType

	// LightAt returns the light arriving at point. ok is false when the point
	// is in shadow with respect to this light.
	LightAt(occluder Occluder, point core.Vec3) (LightRay, bool)
}

// LightRay is the light arriving at a surface point
type LightRay struct {
	Direction    core.Vec3  // Unit direction from the point toward the light
	HasDirection bool       // False for ambient light
	Color        core.Color // Incoming light color
}
