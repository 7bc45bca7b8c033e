package scene

import (
	"math"

	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/geometry"
	"github.com/df07/go-direct-raytracer/pkg/lights"
)

// SpecularHardness is the exponent applied to the Blinn-Phong half-vector term
const SpecularHardness = 2.0

// Object is a shape paired with its surface color
type Object struct {
	Shape geometry.Shape
	Color core.Color
}

// Shade returns the light reflected toward out by a surface with the given
// normal. out points from the surface toward the viewer.
func (o *Object) Shade(normal core.Vec3, light lights.LightRay, out core.Vec3) core.Color {
	if !light.HasDirection {
		return light.Color.MulColor(o.Color)
	}

	lit := light.Color.MulColor(o.Color)

	intensity := core.Clamp(normal.Dot(light.Direction), 0, 1)
	diffuse := lit.Mul(intensity)

	// Blinn-Phong specular, modulated by the object color. The half vector
	// vanishes when the light comes straight from behind the surface.
	halfVector := light.Direction.Add(out)
	if halfVector.Len() < 1e-12 {
		return diffuse
	}
	nDotH := core.Clamp(normal.Dot(halfVector.Normalize()), 0, 1)
	specular := lit.Mul(math.Pow(nDotH, SpecularHardness))

	return diffuse.Add(specular)
}
