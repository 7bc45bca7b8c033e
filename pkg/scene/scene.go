package scene

import (
	"fmt"
	"math"

	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/geometry"
	"github.com/df07/go-direct-raytracer/pkg/lights"
)

// HitEpsilon is the minimum ray parameter accepted as a hit, keeping shadow
// rays from re-hitting the surface they start on
const HitEpsilon = 1e-4

// Scene contains all the elements needed for rendering
type Scene struct {
	Camera         *geometry.Camera
	Objects        []Object       // Objects in the scene, in insertion order
	Lights         []lights.Light // Lights in the scene
	TopColor       core.Color     // Background color straight up
	BottomColor    core.Color     // Background color straight down
	SamplingConfig SamplingConfig
}

// SamplingConfig contains the preferred output settings of a scene
type SamplingConfig struct {
	Width          int // Image width
	Height         int // Image height
	SamplesPerSide int // Regular grid samples per pixel side
}

// NewScene creates an empty scene with the default camera and sky
func NewScene(camera *geometry.Camera) *Scene {
	if camera == nil {
		camera = geometry.NewCamera(geometry.DefaultCameraConfig())
	}
	return &Scene{
		Camera:      camera,
		Objects:     make([]Object, 0),
		Lights:      make([]lights.Light, 0),
		TopColor:    core.White,
		BottomColor: core.SkyBlue,
		SamplingConfig: SamplingConfig{
			Width:          400,
			Height:         225,
			SamplesPerSide: 4,
		},
	}
}

// AddObject adds a shape with the given color
func (s *Scene) AddObject(shape geometry.Shape, color core.Color) {
	s.Objects = append(s.Objects, Object{Shape: shape, Color: color})
}

// AddSphere adds a colored sphere
func (s *Scene) AddSphere(center core.Vec3, radius float64, color core.Color) {
	s.AddObject(geometry.NewSphere(center, radius), color)
}

// AddPlane adds a colored infinite plane
func (s *Scene) AddPlane(point, normal core.Vec3, color core.Color) {
	s.AddObject(geometry.NewPlane(point, normal), color)
}

// AddLight adds a light
func (s *Scene) AddLight(light lights.Light) {
	s.Lights = append(s.Lights, light)
}

// AddDirectionalLight adds a light shining along direction
func (s *Scene) AddDirectionalLight(color core.Color, direction core.Vec3) {
	s.AddLight(lights.NewDirectionalLight(color, direction))
}

// AddAmbientLight adds an ambient light
func (s *Scene) AddAmbientLight(color core.Color) {
	s.AddLight(lights.NewAmbientLight(color))
}

// FirstHit returns the nearest object along the ray
func (s *Scene) FirstHit(ray core.Ray) (*Object, *core.HitRecord, bool) {
	var closestObject *Object
	var closestHit *core.HitRecord
	closest := math.MaxFloat64

	for i := range s.Objects {
		if hit, isHit := s.Objects[i].Shape.Hit(ray, HitEpsilon, closest); isHit {
			if closestHit != nil && hit.T >= closest {
				continue
			}
			closest = hit.T
			closestObject = &s.Objects[i]
			closestHit = hit
		}
	}

	return closestObject, closestHit, closestHit != nil
}

// AnyHit returns the first intersection found in insertion order, which need
// not be the nearest
func (s *Scene) AnyHit(ray core.Ray) (*core.HitRecord, bool) {
	for i := range s.Objects {
		if hit, isHit := s.Objects[i].Shape.Hit(ray, HitEpsilon, math.MaxFloat64); isHit {
			return hit, true
		}
	}
	return nil, false
}

// TraceRay returns the directly lit color seen along the ray
func (s *Scene) TraceRay(ray core.Ray) core.Color {
	object, hit, isHit := s.FirstHit(ray)
	if !isHit {
		return s.BackgroundColor(ray.Direction)
	}

	out := ray.Direction.Mul(-1).Normalize()

	color := core.Black
	for _, light := range s.Lights {
		if lightRay, ok := light.LightAt(s, hit.Point); ok {
			color = color.Add(object.Shade(hit.Normal, lightRay, out))
		}
	}
	return color
}

// PreviewRay returns the unlit color of the nearest object, or the background
func (s *Scene) PreviewRay(ray core.Ray) core.Color {
	object, _, isHit := s.FirstHit(ray)
	if !isHit {
		return s.BackgroundColor(ray.Direction)
	}
	return object.Color
}

// BackgroundColor blends from BottomColor to TopColor by the height of direction
func (s *Scene) BackgroundColor(direction core.Vec3) core.Color {
	t := 0.5 * (direction.Normalize().Y() + 1.0)
	return s.BottomColor.Lerp(s.TopColor, t)
}

// RenderPixel traces the camera ray through viewport coordinates (h, v)
func (s *Scene) RenderPixel(h, v float64) core.Color {
	return s.TraceRay(s.Camera.GetRay(h, v))
}

// PreviewPixel is the unlit counterpart of RenderPixel
func (s *Scene) PreviewPixel(h, v float64) core.Color {
	return s.PreviewRay(s.Camera.GetRay(h, v))
}

// Summary returns a short description of the scene contents
func (s *Scene) Summary() string {
	directional, ambient := 0, 0
	for _, light := range s.Lights {
		switch light.Type() {
		case lights.LightTypeDirectional:
			directional++
		case lights.LightTypeAmbient:
			ambient++
		}
	}
	return fmt.Sprintf("%d objects, %d lights (%d directional, %d ambient)",
		len(s.Objects), len(s.Lights), directional, ambient)
}
