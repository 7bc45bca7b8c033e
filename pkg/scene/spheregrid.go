package scene

import (
	"math"

	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/geometry"
)

// oklchToRGB converts OKLCH color values to RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Color {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	return core.NewColor(core.Clamp(r, 0, 1), core.Clamp(g, 0, 1), core.Clamp(blue, 0, 1))
}

// NewSphereGridScene creates a grid of rainbow-colored spheres on a ground plane
func NewSphereGridScene() *Scene {
	s := NewScene(geometry.NewCamera(geometry.CameraConfig{
		Origin:      core.NewVec3(4.5, 6, -9),
		Direction:   core.NewVec3(0, -5.2, 13.5),
		Up:          core.NewVec3(0, 1, 0),
		VerticalFOV: 40 * math.Pi / 180,
		AspectRatio: 16.0 / 9.0,
	}))
	s.SamplingConfig.Width = 800
	s.SamplingConfig.Height = 450

	s.AddPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), core.NewColor(0.5, 0.5, 0.5))

	gridSize := 10
	targetArea := 9.0
	spacing := targetArea / float64(gridSize-1)
	sphereRadius := spacing * 0.35

	// Hue varies along X, chroma along Z
	baseLightness := 0.65
	minChroma := 0.05
	maxChroma := 0.25

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			x := float64(i) * spacing
			z := float64(j) * spacing
			position := core.NewVec3(x, sphereRadius, z)

			hue := (float64(i) / float64(gridSize-1)) * 360.0
			chroma := minChroma + (float64(j)/float64(gridSize-1))*(maxChroma-minChroma)
			lightness := baseLightness + 0.1*math.Sin(float64(i+j)*0.5)

			s.AddSphere(position, sphereRadius, oklchToRGB(lightness, chroma, hue))
		}
	}

	s.AddDirectionalLight(core.NewColor(0.85, 0.8, 0.75), core.NewVec3(-0.5, -1, 0.6))
	s.AddAmbientLight(core.NewColor(0.15, 0.15, 0.2))

	return s
}
