package scene

import (
	"fmt"
	"math"

	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/geometry"
	"github.com/df07/go-direct-raytracer/pkg/lights"
	"github.com/df07/go-direct-raytracer/pkg/loaders"
)

// defaultPBRTColor is used for shapes declared without a material
var defaultPBRTColor = core.NewColor(0.5, 0.5, 0.5)

// NewPBRTScene creates a scene from a PBRT file
func NewPBRTScene(filepath string) (*Scene, error) {
	pbrtScene, err := loaders.LoadPBRT(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to load PBRT file: %v", err)
	}
	return BuildPBRTScene(pbrtScene)
}

// BuildPBRTScene converts parsed PBRT data into a scene
func BuildPBRTScene(pbrtScene *loaders.PBRTScene) (*Scene, error) {
	s := NewScene(nil)

	if err := convertFilm(pbrtScene, s); err != nil {
		return nil, fmt.Errorf("failed to convert film: %v", err)
	}

	if err := convertCamera(pbrtScene, s); err != nil {
		return nil, fmt.Errorf("failed to convert camera: %v", err)
	}

	for i, shape := range pbrtScene.Shapes {
		if err := convertShape(&shape, s); err != nil {
			return nil, fmt.Errorf("failed to convert shape %d: %v", i, err)
		}
	}

	for i, light := range pbrtScene.Lights {
		if err := convertLight(&light, s); err != nil {
			return nil, fmt.Errorf("failed to convert light %d: %v", i, err)
		}
	}

	return s, nil
}

// convertFilm applies image resolution and sample count
func convertFilm(pbrtScene *loaders.PBRTScene, s *Scene) error {
	if pbrtScene.Film != nil {
		if width, ok := pbrtScene.Film.GetFloatParam("xresolution"); ok {
			if width <= 0 || width > 8192 {
				return fmt.Errorf("invalid image width %f: must be between 1 and 8192", width)
			}
			s.SamplingConfig.Width = int(width)
		}
		if height, ok := pbrtScene.Film.GetFloatParam("yresolution"); ok {
			if height <= 0 || height > 8192 {
				return fmt.Errorf("invalid image height %f: must be between 1 and 8192", height)
			}
			s.SamplingConfig.Height = int(height)
		}
	}

	if pbrtScene.Sampler != nil {
		if samples, ok := pbrtScene.Sampler.GetFloatParam("pixelsamples"); ok {
			if samples < 1 {
				return fmt.Errorf("invalid pixel samples %f: must be at least 1", samples)
			}
			// Regular grid: smallest N with N*N >= pixelsamples
			s.SamplingConfig.SamplesPerSide = int(math.Ceil(math.Sqrt(samples)))
		}
	}

	return nil
}

// convertCamera converts the PBRT camera to our camera
func convertCamera(pbrtScene *loaders.PBRTScene, s *Scene) error {
	cameraConfig := geometry.CameraConfig{
		Origin:      core.NewVec3(0, 0, 0),
		Direction:   core.NewVec3(0, 0, 1),
		Up:          core.NewVec3(0, 1, 0),
		VerticalFOV: math.Pi / 2,
		AspectRatio: float64(s.SamplingConfig.Width) / float64(s.SamplingConfig.Height),
	}

	if pbrtScene.LookAt != nil {
		cameraConfig.Origin = pbrtScene.LookAt.Eye
		cameraConfig.Direction = pbrtScene.LookAt.Target.Sub(pbrtScene.LookAt.Eye)
		cameraConfig.Up = pbrtScene.LookAt.Up
		if cameraConfig.Direction.Len() == 0 {
			return fmt.Errorf("LookAt eye and target are the same point")
		}
	}

	s.Camera = geometry.NewCamera(cameraConfig)

	if pbrtScene.Camera == nil {
		return nil
	}
	if pbrtScene.Camera.Subtype != "perspective" {
		return fmt.Errorf("unsupported camera type: %s", pbrtScene.Camera.Subtype)
	}

	if fov, ok := pbrtScene.Camera.GetFloatParam("fov"); ok {
		if fov <= 0 || fov >= 180 {
			return fmt.Errorf("invalid camera FOV %f: must be between 0 and 180 degrees", fov)
		}
		// fov spans the shorter image axis
		radians := fov * math.Pi / 180
		if cameraConfig.AspectRatio >= 1 {
			s.Camera.SetVerticalFOV(radians)
		} else {
			s.Camera.SetHorizontalFOV(radians)
		}
	}

	return nil
}

// convertMaterial returns the surface color of a PBRT material
func convertMaterial(stmt *loaders.PBRTStatement) (core.Color, error) {
	if stmt == nil {
		return defaultPBRTColor, nil
	}

	switch stmt.Subtype {
	case "diffuse", "matte", "coateddiffuse":
		for _, name := range []string{"reflectance", "Kd"} {
			if color, ok := stmt.GetRGBParam(name); ok {
				return color, nil
			}
		}
		return defaultPBRTColor, nil
	default:
		return core.Color{}, fmt.Errorf("unsupported material type: %s", stmt.Subtype)
	}
}

// convertShape adds a PBRT shape to the scene
func convertShape(shape *loaders.PBRTShape, s *Scene) error {
	color, err := convertMaterial(shape.Material)
	if err != nil {
		return err
	}

	switch shape.Statement.Subtype {
	case "sphere":
		radius := 1.0
		if r, ok := shape.Statement.GetFloatParam("radius"); ok {
			if r <= 0 {
				return fmt.Errorf("invalid sphere radius %f: must be positive", r)
			}
			radius = r
		}
		s.AddSphere(shape.Translation, radius, color)
		return nil
	default:
		return fmt.Errorf("unsupported shape type: %s", shape.Statement.Subtype)
	}
}

// convertLight adds a PBRT light source to the scene
func convertLight(light *loaders.PBRTLight, s *Scene) error {
	stmt := &light.Statement

	color := core.White
	if l, ok := stmt.GetRGBParam("L"); ok {
		color = l
	}
	if scale, ok := stmt.GetFloatParam("scale"); ok {
		color = color.Mul(scale)
	}

	switch stmt.Subtype {
	case "distant":
		from := core.NewVec3(0, 0, 0)
		to := core.NewVec3(0, 0, 1)
		if p, ok := stmt.GetPoint3Param("from"); ok {
			from = p
		}
		if p, ok := stmt.GetPoint3Param("to"); ok {
			to = p
		}
		direction := to.Sub(from)
		if direction.Len() == 0 {
			return fmt.Errorf("distant light from and to are the same point")
		}
		s.AddLight(lights.NewDirectionalLight(color, direction))
		return nil
	case "infinite":
		s.AddAmbientLight(color)
		return nil
	default:
		return fmt.Errorf("unsupported light type: %s", stmt.Subtype)
	}
}
