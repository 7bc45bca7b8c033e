package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

func TestPlane_Hit(t *testing.T) {
	plane := NewPlane(core.NewVec3(0, -1, 0), core.NewVec3(0, 2, 0))

	tests := []struct {
		name      string
		ray       core.Ray
		expectHit bool
		expectedT float64
	}{
		{
			name:      "straight down",
			ray:       core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0)),
			expectHit: true,
			expectedT: 2,
		},
		{
			name:      "parallel",
			ray:       core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(1, 0, 0)),
			expectHit: false,
		},
		{
			name:      "pointing away",
			ray:       core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0)),
			expectHit: false,
		},
		{
			name:      "oblique",
			ray:       core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, -1, 0)),
			expectHit: true,
			expectedT: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, isHit := plane.Hit(tt.ray, 0.001, 1000)
			if isHit != tt.expectHit {
				t.Fatalf("Expected hit=%t, got %t", tt.expectHit, isHit)
			}
			if !isHit {
				return
			}
			if math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got %f", tt.expectedT, hit.T)
			}
			if math.Abs(hit.Point.Y()+1) > 1e-9 {
				t.Errorf("Expected hit on plane y=-1, got %v", hit.Point)
			}
			if !hit.Normal.ApproxEqual(core.NewVec3(0, 1, 0)) {
				t.Errorf("Expected normalized normal (0,1,0), got %v", hit.Normal)
			}
		})
	}
}

func TestPlane_Hit_Bounds(t *testing.T) {
	plane := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))
	ray := core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0))

	if _, isHit := plane.Hit(ray, 0.001, 4); isHit {
		t.Error("Expected miss when the plane is beyond tMax")
	}
	if _, isHit := plane.Hit(ray, 6, 100); isHit {
		t.Error("Expected miss when the plane is before tMin")
	}
}
