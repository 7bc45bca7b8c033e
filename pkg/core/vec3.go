package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 represents a 3D vector (points, directions and normals)
type Vec3 = mgl64.Vec3

// Vec2 represents a 2D vector, used for sub-pixel sample offsets
type Vec2 = mgl64.Vec2

// NewVec3 creates a new Vec3
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

// NewVec2 creates a new Vec2
func NewVec2(x, y float64) Vec2 {
	return Vec2{x, y}
}

// Rotate rotates v about axis by angle radians (Rodrigues' rotation formula).
// The axis does not need to be normalized; a zero axis yields NaN components.
func Rotate(v, axis Vec3, angle float64) Vec3 {
	k := axis.Normalize()
	cosA, sinA := math.Cos(angle), math.Sin(angle)

	// v·cosθ + (k × v)·sinθ + k·(k·v)(1 − cosθ)
	return v.Mul(cosA).
		Add(k.Cross(v).Mul(sinA)).
		Add(k.Mul(k.Dot(v) * (1 - cosA)))
}

// Clamp clamps a scalar to [minVal, maxVal]
func Clamp(value, minVal, maxVal float64) float64 {
	return mgl64.Clamp(value, minVal, maxVal)
}
