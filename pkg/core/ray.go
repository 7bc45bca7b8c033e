package core

// Ray represents a ray with an origin and direction.
// Direction is not required to be unit length.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay creates a new ray
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point  Vec3    // Point of intersection
	Normal Vec3    // Unit outward surface normal
	T      float64 // Parameter t along the ray, inside the caller's [tMin, tMax]
}
