package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-halftone-raytracer/pkg/core"
	"github.com/df07/go-halftone-raytracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.Phong
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, mat material.Phong) Sphere {
	return Sphere{
		Center:   center,
		Radius:   radius,
		Material: mat,
	}
}

// Roots solves |O + tD - C|² = r² for t.
//
// The quadratic is kept in the rescaled form a = 2·D·D, b = -2·J·D with
// J = O - C, so the roots are (b ∓ √Δ)/a with Δ = b² - 2a(J·J - r²).
// near <= far whenever ok is true; a tangent ray yields near == far.
func (s Sphere) Roots(ray core.Ray) (near, far float64, ok bool) {
	if !(s.Radius > 0) {
		return 0, 0, false
	}

	a := 2 * core.Dot(ray.Direction, ray.Direction)
	if a == 0 {
		return 0, 0, false
	}

	j := core.AMinusBk(ray.Origin, s.Center, 1)
	b := -2 * core.Dot(j, ray.Direction)

	discriminant := b*b - 2*a*(core.Dot(j, j)-s.Radius*s.Radius)
	if discriminant < 0 {
		return 0, 0, false
	}

	d := math.Sqrt(discriminant)
	return (b - d) / a, (b + d) / a, true
}

// Normal returns the unnormalized outward normal X - C at a surface point
func (s Sphere) Normal(point core.Vec3) core.Vec3 {
	return core.AMinusBk(point, s.Center, 1)
}

// Validate rejects spheres the renderer cannot interpret
func (s Sphere) Validate() error {
	if s.Radius < 0 || math.IsNaN(s.Radius) {
		return fmt.Errorf("radius must not be negative, got %v", s.Radius)
	}
	if err := s.Material.Validate(); err != nil {
		return fmt.Errorf("material: %w", err)
	}
	return nil
}
