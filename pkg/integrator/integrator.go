package integrator

import (
	"github.com/df07/go-halftone-raytracer/pkg/core"
	"github.com/df07/go-halftone-raytracer/pkg/material"
)

// Integrator computes the radiance seen along a ray
type Integrator interface {
	// Shade returns one color channel for a ray limited to (tMin, tMax),
	// following at most depth reflections.
	Shade(ray core.Ray, tMin, tMax float64, depth int, channel material.Channel) float64

	// ShadeRGB returns all three channels; each element equals the
	// corresponding Shade result exactly.
	ShadeRGB(ray core.Ray, tMin, tMax float64, depth int) [3]float64
}

// Inspector is implemented by integrators that can report the surface a ray
// hits along with its lighting
type Inspector interface {
	Inspect(ray core.Ray, tMin, tMax float64) (Surface, bool)
}
