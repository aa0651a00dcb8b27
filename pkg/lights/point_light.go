package lights

import (
	"fmt"
	"math"

	"github.com/df07/go-halftone-raytracer/pkg/core"
)

// PointLight is an omnidirectional light at a position.
// Intensities of all lights plus the ambient term are expected to add up to
// roughly 10, the range the shading constants are tuned for.
type PointLight struct {
	Intensity float64
	Position  core.Vec3
}

// NewPointLight creates a new point light
func NewPointLight(intensity float64, position core.Vec3) PointLight {
	return PointLight{Intensity: intensity, Position: position}
}

// Vector returns the unnormalized vector from a surface point to the light.
// A shadow ray along it reaches the light at t = 1.
func (l PointLight) Vector(point core.Vec3) core.Vec3 {
	return core.AMinusBk(l.Position, point, 1)
}

// Validate rejects negative intensities
func (l PointLight) Validate() error {
	if l.Intensity < 0 || math.IsNaN(l.Intensity) {
		return fmt.Errorf("intensity must not be negative, got %v", l.Intensity)
	}
	return nil
}

// TotalIntensity sums the ambient term and every light intensity
func TotalIntensity(ambient float64, lights []PointLight) float64 {
	total := ambient
	for _, l := range lights {
		total += l.Intensity
	}
	return total
}
