package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-halftone-raytracer/pkg/core"
	"github.com/df07/go-halftone-raytracer/pkg/geometry"
	"github.com/df07/go-halftone-raytracer/pkg/lights"
)

// ErrInvalidScene is wrapped by every validation failure
var ErrInvalidScene = errors.New("invalid scene")

// Scene contains all the elements needed for rendering.
// It is read-only once rendering starts.
type Scene struct {
	Name    string
	Camera  core.Vec3           // Origin of every primary ray
	Ambient float64             // Ambient intensity added at every hit
	Spheres geometry.SphereList // Objects in the scene
	Lights  []lights.PointLight // Point lights in the scene
	Config  RenderConfig
}

// RenderConfig contains rendering configuration
type RenderConfig struct {
	Width       int     // Canvas width and height in pixels
	MaxDepth    int     // Reflection bounces below the primary hit
	NearPlane   float64 // Lower t bound for primary rays
	MaxDistance float64 // Upper t bound for primary and reflected rays
	Epsilon     float64 // Lower t bound for shadow and reflected rays
}

// DefaultRenderConfig returns the settings of the original 60x60 watch render
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Width:       60,
		MaxDepth:    2,
		NearPlane:   1,
		MaxDistance: 60,
		Epsilon:     1.0 / 60,
	}
}

// RenderOverride selects render settings to change. Zero numeric fields and a
// nil MaxDepth keep the base value, so a depth of 0 can still be requested.
type RenderOverride struct {
	Width       int
	MaxDepth    *int
	NearPlane   float64
	MaxDistance float64
	Epsilon     float64
}

// DepthOverride returns a MaxDepth override, or nil for a negative depth
func DepthOverride(depth int) *int {
	if depth < 0 {
		return nil
	}
	return &depth
}

// MergeRenderConfig applies the fields set in override on top of base
func MergeRenderConfig(base RenderConfig, override RenderOverride) RenderConfig {
	result := base
	if override.Width != 0 {
		result.Width = override.Width
	}
	if override.MaxDepth != nil {
		result.MaxDepth = *override.MaxDepth
	}
	if override.NearPlane != 0 {
		result.NearPlane = override.NearPlane
	}
	if override.MaxDistance != 0 {
		result.MaxDistance = override.MaxDistance
	}
	if override.Epsilon != 0 {
		result.Epsilon = override.Epsilon
	}
	return result
}

// Validate checks the configuration ranges
func (c RenderConfig) Validate() error {
	if c.Width <= 0 || c.Width%2 != 0 {
		return fmt.Errorf("%w: width must be a positive even number, got %d", ErrInvalidScene, c.Width)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("%w: max depth must not be negative, got %d", ErrInvalidScene, c.MaxDepth)
	}
	if !(c.NearPlane > 0) {
		return fmt.Errorf("%w: near plane must be positive, got %v", ErrInvalidScene, c.NearPlane)
	}
	if !(c.Epsilon > 0) {
		return fmt.Errorf("%w: epsilon must be positive, got %v", ErrInvalidScene, c.Epsilon)
	}
	if !(c.MaxDistance > c.NearPlane) {
		return fmt.Errorf("%w: max distance %v must exceed near plane %v", ErrInvalidScene, c.MaxDistance, c.NearPlane)
	}
	return nil
}

// New creates an empty scene with default render settings
func New(name string) *Scene {
	return &Scene{
		Name:    name,
		Spheres: make(geometry.SphereList, 0),
		Lights:  make([]lights.PointLight, 0),
		Config:  DefaultRenderConfig(),
	}
}

// AddSphere appends a sphere and returns the scene for chaining
func (s *Scene) AddSphere(sphere geometry.Sphere) *Scene {
	s.Spheres = append(s.Spheres, sphere)
	return s
}

// AddLight appends a point light and returns the scene for chaining
func (s *Scene) AddLight(light lights.PointLight) *Scene {
	s.Lights = append(s.Lights, light)
	return s
}

// Validate rejects malformed input before any pixel is traced
func (s *Scene) Validate() error {
	if s.Ambient < 0 || math.IsNaN(s.Ambient) {
		return fmt.Errorf("%w: ambient light must not be negative, got %v", ErrInvalidScene, s.Ambient)
	}
	for i, sphere := range s.Spheres {
		if err := sphere.Validate(); err != nil {
			return fmt.Errorf("%w: sphere %d: %v", ErrInvalidScene, i, err)
		}
	}
	for i, light := range s.Lights {
		if err := light.Validate(); err != nil {
			return fmt.Errorf("%w: light %d: %v", ErrInvalidScene, i, err)
		}
	}
	return s.Config.Validate()
}

// TotalLight returns ambient plus all point light intensities
func (s *Scene) TotalLight() float64 {
	return lights.TotalIntensity(s.Ambient, s.Lights)
}

// GetPrimitiveCount returns the number of spheres in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Spheres)
}
