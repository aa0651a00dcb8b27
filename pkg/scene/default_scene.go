package scene

import (
	"github.com/df07/go-halftone-raytracer/pkg/core"
	"github.com/df07/go-halftone-raytracer/pkg/geometry"
	"github.com/df07/go-halftone-raytracer/pkg/lights"
	"github.com/df07/go-halftone-raytracer/pkg/material"
)

// NewDefaultScene creates the 60x60 watch-face scene: a white sphere resting
// on a huge red sphere that acts as the floor, lit by one point light.
func NewDefaultScene(overrides ...RenderOverride) *Scene {
	s := New("pebble")
	s.Camera = core.NewVec3(0, 1, 0)
	s.Ambient = 2
	if len(overrides) > 0 {
		s.Config = MergeRenderConfig(s.Config, overrides[0])
	}

	// The floor radius equals the original canvas width
	floor := geometry.NewSphere(core.NewVec3(0, -60, 0), 60, material.NewPhong(9, 0, 0, 100, 4))
	ball := geometry.NewSphere(core.NewVec3(0, 1, 4), 1, material.NewPhong(9, 9, 9, 100, 2))

	s.AddSphere(floor).AddSphere(ball)
	s.AddLight(lights.NewPointLight(8, core.NewVec3(2, 2, 0)))

	return s
}

// NewSingleSphereScene creates one white, matte sphere three units in front of
// the camera with ambient 2 and one light of intensity 8 at (2, 2, 0).
func NewSingleSphereScene(overrides ...RenderOverride) *Scene {
	s := New("single-sphere")
	s.Ambient = 2
	if len(overrides) > 0 {
		s.Config = MergeRenderConfig(s.Config, overrides[0])
	}

	s.AddSphere(geometry.NewSphere(core.NewVec3(0, 0, 3), 1, material.NewPhong(9, 9, 9, 100, 0)))
	s.AddLight(lights.NewPointLight(8, core.NewVec3(2, 2, 0)))

	return s
}
