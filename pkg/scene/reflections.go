package scene

import (
	"github.com/df07/go-halftone-raytracer/pkg/core"
	"github.com/df07/go-halftone-raytracer/pkg/geometry"
	"github.com/df07/go-halftone-raytracer/pkg/lights"
	"github.com/df07/go-halftone-raytracer/pkg/material"
)

// NewReflectionsScene creates three colored spheres over a yellow floor, each
// more reflective than the last, under two point lights.
func NewReflectionsScene(overrides ...RenderOverride) *Scene {
	s := New("reflections")
	s.Ambient = 2
	s.Config.Width = 120
	s.Config.MaxDepth = 3
	s.Config.MaxDistance = 10000
	s.Config.Epsilon = 0.001
	if len(overrides) > 0 {
		s.Config = MergeRenderConfig(s.Config, overrides[0])
	}

	s.AddSphere(geometry.NewSphere(core.NewVec3(0, -1, 3), 1, material.NewPhong(9, 0, 0, 500, 2)))
	s.AddSphere(geometry.NewSphere(core.NewVec3(2, 0, 4), 1, material.NewPhong(0, 0, 9, 500, 3)))
	s.AddSphere(geometry.NewSphere(core.NewVec3(-2, 0, 4), 1, material.NewPhong(0, 9, 0, 10, 4)))
	s.AddSphere(geometry.NewSphere(core.NewVec3(0, -5001, 0), 5000, material.NewPhong(9, 9, 0, 1000, 5)))

	s.AddLight(lights.NewPointLight(6, core.NewVec3(2, 1, 0)))
	s.AddLight(lights.NewPointLight(2, core.NewVec3(1, 4, 4)))

	return s
}
