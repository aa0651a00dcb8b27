package scene

import (
	"math"

	"github.com/df07/go-halftone-raytracer/pkg/core"
	"github.com/df07/go-halftone-raytracer/pkg/geometry"
	"github.com/df07/go-halftone-raytracer/pkg/lights"
	"github.com/df07/go-halftone-raytracer/pkg/material"
)

// hueToLevels converts a hue in degrees to fully saturated channel levels in
// [0, 9], the only color depth a Phong surface carries.
func hueToLevels(h float64) (r, g, b uint8) {
	h = math.Mod(h, 360) / 60
	x := 1 - math.Abs(math.Mod(h, 2)-1)

	var rf, gf, bf float64
	switch int(h) {
	case 0:
		rf, gf, bf = 1, x, 0
	case 1:
		rf, gf, bf = x, 1, 0
	case 2:
		rf, gf, bf = 0, 1, x
	case 3:
		rf, gf, bf = 0, x, 1
	case 4:
		rf, gf, bf = x, 0, 1
	default:
		rf, gf, bf = 1, 0, x
	}

	level := func(v float64) uint8 {
		return uint8(math.Round(v * material.MaxLevel))
	}
	return level(rf), level(gf), level(bf)
}

// NewSphereGridScene creates a grid of spheres resting on a gray floor
func NewSphereGridScene(overrides ...RenderOverride) *Scene {
	s := New("spheregrid")
	s.Camera = core.NewVec3(0, 1.5, 0)
	s.Ambient = 2
	s.Config.Width = 160
	s.Config.MaxDistance = 500
	s.Config.Epsilon = 0.001
	if len(overrides) > 0 {
		s.Config = MergeRenderConfig(s.Config, overrides[0])
	}

	s.AddSphere(geometry.NewSphere(core.NewVec3(0, -1000.5, 0), 1000, material.NewPhong(5, 5, 5, 50, 1)))

	gridSize := 4
	spacing := 1.2
	radius := spacing * 0.35

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			x := (float64(i) - float64(gridSize-1)/2) * spacing
			z := 4 + float64(j)*spacing
			y := radius - 0.5 // rest on the floor

			// Hue varies across X, reflectiveness grows with depth
			hue := float64(i) / float64(gridSize) * 360
			r, g, b := hueToLevels(hue)
			reflect := uint8(j * 2)

			mat := material.NewPhong(r, g, b, 10+float64(j)*100, reflect)
			s.AddSphere(geometry.NewSphere(core.NewVec3(x, y, z), radius, mat))
		}
	}

	s.AddLight(lights.NewPointLight(6, core.NewVec3(-3, 4, 1)))
	s.AddLight(lights.NewPointLight(2, core.NewVec3(3, 3, 2)))

	return s
}
