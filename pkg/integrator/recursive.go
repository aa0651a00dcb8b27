package integrator

import (
	"math"

	"github.com/df07/go-halftone-raytracer/pkg/core"
	"github.com/df07/go-halftone-raytracer/pkg/geometry"
	"github.com/df07/go-halftone-raytracer/pkg/material"
	"github.com/df07/go-halftone-raytracer/pkg/scene"
)

// ColorScale maps a channel level in [0, 9] lit by an intensity in [0, 10]
// onto [0, 255]; 255/9/10 is about 2.83.
const ColorScale = 2.8

// Surface is the channel-independent part of a ray/scene intersection
type Surface struct {
	Hit          geometry.Hit
	Point        core.Vec3 // X = O + tD
	Normal       core.Vec3 // X - C, not normalized
	NormalSq     float64   // N·N
	Illumination float64   // Ambient plus every unoccluded light term
}

// Recursive shades rays with ambient, diffuse, specular and shadow terms and
// blends in recursively traced mirror reflections.
type Recursive struct {
	scene *scene.Scene
}

// NewRecursive creates a recursive integrator for a validated scene
func NewRecursive(s *scene.Scene) *Recursive {
	return &Recursive{scene: s}
}

// Inspect finds the nearest hit in (tMin, tMax) and computes its lighting
func (r *Recursive) Inspect(ray core.Ray, tMin, tMax float64) (Surface, bool) {
	hit, ok := r.scene.Spheres.ClosestHit(ray, tMin, tMax)
	if !ok {
		return Surface{}, false
	}

	sphere := &r.scene.Spheres[hit.Index]
	point := core.AMinusBk(ray.Origin, ray.Direction, -hit.T)
	normal := sphere.Normal(point)

	s := Surface{
		Hit:      hit,
		Point:    point,
		Normal:   normal,
		NormalSq: core.Dot(normal, normal),
	}
	s.Illumination = r.illumination(ray, s, sphere.Material.Specular)
	return s, true
}

// illumination accumulates the ambient term and, for each light that is not
// blocked between the surface and the light, its diffuse and specular terms.
func (r *Recursive) illumination(ray core.Ray, s Surface, exponent float64) float64 {
	i := r.scene.Ambient
	if s.NormalSq == 0 {
		return i
	}

	d := core.Dot(ray.Direction, ray.Direction)

	for _, light := range r.scene.Lights {
		l := light.Vector(s.Point)

		// Anything in (epsilon, 1] sits between the point and the light
		if r.scene.Spheres.Occluded(core.NewRay(s.Point, l), r.scene.Config.Epsilon, 1) {
			continue
		}

		k := core.Dot(s.Normal, l)
		i += light.Intensity * (diffuse(k, l, s.NormalSq) + specular(k, l, s, ray.Direction, d, exponent))
	}

	return i
}

// diffuse returns max(0, cos) between N and L without normalizing either
func diffuse(k float64, l core.Vec3, n float64) float64 {
	denom := core.Dot(l, l) * n
	if denom <= 0 {
		return 0
	}
	return math.Max(0, k/math.Sqrt(denom))
}

// specular returns the highlight term. M = L - N·2k/n is the negated mirror
// image of L, so M·D measures how closely the viewer looks down the reflected
// light. A non-positive base contributes nothing.
func specular(k float64, l core.Vec3, s Surface, dir core.Vec3, d, exponent float64) float64 {
	m := core.AMinusBk(l, s.Normal, 2*k/s.NormalSq)
	denom := core.Dot(m, m) * d
	if denom <= 0 {
		return 0
	}
	base := core.Dot(m, dir) / math.Sqrt(denom)
	if base <= 0 {
		return 0
	}
	return math.Pow(base, exponent)
}

// reflectedRay mirrors the incoming direction about the normal: D - N·2(N·D)/n
func reflectedRay(ray core.Ray, s Surface) core.Ray {
	k := 2 * core.Dot(s.Normal, ray.Direction) / s.NormalSq
	return core.NewRay(s.Point, core.AMinusBk(ray.Direction, s.Normal, k))
}

// Shade implements Integrator
func (r *Recursive) Shade(ray core.Ray, tMin, tMax float64, depth int, channel material.Channel) float64 {
	s, ok := r.Inspect(ray, tMin, tMax)
	if !ok {
		return 0 // background is black
	}

	mat := r.scene.Spheres[s.Hit.Index].Material
	local := mat.Level(channel) * s.Illumination * ColorScale

	ref := mat.Reflectance()
	if depth <= 0 || ref == 0 || s.NormalSq == 0 {
		return local
	}

	reflected := r.Shade(reflectedRay(ray, s), r.scene.Config.Epsilon, r.scene.Config.MaxDistance, depth-1, channel)
	return blend(reflected, local, ref)
}

// blend fades linearly from the local color to the reflected one. The
// conversions keep the compiler from fusing the multiply-adds, so Shade and
// ShadeRGB round identically.
func blend(reflected, local, ref float64) float64 {
	return float64(reflected*ref) + float64(local*(1-ref))
}

// ShadeRGB implements Integrator. The intersection and lighting are computed
// once and shared by the three channels.
func (r *Recursive) ShadeRGB(ray core.Ray, tMin, tMax float64, depth int) [3]float64 {
	s, ok := r.Inspect(ray, tMin, tMax)
	if !ok {
		return [3]float64{}
	}

	mat := r.scene.Spheres[s.Hit.Index].Material
	var local [3]float64
	for _, c := range material.Channels {
		local[c] = mat.Level(c) * s.Illumination * ColorScale
	}

	ref := mat.Reflectance()
	if depth <= 0 || ref == 0 || s.NormalSq == 0 {
		return local
	}

	reflected := r.ShadeRGB(reflectedRay(ray, s), r.scene.Config.Epsilon, r.scene.Config.MaxDistance, depth-1)

	var out [3]float64
	for c := range out {
		out[c] = blend(reflected[c], local[c], ref)
	}
	return out
}
