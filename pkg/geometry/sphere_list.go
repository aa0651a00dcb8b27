package geometry

import "github.com/df07/go-halftone-raytracer/pkg/core"

// Hit records the nearest intersection found along a ray
type Hit struct {
	Index int     // Position of the sphere in the list
	T     float64 // Ray parameter of the intersection
}

// SphereList is an ordered, explicitly sized collection of spheres.
// Order matters: ties in t resolve to the sphere listed first.
type SphereList []Sphere

// ClosestHit finds the nearest sphere whose intersection lies strictly inside
// (tMin, tMax). The smaller root of each sphere is tried before the larger one
// and only a strictly smaller t replaces the current best.
func (l SphereList) ClosestHit(ray core.Ray, tMin, tMax float64) (Hit, bool) {
	best := Hit{Index: -1, T: tMax}

	for i := range l {
		near, far, ok := l[i].Roots(ray)
		if !ok {
			continue
		}
		for _, t := range [2]float64{near, far} {
			if tMin < t && t < tMax && t < best.T {
				best = Hit{Index: i, T: t}
			}
		}
	}

	return best, best.Index >= 0
}

// Occluded reports whether any sphere intersects the ray inside (tMin, tMax)
func (l SphereList) Occluded(ray core.Ray, tMin, tMax float64) bool {
	_, ok := l.ClosestHit(ray, tMin, tMax)
	return ok
}
