package renderer

import (
	"github.com/df07/go-halftone-raytracer/pkg/core"
)

// Camera maps raster pixels to primary rays. It looks down +Z from a fixed
// origin through an image plane at distance 1 spanning [-1/2, 1/2] in X and Y.
type Camera struct {
	origin core.Vec3
	width  int
	half   int
}

// NewCamera creates a camera for a width x width canvas
func NewCamera(origin core.Vec3, width int) *Camera {
	return &Camera{
		origin: origin,
		width:  width,
		half:   width / 2,
	}
}

// Width returns the canvas size in pixels
func (c *Camera) Width() int {
	return c.width
}

// PlaneCoords converts a raster index (col, row) with the origin at the top
// left into camera plane coordinates x in [-h+1, h], y in [h-1, -h].
func (c *Camera) PlaneCoords(col, row int) (x, y int) {
	return col - c.half + 1, c.half - 1 - row
}

// PixelRay returns the primary ray through a raster pixel
func (c *Camera) PixelRay(col, row int) core.Ray {
	x, y := c.PlaneCoords(col, row)
	w := float64(c.width)
	return core.NewRay(c.origin, core.NewVec3(float64(x)/w, float64(y)/w, 1))
}
