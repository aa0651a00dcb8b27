package raster

import (
	"fmt"
	"image"
)

// Gray is a row-major 8-bit grayscale raster with the origin at the top left
type Gray struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewGray creates a black raster
func NewGray(width, height int) *Gray {
	return &Gray{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
}

// GrayFromImage converts any image to luminance using the same integer
// weights as the renderer.
func GrayFromImage(img image.Image) *Gray {
	bounds := img.Bounds()
	g := NewGray(bounds.Dx(), bounds.Dy())

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			r, gr, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns 16-bit channels
			g.Pix[y*g.Width+x] = Luminance(int(r>>8), int(gr>>8), int(b>>8))
		}
	}
	return g
}

// Luminance reduces three channels to one gray level with the weights
// 77, 150 and 29 out of 256, clamped to [0, 255].
func Luminance(r, g, b int) uint8 {
	l := (77*r + 150*g + 29*b) / 256
	if l < 0 {
		return 0
	}
	if l > 255 {
		return 255
	}
	return uint8(l)
}

// At returns the level at column x, row y
func (g *Gray) At(x, y int) uint8 {
	return g.Pix[y*g.Width+x]
}

// Set stores the level at column x, row y
func (g *Gray) Set(x, y int, v uint8) {
	g.Pix[y*g.Width+x] = v
}

// Row returns the pixels of one row, sharing storage with the raster
func (g *Gray) Row(y int) []uint8 {
	return g.Pix[y*g.Width : (y+1)*g.Width]
}

// Mean returns the average level of the block [x0, x1) x [y0, y1)
func (g *Gray) Mean(x0, y0, x1, y1 int) float64 {
	return mean(g.Pix, g.Width, x0, y0, x1, y1)
}

// Ints copies the levels into a working buffer for error diffusion
func (g *Gray) Ints() []int {
	work := make([]int, len(g.Pix))
	for i, v := range g.Pix {
		work[i] = int(v)
	}
	return work
}

// Clone returns a deep copy
func (g *Gray) Clone() *Gray {
	c := NewGray(g.Width, g.Height)
	copy(c.Pix, g.Pix)
	return c
}

// Image wraps the raster as an image.Gray without copying
func (g *Gray) Image() *image.Gray {
	return &image.Gray{
		Pix:    g.Pix,
		Stride: g.Width,
		Rect:   image.Rect(0, 0, g.Width, g.Height),
	}
}

// String returns a short description
func (g *Gray) String() string {
	return fmt.Sprintf("Gray{%dx%d}", g.Width, g.Height)
}

func mean(pix []uint8, width, x0, y0, x1, y1 int) float64 {
	if x1 <= x0 || y1 <= y0 {
		return 0
	}
	sum := 0
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			sum += int(pix[y*width+x])
		}
	}
	return float64(sum) / float64((x1-x0)*(y1-y0))
}
