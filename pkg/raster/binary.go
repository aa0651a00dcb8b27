package raster

import (
	"fmt"
	"image"
)

// Levels of a binary raster
const (
	Black uint8 = 0
	White uint8 = 255
)

// Binary is a row-major raster whose pixels are only Black or White
type Binary struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewBinary creates an all-black binary raster
func NewBinary(width, height int) *Binary {
	return &Binary{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
}

// At returns the level at column x, row y
func (b *Binary) At(x, y int) uint8 {
	return b.Pix[y*b.Width+x]
}

// IsWhite reports whether the pixel at column x, row y is set
func (b *Binary) IsWhite(x, y int) bool {
	return b.Pix[y*b.Width+x] == White
}

// Mean returns the average level of the block [x0, x1) x [y0, y1)
func (b *Binary) Mean(x0, y0, x1, y1 int) float64 {
	return mean(b.Pix, b.Width, x0, y0, x1, y1)
}

// Image wraps the raster as an image.Gray without copying
func (b *Binary) Image() *image.Gray {
	return &image.Gray{
		Pix:    b.Pix,
		Stride: b.Width,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// Gray reinterprets the raster as a grayscale one, sharing storage
func (b *Binary) Gray() *Gray {
	return &Gray{Width: b.Width, Height: b.Height, Pix: b.Pix}
}

// String returns a short description
func (b *Binary) String() string {
	return fmt.Sprintf("Binary{%dx%d}", b.Width, b.Height)
}
