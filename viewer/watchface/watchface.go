// Package watchface lays out a rendered canvas the way the Pebble watch app
// draws it: dark pixels on a white 144x168 screen, anchored top left.
package watchface

import (
	"github.com/df07/go-halftone-raytracer/pkg/halftone"
	"github.com/df07/go-halftone-raytracer/pkg/raster"
)

// Watch screen size in pixels
const (
	ScreenWidth  = 144
	ScreenHeight = 168
)

// Mode selects which stage of the pipeline is shown
type Mode int

const (
	ModeHalftone Mode = iota
	ModeGray
)

// String returns the mode name
func (m Mode) String() string {
	if m == ModeGray {
		return "gray"
	}
	return "halftone"
}

// Toggle switches between the halftone and grayscale views
func (m Mode) Toggle() Mode {
	if m == ModeGray {
		return ModeHalftone
	}
	return ModeGray
}

// Face holds one rendered canvas and its halftone
type Face struct {
	gray   *raster.Gray
	binary *raster.Binary
	kernel halftone.Kernel
}

// New halftones gray with the given kernel
func New(gray *raster.Gray, kernel halftone.Kernel) (*Face, error) {
	f := &Face{gray: gray}
	if err := f.SetKernel(kernel); err != nil {
		return nil, err
	}
	return f, nil
}

// SetKernel re-dithers the canvas with another kernel. On error the face
// keeps its previous halftone.
func (f *Face) SetKernel(kernel halftone.Kernel) error {
	binary, err := halftone.Dither(f.gray, halftone.WithKernel(kernel))
	if err != nil {
		return err
	}
	f.kernel = kernel
	f.binary = binary
	return nil
}

// Kernel returns the kernel the halftone was made with
func (f *Face) Kernel() halftone.Kernel {
	return f.kernel
}

// Binary returns the halftoned canvas
func (f *Face) Binary() *raster.Binary {
	return f.binary
}

// Size returns the screen size: the watch screen, grown to fit larger canvases
func (f *Face) Size() (int, int) {
	return max(f.gray.Width, ScreenWidth), max(f.gray.Height, ScreenHeight)
}

// RGBA returns the screen as RGBA bytes, white wherever the canvas does not
// reach.
func (f *Face) RGBA(mode Mode) []byte {
	w, h := f.Size()
	pix := make([]byte, w*h*4)
	for i := range pix {
		pix[i] = 0xFF
	}

	src := f.binary.Pix
	if mode == ModeGray {
		src = f.gray.Pix
	}

	for y := 0; y < f.gray.Height; y++ {
		for x := 0; x < f.gray.Width; x++ {
			v := src[y*f.gray.Width+x]
			j := (y*w + x) * 4
			pix[j+0] = v
			pix[j+1] = v
			pix[j+2] = v
		}
	}
	return pix
}

// NextKernel returns the kernel after current in name order, wrapping around
func NextKernel(current halftone.Kernel) halftone.Kernel {
	names := halftone.KernelNames()
	next := names[0]
	for i, name := range names {
		if name == current.Name {
			next = names[(i+1)%len(names)]
			break
		}
	}
	k, _ := halftone.KernelByName(next)
	return k
}
