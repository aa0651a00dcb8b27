package halftone

import (
	"fmt"

	"github.com/df07/go-halftone-raytracer/pkg/raster"
)

// DefaultThreshold splits the working values: above it a pixel turns white
const DefaultThreshold = 127

type options struct {
	kernel    Kernel
	threshold int
}

// Option configures Dither
type Option func(*options)

// WithKernel selects the error-diffusion kernel
func WithKernel(k Kernel) Option {
	return func(o *options) { o.kernel = k }
}

// WithThreshold changes the level above which a pixel turns white
func WithThreshold(threshold int) Option {
	return func(o *options) { o.threshold = threshold }
}

// Dither converts a grayscale raster to black and white by error diffusion.
// The input is left untouched; the error accumulates in a private copy.
func Dither(gray *raster.Gray, opts ...Option) (*raster.Binary, error) {
	o := options{kernel: FloydSteinberg, threshold: DefaultThreshold}
	for _, opt := range opts {
		opt(&o)
	}
	return DitherInPlace(gray.Ints(), gray.Width, gray.Height, o.kernel, o.threshold)
}

// DitherInPlace diffuses the error through work itself, which must hold
// width*height values in row-major order. Values may leave [0, 255] while
// error accumulates. The scan is serial: each decision depends on every
// earlier one. A kernel with a tap pointing back at visited pixels is
// rejected before anything is written.
func DitherInPlace(work []int, width, height int, kernel Kernel, threshold int) (*raster.Binary, error) {
	if err := kernel.Validate(); err != nil {
		return nil, err
	}
	if width < 0 || height < 0 || len(work) != width*height {
		return nil, fmt.Errorf("work buffer holds %d values, want %dx%d", len(work), width, height)
	}

	out := raster.NewBinary(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			f := work[i]

			var e int
			if f > threshold {
				out.Pix[i] = raster.White
				e = f - int(raster.White)
			} else {
				out.Pix[i] = raster.Black
				e = f
			}
			if e == 0 {
				continue
			}

			for _, tap := range kernel.Taps {
				nx, ny := x+tap.DX, y+tap.DY
				if nx < 0 || nx >= width || ny >= height {
					continue
				}
				work[ny*width+nx] += kernel.share(tap, e)
			}
		}
	}

	return out, nil
}
