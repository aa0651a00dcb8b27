package halftone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-halftone-raytracer/pkg/raster"
)

func uniform(width, height int, level uint8) *raster.Gray {
	g := raster.NewGray(width, height)
	for i := range g.Pix {
		g.Pix[i] = level
	}
	return g
}

// ramp brightens left to right and darkens top to bottom
func ramp(size int) *raster.Gray {
	g := raster.NewGray(size, size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			g.Set(x, y, uint8((x*255/(size-1)+(size-1-y)*255/(size-1))/2))
		}
	}
	return g
}

func TestDither_FloydSteinbergByHand(t *testing.T) {
	// (0,0): 100 -> black, e=100: right 143, below 131, below-right 106
	// (1,0): 143 -> white, e=-112: below-left 110, below 71
	// (0,1): 110 -> black, e=110: right 119
	// (1,1): 119 -> black
	out, err := Dither(uniform(2, 2, 100))
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 255, 0, 0}, out.Pix)
}

func TestDitherInPlace_MutatesWorkBuffer(t *testing.T) {
	work := []int{100, 100, 100, 100}
	_, err := DitherInPlace(work, 2, 2, FloydSteinberg, DefaultThreshold)
	require.NoError(t, err)
	assert.Equal(t, []int{100, 143, 110, 119}, work)
}

func TestDither_LeavesInputUntouched(t *testing.T) {
	g := ramp(16)
	before := g.Clone()

	_, err := Dither(g)
	require.NoError(t, err)
	assert.Equal(t, before.Pix, g.Pix)
}

func TestDither_ExtremesAreStable(t *testing.T) {
	for _, k := range []Kernel{FloydSteinberg, Atkinson, SierraLite} {
		t.Run(k.Name, func(t *testing.T) {
			black, err := Dither(uniform(8, 8, 0), WithKernel(k))
			require.NoError(t, err)
			white, err := Dither(uniform(8, 8, 255), WithKernel(k))
			require.NoError(t, err)
			for i := range black.Pix {
				assert.Equal(t, raster.Black, black.Pix[i])
				assert.Equal(t, raster.White, white.Pix[i])
			}
		})
	}
}

func TestDither_OnlyBlackAndWhite(t *testing.T) {
	for _, k := range []Kernel{FloydSteinberg, Atkinson, SierraLite} {
		t.Run(k.Name, func(t *testing.T) {
			out, err := Dither(ramp(32), WithKernel(k))
			require.NoError(t, err)
			require.Len(t, out.Pix, 32*32)
			for _, v := range out.Pix {
				assert.True(t, v == raster.Black || v == raster.White, "unexpected level %d", v)
			}
		})
	}
}

func TestDither_PreservesBlockMean(t *testing.T) {
	const size, block = 128, 32
	g := ramp(size)

	for _, k := range []Kernel{FloydSteinberg, SierraLite} {
		t.Run(k.Name, func(t *testing.T) {
			out, err := Dither(g, WithKernel(k))
			require.NoError(t, err)

			assert.InDelta(t, g.Mean(0, 0, size, size), out.Mean(0, 0, size, size), 6)
			for y := 0; y < size; y += block {
				for x := 0; x < size; x += block {
					assert.InDelta(t, g.Mean(x, y, x+block, y+block), out.Mean(x, y, x+block, y+block), 12,
						"block at (%d, %d)", x, y)
				}
			}
		})
	}
}

func TestDither_Threshold(t *testing.T) {
	out, err := Dither(uniform(2, 2, 100), WithThreshold(99))
	require.NoError(t, err)
	assert.Equal(t, raster.White, out.Pix[0])

	out, err = Dither(uniform(2, 2, 100), WithThreshold(255))
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 0, 0, 0}, out.Pix)
}

func TestDither_RejectsBadKernels(t *testing.T) {
	tests := []struct {
		name   string
		kernel Kernel
	}{
		{"tap on the row above", Kernel{Name: "upward", Divisor: 2, Taps: []Tap{{DX: 0, DY: -1, Num: 1}}}},
		{"tap on the current pixel", Kernel{Name: "self", Divisor: 2, Taps: []Tap{{DX: 0, DY: 0, Num: 1}}}},
		{"tap to the left", Kernel{Name: "backwards", Divisor: 2, Taps: []Tap{{DX: -1, DY: 0, Num: 1}}}},
		{"zero divisor", Kernel{Name: "zero", Divisor: 0, Taps: []Tap{{DX: 1, DY: 0, Num: 1}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := uniform(4, 4, 100)
			out, err := Dither(g, WithKernel(tt.kernel))
			assert.Error(t, err)
			assert.Nil(t, out)

			work := g.Ints()
			out, err = DitherInPlace(work, 4, 4, tt.kernel, DefaultThreshold)
			assert.Error(t, err)
			assert.Nil(t, out)
			assert.Equal(t, uniform(4, 4, 100).Ints(), work, "work buffer must be untouched")
		})
	}
}

func TestDitherInPlace_RejectsShortBuffer(t *testing.T) {
	_, err := DitherInPlace(make([]int, 3), 2, 2, FloydSteinberg, DefaultThreshold)
	assert.Error(t, err)
}

func TestFloorDiv(t *testing.T) {
	tests := []struct {
		a, b, expected int
	}{
		{700, 16, 43},
		{-112 * 3, 16, -21},
		{-113 * 7, 16, -50},
		{-16, 16, -1},
		{-1, 16, -1},
		{0, 16, 0},
		{15, 16, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, floorDiv(tt.a, tt.b), "%d/%d", tt.a, tt.b)
	}
}

func TestKernelByName(t *testing.T) {
	k, err := KernelByName("")
	require.NoError(t, err)
	assert.Equal(t, FloydSteinberg.Name, k.Name)

	k, err = KernelByName("Atkinson")
	require.NoError(t, err)
	assert.Equal(t, Atkinson.Name, k.Name)

	_, err = KernelByName("ordered")
	assert.Error(t, err)

	assert.Equal(t, []string{"atkinson", "floyd-steinberg", "sierra-lite"}, KernelNames())
}

func TestKernel_Validate(t *testing.T) {
	for _, k := range []Kernel{FloydSteinberg, Atkinson, SierraLite} {
		assert.NoError(t, k.Validate(), k.Name)
	}

	backwards := Kernel{Name: "backwards", Divisor: 2, Taps: []Tap{{DX: -1, DY: 0, Num: 1}}}
	assert.Error(t, backwards.Validate())

	zero := Kernel{Name: "zero", Divisor: 0}
	assert.Error(t, zero.Validate())
}
