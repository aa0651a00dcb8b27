package halftone

import (
	"fmt"
	"sort"
	"strings"
)

// Tap spreads Num/Divisor of the quantization error to the pixel DX columns
// right and DY rows below the current one.
type Tap struct {
	DX, DY int
	Num    int
}

// Kernel is an error-diffusion matrix. Every tap must point at a pixel that
// the row-major scan has not visited yet.
type Kernel struct {
	Name    string
	Divisor int
	Taps    []Tap
}

// FloydSteinberg diffuses 7/16 right, 3/16 below-left, 5/16 below and 1/16
// below-right.
var FloydSteinberg = Kernel{
	Name:    "floyd-steinberg",
	Divisor: 16,
	Taps: []Tap{
		{DX: 1, DY: 0, Num: 7},
		{DX: -1, DY: 1, Num: 3},
		{DX: 0, DY: 1, Num: 5},
		{DX: 1, DY: 1, Num: 1},
	},
}

// Atkinson diffuses only 6/8 of the error, which keeps highlights and shadows
// crisp at the cost of some mean luminance.
var Atkinson = Kernel{
	Name:    "atkinson",
	Divisor: 8,
	Taps: []Tap{
		{DX: 1, DY: 0, Num: 1},
		{DX: 2, DY: 0, Num: 1},
		{DX: -1, DY: 1, Num: 1},
		{DX: 0, DY: 1, Num: 1},
		{DX: 1, DY: 1, Num: 1},
		{DX: 0, DY: 2, Num: 1},
	},
}

// SierraLite is Sierra's two-row filter: 2/4 right, 1/4 below-left, 1/4 below
var SierraLite = Kernel{
	Name:    "sierra-lite",
	Divisor: 4,
	Taps: []Tap{
		{DX: 1, DY: 0, Num: 2},
		{DX: -1, DY: 1, Num: 1},
		{DX: 0, DY: 1, Num: 1},
	},
}

var kernels = map[string]Kernel{
	FloydSteinberg.Name: FloydSteinberg,
	Atkinson.Name:       Atkinson,
	SierraLite.Name:     SierraLite,
}

// KernelByName looks up a kernel; the empty name selects Floyd-Steinberg
func KernelByName(name string) (Kernel, error) {
	if name == "" {
		return FloydSteinberg, nil
	}
	k, ok := kernels[strings.ToLower(name)]
	if !ok {
		return Kernel{}, fmt.Errorf("unknown kernel %q (want one of %s)", name, strings.Join(KernelNames(), ", "))
	}
	return k, nil
}

// KernelNames returns the registered kernel names, sorted
func KernelNames() []string {
	names := make([]string, 0, len(kernels))
	for name := range kernels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that every tap is causal and the divisor is usable
func (k Kernel) Validate() error {
	if k.Divisor <= 0 {
		return fmt.Errorf("kernel %s: divisor must be positive, got %d", k.Name, k.Divisor)
	}
	for _, tap := range k.Taps {
		if tap.DY < 0 || (tap.DY == 0 && tap.DX <= 0) {
			return fmt.Errorf("kernel %s: tap (%d, %d) points at a visited pixel", k.Name, tap.DX, tap.DY)
		}
	}
	return nil
}

// share returns floor(Num/Divisor * e)
func (k Kernel) share(tap Tap, e int) int {
	return floorDiv(tap.Num*e, k.Divisor)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
