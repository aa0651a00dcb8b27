package material

import "fmt"

// Channel selects one color channel of a surface
type Channel int

const (
	Red Channel = iota
	Green
	Blue
)

// Channels lists the channels in the order the renderer reduces them
var Channels = [3]Channel{Red, Green, Blue}

// String returns the channel name
func (c Channel) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	default:
		return fmt.Sprintf("channel(%d)", int(c))
	}
}

// MaxLevel is the largest value of a color channel or of reflectiveness
const MaxLevel = 9

// Phong describes a surface lit with ambient, diffuse and specular terms that
// also mirrors part of the scene.
type Phong struct {
	Color          [3]uint8 // Per-channel color, each in [0, 9]
	Specular       float64  // Specular exponent, > 0
	Reflectiveness uint8    // Mirror fraction in ninths, [0, 9]
}

// NewPhong creates a new Phong surface
func NewPhong(r, g, b uint8, specular float64, reflectiveness uint8) Phong {
	return Phong{
		Color:          [3]uint8{r, g, b},
		Specular:       specular,
		Reflectiveness: reflectiveness,
	}
}

// Level returns the color value of a channel as a float
func (p Phong) Level(c Channel) float64 {
	return float64(p.Color[c])
}

// Reflectance returns reflectiveness/9 in [0, 1]
func (p Phong) Reflectance() float64 {
	return float64(p.Reflectiveness) / MaxLevel
}

// Validate checks the ranges of the surface parameters
func (p Phong) Validate() error {
	for i, level := range p.Color {
		if level > MaxLevel {
			return fmt.Errorf("%s level %d outside [0, %d]", Channel(i), level, MaxLevel)
		}
	}
	if p.Reflectiveness > MaxLevel {
		return fmt.Errorf("reflectiveness %d outside [0, %d]", p.Reflectiveness, MaxLevel)
	}
	if !(p.Specular > 0) {
		return fmt.Errorf("specular exponent must be positive, got %v", p.Specular)
	}
	return nil
}
