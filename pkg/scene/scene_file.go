package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/df07/go-halftone-raytracer/pkg/core"
	"github.com/df07/go-halftone-raytracer/pkg/geometry"
	"github.com/df07/go-halftone-raytracer/pkg/lights"
	"github.com/df07/go-halftone-raytracer/pkg/material"
)

// File is the YAML representation of a scene
type File struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description,omitempty"`
	Camera      [3]float64   `yaml:"camera"`
	Ambient     float64      `yaml:"ambient"`
	Spheres     []SphereFile `yaml:"spheres"`
	Lights      []LightFile  `yaml:"lights"`
	Render      RenderFile   `yaml:"render,omitempty"`
}

// SphereFile is one sphere of a scene file
type SphereFile struct {
	Center         [3]float64 `yaml:"center"`
	Radius         float64    `yaml:"radius"`
	Color          [3]uint8   `yaml:"color"`          // 0..9 per channel
	Specular       float64    `yaml:"specular"`       // exponent
	Reflectiveness uint8      `yaml:"reflectiveness"` // 0..9
}

// LightFile is one point light of a scene file
type LightFile struct {
	Intensity float64    `yaml:"intensity"`
	Position  [3]float64 `yaml:"position"`
}

// RenderFile holds optional render settings; omitted fields keep the defaults
type RenderFile struct {
	Width       int     `yaml:"width,omitempty"`
	MaxDepth    *int    `yaml:"max_depth,omitempty"` // nil keeps the default, 0 disables reflections
	NearPlane   float64 `yaml:"near_plane,omitempty"`
	MaxDistance float64 `yaml:"max_distance,omitempty"`
	Epsilon     float64 `yaml:"epsilon,omitempty"`
}

// ToScene converts the file representation into a scene and validates it
func (f *File) ToScene() (*Scene, error) {
	s := New(f.Name)
	s.Camera = core.Vec3FromArray(f.Camera)
	s.Ambient = f.Ambient

	for _, sf := range f.Spheres {
		mat := material.NewPhong(sf.Color[0], sf.Color[1], sf.Color[2], sf.Specular, sf.Reflectiveness)
		s.AddSphere(geometry.NewSphere(core.Vec3FromArray(sf.Center), sf.Radius, mat))
	}
	for _, lf := range f.Lights {
		s.AddLight(lights.NewPointLight(lf.Intensity, core.Vec3FromArray(lf.Position)))
	}

	s.Config = MergeRenderConfig(s.Config, RenderOverride{
		Width:       f.Render.Width,
		MaxDepth:    f.Render.MaxDepth,
		NearPlane:   f.Render.NearPlane,
		MaxDistance: f.Render.MaxDistance,
		Epsilon:     f.Render.Epsilon,
	})

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// ToFile converts a scene into its YAML representation
func ToFile(s *Scene) *File {
	depth := s.Config.MaxDepth
	f := &File{
		Name:    s.Name,
		Camera:  s.Camera.Array(),
		Ambient: s.Ambient,
		Spheres: make([]SphereFile, 0, len(s.Spheres)),
		Lights:  make([]LightFile, 0, len(s.Lights)),
		Render: RenderFile{
			Width:       s.Config.Width,
			MaxDepth:    &depth,
			NearPlane:   s.Config.NearPlane,
			MaxDistance: s.Config.MaxDistance,
			Epsilon:     s.Config.Epsilon,
		},
	}
	for _, sphere := range s.Spheres {
		f.Spheres = append(f.Spheres, SphereFile{
			Center:         sphere.Center.Array(),
			Radius:         sphere.Radius,
			Color:          sphere.Material.Color,
			Specular:       sphere.Material.Specular,
			Reflectiveness: sphere.Material.Reflectiveness,
		})
	}
	for _, light := range s.Lights {
		f.Lights = append(f.Lights, LightFile{
			Intensity: light.Intensity,
			Position:  light.Position.Array(),
		})
	}
	return f
}

// Parse decodes a YAML scene
func Parse(data []byte) (*Scene, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}
	return f.ToScene()
}

// LoadFile reads and validates a YAML scene file. A scene without a name is
// named after the file.
func LoadFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// SaveFile writes a scene as YAML
func SaveFile(path string, s *Scene) error {
	data, err := yaml.Marshal(ToFile(s))
	if err != nil {
		return fmt.Errorf("failed to encode scene: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
