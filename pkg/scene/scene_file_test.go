package scene

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-halftone-raytracer/pkg/core"
)

const pebbleYAML = `
name: pebble-file
description: The watch scene written out by hand
camera: [0, 1, 0]
ambient: 2
spheres:
  - center: [0, -60, 0]
    radius: 60
    color: [9, 0, 0]
    specular: 100
    reflectiveness: 4
  - center: [0, 1, 4]
    radius: 1
    color: [9, 9, 9]
    specular: 100
    reflectiveness: 2
lights:
  - intensity: 8
    position: [2, 2, 0]
render:
  width: 60
  max_depth: 2
  max_distance: 60
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(pebbleYAML))
	require.NoError(t, err)

	want := NewDefaultScene()
	assert.Equal(t, "pebble-file", s.Name)
	assert.Equal(t, want.Camera, s.Camera)
	assert.Equal(t, want.Ambient, s.Ambient)
	assert.Equal(t, want.Spheres, s.Spheres)
	assert.Equal(t, want.Lights, s.Lights)
	assert.Equal(t, want.Config, s.Config)
}

func TestParse_DefaultsAndZeroDepth(t *testing.T) {
	s, err := Parse([]byte(`
ambient: 10
spheres:
  - center: [0, 0, 3]
    radius: 1
    color: [1, 2, 3]
    specular: 5
render:
  max_depth: 0
`))
	require.NoError(t, err)

	assert.Equal(t, 0, s.Config.MaxDepth, "explicit zero depth is kept")
	assert.Equal(t, DefaultRenderConfig().Width, s.Config.Width)
	assert.Equal(t, core.Vec3{}, s.Camera)
	assert.Empty(t, s.Lights)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		invalid bool // wraps ErrInvalidScene rather than a syntax error
	}{
		{"syntax", "spheres: [", false},
		{"short vector", "camera: [1, 2]", false},
		{"negative radius", "spheres:\n  - {center: [0,0,3], radius: -1, color: [1,1,1], specular: 5}", true},
		{"negative intensity", "lights:\n  - {intensity: -2, position: [0,0,0]}", true},
		{"odd width", "render: {width: 33}", true},
		{"negative depth", "render: {max_depth: -1}", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Equal(t, tt.invalid, errors.Is(err, ErrInvalidScene))
		})
	}
}

func TestSaveAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reflections.yaml")
	original := NewReflectionsScene()

	require.NoError(t, SaveFile(path, original))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original.Name, loaded.Name)
	assert.Equal(t, original.Spheres, loaded.Spheres)
	assert.Equal(t, original.Lights, loaded.Lights)
	assert.Equal(t, original.Config, loaded.Config)
}

func TestLoadFile_NamesUnnamedScenes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "my-scene.yaml")
	s := NewSingleSphereScene()
	s.Name = ""
	require.NoError(t, SaveFile(path, s))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "my-scene", loaded.Name)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
