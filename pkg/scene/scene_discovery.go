package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "file"
	FilePath    string `json:"filePath"`    // Path to YAML file (file type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

const (
	builtinGroup = "Built-in Scenes"
	fileGroup    = "Scene Files"
)

// DefaultSceneName is used when no scene is requested
const DefaultSceneName = "pebble"

var builtins = []struct {
	info    SceneInfo
	factory func(...RenderOverride) *Scene
}{
	{SceneInfo{ID: "pebble", Name: "Pebble", Description: "White sphere on a red floor, the original 60x60 watch render"}, NewDefaultScene},
	{SceneInfo{ID: "single-sphere", Name: "Single Sphere", Description: "One matte white sphere under one light"}, NewSingleSphereScene},
	{SceneInfo{ID: "reflections", Name: "Reflections", Description: "Three colored spheres over a reflective floor"}, NewReflectionsScene},
	{SceneInfo{ID: "spheregrid", Name: "Sphere Grid", Description: "Grid of rainbow spheres with growing reflectiveness"}, NewSphereGridScene},
}

// SceneDirs are searched for *.yaml scene files
var SceneDirs = []string{"scenes", "../scenes"}

// BuiltinScenes returns the metadata of all built-in scenes
func BuiltinScenes() []SceneInfo {
	infos := make([]SceneInfo, 0, len(builtins))
	for _, b := range builtins {
		info := b.info
		info.DisplayName = info.Name
		info.Group = builtinGroup
		info.Type = "builtin"
		infos = append(infos, info)
	}
	return infos
}

// ListSceneFiles scans the first existing scene directory for YAML scenes
func ListSceneFiles() ([]SceneInfo, error) {
	var scenesDir string
	for _, path := range SceneDirs {
		if _, err := os.Stat(path); err == nil {
			scenesDir = path
			break
		}
	}

	if scenesDir == "" {
		// No scenes directory found, return empty list
		return []SceneInfo{}, nil
	}

	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(scenesDir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
		}
		files = append(files, matches...)
	}

	scenes := make([]SceneInfo, 0, len(files))
	for _, filePath := range files {
		scenes = append(scenes, ParseSceneMetadata(filePath))
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ParseSceneMetadata reads the name and description of a YAML scene file.
// Unreadable files still produce an entry named after the file.
func ParseSceneMetadata(filePath string) SceneInfo {
	base := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))

	info := SceneInfo{
		ID:          "file:" + base,
		Name:        titleCase(base),
		DisplayName: titleCase(base),
		Group:       fileGroup,
		Type:        "file",
		FilePath:    filePath,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return info
	}
	var header struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
	}
	if err := yaml.Unmarshal(data, &header); err != nil {
		return info
	}
	if header.Name != "" {
		info.Name = header.Name
		info.DisplayName = header.Name
	}
	info.Description = header.Description
	return info
}

// ListAllScenes returns both built-in and file scenes, grouped by category
func ListAllScenes() (ScenesResponse, error) {
	var response ScenesResponse

	files, err := ListSceneFiles()
	if err != nil {
		return response, fmt.Errorf("failed to list scene files: %w", err)
	}

	response.Groups = append(response.Groups, SceneGroup{Name: builtinGroup, Scenes: BuiltinScenes()})
	if len(files) > 0 {
		response.Groups = append(response.Groups, SceneGroup{Name: fileGroup, Scenes: files})
	}
	return response, nil
}

// Create resolves a scene by built-in name, by "file:<name>" ID, by the
// base name of a file in a scene directory, or by path to a YAML file. The
// scene is validated after the overrides are applied.
func Create(name string, overrides ...RenderOverride) (*Scene, error) {
	if name == "" {
		return nil, fmt.Errorf("empty scene name")
	}

	s, err := createScene(name, overrides)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func createScene(name string, overrides []RenderOverride) (*Scene, error) {
	for _, b := range builtins {
		if b.info.ID == name {
			return b.factory(overrides...), nil
		}
	}

	path, err := resolveSceneFile(name)
	if err != nil {
		return nil, err
	}
	s, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if len(overrides) > 0 {
		s.Config = MergeRenderConfig(s.Config, overrides[0])
	}
	return s, nil
}

func resolveSceneFile(name string) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".yaml" || ext == ".yml" {
		if _, err := os.Stat(name); err != nil {
			return "", fmt.Errorf("scene file not found: %s", name)
		}
		return name, nil
	}

	base := strings.TrimPrefix(name, "file:")
	for _, dir := range SceneDirs {
		for _, candidate := range []string{base + ".yaml", base + ".yml"} {
			path := filepath.Join(dir, candidate)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
	}
	return "", fmt.Errorf("unknown scene: %s", name)
}

// titleCase converts a filename-style string to title case
// e.g., "single-sphere" -> "Single Sphere"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
