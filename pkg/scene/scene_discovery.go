package scene

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "pbrt"
	FilePath    string `json:"filePath"`    // Path to PBRT file (pbrt type only)
	Variant     string `json:"variant"`     // Variant name (optional)
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

// ScenesDirs are the candidate locations of the scenes directory, relative to
// the working directory of the binaries and the package tests
var ScenesDirs = []string{"scenes", "../scenes", "../../scenes"}

// ListPBRTScenes returns the scenes found in the first existing entry of
// ScenesDirs, sorted by display name. Files with unreadable headers are skipped.
func ListPBRTScenes() ([]SceneInfo, error) {
	dir := findScenesDir()
	if dir == "" {
		return []SceneInfo{}, nil
	}

	paths, err := filepath.Glob(filepath.Join(dir, "*.pbrt"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %v", err)
	}

	scenes := make([]SceneInfo, 0, len(paths))
	for _, path := range paths {
		info, err := ParsePBRTMetadata(path)
		if err != nil {
			fmt.Printf("Warning: skipping %s: %v\n", path, err)
			continue
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})
	return scenes, nil
}

func findScenesDir() string {
	for _, dir := range ScenesDirs {
		if _, err := os.Stat(dir); err == nil {
			return dir
		}
	}
	return ""
}

// ParsePBRTMetadata reads the "# Key: value" header of a scene file. Keys
// are Scene, Variant, Description and Group; empty values keep the defaults
// derived from the file name. The header ends at the first line that is not
// a comment. An unreadable file yields the defaults without an error.
func ParsePBRTMetadata(filePath string) (SceneInfo, error) {
	base := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	info := SceneInfo{
		ID:          "pbrt:" + base,
		Name:        titleCase(base),
		DisplayName: titleCase(base),
		Group:       "PBRT Scenes",
		Type:        "pbrt",
		FilePath:    filePath,
	}

	f, err := os.Open(filePath)
	if err != nil {
		return info, nil
	}
	defer f.Close()

	fields := map[string]*string{
		"Scene":       &info.Name,
		"Variant":     &info.Variant,
		"Description": &info.Description,
		"Group":       &info.Group,
	}

	header := bufio.NewScanner(f)
	for header.Scan() {
		comment, ok := strings.CutPrefix(strings.TrimSpace(header.Text()), "#")
		if !ok {
			break
		}
		key, value, found := strings.Cut(comment, ":")
		if !found {
			continue
		}
		field, known := fields[strings.TrimSpace(key)]
		if value = strings.TrimSpace(value); known && value != "" {
			*field = value
		}
	}

	info.DisplayName = info.Name
	if info.Variant != "" {
		info.DisplayName += " - " + info.Variant
	}
	return info, header.Err()
}

// builtInScenes describes the scenes constructed in code
var builtInScenes = []SceneInfo{
	{
		ID:          "default",
		Name:        "Default Scene",
		DisplayName: "Default Scene",
		Description: "Three spheres on a ground plane under a sun and sky light",
		Group:       "Built-in Scenes",
		Type:        "builtin",
	},
	{
		ID:          "spheres",
		Name:        "Sphere Grid",
		DisplayName: "Sphere Grid",
		Description: "10x10 grid of rainbow-colored spheres",
		Group:       "Built-in Scenes",
		Type:        "builtin",
	},
	{
		ID:          "shadows",
		Name:        "Shadows",
		DisplayName: "Shadows",
		Description: "Overlapping shadows from two directional lights",
		Group:       "Built-in Scenes",
		Type:        "builtin",
	},
}

// LoadScene creates the scene with the given ID. PBRT scenes are looked up by
// "pbrt:<name>" among the discovered scene files.
func LoadScene(id string) (*Scene, error) {
	switch id {
	case "default", "":
		return NewDefaultScene(), nil
	case "spheres":
		return NewSphereGridScene(), nil
	case "shadows":
		return NewShadowsScene(), nil
	}

	if !strings.HasPrefix(id, "pbrt:") {
		return nil, fmt.Errorf("unknown scene: %s", id)
	}

	pbrtScenes, err := ListPBRTScenes()
	if err != nil {
		return nil, err
	}
	for _, info := range pbrtScenes {
		if info.ID == id {
			return NewPBRTScene(info.FilePath)
		}
	}
	return nil, fmt.Errorf("unknown scene: %s", id)
}

// ListAllScenes returns both built-in and PBRT scenes, grouped by category
func ListAllScenes() (ScenesResponse, error) {
	var response ScenesResponse

	// Get PBRT scenes
	pbrtScenes, err := ListPBRTScenes()
	if err != nil {
		return response, fmt.Errorf("failed to list PBRT scenes: %v", err)
	}

	// Combine all scenes
	allScenes := append(append([]SceneInfo{}, builtInScenes...), pbrtScenes...)

	// Group scenes by their Group field
	groupMap := make(map[string][]SceneInfo)
	for _, scene := range allScenes {
		groupMap[scene.Group] = append(groupMap[scene.Group], scene)
	}

	// Create ordered groups (Built-in first, then alphabetical)
	var groupNames []string
	for groupName := range groupMap {
		if groupName != "Built-in Scenes" {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	// Add built-in scenes group first if it exists
	if builtInGroup, exists := groupMap["Built-in Scenes"]; exists {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   "Built-in Scenes",
			Scenes: builtInGroup,
		})
	}

	// Add other groups alphabetically
	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   groupName,
			Scenes: groupMap[groupName],
		})
	}

	return response, nil
}

// titleCase converts a filename-style string to title case
// e.g., "three-spheres" -> "Three Spheres"
func titleCase(s string) string {
	// Replace hyphens and underscores with spaces
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	// Title case each word
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
