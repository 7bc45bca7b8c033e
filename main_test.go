package main

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-direct-raytracer/pkg/renderer"
)

func TestCreateScene(t *testing.T) {
	tests := []struct {
		name        string
		sceneType   string
		expectError bool
	}{
		// Built-in scenes
		{"default scene", "default", false},
		{"spheres scene", "spheres", false},
		{"shadows scene", "shadows", false},

		// PBRT scenes by ID, name and path
		{"PBRT scene ID", "pbrt:simple-sphere", false},
		{"simple-sphere PBRT", "simple-sphere", false},
		{"three-spheres PBRT", "three-spheres", false},
		{"direct PBRT path", "scenes/simple-sphere.pbrt", false},

		// Invalid scenes
		{"unknown scene", "nonexistent", true},
		{"invalid PBRT path", "scenes/nonexistent.pbrt", true},
		{"empty scene name", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := createScene(tt.sceneType)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for scene type '%s', but got none", tt.sceneType)
				}
				if s != nil {
					t.Errorf("Expected nil scene for invalid scene type '%s'", tt.sceneType)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error for scene type '%s': %v", tt.sceneType, err)
			}
			if s.SamplingConfig.Width <= 0 || s.SamplingConfig.Height <= 0 {
				t.Errorf("Scene resolution should be positive, got %dx%d", s.SamplingConfig.Width, s.SamplingConfig.Height)
			}
			if len(s.Objects) == 0 {
				t.Errorf("Scene '%s' has no objects", tt.sceneType)
			}
		})
	}
}

func TestTryLoadPBRTScene(t *testing.T) {
	tests := []struct {
		name       string
		sceneType  string
		expectLoad bool
	}{
		{"simple-sphere by name", "simple-sphere", true},
		{"three-spheres by name", "three-spheres", true},
		{"nonexistent PBRT", "nonexistent", false},
		{"built-in scene name", "default", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tryLoadPBRTScene(tt.sceneType)
			if loaded := s != nil; loaded != tt.expectLoad {
				t.Errorf("tryLoadPBRTScene(%q) loaded = %v, expected %v", tt.sceneType, loaded, tt.expectLoad)
			}
		})
	}
}

func TestCreateOutputDir(t *testing.T) {
	tests := []struct {
		name      string
		sceneType string
		expected  string
	}{
		{"default scene", "default", filepath.Join("output", "default")},
		{"spheres scene", "spheres", filepath.Join("output", "spheres")},
		{"PBRT scene by name", "simple-sphere", filepath.Join("output", "simple-sphere")},
		{"PBRT scene ID", "pbrt:three-spheres", filepath.Join("output", "three-spheres")},
		{"PBRT file path", "scenes/simple-sphere.pbrt", filepath.Join("output", "simple-sphere")},
		{"nested PBRT path", "scenes/subdir/my-scene.pbrt", filepath.Join("output", "my-scene")},
		{"unknown scene", "unknown", filepath.Join("output", "pbrt-scene")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := createOutputDir(tt.sceneType); got != tt.expected {
				t.Errorf("createOutputDir(%q) = %q, expected %q", tt.sceneType, got, tt.expected)
			}
		})
	}
}

func TestRenderScene(t *testing.T) {
	s, err := createScene("default")
	if err != nil {
		t.Fatalf("createScene() error: %v", err)
	}

	opts := renderOptions{width: 32, height: 18, samplesPerSide: 1, workers: 2}
	img, stats, err := renderScene(s, opts, nil)
	if err != nil {
		t.Fatalf("renderScene() error: %v", err)
	}

	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 18 {
		t.Errorf("image size = %dx%d, expected 32x18", b.Dx(), b.Dy())
	}
	if stats.Pass != renderer.PassFull {
		t.Errorf("stats pass = %s, expected full", stats.Pass)
	}
	if stats.TotalSamples != 32*18 {
		t.Errorf("total samples = %d, expected %d", stats.TotalSamples, 32*18)
	}
	if lum := renderer.CalculateAverageLuminance(img); lum <= 0 {
		t.Errorf("average luminance = %f, expected a lit image", lum)
	}
}

func TestRenderScene_InvalidSampler(t *testing.T) {
	s, err := createScene("default")
	if err != nil {
		t.Fatalf("createScene() error: %v", err)
	}

	_, _, err = renderScene(s, renderOptions{width: 4, height: 4, sampler: "jittered"}, nil)
	if err == nil || !strings.Contains(err.Error(), "jittered") {
		t.Errorf("renderScene() error = %v, expected unknown sampler", err)
	}
}

func TestSavePNG(t *testing.T) {
	s, err := createScene("default")
	if err != nil {
		t.Fatalf("createScene() error: %v", err)
	}
	img, _, err := renderScene(s, renderOptions{width: 8, height: 6, samplesPerSide: 1, workers: 1}, nil)
	if err != nil {
		t.Fatalf("renderScene() error: %v", err)
	}

	filename := filepath.Join(t.TempDir(), "nested", "render.png")
	if err := savePNG(filename, img); err != nil {
		t.Fatalf("savePNG() error: %v", err)
	}

	file, err := os.Open(filename)
	if err != nil {
		t.Fatalf("failed to open saved PNG: %v", err)
	}
	defer file.Close()

	decoded, err := png.Decode(file)
	if err != nil {
		t.Fatalf("failed to decode saved PNG: %v", err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Errorf("decoded bounds = %v, expected %v", decoded.Bounds(), img.Bounds())
	}
}
