package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/renderer"
	"github.com/df07/go-direct-raytracer/pkg/scene"
)

// renderOptions are the command line overrides for a headless render
type renderOptions struct {
	width, height  int // 0 keeps the scene's resolution
	samplesPerSide int // 0 keeps the scene's sample count
	sampler        renderer.SamplerType
	workers        int
}

func main() {
	sceneType := flag.String("scene", "default", "Scene: built-in ID, PBRT scene name, or path to a .pbrt file")
	width := flag.Int("width", 0, "Image width in pixels (0 uses the scene's width)")
	height := flag.Int("height", 0, "Image height in pixels (0 uses the scene's height)")
	samples := flag.Int("samples", 0, "Samples per pixel side, N*N samples per pixel (0 uses the scene's value)")
	sampler := flag.String("sampler", string(renderer.SamplerRegular), "Sample pattern: 'regular' or 'random'")
	workers := flag.Int("workers", 0, "Number of render goroutines (0 uses the CPU count)")
	out := flag.String("out", "", "Output PNG file (default output/<scene>/render_<timestamp>.png)")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("Direct Raytracer")
		fmt.Println("Usage: raytracer [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Available scenes:")
		printScenes()
		fmt.Println()
		fmt.Println("Output will be saved to output/<scene>/render_<timestamp>.png")
		return
	}

	fmt.Println("Starting Direct Raytracer...")

	selectedScene, err := createScene(*sceneType)
	if err != nil {
		fmt.Printf("Error loading scene: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Scene %s: %s\n", *sceneType, selectedScene.Summary())

	opts := renderOptions{
		width:          *width,
		height:         *height,
		samplesPerSide: *samples,
		sampler:        renderer.SamplerType(*sampler),
		workers:        *workers,
	}

	startTime := time.Now()
	img, stats, err := renderScene(selectedScene, opts, renderer.NewDefaultLogger())
	if err != nil {
		fmt.Printf("Error rendering: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Render completed in %v\n", time.Since(startTime))
	fmt.Printf("Samples per pixel: %.1f\n", stats.AverageSamples())
	fmt.Printf("Average luminance: %.3f\n", renderer.CalculateAverageLuminance(img))

	filename := *out
	if filename == "" {
		outputDir := createOutputDir(*sceneType)
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			fmt.Printf("Error creating output directory: %v\n", err)
			os.Exit(1)
		}
		timestamp := time.Now().Format("20060102_150405")
		filename = filepath.Join(outputDir, fmt.Sprintf("render_%s.png", timestamp))
	}

	if err := savePNG(filename, img); err != nil {
		fmt.Printf("Error saving PNG: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Render saved as %s\n", filename)
}

// createScene resolves a built-in scene ID, a "pbrt:<name>" ID, a PBRT scene
// name or a path to a .pbrt file
func createScene(sceneType string) (*scene.Scene, error) {
	if sceneType == "" {
		return nil, fmt.Errorf("scene name cannot be empty")
	}

	if strings.HasSuffix(sceneType, ".pbrt") {
		return scene.NewPBRTScene(sceneType)
	}

	if s, err := scene.LoadScene(sceneType); err == nil {
		return s, nil
	}

	if s := tryLoadPBRTScene(sceneType); s != nil {
		return s, nil
	}

	return nil, fmt.Errorf("unknown scene: %s", sceneType)
}

// tryLoadPBRTScene loads <name>.pbrt from the first scenes directory holding
// it, or returns nil
func tryLoadPBRTScene(name string) *scene.Scene {
	for _, dir := range scene.ScenesDirs {
		path := filepath.Join(dir, name+".pbrt")
		if _, err := os.Stat(path); err != nil {
			continue
		}
		s, err := scene.NewPBRTScene(path)
		if err != nil {
			fmt.Printf("Error loading %s: %v\n", path, err)
			return nil
		}
		return s
	}
	return nil
}

// createOutputDir returns the output directory for a scene. PBRT files use
// their base name; names that are neither built in nor found on disk share
// "pbrt-scene".
func createOutputDir(sceneType string) string {
	name := sceneType
	switch {
	case strings.HasSuffix(sceneType, ".pbrt"):
		name = strings.TrimSuffix(filepath.Base(sceneType), ".pbrt")
	case strings.HasPrefix(sceneType, "pbrt:"):
		name = strings.TrimPrefix(sceneType, "pbrt:")
	case isBuiltInScene(sceneType):
	case tryLoadPBRTScene(sceneType) != nil:
	default:
		name = "pbrt-scene"
	}
	return filepath.Join("output", name)
}

func isBuiltInScene(id string) bool {
	response, err := scene.ListAllScenes()
	if err != nil {
		return false
	}
	for _, group := range response.Groups {
		for _, info := range group.Scenes {
			if info.Type == "builtin" && info.ID == id {
				return true
			}
		}
	}
	return false
}

// renderScene renders a quick preview followed by the full image
func renderScene(s *scene.Scene, opts renderOptions, logger core.Logger) (*image.RGBA, renderer.RenderStats, error) {
	width := s.SamplingConfig.Width
	if opts.width > 0 {
		width = opts.width
	}
	height := s.SamplingConfig.Height
	if opts.height > 0 {
		height = opts.height
	}

	config := renderer.DefaultTracerConfig()
	config.SamplesPerSide = s.SamplingConfig.SamplesPerSide
	if opts.samplesPerSide > 0 {
		config.SamplesPerSide = opts.samplesPerSide
	}
	if opts.sampler != "" {
		config.Sampler = opts.sampler
	}
	config.NumWorkers = opts.workers

	tracer, err := renderer.NewTracer(s, width, height, config, logger)
	if err != nil {
		return nil, renderer.RenderStats{}, err
	}
	defer tracer.Close()

	tracer.QuickRender()
	tracer.StartRender()

	return tracer.Image(), tracer.Stats(), nil
}

func savePNG(filename string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %v", err)
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %v", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %v", err)
	}
	return nil
}

func printScenes() {
	response, err := scene.ListAllScenes()
	if err != nil {
		fmt.Printf("  (failed to list scenes: %v)\n", err)
		return
	}
	for _, group := range response.Groups {
		for _, info := range group.Scenes {
			fmt.Printf("  %-24s %s\n", info.ID, info.DisplayName)
		}
	}
}
