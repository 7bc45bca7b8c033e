package renderer

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/scene"
)

// redSphereScene is a red sphere at the origin under white ambient light,
// seen by the default camera
func redSphereScene() *scene.Scene {
	s := scene.NewScene(nil)
	s.AddSphere(core.NewVec3(0, 0, 0), 1, core.Red)
	s.AddAmbientLight(core.White)
	return s
}

func newTestTracer(t *testing.T, s *scene.Scene, width, height int, config TracerConfig) *Tracer {
	t.Helper()
	tracer, err := NewTracer(s, width, height, config, nil)
	if err != nil {
		t.Fatalf("NewTracer() error: %v", err)
	}
	t.Cleanup(tracer.Close)
	return tracer
}

func pixelAt(frame []byte, width, x, y int) [4]byte {
	i := (y*width + x) * 4
	return [4]byte{frame[i], frame[i+1], frame[i+2], frame[i+3]}
}

func TestNewTracer_Errors(t *testing.T) {
	valid := DefaultTracerConfig()

	tests := []struct {
		name   string
		scene  *scene.Scene
		width  int
		height int
		config func(TracerConfig) TracerConfig
	}{
		{"nil scene", nil, 10, 10, func(c TracerConfig) TracerConfig { return c }},
		{"zero width", redSphereScene(), 0, 10, func(c TracerConfig) TracerConfig { return c }},
		{"negative height", redSphereScene(), 10, -1, func(c TracerConfig) TracerConfig { return c }},
		{"zero samples", redSphereScene(), 10, 10, func(c TracerConfig) TracerConfig { c.SamplesPerSide = 0; return c }},
		{"zero random samples", redSphereScene(), 10, 10, func(c TracerConfig) TracerConfig {
			c.Sampler = SamplerRandom
			c.SamplesPerSide = 0
			return c
		}},
		{"unknown sampler", redSphereScene(), 10, 10, func(c TracerConfig) TracerConfig { c.Sampler = "stratified"; return c }},
		{"negative workers", redSphereScene(), 10, 10, func(c TracerConfig) TracerConfig { c.NumWorkers = -2; return c }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracer, err := NewTracer(tt.scene, tt.width, tt.height, tt.config(valid), nil)
			if err == nil {
				tracer.Close()
				t.Error("Expected error, got nil")
			}
			if tracer != nil {
				t.Error("Expected no tracer on error")
			}
		})
	}
}

func TestTracer_StateMachine(t *testing.T) {
	tracer := newTestTracer(t, redSphereScene(), 8, 6, DefaultTracerConfig())

	if tracer.Status() != StatusNeedsQuickRender {
		t.Fatalf("Expected new tracer to need a quick render, got %s", tracer.Status())
	}

	steps := []struct {
		name     string
		action   func() bool
		expectOK bool
		expected RenderStatus
	}{
		{"quick render from stale", tracer.QuickRender, true, StatusNeedsRender},
		{"quick render twice", tracer.QuickRender, false, StatusNeedsRender},
		{"full render after quick", tracer.StartRender, true, StatusFinished},
		{"full render when finished", tracer.StartRender, false, StatusFinished},
		{"quick render when finished", tracer.QuickRender, false, StatusFinished},
		{"invalidate", func() bool { tracer.Invalidate(); return true }, true, StatusNeedsQuickRender},
		{"full render straight from stale", tracer.StartRender, true, StatusFinished},
	}

	for _, step := range steps {
		ok := step.action()
		if ok != step.expectOK {
			t.Errorf("%s: returned %t, want %t", step.name, ok, step.expectOK)
		}
		if tracer.Status() != step.expected {
			t.Errorf("%s: status %s, want %s", step.name, tracer.Status(), step.expected)
		}
	}
}

func TestTracer_Draw_SizeMismatchPanics(t *testing.T) {
	tracer := newTestTracer(t, redSphereScene(), 4, 3, DefaultTracerConfig())
	tracer.StartRender()

	frame := bytes.Repeat([]byte{7}, 4*3*4-1)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Expected Draw to panic on size mismatch")
		}
		if !strings.Contains(r.(string), "does not match") {
			t.Errorf("Unexpected panic message: %v", r)
		}
		for i, b := range frame {
			if b != 7 {
				t.Fatalf("Draw wrote byte %d before panicking", i)
			}
		}
	}()

	tracer.Draw(frame)
}

func TestTracer_Draw_Idempotent(t *testing.T) {
	tracer := newTestTracer(t, redSphereScene(), 9, 7, DefaultTracerConfig())
	tracer.StartRender()

	first := make([]byte, 9*7*4)
	second := make([]byte, 9*7*4)
	tracer.Draw(first)
	tracer.Draw(second)
	tracer.Draw(second)

	if !bytes.Equal(first, second) {
		t.Error("Repeated Draw calls produced different frames")
	}
}

func TestTracer_EndToEnd(t *testing.T) {
	tracer := newTestTracer(t, redSphereScene(), 5, 5, DefaultTracerConfig())
	tracer.StartRender()

	frame := make([]byte, 5*5*4)
	tracer.Draw(frame)

	if center := pixelAt(frame, 5, 2, 2); center != [4]byte{255, 0, 0, 255} {
		t.Errorf("Expected red center pixel, got %v", center)
	}

	corner := pixelAt(frame, 5, 0, 0)
	if corner[1] == 0 || corner[2] == 0 {
		t.Errorf("Expected sky in the corner, got %v", corner)
	}
	if corner[3] != 255 {
		t.Errorf("Expected opaque alpha, got %d", corner[3])
	}
}

func TestTracer_BufferIsRowMajorTopDown(t *testing.T) {
	// Empty scene: only the sky gradient, whiter toward the top
	tracer := newTestTracer(t, scene.NewScene(nil), 6, 10, DefaultTracerConfig())
	tracer.StartRender()

	frame := make([]byte, 6*10*4)
	tracer.Draw(frame)

	top := pixelAt(frame, 6, 0, 0)
	bottom := pixelAt(frame, 6, 0, 9)
	if top[0] <= bottom[0] {
		t.Errorf("Expected the top row (R=%d) to be whiter than the bottom row (R=%d)", top[0], bottom[0])
	}

	// Blue is 1 at both ends of the default gradient
	for x := 1; x < 6; x++ {
		if pixelAt(frame, 6, x, 0)[2] != 255 {
			t.Errorf("Expected full blue in the top row at x=%d", x)
		}
	}
}

func TestTracer_QuickRender_Unlit(t *testing.T) {
	s := scene.NewScene(nil)
	s.AddSphere(core.NewVec3(0, 0, 0), 1, core.NewColor(0, 0.5, 1))
	s.AddDirectionalLight(core.White, core.NewVec3(0, 0, 1))

	tracer := newTestTracer(t, s, 5, 5, DefaultTracerConfig())
	tracer.QuickRender()

	frame := make([]byte, 5*5*4)
	tracer.Draw(frame)

	if center := pixelAt(frame, 5, 2, 2); center != [4]byte{0, 127, 255, 255} {
		t.Errorf("Expected raw object color at the center, got %v", center)
	}

	stats := tracer.Stats()
	if stats.Pass != PassQuick || stats.TotalSamples != 25 {
		t.Errorf("Expected one sample per pixel in the quick pass, got %+v", stats)
	}
}

func TestTracer_Stats(t *testing.T) {
	config := DefaultTracerConfig()
	config.SamplesPerSide = 2
	tracer := newTestTracer(t, redSphereScene(), 3, 2, config)

	if tracer.Stats().Pass != PassNone {
		t.Errorf("Expected no pass before rendering, got %s", tracer.Stats().Pass)
	}

	tracer.StartRender()
	stats := tracer.Stats()
	if stats.Pass != PassFull {
		t.Errorf("Expected full pass, got %s", stats.Pass)
	}
	if stats.TotalPixels != 6 || stats.TotalSamples != 24 {
		t.Errorf("Expected 6 pixels and 24 samples, got %d and %d", stats.TotalPixels, stats.TotalSamples)
	}
	if stats.Workers != 1 {
		t.Errorf("Expected inline render, got %d workers", stats.Workers)
	}
}

func TestTracer_Resize(t *testing.T) {
	s := redSphereScene()
	tracer := newTestTracer(t, s, 4, 4, DefaultTracerConfig())
	tracer.StartRender()

	if err := tracer.Resize(0, 5); err == nil {
		t.Error("Expected error for zero width")
	}

	if err := tracer.Resize(8, 4); err != nil {
		t.Fatalf("Resize() error: %v", err)
	}
	if tracer.Status() != StatusNeedsQuickRender {
		t.Errorf("Expected resize to mark the buffer stale, got %s", tracer.Status())
	}
	if tracer.Width() != 8 || tracer.Height() != 4 {
		t.Errorf("Expected 8x4, got %dx%d", tracer.Width(), tracer.Height())
	}
	if math.Abs(s.Camera.AspectRatio()-2) > 1e-12 {
		t.Errorf("Expected camera aspect 2, got %f", s.Camera.AspectRatio())
	}

	// Fresh buffer is black
	frame := make([]byte, 8*4*4)
	tracer.Draw(frame)
	for i := 0; i < len(frame); i += 4 {
		if !bytes.Equal(frame[i:i+4], []byte{0, 0, 0, 255}) {
			t.Fatalf("Expected cleared buffer after resize, got %v at pixel %d", frame[i:i+4], i/4)
		}
	}
}

func TestTracer_SinglePixel(t *testing.T) {
	tracer := newTestTracer(t, redSphereScene(), 1, 1, DefaultTracerConfig())
	tracer.StartRender()

	c := tracer.buffer[0]
	if math.IsNaN(c.R) || math.IsNaN(c.G) || math.IsNaN(c.B) {
		t.Errorf("Expected finite color for a 1x1 view, got %v", c)
	}
}

func TestTracer_ParallelMatchesInline(t *testing.T) {
	width, height := 37, 23

	render := func(workers int, quick bool) []byte {
		config := DefaultTracerConfig()
		config.NumWorkers = workers
		config.TileSize = 8
		tracer := newTestTracer(t, scene.NewDefaultScene(), width, height, config)
		if quick {
			tracer.QuickRender()
		} else {
			tracer.StartRender()
		}
		frame := make([]byte, width*height*4)
		tracer.Draw(frame)
		return frame
	}

	for _, quick := range []bool{true, false} {
		inline := render(1, quick)
		parallel := render(4, quick)
		if !bytes.Equal(inline, parallel) {
			t.Errorf("Parallel render differs from inline render (quick=%t)", quick)
		}
	}

	config := DefaultTracerConfig()
	config.NumWorkers = 3
	config.TileSize = 8
	tracer := newTestTracer(t, scene.NewDefaultScene(), width, height, config)
	tracer.StartRender()
	stats := tracer.Stats()
	if stats.Workers != 3 || stats.Tiles != 15 {
		t.Errorf("Expected 3 workers over 15 tiles, got %d workers and %d tiles", stats.Workers, stats.Tiles)
	}
	if stats.TotalSamples != width*height*16 {
		t.Errorf("Expected %d samples, got %d", width*height*16, stats.TotalSamples)
	}
}

func TestTracer_RenderAfterClose(t *testing.T) {
	width, height := 16, 16

	inlineConfig := DefaultTracerConfig()
	inline := newTestTracer(t, redSphereScene(), width, height, inlineConfig)
	inline.StartRender()
	want := make([]byte, width*height*4)
	inline.Draw(want)

	config := DefaultTracerConfig()
	config.NumWorkers = 4
	config.TileSize = 4
	tracer := newTestTracer(t, redSphereScene(), width, height, config)
	tracer.Close()
	tracer.Invalidate()

	if !tracer.QuickRender() {
		t.Fatal("QuickRender() after Close returned false")
	}
	if got := tracer.Stats().TotalSamples; got != width*height {
		t.Errorf("Quick pass after Close traced %d samples, want %d", got, width*height)
	}

	if !tracer.StartRender() {
		t.Fatal("StartRender() after Close returned false")
	}
	stats := tracer.Stats()
	if stats.TotalSamples != width*height*16 || stats.Workers != 1 {
		t.Errorf("Full pass after Close: %d samples on %d workers, want %d on 1",
			stats.TotalSamples, stats.Workers, width*height*16)
	}

	got := make([]byte, width*height*4)
	tracer.Draw(got)
	if !bytes.Equal(got, want) {
		t.Error("Render after Close differs from inline render")
	}

	// Closing again is a no-op
	tracer.Close()
}

func TestTracer_RandomSamplerDeterministic(t *testing.T) {
	config := DefaultTracerConfig()
	config.Sampler = SamplerRandom
	config.SamplesPerSide = 3
	config.Seed = 7

	render := func() []byte {
		tracer := newTestTracer(t, scene.NewShadowsScene(), 16, 9, config)
		tracer.StartRender()
		return tracer.Image().Pix
	}

	if !bytes.Equal(render(), render()) {
		t.Error("Random sampler with a fixed seed should render identically")
	}
}

func TestTracer_Image(t *testing.T) {
	tracer := newTestTracer(t, redSphereScene(), 5, 5, DefaultTracerConfig())
	tracer.StartRender()

	img := tracer.Image()
	if img.Bounds().Dx() != 5 || img.Bounds().Dy() != 5 {
		t.Fatalf("Expected 5x5 image, got %v", img.Bounds())
	}
	if c := img.RGBAAt(2, 2); c.R != 255 || c.G != 0 || c.B != 0 || c.A != 255 {
		t.Errorf("Expected red center pixel, got %v", c)
	}
}

func TestRenderStatus_String(t *testing.T) {
	if StatusFinished.String() != "finished" {
		t.Errorf("Unexpected status name %q", StatusFinished.String())
	}
	if RenderStatus(42).String() != "RenderStatus(42)" {
		t.Errorf("Unexpected unknown status name %q", RenderStatus(42).String())
	}
}
