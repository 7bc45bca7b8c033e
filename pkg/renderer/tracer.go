package renderer

import (
	"fmt"
	"image"
	"runtime"
	"time"

	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/scene"
)

// RenderStatus is the state of the tracer's color buffer
type RenderStatus int

const (
	StatusNeedsQuickRender RenderStatus = iota // Buffer is stale or empty
	StatusNeedsRender                          // Buffer holds a quick preview
	StatusRendering                            // A full pass is in progress
	StatusFinished                             // Buffer holds the full render
)

func (s RenderStatus) String() string {
	switch s {
	case StatusNeedsQuickRender:
		return "needs quick render"
	case StatusNeedsRender:
		return "needs render"
	case StatusRendering:
		return "rendering"
	case StatusFinished:
		return "finished"
	default:
		return fmt.Sprintf("RenderStatus(%d)", int(s))
	}
}

// SamplerType selects the per-pixel sample pattern
type SamplerType string

const (
	SamplerRegular SamplerType = "regular"
	SamplerRandom  SamplerType = "random"
)

// TracerConfig contains configuration for the tracer
type TracerConfig struct {
	SamplesPerSide int         // Samples per pixel are SamplesPerSide²
	Sampler        SamplerType // Sample pattern
	NumWorkers     int         // 1 renders inline, 0 uses the CPU count
	TileSize       int         // Tile edge in pixels when rendering in parallel
	Seed           int64       // Seed for the random sampler
}

// DefaultTracerConfig returns sensible default values
func DefaultTracerConfig() TracerConfig {
	return TracerConfig{
		SamplesPerSide: 4,
		Sampler:        SamplerRegular,
		NumWorkers:     1,
		TileSize:       64,
		Seed:           42,
	}
}

// Tracer owns the color buffer of a scene view and the render state machine
type Tracer struct {
	scene         *scene.Scene
	width, height int
	buffer        []core.Color // Row-major, row 0 is the top of the image
	status        RenderStatus
	config        TracerConfig
	sampler       core.SampleGenerator
	tiles         []*Tile
	workerPool    *WorkerPool // nil when rendering inline
	controller    cameraController
	stats         RenderStats
	logger        core.Logger
}

// NewTracer creates a tracer for a width x height view of the scene
func NewTracer(s *scene.Scene, width, height int, config TracerConfig, logger core.Logger) (*Tracer, error) {
	if s == nil {
		return nil, fmt.Errorf("scene cannot be nil")
	}
	if config.TileSize <= 0 {
		config.TileSize = DefaultTracerConfig().TileSize
	}
	if config.NumWorkers < 0 {
		return nil, fmt.Errorf("invalid worker count %d: must not be negative", config.NumWorkers)
	}
	if logger == nil {
		logger = discardLogger{}
	}

	sampler, err := newSampler(config)
	if err != nil {
		return nil, err
	}

	t := &Tracer{
		scene:   s,
		config:  config,
		sampler: sampler,
		logger:  logger,
		stats:   RenderStats{Pass: PassNone},
	}

	if err := t.Resize(width, height); err != nil {
		return nil, err
	}

	numWorkers := config.NumWorkers
	if numWorkers == 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > 1 {
		t.workerPool = NewWorkerPool(numWorkers, t.renderTile)
		t.workerPool.Start()
	}

	return t, nil
}

// newSampler creates the sample generator selected by the config
func newSampler(config TracerConfig) (core.SampleGenerator, error) {
	switch config.Sampler {
	case SamplerRegular, "":
		sampler, err := core.NewRegularSampler(config.SamplesPerSide)
		if err != nil {
			return nil, fmt.Errorf("failed to create sampler: %v", err)
		}
		return sampler, nil
	case SamplerRandom:
		sampler, err := core.NewRandomSampler(config.SamplesPerSide*config.SamplesPerSide, config.Seed)
		if err != nil {
			return nil, fmt.Errorf("failed to create sampler: %v", err)
		}
		return sampler, nil
	default:
		return nil, fmt.Errorf("unknown sampler type: %s", config.Sampler)
	}
}

// Resize reallocates the buffer for a new view size and marks it stale. The
// camera aspect ratio follows the view.
func (t *Tracer) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid size %dx%d: must be positive", width, height)
	}

	t.width = width
	t.height = height
	t.buffer = make([]core.Color, width*height)
	t.tiles = NewTileGrid(width, height, t.config.TileSize)
	t.scene.Camera.SetAspectRatio(float64(width) / float64(height))
	t.status = StatusNeedsQuickRender
	return nil
}

// Invalidate marks the buffer stale after a camera or scene change
func (t *Tracer) Invalidate() {
	t.status = StatusNeedsQuickRender
}

// QuickRender fills the buffer with one unlit sample per pixel. It only runs
// when the buffer is stale and reports whether it ran.
func (t *Tracer) QuickRender() bool {
	if t.status != StatusNeedsQuickRender {
		return false
	}

	t.render(PassQuick)
	t.status = StatusNeedsRender
	return true
}

// StartRender renders the full lit, antialiased image into the buffer. It
// runs unless the buffer is already finished and reports whether it ran.
func (t *Tracer) StartRender() bool {
	if t.status != StatusNeedsQuickRender && t.status != StatusNeedsRender {
		return false
	}

	t.status = StatusRendering
	t.render(PassFull)
	t.status = StatusFinished
	return true
}

// render runs one pass over the whole buffer, inline or on the worker pool
func (t *Tracer) render(pass PassKind) {
	start := time.Now()

	stats := RenderStats{
		Pass:        pass,
		TotalPixels: t.width * t.height,
		Workers:     1,
		Tiles:       1,
	}

	if t.workerPool == nil {
		stats.TotalSamples = t.renderBounds(image.Rect(0, 0, t.width, t.height), pass)
	} else {
		stats.TotalSamples = t.workerPool.RenderTiles(t.tiles, pass)
		stats.Workers = t.workerPool.GetNumWorkers()
		stats.Tiles = len(t.tiles)
	}

	stats.Duration = time.Since(start)
	t.stats = stats
	t.logger.Printf("%s\n", stats)
}

// renderTile is the worker pool callback
func (t *Tracer) renderTile(task TileTask) TileResult {
	return TileResult{
		TaskID:  task.TaskID,
		Samples: t.renderBounds(task.Tile.Bounds, task.Pass),
	}
}

// renderBounds renders the pixels inside bounds and returns the samples traced
func (t *Tracer) renderBounds(bounds image.Rectangle, pass PassKind) int {
	// Pixel (i, j) maps to h = i/(width-1), v = 1 - j/(height-1)
	hScale := 1.0 / float64(max(t.width-1, 1))
	vScale := 1.0 / float64(max(t.height-1, 1))

	samples := 0
	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			var color core.Color

			if pass == PassQuick {
				color = t.scene.PreviewPixel(float64(i)*hScale, 1-float64(j)*vScale)
				samples++
			} else {
				count := t.sampler.Count()
				for n := 0; n < count; n++ {
					offset := t.sampler.Sample(n)
					h := (float64(i) + offset.X()) * hScale
					v := 1 - (float64(j)+offset.Y())*vScale
					color = color.Add(t.scene.RenderPixel(h, v))
				}
				color = color.Div(float64(count))
				samples += count
			}

			t.buffer[j*t.width+i] = color
		}
	}
	return samples
}

// Draw packs the buffer into frame as RGBA8. frame must hold exactly
// width*height*4 bytes; anything else is a programming error and panics.
func (t *Tracer) Draw(frame []byte) {
	if len(frame) != len(t.buffer)*4 {
		panic(fmt.Sprintf("renderer: frame of %d bytes does not match %dx%d color buffer (%d bytes)",
			len(frame), t.width, t.height, len(t.buffer)*4))
	}

	for i, color := range t.buffer {
		rgba := color.RGBA8()
		copy(frame[i*4:i*4+4], rgba[:])
	}
}

// Image returns the buffer as a new RGBA image
func (t *Tracer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, t.width, t.height))
	t.Draw(img.Pix)
	return img
}

// Close stops the worker pool, if any. Later passes render inline.
func (t *Tracer) Close() {
	if t.workerPool != nil {
		t.workerPool.Stop()
		t.workerPool = nil
	}
}

func (t *Tracer) Status() RenderStatus { return t.status }
func (t *Tracer) Width() int           { return t.width }
func (t *Tracer) Height() int          { return t.height }
func (t *Tracer) Stats() RenderStats   { return t.stats }
func (t *Tracer) Scene() *scene.Scene  { return t.scene }
func (t *Tracer) Config() TracerConfig { return t.config }
