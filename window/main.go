package main

import (
	"flag"
	"log"
	"math"
	"time"

	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/geometry"
	"github.com/df07/go-direct-raytracer/pkg/overlay"
	"github.com/df07/go-direct-raytracer/pkg/renderer"
	"github.com/df07/go-direct-raytracer/pkg/scene"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	windowWidth  = 1280
	windowHeight = 720

	moveSpeed  = 2.0         // Units per second
	turnSpeed  = math.Pi / 2 // Radians per second
	orbitSpeed = math.Pi / 8 // Radians per second
)

// tracerGame presents the tracer's color buffer in a window and drives the
// camera from the keyboard
type tracerGame struct {
	tracer   *renderer.Tracer
	hud      *overlay.HUD
	scale    int // Window pixels per rendered pixel
	showHUD  bool
	orbiting bool

	frame    []byte
	lastTick time.Time
}

func main() {
	sceneID := flag.String("scene", "default", "Scene ID (see the raytracer -help output)")
	samples := flag.Int("samples", 0, "Samples per pixel side (0 uses the scene's value)")
	sampler := flag.String("sampler", string(renderer.SamplerRegular), "Sample pattern: 'regular' or 'random'")
	workers := flag.Int("workers", 0, "Number of render goroutines (0 uses the CPU count)")
	scale := flag.Int("scale", 2, "Window pixels per rendered pixel")
	flag.Parse()

	if *scale < 1 {
		log.Fatalf("invalid scale %d: must be at least 1", *scale)
	}

	s, err := scene.LoadScene(*sceneID)
	if err != nil {
		log.Fatalf("Failed to load scene: %v", err)
	}
	log.Printf("Scene %s: %s", *sceneID, s.Summary())

	config := renderer.DefaultTracerConfig()
	config.SamplesPerSide = s.SamplingConfig.SamplesPerSide
	if *samples > 0 {
		config.SamplesPerSide = *samples
	}
	config.Sampler = renderer.SamplerType(*sampler)
	config.NumWorkers = *workers

	tracer, err := renderer.NewTracer(s, windowWidth / *scale, windowHeight / *scale, config, renderer.NewDefaultLogger())
	if err != nil {
		log.Fatalf("Failed to create tracer: %v", err)
	}
	defer tracer.Close()

	g := &tracerGame{
		tracer:  tracer,
		hud:     overlay.NewHUD(overlay.DefaultHUDConfig()),
		scale:   *scale,
		showHUD: true,
	}

	ebiten.SetWindowTitle("Direct Raytracer")
	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)

	if err := ebiten.RunGame(g); err != nil {
		log.Fatalf("Window failed: %v", err)
	}
}

func (g *tracerGame) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		g.orbiting = !g.orbiting
		speed := 0.0
		if g.orbiting {
			speed = orbitSpeed
		}
		g.tracer.SetOrbit(core.NewVec3(0, 0, 0), speed)
	}

	g.tracer.SetMovement(readMovement())

	now := time.Now()
	if !g.lastTick.IsZero() {
		g.tracer.Update(now.Sub(g.lastTick).Seconds())
	}
	g.lastTick = now

	// A moving camera only gets previews; the full pass runs once it stops
	if !g.tracer.QuickRender() {
		g.tracer.StartRender()
	}
	return nil
}

// readMovement maps held keys to camera movement rates
func readMovement() geometry.CameraMovement {
	axis := func(positive, negative ebiten.Key) float64 {
		v := 0.0
		if ebiten.IsKeyPressed(positive) {
			v++
		}
		if ebiten.IsKeyPressed(negative) {
			v--
		}
		return v
	}

	return geometry.CameraMovement{
		Forward:  axis(ebiten.KeyW, ebiten.KeyS) * moveSpeed,
		Strafe:   axis(ebiten.KeyD, ebiten.KeyA) * moveSpeed,
		Vertical: axis(ebiten.KeyE, ebiten.KeyQ) * moveSpeed,
		Yaw:      axis(ebiten.KeyArrowLeft, ebiten.KeyArrowRight) * turnSpeed,
		Pitch:    axis(ebiten.KeyArrowUp, ebiten.KeyArrowDown) * turnSpeed,
	}
}

func (g *tracerGame) Draw(screen *ebiten.Image) {
	width, height := g.tracer.Width(), g.tracer.Height()
	if len(g.frame) != width*height*4 {
		g.frame = make([]byte, width*height*4)
	}

	g.tracer.Draw(g.frame)

	if g.showHUD {
		frame, err := overlay.NewFrame(g.frame, width, height)
		if err != nil {
			log.Printf("HUD disabled: %v", err)
			g.showHUD = false
		} else {
			g.hud.Draw(frame, overlay.StatusLines(g.tracer))
		}
	}

	screen.WritePixels(g.frame)
}

// Layout renders at the window size divided by the scale and resizes the
// tracer when the window changes
func (g *tracerGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	width := max(outsideWidth/g.scale, 1)
	height := max(outsideHeight/g.scale, 1)

	if width != g.tracer.Width() || height != g.tracer.Height() {
		if err := g.tracer.Resize(width, height); err != nil {
			log.Printf("Resize failed: %v", err)
			return g.tracer.Width(), g.tracer.Height()
		}
	}
	return width, height
}
