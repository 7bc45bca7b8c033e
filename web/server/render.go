package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/renderer"
	"github.com/df07/go-direct-raytracer/pkg/scene"
)

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "preview", "progress", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// PassUpdate is the payload of the preview and progress events
type PassUpdate struct {
	Pass             renderer.PassKind `json:"pass"`
	Width            int               `json:"width"`
	Height           int               `json:"height"`
	ImageData        string            `json:"imageData"` // Base64 encoded PNG
	Stats            Stats             `json:"stats"`
	AverageLuminance float64           `json:"averageLuminance"`
	ElapsedMs        int64             `json:"elapsedMs"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels    int     `json:"totalPixels"`
	TotalSamples   int     `json:"totalSamples"`
	AverageSamples float64 `json:"averageSamples"`
	Workers        int     `json:"workers"`
	Tiles          int     `json:"tiles"`
	DurationMs     int64   `json:"durationMs"`
}

// RenderingPipeline contains the configured scene and tracer
type RenderingPipeline struct {
	Scene  *scene.Scene
	Tracer *renderer.Tracer
}

// handleRender streams a quick preview and then the full render via SSE
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)

	ctx := r.Context()

	// All events go through one writer goroutine, which must finish before
	// the handler returns
	sseEventChan := make(chan SSEEvent, 16)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeSSEEvents(w, ctx, sseEventChan)
	}()
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	consoleChan, webLogger := s.setupConsoleLogging()
	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		s.streamConsoleMessages(ctx, consoleChan, sseEventChan)
	}()

	err = s.renderPasses(ctx, sseEventChan, req, webLogger)

	close(consoleChan)
	<-consoleDone

	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Rendering failed: %v", err))
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "complete", Data: "Rendering completed"}:
	case <-ctx.Done():
	}
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	webLogger := NewWebLogger(renderID, consoleChan)
	return consoleChan, webLogger
}

// writeSSEEvents writes events until the channel closes or the client goes away
func (s *Server) writeSSEEvents(w http.ResponseWriter, ctx context.Context, sseEventChan <-chan SSEEvent) {
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				return
			}

			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
				// Client disconnected during write
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}

		case <-ctx.Done():
			return
		}
	}
}

// streamConsoleMessages forwards console messages until consoleChan closes
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan <-chan ConsoleMessage, sseEventChan chan<- SSEEvent) {
	for {
		select {
		case consoleMsg, ok := <-consoleChan:
			if !ok {
				return
			}

			data, err := json.Marshal(consoleMsg)
			if err != nil {
				log.Printf("Error marshaling console message: %v", err)
				continue
			}

			select {
			case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
			case <-ctx.Done():
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	req := &RenderRequest{}

	if err := s.parseCommonSceneParams(r, req); err != nil {
		return nil, err
	}

	var err error
	if req.SamplesPerSide, err = parseIntParam(r.URL.Query(), "samples", 0, 0, MaxSamplesPerSide); err != nil {
		return nil, err
	}

	req.Sampler = renderer.SamplerType(r.URL.Query().Get("sampler"))
	switch req.Sampler {
	case "":
		req.Sampler = renderer.SamplerRegular
	case renderer.SamplerRegular, renderer.SamplerRandom:
	default:
		return nil, fmt.Errorf("invalid sampler: %s", req.Sampler)
	}

	// Performance warning
	if req.Width*req.Height > 800*600 && req.SamplesPerSide > 8 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}

	return req, nil
}

// setupRenderingPipeline creates and configures the scene and tracer
func (s *Server) setupRenderingPipeline(req *RenderRequest, logger core.Logger) (*RenderingPipeline, error) {
	sceneObj, err := s.createScene(req, logger)
	if err != nil {
		return nil, err
	}

	config := renderer.DefaultTracerConfig()
	config.SamplesPerSide = sceneObj.SamplingConfig.SamplesPerSide
	if req.SamplesPerSide > 0 {
		config.SamplesPerSide = req.SamplesPerSide
	}
	config.Sampler = req.Sampler
	config.NumWorkers = 0 // Auto-detect

	tracer, err := renderer.NewTracer(sceneObj, req.Width, req.Height, config, logger)
	if err != nil {
		return nil, err
	}

	return &RenderingPipeline{
		Scene:  sceneObj,
		Tracer: tracer,
	}, nil
}

// renderPasses streams the tracer's progressive passes as preview and
// progress events. The client going away stops the render between passes.
func (s *Server) renderPasses(ctx context.Context, sseEventChan chan<- SSEEvent, req *RenderRequest, logger core.Logger) error {
	pipeline, err := s.setupRenderingPipeline(req, logger)
	if err != nil {
		return err
	}
	defer pipeline.Tracer.Close()

	startTime := time.Now()
	passChan, errChan := pipeline.Tracer.RenderProgressive(ctx)

	for result := range passChan {
		data, err := s.passUpdateJSON(result, startTime)
		if err != nil {
			log.Printf("Error encoding %s pass: %v", result.Pass, err)
			continue
		}

		eventType := "progress"
		if result.Pass == renderer.PassQuick {
			eventType = "preview"
		}

		select {
		case sseEventChan <- SSEEvent{Type: eventType, Data: data}:
		case <-ctx.Done():
		}
	}

	return <-errChan
}

// passUpdateJSON encodes the image and stats of a finished pass
func (s *Server) passUpdateJSON(result renderer.PassResult, startTime time.Time) (string, error) {
	imageData, err := s.imageToBase64PNG(result.Image)
	if err != nil {
		return "", fmt.Errorf("failed to encode image: %v", err)
	}

	bounds := result.Image.Bounds()
	update := PassUpdate{
		Pass:      result.Pass,
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		ImageData: imageData,
		Stats: Stats{
			TotalPixels:    result.Stats.TotalPixels,
			TotalSamples:   result.Stats.TotalSamples,
			AverageSamples: result.Stats.AverageSamples(),
			Workers:        result.Stats.Workers,
			Tiles:          result.Stats.Tiles,
			DurationMs:     result.Stats.Duration.Milliseconds(),
		},
		AverageLuminance: renderer.CalculateAverageLuminance(result.Image),
		ElapsedMs:        time.Since(startTime).Milliseconds(),
	}

	data, err := json.Marshal(update)
	if err != nil {
		return "", fmt.Errorf("failed to marshal pass update: %v", err)
	}
	return string(data), nil
}

// handleError sends an error event to the SSE channel
func (s *Server) handleError(ctx context.Context, sseEventChan chan<- SSEEvent, message string) {
	select {
	case sseEventChan <- SSEEvent{Type: "error", Data: message}:
	case <-ctx.Done():
		// Client disconnected, don't block
	}
}
