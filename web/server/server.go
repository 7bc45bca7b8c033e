package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/renderer"
	"github.com/df07/go-direct-raytracer/pkg/scene"
)

// Request limits
const (
	MaxImageSize      = 2000
	MaxSamplesPerSide = 16
	MaxVerticalFOV    = 179.0 // Degrees
)

// Server handles web requests for the raytracer
type Server struct {
	port int
	mux  *http.ServeMux
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	s := &Server{port: port, mux: http.NewServeMux()}

	// Static files
	s.mux.Handle("/", http.FileServer(http.Dir("static/")))

	// API endpoints
	s.mux.HandleFunc("/api/render", s.handleRender)
	s.mux.HandleFunc("/api/inspect", s.handleInspect)
	s.mux.HandleFunc("/api/scenes", s.handleScenes)
	s.mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	s.mux.HandleFunc("/api/health", s.handleHealth)

	return s
}

// Handler returns the request router
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.mux)
}

// RenderRequest holds the scene and sampling parameters of a request. Zero
// values keep the scene's own settings.
type RenderRequest struct {
	Scene          string               `json:"scene"`          // Scene ID
	Width          int                  `json:"width"`          // Image width
	Height         int                  `json:"height"`         // Image height
	SamplesPerSide int                  `json:"samplesPerSide"` // Samples per pixel side
	Sampler        renderer.SamplerType `json:"sampler"`        // Sample pattern
	VerticalFOV    float64              `json:"verticalFov"`    // Degrees
}

// parseCommonSceneParams parses the parameters shared by render and inspect requests
func (s *Server) parseCommonSceneParams(r *http.Request, req *RenderRequest) error {
	query := r.URL.Query()

	req.Scene = query.Get("scene")
	if req.Scene == "" {
		req.Scene = "default"
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 0, 0, MaxImageSize); err != nil {
		return err
	}
	if req.Height, err = parseIntParam(query, "height", 0, 0, MaxImageSize); err != nil {
		return err
	}
	if req.VerticalFOV, err = parseFloatParam(query, "vfov", 0, 0, MaxVerticalFOV); err != nil {
		return err
	}
	return nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(parsed) {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// createScene loads the requested scene and applies the request overrides.
// Width and height of req are filled from the scene when unset.
func (s *Server) createScene(req *RenderRequest, logger core.Logger) (*scene.Scene, error) {
	sceneObj, err := scene.LoadScene(req.Scene)
	if err != nil {
		return nil, err
	}
	if logger != nil {
		logger.Printf("Loaded scene %s: %s\n", req.Scene, sceneObj.Summary())
	}

	if req.Width == 0 {
		req.Width = sceneObj.SamplingConfig.Width
	}
	if req.Height == 0 {
		req.Height = sceneObj.SamplingConfig.Height
	}
	if req.VerticalFOV > 0 {
		sceneObj.Camera.SetVerticalFOV(req.VerticalFOV * math.Pi / 180)
	}
	return sceneObj, nil
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in and PBRT scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = "default"
	}

	sceneObj, err := scene.LoadScene(sceneName)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	config := sceneObj.SamplingConfig
	response := map[string]interface{}{
		"scene":   sceneName,
		"summary": sceneObj.Summary(),
		"defaults": map[string]interface{}{
			"width":          config.Width,
			"height":         config.Height,
			"samplesPerSide": config.SamplesPerSide,
			"sampler":        renderer.SamplerRegular,
			"verticalFov":    sceneObj.Camera.VerticalFOV() * 180 / math.Pi,
		},
		"limits": map[string]interface{}{
			"width":          map[string]int{"min": 1, "max": MaxImageSize},
			"height":         map[string]int{"min": 1, "max": MaxImageSize},
			"samplesPerSide": map[string]int{"min": 1, "max": MaxSamplesPerSide},
			"verticalFov":    map[string]float64{"min": 0, "max": MaxVerticalFOV},
		},
	}

	writeJSON(w, http.StatusOK, response)
}

// writeJSON writes a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
