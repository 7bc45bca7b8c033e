package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/geometry"
	"github.com/df07/go-direct-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Color        string                 `json:"color,omitempty"`    // Surface color as #rrggbb
	LitColor     string                 `json:"litColor,omitempty"` // Directly lit color seen by the camera
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// InspectResult describes the object hit by an inspection ray
type InspectResult struct {
	Hit       bool
	HitRecord *core.HitRecord
	Object    *scene.Object
	LitColor  core.Color
}

// inspectPixel casts the camera ray through the center of pixel (pixelX,
// pixelY) of a width x height view and returns the nearest object
func inspectPixel(sceneObj *scene.Scene, width, height, pixelX, pixelY int) InspectResult {
	sceneObj.Camera.SetAspectRatio(float64(width) / float64(height))

	h := float64(pixelX) / float64(max(width-1, 1))
	v := 1 - float64(pixelY)/float64(max(height-1, 1))
	ray := sceneObj.Camera.GetRay(h, v)

	object, hit, isHit := sceneObj.FirstHit(ray)
	if !isHit {
		return InspectResult{Hit: false}
	}

	return InspectResult{
		Hit:       true,
		HitRecord: hit,
		Object:    object,
		LitColor:  sceneObj.TraceRay(ray),
	}
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(shape geometry.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = vecArray(geom.Center)
		properties["radius"] = geom.Radius
		return "sphere", properties

	case *geometry.Plane:
		properties["point"] = vecArray(geom.Point)
		properties["normal"] = vecArray(geom.Normal)
		return "plane", properties

	default:
		return "unknown", properties
	}
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X(), v.Y(), v.Z()}
}

func colorHex(c core.Color) string {
	rgba := c.RGBA8()
	return fmt.Sprintf("#%02x%02x%02x", rgba[0], rgba[1], rgba[2])
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	inspectReq := &RenderRequest{}
	if err := s.parseCommonSceneParams(r, inspectReq); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid scene parameters: " + err.Error()})
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid x coordinate"})
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid y coordinate"})
		return
	}

	sceneObj, err := s.createScene(inspectReq, nil)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if pixelX < 0 || pixelX >= inspectReq.Width || pixelY < 0 || pixelY >= inspectReq.Height {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Pixel coordinates out of bounds"})
		return
	}

	result := inspectPixel(sceneObj, inspectReq.Width, inspectReq.Height, pixelX, pixelY)
	if !result.Hit {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false})
		return
	}

	geometryType, geometryProps := extractGeometryInfo(result.Object.Shape)
	response := InspectResponse{
		Hit:          true,
		GeometryType: geometryType,
		Color:        colorHex(result.Object.Color),
		LitColor:     colorHex(result.LitColor),
		Point:        vecArray(result.HitRecord.Point),
		Normal:       vecArray(result.HitRecord.Normal),
		Distance:     result.HitRecord.Point.Sub(sceneObj.Camera.Origin()).Len(),
		Properties:   geometryProps,
	}

	writeJSON(w, http.StatusOK, response)
}
