package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-halftone-raytracer/pkg/core"
	"github.com/df07/go-halftone-raytracer/pkg/renderer"
)

// MaterialInfo describes the surface of an inspected sphere
type MaterialInfo struct {
	Color          [3]uint8 `json:"color"`
	Specular       float64  `json:"specular"`
	Reflectiveness uint8    `json:"reflectiveness"`
	Hex            string   `json:"hex"`
}

// InspectResponse represents the JSON response for pixel inspection
type InspectResponse struct {
	X            int           `json:"x"`
	Y            int           `json:"y"`
	Direction    [3]float64    `json:"direction"`
	Hit          bool          `json:"hit"`
	SphereIndex  int           `json:"sphereIndex"`
	Distance     float64       `json:"distance"`
	Point        [3]float64    `json:"point,omitempty"`
	Normal       [3]float64    `json:"normal,omitempty"`
	Center       [3]float64    `json:"center,omitempty"`
	Radius       float64       `json:"radius,omitempty"`
	Illumination float64       `json:"illumination"`
	Material     *MaterialInfo `json:"material,omitempty"`
	RGB          [3]float64    `json:"rgb"`
	Luminance    uint8         `json:"luminance"`
}

// handleInspect traces the primary ray through one pixel and reports what it hit
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	x, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid x coordinate")
		return
	}
	y, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid y coordinate")
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rt, err := renderer.NewRaytracer(sceneObj, s.logger)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	info, err := rt.InspectPixel(x, y)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	response := InspectResponse{
		X:           x,
		Y:           y,
		Direction:   info.Ray.Direction.Array(),
		Hit:         info.Hit,
		SphereIndex: -1,
		RGB:         info.RGB,
		Luminance:   info.Luminance,
	}

	if info.Hit {
		sphere := sceneObj.Spheres[info.Surface.Hit.Index]
		response.SphereIndex = info.Surface.Hit.Index
		response.Distance = info.Surface.Hit.T
		response.Point = info.Surface.Point.Array()
		response.Normal = unit(info.Surface.Normal).Array()
		response.Center = sphere.Center.Array()
		response.Radius = sphere.Radius
		response.Illumination = info.Surface.Illumination
		response.Material = &MaterialInfo{
			Color:          sphere.Material.Color,
			Specular:       sphere.Material.Specular,
			Reflectiveness: sphere.Material.Reflectiveness,
			Hex:            levelsToHex(sphere.Material.Color),
		}
	}

	writeJSON(w, http.StatusOK, response)
}

// unit scales v to length 1, leaving a zero vector alone
func unit(v core.Vec3) core.Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Multiply(1 / l)
}

// levelsToHex converts 0-9 channel levels to an HTML color
func levelsToHex(c [3]uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", int(c[0])*255/9, int(c[1])*255/9, int(c[2])*255/9)
}
