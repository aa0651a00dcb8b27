package server

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/df07/go-halftone-raytracer/pkg/halftone"
	"github.com/df07/go-halftone-raytracer/pkg/scene"
)

// Limits applied to query parameters
const (
	minWidth = 2
	maxWidth = 1024
	maxDepth = 16
)

//go:embed static
var staticFiles embed.FS

// Server handles web requests for the halftone raytracer
type Server struct {
	port   int
	logOut io.Writer
	logger zerolog.Logger
}

// NewServer creates a new web server that logs to logOut
func NewServer(port int, logOut io.Writer) *Server {
	return &Server{
		port:   port,
		logOut: logOut,
		logger: zerolog.New(logOut).With().Timestamp().Logger(),
	}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene   string          `json:"scene"`   // Scene name (e.g. "pebble")
	Width   int             `json:"width"`   // Canvas width and height, 0 = scene default
	Depth   int             `json:"depth"`   // Reflection depth, -1 = scene default
	Workers int             `json:"workers"` // Parallel workers, 0 = CPU count
	Kernel  halftone.Kernel `json:"-"`
	Stage   string          `json:"stage"` // "gray" or "halftone"
}

// Handler returns the routes served by the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	static, _ := fs.Sub(staticFiles, "static")
	mux.Handle("/", http.FileServer(http.FS(static)))

	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	mux.HandleFunc("/ws/render", s.handleRenderWS)

	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info().Str("addr", addr).Msgf("starting web server on http://localhost%s", addr)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in and file scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes, err := scene.ListAllScenes()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, scenes)
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = scene.DefaultSceneName
	}

	sceneObj, err := scene.Create(sceneName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	config := sceneObj.Config
	response := map[string]interface{}{
		"scene": sceneName,
		"defaults": map[string]interface{}{
			"width":       config.Width,
			"maxDepth":    config.MaxDepth,
			"nearPlane":   config.NearPlane,
			"maxDistance": config.MaxDistance,
			"epsilon":     config.Epsilon,
			"kernel":      halftone.FloydSteinberg.Name,
		},
		"scene_info": map[string]interface{}{
			"spheres":    sceneObj.GetPrimitiveCount(),
			"lights":     len(sceneObj.Lights),
			"ambient":    sceneObj.Ambient,
			"totalLight": sceneObj.TotalLight(),
		},
		"kernels": halftone.KernelNames(),
		"limits": map[string]interface{}{
			"width":    map[string]int{"min": minWidth, "max": maxWidth},
			"maxDepth": map[string]int{"min": 0, "max": maxDepth},
		},
	}

	writeJSON(w, http.StatusOK, response)
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = scene.DefaultSceneName
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 0, minWidth, maxWidth); err != nil {
		return nil, err
	}
	if req.Depth, err = parseIntParam(query, "depth", -1, 0, maxDepth); err != nil {
		return nil, err
	}
	if req.Workers, err = parseIntParam(query, "workers", 0, 1, 256); err != nil {
		return nil, err
	}
	if req.Kernel, err = halftone.KernelByName(query.Get("kernel")); err != nil {
		return nil, err
	}

	req.Stage = query.Get("stage")
	switch req.Stage {
	case "":
		req.Stage = "halftone"
	case "gray", "halftone":
	default:
		return nil, fmt.Errorf("stage must be gray or halftone, got: %s", req.Stage)
	}

	return req, nil
}

// createScene resolves the requested scene and applies size and depth
func (s *Server) createScene(req *RenderRequest) (*scene.Scene, error) {
	return scene.Create(req.Scene, scene.RenderOverride{Width: req.Width, MaxDepth: scene.DepthOverride(req.Depth)})
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

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
