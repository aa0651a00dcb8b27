package renderer

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/df07/go-halftone-raytracer/pkg/core"
	"github.com/df07/go-halftone-raytracer/pkg/integrator"
	"github.com/df07/go-halftone-raytracer/pkg/raster"
	"github.com/df07/go-halftone-raytracer/pkg/scene"
)

// Raytracer turns a scene into a grayscale raster, one sample per pixel.
// It holds no mutable state, so one instance may render bands concurrently.
type Raytracer struct {
	scene      *scene.Scene
	camera     *Camera
	integrator integrator.Integrator
	logger     zerolog.Logger
}

// NewRaytracer validates the scene and creates a raytracer that shades with
// the recursive integrator.
func NewRaytracer(s *scene.Scene, logger zerolog.Logger) (*Raytracer, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("cannot render scene %q: %w", s.Name, err)
	}
	return &Raytracer{
		scene:      s,
		camera:     NewCamera(s.Camera, s.Config.Width),
		integrator: integrator.NewRecursive(s),
		logger:     logger,
	}, nil
}

// SetIntegrator replaces the shading engine
func (rt *Raytracer) SetIntegrator(i integrator.Integrator) {
	rt.integrator = i
}

// Scene returns the scene being rendered
func (rt *Raytracer) Scene() *scene.Scene {
	return rt.scene
}

// Camera returns the pixel-to-ray mapping
func (rt *Raytracer) Camera() *Camera {
	return rt.camera
}

// Width returns the canvas size; the canvas is always square
func (rt *Raytracer) Width() int {
	return rt.camera.Width()
}

// ShadePixel returns the red, green and blue values seen through a pixel
func (rt *Raytracer) ShadePixel(col, row int) [3]float64 {
	cfg := rt.scene.Config
	return rt.integrator.ShadeRGB(rt.camera.PixelRay(col, row), cfg.NearPlane, cfg.MaxDistance, cfg.MaxDepth)
}

// RenderPixel returns the gray level of a pixel. Channels are truncated to
// integers before the luminance reduction.
func (rt *Raytracer) RenderPixel(col, row int) uint8 {
	rgb := rt.ShadePixel(col, row)
	return raster.Luminance(int(rgb[0]), int(rgb[1]), int(rgb[2]))
}

// RenderRows renders rows [y0, y1) into img, which must be Width x Width.
// Distinct row ranges may be rendered concurrently into the same raster.
func (rt *Raytracer) RenderRows(img *raster.Gray, y0, y1 int) RenderStats {
	var stats RenderStats
	for row := y0; row < y1; row++ {
		for col := 0; col < img.Width; col++ {
			level := rt.RenderPixel(col, row)
			img.Set(col, row, level)
			stats.addPixel(level)
		}
	}
	return stats
}

// Render renders the whole canvas on the calling goroutine, checking for
// cancellation between rows.
func (rt *Raytracer) Render(ctx context.Context) (*raster.Gray, RenderStats, error) {
	start := time.Now()
	width := rt.Width()
	img := raster.NewGray(width, width)

	stats := RenderStats{Bands: 1, Workers: 1}
	for row := 0; row < width; row++ {
		if err := ctx.Err(); err != nil {
			return nil, RenderStats{}, err
		}
		stats.merge(rt.RenderRows(img, row, row+1))
	}
	stats.finalize(time.Since(start))

	rt.logger.Debug().
		Str("scene", rt.scene.Name).
		Int("width", width).
		Dur("elapsed", stats.Elapsed).
		Msg("render complete")

	return img, stats, nil
}

// PixelInfo describes what a single primary ray sees. Surface lighting is only
// filled in when the integrator is an integrator.Inspector; otherwise Surface
// carries just the hit record.
type PixelInfo struct {
	Col       int
	Row       int
	Ray       core.Ray
	Hit       bool
	Surface   integrator.Surface
	RGB       [3]float64
	Luminance uint8
}

// InspectPixel traces one pixel and reports the primary hit and its color
func (rt *Raytracer) InspectPixel(col, row int) (PixelInfo, error) {
	width := rt.Width()
	if col < 0 || col >= width || row < 0 || row >= width {
		return PixelInfo{}, fmt.Errorf("pixel (%d, %d) outside %dx%d canvas", col, row, width, width)
	}

	info := PixelInfo{
		Col: col,
		Row: row,
		Ray: rt.camera.PixelRay(col, row),
	}

	cfg := rt.scene.Config
	if inspector, ok := rt.integrator.(integrator.Inspector); ok {
		info.Surface, info.Hit = inspector.Inspect(info.Ray, cfg.NearPlane, cfg.MaxDistance)
	} else {
		info.Surface.Hit, info.Hit = rt.scene.Spheres.ClosestHit(info.Ray, cfg.NearPlane, cfg.MaxDistance)
	}
	info.RGB = rt.ShadePixel(col, row)
	info.Luminance = raster.Luminance(int(info.RGB[0]), int(info.RGB[1]), int(info.RGB[2]))
	return info, nil
}
