package renderer

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/df07/go-halftone-raytracer/pkg/raster"
)

// ProgressiveConfig contains configuration for band-by-band rendering
type ProgressiveConfig struct {
	BandHeight int // Rows per band
	NumWorkers int // Number of parallel workers (0 = use CPU count)
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		BandHeight: 8,
		NumWorkers: 0,
	}
}

// BandResult is emitted each time a band finishes. Bands arrive in completion
// order, which is not necessarily top to bottom.
type BandResult struct {
	Band   Band
	Width  int
	Pixels []uint8 // Band.Rows x Width gray levels, a copy owned by the receiver

	// Progress information
	BandNumber int // Bands completed so far, 1-based
	TotalBands int
}

// Result is the finished render
type Result struct {
	Image *raster.Gray
	Stats RenderStats
}

// ProgressiveRaytracer renders a canvas in bands on a worker pool and streams
// each band as it completes.
type ProgressiveRaytracer struct {
	raytracer  *Raytracer
	config     ProgressiveConfig
	bands      []Band
	workerPool *WorkerPool
	logger     zerolog.Logger
}

// NewProgressiveRaytracer creates a progressive raytracer
func NewProgressiveRaytracer(rt *Raytracer, config ProgressiveConfig, logger zerolog.Logger) *ProgressiveRaytracer {
	if config.BandHeight <= 0 {
		config.BandHeight = DefaultProgressiveConfig().BandHeight
	}
	bands := NewBandGrid(rt.Width(), config.BandHeight)

	return &ProgressiveRaytracer{
		raytracer:  rt,
		config:     config,
		bands:      bands,
		workerPool: NewWorkerPool(rt, len(bands), config.NumWorkers),
		logger:     logger,
	}
}

// Bands returns the band layout
func (pr *ProgressiveRaytracer) Bands() []Band {
	return pr.bands
}

// RenderProgressive renders with channel-based communication. The band and
// result channels are buffered, so a caller that only wants the final image
// may ignore band events. Exactly one of result or error is delivered, after
// which all channels are closed. A ProgressiveRaytracer renders only once.
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context) (<-chan BandResult, <-chan Result, <-chan error) {
	bandChan := make(chan BandResult, len(pr.bands))
	resultChan := make(chan Result, 1)
	errChan := make(chan error, 1)

	go func() {
		defer close(bandChan)
		defer close(resultChan)
		defer close(errChan)

		img, stats, err := pr.render(ctx, func(band BandResult) {
			bandChan <- band
		})
		if err != nil {
			errChan <- err
			return
		}
		resultChan <- Result{Image: img, Stats: stats}
	}()

	return bandChan, resultChan, errChan
}

// Render renders every band and waits for the finished image
func (pr *ProgressiveRaytracer) Render(ctx context.Context) (*raster.Gray, RenderStats, error) {
	return pr.render(ctx, nil)
}

func (pr *ProgressiveRaytracer) render(ctx context.Context, onBand func(BandResult)) (*raster.Gray, RenderStats, error) {
	start := time.Now()
	width := pr.raytracer.Width()
	img := raster.NewGray(width, width)

	pr.logger.Info().
		Str("scene", pr.raytracer.Scene().Name).
		Int("width", width).
		Int("bands", len(pr.bands)).
		Int("workers", pr.workerPool.GetNumWorkers()).
		Msg("starting render")

	pr.workerPool.Start(ctx)
	defer pr.workerPool.Stop()

	for _, band := range pr.bands {
		pr.workerPool.SubmitTask(BandTask{Band: band, Target: img})
	}

	stats := RenderStats{Bands: len(pr.bands), Workers: pr.workerPool.GetNumWorkers()}
	for i := range pr.bands {
		result, ok := pr.workerPool.GetResult()
		if !ok {
			return nil, RenderStats{}, fmt.Errorf("worker pool closed unexpectedly")
		}
		if result.Error != nil {
			pr.logger.Warn().Err(result.Error).Int("band", result.Band.ID).Msg("render stopped")
			return nil, RenderStats{}, result.Error
		}
		stats.merge(result.Stats)

		pr.logger.Debug().
			Int("band", result.Band.ID).
			Int("completed", i+1).
			Int("total", len(pr.bands)).
			Msg("band complete")

		if onBand != nil {
			onBand(pr.bandResult(img, result.Band, i+1))
		}
	}

	stats.finalize(time.Since(start))
	pr.logger.Info().
		Dur("elapsed", stats.Elapsed).
		Float64("mean_luminance", stats.MeanLuminance).
		Int("lit_pixels", stats.LitPixels).
		Msg("render complete")

	return img, stats, nil
}

// bandResult copies a finished band out of the shared raster
func (pr *ProgressiveRaytracer) bandResult(img *raster.Gray, band Band, number int) BandResult {
	pixels := make([]uint8, band.Rows*img.Width)
	copy(pixels, img.Pix[band.Y0*img.Width:band.Y1*img.Width])

	return BandResult{
		Band:       band,
		Width:      img.Width,
		Pixels:     pixels,
		BandNumber: number,
		TotalBands: len(pr.bands),
	}
}
