package renderer

import "time"

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels   int           // Total number of pixels rendered
	LitPixels     int           // Pixels with a luminance above zero
	LuminanceSum  int           // Sum of all gray levels
	MeanLuminance float64       // Average gray level
	Bands         int           // Number of bands the canvas was split into
	Workers       int           // Number of parallel workers
	Elapsed       time.Duration // Wall time of the render
}

// addPixel records one rendered gray level
func (s *RenderStats) addPixel(level uint8) {
	s.TotalPixels++
	s.LuminanceSum += int(level)
	if level > 0 {
		s.LitPixels++
	}
}

// merge folds the counters of a partial render into s
func (s *RenderStats) merge(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.LitPixels += other.LitPixels
	s.LuminanceSum += other.LuminanceSum
}

// finalize computes the derived fields
func (s *RenderStats) finalize(elapsed time.Duration) {
	if s.TotalPixels > 0 {
		s.MeanLuminance = float64(s.LuminanceSum) / float64(s.TotalPixels)
	}
	s.Elapsed = elapsed
}
