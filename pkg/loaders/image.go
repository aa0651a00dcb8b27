package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"os"

	"github.com/df07/go-halftone-raytracer/pkg/raster"
)

// LoadGray loads a PNG or JPEG image and reduces it to a grayscale raster
// with the renderer's luminance weights, so any picture can be halftoned.
func LoadGray(filename string) (*raster.Gray, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	// Format is detected from the file header
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return raster.GrayFromImage(img), nil
}
