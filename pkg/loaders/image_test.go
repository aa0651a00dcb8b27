package loaders

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// TestLoadGray creates a test PNG and verifies loading
func TestLoadGray(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.png")

	// Create a simple 2x2 test image
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255}) // white
	img.Set(1, 0, color.RGBA{R: 255, G: 0, B: 0, A: 255})     // red
	img.Set(0, 1, color.RGBA{R: 0, G: 255, B: 0, A: 255})     // green
	img.Set(1, 1, color.RGBA{R: 0, G: 0, B: 255, A: 255})     // blue

	f, err := os.Create(testFile)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		t.Fatalf("Failed to encode PNG: %v", err)
	}
	f.Close()

	gray, err := LoadGray(testFile)
	if err != nil {
		t.Fatalf("LoadGray failed: %v", err)
	}

	if gray.Width != 2 || gray.Height != 2 {
		t.Fatalf("Expected 2x2 image, got %dx%d", gray.Width, gray.Height)
	}

	// Row-major: white, red, green, blue weighted 77/150/29 over 256
	expected := []uint8{255, 76, 149, 28}
	for i, want := range expected {
		if gray.Pix[i] != want {
			t.Errorf("Pixel %d: expected %d, got %d", i, want, gray.Pix[i])
		}
	}
}

// TestLoadGrayJPEG verifies JPEG images decode to roughly the right levels
func TestLoadGrayJPEG(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "test.jpg")

	img := image.NewGray(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = 128
	}

	f, err := os.Create(testFile)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 100}); err != nil {
		f.Close()
		t.Fatalf("Failed to encode JPEG: %v", err)
	}
	f.Close()

	gray, err := LoadGray(testFile)
	if err != nil {
		t.Fatalf("LoadGray failed: %v", err)
	}

	for i, v := range gray.Pix {
		if v < 124 || v > 132 {
			t.Errorf("Pixel %d: expected about 128, got %d", i, v)
		}
	}
}

// TestLoadGrayErrors checks missing and undecodable files
func TestLoadGrayErrors(t *testing.T) {
	tmpDir := t.TempDir()

	if _, err := LoadGray(filepath.Join(tmpDir, "missing.png")); err == nil {
		t.Error("Expected error for missing file")
	}

	bogus := filepath.Join(tmpDir, "bogus.png")
	if err := os.WriteFile(bogus, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadGray(bogus); err == nil {
		t.Error("Expected error for undecodable file")
	}
}
