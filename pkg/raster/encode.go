package raster

import (
	"bufio"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format names an output encoding
type Format string

const (
	FormatPNG   Format = "png"
	FormatPBM   Format = "pbm"
	FormatASCII Format = "ascii"
)

// ParseFormat returns the format for a flag or query value
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatPNG, FormatPBM, FormatASCII:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want png, pbm or ascii)", name)
	}
}

// Extension returns the file extension for the format
func (f Format) Extension() string {
	if f == FormatASCII {
		return ".txt"
	}
	return "." + string(f)
}

// EncodePNG writes the raster as an 8-bit grayscale PNG
func (g *Gray) EncodePNG(w io.Writer) error {
	return png.Encode(w, g.Image())
}

// EncodePNG writes the raster as an 8-bit grayscale PNG
func (b *Binary) EncodePNG(w io.Writer) error {
	return png.Encode(w, b.Image())
}

// EncodePBM writes the raster as a binary (P4) portable bitmap. PBM sets a
// bit for black, so White pixels are written as 0.
func (b *Binary) EncodePBM(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P4\n%d %d\n", b.Width, b.Height); err != nil {
		return err
	}

	rowBytes := (b.Width + 7) / 8
	row := make([]byte, rowBytes)
	for y := 0; y < b.Height; y++ {
		clear(row)
		for x := 0; x < b.Width; x++ {
			if !b.IsWhite(x, y) {
				row[x/8] |= 0x80 >> (x % 8)
			}
		}
		if _, err := bw.Write(row); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// EncodeASCII writes one line per row, "1" for white and "0" for black
func (b *Binary) EncodeASCII(w io.Writer) error {
	bw := bufio.NewWriter(w)
	line := make([]byte, b.Width+1)
	line[b.Width] = '\n'
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if b.IsWhite(x, y) {
				line[x] = '1'
			} else {
				line[x] = '0'
			}
		}
		if _, err := bw.Write(line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Encode writes the raster in the given format
func (b *Binary) Encode(w io.Writer, format Format) error {
	switch format {
	case FormatPNG:
		return b.EncodePNG(w)
	case FormatPBM:
		return b.EncodePBM(w)
	case FormatASCII:
		return b.EncodeASCII(w)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// SavePNG writes a grayscale raster to a PNG file, creating parent directories
func SavePNG(path string, g *Gray) error {
	return writeFile(path, g.EncodePNG)
}

// SaveBinary writes a binary raster to a file in the given format
func SaveBinary(path string, b *Binary, format Format) error {
	return writeFile(path, func(w io.Writer) error {
		return b.Encode(w, format)
	})
}

func writeFile(path string, encode func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := encode(file); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return file.Close()
}
