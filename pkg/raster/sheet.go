package raster

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
)

const (
	sheetMargin = 8
	sheetLabel  = 18
)

// Sheet lays the grayscale render and its halftone side by side on a white
// page, each magnified by scale and captioned above.
func Sheet(gray *Gray, binary *Binary, caption string, scale int) (image.Image, error) {
	dc, err := sheetContext(gray, binary, caption, scale)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// SaveSheet writes a comparison sheet as PNG
func SaveSheet(path string, gray *Gray, binary *Binary, caption string, scale int) error {
	dc, err := sheetContext(gray, binary, caption, scale)
	if err != nil {
		return err
	}
	return writeFile(path, dc.EncodePNG)
}

func sheetContext(gray *Gray, binary *Binary, caption string, scale int) (*gg.Context, error) {
	if scale < 1 {
		return nil, fmt.Errorf("sheet scale must be at least 1, got %d", scale)
	}
	if gray.Width != binary.Width || gray.Height != binary.Height {
		return nil, fmt.Errorf("sheet panels differ in size: %dx%d and %dx%d",
			gray.Width, gray.Height, binary.Width, binary.Height)
	}

	pw, ph := gray.Width*scale, gray.Height*scale
	dc := gg.NewContext(3*sheetMargin+2*pw, sheetLabel+2*sheetMargin+ph)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	top := sheetMargin + sheetLabel
	dc.DrawImage(magnify(gray.Image(), scale), sheetMargin, top)
	dc.DrawImage(magnify(binary.Image(), scale), 2*sheetMargin+pw, top)

	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored("gray", float64(sheetMargin), float64(sheetMargin+sheetLabel/2), 0, 0.5)
	dc.DrawStringAnchored(caption, float64(2*sheetMargin+pw), float64(sheetMargin+sheetLabel/2), 0, 0.5)
	return dc, nil
}

// magnify scales by pixel replication so halftone dots stay crisp
func magnify(src *image.Gray, scale int) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	for y := 0; y < dst.Rect.Dy(); y++ {
		for x := 0; x < dst.Rect.Dx(); x++ {
			dst.SetGray(x, y, color.Gray{Y: src.GrayAt(b.Min.X+x/scale, b.Min.Y+y/scale).Y})
		}
	}
	return dst
}
