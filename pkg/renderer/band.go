package renderer

// Band is a run of whole rows rendered as one task
type Band struct {
	ID   int // Position from the top, also the task ordering key
	Y0   int // First row, inclusive
	Y1   int // Last row, exclusive
	Rows int
}

// NewBandGrid splits a canvas of the given height into bands of at most
// bandHeight rows, top to bottom.
func NewBandGrid(height, bandHeight int) []Band {
	if bandHeight <= 0 {
		bandHeight = height
	}

	var bands []Band
	for y0 := 0; y0 < height; y0 += bandHeight {
		y1 := min(y0+bandHeight, height)
		bands = append(bands, Band{ID: len(bands), Y0: y0, Y1: y1, Rows: y1 - y0})
	}
	return bands
}
