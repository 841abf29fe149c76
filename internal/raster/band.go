// Package raster provides the band, georeferencing and export primitives
// shared by the preprocessing pipelines. Reading and writing goes through
// GDAL (godal); everything else operates on plain in-memory grids.
package raster

// PixelType identifies the sample type of a band, mapped to the matching
// GDAL data type on export.
type PixelType string

const (
	PixelByte    PixelType = "byte"
	PixelUInt16  PixelType = "uint16"
	PixelFloat32 PixelType = "float32"
	PixelFloat64 PixelType = "float64"
)

// Band is a single 2-D grid of samples in row-major order. Samples are held
// as float64 regardless of PixelType; integer-valued bands (quality flags)
// stay exactly representable. A Band is immutable once read.
type Band struct {
	Name      string
	Width     int
	Height    int
	PixelType PixelType
	Data      []float64
}

// NewBand allocates a zero-filled band.
func NewBand(name string, width, height int, pt PixelType) *Band {
	return &Band{
		Name:      name,
		Width:     width,
		Height:    height,
		PixelType: pt,
		Data:      make([]float64, width*height),
	}
}

// At returns the sample at the given row and column.
func (b *Band) At(row, col int) float64 {
	return b.Data[row*b.Width+col]
}

// Len returns the number of samples.
func (b *Band) Len() int { return len(b.Data) }

// SameShape reports whether two bands have identical dimensions.
func (b *Band) SameShape(other *Band) bool {
	return b.Width == other.Width && b.Height == other.Height
}
