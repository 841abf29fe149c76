package raster

import "fmt"

// ExportMetadata bundles everything needed to write a single-band raster:
// sample type, no-data sentinel, dimensions, band count, reference system
// and geotransform. Built fresh per file and never mutated afterwards.
type ExportMetadata struct {
	PixelType PixelType
	NoData    float64
	Width     int
	Height    int
	Count     int
	EPSG      int
	Transform Transform
}

// NewExportMetadata assembles export metadata for a band. The band count is
// fixed at 1; the pixel type is taken from the band itself.
func NewExportMetadata(band *Band, transform Transform, epsg int, nodata float64) (ExportMetadata, error) {
	if band.Width <= 0 || band.Height <= 0 {
		return ExportMetadata{}, fmt.Errorf("invalid band shape %dx%d", band.Width, band.Height)
	}
	return ExportMetadata{
		PixelType: band.PixelType,
		NoData:    nodata,
		Width:     band.Width,
		Height:    band.Height,
		Count:     1,
		EPSG:      epsg,
		Transform: transform,
	}, nil
}
