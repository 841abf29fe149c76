package raster

import (
	"fmt"

	"github.com/airbusgeo/godal"
)

// Writer writes a single-band raster. The GeoTIFF implementation is the
// production one; tests inject fakes.
type Writer interface {
	Write(path string, band *Band, meta ExportMetadata) error
}

// GeoTIFFWriter writes bands as tiled, LZW-compressed GeoTIFFs through GDAL.
type GeoTIFFWriter struct{}

// Write exports the band to a single-band GeoTIFF. All failures, including
// a band/metadata shape mismatch, are reported as *ExportError; nothing is
// raised past this boundary.
func (GeoTIFFWriter) Write(path string, band *Band, meta ExportMetadata) error {
	if band.Width != meta.Width || band.Height != meta.Height {
		return &ExportError{Path: path, Err: fmt.Errorf(
			"band shape %dx%d does not match metadata %dx%d",
			band.Width, band.Height, meta.Width, meta.Height)}
	}

	godal.RegisterAll()
	ds, err := godal.Create(godal.GTiff, path, meta.Count, gdalTypeOf(meta.PixelType),
		meta.Width, meta.Height,
		godal.CreationOption("COMPRESS=LZW", "TILED=YES"))
	if err != nil {
		return &ExportError{Path: path, Err: err}
	}

	if err := writePayload(ds, band, meta); err != nil {
		_ = ds.Close()
		return &ExportError{Path: path, Err: err}
	}
	if err := ds.Close(); err != nil {
		return &ExportError{Path: path, Err: err}
	}
	return nil
}

func writePayload(ds *godal.Dataset, band *Band, meta ExportMetadata) error {
	if err := ds.SetGeoTransform([6]float64(meta.Transform)); err != nil {
		return fmt.Errorf("set geotransform: %w", err)
	}
	sr, err := godal.NewSpatialRefFromEPSG(meta.EPSG)
	if err != nil {
		return fmt.Errorf("spatial ref epsg:%d: %w", meta.EPSG, err)
	}
	defer sr.Close()
	if err := ds.SetSpatialRef(sr); err != nil {
		return fmt.Errorf("set spatial ref: %w", err)
	}

	out := ds.Bands()[0]
	if err := out.SetNoData(meta.NoData); err != nil {
		return fmt.Errorf("set nodata: %w", err)
	}
	if err := out.Write(0, 0, band.Data, band.Width, band.Height); err != nil {
		return fmt.Errorf("write samples: %w", err)
	}
	return nil
}
