// Package tracegas converts trace-gas column containers (OMI/Aura
// nitrogen dioxide, Aqua/AIRS carbon monoxide) into per-variable GeoTIFFs.
// Unlike the nighttime-lights pipeline there is no bit masking: each
// variable is a straight field selection plus write.
package tracegas

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/skyglowlab/skyglow/internal/naming"
	"github.com/skyglowlab/skyglow/internal/raster"
)

// EPSG4326 is the reference system of both source products.
const EPSG4326 = 4326

// NO2Variable pairs an OMNO2d science variable with its output folder.
type NO2Variable struct {
	Name   string
	Folder string
}

// NO2Variables lists the exported nitrogen-dioxide variables in the order
// they are written.
func NO2Variables() []NO2Variable {
	return []NO2Variable{
		{"ColumnAmountNO2", "total-all-conditions"},
		{"ColumnAmountNO2CloudScreened", "total-cloud-screened"},
		{"ColumnAmountNO2Trop", "tropospheric-all-conditions"},
		{"ColumnAmountNO2TropCloudScreened", "tropospheric-cloud-screened"},
		{"Weight", "pixel-weights"},
	}
}

// Converter exports trace-gas variables to GeoTIFF. Read and Writer
// default to the GDAL-backed implementations; tests inject fakes.
type Converter struct {
	Read   raster.VariableReader
	Writer raster.Writer
}

// NewConverter returns a GDAL-wired converter.
func NewConverter() *Converter {
	return &Converter{Read: raster.ReadVariable, Writer: raster.GeoTIFFWriter{}}
}

// ConvertNO2 exports the five OMNO2d variables of one container into
// per-variable folders under outputRoot, named by acquisition date.
func (c *Converter) ConvertNO2(path, outputRoot string) error {
	date, err := naming.NO2Date(path)
	if err != nil {
		return err
	}
	log := slog.With("file", filepath.Base(path), "date", date)
	log.Info("Converting nitrogen dioxide granule")

	for _, v := range NO2Variables() {
		folder := filepath.Join(outputRoot, v.Folder)
		if err := os.MkdirAll(folder, 0o755); err != nil {
			return fmt.Errorf("create output folder %s: %w", folder, err)
		}
		if err := c.exportVariable(path, v.Name, filepath.Join(folder, date+".tif")); err != nil {
			return err
		}
		log.Debug("Exported variable", "variable", v.Name)
	}
	return nil
}

// ConvertCO exports a single carbon-monoxide variable of one container to
// outputDir, named by acquisition date.
func (c *Converter) ConvertCO(path, outputDir, variable string) error {
	date, err := naming.CODate(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output folder %s: %w", outputDir, err)
	}
	slog.Info("Converting carbon monoxide granule",
		"file", filepath.Base(path), "date", date, "variable", variable)
	return c.exportVariable(path, variable, filepath.Join(outputDir, date+".tif"))
}

func (c *Converter) exportVariable(path, variable, outputPath string) error {
	band, transform, nodata, err := c.Read(path, variable)
	if err != nil {
		return err
	}
	meta, err := raster.NewExportMetadata(band, transform, EPSG4326, nodata)
	if err != nil {
		return err
	}
	return c.Writer.Write(outputPath, band, meta)
}
