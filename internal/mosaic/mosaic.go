// Package mosaic merges same-date preprocessed tiles into one composite
// per acquisition date and optionally clips composites to an area of
// interest.
package mosaic

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/airbusgeo/godal"

	"github.com/skyglowlab/skyglow/internal/naming"
)

// GroupByDate buckets raster files by their YYYYJJJ acquisition date.
// Files without a recognizable date are reported, not silently dropped.
func GroupByDate(files []string) (map[string][]string, []string, error) {
	groups := make(map[string][]string)
	for _, f := range files {
		date, err := naming.GranuleDate(f)
		if err != nil {
			return nil, nil, err
		}
		groups[date] = append(groups[date], f)
	}
	dates := make([]string, 0, len(groups))
	for d := range groups {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return groups, dates, nil
}

// Mosaicker builds per-date composites through GDAL.
type Mosaicker struct {
	OutputDir string
	// AOIPath, when set, clips each composite to the boundary file
	// (any OGR-readable vector format).
	AOIPath string
}

// Run mosaics every date group found among the input files. Output names
// are Gregorian dates ("2016-06-01.tif"). A failed date does not abort the
// remaining dates; the first error is returned after all dates were
// attempted.
func (m *Mosaicker) Run(files []string) error {
	groups, dates, err := GroupByDate(files)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(m.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output folder %s: %w", m.OutputDir, err)
	}

	godal.RegisterAll()
	var firstErr error
	for _, date := range dates {
		gregorian, err := naming.JulianToGregorian(date)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		outputPath := filepath.Join(m.OutputDir, gregorian+".tif")
		slog.Info("Mosaicking date", "date", gregorian, "tiles", len(groups[date]))
		if err := m.mosaicOne(groups[date], outputPath); err != nil {
			slog.Error("Mosaic failed", "date", gregorian, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (m *Mosaicker) mosaicOne(tiles []string, outputPath string) error {
	vrtPath := outputPath + ".vrt"
	vrt, err := godal.BuildVRT(vrtPath, tiles, nil)
	if err != nil {
		return fmt.Errorf("build vrt: %w", err)
	}
	defer os.Remove(vrtPath)

	var out *godal.Dataset
	if m.AOIPath != "" {
		out, err = vrt.Warp(outputPath, []string{
			"-of", "GTiff",
			"-co", "COMPRESS=LZW",
			"-cutline", m.AOIPath,
			"-crop_to_cutline",
		})
	} else {
		out, err = vrt.Translate(outputPath, []string{
			"-of", "GTiff",
			"-co", "COMPRESS=LZW",
		})
	}
	if cerr := vrt.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write composite: %w", err)
	}
	return out.Close()
}
