package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/skyglowlab/skyglow/internal/config"
	"github.com/skyglowlab/skyglow/internal/tracegas"
)

// ConvertCmd exports trace-gas science variables from netCDF/HDF
// containers to GeoTIFF.
type ConvertCmd struct {
	Product string `arg:"" enum:"no2,co" help:"Product to convert: no2 (OMNO2d) or co (AIRS)"`
	Input   string `short:"i" help:"Input directory (overrides config)"`
	Output  string `short:"o" help:"Output directory (overrides config)"`
}

func (c *ConvertCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}

	var paths config.ProductPaths
	switch c.Product {
	case "no2":
		paths = cfg.Products.NitrogenDioxide
	case "co":
		paths = cfg.Products.CarbonMonoxide
	}
	if c.Input != "" {
		paths.InputDir = c.Input
	}
	if c.Output != "" {
		paths.OutputDir = c.Output
	}
	if paths.InputDir == "" || paths.OutputDir == "" {
		return fmt.Errorf("%s input and output directories must be configured", c.Product)
	}
	if err := os.MkdirAll(paths.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", paths.OutputDir, err)
	}

	files, err := listFiles(paths.InputDir, "*.nc4")
	if err != nil {
		return err
	}
	// AIRS distributes both .hdf and .nc4 depending on collection.
	if c.Product == "co" {
		hdf, err := listFiles(paths.InputDir, "*.hdf")
		if err != nil {
			return err
		}
		files = append(files, hdf...)
	}
	if len(files) == 0 {
		slog.Warn("No containers found", "dir", paths.InputDir)
		return nil
	}

	conv := tracegas.NewConverter()
	converted, failed := 0, 0
	for _, file := range files {
		var cerr error
		switch c.Product {
		case "no2":
			cerr = conv.ConvertNO2(file, paths.OutputDir)
		case "co":
			cerr = conv.ConvertCO(file, paths.OutputDir, paths.Variable)
		}
		if cerr != nil {
			failed++
			slog.Error("Conversion failed", "file", filepath.Base(file), "error", cerr)
			continue
		}
		converted++
	}

	fmt.Printf("Converted %d of %d containers (%d failed)\n", converted, len(files), failed)
	if failed > 0 && converted == 0 {
		return fmt.Errorf("all %d containers failed", failed)
	}
	return nil
}
