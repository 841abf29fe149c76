package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/skyglowlab/skyglow/internal/config"
	"github.com/skyglowlab/skyglow/internal/mosaic"
)

// MosaicCmd composites same-date preprocessed tiles into daily rasters.
type MosaicCmd struct {
	Input  string `short:"i" help:"Directory of preprocessed tiles (overrides config)"`
	Output string `short:"o" help:"Output directory (overrides config)"`
	AOI    string `help:"Boundary file to clip composites to (overrides config)"`
}

func (m *MosaicCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	inputDir := cfg.Products.NighttimeLights.OutputDir
	if m.Input != "" {
		inputDir = m.Input
	}
	outputDir := m.Output
	if outputDir == "" {
		outputDir = inputDir
	}
	aoi := cfg.AOI.Path
	if m.AOI != "" {
		aoi = m.AOI
	}
	if inputDir == "" {
		return fmt.Errorf("tile directory must be configured")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", outputDir, err)
	}

	files, err := listFiles(inputDir, "*.tif")
	if err != nil {
		return err
	}
	if len(files) == 0 {
		slog.Warn("No tiles found", "dir", inputDir)
		return nil
	}

	mos := &mosaic.Mosaicker{OutputDir: outputDir, AOIPath: aoi}
	return mos.Run(files)
}
