package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/skyglowlab/skyglow/internal/batch"
	"github.com/skyglowlab/skyglow/internal/config"
	"github.com/skyglowlab/skyglow/internal/ledger"
	"github.com/skyglowlab/skyglow/internal/preprocess"
)

// PreprocessCmd runs the nighttime-lights batch pipeline over a directory
// of raw granules.
type PreprocessCmd struct {
	Input   string `short:"i" help:"Input directory (overrides config)"`
	Output  string `short:"o" help:"Output directory (overrides config)"`
	Workers int    `short:"w" help:"Worker count (overrides config)"`
	Force   bool   `short:"f" help:"Reprocess granules already recorded as exported"`
}

func (p *PreprocessCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	inputDir := cfg.Products.NighttimeLights.InputDir
	if p.Input != "" {
		inputDir = p.Input
	}
	outputDir := cfg.Products.NighttimeLights.OutputDir
	if p.Output != "" {
		outputDir = p.Output
	}
	if inputDir == "" || outputDir == "" {
		return fmt.Errorf("nighttime-lights input and output directories must be configured")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", outputDir, err)
	}

	files, err := listFiles(inputDir, "*.h5")
	if err != nil {
		return err
	}
	if len(files) == 0 {
		slog.Warn("No granules found", "dir", inputDir)
		return nil
	}

	recorder := setupRecorder(cfg)
	orch := preprocess.New(outputDir)
	orch.Recorder = recorder

	workers := cfg.Batch.Workers
	if p.Workers > 0 {
		workers = p.Workers
	}
	pool := batch.NewPool(orch, workers)
	pool.Recorder = recorder

	if cfg.Ledger.Path != "" {
		led, err := ledger.Open(cfg.Ledger.Path)
		if err != nil {
			return fmt.Errorf("open ledger: %w", err)
		}
		defer led.Close()
		if !p.Force {
			pool.Skipper = led
		}
		pool.OnResult = func(runID string, res preprocess.Result) {
			if err := led.Record(runID, res); err != nil {
				slog.Warn("Ledger record failed", "file", filepath.Base(res.Input), "error", err)
			}
		}
	}

	summary := pool.Run(context.Background(), files)
	fmt.Printf("Processed %d granules: %d exported, %d failed, %d skipped (%s)\n",
		summary.Total, summary.Exported, summary.Failed, summary.Skipped,
		summary.Duration.Round(time.Millisecond))
	if summary.Failed > 0 && summary.Exported == 0 {
		return fmt.Errorf("all %d granules failed", summary.Failed)
	}
	return nil
}
