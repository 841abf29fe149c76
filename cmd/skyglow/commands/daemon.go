package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/skyglowlab/skyglow/internal/batch"
	"github.com/skyglowlab/skyglow/internal/config"
	"github.com/skyglowlab/skyglow/internal/daemon"
	"github.com/skyglowlab/skyglow/internal/download"
	"github.com/skyglowlab/skyglow/internal/ledger"
	"github.com/skyglowlab/skyglow/internal/preprocess"
)

// DaemonCmd runs continuously: new granules in the input directory are
// preprocessed as they arrive, and configured orders are mirrored on a
// schedule.
type DaemonCmd struct{}

func (DaemonCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	inputDir := cfg.Products.NighttimeLights.InputDir
	outputDir := cfg.Products.NighttimeLights.OutputDir
	if inputDir == "" || outputDir == "" {
		return fmt.Errorf("nighttime-lights input and output directories must be configured")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", outputDir, err)
	}

	recorder := setupRecorder(cfg)
	orch := preprocess.New(outputDir)
	orch.Recorder = recorder
	pool := batch.NewPool(orch, cfg.Batch.Workers)
	pool.Recorder = recorder

	if cfg.Ledger.Path != "" {
		led, err := ledger.Open(cfg.Ledger.Path)
		if err != nil {
			return fmt.Errorf("open ledger: %w", err)
		}
		defer led.Close()
		pool.Skipper = led
		pool.OnResult = func(runID string, res preprocess.Result) {
			if err := led.Record(runID, res); err != nil {
				slog.Warn("Ledger record failed", "file", filepath.Base(res.Input), "error", err)
			}
		}
	}

	var client *download.Client
	if len(cfg.Download.Orders) > 0 && cfg.Download.Token != "" {
		client = download.NewClient(cfg.Download.BaseURL, cfg.Download.Token)
	}

	d, err := daemon.New(cfg, pool, client, recorder)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := d.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	stop()
	return d.Stop(context.Background())
}
