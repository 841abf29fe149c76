package commands

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"

	"github.com/alecthomas/kong"

	"github.com/skyglowlab/skyglow/internal/config"
	"github.com/skyglowlab/skyglow/internal/metrics"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition and global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"config.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Preprocess PreprocessCmd `cmd:"" help:"Preprocess raw VNP46A2 nighttime-lights granules to GeoTIFF"`
	Convert    ConvertCmd    `cmd:"" help:"Convert trace-gas containers (NO2, CO) to per-variable GeoTIFFs"`
	Mosaic     MosaicCmd     `cmd:"" help:"Mosaic same-date preprocessed tiles and optionally clip to an AOI"`
	Download   DownloadCmd   `cmd:"" help:"Download configured LAADS archive orders"`
	Daemon     DaemonCmd     `cmd:"" help:"Watch for new granules and preprocess them continuously"`
	Init       InitCmd       `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; sets up logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// listFiles globs inputDir for the given extension pattern, sorted for
// deterministic batch order.
func listFiles(inputDir, pattern string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(inputDir, pattern))
	if err != nil {
		return nil, fmt.Errorf("list %s in %s: %w", pattern, inputDir, err)
	}
	sort.Strings(files)
	return files, nil
}

// setupRecorder builds the metrics recorder and, when enabled, starts the
// scrape endpoint in the background.
func setupRecorder(cfg *config.Config) metrics.Recorder {
	if !cfg.Metrics.Enabled {
		return metrics.NoopRecorder{}
	}
	pr := metrics.NewPrometheusRecorder(nil)
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", pr.Handler())
		slog.Info("Serving metrics", "listen", cfg.Metrics.Listen)
		if err := http.ListenAndServe(cfg.Metrics.Listen, mux); err != nil {
			slog.Error("Metrics endpoint failed", "error", err)
		}
	}()
	return pr
}
