// Package daemon runs the continuous mode: it watches the raw-data
// directory for newly arrived granules, preprocesses them as they land,
// and periodically mirrors configured LAADS orders.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"github.com/skyglowlab/skyglow/internal/batch"
	"github.com/skyglowlab/skyglow/internal/config"
	"github.com/skyglowlab/skyglow/internal/download"
	"github.com/skyglowlab/skyglow/internal/metrics"
)

// debounceQuiet is how long a granule file must stay unchanged before it
// is considered fully written. Granules arrive over slow transfers, so a
// bare Create event is not enough.
const debounceQuiet = 5 * time.Second

// Daemon wires the watcher, the scheduler and the batch pool together.
type Daemon struct {
	cfg        *config.Config
	pool       *batch.Pool
	downloader *download.Client
	recorder   metrics.Recorder

	watcher   *fsnotify.Watcher
	scheduler gocron.Scheduler

	// Quiet is the per-file debounce period; overridable in tests.
	Quiet time.Duration

	mu       sync.Mutex
	pending  map[string]*time.Timer
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// New creates a daemon. The downloader may be nil when no orders are
// configured.
func New(cfg *config.Config, pool *batch.Pool, downloader *download.Client, rec metrics.Recorder) (*Daemon, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Daemon{
		cfg:        cfg,
		pool:       pool,
		downloader: downloader,
		recorder:   rec,
		watcher:    watcher,
		scheduler:  scheduler,
		Quiet:      debounceQuiet,
		pending:    make(map[string]*time.Timer),
		stopChan:   make(chan struct{}),
	}, nil
}

// Start begins watching and scheduling. It returns once the goroutines
// are running; Stop shuts them down.
func (d *Daemon) Start(ctx context.Context) error {
	inputDir := d.cfg.Products.NighttimeLights.InputDir
	if err := d.watcher.Add(inputDir); err != nil {
		return fmt.Errorf("watch input directory %s: %w", inputDir, err)
	}
	slog.Info("Watching for new granules", "dir", inputDir)

	d.wg.Add(1)
	go d.watchLoop(ctx)

	if d.downloader != nil && len(d.cfg.Download.Orders) > 0 {
		interval := d.cfg.Daemon.Interval()
		_, err := d.scheduler.NewJob(
			gocron.DurationJob(interval),
			gocron.NewTask(d.runDownloads, ctx),
			gocron.WithName("order-download"),
		)
		if err != nil {
			return fmt.Errorf("schedule order downloads: %w", err)
		}
		d.scheduler.Start()
		slog.Info("Scheduled order downloads", "interval", interval, "orders", len(d.cfg.Download.Orders))
	}
	return nil
}

// Stop shuts the daemon down and waits for in-flight work to settle.
func (d *Daemon) Stop(ctx context.Context) error {
	slog.Info("Stopping daemon")
	close(d.stopChan)
	err := d.watcher.Close()
	if serr := d.scheduler.Shutdown(); serr != nil && err == nil {
		err = serr
	}
	d.wg.Wait()
	return err
}

func (d *Daemon) watchLoop(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.stopChan:
			return
		case event, ok := <-d.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !strings.HasSuffix(strings.ToLower(event.Name), ".h5") {
				continue
			}
			d.debounce(ctx, event.Name)
		case err, ok := <-d.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Watcher error", "error", err)
		}
	}
}

// debounce (re)arms a quiet-period timer per granule; the file is handed
// to the pool only after writes stop for debounceQuiet.
func (d *Daemon) debounce(ctx context.Context, path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if timer, ok := d.pending[path]; ok {
		timer.Reset(d.Quiet)
		return
	}
	d.pending[path] = time.AfterFunc(d.Quiet, func() {
		d.mu.Lock()
		delete(d.pending, path)
		d.mu.Unlock()

		slog.Info("New granule arrived", "file", filepath.Base(path))
		summary := d.pool.Run(ctx, []string{path})
		if summary.Failed > 0 {
			slog.Error("Arrived granule failed preprocessing", "file", filepath.Base(path))
		}
	})
}

func (d *Daemon) runDownloads(ctx context.Context) {
	for _, orderID := range d.cfg.Download.Orders {
		fetched, err := d.downloader.DownloadOrder(ctx, orderID, d.cfg.Download.Directory)
		if err != nil {
			slog.Error("Order download failed", "order", orderID, "error", err)
			continue
		}
		d.recorder.IncDownloadedFiles(fetched)
	}
}
