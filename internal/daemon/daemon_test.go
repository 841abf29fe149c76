package daemon

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skyglowlab/skyglow/internal/batch"
	"github.com/skyglowlab/skyglow/internal/config"
	"github.com/skyglowlab/skyglow/internal/preprocess"
)

type countingRunner struct {
	mu    sync.Mutex
	files []string
}

func (r *countingRunner) Process(_ context.Context, input string) preprocess.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = append(r.files, input)
	return preprocess.Result{Input: input, State: preprocess.StateExported}
}

func (r *countingRunner) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.files...)
}

func TestDaemonProcessesArrivedGranules(t *testing.T) {
	inputDir := t.TempDir()
	cfg := &config.Config{}
	cfg.Products.NighttimeLights.InputDir = inputDir

	runner := &countingRunner{}
	d, err := New(cfg, batch.NewPool(runner, 1), nil, nil)
	require.NoError(t, err)
	d.Quiet = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, d.Start(ctx))
	defer func() { _ = d.Stop(ctx) }()

	granule := filepath.Join(inputDir, "VNP46A2.A2016153.h30v05.001.h5")
	require.NoError(t, os.WriteFile(granule, []byte("payload"), 0o644))

	require.Eventually(t, func() bool {
		return len(runner.seen()) == 1
	}, 3*time.Second, 20*time.Millisecond)
	require.Equal(t, granule, runner.seen()[0])
}

func TestDaemonIgnoresNonGranuleFiles(t *testing.T) {
	inputDir := t.TempDir()
	cfg := &config.Config{}
	cfg.Products.NighttimeLights.InputDir = inputDir

	runner := &countingRunner{}
	d, err := New(cfg, batch.NewPool(runner, 1), nil, nil)
	require.NoError(t, err)
	d.Quiet = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, d.Start(ctx))
	defer func() { _ = d.Stop(ctx) }()

	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "notes.txt"), []byte("x"), 0o644))

	time.Sleep(300 * time.Millisecond)
	require.Empty(t, runner.seen())
}

func TestDaemonStartFailsOnMissingDirectory(t *testing.T) {
	cfg := &config.Config{}
	cfg.Products.NighttimeLights.InputDir = filepath.Join(t.TempDir(), "does-not-exist")

	d, err := New(cfg, batch.NewPool(&countingRunner{}, 1), nil, nil)
	require.NoError(t, err)
	require.Error(t, d.Start(context.Background()))
}
