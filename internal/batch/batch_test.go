package batch

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skyglowlab/skyglow/internal/preprocess"
)

// scriptedRunner fails inputs containing "bad" and succeeds otherwise.
type scriptedRunner struct {
	mu       sync.Mutex
	processed []string
}

func (r *scriptedRunner) Process(_ context.Context, input string) preprocess.Result {
	r.mu.Lock()
	r.processed = append(r.processed, input)
	r.mu.Unlock()
	if strings.Contains(input, "bad") {
		return preprocess.Result{Input: input, State: preprocess.StateFailed, Err: errors.New("boom")}
	}
	return preprocess.Result{Input: input, State: preprocess.StateExported, Output: input + ".tif"}
}

type fixedSkipper struct{ skip map[string]bool }

func (s fixedSkipper) AlreadyExported(input string) (bool, error) { return s.skip[input], nil }

func TestRunCountsOutcomes(t *testing.T) {
	runner := &scriptedRunner{}
	pool := NewPool(runner, 3)
	summary := pool.Run(context.Background(), []string{"a.h5", "bad1.h5", "b.h5", "bad2.h5", "c.h5"})

	require.Equal(t, 5, summary.Total)
	require.Equal(t, 3, summary.Exported)
	require.Equal(t, 2, summary.Failed)
	require.Equal(t, 0, summary.Skipped)
	require.Len(t, summary.Results, 5)
	require.NotEmpty(t, summary.RunID)
}

func TestRunContinuesPastFailures(t *testing.T) {
	// Every file must be attempted even when earlier ones fail.
	runner := &scriptedRunner{}
	pool := NewPool(runner, 1)
	files := []string{"bad1.h5", "bad2.h5", "ok.h5"}
	summary := pool.Run(context.Background(), files)

	require.Equal(t, 2, summary.Failed)
	require.Equal(t, 1, summary.Exported)
	require.ElementsMatch(t, files, runner.processed)
}

func TestRunSkipsLedgeredFiles(t *testing.T) {
	runner := &scriptedRunner{}
	pool := NewPool(runner, 2)
	pool.Skipper = fixedSkipper{skip: map[string]bool{"done.h5": true}}
	summary := pool.Run(context.Background(), []string{"done.h5", "new.h5"})

	require.Equal(t, 1, summary.Exported)
	require.Equal(t, 1, summary.Skipped)
	require.NotContains(t, runner.processed, "done.h5")
}

func TestRunForwardsResults(t *testing.T) {
	runner := &scriptedRunner{}
	pool := NewPool(runner, 2)
	var mu sync.Mutex
	var seen []string
	pool.OnResult = func(runID string, res preprocess.Result) {
		mu.Lock()
		seen = append(seen, res.Input)
		mu.Unlock()
		require.NotEmpty(t, runID)
	}
	pool.Run(context.Background(), []string{"a.h5", "b.h5"})
	require.ElementsMatch(t, []string{"a.h5", "b.h5"}, seen)
}

func TestRunEmptyInput(t *testing.T) {
	summary := NewPool(&scriptedRunner{}, 2).Run(context.Background(), nil)
	require.Equal(t, 0, summary.Total)
	require.Empty(t, summary.Results)
}

func TestNewPoolDefaultsWorkers(t *testing.T) {
	pool := NewPool(&scriptedRunner{}, 0)
	require.Greater(t, pool.Workers, 0)
}
