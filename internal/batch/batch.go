// Package batch drives the per-file pipeline across many granules. Runs
// are independent, so the pool parallelizes freely; output names derive
// from input names, so concurrent writers never collide.
package batch

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skyglowlab/skyglow/internal/metrics"
	"github.com/skyglowlab/skyglow/internal/preprocess"
)

// Runner processes one input file to a terminal result. Implemented by
// *preprocess.Orchestrator.
type Runner interface {
	Process(ctx context.Context, inputPath string) preprocess.Result
}

// Skipper decides whether an input can be skipped (already exported).
// Implemented by *ledger.Ledger; nil disables skipping.
type Skipper interface {
	AlreadyExported(inputPath string) (bool, error)
}

// Summary aggregates a batch run.
type Summary struct {
	RunID     string
	Total     int
	Exported  int
	Failed    int
	Skipped   int
	Duration  time.Duration
	Results   []preprocess.Result
}

// Pool is a fixed-size worker pool over independent per-file runs.
type Pool struct {
	Runner   Runner
	Workers  int
	Recorder metrics.Recorder
	Skipper  Skipper
	// OnResult, when set, receives every terminal result (ledger hook).
	OnResult func(runID string, res preprocess.Result)
}

// NewPool sizes the pool to the available cores when workers is not
// positive.
func NewPool(runner Runner, workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pool{Runner: runner, Workers: workers, Recorder: metrics.NoopRecorder{}}
}

// Run processes every file and reports aggregate counts. A failed file
// never aborts the batch; the pool only stops early when the context is
// canceled.
func (p *Pool) Run(ctx context.Context, files []string) Summary {
	start := time.Now()
	runID := uuid.NewString()
	summary := Summary{RunID: runID, Total: len(files)}
	if len(files) == 0 {
		return summary
	}

	p.Recorder.SetWorkerCount(p.Workers)
	slog.Info("Starting batch run", "run_id", runID, "files", len(files), "workers", p.Workers)

	jobs := make(chan string)
	resultCh := make(chan preprocess.Result, len(files))
	var wg sync.WaitGroup
	for i := 0; i < p.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for file := range jobs {
				resultCh <- p.processOne(ctx, runID, file)
			}
		}()
	}

dispatch:
	for _, file := range files {
		select {
		case jobs <- file:
		case <-ctx.Done():
			slog.Warn("Batch canceled, stopping dispatch", "run_id", runID)
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()
	close(resultCh)

	for res := range resultCh {
		summary.Results = append(summary.Results, res)
		switch res.State {
		case preprocess.StateExported:
			summary.Exported++
		case preprocess.StateFailed:
			summary.Failed++
		default:
			summary.Skipped++
		}
	}
	sort.Slice(summary.Results, func(i, j int) bool {
		return summary.Results[i].Input < summary.Results[j].Input
	})
	summary.Duration = time.Since(start)

	slog.Info("Batch run finished",
		"run_id", runID,
		"exported", summary.Exported,
		"failed", summary.Failed,
		"skipped", summary.Skipped,
		"duration", summary.Duration)
	return summary
}

func (p *Pool) processOne(ctx context.Context, runID, file string) preprocess.Result {
	if p.Skipper != nil {
		done, err := p.Skipper.AlreadyExported(file)
		if err != nil {
			slog.Warn("Ledger lookup failed, processing anyway",
				"file", filepath.Base(file), "error", err)
		} else if done {
			slog.Debug("Skipping already exported granule", "file", filepath.Base(file))
			p.Recorder.IncFileOutcome(metrics.OutcomeSkipped)
			res := preprocess.Result{Input: file, State: preprocess.StateStart}
			if p.OnResult != nil {
				p.OnResult(runID, res)
			}
			return res
		}
	}
	res := p.Runner.Process(ctx, file)
	if p.OnResult != nil {
		p.OnResult(runID, res)
	}
	return res
}
