package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skyglowlab/skyglow/internal/preprocess"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestRecordAndSkip(t *testing.T) {
	l := openTestLedger(t)

	require.NoError(t, l.Record("run-1", preprocess.Result{
		Input:    "/raw/VNP46A2.A2016153.h30v05.001.2020267141459.h5",
		Output:   "/out/vnp46a2-a2016153-h30v05-001-2020267141459.tif",
		State:    preprocess.StateExported,
		Duration: 3 * time.Second,
	}))

	// Same basename from a different directory counts as done.
	done, err := l.AlreadyExported("/elsewhere/VNP46A2.A2016153.h30v05.001.2020267141459.h5")
	require.NoError(t, err)
	require.True(t, done)

	done, err = l.AlreadyExported("/raw/VNP46A2.A2016154.h30v05.001.2020267141459.h5")
	require.NoError(t, err)
	require.False(t, done)
}

func TestFailedRunsDoNotSkip(t *testing.T) {
	l := openTestLedger(t)
	require.NoError(t, l.Record("run-1", preprocess.Result{
		Input: "/raw/bad.h5",
		State: preprocess.StateFailed,
		Err:   errors.New("band missing"),
	}))

	done, err := l.AlreadyExported("/raw/bad.h5")
	require.NoError(t, err)
	require.False(t, done, "a failed file must be retried on the next run")
}

func TestRunCounts(t *testing.T) {
	l := openTestLedger(t)
	require.NoError(t, l.Record("run-9", preprocess.Result{Input: "a.h5", State: preprocess.StateExported}))
	require.NoError(t, l.Record("run-9", preprocess.Result{Input: "b.h5", State: preprocess.StateExported}))
	require.NoError(t, l.Record("run-9", preprocess.Result{Input: "c.h5", State: preprocess.StateFailed, Err: errors.New("x")}))
	require.NoError(t, l.Record("other", preprocess.Result{Input: "d.h5", State: preprocess.StateFailed, Err: errors.New("x")}))

	exported, failed, err := l.RunCounts("run-9")
	require.NoError(t, err)
	require.Equal(t, 2, exported)
	require.Equal(t, 1, failed)
}
