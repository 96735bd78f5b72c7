package tableau

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBatchRunnerRunsEveryRequest(t *testing.T) {
	r := NewBatchRunner(2)
	defer r.Shutdown()

	reqs := []BatchRequest{
		{Name: "valid", Argument: NewArgument(atomA(), atomA()), Logic: CPL},
		{Name: "invalid", Argument: NewArgument(atomA()), Logic: CPL},
	}

	results := r.Run(context.Background(), reqs)
	require.Len(t, results, 2)

	require.Equal(t, "valid", results[0].Name)
	require.NoError(t, results[0].Err)
	require.NotNil(t, results[0].Tab)

	require.Equal(t, "invalid", results[1].Name)
	require.NotNil(t, results[1].Tab)

	stats := r.Stats().GetStats()
	require.Equal(t, int64(2), stats.TasksSubmitted)
}

// TestBatchRunnerDeadlockAlertsReachable confirms BatchRunner exposes the
// pool's DeadlockDetector alert channel, and that a request Run submits
// under its own Name still completes without error.
func TestBatchRunnerDeadlockAlertsReachable(t *testing.T) {
	r := NewBatchRunner(1)
	defer r.Shutdown()

	alerts := r.DeadlockAlerts()
	require.NotNil(t, alerts)

	reqs := []BatchRequest{
		{Name: "trivial", Argument: NewArgument(atomA(), atomA()), Logic: CPL},
	}
	results := r.Run(context.Background(), reqs)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
}
