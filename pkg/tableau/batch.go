package tableau

import (
	"context"
	"sync"

	"github.com/elsinore/tableau/internal/parallel"
)

// BatchRequest is one independent proof to run as part of a batch: an
// argument under a named logic, plus the options that argument's
// tableau should build with.
type BatchRequest struct {
	Name     string
	Argument Argument
	Logic    *Logic
	Options  []Option
}

// BatchResult pairs a request's Name with its finished Tableau, or the
// error that stopped it short of Finish.
type BatchResult struct {
	Name string
	Tab  *Tableau
	Err  error
}

// BatchRunner runs many independent tableau builds concurrently over a
// bounded worker pool -- internal/parallel.WorkerPool has no notion of
// what a task does, so running many self-contained Build() calls side
// by side is exactly the shape it was built for.
type BatchRunner struct {
	pool *parallel.WorkerPool
}

// NewBatchRunner builds a runner backed by a worker pool capped at
// maxWorkers concurrent tableau builds.
func NewBatchRunner(maxWorkers int) *BatchRunner {
	return &BatchRunner{pool: parallel.NewWorkerPool(maxWorkers)}
}

// Run submits every request to the pool and blocks until all have
// either finished or failed to build, returning one BatchResult per
// request in the same order as reqs. Submission respects ctx
// cancellation; a cancelled context short-circuits any request not yet
// started with ctx.Err().
func (r *BatchRunner) Run(ctx context.Context, reqs []BatchRequest) []BatchResult {
	results := make([]BatchResult, len(reqs))
	var wg sync.WaitGroup
	for i, req := range reqs {
		i, req := i, req
		wg.Add(1)
		err := r.pool.SubmitNamed(ctx, req.Name, func() {
			defer wg.Done()
			tab, err := New(req.Argument, req.Logic, req.Options...)
			if err != nil {
				results[i] = BatchResult{Name: req.Name, Err: err}
				return
			}
			if err := tab.Build(); err != nil {
				results[i] = BatchResult{Name: req.Name, Tab: tab, Err: err}
				return
			}
			results[i] = BatchResult{Name: req.Name, Tab: tab}
		})
		if err != nil {
			wg.Done()
			results[i] = BatchResult{Name: req.Name, Err: err}
		}
	}
	wg.Wait()
	return results
}

// Stats exposes the underlying pool's execution statistics (tasks
// submitted/completed/failed, worker-count history), letting a caller
// report batch throughput the same way internal/parallel's own callers
// do.
func (r *BatchRunner) Stats() *parallel.ExecutionStats { return r.pool.GetStats() }

// DeadlockAlerts exposes the pool's deadlock-detector alert channel. Each
// request is submitted under its own Name, so an alert on a request that
// runs away (no MaxSteps or BuildTimeout bounding its tableau) names the
// stuck request instead of an opaque task ID.
func (r *BatchRunner) DeadlockAlerts() <-chan parallel.DeadlockAlert {
	return r.pool.GetDeadlockDetector().GetAlerts()
}

// Shutdown stops accepting new work and waits for in-flight builds to
// drain.
func (r *BatchRunner) Shutdown() { r.pool.Shutdown() }
