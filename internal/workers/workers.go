package workers

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Workers runs its workers concurrently, at most limit at a time.
type Workers struct {
	workers []Worker
	limit   int
}

// NewWorkers returns an aggregate of workers. A limit <= 0 means no limit.
func NewWorkers(limit int, workers ...Worker) *Workers {
	return &Workers{workers: workers, limit: limit}
}

// Add appends a worker.
func (w *Workers) Add(worker Worker) {
	w.workers = append(w.workers, worker)
}

func (w *Workers) Len() int {
	return len(w.workers)
}

// Run starts every worker and waits for all of them. A failing worker does not
// cancel the others; all errors are joined in worker order.
func (w *Workers) Run(ctx context.Context) error {
	var g errgroup.Group
	if w.limit > 0 {
		g.SetLimit(w.limit)
	}

	var mu sync.Mutex
	errs := make([]error, len(w.workers))
	for i, worker := range w.workers {
		i, worker := i, worker
		g.Go(func() error {
			err := worker.Run(ctx)
			mu.Lock()
			errs[i] = err
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}
