// Package workers provides abstractions for running a batch of independent
// jobs concurrently and collecting their errors.
// It defines the Worker interface and a Workers aggregate used to flush every
// persistence writer on shutdown and to validate several envs at once.
package workers

import "context"

// Worker is the interface that must be implemented by any job run by Workers.
// Run blocks until the job is done and returns its outcome.
//
// Example implementation:
//
//	type flushWorker struct{ inst *envconfig.Instance }
//
//	func (w flushWorker) Run(ctx context.Context) error {
//	    return w.inst.Close(ctx)
//	}
type Worker interface {
	Run(ctx context.Context) error
}

// WorkerFunc adapts a plain function to the Worker interface.
type WorkerFunc func(ctx context.Context) error

func (f WorkerFunc) Run(ctx context.Context) error {
	return f(ctx)
}
