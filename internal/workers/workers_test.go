// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockWorker is a test implementation of the Worker interface
// that tracks how many times Run was called.
type mockWorker struct {
	runCount atomic.Int32
	err      error
}

func (m *mockWorker) Run(context.Context) error {
	m.runCount.Add(1)
	return m.err
}

func TestWorkers_Run_AllWorkersAreCalled(t *testing.T) {
	w1 := &mockWorker{}
	w2 := &mockWorker{}
	w3 := &mockWorker{}

	ws := NewWorkers(0, w1, w2, w3)
	require.NoError(t, ws.Run(context.Background()))

	for i, w := range []*mockWorker{w1, w2, w3} {
		assert.Equal(t, int32(1), w.runCount.Load(), "worker[%d]", i)
	}
}

func TestWorkers_Run_Empty(t *testing.T) {
	ws := NewWorkers(0)

	// Should not fail on empty workers list
	assert.NoError(t, ws.Run(context.Background()))
	assert.Equal(t, 0, ws.Len())
}

func TestWorkers_Run_Nil(t *testing.T) {
	ws := &Workers{}

	// Should not panic when workers field is nil
	assert.NoError(t, ws.Run(context.Background()))
}

// TestWorkers_Run_JoinsErrors checks every worker runs even when some fail,
// and all failures are reported.
func TestWorkers_Run_JoinsErrors(t *testing.T) {
	errA := errors.New("a failed")
	errC := errors.New("c failed")
	a := &mockWorker{err: errA}
	b := &mockWorker{}
	c := &mockWorker{err: errC}

	err := NewWorkers(1, a, b, c).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errC)
	assert.Equal(t, "a failed\nc failed", err.Error(), "errors keep worker order")
	assert.Equal(t, int32(1), b.runCount.Load())
}

func TestWorkers_Run_RespectsLimit(t *testing.T) {
	var (
		mu      sync.Mutex
		running int
		peak    int
	)
	job := WorkerFunc(func(context.Context) error {
		mu.Lock()
		running++
		peak = max(peak, running)
		mu.Unlock()

		time.Sleep(5 * time.Millisecond)

		mu.Lock()
		running--
		mu.Unlock()
		return nil
	})

	ws := NewWorkers(2)
	for i := 0; i < 6; i++ {
		ws.Add(job)
	}
	require.NoError(t, ws.Run(context.Background()))
	assert.Equal(t, 6, ws.Len())
	assert.LessOrEqual(t, peak, 2)
}

func TestWorkers_Run_PassesContext(t *testing.T) {
	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "v")

	var got any
	ws := NewWorkers(0, WorkerFunc(func(ctx context.Context) error {
		got = ctx.Value(ctxKey{})
		return nil
	}))
	require.NoError(t, ws.Run(ctx))
	assert.Equal(t, "v", got)
}

func TestWorkers_Run_MultipleRuns(t *testing.T) {
	w := &mockWorker{}
	ws := NewWorkers(0, w)

	for i := 0; i < 3; i++ {
		require.NoError(t, ws.Run(context.Background()))
	}

	assert.Equal(t, int32(3), w.runCount.Load())
}
