// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package persistence implements eventual persistence: a Writer owns one JSON
// file, applies updates to an in-memory copy immediately and flushes the whole
// tree to disk in the background, at most once per throttle window.
//
// Writer state:
//
//	PhaseIdle        nothing in flight, no throttle window open
//	PhaseWriting     a write has been issued and has not completed
//	PhaseThrottling  a write completed; no new write before the window ends
//
// Independently of the phase, the Writer is dirty when memory holds changes
// that have not been handed to a write yet. A failed write marks it dirty
// again, so the data is retried when the throttle window ends.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"github.com/tidwall/pretty"

	"github.com/MKhiriev/autoenv/internal/logger"
	"github.com/MKhiriev/autoenv/internal/tree"
)

// DefaultInterval is the minimum time between two writes.
const DefaultInterval = 120 * time.Second

// Phase is the write-cycle state of a Writer.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseWriting
	PhaseThrottling
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseWriting:
		return "writing"
	case PhaseThrottling:
		return "throttling"
	default:
		return "unknown"
	}
}

// Status is a point-in-time view of a Writer's state.
type Status struct {
	Phase Phase
	Dirty bool
}

// Writer buffers updates to a persisted tree and flushes them to its file.
type Writer struct {
	path     string
	interval time.Duration
	fs       FileSystem
	clock    Clock
	log      *logger.Logger
	metrics  *Metrics
	indent   bool

	mu     sync.Mutex
	data   *tree.Map
	dirty  bool
	phase  Phase
	timer  Timer
	gen    uint64        // identifies the current throttle timer
	done   chan struct{} // closed when the in-flight write completes
	closed bool
}

// Option configures a Writer.
type Option func(*Writer)

// WithInterval sets the minimum interval between writes. Negative values
// select DefaultInterval.
func WithInterval(d time.Duration) Option {
	return func(w *Writer) {
		if d < 0 {
			d = DefaultInterval
		}
		w.interval = d
	}
}

func WithFileSystem(fsys FileSystem) Option {
	return func(w *Writer) { w.fs = fsys }
}

func WithClock(c Clock) Option {
	return func(w *Writer) { w.clock = c }
}

func WithLogger(l *logger.Logger) Option {
	return func(w *Writer) { w.log = l }
}

func WithMetrics(m *Metrics) Option {
	return func(w *Writer) { w.metrics = m }
}

// WithIndent pretty-prints the persistence file.
func WithIndent(indent bool) Option {
	return func(w *Writer) { w.indent = indent }
}

// New binds a Writer to path and loads the persisted tree.
//
// A missing file is created containing an empty object; failing to create it
// returns ErrCreateFile. An existing file that is not a JSON object returns
// ErrCorruptFile. Any other read failure returns ErrReadFile.
func New(path string, opts ...Option) (*Writer, error) {
	w := &Writer{
		path:     path,
		interval: DefaultInterval,
		fs:       NewOSFileSystem(),
		clock:    SystemClock(),
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}

	data, err := w.load()
	if err != nil {
		return nil, err
	}
	w.data = data

	w.log.Debug().Str("path", path).Dur("interval", w.interval).Msg("persistence file loaded")
	return w, nil
}

func (w *Writer) load() (*tree.Map, error) {
	raw, err := w.fs.ReadFile(w.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err = w.fs.WriteFile(w.path, []byte("{}")); err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrCreateFile, w.path, err)
		}
		return tree.NewMap(), nil
	case err != nil:
		return nil, fmt.Errorf("%w: %q: %w", ErrReadFile, w.path, err)
	}

	data, err := tree.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrCorruptFile, w.path, err)
	}
	return data, nil
}

// Path returns the file the Writer is bound to.
func (w *Writer) Path() string {
	return w.path
}

// Update stores value at the dotted key, creating intermediate objects as
// needed. It reports false, without scheduling a write, when the stored value
// already equals value. Equality is structural (tree.Equal): an object or
// array with the same content counts as unchanged. Otherwise the tree is
// marked dirty and a write is attempted; write outcomes are never returned
// here.
func (w *Writer) Update(key string, value any) (bool, error) {
	v, err := tree.FromGo(value)
	if err != nil {
		return false, fmt.Errorf("persist %q: %w", key, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return false, ErrClosed
	}

	if prev, ok := tree.Lookup(w.data, key); ok && tree.Equal(prev, v) {
		w.metrics.recordUpdate(w.path, false)
		return false, nil
	}

	tree.SetPath(w.data, key, tree.Clone(v))
	w.metrics.recordUpdate(w.path, true)

	w.dirty = true
	w.tryWriteLocked()
	return true, nil
}

// Snapshot returns a deep copy of the persisted tree.
func (w *Writer) Snapshot() *tree.Map {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.data.Clone()
}

// Status reports the current phase and dirty flag.
func (w *Writer) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Status{Phase: w.phase, Dirty: w.dirty}
}

// Wait blocks until no write is in flight.
func (w *Writer) Wait() {
	_ = w.waitIdle(context.Background())
}

// Flush waits for any in-flight write, then writes dirty data synchronously,
// ignoring the throttle window. A throttle window starts afterwards as after
// any other write.
func (w *Writer) Flush(ctx context.Context) error {
	for {
		if err := w.waitIdle(ctx); err != nil {
			return err
		}

		w.mu.Lock()
		if w.phase == PhaseWriting {
			// a throttle expiry started a write in the meantime
			w.mu.Unlock()
			continue
		}
		if !w.dirty {
			w.mu.Unlock()
			return nil
		}

		payload, err := w.encodeLocked()
		if err != nil {
			w.mu.Unlock()
			return err
		}
		w.stopTimerLocked()
		w.startWriteLocked()
		w.mu.Unlock()

		err = w.fs.WriteFile(w.path, payload)
		w.finishWrite(err)
		if err != nil {
			return fmt.Errorf("%w: %q: %w", ErrWriteFile, w.path, err)
		}
		return nil
	}
}

// Close flushes dirty data and stops the throttle timer. Updates after Close
// fail with ErrClosed.
func (w *Writer) Close(ctx context.Context) error {
	err := w.Flush(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()

	w.closed = true
	w.stopTimerLocked()
	if w.phase == PhaseThrottling {
		w.phase = PhaseIdle
	}
	return err
}

func (w *Writer) waitIdle(ctx context.Context) error {
	for {
		w.mu.Lock()
		done := w.done
		w.mu.Unlock()

		if done == nil {
			return nil
		}

		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// tryWriteLocked issues a background write when there is dirty data, no
// write in flight and no open throttle window.
func (w *Writer) tryWriteLocked() {
	if !w.dirty || w.phase != PhaseIdle || w.closed {
		return
	}

	payload, err := w.encodeLocked()
	if err != nil {
		w.log.Error().Err(err).Str("path", w.path).Msg("failed to encode persisted data")
		return
	}

	w.startWriteLocked()
	go func() {
		w.finishWrite(w.fs.WriteFile(w.path, payload))
	}()
}

func (w *Writer) startWriteLocked() {
	w.dirty = false
	w.phase = PhaseWriting
	w.done = make(chan struct{})
}

// finishWrite records the outcome of a write and opens the throttle window.
func (w *Writer) finishWrite(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.metrics.recordWrite(w.path, err)
	if err != nil {
		w.dirty = true
		w.log.Warn().Err(err).Str("path", w.path).Dur("retry_in", w.interval).Msg("failed to write persistence file")
	} else {
		w.log.Debug().Str("path", w.path).Msg("persistence file written")
	}

	close(w.done)
	w.done = nil

	if w.closed {
		w.phase = PhaseIdle
		return
	}

	w.phase = PhaseThrottling
	w.gen++
	gen := w.gen
	w.timer = w.clock.AfterFunc(w.interval, func() { w.releaseThrottle(gen) })
}

func (w *Writer) releaseThrottle(gen uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.phase != PhaseThrottling || gen != w.gen {
		return
	}
	w.timer = nil
	w.phase = PhaseIdle
	w.tryWriteLocked()
}

func (w *Writer) stopTimerLocked() {
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

func (w *Writer) encodeLocked() ([]byte, error) {
	payload, err := tree.Encode(w.data)
	if err != nil {
		return nil, err
	}
	if w.indent {
		payload = pretty.Pretty(payload)
	}
	return payload, nil
}
