// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mwsr

import "time"

const (
	// DefaultBatchSize is the number of elements a writer buffers before
	// handing them to the reader.
	DefaultBatchSize = 128

	// DefaultBackoff is the fixed interval a blocked writer or an idle
	// reader sleeps between retries.
	DefaultBackoff = time.Microsecond
)

// Options configures queue creation.
type Options struct {
	writers    int
	batchSize  int
	maxBatches int           // 0: unbounded
	backoff    time.Duration // Fixed retry interval
	recycle    int           // Free list capacity, 0 disables
}

// Builder creates queues with fluent configuration.
//
// Example:
//
//	// 8 writers, 256-element batches, at most 16 pending batches
//	q := mwsr.Build[*Cmd](mwsr.New(8).BatchSize(256).MaxBatches(16))
//
//	// Unbounded pending list (writers never block)
//	q := mwsr.Build[Event](mwsr.New(4))
type Builder struct {
	opts Options
}

// New creates a queue builder for the given number of writers.
//
// Writer ids are integers in [0, writers). Each id must be used by one
// goroutine only.
//
// Defaults: DefaultBatchSize, unbounded pending list, DefaultBackoff, and a
// batch recycler sized at two batches per writer.
//
// Panics if writers < 1.
func New(writers int) *Builder {
	if writers < 1 {
		panic("mwsr: writers must be >= 1")
	}
	return &Builder{opts: Options{
		writers:   writers,
		batchSize: DefaultBatchSize,
		backoff:   DefaultBackoff,
		recycle:   2 * writers,
	}}
}

// BatchSize sets the number of elements per batch.
// Panics if n < 1.
func (b *Builder) BatchSize(n int) *Builder {
	if n < 1 {
		panic("mwsr: batch size must be >= 1")
	}
	b.opts.batchSize = n
	return b
}

// MaxBatches limits the number of batches waiting for the reader.
//
// Once the limit is reached, Flush blocks until the reader picks up the
// pending list. The limit does not count batches the reader has already
// taken but not yet drained. Zero disables the limit, so writes never block.
//
// Panics if n < 0.
func (b *Builder) MaxBatches(n int) *Builder {
	if n < 0 {
		panic("mwsr: max batches must be >= 0")
	}
	b.opts.maxBatches = n
	return b
}

// Backoff sets the fixed sleep interval used by a blocked Flush and an
// idle Read. Zero yields the processor instead of sleeping.
//
// The interval is fixed rather than adaptive: it bounds wake-up latency
// at the cost of CPU while waiting.
//
// Panics if d < 0.
func (b *Builder) Backoff(d time.Duration) *Builder {
	if d < 0 {
		panic("mwsr: backoff must be >= 0")
	}
	b.opts.backoff = d
	return b
}

// Recycle sets how many drained batches are kept for reuse by writers.
// Capacity rounds up to the next power of 2. Zero disables recycling.
//
// Recycling is always disabled when the race detector is active.
//
// Panics if n < 0.
func (b *Builder) Recycle(n int) *Builder {
	if n < 0 {
		panic("mwsr: recycle capacity must be >= 0")
	}
	b.opts.recycle = n
	return b
}

// Build creates a Queue[T] from the builder configuration.
func Build[T any](b *Builder) *Queue[T] {
	return newQueue[T](b.opts)
}

// NewQueue creates a queue with the default backoff and recycling.
//
// maxBatches == 0 selects an unbounded pending list.
//
// Panics if writers < 1, batchSize < 1 or maxBatches < 0.
func NewQueue[T any](writers, batchSize, maxBatches int) *Queue[T] {
	return Build[T](New(writers).BatchSize(batchSize).MaxBatches(maxBatches))
}
