// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mwsr

import (
	"fmt"
	"runtime"
	"time"

	"code.hybscloud.com/atomix"
)

// Queue is a batched multi-writer single-reader FIFO queue.
//
// Each writer appends into a private batch. A full batch (or an explicit
// Flush or TerminateWriter) is spliced onto a shared pending list under a
// single lock. The reader swaps the whole pending list into a private chain
// in O(1) and drains it without locking. The lock is taken about once per
// batch on either side, never once per element.
//
// Elements from one writer are read in write order. No order is defined
// across writers.
//
// Memory: one batch per active writer plus pending and reader-held batches,
// each holding BatchSize elements.
type Queue[T any] struct {
	_    pad
	lock spinLock

	// Guarded by lock.
	pendingHead  *batch[T]
	pendingTail  *batch[T]
	pendingCount int
	blocked      bool   // Pending list saturated, writers must wait
	terminated   []bool // Per writer, false→true only

	_ pad

	// Reader only.
	readerHead       *batch[T] // First batch with unread elements
	readerTerminated int       // Writers found terminated at last refresh
	read             atomix.Uint64
	readerStats      counters
	closed           bool

	_ pad

	writers  []writerSlot[T]
	recycler *recycler[T] // nil when recycling is disabled

	batchSize  int
	maxBatches int
	backoff    time.Duration
}

// writerSlot is the state private to one writer.
type writerSlot[T any] struct {
	open       *batch[T] // Batch being filled, nil if none
	terminated bool      // Owner's view of its own termination
	written    atomix.Uint64
	stats      counters
	_          pad
}

func newQueue[T any](opts Options) *Queue[T] {
	q := &Queue[T]{
		terminated: make([]bool, opts.writers),
		writers:    make([]writerSlot[T], opts.writers),
		batchSize:  opts.batchSize,
		maxBatches: opts.maxBatches,
		backoff:    opts.backoff,
	}
	if opts.recycle > 0 && !RaceEnabled {
		q.recycler = newRecycler[T](opts.recycle)
	}
	return q
}

// slot returns the writer slot for id w.
func (q *Queue[T]) slot(w int) *writerSlot[T] {
	if debugChecks && (w < 0 || w >= len(q.writers)) {
		panic(fmt.Sprintf("mwsr: writer id %d out of range [0, %d)", w, len(q.writers)))
	}
	return &q.writers[w]
}

// pause waits one backoff interval.
func (q *Queue[T]) pause() {
	if q.backoff == 0 {
		runtime.Gosched()
		return
	}
	time.Sleep(q.backoff)
}

// Writers returns the number of writer slots.
func (q *Queue[T]) Writers() int {
	return len(q.writers)
}

// BatchSize returns the number of elements per batch.
func (q *Queue[T]) BatchSize() int {
	return q.batchSize
}

// MaxBatches returns the pending batch limit, 0 if unbounded.
func (q *Queue[T]) MaxBatches() int {
	return q.maxBatches
}

// Size returns an approximation of the number of queued elements: all
// elements written so far minus all elements read.
//
// Size takes no lock. Each counter is stored only by its owning goroutine,
// so the result is never torn, but it is not linearizable with concurrent
// writes and reads. Safe to call from any goroutine.
func (q *Queue[T]) Size() uint64 {
	// Sample read first: every element read was written before, so the
	// later written sum cannot be below it.
	read := q.read.LoadAcquire()
	var written uint64
	for i := range q.writers {
		written += q.writers[i].written.LoadAcquire()
	}
	if written < read {
		return 0
	}
	return written - read
}

// Pending returns the exact number of batches waiting for the reader.
// Acquires the shared lock. Safe to call from any goroutine.
func (q *Queue[T]) Pending() uint64 {
	var n int
	q.lock.do(func() {
		n = q.pendingCount
	})
	return uint64(n)
}

// Terminated reports whether every writer has terminated and every element
// has been read.
//
// The termination flags are the reader's snapshot from its last refresh of
// the pending list, so Terminated becomes true only after a Read has
// observed the final terminations. Reader only.
func (q *Queue[T]) Terminated() bool {
	return q.readerTerminated == len(q.writers) && q.Size() == 0
}

// State returns the lifecycle state seen by the reader. Reader only.
func (q *Queue[T]) State() State {
	switch {
	case q.Terminated():
		return Terminated
	case q.readerTerminated > 0:
		return Draining
	default:
		return Running
	}
}

// ReaderStats returns a snapshot of the reader statistics.
func (q *Queue[T]) ReaderStats() Stats {
	return q.readerStats.snapshot()
}

// WriterStats returns a snapshot of the statistics of writer w.
func (q *Queue[T]) WriterStats(w int) Stats {
	return q.slot(w).stats.snapshot()
}

// Close releases the batches still held by the queue.
//
// Close is the owner's explicit teardown once the session is over,
// normally after Terminated reports true. Elements still queued are
// dropped. The queue must not be used after Close.
//
// Must not run concurrently with any other operation. Panics if called twice.
func (q *Queue[T]) Close() {
	if q.closed {
		panic("mwsr: close of closed queue")
	}
	q.closed = true

	q.lock.do(func() {
		q.pendingHead, q.pendingTail = nil, nil
		q.pendingCount = 0
		q.blocked = false
	})
	q.readerHead = nil
	for i := range q.writers {
		q.writers[i].open = nil
	}
	if q.recycler != nil {
		for q.recycler.get() != nil {
		}
		q.recycler = nil
	}
}
