// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mwsr

import "time"

// Read timeout modes.
const (
	// Forever blocks until an element arrives or the queue terminates.
	Forever time.Duration = 0

	// NoWait returns immediately if no element is available.
	// Any negative timeout has the same effect.
	NoWait time.Duration = -1
)

// Read removes and returns the next element.
//
// The timeout selects the waiting mode:
//
//	Forever (0) - wait until an element arrives or the queue terminates
//	NoWait (<0) - return immediately if nothing is available
//	d > 0       - wait at most about d
//
// Returns ErrWouldBlock if no element became available in time, and
// ErrTerminated (io.EOF) once every writer has terminated and the queue is
// empty.
//
// Read may report nothing available while writers still hold unflushed
// elements; writers call Flush to make them visible.
//
// Reader only.
func (q *Queue[T]) Read(timeout time.Duration) (T, error) {
	var start time.Time
	if timeout > 0 {
		start = time.Now()
	}

	for {
		if elem, ok := q.pop(); ok {
			return elem, nil
		}

		q.refill()
		if q.readerHead != nil {
			continue
		}

		inc(&q.readerStats.blocked)

		if q.Terminated() {
			var zero T
			return zero, ErrTerminated
		}
		if timeout < 0 || (timeout > 0 && time.Since(start) >= timeout) {
			var zero T
			return zero, ErrWouldBlock
		}

		q.pause()
	}
}

// CanRead reports whether the next Read returns an element without taking
// the lock or waiting.
//
// A false result is only a hint: batches may be pending that the reader has
// not picked up yet.
//
// Reader only.
func (q *Queue[T]) CanRead() bool {
	return q.readerHead != nil
}

// pop takes the next element from the reader's local chain.
func (q *Queue[T]) pop() (T, bool) {
	b := q.readerHead
	if b == nil {
		var zero T
		return zero, false
	}

	elem := b.popFront()
	q.read.StoreRelease(q.read.LoadRelaxed() + 1)
	inc(&q.readerStats.elements)

	// Batches on the pending list are never empty, so a non-nil readerHead
	// always has an unread element.
	if b.empty() {
		q.readerHead = b.next
		inc(&q.readerStats.batches)
		q.releaseBatch(b)
	}

	return elem, true
}

// refill swaps the whole pending list into the reader's chain and
// refreshes the termination snapshot.
func (q *Queue[T]) refill() {
	q.lock.do(func() {
		inc(&q.readerStats.locked)

		q.readerHead = q.pendingHead
		q.pendingHead, q.pendingTail = nil, nil
		q.pendingCount = 0
		// Cleared even if writers refill the list at once; no fairness
		// between blocked writers is implied.
		q.blocked = false

		n := 0
		for _, t := range q.terminated {
			if t {
				n++
			}
		}
		q.readerTerminated = n
	})
}

// releaseBatch hands a drained batch to the recycler, or drops it.
func (q *Queue[T]) releaseBatch(b *batch[T]) {
	if q.recycler == nil || !q.recycler.put(b) {
		b.next = nil
	}
}
