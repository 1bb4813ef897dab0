// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mwsr

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// recycler is a bounded free list of drained batches.
//
// Batches travel in a cycle: a writer fills one, the reader drains it, and
// the drained batch comes back here for the next writer that needs an empty
// one. Only the reader returns batches; any writer may take one.
//
// A full recycler drops the batch for the garbage collector; an empty one
// makes the writer allocate. Neither case waits.
type recycler[T any] struct {
	_        pad
	taken    atomix.Uint64 // Batches handed to writers; writers CAS here
	_        pad
	returned atomix.Uint64 // Batches returned by the reader
	_        pad
	slots    []recyclerSlot[T]
	mask     uint64
	capacity uint64
}

// recyclerSlot holds one idle batch. turn is the value of returned at
// which the reader may store into the slot; turn == returned+1 marks a
// stored batch a writer may take.
type recyclerSlot[T any] struct {
	turn atomix.Uint64
	b    *batch[T]
	_    padPtr
}

// newRecycler creates a recycler holding up to capacity batches.
// Capacity rounds up to the next power of 2.
func newRecycler[T any](capacity int) *recycler[T] {
	n := uint64(roundToPow2(capacity))
	r := &recycler[T]{
		slots:    make([]recyclerSlot[T], n),
		mask:     n - 1,
		capacity: n,
	}
	for i := range r.slots {
		r.slots[i].turn.StoreRelaxed(uint64(i))
	}
	return r
}

// put returns a batch the reader has fully drained. Reader only.
//
// b must be unlinked from the reader's chain and hold no unread element;
// popFront has already cleared its element slots. put resets the cursors
// and the next link, after which the reader must not touch b again even if
// put reports false. False means the recycler is full and b is left to the
// garbage collector.
func (r *recycler[T]) put(b *batch[T]) bool {
	b.reset()

	n := r.returned.LoadRelaxed()
	slot := &r.slots[n&r.mask]
	if slot.turn.LoadAcquire() != n {
		// A writer has not finished taking the batch stored here one lap ago.
		return false
	}

	slot.b = b
	slot.turn.StoreRelease(n + 1)
	r.returned.StoreRelease(n + 1)
	return true
}

// get hands an empty batch to the calling writer, or nil if none is idle.
// Safe for concurrent writers.
//
// The returned batch is owned exclusively by the caller until it is flushed
// onto the pending list; no other writer can take it and the reader no
// longer references it.
func (r *recycler[T]) get() *batch[T] {
	sw := spin.Wait{}
	for {
		n := r.taken.LoadAcquire()
		if n >= r.returned.LoadAcquire() {
			return nil
		}

		slot := &r.slots[n&r.mask]
		switch turn := slot.turn.LoadAcquire(); {
		case turn == n+1:
			if r.taken.CompareAndSwapAcqRel(n, n+1) {
				b := slot.b
				slot.b = nil
				// Free the slot for the reader's next lap.
				slot.turn.StoreRelease(n + r.capacity)
				return b
			}
		case turn < n+1:
			return nil
		}
		// Another writer took slot n first.
		sw.Once()
	}
}

// Cap returns the number of idle batches the recycler can hold.
func (r *recycler[T]) Cap() int {
	return int(r.capacity)
}
