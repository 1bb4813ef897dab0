// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mwsr

// Write appends elem on behalf of writer w.
//
// The element becomes visible to the reader when the writer's batch is
// flushed: automatically once it is full, or through Flush or
// TerminateWriter. Write blocks only if the batch is full and the pending
// list is saturated (see Builder.MaxBatches).
//
// Writes after TerminateWriter(w) are silently dropped.
//
// Writer w only. Panics if w is out of range.
func (q *Queue[T]) Write(w int, elem T) {
	s := q.slot(w)
	if s.terminated {
		return
	}

	b := s.open
	if b != nil && b.full() {
		q.flush(w, s)
		b = nil
	}
	if b == nil {
		b = q.acquireBatch()
		s.open = b
	}

	b.append(elem)
	s.written.StoreRelease(s.written.LoadRelaxed() + 1)
	inc(&s.stats.elements)
}

// Flush hands writer w's buffered elements to the reader.
//
// Flush always takes the shared lock when there is something to hand off,
// so calling it per element defeats batching. It blocks while the pending
// list is saturated: the writer retries after a fixed backoff until the
// reader has picked the pending list up.
//
// Writer w only. Panics if w is out of range.
func (q *Queue[T]) Flush(w int) {
	q.flush(w, q.slot(w))
}

func (q *Queue[T]) flush(w int, s *writerSlot[T]) {
	b := s.open
	if b == nil || b.writePos == 0 {
		return
	}

	for {
		var done bool
		q.lock.do(func() {
			inc(&s.stats.locked)
			if q.blocked {
				return
			}
			if q.maxBatches == 0 || q.pendingCount < q.maxBatches {
				q.appendPendingLocked(b)
				done = true
				return
			}
			q.blocked = true
		})

		if done {
			// b belongs to the pending list now.
			s.open = nil
			inc(&s.stats.batches)
			return
		}

		inc(&s.stats.blocked)
		q.pause()
	}
}

// appendPendingLocked splices b onto the tail of the pending list.
func (q *Queue[T]) appendPendingLocked(b *batch[T]) {
	if q.pendingTail != nil {
		q.pendingTail.next = b
	} else {
		q.pendingHead = b
	}
	q.pendingTail = b
	q.pendingCount++
}

// TerminateWriter declares that writer w will write no more.
//
// The writer's buffered elements are flushed, which may block like Flush.
// Subsequent Writes from w are ignored. Calling TerminateWriter again is a
// no-op apart from the flush.
//
// Writer w only. Panics if w is out of range.
func (q *Queue[T]) TerminateWriter(w int) {
	s := q.slot(w)
	s.terminated = true
	q.lock.do(func() {
		q.terminated[w] = true
	})
	q.flush(w, s)
}

// acquireBatch returns an empty batch, recycled if one is available.
func (q *Queue[T]) acquireBatch() *batch[T] {
	if q.recycler != nil {
		if b := q.recycler.get(); b != nil {
			return b
		}
	}
	return newBatch[T](q.batchSize)
}
