// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mwsr

// batch is a fixed-capacity append buffer and the unit of hand-off.
//
// A batch has exactly one owner at a time: the filling writer, then the
// pending list, then the reader. It has no internal locking.
type batch[T any] struct {
	next     *batch[T] // Link to next batch in chain
	elems    []T
	writePos int // Position for next append
	readPos  int // Position for next popFront
}

func newBatch[T any](size int) *batch[T] {
	return &batch[T]{elems: make([]T, size)}
}

// append stores elem at the write cursor.
// The caller must flush a full batch first.
func (b *batch[T]) append(elem T) {
	if b.writePos >= len(b.elems) {
		panic("mwsr: append to full batch")
	}
	b.elems[b.writePos] = elem
	b.writePos++
}

func (b *batch[T]) full() bool {
	return b.writePos >= len(b.elems)
}

// empty reports whether every appended element has been popped.
func (b *batch[T]) empty() bool {
	return b.readPos >= b.writePos
}

// popFront removes and returns the oldest unread element.
// The slot is cleared to allow garbage collection of referenced objects.
func (b *batch[T]) popFront() T {
	elem := b.elems[b.readPos]
	var zero T
	b.elems[b.readPos] = zero
	b.readPos++
	return elem
}

// reset prepares a fully drained batch for reuse.
func (b *batch[T]) reset() {
	b.next = nil
	b.writePos = 0
	b.readPos = 0
}
