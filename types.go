// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mwsr

import (
	"unsafe"

	"code.hybscloud.com/atomix"
)

// State is the lifecycle state of a queue as observed by its reader.
//
//	Running → Draining → Terminated
//
// There is no path back from Terminated.
type State uint8

const (
	// Running means no writer has been observed to terminate.
	Running State = iota
	// Draining means some, but not all, writers have terminated,
	// or all have terminated and elements remain.
	Draining
	// Terminated means every writer has terminated and the queue is empty.
	Terminated
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Draining:
		return "draining"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Stats is a snapshot of per-side queue statistics.
//
// The writer and reader sides use the same shape:
//
//	Elements - elements written (writer) or read (reader)
//	Batches  - batches flushed (writer) or fully drained (reader)
//	Locked   - shared lock acquisitions
//	Blocked  - iterations spent waiting: saturated pending list (writer)
//	           or nothing available (reader)
type Stats struct {
	Elements uint64
	Batches  uint64
	Locked   uint64
	Blocked  uint64
}

// counters holds the live statistics of one side.
//
// Each counters value is owned by exactly one goroutine, which is the only
// one that increments it. Other goroutines may take snapshots.
type counters struct {
	elements atomix.Uint64
	batches  atomix.Uint64
	locked   atomix.Uint64
	blocked  atomix.Uint64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Elements: c.elements.LoadRelaxed(),
		Batches:  c.batches.LoadRelaxed(),
		Locked:   c.locked.LoadRelaxed(),
		Blocked:  c.blocked.LoadRelaxed(),
	}
}

// inc increments a single-owner counter.
func inc(c *atomix.Uint64) {
	c.StoreRelaxed(c.LoadRelaxed() + 1)
}

// roundToPow2 rounds n up to the next power of 2.
func roundToPow2(n int) int {
	if n < 2 {
		return 2
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// ptrSize is the size of a pointer in bytes.
const ptrSize = int(unsafe.Sizeof(uintptr(0)))

// pad is cache line padding to prevent false sharing.
type pad [64]byte

// padPtr is padding to fill cache line after 8-byte counter and pointer fields.
type padPtr [64 - 8 - ptrSize]byte
