// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package mwsr provides a batched multi-writer single-reader queue.
//
// The queue moves work items from many producer goroutines to one consuming
// dispatcher goroutine. Writers are enumerated: each write names the writer
// id doing it, and every id belongs to exactly one goroutine.
//
// # Quick Start
//
//	q := mwsr.NewQueue[*Task](4, 128, 0) // 4 writers, 128 per batch, unbounded
//
//	// Writer 2
//	q.Write(2, task)
//	q.TerminateWriter(2) // flush and declare done
//
//	// Reader
//	for {
//	    task, err := q.Read(mwsr.Forever)
//	    if err == io.EOF {
//	        break // every writer terminated, queue drained
//	    }
//	    task.Run()
//	}
//
// Builder API:
//
//	q := mwsr.Build[*Task](mwsr.New(4).BatchSize(256).MaxBatches(8))
//
// # Batching
//
// Each writer fills a private batch of BatchSize elements. A batch is handed
// to the reader when it is full, on Flush, or on TerminateWriter. Until then
// its elements are invisible to the reader:
//
//	q.Write(0, a)
//	q.Write(0, b)
//	_, err := q.Read(mwsr.NoWait) // ErrWouldBlock: batch still open
//	q.Flush(0)
//	v, _ := q.Read(mwsr.NoWait)   // a
//
// The single shared lock is taken once per flushed batch by writers and once
// per exhausted local chain by the reader. The reader swaps the entire
// pending list in one step and drains it without locking.
//
// # Ordering
//
// Elements of one writer are read in write order. There is no ordering across
// writers; batches interleave in the order writers flushed them.
//
// # Backpressure
//
// With MaxBatches(k), at most k batches wait for the reader. A Flush (or a
// Write that fills a batch) on a saturated queue waits, sleeping a fixed
// Backoff interval between attempts, until the reader picks up the pending
// list. The fixed interval is intentional: it bounds wake-up latency in
// exchange for some CPU while waiting. MaxBatches(0) never blocks writers.
//
// # Reading
//
// Read takes a timeout:
//
//	q.Read(mwsr.Forever)          // wait for an element or termination
//	q.Read(mwsr.NoWait)           // poll
//	q.Read(50 * time.Millisecond) // bounded wait
//
// It returns [ErrWouldBlock] if nothing became available and
// [ErrTerminated] (io.EOF) once the queue has terminated.
//
// # Termination
//
// TerminateWriter flushes the writer and marks it done; later writes from it
// are dropped silently. The queue is Terminated once every writer has
// terminated and all elements have been read:
//
//	Running → Draining → Terminated
//
// Terminated and State reflect the reader's snapshot of the termination
// flags, refreshed whenever Read picks up the pending list.
//
// # Sizes and Statistics
//
// Size is a lock-free estimate (written minus read) usable from any
// goroutine. Pending is exact and takes the lock. ReaderStats and WriterStats
// report elements, batches, lock acquisitions, and blocked iterations.
//
// # Errors
//
// Backpressure and emptiness are control flow, not failures:
//
//	mwsr.IsWouldBlock(err) // true if Read timed out
//	mwsr.IsSemantic(err)   // true for control flow signals
//
// Programming errors panic: invalid builder parameters, an out-of-range
// writer id, closing twice. Build with -tags mwsrdebug for explicit writer
// id assertions with descriptive messages.
//
// # Thread Safety
//
//   - Write, Flush, TerminateWriter: only the goroutine owning the writer id
//   - Read, CanRead, Terminated, State: only the reader goroutine
//   - Size, Pending, ReaderStats, WriterStats: any goroutine
//   - Close: no concurrent use
//
// # Race Detection
//
// The shared lock and the batch recycler synchronize through acquire/release
// atomics that the race detector cannot observe. Under -race the lock falls
// back to sync.Mutex and recycling is disabled; see [RaceEnabled].
// Size, State and the statistics read counters that other goroutines store
// with atomix; sampling them while those goroutines run is reported by the
// detector even though the values are never torn.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomic primitives with explicit
// memory ordering, and [code.hybscloud.com/spin] for CPU pause instructions.
package mwsr
