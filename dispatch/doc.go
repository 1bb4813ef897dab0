// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package dispatch serializes operations that must not run concurrently.
//
// Worker goroutines push commands; one manager goroutine takes them out of an
// [mwsr.Queue] and executes them one at a time. Communication is one way:
// workers get no result back from the manager.
//
//	d := dispatch.New(numWorkers)
//	d.Start(ctx)
//
//	// Worker i (1..numWorkers)
//	d.Push(ctx, i, dispatch.CommandFunc(writeFile))
//	d.WorkerTerminating(i)
//
//	// Owner (slot 0), after every worker terminated
//	d.Stop()
//
// Stop waits for every worker. To shut down while a worker still holds its
// slot, cancel the Start context or call Kill: the manager exits within a
// poll interval (WithPollInterval), queued commands are abandoned, and Err
// reports the reason.
//
// In synchronous mode (WithSynchronous) Push executes the command directly
// and returns its error, which suits single-goroutine configurations.
package dispatch
