// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/mwsr"
	"github.com/tliron/commonlog"
)

var (
	// ErrKilled is reported by Err after Kill stopped the manager.
	ErrKilled = errors.New("dispatch: killed")

	// ErrStopped is returned by Push once the manager has exited.
	ErrStopped = errors.New("dispatch: manager stopped")
)

// OwnerSlot is the writer slot of the goroutine that owns the dispatcher.
// Workers use slots 1 through the worker count.
const OwnerSlot = 0

// Dispatcher executes commands pushed by several workers on a single
// manager goroutine.
type Dispatcher struct {
	queue *mwsr.Queue[Command]
	opts  options
	log   commonlog.Logger

	executed atomix.Uint64
	failed   atomix.Uint64
	started  bool
	done     chan struct{}
	kill     chan struct{}
	killOnce sync.Once
	err      error // Why the manager exited; written before done closes
}

// New creates a dispatcher for the given number of workers.
//
// The underlying queue has workers+1 writer slots: OwnerSlot for the
// creating goroutine and 1..workers for the workers. Batches hold
// DefaultBatchSize commands and the pending list is unbounded unless
// configured otherwise.
//
// Panics if workers < 0 or the poll interval is not positive.
func New(workers int, opts ...Option) *Dispatcher {
	if workers < 0 {
		panic("dispatch: workers must be >= 0")
	}

	o := options{batchSize: DefaultBatchSize, pollInterval: DefaultPollInterval}
	for _, opt := range opts {
		opt(&o)
	}
	if o.pollInterval <= 0 {
		panic("dispatch: poll interval must be > 0")
	}
	if o.log == nil {
		o.log = commonlog.GetLogger("mwsr.dispatch")
	}

	d := &Dispatcher{
		opts: o,
		log:  o.log,
		done: make(chan struct{}),
		kill: make(chan struct{}),
	}
	if o.onError == nil {
		d.opts.onError = d.logError
	}
	if !o.synchronous {
		d.queue = mwsr.Build[Command](mwsr.New(workers + 1).
			BatchSize(o.batchSize).
			MaxBatches(o.maxBatches))
	}
	return d
}

// Start launches the manager goroutine. Commands run with ctx.
//
// The manager exits once every slot has terminated and every queued command
// has run. It exits early, abandoning queued commands, when ctx is cancelled
// or Kill is called; a running command completes first. A synchronous
// dispatcher ignores Start. Panics if called twice.
func (d *Dispatcher) Start(ctx context.Context) {
	if d.opts.synchronous {
		return
	}
	if d.started {
		panic("dispatch: already started")
	}
	d.started = true

	d.log.Debug("starting command queue manager")
	go d.manage(ctx)
}

func (d *Dispatcher) manage(ctx context.Context) {
	defer close(d.done)
	d.log.Debug("processing started")

	var n uint64
	for !d.queue.Terminated() {
		if err := d.interrupted(ctx); err != nil {
			d.err = err
			d.log.Infof("command queue manager interrupted with %d batches pending: %s", d.queue.Pending(), err)
			return
		}

		cmd, err := d.queue.Read(d.opts.pollInterval)
		if err != nil {
			continue
		}

		d.execute(ctx, cmd)

		if n++; n%backlogLogInterval == 0 {
			if pending := d.queue.Pending(); pending > 0 {
				d.log.Debugf("queue backlog: %d batches after %d commands", pending, n)
			}
		}
	}

	d.log.Debugf("command queue manager finished after %d commands", n)
}

// interrupted returns the reason to abandon the queue, or nil.
func (d *Dispatcher) interrupted(ctx context.Context) error {
	select {
	case <-d.kill:
		return ErrKilled
	case <-ctx.Done():
		return context.Cause(ctx)
	default:
		return nil
	}
}

// execute runs cmd on the manager goroutine, reporting failures and panics.
func (d *Dispatcher) execute(ctx context.Context, cmd Command) {
	err := run(ctx, cmd)
	d.executed.AddAcqRel(1)
	if err != nil {
		d.failed.AddAcqRel(1)
		d.opts.onError(cmd, err)
	}
}

func run(ctx context.Context, cmd Command) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("dispatch: command panicked: %v", r)
		}
	}()
	if err := cmd.Execute(ctx); err != nil {
		return fmt.Errorf("dispatch: command %T: %w", cmd, err)
	}
	return nil
}

func (d *Dispatcher) logError(_ Command, err error) {
	d.log.Errorf("%s", err)
}

// Push queues cmd on behalf of worker (OwnerSlot for the owner).
//
// The command becomes visible to the manager once the worker's batch fills,
// or on Flush or WorkerTerminating. Push may wait if the dispatcher was
// configured WithMaxBatches and is saturated.
//
// In synchronous mode Push executes cmd with ctx and returns its error.
// Otherwise it returns nil, or ErrStopped without queuing cmd once the
// manager has exited; failures go to the error handler.
func (d *Dispatcher) Push(ctx context.Context, worker int, cmd Command) error {
	if d.opts.synchronous {
		d.log.Debugf("directly executing %T", cmd)
		err := run(ctx, cmd)
		d.executed.AddAcqRel(1)
		if err != nil {
			d.failed.AddAcqRel(1)
		}
		return err
	}
	select {
	case <-d.done:
		return ErrStopped
	default:
	}
	d.queue.Write(worker, cmd)
	return nil
}

// Flush makes worker's buffered commands visible to the manager.
func (d *Dispatcher) Flush(worker int) {
	if d.opts.synchronous {
		return
	}
	d.queue.Flush(worker)
}

// WorkerTerminating signals that worker pushes no more commands.
// Its buffered commands are flushed.
func (d *Dispatcher) WorkerTerminating(worker int) {
	if d.opts.synchronous {
		return
	}
	d.queue.TerminateWriter(worker)
}

// Stop terminates OwnerSlot, waits for the manager to execute every queued
// command, and releases the queue.
//
// Every worker must have called WorkerTerminating, otherwise Stop waits
// for them, or until the Start context is cancelled or Kill is called.
// An interrupted manager leaves the queue open since workers may still
// push into it. Must be called from the owner goroutine, after Start.
func (d *Dispatcher) Stop() {
	if d.opts.synchronous {
		return
	}
	if !d.started {
		panic("dispatch: stop before start")
	}

	d.log.Debug("waiting for command queue manager to terminate")
	d.queue.TerminateWriter(OwnerSlot)
	<-d.done
	if d.err == nil {
		d.queue.Close()
	}
	d.log.Debug("command queue manager has terminated")
}

// Kill stops the manager without waiting for workers to terminate and
// returns once it has exited, within about one poll interval or the
// duration of the running command. Queued commands are not executed and
// later Pushes return ErrStopped. Workers already waiting on a saturated
// dispatcher stay blocked.
//
// Kill may be called more than once and from any goroutine started after
// Start. A synchronous dispatcher ignores Kill. Panics if called before
// Start.
func (d *Dispatcher) Kill() {
	if d.opts.synchronous {
		return
	}
	if !d.started {
		panic("dispatch: kill before start")
	}
	d.killOnce.Do(func() {
		d.log.Debug("killing command queue manager")
		close(d.kill)
	})
	<-d.done
}

// Err reports why the manager exited: nil once every slot terminated,
// ErrKilled after Kill, or the cause of the Start context's cancellation.
// Only meaningful after Done is closed.
func (d *Dispatcher) Err() error {
	select {
	case <-d.done:
		return d.err
	default:
		return nil
	}
}

// Done returns a channel closed when the manager goroutine has exited.
func (d *Dispatcher) Done() <-chan struct{} {
	return d.done
}

// Executed returns the number of commands run so far.
func (d *Dispatcher) Executed() uint64 {
	return d.executed.LoadAcquire()
}

// Failed returns the number of commands that returned an error or panicked.
func (d *Dispatcher) Failed() uint64 {
	return d.failed.LoadAcquire()
}

// Stats returns the manager-side statistics of the underlying queue.
// A synchronous dispatcher reports zero values.
func (d *Dispatcher) Stats() mwsr.Stats {
	if d.queue == nil {
		return mwsr.Stats{}
	}
	return d.queue.ReaderStats()
}
