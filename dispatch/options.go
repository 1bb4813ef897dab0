// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dispatch

import (
	"time"

	"github.com/tliron/commonlog"
)

const (
	// DefaultBatchSize is the number of commands a worker buffers before
	// handing them to the manager.
	DefaultBatchSize = 1000

	// DefaultPollInterval bounds how long the manager waits for a command
	// before it checks for Kill and context cancellation.
	DefaultPollInterval = 10 * time.Millisecond

	// backlogLogInterval is how often, in executed commands, the manager
	// logs the backlog.
	backlogLogInterval = 100
)

// ErrorHandler receives errors returned or panics raised by commands.
type ErrorHandler func(cmd Command, err error)

type options struct {
	batchSize    int
	maxBatches   int
	pollInterval time.Duration
	onError     ErrorHandler
	log         commonlog.Logger
	synchronous bool
}

// Option configures a Dispatcher.
type Option func(*options)

// WithBatchSize sets the per-worker batch size of the underlying queue.
func WithBatchSize(n int) Option {
	return func(o *options) {
		o.batchSize = n
	}
}

// WithMaxBatches limits the number of pending batches; workers pushing into
// a saturated dispatcher wait. Zero, the default, never blocks.
func WithMaxBatches(n int) Option {
	return func(o *options) {
		o.maxBatches = n
	}
}

// WithPollInterval sets how long the manager waits for a command before it
// checks for Kill and context cancellation. It is also the upper bound on
// how long Kill waits for an idle manager.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		o.pollInterval = d
	}
}

// WithErrorHandler sets the handler for failed commands.
// The default logs the failure at error level.
func WithErrorHandler(h ErrorHandler) Option {
	return func(o *options) {
		o.onError = h
	}
}

// WithLogger sets the logger. The default is commonlog.GetLogger("mwsr.dispatch").
func WithLogger(log commonlog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithSynchronous makes Push execute commands on the calling goroutine.
// No queue or manager goroutine is created.
func WithSynchronous() Option {
	return func(o *options) {
		o.synchronous = true
	}
}
