// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dispatch

import "context"

// Command is an operation executed by the dispatcher's manager goroutine.
type Command interface {
	Execute(ctx context.Context) error
}

// CommandFunc adapts a function to Command.
type CommandFunc func(ctx context.Context) error

// Execute calls f(ctx).
func (f CommandFunc) Execute(ctx context.Context) error {
	return f(ctx)
}
