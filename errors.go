// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mwsr

import (
	"io"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates that Read found no element within its timeout.
//
// ErrWouldBlock is a control flow signal, not a failure. Writers never see
// it: a saturated queue makes Flush wait instead.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
//
// Example:
//
//	for {
//	    elem, err := q.Read(mwsr.NoWait)
//	    if mwsr.IsWouldBlock(err) {
//	        doOtherWork()
//	        continue
//	    }
//	    if err != nil {
//	        break // io.EOF: every writer terminated and the queue is empty
//	    }
//	    handle(elem)
//	}
var ErrWouldBlock = iox.ErrWouldBlock

// ErrTerminated is returned by Read once every writer has terminated and
// every element has been read. It is [io.EOF] so that callers can use the
// usual end-of-stream checks.
var ErrTerminated = io.EOF

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Returns true for nil, ErrWouldBlock, or ErrMore.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}
