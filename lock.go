// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mwsr

import (
	"runtime"
	"sync"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// lockYieldSpins is the number of failed acquisition attempts after which a
// waiter yields its processor to let a preempted holder finish.
const lockYieldSpins = 128

// spinLock guards the pending list and the termination flags.
//
// Critical sections are a handful of pointer updates, so waiters spin with
// CPU pause hints instead of parking. Callers go through do, which releases
// the lock on every exit path including panics.
type spinLock struct {
	state atomix.Uint64 // 0: free, 1: held
	mu    sync.Mutex    // Used instead of state under the race detector
}

// do runs fn with the lock held.
func (l *spinLock) do(fn func()) {
	l.lock()
	defer l.unlock()
	fn()
}

func (l *spinLock) lock() {
	if RaceEnabled {
		l.mu.Lock()
		return
	}
	sw := spin.Wait{}
	for n := 1; ; n++ {
		if l.state.LoadRelaxed() == 0 && l.state.CompareAndSwapAcqRel(0, 1) {
			return
		}
		if n%lockYieldSpins == 0 {
			runtime.Gosched()
			continue
		}
		sw.Once()
	}
}

func (l *spinLock) unlock() {
	if RaceEnabled {
		l.mu.Unlock()
		return
	}
	if l.state.LoadRelaxed() == 0 {
		panic("mwsr: unlock of unlocked lock")
	}
	l.state.StoreRelease(0)
}
