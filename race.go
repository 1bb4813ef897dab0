// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package mwsr

// RaceEnabled is true when the race detector is active.
//
// The race detector cannot observe happens-before edges established by
// acquire/release orderings on separate atomix variables. Under race builds
// the shared lock falls back to sync.Mutex and batch recycling is disabled,
// so every hand-off goes through synchronization the detector understands.
const RaceEnabled = true
