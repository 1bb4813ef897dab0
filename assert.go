// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build mwsrdebug

package mwsr

// debugChecks enables contract assertions (writer id range, batch bounds).
const debugChecks = true
