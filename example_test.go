// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mwsr_test

import (
	"fmt"

	"code.hybscloud.com/mwsr"
)

// ExampleNewQueue demonstrates batching: elements become readable once the
// writer flushes or terminates.
func ExampleNewQueue() {
	q := mwsr.NewQueue[string](2, 4, 0)

	q.Write(0, "a0")
	q.Write(1, "b0")
	q.Write(0, "a1")

	_, err := q.Read(mwsr.NoWait)
	fmt.Println(mwsr.IsWouldBlock(err))

	q.TerminateWriter(0)
	q.TerminateWriter(1)

	for {
		v, err := q.Read(mwsr.NoWait)
		if err != nil {
			fmt.Println(err)
			break
		}
		fmt.Println(v)
	}
	fmt.Println(q.State())

	// Output:
	// true
	// a0
	// a1
	// b0
	// EOF
	// terminated
}

// ExampleBuild demonstrates the builder API and statistics.
func ExampleBuild() {
	q := mwsr.Build[int](mwsr.New(1).BatchSize(2).MaxBatches(4))

	for i := range 5 {
		q.Write(0, i)
	}
	q.TerminateWriter(0)

	sum := 0
	for {
		v, err := q.Read(mwsr.Forever)
		if err != nil {
			break
		}
		sum += v
	}

	w := q.WriterStats(0)
	fmt.Println(sum, w.Elements, w.Batches)

	// Output:
	// 10 5 3
}
