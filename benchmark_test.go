// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mwsr_test

import (
	"fmt"
	"sync"
	"testing"

	"code.hybscloud.com/mwsr"
)

// =============================================================================
// Single Goroutine Baselines
// =============================================================================

func BenchmarkWriteRead_SingleOp(b *testing.B) {
	q := mwsr.NewQueue[int](1, mwsr.DefaultBatchSize, 0)

	b.ResetTimer()
	for i := range b.N {
		q.Write(0, i)
		if i%mwsr.DefaultBatchSize == mwsr.DefaultBatchSize-1 {
			for {
				if _, err := q.Read(mwsr.NoWait); err != nil {
					break
				}
			}
		}
	}
}

func BenchmarkWriteFlushRead(b *testing.B) {
	q := mwsr.NewQueue[int](1, mwsr.DefaultBatchSize, 0)

	b.ResetTimer()
	for i := range b.N {
		q.Write(0, i)
		q.Flush(0)
		q.Read(mwsr.NoWait)
	}
}

// =============================================================================
// Multiple Writers
// =============================================================================

// BenchmarkWriters measures end-to-end transfer from W writers to the reader,
// b.N elements in total.
func BenchmarkWriters(b *testing.B) {
	for _, writers := range []int{1, 2, 4, 8} {
		for _, batch := range []int{16, 128, 1024} {
			b.Run(fmt.Sprintf("W%d/B%d", writers, batch), func(b *testing.B) {
				q := mwsr.NewQueue[int](writers, batch, 8)
				per := b.N/writers + 1

				b.ResetTimer()
				var wg sync.WaitGroup
				for w := range writers {
					wg.Add(1)
					go func(w int) {
						defer wg.Done()
						for i := range per {
							q.Write(w, i)
						}
						q.TerminateWriter(w)
					}(w)
				}
				for {
					if _, err := q.Read(mwsr.Forever); err != nil {
						break
					}
				}
				b.StopTimer()
				wg.Wait()
			})
		}
	}
}
