// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"code.hybscloud.com/mwsr"
)

// progressStep is how many reads are reported to the progress callback at once.
const progressStep = 4096

// maxViolations bounds the ordering violations kept in a Result.
const maxViolations = 10

var errVerify = errors.New("verification failed")

// item tags a sequence number with the writer that produced it.
type item struct {
	writer int
	seq    int
}

// Result is the outcome of one run.
type Result struct {
	Config     Config        `json:"config"`
	Read       uint64        `json:"read"`
	Elapsed    time.Duration `json:"elapsed_ns"`
	Throughput float64       `json:"throughput_per_sec"`
	Reader     mwsr.Stats    `json:"reader"`
	Writers    []mwsr.Stats  `json:"writers"`
	Violations []string      `json:"violations,omitempty"`
}

// run writes cfg.Elements sequence numbers from each of cfg.Writers
// goroutines and drains them on the calling goroutine, checking that every
// writer's numbers arrive once and in order.
//
// progress, if not nil, is called with the number of elements read since
// the previous call.
func run(cfg Config, progress func(n int)) (Result, error) {
	if err := cfg.validate(); err != nil {
		return Result{}, err
	}

	q := mwsr.Build[item](cfg.builder())
	defer q.Close()

	res := Result{Config: cfg}
	start := time.Now()

	var wg sync.WaitGroup
	for w := range cfg.Writers {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := range cfg.Elements {
				q.Write(w, item{writer: w, seq: i})
				if cfg.FlushEvery > 0 && (i+1)%cfg.FlushEvery == 0 {
					q.Flush(w)
				}
			}
			q.TerminateWriter(w)
		}(w)
	}

	next := make([]int, cfg.Writers)
	unreported := 0
	for {
		it, err := q.Read(mwsr.Forever)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, err
		}
		res.Read++

		if it.seq != next[it.writer] && len(res.Violations) < maxViolations {
			res.Violations = append(res.Violations,
				fmt.Sprintf("writer %d: got seq %d, want %d", it.writer, it.seq, next[it.writer]))
		}
		next[it.writer] = it.seq + 1

		if progress != nil {
			unreported++
			if unreported == progressStep {
				progress(unreported)
				unreported = 0
			}
		}
	}
	wg.Wait()

	res.Elapsed = time.Since(start)
	if progress != nil && unreported > 0 {
		progress(unreported)
	}
	if secs := res.Elapsed.Seconds(); secs > 0 {
		res.Throughput = float64(res.Read) / secs
	}
	res.Reader = q.ReaderStats()
	res.Writers = make([]mwsr.Stats, cfg.Writers)
	for w := range cfg.Writers {
		res.Writers[w] = q.WriterStats(w)
	}

	want := uint64(cfg.Writers) * uint64(cfg.Elements)
	if res.Read != want {
		res.Violations = append(res.Violations, fmt.Sprintf("read %d elements, want %d", res.Read, want))
	}
	if q.Size() != 0 {
		res.Violations = append(res.Violations, fmt.Sprintf("size %d after drain", q.Size()))
	}
	if len(res.Violations) > 0 {
		return res, errVerify
	}
	return res, nil
}
