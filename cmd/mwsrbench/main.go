// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command mwsrbench stress-tests an mwsr queue.
//
// Writers push (writer, sequence) pairs while one reader drains them. The
// run fails if any element is lost, duplicated, or read out of order for its
// writer.
//
// Usage:
//
//	mwsrbench [-writers n] [-n elements] [-batch n] [-max n] [-backoff d]
//	          [-recycle n] [-flush n] [-config file.toml] [-report out.json]
//	          [-progress] [-v]
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

func main() {
	os.Exit(realMain(os.Args[1:], os.Stdout, os.Stderr))
}

func realMain(args []string, stdout, stderr io.Writer) int {
	cfg, verbose, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, "mwsrbench:", err)
		return 2
	}

	if verbose {
		commonlog.Configure(2, nil)
	} else {
		commonlog.Configure(0, nil)
	}
	log := commonlog.GetLogger("mwsrbench")
	log.Infof("writers=%d elements=%d batch=%d max=%d backoff=%s recycle=%d",
		cfg.Writers, cfg.Elements, cfg.BatchSize, cfg.MaxBatches, cfg.Backoff, cfg.Recycle)

	var progress func(int)
	if cfg.Progress {
		bar := progressbar.NewOptions64(int64(cfg.Writers)*int64(cfg.Elements),
			progressbar.OptionSetWriter(stderr),
			progressbar.OptionSetDescription("draining"),
			progressbar.OptionShowCount(),
		)
		defer bar.Finish()
		progress = func(n int) { _ = bar.Add(n) }
	}

	res, err := run(cfg, progress)
	printResult(stdout, res)

	if cfg.Report != "" {
		if werr := writeReport(cfg.Report, newReport(res)); werr != nil {
			log.Errorf("%s", werr)
			return 1
		}
		log.Infof("wrote report to %s", cfg.Report)
	}

	if err != nil {
		for _, v := range res.Violations {
			log.Errorf("%s", v)
		}
		fmt.Fprintln(stderr, "mwsrbench:", err)
		return 1
	}
	return 0
}

// parseArgs applies defaults, then the -config file, then explicit flags.
func parseArgs(args []string, stderr io.Writer) (Config, bool, error) {
	cfg := defaultConfig()
	var configPath string
	var verbose bool

	fs := flag.NewFlagSet("mwsrbench", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&cfg.Writers, "writers", cfg.Writers, "number of writer goroutines")
	fs.IntVar(&cfg.Elements, "n", cfg.Elements, "elements per writer")
	fs.IntVar(&cfg.BatchSize, "batch", cfg.BatchSize, "elements per batch")
	fs.IntVar(&cfg.MaxBatches, "max", cfg.MaxBatches, "pending batch limit (0: unbounded)")
	fs.DurationVar(&cfg.Backoff, "backoff", cfg.Backoff, "retry sleep interval (0: yield)")
	fs.IntVar(&cfg.Recycle, "recycle", cfg.Recycle, "drained batches kept for reuse (0: off)")
	fs.IntVar(&cfg.FlushEvery, "flush", cfg.FlushEvery, "flush every n writes (0: only when full)")
	fs.StringVar(&cfg.Report, "report", cfg.Report, "write a JSON report to this file")
	fs.BoolVar(&cfg.Progress, "progress", cfg.Progress, "show a progress bar")
	fs.StringVar(&configPath, "config", "", "TOML configuration file")
	fs.BoolVar(&verbose, "v", false, "verbose logging")

	if err := fs.Parse(args); err != nil {
		return cfg, false, err
	}
	if configPath != "" {
		if err := loadConfig(configPath, &cfg); err != nil {
			return cfg, false, err
		}
		// Flags given on the command line win over the file.
		if err := fs.Parse(args); err != nil {
			return cfg, false, err
		}
	}
	if fs.NArg() > 0 {
		return cfg, false, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	return cfg, verbose, cfg.validate()
}

func printResult(w io.Writer, res Result) {
	fmt.Fprintf(w, "read %d elements in %s (%.0f/s)\n", res.Read, res.Elapsed, res.Throughput)
	fmt.Fprintf(w, "reader:  elements=%d batches=%d locked=%d blocked=%d\n",
		res.Reader.Elements, res.Reader.Batches, res.Reader.Locked, res.Reader.Blocked)
	for i, s := range res.Writers {
		fmt.Fprintf(w, "writer %d: elements=%d batches=%d locked=%d blocked=%d\n",
			i, s.Elements, s.Batches, s.Locked, s.Blocked)
	}
}
