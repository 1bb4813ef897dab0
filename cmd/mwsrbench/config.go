// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"time"

	"code.hybscloud.com/mwsr"
	"github.com/BurntSushi/toml"
)

// Config describes one benchmark run.
//
// Values come from defaults, then the TOML file given by -config, then
// flags set on the command line.
type Config struct {
	Writers    int           `toml:"writers" json:"writers"`
	Elements   int           `toml:"elements" json:"elements_per_writer"`
	BatchSize  int           `toml:"batch_size" json:"batch_size"`
	MaxBatches int           `toml:"max_batches" json:"max_batches"`
	Backoff    time.Duration `toml:"backoff" json:"backoff_ns"`
	Recycle    int           `toml:"recycle" json:"recycle"`
	FlushEvery int           `toml:"flush_every" json:"flush_every"`
	Report     string        `toml:"report" json:"-"`
	Progress   bool          `toml:"progress" json:"-"`
}

func defaultConfig() Config {
	return Config{
		Writers:    4,
		Elements:   1_000_000,
		BatchSize:  mwsr.DefaultBatchSize,
		MaxBatches: 0,
		Backoff:    mwsr.DefaultBackoff,
		Recycle:    8,
	}
}

// loadConfig decodes the TOML file at path over cfg.
func loadConfig(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	return nil
}

func (c Config) validate() error {
	var errs []error
	if c.Writers < 1 {
		errs = append(errs, errors.New("writers must be >= 1"))
	}
	if c.Elements < 0 {
		errs = append(errs, errors.New("elements must be >= 0"))
	}
	if c.BatchSize < 1 {
		errs = append(errs, errors.New("batch size must be >= 1"))
	}
	if c.MaxBatches < 0 {
		errs = append(errs, errors.New("max batches must be >= 0"))
	}
	if c.Backoff < 0 {
		errs = append(errs, errors.New("backoff must be >= 0"))
	}
	if c.Recycle < 0 {
		errs = append(errs, errors.New("recycle must be >= 0"))
	}
	if c.FlushEvery < 0 {
		errs = append(errs, errors.New("flush every must be >= 0"))
	}
	return errors.Join(errs...)
}

func (c Config) builder() *mwsr.Builder {
	return mwsr.New(c.Writers).
		BatchSize(c.BatchSize).
		MaxBatches(c.MaxBatches).
		Backoff(c.Backoff).
		Recycle(c.Recycle)
}
