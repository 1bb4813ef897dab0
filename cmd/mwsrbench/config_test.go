// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "bench.toml", `
writers = 6
elements = 500
batch_size = 32
max_batches = 3
backoff = "5us"
recycle = 0
flush_every = 100
progress = true
`)

	cfg := defaultConfig()
	require.NoError(t, loadConfig(path, &cfg))

	require.Equal(t, 6, cfg.Writers)
	require.Equal(t, 500, cfg.Elements)
	require.Equal(t, 32, cfg.BatchSize)
	require.Equal(t, 3, cfg.MaxBatches)
	require.Equal(t, 5*time.Microsecond, cfg.Backoff)
	require.Equal(t, 0, cfg.Recycle)
	require.Equal(t, 100, cfg.FlushEvery)
	require.True(t, cfg.Progress)
}

func TestLoadConfigErrors(t *testing.T) {
	cfg := defaultConfig()

	err := loadConfig(filepath.Join(t.TempDir(), "missing.toml"), &cfg)
	require.Error(t, err)

	bad := writeFile(t, "bad.toml", "writers = [")
	require.Error(t, loadConfig(bad, &cfg))

	unknown := writeFile(t, "unknown.toml", "writerz = 3\n")
	require.ErrorContains(t, loadConfig(unknown, &cfg), "writerz")
}

func TestValidate(t *testing.T) {
	require.NoError(t, defaultConfig().validate())

	tests := []struct {
		name string
		mod  func(*Config)
		msg  string
	}{
		{"writers", func(c *Config) { c.Writers = 0 }, "writers"},
		{"elements", func(c *Config) { c.Elements = -1 }, "elements"},
		{"batch", func(c *Config) { c.BatchSize = 0 }, "batch size"},
		{"max", func(c *Config) { c.MaxBatches = -1 }, "max batches"},
		{"backoff", func(c *Config) { c.Backoff = -time.Second }, "backoff"},
		{"recycle", func(c *Config) { c.Recycle = -1 }, "recycle"},
		{"flush", func(c *Config) { c.FlushEvery = -1 }, "flush every"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mod(&cfg)
			require.ErrorContains(t, cfg.validate(), tt.msg)
		})
	}
}

func TestParseArgsPrecedence(t *testing.T) {
	path := writeFile(t, "bench.toml", "writers = 6\nbatch_size = 32\n")

	cfg, verbose, err := parseArgs([]string{"-config", path, "-writers", "2", "-v"}, io.Discard)
	require.NoError(t, err)
	require.True(t, verbose)
	require.Equal(t, 2, cfg.Writers, "flag overrides file")
	require.Equal(t, 32, cfg.BatchSize, "file overrides default")
	require.Equal(t, defaultConfig().Elements, cfg.Elements, "default kept")
}

func TestParseArgsErrors(t *testing.T) {
	_, _, err := parseArgs([]string{"-writers", "0"}, io.Discard)
	require.ErrorContains(t, err, "writers")

	_, _, err = parseArgs([]string{"extra"}, io.Discard)
	require.ErrorContains(t, err, "unexpected argument")

	_, _, err = parseArgs([]string{"-nope"}, io.Discard)
	require.Error(t, err)
}
