// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/OpenPSG/cardio/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cardio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestBindFlagsToConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		args   []string
		assert func(*testing.T, *config.Config)
	}{
		{
			name: "no flags keeps config values",
			assert: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, zapcore.WarnLevel, cfg.ParsedLogLevel)
				assert.Equal(t, "V", cfg.TargetUnits("ECG II"))
				assert.Equal(t, "mV", cfg.TargetUnits("Resp"))
			},
		},
		{
			name: "flags override config values",
			args: []string{"--log-level", "debug", "--units", "ecg ii=uV,EMG=mV", "--default-units", "", "--threshold", "0.3"},
			assert: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, zapcore.DebugLevel, cfg.ParsedLogLevel)
				assert.Equal(t, "uV", cfg.TargetUnits("ECG II"))
				assert.Equal(t, "mV", cfg.TargetUnits("EMG"))
				assert.Empty(t, cfg.TargetUnits("Resp"))
				assert.InDelta(t, 0.3, cfg.Threshold, 1e-12)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := config.LoadConfig(writeConfig(t, "log_level: warn\ndefault_units: mV\nunits:\n  ECG II: V\n"))
			require.NoError(t, err)

			flags := pflag.NewFlagSet(tt.name, pflag.ContinueOnError)
			flags.String("log-level", "", "")
			flags.StringToString("units", nil, "")
			flags.String("default-units", "", "")
			flags.Float64("threshold", 0, "")
			require.NoError(t, flags.Parse(tt.args))

			require.NoError(t, bindFlagsToConfig(flags, cfg))
			tt.assert(t, cfg)
		})
	}
}

func TestBindFlagsToConfigInvalidLevel(t *testing.T) {
	t.Parallel()

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "", "")
	require.NoError(t, flags.Parse([]string{"--log-level", "chatty"}))

	err := bindFlagsToConfig(flags, config.Default())
	assert.ErrorIs(t, err, config.ErrUnknownLogLevel)
}

func TestFactorCommand(t *testing.T) {
	cfg := writeConfig(t, "log_level: error\ncache_size: 0\n")

	out, err := execute(t, "--config", cfg, "factor", "kHz", "1/ms")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)

	out, err = execute(t, "--config", cfg, "factor", "meter", "second")
	assert.Error(t, err)
	assert.Contains(t, out, "DimensionalityError")

	_, err = execute(t, "--config", cfg, "factor", "meter")
	assert.Error(t, err)
}

func TestBinarizeCommand(t *testing.T) {
	cfg := writeConfig(t, "log_level: error\nthreshold: 0.7\n")
	classes := filepath.Join(t.TempDir(), "classes.yaml")

	_, err := execute(t, "--config", cfg, "binarize", "--save", classes, "W", "N1", "REM")
	require.NoError(t, err)

	out, err := execute(t, "--config", cfg, "decode", "--classes", classes, "0.1,0.8,0.1", "0.6,0.2,0.2")
	require.NoError(t, err)
	assert.Equal(t, "REM\nN1\n", out)

	_, err = execute(t, "--config", cfg, "decode", "0.1,0.9")
	assert.ErrorContains(t, err, "classes")
}
