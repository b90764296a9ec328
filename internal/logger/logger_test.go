// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	t.Parallel()

	for _, lvl := range []zapcore.LevelEnabler{zapcore.DebugLevel, zapcore.ErrorLevel, nil} {
		assert.NotNil(t, New(lvl))
	}
}

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected zapcore.Level
		valid    bool
	}{
		{"debug", zapcore.DebugLevel, true},
		{"warn", zapcore.WarnLevel, true},
		{"dpanic", zapcore.DPanicLevel, true},
		{"ERROR", zapcore.ErrorLevel, true},
		{" Info ", zapcore.InfoLevel, true},
		{"verbose", zapcore.InfoLevel, false},
		{"", zapcore.InfoLevel, false},
		{"   ", zapcore.InfoLevel, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			lvl, valid := ParseLogLevel(tt.input)
			assert.Equal(t, tt.expected, lvl)
			assert.Equal(t, tt.valid, valid)
		})
	}
}

func TestSetLevel(t *testing.T) {
	// Not parallel: mutates the global level.
	original := Level()
	defer SetLevel(original)

	SetLevel(zapcore.ErrorLevel)
	assert.Equal(t, zapcore.ErrorLevel, Level())
	assert.False(t, Logger().Desugar().Core().Enabled(zapcore.InfoLevel))
}

func TestSetLogger(t *testing.T) {
	// Not parallel: mutates the global logger.
	original := Logger()
	defer SetLogger(original)

	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core).Sugar())

	ctx := context.Background()
	Debug(ctx, "debug message")
	Infof(ctx, "converted %d signals", 3)
	WarnKV(ctx, "unknown label", "label", "EMG")
	Errorf(ctx, "failed: %v", "boom")

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)
	assert.Equal(t, "debug message", entries[0].Message)
	assert.Equal(t, "converted 3 signals", entries[1].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, "EMG", entries[2].ContextMap()["label"])
	assert.Equal(t, "failed: boom", entries[3].Message)
}

func TestContextLogger(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	ctx := Named(ToContext(context.Background(), zap.New(core).Sugar()), "rescale")

	Info(ctx, "written")
	Debugf(ctx, "dropped %s", "below level")
	ErrorKV(ctx, "failed", "signal", 2)

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, "rescale", entries[0].LoggerName)
	assert.Equal(t, int64(2), entries[1].ContextMap()["signal"])
}

func TestFromContextFallsBackToGlobal(t *testing.T) {
	t.Parallel()

	assert.NotNil(t, FromContext(context.Background()))
}
