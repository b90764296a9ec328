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
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	global *zap.SugaredLogger
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

func init() {
	SetLogger(New(level))
}

// New creates a console logger writing to stderr. A nil level enables
// info and above.
func New(lvl zapcore.LevelEnabler) *zap.SugaredLogger {
	if lvl == nil {
		lvl = zapcore.InfoLevel
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(os.Stderr),
		lvl,
	)

	return zap.New(core).Sugar()
}

// ParseLogLevel parses a level name, ignoring case and surrounding spaces.
// Unknown names yield zapcore.InfoLevel and false.
func ParseLogLevel(s string) (zapcore.Level, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return zapcore.InfoLevel, false
	}

	lvl, err := zapcore.ParseLevel(s)
	if err != nil {
		return zapcore.InfoLevel, false
	}

	return lvl, true
}

// Logger returns the global logger.
func Logger() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()

	return global
}

// SetLogger replaces the global logger.
func SetLogger(l *zap.SugaredLogger) {
	mu.Lock()
	defer mu.Unlock()

	global = l
}

// Level returns the level of the default logger.
func Level() zapcore.Level {
	return level.Level()
}

// SetLevel changes the level of the default logger.
func SetLevel(lvl zapcore.Level) {
	level.SetLevel(lvl)
}

type loggerKey struct{}

// ToContext returns a copy of ctx carrying l. The helpers below log through
// it instead of the global logger.
func ToContext(ctx context.Context, l *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// FromContext returns the logger carried by ctx, or the global logger.
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*zap.SugaredLogger); ok {
			return l
		}
	}

	return Logger()
}

// Named returns ctx with a logger named after the given component.
func Named(ctx context.Context, name string) context.Context {
	return ToContext(ctx, FromContext(ctx).Named(name))
}

// Debug logs a message at debug level.
func Debug(ctx context.Context, args ...any) {
	FromContext(ctx).Debug(args...)
}

// Debugf logs a formatted message at debug level.
func Debugf(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Debugf(format, args...)
}

// DebugKV logs a message with key value pairs at debug level.
func DebugKV(ctx context.Context, msg string, kvs ...any) {
	FromContext(ctx).Debugw(msg, kvs...)
}

// Info logs a message at info level.
func Info(ctx context.Context, args ...any) {
	FromContext(ctx).Info(args...)
}

// Infof logs a formatted message at info level.
func Infof(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Infof(format, args...)
}

// InfoKV logs a message with key value pairs at info level.
func InfoKV(ctx context.Context, msg string, kvs ...any) {
	FromContext(ctx).Infow(msg, kvs...)
}

// Warn logs a message at warn level.
func Warn(ctx context.Context, args ...any) {
	FromContext(ctx).Warn(args...)
}

// Warnf logs a formatted message at warn level.
func Warnf(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Warnf(format, args...)
}

// WarnKV logs a message with key value pairs at warn level.
func WarnKV(ctx context.Context, msg string, kvs ...any) {
	FromContext(ctx).Warnw(msg, kvs...)
}

// Error logs a message at error level.
func Error(ctx context.Context, args ...any) {
	FromContext(ctx).Error(args...)
}

// Errorf logs a formatted message at error level.
func Errorf(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Errorf(format, args...)
}

// ErrorKV logs a message with key value pairs at error level.
func ErrorKV(ctx context.Context, msg string, kvs ...any) {
	FromContext(ctx).Errorw(msg, kvs...)
}

// Fatalf logs a formatted message and exits the process.
func Fatalf(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Fatalf(format, args...)
}
