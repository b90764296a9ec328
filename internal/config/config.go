// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

// Package config loads the cardio command line settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/OpenPSG/cardio/internal/logger"
	"github.com/OpenPSG/cardio/labels"
	"github.com/OpenPSG/cardio/units"
)

// Config holds all configuration settings.
type Config struct {
	// LogLevel specifies the logging verbosity level.
	LogLevel string `mapstructure:"log_level"`
	// Units maps signal labels to the units rescale converts them to.
	Units map[string]string `mapstructure:"units"`
	// DefaultUnits applies to signals without an entry in Units. Empty
	// leaves them unchanged.
	DefaultUnits string `mapstructure:"default_units"`
	// Threshold is the decision threshold used when decoding binary labels.
	Threshold float64 `mapstructure:"threshold"`
	// CacheSize bounds the unit registry's parse cache, 0 disables it.
	CacheSize int `mapstructure:"cache_size"`
	// ParsedLogLevel is the parsed zap log level.
	ParsedLogLevel zapcore.Level
}

const (
	// DefaultConfigFilename is the default name of the configuration file.
	DefaultConfigFilename = ".cardio.yaml"
)

var (
	// ErrUnknownLogLevel indicates that the log level is not recognized.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrInvalidThreshold indicates a threshold that is not a finite number.
	ErrInvalidThreshold = errors.New("threshold must be a finite number")
	// ErrInvalidCacheSize indicates a negative cache size.
	ErrInvalidCacheSize = errors.New("cache_size cannot be negative")
	// ErrEmptyLabel indicates a units entry keyed by an empty signal label.
	ErrEmptyLabel = errors.New("units entry has an empty signal label")
)

// Default returns the settings used when no configuration file exists.
func Default() *Config {
	return &Config{
		LogLevel:  "info",
		Units:     map[string]string{},
		Threshold: labels.DefaultThreshold,
		CacheSize: units.DefaultCacheSize,
	}
}

// LoadConfig loads configuration settings from a YAML file. An empty
// filename reads DefaultConfigFilename if it exists and falls back to
// Default otherwise.
func LoadConfig(configFilename string) (*Config, error) {
	// Signal labels may contain dots, so keys are not split on them.
	v := viper.NewWithOptions(viper.KeyDelimiter("::"))
	v.SetDefault("log_level", "info")
	v.SetDefault("threshold", labels.DefaultThreshold)
	v.SetDefault("cache_size", units.DefaultCacheSize)

	optional := configFilename == ""
	if optional {
		configFilename = DefaultConfigFilename
	}

	v.SetConfigFile(configFilename)

	if err := v.ReadInConfig(); err != nil {
		if !optional || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config from file: %w", err)
		}
	}

	cfg := Config{Units: map[string]string{}}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// ValidateConfig checks the configuration for validity and sets derived fields.
func ValidateConfig(cfg *Config) error {
	parsedLogLevel, ok := logger.ParseLogLevel(cfg.LogLevel)
	if !ok {
		return fmt.Errorf("%w: '%s'", ErrUnknownLogLevel, cfg.LogLevel)
	}

	cfg.ParsedLogLevel = parsedLogLevel

	if math.IsNaN(cfg.Threshold) || math.IsInf(cfg.Threshold, 0) {
		return ErrInvalidThreshold
	}

	if cfg.CacheSize < 0 {
		return ErrInvalidCacheSize
	}

	for label := range cfg.Units {
		if strings.TrimSpace(label) == "" {
			return ErrEmptyLabel
		}
	}

	return nil
}

// TargetUnits returns the units a signal with the given label should be
// converted to, or "" to leave it unchanged. Labels match case insensitively,
// since viper folds map keys to lower case.
func (cfg *Config) TargetUnits(label string) string {
	for l, units := range cfg.Units {
		if strings.EqualFold(l, strings.TrimSpace(label)) {
			return units
		}
	}

	return cfg.DefaultUnits
}
