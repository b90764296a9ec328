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
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/OpenPSG/cardio/internal/config"
	"github.com/OpenPSG/cardio/internal/logger"
	"github.com/OpenPSG/cardio/units"
)

// cli carries the state shared by every subcommand once the persistent
// flags have been parsed.
type cli struct {
	configFilename string
	cfg            *config.Config
	registry       *units.Registry
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "cardio",
		Short: "Biosignal recording utilities.",
		Long: `Cardio works with biosignal recordings and the data derived from them.

It can:
- compute conversion factors between physical units
- describe and dump EDF/EDF+ recordings
- rewrite recordings with signals expressed in other units
- one-hot encode class labels and decode classifier scores`,
		SilenceUsage:      true,
		PersistentPreRunE: c.init,
	}

	rootCmd.PersistentFlags().StringVarP(
		&c.configFilename,
		"config",
		"c",
		"",
		fmt.Sprintf("path to the configuration file (default is '%s' if present)",
			config.DefaultConfigFilename))

	rootCmd.PersistentFlags().String(
		"log-level",
		"",
		"logging verbosity: debug, info, warn or error.")

	rootCmd.AddCommand(
		c.factorCmd(),
		c.infoCmd(),
		c.rescaleCmd(),
		c.dumpCmd(),
		c.binarizeCmd(),
		c.decodeCmd(),
	)

	return rootCmd
}

func (c *cli) init(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(c.configFilename)
	if err != nil {
		return err
	}

	if err := bindFlagsToConfig(cmd.Flags(), cfg); err != nil {
		return err
	}

	logger.SetLevel(cfg.ParsedLogLevel)
	logger.Debugf(cmd.Context(), "Loaded configuration with %d unit overrides", len(cfg.Units))

	registry, err := units.New(units.WithCacheSize(cfg.CacheSize))
	if err != nil {
		return fmt.Errorf("failed to build unit registry: %w", err)
	}

	c.cfg = cfg
	c.registry = registry
	return nil
}

// bindFlagsToConfig overrides configuration values with the flags that were
// set explicitly on the command line, then validates the result.
func bindFlagsToConfig(flags *pflag.FlagSet, cfg *config.Config) error {
	if flag := flags.Lookup("log-level"); flag != nil && flag.Changed {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}

	if flag := flags.Lookup("threshold"); flag != nil && flag.Changed {
		cfg.Threshold, _ = flags.GetFloat64("threshold")
	}

	if flag := flags.Lookup("default-units"); flag != nil && flag.Changed {
		cfg.DefaultUnits, _ = flags.GetString("default-units")
	}

	if flag := flags.Lookup("units"); flag != nil && flag.Changed && flag.Value.Type() == "stringToString" {
		overrides, _ := flags.GetStringToString("units")
		if cfg.Units == nil {
			cfg.Units = make(map[string]string, len(overrides))
		}
		for label, target := range overrides {
			// Flag labels replace any config entry that differs only in case.
			for existing := range cfg.Units {
				if strings.EqualFold(existing, label) {
					delete(cfg.Units, existing)
				}
			}
			cfg.Units[label] = target
		}
	}

	return config.ValidateConfig(cfg)
}
