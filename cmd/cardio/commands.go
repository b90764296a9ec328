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
	"github.com/spf13/cobra"

	"github.com/OpenPSG/cardio/internal/app"
)

func (c *cli) factorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "factor OLD NEW",
		Short: "Print the factor converting OLD units into NEW units.",
		Example: `  cardio factor mV uV
  cardio factor "kg m / s**2" N`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Factor(cmd.Context(), cmd.OutOrStdout(), c.registry, args[0], args[1])
		},
	}
}

func (c *cli) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE",
		Short: "Describe the header and signals of an EDF/EDF+ recording.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Info(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}
}

func (c *cli) rescaleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rescale IN OUT",
		Short: "Rewrite a recording with signals expressed in other units.",
		Long: `Rewrite an EDF/EDF+ recording with the physical range of selected signals
expressed in other units. Sample data is copied unchanged.

Targets come from the "units" map of the configuration file, keyed by signal
label, and from --units flags, which take precedence. Signals without a target
use --default-units, or are left alone when it is empty.`,
		Example: "  cardio rescale in.edf out.edf --units 'ECG II=uV' --default-units mV",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Rescale(cmd.Context(), c.registry, args[0], args[1], c.cfg.TargetUnits)
		},
	}

	cmd.Flags().StringToStringP("units", "u", nil, "target units per signal label, as LABEL=UNITS.")
	cmd.Flags().String("default-units", "", "target units for signals without a --units entry.")

	return cmd
}

func (c *cli) dumpCmd() *cobra.Command {
	var (
		signal  int
		toUnits string
		count   int
	)

	cmd := &cobra.Command{
		Use:   "dump FILE",
		Short: "Print the samples of one signal, one per line.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Dump(cmd.Context(), cmd.OutOrStdout(), c.registry, args[0], signal, toUnits, count)
		},
	}

	cmd.Flags().IntVarP(&signal, "signal", "s", 0, "index of the signal to print.")
	cmd.Flags().StringVarP(&toUnits, "units", "u", "", "units to print samples in (default is the signal's own).")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "maximum number of samples to print, 0 for all.")

	return cmd
}

func (c *cli) binarizeCmd() *cobra.Command {
	var classesPath, savePath string

	cmd := &cobra.Command{
		Use:   "binarize LABEL...",
		Short: "One-hot encode class labels.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Binarize(cmd.Context(), cmd.OutOrStdout(), args, classesPath, savePath)
		},
	}

	cmd.Flags().StringVar(&classesPath, "classes", "", "encode against classes saved by --save instead of fitting.")
	cmd.Flags().StringVar(&savePath, "save", "", "write the fitted classes to this YAML file.")

	return cmd
}

func (c *cli) decodeCmd() *cobra.Command {
	var classesPath string

	cmd := &cobra.Command{
		Use:     "decode ROW...",
		Short:   "Decode rows of comma separated scores into class labels.",
		Example: "  cardio decode --classes classes.yaml 0.9,0.1 0.3,0.7",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Decode(cmd.Context(), cmd.OutOrStdout(), classesPath, args, c.cfg.Threshold)
		},
	}

	cmd.Flags().StringVar(&classesPath, "classes", "", "YAML file written by binarize --save.")
	cmd.Flags().Float64("threshold", 0, "decision threshold for two class scores (default from config, 0.5).")
	_ = cmd.MarkFlagRequired("classes")

	return cmd
}
