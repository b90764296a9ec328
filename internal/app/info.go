// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/OpenPSG/cardio/edf"
)

// Info prints the header of an EDF file and a table of its signals.
func Info(_ context.Context, w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	er, err := edf.Open(f)
	if err != nil {
		return fmt.Errorf("error reading %s: %w", path, err)
	}

	hdr := er.Header()

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "File:\t%s\n", path)
	fmt.Fprintf(tw, "Format:\t%s\n", formatName(hdr))
	fmt.Fprintf(tw, "Patient:\t%s\n", hdr.PatientID)
	fmt.Fprintf(tw, "Recording:\t%s\n", hdr.RecordingID)
	fmt.Fprintf(tw, "Start:\t%s\n", hdr.StartTime.Format(time.DateTime))
	fmt.Fprintf(tw, "Records:\t%s x %s\n", humanize.Comma(int64(hdr.DataRecords)), hdr.DataRecordDuration)
	if hdr.DataRecords >= 0 {
		fmt.Fprintf(tw, "Duration:\t%s\n", time.Duration(hdr.DataRecords)*hdr.DataRecordDuration)
	}
	fmt.Fprintf(tw, "Record size:\t%s\n", humanize.Bytes(uint64(hdr.RecordSize())))
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)

	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tLABEL\tUNITS\tPHYSICAL RANGE\tDIGITAL RANGE\tRATE\tPREFILTERING")
	for i, sig := range hdr.Signals {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d .. %d\t%s\t%s\n",
			i,
			sig.Label,
			sig.PhysicalDimension,
			formatRange(sig),
			sig.DigitalMin, sig.DigitalMax,
			formatRate(sig, hdr.DataRecordDuration),
			sig.Prefiltering,
		)
	}

	return tw.Flush()
}

func formatName(hdr edf.Header) string {
	switch hdr.Reserved {
	case "EDF+C":
		return "EDF+ (continuous)"
	case "EDF+D":
		return "EDF+ (discontinuous)"
	default:
		return "EDF"
	}
}

func formatRange(sig edf.Signal) string {
	if sig.IsAnnotations() {
		return "-"
	}

	return humanize.FtoaWithDigits(sig.PhysicalMin, 6) + " .. " + humanize.FtoaWithDigits(sig.PhysicalMax, 6)
}

func formatRate(sig edf.Signal, recordDuration time.Duration) string {
	if recordDuration <= 0 {
		return "-"
	}

	return humanize.SIWithDigits(float64(sig.SamplesPerRecord)/recordDuration.Seconds(), 2, "Hz")
}
