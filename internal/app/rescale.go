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
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/OpenPSG/cardio/edf"
	"github.com/OpenPSG/cardio/internal/logger"
)

// Rescale copies the EDF recording at inPath to outPath with each signal's
// physical range expressed in the units target picks for it. Samples are
// copied verbatim: only the calibration in the header changes.
func Rescale(ctx context.Context, conv edf.Converter, inPath, outPath string, target func(label string) string) (err error) {
	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	er, err := edf.Open(in)
	if err != nil {
		return fmt.Errorf("error reading %s: %w", inPath, err)
	}

	src := er.Header()
	hdr, err := src.ConvertUnits(conv, func(sig edf.Signal) string {
		return target(sig.Label)
	})
	if err != nil {
		return err
	}

	for i, sig := range hdr.Signals {
		if sig.PhysicalDimension != src.Signals[i].PhysicalDimension {
			logger.InfoKV(ctx, "Converting signal",
				"label", sig.Label,
				"from", src.Signals[i].PhysicalDimension,
				"to", sig.PhysicalDimension)
		}
	}

	// Records are written to a temporary file next to outPath and renamed
	// into place once complete, so outPath may name the input itself.
	out, err := os.CreateTemp(filepath.Dir(outPath), ".cardio-rescale-*.edf")
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil && !errors.Is(cerr, os.ErrClosed) {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(out.Name())
		}
	}()

	if err := out.Chmod(0o644); err != nil {
		return err
	}

	ew, err := edf.Create(out, hdr)
	if err != nil {
		return fmt.Errorf("error writing %s: %w", outPath, err)
	}

	buf := make([]byte, hdr.RecordSize())
	n := 0
	for ; ; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := er.ReadRecord(n, buf); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}

		if err := ew.WriteRawRecord(buf); err != nil {
			return fmt.Errorf("error writing record %d: %w", n, err)
		}
	}

	if err := ew.Close(); err != nil {
		return fmt.Errorf("error writing %s: %w", outPath, err)
	}

	if err := out.Close(); err != nil {
		return err
	}
	if err := os.Rename(out.Name(), outPath); err != nil {
		return err
	}

	logger.Infof(ctx, "Wrote %d data records to %s", n, outPath)
	return nil
}
