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
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/OpenPSG/cardio/edf"
)

const dumpChunkSize = 1024

// Dump prints up to count samples (all of them if count <= 0) of one signal,
// one per line, converted to toUnits unless it is empty.
func Dump(ctx context.Context, w io.Writer, conv edf.Converter, path string, signal int, toUnits string, count int) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	er, err := edf.Open(f)
	if err != nil {
		return fmt.Errorf("error reading %s: %w", path, err)
	}

	var sr *edf.SignalReader
	if toUnits == "" {
		sr, err = er.Signal(signal)
	} else {
		sr, err = er.SignalIn(signal, conv, toUnits)
	}
	if err != nil {
		return err
	}

	info := sr.Info()
	if info.IsAnnotations() {
		return fmt.Errorf("signal %d carries annotations, not samples", signal)
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %s [%s]\n", info.Label, info.PhysicalDimension)

	samples := make([]float64, dumpChunkSize)
	written := 0
	for count <= 0 || written < count {
		if err := ctx.Err(); err != nil {
			return err
		}

		want := len(samples)
		if count > 0 {
			want = min(want, count-written)
		}

		n, err := sr.Read(samples[:want])
		for _, v := range samples[:n] {
			bw.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
			bw.WriteByte('\n')
		}
		written += n

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
	}

	return bw.Flush()
}
