// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package app_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenPSG/cardio/edf"
	"github.com/OpenPSG/cardio/internal/app"
	"github.com/OpenPSG/cardio/labels"
	"github.com/OpenPSG/cardio/units"
)

// writeTestRecording writes a two record recording with an EEG channel in
// uV and an ECG channel in mV, each holding a ramp of digital values.
func writeTestRecording(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "in.edf")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	hdr := edf.Header{
		Version:            edf.Version0,
		PatientID:          "Patient X",
		RecordingID:        "Recording 1",
		StartTime:          time.Date(2024, 3, 14, 22, 30, 5, 0, time.UTC),
		DataRecordDuration: time.Second,
		Signals: []edf.Signal{
			{Label: "EEG Fpz-Cz", PhysicalDimension: "uV", PhysicalMin: -500, PhysicalMax: 500, DigitalMin: -2048, DigitalMax: 2047, SamplesPerRecord: 256},
			{Label: "ECG II", PhysicalDimension: "mV", PhysicalMin: -5, PhysicalMax: 5, DigitalMin: -32768, DigitalMax: 32767, SamplesPerRecord: 128},
		},
	}

	ew, err := edf.Create(f, hdr)
	require.NoError(t, err)

	for range 2 {
		eeg := make([]float64, 256)
		for i := range eeg {
			eeg[i] = float64(i) - 128
		}
		ecg := make([]float64, 128)
		for i := range ecg {
			ecg[i] = float64(i)/32 - 2
		}
		require.NoError(t, ew.WriteRecord([][]float64{eeg, ecg}))
	}
	require.NoError(t, ew.Close())

	return path
}

func TestFactor(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	require.NoError(t, app.Factor(context.Background(), &out, units.Default(), "mV", "uV"))
	assert.Equal(t, "1000\n", out.String())

	err := app.Factor(context.Background(), &out, units.Default(), "mV", "s")
	assert.ErrorIs(t, err, units.ErrInvalidConversion)
}

func TestInfo(t *testing.T) {
	t.Parallel()

	path := writeTestRecording(t)

	var out bytes.Buffer
	require.NoError(t, app.Info(context.Background(), &out, path))

	report := out.String()
	assert.Contains(t, report, "Patient X")
	assert.Contains(t, report, "2024-03-14 22:30:05")
	assert.Contains(t, report, "Duration:     2s")
	assert.Contains(t, report, "768 B")
	assert.Contains(t, report, "-500 .. 500")
	assert.Contains(t, report, "256 Hz")
	assert.Contains(t, report, "128 Hz")

	assert.Error(t, app.Info(context.Background(), &out, filepath.Join(t.TempDir(), "missing.edf")))
}

func TestRescale(t *testing.T) {
	t.Parallel()

	in := writeTestRecording(t)
	out := filepath.Join(t.TempDir(), "out.edf")

	targets := map[string]string{"ECG II": "uV"}
	require.NoError(t, app.Rescale(context.Background(), units.Default(), in, out, func(label string) string {
		return targets[label]
	}))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()

	er, err := edf.Open(f)
	require.NoError(t, err)

	hdr := er.Header()
	assert.Equal(t, 2, hdr.DataRecords)
	assert.Equal(t, "uV", hdr.Signals[0].PhysicalDimension)
	assert.InDelta(t, -500, hdr.Signals[0].PhysicalMin, 1e-9)
	assert.Equal(t, "uV", hdr.Signals[1].PhysicalDimension)
	assert.InDelta(t, 5000, hdr.Signals[1].PhysicalMax, 1e-9)

	sr, err := er.Signal(1)
	require.NoError(t, err)

	samples := make([]float64, 128)
	_, err = sr.Read(samples)
	require.NoError(t, err)
	for i, v := range samples {
		require.InDelta(t, (float64(i)/32-2)*1000, v, 1)
	}
}

func TestRescaleIncompatibleUnits(t *testing.T) {
	t.Parallel()

	in := writeTestRecording(t)
	out := filepath.Join(t.TempDir(), "out.edf")

	err := app.Rescale(context.Background(), units.Default(), in, out, func(string) string { return "Hz" })
	assert.ErrorIs(t, err, units.ErrInvalidConversion)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRescaleCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := writeTestRecording(t)
	out := filepath.Join(t.TempDir(), "out.edf")

	err := app.Rescale(ctx, units.Default(), in, out, func(string) string { return "" })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDump(t *testing.T) {
	t.Parallel()

	path := writeTestRecording(t)

	var out bytes.Buffer
	require.NoError(t, app.Dump(context.Background(), &out, units.Default(), path, 0, "mV", 3))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "# EEG Fpz-Cz [mV]", lines[0])

	out.Reset()
	require.NoError(t, app.Dump(context.Background(), &out, units.Default(), path, 1, "", 0))
	assert.Len(t, strings.Split(strings.TrimSpace(out.String()), "\n"), 1+2*128)

	err := app.Dump(context.Background(), &out, units.Default(), path, 5, "", 0)
	assert.Error(t, err)
}

func TestBinarizeAndDecode(t *testing.T) {
	t.Parallel()

	classes := filepath.Join(t.TempDir(), "classes.yaml")

	var out bytes.Buffer
	require.NoError(t, app.Binarize(context.Background(), &out, []string{"N", "A", "N"}, "", classes))
	assert.True(t, strings.HasPrefix(out.String(), "classes: A N\n"))

	b, err := app.LoadClasses(classes)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "N"}, b.Classes())

	out.Reset()
	require.NoError(t, app.Decode(context.Background(), &out, classes, []string{"0.9,0.1", "0.2, 0.8"}, labels.DefaultThreshold))
	assert.Equal(t, "A\nN\n", out.String())

	out.Reset()
	err = app.Binarize(context.Background(), &out, []string{"V"}, classes, "")
	assert.ErrorIs(t, err, labels.ErrUnknownLabel)

	err = app.Decode(context.Background(), &out, classes, []string{"0.9,0.1", "0.5"}, labels.DefaultThreshold)
	assert.ErrorContains(t, err, "row 1 has 1 scores, expected 2")

	err = app.Decode(context.Background(), &out, classes, []string{"0.9,0.1,0"}, labels.DefaultThreshold)
	assert.ErrorIs(t, err, labels.ErrShapeMismatch)
}

func TestRescaleRejectsUnrepresentableHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		units  string
		errMsg string
	}{
		{name: "physical range overflows", units: "pV", errMsg: `physical minimum of signal 0 "-500000000"`},
		{name: "units name overflows", units: "millivolt", errMsg: `physical dimension of signal 0 "millivolt"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			in := writeTestRecording(t)
			dir := t.TempDir()
			out := filepath.Join(dir, "out.edf")

			err := app.Rescale(context.Background(), units.Default(), in, out, func(string) string { return tt.units })
			assert.ErrorContains(t, err, tt.errMsg)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, entries, "no partial output is left behind")
		})
	}
}

func TestRescaleInPlace(t *testing.T) {
	t.Parallel()

	path := writeTestRecording(t)

	require.NoError(t, app.Rescale(context.Background(), units.Default(), path, path, func(label string) string {
		if label == "ECG II" {
			return "uV"
		}
		return ""
	}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	er, err := edf.Open(f)
	require.NoError(t, err)
	assert.Equal(t, 2, er.Header().DataRecords)
	assert.Equal(t, "uV", er.Header().Signals[1].PhysicalDimension)

	sr, err := er.Signal(1)
	require.NoError(t, err)

	samples := make([]float64, 4)
	_, err = sr.Read(samples)
	require.NoError(t, err)
	assert.InDelta(t, -2000, samples[0], 1)
}
