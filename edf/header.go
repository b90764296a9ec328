// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package edf

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	fixedHeaderBytes  = 256
	signalHeaderBytes = 256

	// As recommended by the EDF standard.
	maxRecordBytes = 61440

	dateLayout = "02.01.06"
	timeLayout = "15.04.05"
)

// signalField is one column of the per-signal header. Each column is stored
// for every signal before the next column starts.
type signalField struct {
	name   string
	width  int
	exact  bool // numbers and units, which must not be truncated
	format func(s *Signal) string
	parse  func(s *Signal, v string) error
}

var signalFields = []signalField{
	{
		name:   "label",
		width:  16,
		format: func(s *Signal) string { return s.Label },
		parse:  func(s *Signal, v string) error { s.Label = v; return nil },
	},
	{
		name:   "transducer type",
		width:  80,
		format: func(s *Signal) string { return s.TransducerType },
		parse:  func(s *Signal, v string) error { s.TransducerType = v; return nil },
	},
	{
		name:   "physical dimension",
		width:  8,
		exact:  true,
		format: func(s *Signal) string { return s.PhysicalDimension },
		parse:  func(s *Signal, v string) error { s.PhysicalDimension = v; return nil },
	},
	{
		name:   "physical minimum",
		width:  8,
		exact:  true,
		format: func(s *Signal) string { return formatPhysicalValue(s.PhysicalMin) },
		parse:  func(s *Signal, v string) (err error) { s.PhysicalMin, err = strconv.ParseFloat(v, 64); return },
	},
	{
		name:   "physical maximum",
		width:  8,
		exact:  true,
		format: func(s *Signal) string { return formatPhysicalValue(s.PhysicalMax) },
		parse:  func(s *Signal, v string) (err error) { s.PhysicalMax, err = strconv.ParseFloat(v, 64); return },
	},
	{
		name:   "digital minimum",
		width:  8,
		exact:  true,
		format: func(s *Signal) string { return strconv.Itoa(s.DigitalMin) },
		parse:  func(s *Signal, v string) (err error) { s.DigitalMin, err = strconv.Atoi(v); return },
	},
	{
		name:   "digital maximum",
		width:  8,
		exact:  true,
		format: func(s *Signal) string { return strconv.Itoa(s.DigitalMax) },
		parse:  func(s *Signal, v string) (err error) { s.DigitalMax, err = strconv.Atoi(v); return },
	},
	{
		name:   "prefiltering",
		width:  80,
		format: func(s *Signal) string { return s.Prefiltering },
		parse:  func(s *Signal, v string) error { s.Prefiltering = v; return nil },
	},
	{
		name:   "samples per record",
		width:  8,
		exact:  true,
		format: func(s *Signal) string { return strconv.Itoa(s.SamplesPerRecord) },
		parse:  func(s *Signal, v string) (err error) { s.SamplesPerRecord, err = strconv.Atoi(v); return },
	},
	{
		name:   "reserved",
		width:  32,
		format: func(s *Signal) string { return s.Reserved },
		parse:  func(s *Signal, v string) error { s.Reserved = v; return nil },
	},
}

// field returns the trimmed contents of b[off:off+width].
func field(b []byte, off, width int) string {
	return strings.TrimSpace(string(b[off : off+width]))
}

// decodeHeader parses the fixed 256 byte part of the header.
func decodeHeader(b []byte) (*Header, error) {
	hdr := &Header{
		Version:     Version(field(b, 0, 8)),
		PatientID:   field(b, 8, 80),
		RecordingID: field(b, 88, 80),
		Reserved:    field(b, 192, 44),
	}

	startDate, err := time.Parse(dateLayout, field(b, 168, 8))
	if err != nil {
		return nil, fmt.Errorf("error parsing start date: %w", err)
	}
	startTime, err := time.Parse(timeLayout, field(b, 176, 8))
	if err != nil {
		return nil, fmt.Errorf("error parsing start time: %w", err)
	}
	hdr.StartTime = time.Date(startDate.Year(), startDate.Month(), startDate.Day(),
		startTime.Hour(), startTime.Minute(), startTime.Second(), 0, time.UTC)

	if hdr.HeaderBytes, err = strconv.Atoi(field(b, 184, 8)); err != nil {
		return nil, fmt.Errorf("error parsing header bytes: %w", err)
	}

	if hdr.DataRecords, err = strconv.Atoi(field(b, 236, 8)); err != nil {
		return nil, fmt.Errorf("error parsing number of data records: %w", err)
	}

	seconds, err := strconv.ParseFloat(field(b, 244, 8), 64)
	if err != nil {
		return nil, fmt.Errorf("error parsing data record duration: %w", err)
	}
	hdr.DataRecordDuration = time.Duration(math.Round(seconds * float64(time.Second)))

	if hdr.SignalCount, err = strconv.Atoi(field(b, 252, 4)); err != nil {
		return nil, fmt.Errorf("error parsing signal count: %w", err)
	}
	if hdr.SignalCount < 0 {
		return nil, fmt.Errorf("invalid signal count: %d", hdr.SignalCount)
	}

	return hdr, nil
}

// decodeSignals parses the per-signal part of the header.
func decodeSignals(b []byte, count int) ([]Signal, error) {
	signals := make([]Signal, count)

	off := 0
	for _, f := range signalFields {
		for i := range signals {
			if err := f.parse(&signals[i], field(b, off, f.width)); err != nil {
				return nil, fmt.Errorf("error parsing %s of signal %d: %w", f.name, i, err)
			}
			off += f.width
		}
	}

	return signals, nil
}

// encodeHeader renders the complete header, fixed part and signals. Free
// text fields longer than their width are truncated; numeric fields and
// physical dimensions that do not fit are an error.
func encodeHeader(hdr *Header) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(fixedHeaderBytes + len(hdr.Signals)*signalHeaderBytes)

	put := func(width int, v string) {
		if len(v) > width {
			v = v[:width]
		}
		buf.WriteString(v)
		buf.WriteString(strings.Repeat(" ", width-len(v)))
	}

	putExact := func(name string, width int, v string) error {
		if len(v) > width {
			return fmt.Errorf("%s %q does not fit in %d characters", name, v, width)
		}
		put(width, v)
		return nil
	}

	put(8, string(hdr.Version))
	put(80, hdr.PatientID)
	put(80, hdr.RecordingID)
	put(8, hdr.StartTime.Format(dateLayout))
	put(8, hdr.StartTime.Format(timeLayout))

	if err := putExact("header bytes", 8, strconv.Itoa(hdr.HeaderBytes)); err != nil {
		return nil, err
	}
	put(44, hdr.Reserved)
	if err := putExact("number of data records", 8, strconv.Itoa(hdr.DataRecords)); err != nil {
		return nil, err
	}
	if err := putExact("data record duration", 8, formatDuration(hdr.DataRecordDuration)); err != nil {
		return nil, err
	}
	if err := putExact("signal count", 4, strconv.Itoa(hdr.SignalCount)); err != nil {
		return nil, err
	}

	for _, f := range signalFields {
		for i := range hdr.Signals {
			v := f.format(&hdr.Signals[i])
			if !f.exact {
				put(f.width, v)
				continue
			}
			if err := putExact(fmt.Sprintf("%s of signal %d", f.name, i), f.width, v); err != nil {
				return nil, err
			}
		}
	}

	return buf.Bytes(), nil
}

// formatDuration renders a record duration in seconds, as precisely as eight
// characters allow.
func formatDuration(d time.Duration) string {
	return formatPhysicalValue(d.Seconds())
}

// formatPhysicalValue renders v with the most decimals that fit in eight
// characters.
func formatPhysicalValue(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	for prec := 7; len(s) > 8 && prec >= 0; prec-- {
		s = strconv.FormatFloat(v, 'f', prec, 64)
		if strings.Contains(s, ".") {
			s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
		}
	}
	return s
}
