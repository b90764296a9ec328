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
	"encoding/binary"
	"fmt"
	"io"
)

// Writer writes EDF files.
type Writer struct {
	w           io.WriteSeeker
	hdr         *Header
	recordSize  int
	dataRecords int // Number of data records written so far.
	buf         []byte
}

// Create creates a new EDF writer that writes to the given writer.
func Create(w io.WriteSeeker, hdr Header) (*Writer, error) {
	hdr = hdr.Clone()
	hdr.DataRecords = -1 // Unknown number of data records (at this time).
	hdr.SignalCount = len(hdr.Signals)
	hdr.HeaderBytes = fixedHeaderBytes + hdr.SignalCount*signalHeaderBytes

	recordSize := hdr.RecordSize()
	if recordSize > maxRecordBytes {
		return nil, fmt.Errorf("data record too large: %d bytes, max is %d bytes", recordSize, maxRecordBytes)
	}

	ew := &Writer{w: w, hdr: &hdr, recordSize: recordSize, buf: make([]byte, recordSize)}

	// Write the initial header
	if err := ew.writeHeader(); err != nil {
		return nil, fmt.Errorf("error writing header: %w", err)
	}

	return ew, nil
}

// Close finalizes the EDF file by updating the header with the total number of data records.
func (ew *Writer) Close() error {
	// Finalize the header with the actual number of data records
	ew.hdr.DataRecords = ew.dataRecords
	if err := ew.writeHeader(); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}

	return nil
}

// WriteRecord writes a single data record of physical values to the EDF file.
func (ew *Writer) WriteRecord(signals [][]float64) error {
	if len(signals) != ew.hdr.SignalCount {
		return fmt.Errorf("expected %d signals, got %d", ew.hdr.SignalCount, len(signals))
	}

	off := 0
	for i, signal := range ew.hdr.Signals {
		if len(signals[i]) != signal.SamplesPerRecord {
			return fmt.Errorf("signal %d: expected %d samples, got %d", i, signal.SamplesPerRecord, len(signals[i]))
		}
		for _, sample := range signals[i] {
			binary.LittleEndian.PutUint16(ew.buf[off:], uint16(signal.ToDigital(sample)))
			off += 2
		}
	}

	return ew.WriteRawRecord(ew.buf)
}

// WriteRawRecord writes a data record of already encoded little endian
// samples, as returned by Reader.ReadRecord.
func (ew *Writer) WriteRawRecord(record []byte) error {
	if len(record) != ew.recordSize {
		return fmt.Errorf("record is %d bytes, expected %d", len(record), ew.recordSize)
	}

	if _, err := ew.w.Seek(int64(ew.hdr.HeaderBytes)+int64(ew.dataRecords)*int64(ew.recordSize), io.SeekStart); err != nil {
		return err
	}

	if _, err := ew.w.Write(record); err != nil {
		return err
	}

	ew.dataRecords++
	return nil
}

// writeHeader writes the EDF header at the start of the file.
func (ew *Writer) writeHeader() error {
	b, err := encodeHeader(ew.hdr)
	if err != nil {
		return err
	}

	// Rewind to the beginning of the file.
	if _, err := ew.w.Seek(0, io.SeekStart); err != nil {
		return err
	}

	_, err = ew.w.Write(b)
	return err
}
