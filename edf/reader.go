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

// Reader reads EDF/EDF+ files.
type Reader struct {
	r   io.ReadSeeker
	hdr *Header
}

// Open opens an EDF/EDF+ file for reading.
func Open(r io.ReadSeeker) (*Reader, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("error seeking to header: %w", err)
	}

	b := make([]byte, fixedHeaderBytes)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, fmt.Errorf("error reading header: %w", err)
	}

	hdr, err := decodeHeader(b)
	if err != nil {
		return nil, err
	}

	b = make([]byte, hdr.SignalCount*signalHeaderBytes)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, fmt.Errorf("error reading signal headers: %w", err)
	}

	if hdr.Signals, err = decodeSignals(b, hdr.SignalCount); err != nil {
		return nil, err
	}

	return &Reader{
		r:   r,
		hdr: hdr,
	}, nil
}

// Header returns a copy of the file header.
func (er *Reader) Header() Header {
	return er.hdr.Clone()
}

// ReadRecord reads the raw bytes of data record n into buf, which must be
// Header().RecordSize() bytes long.
func (er *Reader) ReadRecord(n int, buf []byte) error {
	if n < 0 || (er.hdr.DataRecords >= 0 && n >= er.hdr.DataRecords) {
		return io.EOF
	}

	recordSize := er.hdr.RecordSize()
	if len(buf) != recordSize {
		return fmt.Errorf("record buffer is %d bytes, expected %d", len(buf), recordSize)
	}

	if _, err := er.r.Seek(int64(er.hdr.HeaderBytes)+int64(n)*int64(recordSize), io.SeekStart); err != nil {
		return fmt.Errorf("error seeking to record %d: %w", n, err)
	}

	if _, err := io.ReadFull(er.r, buf); err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return io.EOF
		}
		return fmt.Errorf("error reading record %d: %w", n, err)
	}

	return nil
}

// SignalReader reads continuous signal data from an EDF/EDF+ file.
type SignalReader struct {
	r             io.ReadSeeker
	signal        Signal // Calibration used to decode samples
	headerBytes   int    // Offset of the first data record
	dataRecords   int    // Number of data records, -1 if unknown
	recordSize    int    // Total size of one data record
	signalOffset  int    // Byte offset of the signal in a record
	currentRecord int    // Current record being processed
	currentSample int    // Current sample in the record
	buf           []byte
}

// Signal creates a new SignalReader for a specified signal index.
func (er *Reader) Signal(signalIndex int) (*SignalReader, error) {
	if signalIndex < 0 || signalIndex >= len(er.hdr.Signals) {
		return nil, fmt.Errorf("signal index out of range")
	}

	signalOffset := 0
	for _, sig := range er.hdr.Signals[:signalIndex] {
		signalOffset += sig.SamplesPerRecord * 2
	}

	signal := er.hdr.Signals[signalIndex]
	return &SignalReader{
		r:            er.r,
		signal:       signal,
		headerBytes:  er.hdr.HeaderBytes,
		dataRecords:  er.hdr.DataRecords,
		recordSize:   er.hdr.RecordSize(),
		signalOffset: signalOffset,
		buf:          make([]byte, signal.SamplesPerRecord*2),
	}, nil
}

// SignalIn creates a SignalReader whose samples are expressed in the given
// units rather than the signal's own physical dimension.
func (er *Reader) SignalIn(signalIndex int, conv Converter, units string) (*SignalReader, error) {
	sr, err := er.Signal(signalIndex)
	if err != nil {
		return nil, err
	}

	if sr.signal, err = sr.signal.ConvertUnits(conv, units); err != nil {
		return nil, err
	}

	return sr, nil
}

// Info returns the signal description, in the units the reader decodes to.
func (sr *SignalReader) Info() Signal {
	return sr.signal
}

// Read fills the provided float64 slice with the physical values from the signal.
func (sr *SignalReader) Read(data []float64) (int, error) {
	samplesPerRecord := sr.signal.SamplesPerRecord
	if samplesPerRecord <= 0 {
		return 0, io.EOF // The signal stores no samples.
	}

	n := 0
	for n < len(data) {
		if sr.dataRecords >= 0 && sr.currentRecord >= sr.dataRecords {
			return n, io.EOF // End of data records
		}

		// Read as much of the current record as fits into data.
		count := min(samplesPerRecord-sr.currentSample, len(data)-n)
		pos := int64(sr.headerBytes) + int64(sr.currentRecord)*int64(sr.recordSize) + int64(sr.signalOffset) + int64(sr.currentSample*2)
		if _, err := sr.r.Seek(pos, io.SeekStart); err != nil {
			return n, fmt.Errorf("error seeking to position: %w", err)
		}

		chunk := sr.buf[:count*2]
		if _, err := io.ReadFull(sr.r, chunk); err != nil {
			if sr.dataRecords < 0 && err == io.EOF {
				return n, io.EOF
			}
			return n, fmt.Errorf("error reading sample data: %w", err)
		}

		for i := range count {
			data[n+i] = sr.signal.ToPhysical(int16(binary.LittleEndian.Uint16(chunk[i*2:])))
		}
		n += count

		// Move to the next sample
		sr.currentSample += count
		if sr.currentSample >= samplesPerRecord {
			sr.currentSample = 0
			sr.currentRecord++
		}
	}

	return n, nil
}
