// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

// Package edf reads and writes EDF/EDF+ recordings.
package edf

import (
	"math"
	"slices"
	"time"
)

type Version string

const (
	// Version0 represents the version of the EDF/EDF+ standard.
	Version0 Version = "0"
)

// AnnotationsLabel is the label of an EDF+ annotations signal.
const AnnotationsLabel = "EDF Annotations"

// Header represents the EDF/EDF+ file header.
type Header struct {
	Version            Version       // Version of the EDF/EDF+ standard (usually "0")
	PatientID          string        // Identification of the patient
	RecordingID        string        // Identification of the recording session
	StartTime          time.Time     // Start date of the recording
	HeaderBytes        int           // Number of bytes in the header
	Reserved           string        // "EDF+C" or "EDF+D" for EDF+ files, empty otherwise
	DataRecordDuration time.Duration // Duration of a single data record
	DataRecords        int           // Number of data records, -1 if unknown
	SignalCount        int           // Number of signals in each data record
	Signals            []Signal      // Details of each signal
}

// Clone returns a deep copy of the header.
func (hdr Header) Clone() Header {
	hdr.Signals = slices.Clone(hdr.Signals)
	return hdr
}

// RecordSize returns the size of one data record in bytes.
func (hdr Header) RecordSize() int {
	size := 0
	for _, sig := range hdr.Signals {
		size += sig.SamplesPerRecord * 2
	}
	return size
}

// Signal represents the characteristics of each signal in the EDF/EDF+ file.
type Signal struct {
	Label             string  // Label of the signal (e.g., EEG Fpz-Cz)
	TransducerType    string  // Type of transducer used
	PhysicalDimension string  // Physical dimension (e.g., uV, mV)
	PhysicalMin       float64 // Minimum physical value
	PhysicalMax       float64 // Maximum physical value
	DigitalMin        int     // Minimum digital value
	DigitalMax        int     // Maximum digital value
	Prefiltering      string  // Pre-filtering information
	SamplesPerRecord  int     // Number of samples in each data record for this signal
	Reserved          string  // Reserved for future use
}

// IsAnnotations reports whether the signal carries EDF+ annotations rather
// than samples.
func (s Signal) IsAnnotations() bool {
	return s.Label == AnnotationsLabel
}

// ToPhysical converts a digital sample to its physical value.
func (s Signal) ToPhysical(digital int16) float64 {
	if s.DigitalMax == s.DigitalMin {
		return 0 // Avoid division by zero
	}
	return s.PhysicalMin + (float64(digital)-float64(s.DigitalMin))*(s.PhysicalMax-s.PhysicalMin)/float64(s.DigitalMax-s.DigitalMin)
}

// ToDigital converts a physical value to the nearest digital sample, clamped
// to the digital range.
func (s Signal) ToDigital(physical float64) int16 {
	if s.PhysicalMax == s.PhysicalMin {
		return 0 // Avoid division by zero
	}
	digital := (physical-s.PhysicalMin)*float64(s.DigitalMax-s.DigitalMin)/(s.PhysicalMax-s.PhysicalMin) + float64(s.DigitalMin)
	lo, hi := float64(min(s.DigitalMin, s.DigitalMax)), float64(max(s.DigitalMin, s.DigitalMax))
	return int16(max(lo, min(hi, math.Round(digital))))
}
