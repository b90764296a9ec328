// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package edf

import "fmt"

// Converter computes the multiplicative factor between two unit notations.
// *units.Registry implements it.
type Converter interface {
	ConversionFactor(oldUnits, newUnits string) (float64, error)
}

// ConvertUnits returns a copy of the signal with its physical range expressed
// in newUnits. The digital calibration is unchanged, so samples stored for
// the original signal decode to the converted values.
func (s Signal) ConvertUnits(conv Converter, newUnits string) (Signal, error) {
	if s.PhysicalDimension == newUnits {
		return s, nil
	}
	if s.IsAnnotations() {
		return Signal{}, fmt.Errorf("signal %q carries annotations, not samples", s.Label)
	}

	factor, err := conv.ConversionFactor(s.PhysicalDimension, newUnits)
	if err != nil {
		return Signal{}, fmt.Errorf("error converting signal %q to %s: %w", s.Label, newUnits, err)
	}

	s.PhysicalDimension = newUnits
	s.PhysicalMin *= factor
	s.PhysicalMax *= factor
	return s, nil
}

// ConvertUnits returns a copy of the header with every signal that target
// maps to a non-empty unit notation converted to it. Annotation signals are
// left untouched.
func (hdr Header) ConvertUnits(conv Converter, target func(Signal) string) (Header, error) {
	out := hdr.Clone()
	for i, sig := range out.Signals {
		units := target(sig)
		if units == "" || sig.IsAnnotations() {
			continue
		}

		converted, err := sig.ConvertUnits(conv, units)
		if err != nil {
			return Header{}, err
		}
		out.Signals[i] = converted
	}
	return out, nil
}
