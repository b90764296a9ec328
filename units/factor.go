// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package units

import "math"

// ConversionFactor returns a multiplicative factor to convert a measured
// quantity from oldUnits to newUnits, using the default registry.
func ConversionFactor(oldUnits, newUnits string) (float64, error) {
	return Default().ConversionFactor(oldUnits, newUnits)
}

// ConversionFactor returns f such that a value measured in oldUnits,
// multiplied by f, gives the same quantity measured in newUnits: "meter" to
// "kilometer" is 0.001. oldUnits may carry a numeric scale ("10 mV"),
// newUnits may not.
//
// Every error returned matches ErrInvalidConversion.
func (r *Registry) ConversionFactor(oldUnits, newUnits string) (float64, error) {
	factor, err := r.conversionFactor(oldUnits, newUnits)
	if err != nil {
		return 0, &ConversionError{OldUnits: oldUnits, NewUnits: newUnits, Err: err}
	}
	return factor, nil
}

func (r *Registry) conversionFactor(oldUnits, newUnits string) (float64, error) {
	from, err := r.ParseExpression(oldUnits)
	if err != nil {
		return 0, err
	}
	to, err := r.ParseUnits(newUnits)
	if err != nil {
		return 0, err
	}

	if from.Dimension != to.Dimension {
		return 0, &DimensionalityError{
			From:    oldUnits,
			To:      newUnits,
			FromDim: from.Dimension,
			ToDim:   to.Dimension,
		}
	}

	factor := from.Magnitude / to.Magnitude
	if math.IsInf(factor, 0) || math.IsNaN(factor) {
		return 0, &SyntaxError{Expr: oldUnits, Msg: "expression does not evaluate to a finite quantity"}
	}
	return factor, nil
}

// Convert expresses value, measured in oldUnits, in newUnits.
func (r *Registry) Convert(value float64, oldUnits, newUnits string) (float64, error) {
	factor, err := r.ConversionFactor(oldUnits, newUnits)
	if err != nil {
		return 0, err
	}
	return value * factor, nil
}
