// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package units

import (
	"math"
	"strconv"
	"strings"
)

// BaseDimension indexes one of the SI base dimensions.
type BaseDimension int

const (
	Length BaseDimension = iota
	Mass
	Time
	Current
	Temperature
	Substance
	Luminosity

	numBaseDimensions
)

var baseDimensionNames = [numBaseDimensions]string{
	"[length]",
	"[mass]",
	"[time]",
	"[current]",
	"[temperature]",
	"[substance]",
	"[luminosity]",
}

// Dimension is the exponent of each SI base dimension. The zero value is
// dimensionless.
type Dimension [numBaseDimensions]float64

// Dim returns the dimension with a single base dimension raised to the
// first power.
func Dim(base BaseDimension) Dimension {
	var d Dimension
	d[base] = 1
	return d
}

// Mul returns the dimension of a product.
func (d Dimension) Mul(o Dimension) Dimension {
	for i := range d {
		d[i] += o[i]
	}
	return d
}

// Div returns the dimension of a quotient.
func (d Dimension) Div(o Dimension) Dimension {
	for i := range d {
		d[i] -= o[i]
	}
	return d
}

// Pow returns the dimension raised to exp.
func (d Dimension) Pow(exp float64) Dimension {
	for i := range d {
		d[i] *= exp
	}
	return d
}

// IsDimensionless reports whether every exponent is zero.
func (d Dimension) IsDimensionless() bool {
	return d == Dimension{}
}

// String formats the dimension as e.g. "[length] / [time] ** 2".
func (d Dimension) String() string {
	var num, den []string
	for i, exp := range d {
		switch {
		case exp > 0:
			num = append(num, formatPower(baseDimensionNames[i], exp))
		case exp < 0:
			den = append(den, formatPower(baseDimensionNames[i], -exp))
		}
	}

	if len(num) == 0 && len(den) == 0 {
		return "dimensionless"
	}

	s := strings.Join(num, " * ")
	if len(num) == 0 {
		s = "1"
	}
	if len(den) > 0 {
		s += " / " + strings.Join(den, " / ")
	}
	return s
}

func formatPower(name string, exp float64) string {
	if exp == 1 {
		return name
	}
	if exp == math.Trunc(exp) {
		return name + " ** " + strconv.Itoa(int(exp))
	}
	return name + " ** " + strconv.FormatFloat(exp, 'g', -1, 64)
}

// Quantity is a magnitude expressed in SI base units.
type Quantity struct {
	Magnitude float64
	Dimension Dimension
}

// Mul returns the product of two quantities.
func (q Quantity) Mul(o Quantity) Quantity {
	return Quantity{Magnitude: q.Magnitude * o.Magnitude, Dimension: q.Dimension.Mul(o.Dimension)}
}

// Div returns the quotient of two quantities.
func (q Quantity) Div(o Quantity) Quantity {
	return Quantity{Magnitude: q.Magnitude / o.Magnitude, Dimension: q.Dimension.Div(o.Dimension)}
}

// Pow returns the quantity raised to exp.
func (q Quantity) Pow(exp float64) Quantity {
	return Quantity{Magnitude: math.Pow(q.Magnitude, exp), Dimension: q.Dimension.Pow(exp)}
}
