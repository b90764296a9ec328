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

// Definition describes a unit known to a Registry.
type Definition struct {
	Name     string   // Canonical name (e.g., volt), accepts long prefixes and plurals
	Symbols  []string // Symbols (e.g., V), accept short prefixes
	Aliases  []string // Additional spellings, treated like names
	Quantity Quantity // Value of one unit in SI base units
}

// Prefix is a decimal multiplier that may precede a unit name or symbol.
type Prefix struct {
	Name    string
	Symbols []string
	Factor  float64
}

// SIPrefixes lists the SI decimal prefixes.
var SIPrefixes = []Prefix{
	{Name: "quetta", Symbols: []string{"Q"}, Factor: 1e30},
	{Name: "ronna", Symbols: []string{"R"}, Factor: 1e27},
	{Name: "yotta", Symbols: []string{"Y"}, Factor: 1e24},
	{Name: "zetta", Symbols: []string{"Z"}, Factor: 1e21},
	{Name: "exa", Symbols: []string{"E"}, Factor: 1e18},
	{Name: "peta", Symbols: []string{"P"}, Factor: 1e15},
	{Name: "tera", Symbols: []string{"T"}, Factor: 1e12},
	{Name: "giga", Symbols: []string{"G"}, Factor: 1e9},
	{Name: "mega", Symbols: []string{"M"}, Factor: 1e6},
	{Name: "kilo", Symbols: []string{"k"}, Factor: 1e3},
	{Name: "hecto", Symbols: []string{"h"}, Factor: 1e2},
	{Name: "deca", Symbols: []string{"da"}, Factor: 1e1},
	{Name: "deci", Symbols: []string{"d"}, Factor: 1e-1},
	{Name: "centi", Symbols: []string{"c"}, Factor: 1e-2},
	{Name: "milli", Symbols: []string{"m"}, Factor: 1e-3},
	{Name: "micro", Symbols: []string{"u", "\u00b5", "\u03bc"}, Factor: 1e-6},
	{Name: "nano", Symbols: []string{"n"}, Factor: 1e-9},
	{Name: "pico", Symbols: []string{"p"}, Factor: 1e-12},
	{Name: "femto", Symbols: []string{"f"}, Factor: 1e-15},
	{Name: "atto", Symbols: []string{"a"}, Factor: 1e-18},
	{Name: "zepto", Symbols: []string{"z"}, Factor: 1e-21},
	{Name: "yocto", Symbols: []string{"y"}, Factor: 1e-24},
	{Name: "ronto", Symbols: []string{"r"}, Factor: 1e-27},
	{Name: "quecto", Symbols: []string{"q"}, Factor: 1e-30},
}

// dim builds a quantity from a magnitude and base dimension exponents,
// ordered as length, mass, time, current, temperature, substance, luminosity.
func dim(magnitude float64, exps ...float64) Quantity {
	q := Quantity{Magnitude: magnitude}
	copy(q.Dimension[:], exps)
	return q
}

var (
	meter   = dim(1, 1)
	gram    = dim(1e-3, 0, 1)
	second  = dim(1, 0, 0, 1)
	ampere  = dim(1, 0, 0, 0, 1)
	newton  = dim(1, 1, 1, -2)
	pascal  = newton.Div(meter.Pow(2))
	joule   = newton.Mul(meter)
	watt    = joule.Div(second)
	coulomb = ampere.Mul(second)
	volt    = watt.Div(ampere)
	ohm     = volt.Div(ampere)
)

// DefaultDefinitions returns the units a registry built by New knows.
func DefaultDefinitions() []Definition {
	return []Definition{
		// Base units.
		{Name: "meter", Symbols: []string{"m"}, Aliases: []string{"metre"}, Quantity: meter},
		{Name: "gram", Symbols: []string{"g"}, Aliases: []string{"gramme"}, Quantity: gram},
		{Name: "second", Symbols: []string{"s"}, Aliases: []string{"sec"}, Quantity: second},
		{Name: "ampere", Symbols: []string{"A"}, Aliases: []string{"amp"}, Quantity: ampere},
		{Name: "kelvin", Symbols: []string{"K"}, Quantity: dim(1, 0, 0, 0, 0, 1)},
		{Name: "mole", Symbols: []string{"mol"}, Quantity: dim(1, 0, 0, 0, 0, 0, 1)},
		{Name: "candela", Symbols: []string{"cd"}, Quantity: dim(1, 0, 0, 0, 0, 0, 0, 1)},

		// Time.
		{Name: "minute", Symbols: []string{"min"}, Quantity: second.Mul(dim(60))},
		{Name: "hour", Symbols: []string{"h"}, Aliases: []string{"hr"}, Quantity: second.Mul(dim(3600))},
		{Name: "day", Symbols: []string{"d"}, Quantity: second.Mul(dim(86400))},
		{Name: "week", Quantity: second.Mul(dim(604800))},

		// Derived SI units.
		{Name: "hertz", Symbols: []string{"Hz"}, Quantity: second.Pow(-1)},
		{Name: "newton", Symbols: []string{"N"}, Quantity: newton},
		{Name: "pascal", Symbols: []string{"Pa"}, Quantity: pascal},
		{Name: "joule", Symbols: []string{"J"}, Quantity: joule},
		{Name: "watt", Symbols: []string{"W"}, Quantity: watt},
		{Name: "coulomb", Symbols: []string{"C"}, Quantity: coulomb},
		{Name: "volt", Symbols: []string{"V"}, Quantity: volt},
		{Name: "ohm", Symbols: []string{"\u03a9", "\u2126"}, Quantity: ohm},
		{Name: "siemens", Symbols: []string{"S"}, Aliases: []string{"mho"}, Quantity: ohm.Pow(-1)},
		{Name: "farad", Symbols: []string{"F"}, Quantity: coulomb.Div(volt)},
		{Name: "henry", Symbols: []string{"H"}, Quantity: ohm.Mul(second)},
		{Name: "weber", Symbols: []string{"Wb"}, Quantity: volt.Mul(second)},
		{Name: "tesla", Symbols: []string{"T"}, Quantity: volt.Mul(second).Div(meter.Pow(2))},

		// Volume and pressure, common in physiological recordings.
		{Name: "liter", Symbols: []string{"l", "L"}, Aliases: []string{"litre"}, Quantity: meter.Pow(3).Mul(dim(1e-3))},
		{Name: "bar", Quantity: pascal.Mul(dim(1e5))},
		{Name: "atmosphere", Symbols: []string{"atm"}, Quantity: pascal.Mul(dim(101325))},
		{Name: "millimeter_Hg", Symbols: []string{"mmHg"}, Aliases: []string{"mm_Hg"}, Quantity: pascal.Mul(dim(133.322387415))},
		{Name: "centimeter_H2O", Symbols: []string{"cmH2O"}, Aliases: []string{"cm_H2O"}, Quantity: pascal.Mul(dim(98.0665))},

		// Imperial.
		{Name: "inch", Symbols: []string{"in"}, Quantity: meter.Mul(dim(0.0254))},
		{Name: "foot", Symbols: []string{"ft"}, Aliases: []string{"feet"}, Quantity: meter.Mul(dim(0.3048))},
		{Name: "mile", Symbols: []string{"mi"}, Quantity: meter.Mul(dim(1609.344))},
		{Name: "pound", Symbols: []string{"lb"}, Quantity: gram.Mul(dim(453.59237))},

		// Energy.
		{Name: "calorie", Symbols: []string{"cal"}, Quantity: joule.Mul(dim(4.184))},
		{Name: "electron_volt", Symbols: []string{"eV"}, Quantity: joule.Mul(dim(1.602176634e-19))},

		// Dimensionless.
		{Name: "radian", Symbols: []string{"rad"}, Quantity: dim(1)},
		{Name: "degree", Symbols: []string{"deg"}, Quantity: dim(math.Pi / 180)},
		{Name: "percent", Quantity: dim(1e-2)},
		{Name: "ppm", Quantity: dim(1e-6)},
		{Name: "count", Quantity: dim(1)},
	}
}
