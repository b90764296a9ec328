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
	"errors"
	"fmt"
)

// ErrInvalidConversion is matched by every error returned from ConversionFactor.
var ErrInvalidConversion = errors.New("invalid units conversion")

// categorized is implemented by the registry's typed errors.
type categorized interface {
	Category() string
}

// ConversionError wraps any failure to compute a conversion factor. Its
// message embeds the category and text of the underlying failure.
type ConversionError struct {
	OldUnits string
	NewUnits string
	Err      error
}

func (e *ConversionError) Error() string {
	return Category(e.Err) + ": " + e.Err.Error()
}

func (e *ConversionError) Unwrap() error { return e.Err }

func (e *ConversionError) Is(target error) bool { return target == ErrInvalidConversion }

// Category returns the category name of err: the registry's own error kinds
// report their type name, anything else its dynamic Go type.
func Category(err error) string {
	var c categorized
	if errors.As(err, &c) {
		return c.Category()
	}
	return fmt.Sprintf("%T", err)
}

// UndefinedUnitError reports a name the registry does not know.
type UndefinedUnitError struct {
	Name string
}

func (e *UndefinedUnitError) Error() string {
	return fmt.Sprintf("'%s' is not defined in the unit registry", e.Name)
}

func (e *UndefinedUnitError) Category() string { return "UndefinedUnitError" }

// DimensionalityError reports a conversion between incompatible dimensions.
type DimensionalityError struct {
	From, To       string
	FromDim, ToDim Dimension
}

func (e *DimensionalityError) Error() string {
	return fmt.Sprintf("cannot convert from '%s' (%s) to '%s' (%s)", e.From, e.FromDim, e.To, e.ToDim)
}

func (e *DimensionalityError) Category() string { return "DimensionalityError" }

// SyntaxError reports a malformed unit expression.
type SyntaxError struct {
	Expr string
	Pos  int // Byte offset of the offending token
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at position %d in %q", e.Msg, e.Pos, e.Expr)
}

func (e *SyntaxError) Category() string { return "SyntaxError" }

// ScalingFactorError reports a numeric factor in an expression that must name
// units only.
type ScalingFactorError struct {
	Expr  string
	Scale float64
}

func (e *ScalingFactorError) Error() string {
	return fmt.Sprintf("unit expression %q cannot have a scaling factor (%g)", e.Expr, e.Scale)
}

func (e *ScalingFactorError) Category() string { return "ScalingFactorError" }

// DefinitionError reports a unit definition the registry refused.
type DefinitionError struct {
	Name   string
	Reason string
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("cannot define '%s': %s", e.Name, e.Reason)
}

func (e *DefinitionError) Category() string { return "DefinitionError" }
