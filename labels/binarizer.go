// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

// Package labels encodes categorical class labels as one-hot matrices.
package labels

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"
)

// DefaultThreshold separates negative from positive entries in InverseTransform.
const DefaultThreshold = (negLabel + posLabel) / 2

var (
	// ErrNotFitted is returned when transforming with a binarizer that has not been fit.
	ErrNotFitted = errors.New("binarizer is not fitted")
	// ErrNoSamples is returned when fitting on no labels.
	ErrNoSamples = errors.New("no labels to fit")
	// ErrUnknownLabel is returned for a label outside the fitted classes.
	ErrUnknownLabel = errors.New("unknown label")
	// ErrShapeMismatch is returned for a matrix whose width is not the number of classes.
	ErrShapeMismatch = errors.New("shape mismatch")
)

// Binarizer encodes labels using a one-hot scheme. Unlike the classic label
// binarizer, each label is encoded using n_classes columns even for one and
// two classes.
type Binarizer[T cmp.Ordered] struct {
	base oneHot[T]
}

// NewBinarizer returns an unfitted binarizer.
func NewBinarizer[T cmp.Ordered]() *Binarizer[T] {
	return &Binarizer[T]{}
}

// Fit learns the sorted set of distinct labels.
func (b *Binarizer[T]) Fit(y []T) error {
	if len(y) == 0 {
		return ErrNoSamples
	}
	classes := slices.Clone(y)
	slices.Sort(classes)
	b.base.classes = slices.Compact(classes)
	return nil
}

// FitTransform fits the binarizer on y and transforms it.
func (b *Binarizer[T]) FitTransform(y []T) (*mat.Dense, error) {
	if err := b.Fit(y); err != nil {
		return nil, err
	}
	return b.Transform(y)
}

// IsFitted reports whether Fit has been called.
func (b *Binarizer[T]) IsFitted() bool {
	return len(b.base.classes) > 0
}

// Classes returns a copy of the fitted classes in ascending order.
func (b *Binarizer[T]) Classes() []T {
	return slices.Clone(b.base.classes)
}

// NumClasses returns the number of fitted classes.
func (b *Binarizer[T]) NumClasses() int {
	return len(b.base.classes)
}

// Transform one-hot encodes y into a matrix of shape [len(y), n_classes].
func (b *Binarizer[T]) Transform(y []T) (*mat.Dense, error) {
	if !b.IsFitted() {
		return nil, ErrNotFitted
	}

	Y, err := b.base.transform(y)
	if err != nil {
		return nil, err
	}
	if Y.IsEmpty() {
		return Y, nil
	}

	rows, _ := Y.Dims()
	switch b.NumClasses() {
	case 1:
		Y.Apply(func(_, _ int, v float64) float64 { return 1 - v }, Y)
	case 2:
		out := mat.NewDense(rows, 2, nil)
		for i := range rows {
			v := Y.At(i, 0)
			out.Set(i, 0, 1-v)
			out.Set(i, 1, v)
		}
		Y = out
	}
	return Y, nil
}

// InverseTransform maps one-hot rows back to class labels using DefaultThreshold.
func (b *Binarizer[T]) InverseTransform(Y mat.Matrix) ([]T, error) {
	return b.InverseTransformThreshold(Y, DefaultThreshold)
}

// InverseTransformThreshold maps one-hot rows back to class labels. threshold
// applies to the two-class case; with three or more classes each row picks
// its largest entry.
func (b *Binarizer[T]) InverseTransformThreshold(Y mat.Matrix, threshold float64) ([]T, error) {
	if !b.IsFitted() {
		return nil, ErrNotFitted
	}
	// A 0x0 matrix is what Transform returns for no labels; any other
	// shape must still have one column per class.
	rows, cols := Y.Dims()
	if rows == 0 && cols == 0 {
		return []T{}, nil
	}
	if cols != b.NumClasses() {
		return nil, fmt.Errorf("%w: got %d columns, expected %d", ErrShapeMismatch, cols, b.NumClasses())
	}

	if rows == 0 {
		return []T{}, nil
	}

	switch b.NumClasses() {
	case 1:
		var inv mat.Dense
		inv.Apply(func(_, _ int, v float64) float64 { return 1 - v }, Y)
		return b.base.inverse(&inv, threshold)
	case 2:
		return b.base.inverse(mat.NewVecDense(rows, mat.Col(nil, 1, Y)), threshold)
	default:
		return b.base.inverse(Y, threshold)
	}
}

type binarizerState[T cmp.Ordered] struct {
	Classes []T `yaml:"classes"`
}

// MarshalYAML stores the fitted classes.
func (b *Binarizer[T]) MarshalYAML() (any, error) {
	if !b.IsFitted() {
		return nil, ErrNotFitted
	}
	return binarizerState[T]{Classes: b.base.classes}, nil
}

// UnmarshalYAML restores the fitted classes.
func (b *Binarizer[T]) UnmarshalYAML(node *yaml.Node) error {
	var state binarizerState[T]
	if err := node.Decode(&state); err != nil {
		return err
	}
	return b.Fit(state.Classes)
}
