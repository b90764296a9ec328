// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package labels

import (
	"cmp"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"
)

const (
	negLabel = 0.0
	posLabel = 1.0
)

// oneHot is the classic label binarization scheme: a single zero column for
// one class, a single indicator column of the second class for two classes,
// and one column per class otherwise.
type oneHot[T cmp.Ordered] struct {
	classes []T // sorted, distinct
}

func (o *oneHot[T]) index(label T) (int, bool) {
	return slices.BinarySearch(o.classes, label)
}

// columns is the width of the base encoding.
func (o *oneHot[T]) columns() int {
	if len(o.classes) <= 2 {
		return 1
	}
	return len(o.classes)
}

func (o *oneHot[T]) transform(y []T) (*mat.Dense, error) {
	if len(y) == 0 {
		return &mat.Dense{}, nil
	}

	out := mat.NewDense(len(y), o.columns(), nil)
	for i, label := range y {
		idx, ok := o.index(label)
		if !ok {
			return nil, fmt.Errorf("%w: %v", ErrUnknownLabel, label)
		}

		switch len(o.classes) {
		case 1:
			out.Set(i, 0, negLabel)
		case 2:
			if idx == 1 {
				out.Set(i, 0, posLabel)
			}
		default:
			out.Set(i, idx, posLabel)
		}
	}
	return out, nil
}

// inverse maps the base encoding back to labels. For one and two classes Y
// is a single column compared against threshold, otherwise each row picks
// its largest entry, the first on ties.
func (o *oneHot[T]) inverse(y mat.Matrix, threshold float64) ([]T, error) {
	rows, cols := y.Dims()
	if cols != o.columns() {
		return nil, fmt.Errorf("%w: got %d columns, expected %d", ErrShapeMismatch, cols, o.columns())
	}

	out := make([]T, rows)
	for i := range rows {
		switch len(o.classes) {
		case 1:
			out[i] = o.classes[0]
		case 2:
			if y.At(i, 0) > threshold {
				out[i] = o.classes[1]
			} else {
				out[i] = o.classes[0]
			}
		default:
			best := 0
			for j := 1; j < cols; j++ {
				if y.At(i, j) > y.At(i, best) {
					best = j
				}
			}
			out[i] = o.classes[best]
		}
	}
	return out, nil
}
