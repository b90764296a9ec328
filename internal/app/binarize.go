// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"github.com/OpenPSG/cardio/internal/logger"
	"github.com/OpenPSG/cardio/labels"
)

// Binarize one-hot encodes the given labels and prints the classes followed
// by the indicator matrix. If classesPath is set the classes are loaded
// from it instead of being fit on the labels. If savePath is set the fitted
// classes are written there as YAML.
func Binarize(ctx context.Context, w io.Writer, values []string, classesPath, savePath string) error {
	var (
		b   *labels.Binarizer[string]
		err error
	)

	if classesPath != "" {
		if b, err = LoadClasses(classesPath); err != nil {
			return err
		}
	} else {
		b = labels.NewBinarizer[string]()
		if err := b.Fit(values); err != nil {
			return err
		}
	}

	Y, err := b.Transform(values)
	if err != nil {
		return err
	}

	logger.DebugKV(ctx, "Encoded labels", "samples", len(values), "classes", b.NumClasses())

	fmt.Fprintf(w, "classes: %s\n", strings.Join(b.Classes(), " "))
	if _, err := fmt.Fprintf(w, "%v\n", mat.Formatted(Y, mat.Squeeze())); err != nil {
		return err
	}

	if savePath != "" {
		return SaveClasses(savePath, b)
	}

	return nil
}

// Decode turns rows of comma separated scores back into labels, using the
// classes stored at classesPath.
func Decode(ctx context.Context, w io.Writer, classesPath string, rows []string, threshold float64) error {
	b, err := LoadClasses(classesPath)
	if err != nil {
		return err
	}

	Y, err := parseRows(rows)
	if err != nil {
		return err
	}

	decoded, err := b.InverseTransformThreshold(Y, threshold)
	if err != nil {
		return err
	}

	logger.DebugKV(ctx, "Decoded scores", "rows", len(rows), "threshold", threshold)

	for _, label := range decoded {
		if _, err := fmt.Fprintln(w, label); err != nil {
			return err
		}
	}

	return nil
}

// LoadClasses reads a binarizer saved with SaveClasses.
func LoadClasses(path string) (*labels.Binarizer[string], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	b := labels.NewBinarizer[string]()
	if err := yaml.Unmarshal(data, b); err != nil {
		return nil, fmt.Errorf("error loading classes from %s: %w", path, err)
	}

	return b, nil
}

// SaveClasses writes the fitted classes of b to path as YAML.
func SaveClasses(path string, b *labels.Binarizer[string]) error {
	data, err := yaml.Marshal(b)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

func parseRows(rows []string) (mat.Matrix, error) {
	if len(rows) == 0 {
		return &mat.Dense{}, nil
	}

	var (
		cols int
		data []float64
	)
	for i, row := range rows {
		fields := strings.Split(row, ",")
		if i == 0 {
			cols = len(fields)
		} else if len(fields) != cols {
			return nil, fmt.Errorf("row %d has %d scores, expected %d", i, len(fields), cols)
		}

		for _, field := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			data = append(data, v)
		}
	}

	return mat.NewDense(len(rows), cols, data), nil
}
