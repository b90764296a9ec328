// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package partial_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/OpenPSG/cardio/partial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type channel struct {
	name    string
	samples []float64
}

var errEmptyChannel = errors.New("empty channel")

// describe renders its receiver and arguments, so tests can compare calls.
func describe(c *channel, args partial.Args) (string, error) {
	return fmt.Sprintf("%s %v %v", c.name, args.Positional, args.Keyword), nil
}

// scale multiplies every sample by the first positional argument plus an
// optional "offset" keyword.
func scale(c *channel, args partial.Args) ([]float64, error) {
	if len(c.samples) == 0 {
		return nil, errEmptyChannel
	}
	factor, err := partial.Positional[float64](args, 0)
	if err != nil {
		return nil, err
	}
	offset, err := partial.Keyword(args, "offset", 0.0)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(c.samples))
	for i, s := range c.samples {
		out[i] = s*factor + offset
	}
	return out, nil
}

func TestBindMatchesManualCall(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		fixed partial.Args
		call  partial.Args
		want  partial.Args
	}{
		{
			name: "no arguments",
			want: partial.Args{Positional: []any{}, Keyword: map[string]any{}},
		},
		{
			name:  "fixed positional precede call positional",
			fixed: partial.Args{Positional: []any{1, 2}},
			call:  partial.Args{Positional: []any{3}},
			want:  partial.Args{Positional: []any{1, 2, 3}, Keyword: map[string]any{}},
		},
		{
			name:  "keywords are merged",
			fixed: partial.Args{Keyword: map[string]any{"order": 4}},
			call:  partial.Args{Keyword: map[string]any{"axis": -1}},
			want:  partial.Args{Positional: []any{}, Keyword: map[string]any{"order": 4, "axis": -1}},
		},
		{
			name:  "both",
			fixed: partial.Args{Positional: []any{"low"}, Keyword: map[string]any{"order": 4}},
			call:  partial.Args{Positional: []any{0.5, 40.0}, Keyword: map[string]any{"fs": 250}},
			want: partial.Args{
				Positional: []any{"low", 0.5, 40.0},
				Keyword:    map[string]any{"order": 4, "fs": 250},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := &channel{name: "ECG"}
			m := partial.Bind(describe, partial.Meta{Name: "describe"}, tt.fixed)

			got, err := m.Call(c, tt.call)
			require.NoError(t, err)

			want, err := describe(c, tt.want)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestBindTypedArguments(t *testing.T) {
	t.Parallel()

	c := &channel{name: "ECG", samples: []float64{1, 2, 3}}

	toMillivolts := partial.Bind(scale, partial.Meta{
		Name: "to_millivolts",
		Doc:  "Scale microvolt samples to millivolts.",
	}, partial.Args{Positional: []any{1e-3}})

	out, err := toMillivolts.Call(c, partial.Args{Keyword: map[string]any{"offset": 1.0}})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1.001, 1.002, 1.003}, out, 1e-12)

	assert.Equal(t, "to_millivolts", toMillivolts.Meta().Name)
	assert.Equal(t, "Scale microvolt samples to millivolts.", toMillivolts.Meta().Doc)
	assert.Equal(t, "to_millivolts", toMillivolts.String())
}

func TestBindDuplicateKeyword(t *testing.T) {
	t.Parallel()

	m := partial.Bind(describe, partial.Meta{Name: "describe"}, partial.Args{
		Keyword: map[string]any{"order": 4},
	})

	_, err := m.Call(&channel{}, partial.Args{Keyword: map[string]any{"order": 2}})
	require.ErrorIs(t, err, partial.ErrDuplicateKeyword)

	var dupErr *partial.DuplicateKeywordError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "order", dupErr.Keyword)
	assert.Equal(t, "describe() got multiple values for keyword argument 'order'", err.Error())
}

func TestBindPropagatesErrors(t *testing.T) {
	t.Parallel()

	m := partial.Bind(scale, partial.Meta{}, partial.Args{Positional: []any{2.0}})

	_, err := m.Call(&channel{}, partial.Args{})
	assert.Same(t, errEmptyChannel, err)

	// Argument type errors come from the wrapped method.
	m = partial.Bind(scale, partial.Meta{}, partial.Args{Positional: []any{"two"}})
	_, err = m.Call(&channel{samples: []float64{1}}, partial.Args{})
	assert.EqualError(t, err, "positional argument 0: expected float64, got string")
}

func TestBindCapturesByValue(t *testing.T) {
	t.Parallel()

	fixed := partial.Args{
		Positional: []any{1},
		Keyword:    map[string]any{"order": 4},
	}
	m := partial.Bind(describe, partial.Meta{}, fixed)

	fixed.Positional[0] = 99
	fixed.Keyword["order"] = 99
	fixed.Keyword["extra"] = true

	got, err := m.Call(&channel{name: "EEG"}, partial.Args{})
	require.NoError(t, err)
	assert.Equal(t, "EEG [1] map[order:4]", got)
}

func TestBindNested(t *testing.T) {
	t.Parallel()

	inner := partial.Bind(describe, partial.Meta{Name: "inner"}, partial.Args{Positional: []any{"a"}})
	outer := partial.Bind(inner.Func(), partial.Meta{Name: "outer"}, partial.Args{
		Positional: []any{"b"},
		Keyword:    map[string]any{"k": 1},
	})

	got, err := outer.Call(&channel{name: "X"}, partial.Args{Positional: []any{"c"}})
	require.NoError(t, err)
	assert.Equal(t, "X [a b c] map[k:1]", got)
	assert.Equal(t, "outer", outer.String())
}

func TestKeywordDefault(t *testing.T) {
	t.Parallel()

	v, err := partial.Keyword(partial.Args{}, "missing", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	_, err = partial.Keyword(partial.Args{Keyword: map[string]any{"k": "x"}}, "k", 7)
	assert.Error(t, err)

	_, err = partial.Positional[int](partial.Args{}, 0)
	assert.EqualError(t, err, "positional argument 0 out of range (0 given)")
}
