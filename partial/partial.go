// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

// Package partial binds fixed arguments onto method expressions.
package partial

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// ErrDuplicateKeyword is matched by errors reporting a call-time keyword
// argument that was already bound.
var ErrDuplicateKeyword = errors.New("multiple values for keyword argument")

// Args are the arguments of a call, excluding the receiver.
type Args struct {
	Positional []any
	Keyword    map[string]any
}

// Func is a method expression: the receiver comes first.
type Func[R, T any] func(recv R, args Args) (T, error)

// Meta carries a method's display name and documentation.
type Meta struct {
	Name string
	Doc  string
}

// Method is a Func with some arguments fixed in advance.
type Method[R, T any] struct {
	meta  Meta
	fn    Func[R, T]
	fixed Args
}

// Bind returns fn with the fixed arguments bound. The arguments are copied,
// later changes to the caller's slice or map do not affect the method.
func Bind[R, T any](fn Func[R, T], meta Meta, fixed Args) *Method[R, T] {
	return &Method[R, T]{
		meta: meta,
		fn:   fn,
		fixed: Args{
			Positional: slices.Clone(fixed.Positional),
			Keyword:    maps.Clone(fixed.Keyword),
		},
	}
}

// Call invokes the underlying method on recv. Fixed positional arguments
// precede args.Positional; keyword arguments are merged, and a call-time
// keyword that is already bound is an error. Errors from the underlying
// method are returned unchanged.
func (m *Method[R, T]) Call(recv R, args Args) (T, error) {
	merged := Args{
		Positional: make([]any, 0, len(m.fixed.Positional)+len(args.Positional)),
		Keyword:    make(map[string]any, len(m.fixed.Keyword)+len(args.Keyword)),
	}
	merged.Positional = append(merged.Positional, m.fixed.Positional...)
	merged.Positional = append(merged.Positional, args.Positional...)

	maps.Copy(merged.Keyword, m.fixed.Keyword)
	for _, key := range slices.Sorted(maps.Keys(args.Keyword)) {
		if _, ok := merged.Keyword[key]; ok {
			var zero T
			return zero, &DuplicateKeywordError{Method: m.meta.Name, Keyword: key}
		}
		merged.Keyword[key] = args.Keyword[key]
	}

	return m.fn(recv, merged)
}

// Func returns the bound method as a plain Func, so it can be bound again.
func (m *Method[R, T]) Func() Func[R, T] {
	return m.Call
}

// Meta returns the method's display metadata.
func (m *Method[R, T]) Meta() Meta {
	return m.meta
}

func (m *Method[R, T]) String() string {
	if m.meta.Name == "" {
		return "partial method"
	}
	return m.meta.Name
}

// DuplicateKeywordError reports a keyword passed both at bind and call time.
type DuplicateKeywordError struct {
	Method  string
	Keyword string
}

func (e *DuplicateKeywordError) Error() string {
	if e.Method == "" {
		return fmt.Sprintf("got multiple values for keyword argument '%s'", e.Keyword)
	}
	return fmt.Sprintf("%s() got multiple values for keyword argument '%s'", e.Method, e.Keyword)
}

func (e *DuplicateKeywordError) Is(target error) bool { return target == ErrDuplicateKeyword }

// Positional returns the i-th positional argument as a V.
func Positional[V any](args Args, i int) (V, error) {
	var zero V
	if i < 0 || i >= len(args.Positional) {
		return zero, fmt.Errorf("positional argument %d out of range (%d given)", i, len(args.Positional))
	}
	v, ok := args.Positional[i].(V)
	if !ok {
		return zero, fmt.Errorf("positional argument %d: expected %T, got %T", i, zero, args.Positional[i])
	}
	return v, nil
}

// Keyword returns the keyword argument key as a V, or def when it is absent.
func Keyword[V any](args Args, key string, def V) (V, error) {
	raw, ok := args.Keyword[key]
	if !ok {
		return def, nil
	}
	v, ok := raw.(V)
	if !ok {
		return def, fmt.Errorf("keyword argument '%s': expected %T, got %T", key, def, raw)
	}
	return v, nil
}
