// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

// Package units converts quantities between physical unit notations such as
// "uV", "mV" or "mmHg".
package units

import (
	"math"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of parsed expressions a Registry keeps.
const DefaultCacheSize = 256

// Registry maps unit names and symbols to quantities. It is safe for
// concurrent use.
type Registry struct {
	mu       sync.RWMutex
	names    map[string]Quantity // names, aliases
	symbols  map[string]Quantity
	prefixes []Prefix
	cache    *lru.Cache[string, value] // nil when caching is disabled
}

type options struct {
	cacheSize   int
	definitions []Definition
	prefixes    []Prefix
}

// Option configures a Registry.
type Option func(*options)

// WithCacheSize sets how many parsed expressions are memoised. Zero or a
// negative size disables the cache.
func WithCacheSize(size int) Option {
	return func(o *options) {
		o.cacheSize = size
	}
}

// WithDefinitions replaces the default unit definitions.
func WithDefinitions(defs []Definition) Option {
	return func(o *options) {
		o.definitions = defs
	}
}

// WithPrefixes replaces the default SI prefixes.
func WithPrefixes(prefixes []Prefix) Option {
	return func(o *options) {
		o.prefixes = prefixes
	}
}

// New creates a registry holding DefaultDefinitions and SIPrefixes unless
// overridden by options.
func New(opts ...Option) (*Registry, error) {
	o := options{
		cacheSize:   DefaultCacheSize,
		definitions: DefaultDefinitions(),
		prefixes:    SIPrefixes,
	}
	for _, opt := range opts {
		opt(&o)
	}

	r := &Registry{
		names:    make(map[string]Quantity),
		symbols:  make(map[string]Quantity),
		prefixes: sortPrefixes(o.prefixes),
	}

	if o.cacheSize > 0 {
		cache, err := lru.New[string, value](o.cacheSize)
		if err != nil {
			return nil, err
		}
		r.cache = cache
	}

	for _, def := range o.definitions {
		if err := r.define(def); err != nil {
			return nil, err
		}
	}

	return r, nil
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry, built on first use.
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := New()
		if err != nil {
			// The built-in definitions are static.
			panic(err)
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

// Define adds a unit to the registry.
func (r *Registry) Define(def Definition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.define(def); err != nil {
		return err
	}

	// A new name can shadow a prefixed resolution that was cached.
	if r.cache != nil {
		r.cache.Purge()
	}
	return nil
}

func (r *Registry) define(def Definition) error {
	if def.Name == "" {
		return &DefinitionError{Name: def.Name, Reason: "empty name"}
	}
	if m := def.Quantity.Magnitude; m <= 0 || math.IsInf(m, 0) || math.IsNaN(m) {
		return &DefinitionError{Name: def.Name, Reason: "magnitude must be positive and finite"}
	}

	names := append([]string{def.Name}, def.Aliases...)
	for _, id := range append(names, def.Symbols...) {
		if !isIdentifier(id) {
			return &DefinitionError{Name: def.Name, Reason: "invalid identifier '" + id + "'"}
		}
		if _, ok := r.names[id]; ok {
			return &DefinitionError{Name: def.Name, Reason: "'" + id + "' is already defined"}
		}
		if _, ok := r.symbols[id]; ok {
			return &DefinitionError{Name: def.Name, Reason: "'" + id + "' is already defined"}
		}
	}

	for _, name := range names {
		r.names[name] = def.Quantity
	}
	for _, sym := range def.Symbols {
		r.symbols[sym] = def.Quantity
	}
	return nil
}

// ParseExpression evaluates a quantity expression such as "2.5 mV" or
// "kg * m / s**2".
func (r *Registry) ParseExpression(expr string) (Quantity, error) {
	v, err := r.eval(expr)
	if err != nil {
		return Quantity{}, err
	}
	return v.q, nil
}

// ParseUnits evaluates a unit expression. Numeric scaling factors are
// rejected.
func (r *Registry) ParseUnits(expr string) (Quantity, error) {
	v, err := r.eval(expr)
	if err != nil {
		return Quantity{}, err
	}
	if v.scale != 1 {
		return Quantity{}, &ScalingFactorError{Expr: expr, Scale: v.scale}
	}
	return v.q, nil
}

func (r *Registry) eval(expr string) (value, error) {
	expr = strings.TrimSpace(expr)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.cache != nil {
		if v, ok := r.cache.Get(expr); ok {
			return v, nil
		}
	}

	toks, err := tokenize(expr)
	if err != nil {
		return value{}, err
	}

	p := parser{expr: expr, toks: toks, resolve: r.lookup}
	v, err := p.parse()
	if err != nil {
		return value{}, err
	}

	if r.cache != nil {
		r.cache.Add(expr, v)
	}
	return v, nil
}

// lookup resolves a single unit name. Callers hold r.mu.
func (r *Registry) lookup(name string) (Quantity, error) {
	if q, ok := r.symbols[name]; ok {
		return q, nil
	}
	if q, ok := r.resolveName(name); ok {
		return q, nil
	}
	for _, p := range r.prefixes {
		for _, sym := range p.Symbols {
			if rest, ok := strings.CutPrefix(name, sym); ok && rest != "" {
				if q, ok := r.symbols[rest]; ok {
					return q.Mul(Quantity{Magnitude: p.Factor}), nil
				}
			}
		}
	}
	if stem, ok := strings.CutSuffix(name, "s"); ok && len(stem) > 1 {
		if q, ok := r.resolveName(stem); ok {
			return q, nil
		}
	}
	return Quantity{}, &UndefinedUnitError{Name: name}
}

// resolveName matches a name or alias, optionally behind a long prefix.
func (r *Registry) resolveName(name string) (Quantity, bool) {
	if q, ok := r.names[name]; ok {
		return q, true
	}
	for _, p := range r.prefixes {
		if rest, ok := strings.CutPrefix(name, p.Name); ok && rest != "" {
			if q, ok := r.names[rest]; ok {
				return q.Mul(Quantity{Magnitude: p.Factor}), true
			}
		}
	}
	return Quantity{}, false
}

// sortPrefixes orders prefixes so longer symbols are tried first ("da" before "d").
func sortPrefixes(prefixes []Prefix) []Prefix {
	out := make([]Prefix, len(prefixes))
	copy(out, prefixes)
	longest := func(p Prefix) int {
		n := 0
		for _, s := range p.Symbols {
			n = max(n, utf8.RuneCountInString(s))
		}
		return n
	}
	slices.SortStableFunc(out, func(a, b Prefix) int {
		return longest(b) - longest(a)
	})
	return out
}

func isIdentifier(s string) bool {
	for i, r := range s {
		if i == 0 && !isNameStart(r) || !isNamePart(r) {
			return false
		}
	}
	return s != ""
}
