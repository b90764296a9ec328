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
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokName
	tokMul
	tokDiv
	tokPow
	tokLParen
	tokRParen
	tokMinus
	tokPlus
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func isNameStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isNamePart(r rune) bool {
	return isNameStart(r) || unicode.IsDigit(r)
}

func tokenize(expr string) ([]token, error) {
	var toks []token
	for i := 0; i < len(expr); {
		r, size := utf8.DecodeRuneInString(expr[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case r == '*':
			if strings.HasPrefix(expr[i:], "**") {
				toks = append(toks, token{kind: tokPow, text: "**", pos: i})
				i += 2
			} else {
				toks = append(toks, token{kind: tokMul, text: "*", pos: i})
				i++
			}
		case r == '^':
			toks = append(toks, token{kind: tokPow, text: "^", pos: i})
			i++
		case r == '/':
			toks = append(toks, token{kind: tokDiv, text: "/", pos: i})
			i++
		case r == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i++
		case r == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i++
		case r == '-':
			toks = append(toks, token{kind: tokMinus, text: "-", pos: i})
			i++
		case r == '+':
			toks = append(toks, token{kind: tokPlus, text: "+", pos: i})
			i++
		case unicode.IsDigit(r) || r == '.':
			end := scanNumber(expr, i)
			toks = append(toks, token{kind: tokNumber, text: expr[i:end], pos: i})
			i = end
		case isNameStart(r):
			end := i + size
			for end < len(expr) {
				r, size := utf8.DecodeRuneInString(expr[end:])
				if !isNamePart(r) {
					break
				}
				end += size
			}
			toks = append(toks, token{kind: tokName, text: expr[i:end], pos: i})
			i = end
		default:
			return nil, &SyntaxError{Expr: expr, Pos: i, Msg: "unexpected character " + strconv.QuoteRune(r)}
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(expr)}), nil
}

// scanNumber returns the end offset of the decimal literal starting at i,
// including an optional exponent.
func scanNumber(s string, i int) int {
	digits := func(j int) int {
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		return j
	}

	j := digits(i)
	if j < len(s) && s[j] == '.' {
		j = digits(j + 1)
	}
	if j < len(s) && (s[j] == 'e' || s[j] == 'E') {
		k := j + 1
		if k < len(s) && (s[k] == '+' || s[k] == '-') {
			k++
		}
		// Only an exponent if digits follow, otherwise "2 e" style names.
		if end := digits(k); end > k {
			j = end
		}
	}
	return j
}

// value is an evaluated sub-expression. scale accumulates the numeric
// literals so unit-only expressions can reject them.
type value struct {
	q     Quantity
	scale float64
}

type parser struct {
	expr    string
	toks    []token
	pos     int
	resolve func(name string) (Quantity, error)
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) errorf(t token, msg string) error {
	return &SyntaxError{Expr: p.expr, Pos: t.pos, Msg: msg}
}

// parse evaluates the whole expression. An empty expression is dimensionless one.
func (p *parser) parse() (value, error) {
	if p.peek().kind == tokEOF {
		return value{q: Quantity{Magnitude: 1}, scale: 1}, nil
	}
	v, err := p.product()
	if err != nil {
		return value{}, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return value{}, p.errorf(t, "unexpected "+strconv.Quote(t.text))
	}
	return v, nil
}

// product handles '*', '/' and implicit multiplication, left associative.
func (p *parser) product() (value, error) {
	left, err := p.power()
	if err != nil {
		return value{}, err
	}

	for {
		t := p.peek()
		switch t.kind {
		case tokMul, tokDiv:
			p.next()
			right, err := p.power()
			if err != nil {
				return value{}, err
			}
			if t.kind == tokMul {
				left = value{q: left.q.Mul(right.q), scale: left.scale * right.scale}
			} else {
				left = value{q: left.q.Div(right.q), scale: left.scale / right.scale}
			}
		case tokName, tokNumber, tokLParen:
			right, err := p.power()
			if err != nil {
				return value{}, err
			}
			left = value{q: left.q.Mul(right.q), scale: left.scale * right.scale}
		default:
			return left, nil
		}
	}
}

// power handles a factor optionally raised to a signed numeric exponent.
// Exponents chain right associatively: m**2**3 is m**8.
func (p *parser) power() (value, error) {
	base, err := p.unary()
	if err != nil {
		return value{}, err
	}
	if p.peek().kind != tokPow {
		return base, nil
	}
	p.next()

	exp, err := p.exponent()
	if err != nil {
		return value{}, err
	}
	return value{q: base.q.Pow(exp), scale: math.Pow(base.scale, exp)}, nil
}

func (p *parser) exponent() (float64, error) {
	sign := 1.0
	switch p.peek().kind {
	case tokMinus:
		p.next()
		sign = -1
	case tokPlus:
		p.next()
	}

	base, err := p.exponentAtom()
	if err != nil {
		return 0, err
	}

	// The sign applies to the whole chain, so -2**2 is -4.
	if p.peek().kind == tokPow {
		p.next()
		rest, err := p.exponent()
		if err != nil {
			return 0, err
		}
		base = math.Pow(base, rest)
	}
	return sign * base, nil
}

func (p *parser) exponentAtom() (float64, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return 0, p.errorf(t, "invalid exponent "+strconv.Quote(t.text))
		}
		return f, nil
	case tokLParen:
		v, err := p.product()
		if err != nil {
			return 0, err
		}
		if !v.q.Dimension.IsDimensionless() {
			return 0, p.errorf(t, "exponent must be dimensionless")
		}
		if r := p.next(); r.kind != tokRParen {
			return 0, p.errorf(r, "expected \")\"")
		}
		return v.q.Magnitude, nil
	default:
		return 0, p.errorf(t, "expected exponent")
	}
}

func (p *parser) unary() (value, error) {
	switch p.peek().kind {
	case tokMinus:
		p.next()
		v, err := p.unary()
		if err != nil {
			return value{}, err
		}
		v.q.Magnitude, v.scale = -v.q.Magnitude, -v.scale
		return v, nil
	case tokPlus:
		p.next()
		return p.unary()
	}
	return p.primary()
}

func (p *parser) primary() (value, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return value{}, p.errorf(t, "invalid number "+strconv.Quote(t.text))
		}
		return value{q: Quantity{Magnitude: f}, scale: f}, nil
	case tokName:
		q, err := p.resolve(t.text)
		if err != nil {
			return value{}, err
		}
		return value{q: q, scale: 1}, nil
	case tokLParen:
		v, err := p.product()
		if err != nil {
			return value{}, err
		}
		if r := p.next(); r.kind != tokRParen {
			return value{}, p.errorf(r, "expected \")\"")
		}
		return v, nil
	case tokEOF:
		return value{}, p.errorf(t, "unexpected end of expression")
	default:
		return value{}, p.errorf(t, "unexpected "+strconv.Quote(t.text))
	}
}
