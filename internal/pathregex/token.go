// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pathregex implements a small path-to-regex templating language:
// it tokenizes an Express-style schema string (e.g. "/x/:module@:version?/:path*"),
// compiles token sequences into matching regular expressions, matches paths
// against them to recover named parameters, and compiles parameter maps back
// into path strings.
package pathregex

import "strconv"

// Modifier is the repetition/optionality suffix that may follow a parameter.
type Modifier byte

const (
	// ModNone means the parameter must appear exactly once.
	ModNone Modifier = 0
	// ModOptional ('?') means the parameter may be omitted.
	ModOptional Modifier = '?'
	// ModOneOrMore ('+') means the parameter repeats one or more times.
	ModOneOrMore Modifier = '+'
	// ModZeroOrMore ('*') means the parameter repeats zero or more times.
	ModZeroOrMore Modifier = '*'
)

// Repeatable reports whether the modifier allows more than one capture.
func (m Modifier) Repeatable() bool {
	return m == ModOneOrMore || m == ModZeroOrMore
}

// Optional reports whether the modifier allows zero captures.
func (m Modifier) Optional() bool {
	return m == ModOptional || m == ModZeroOrMore
}

// StringOrNumber is the tagged union used for parameter keys: either a
// string identifier (a named parameter) or a non-negative integer (an
// unnamed capture index). It is never represented as a stringified
// integer, so a string key "0" and the unnamed index 0 remain distinct.
type StringOrNumber struct {
	str   string
	num   int
	isStr bool
}

// NameString returns a string-keyed StringOrNumber.
func NameString(s string) StringOrNumber { return StringOrNumber{str: s, isStr: true} }

// NameNumber returns an integer-keyed StringOrNumber.
func NameNumber(n int) StringOrNumber { return StringOrNumber{num: n} }

// IsString reports whether the key is a named (string) parameter.
func (k StringOrNumber) IsString() bool { return k.isStr }

// StringValue returns the string name. It panics if IsString is false.
func (k StringOrNumber) StringValue() string {
	if !k.isStr {
		panic("pathregex: StringValue called on a numeric key")
	}
	return k.str
}

// NumberValue returns the numeric index. It panics if IsString is true.
func (k StringOrNumber) NumberValue() int {
	if k.isStr {
		panic("pathregex: NumberValue called on a string key")
	}
	return k.num
}

// String renders the key for diagnostic purposes.
func (k StringOrNumber) String() string {
	if k.isStr {
		return k.str
	}
	return strconv.Itoa(k.num)
}

// Key describes a single named or unnamed parameter position in a schema.
type Key struct {
	// Name identifies the parameter: a string for named parameters, an
	// integer for unnamed (auto-numbered) capture groups.
	Name Name
	// Prefix is the literal text immediately preceding the parameter's
	// value in the schema (often a single path-delimiter character).
	Prefix string
	// Suffix is the literal text immediately following the parameter's
	// value (empty unless the schema used an explicit {prefix:name suffix}
	// group).
	Suffix string
	// Pattern is the inner regex source matched by the parameter's value.
	Pattern string
	// Modifier is the optionality/repetition marker, if any.
	Modifier Modifier
	// Delimiter is the segment separator used by the default pattern and
	// by splitting repeated captures into a list.
	Delimiter string
}

// Name is an alias kept for readability at call sites; it is the same type
// as StringOrNumber.
type Name = StringOrNumber

// Token is a single element of a compiled schema: either a fixed Literal
// string or a Key (parameter).
type Token struct {
	// Literal holds the fixed text when Key is nil.
	Literal string
	// Key holds the parameter description when this token is a parameter.
	// Exactly one of Literal (with Key == nil) or Key (with Literal=="")
	// is meaningful for a given Token.
	Key *Key
}

// IsLiteral reports whether t is a literal (non-parameter) token.
func (t Token) IsLiteral() bool { return t.Key == nil }

// LiteralToken constructs a literal token.
func LiteralToken(s string) Token { return Token{Literal: s} }

// KeyToken constructs a parameter token.
func KeyToken(k Key) Token { return Token{Key: &k} }
