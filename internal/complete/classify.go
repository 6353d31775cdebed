// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package complete

import "github.com/modreg/intellisense/internal/pathregex"

// completorKind distinguishes the three possible classifications of a
// cursor position within a matched schema prefix.
type completorKind int

const (
	completorNone completorKind = iota
	completorLiteral
	completorKey
)

// completorType is the classification of a cursor position relative to a
// sequence of tokens: either it sits inside a literal (or a parameter's
// suffix), inside a parameter's prefix or value region, or on no token at
// all.
type completorType struct {
	kind    completorKind
	literal string
	key     *pathregex.Key
	prefix  string // the key's prefix, if the cursor landed inside it
	index   int    // the token's index, valid when kind == completorKey
}

// classify walks tokens left to right, accumulating their rendered
// character length, and reports which token the cursor at offset falls
// within.
//
// The cursor exactly at the boundary after a parameter's value or suffix
// is treated as inside that region (<=); exactly at the boundary after a
// pure prefix, it is treated as outside it (<). This asymmetry is
// intentional: it is what makes the cursor land just past a typed prefix
// character (like "@") classify as "about to type the parameter value"
// rather than "just finished the prefix".
func classify(offset int, tokens []pathregex.Token, result *pathregex.MatchResult) completorType {
	length := 0
	for i, t := range tokens {
		if t.IsLiteral() {
			length += runeLen(t.Literal)
			if offset < length {
				return completorType{kind: completorLiteral, literal: t.Literal}
			}
			continue
		}

		k := t.Key
		if k.Prefix != "" {
			length += runeLen(k.Prefix)
			if offset < length {
				return completorType{kind: completorKey, key: k, prefix: k.Prefix, index: i}
			}
		} else if offset < length {
			return completorType{kind: completorNone}
		}

		if k.Name.IsString() {
			var value string
			if v, ok := result.Get(k.Name); ok {
				value = v.Render(k)
			}
			length += runeLen(value)
			if offset <= length {
				return completorType{kind: completorKey, key: k, index: i}
			}
		}

		if k.Suffix != "" {
			length += runeLen(k.Suffix)
			if offset <= length {
				return completorType{kind: completorLiteral, literal: k.Suffix}
			}
		}
	}
	return completorType{kind: completorNone}
}

// runeLen returns the length of s in Unicode scalar values.
func runeLen(s string) int {
	return len([]rune(s))
}
