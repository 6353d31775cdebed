// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pathregex

import (
	"fmt"

	"github.com/modreg/intellisense/internal/derrors"
)

const defaultDelimiter = "/"

// Parse lexes a schema string into a sequence of tokens.
//
// A Literal token accumulates any run of non-special characters. Special
// characters are : ( ) { } ? + * ; backslash-escaped specials are
// treated as ordinary characters. "/" is ordinary literal text, so
// "/x/y" lexes as one Literal. ":name" introduces a named parameter
// ("name" is [A-Za-z0-9_]+); ":name(regex)" or a bare "(regex)" sets the
// parameter's inner pattern (unnamed parameters are auto-numbered).
// "{prefix:name...suffix}" groups an explicit prefix/suffix around a
// parameter. The character immediately preceding a parameter becomes that
// parameter's default prefix and delimiter.
func Parse(schema string) (_ []Token, err error) {
	defer derrors.Wrap(&err, "Parse(%q)", schema)

	s := []rune(schema)
	var tokens []Token
	var pending []rune
	keyIndex := 0
	i := 0

	flush := func() {
		if len(pending) > 0 {
			tokens = append(tokens, LiteralToken(string(pending)))
			pending = nil
		}
	}

	// popPrefix removes and returns the last pending rune, to use as a
	// parameter's default prefix.
	popPrefix := func() string {
		if len(pending) == 0 {
			return ""
		}
		last := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		return string(last)
	}

	for i < len(s) {
		c := s[i]
		switch c {
		case '\\':
			if i+1 >= len(s) {
				return nil, fmt.Errorf("%w: dangling escape at end of schema", derrors.SchemaSyntax)
			}
			pending = append(pending, s[i+1])
			i += 2

		case ':':
			i++
			nameStart := i
			for i < len(s) && isNameChar(s[i]) {
				i++
			}
			if i == nameStart {
				return nil, fmt.Errorf("%w: expected parameter name at position %d", derrors.SchemaSyntax, i)
			}
			name := string(s[nameStart:i])
			pattern, hasPattern, newI, err := maybeParseGroup(s, i)
			if err != nil {
				return nil, err
			}
			i = newI
			modifier, newI := parseModifier(s, i)
			i = newI
			prefix := popPrefix()
			flush()
			delimiter := defaultDelimiter
			if prefix != "" {
				delimiter = prefix
			}
			if !hasPattern {
				pattern = defaultPattern(delimiter)
			}
			tokens = append(tokens, KeyToken(Key{
				Name:      NameString(name),
				Prefix:    prefix,
				Pattern:   pattern,
				Modifier:  modifier,
				Delimiter: delimiter,
			}))

		case '(':
			pattern, newI, err := parseGroup(s, i)
			if err != nil {
				return nil, err
			}
			i = newI
			modifier, newI := parseModifier(s, i)
			i = newI
			prefix := popPrefix()
			flush()
			delimiter := defaultDelimiter
			if prefix != "" {
				delimiter = prefix
			}
			tokens = append(tokens, KeyToken(Key{
				Name:      NameNumber(keyIndex),
				Prefix:    prefix,
				Pattern:   pattern,
				Modifier:  modifier,
				Delimiter: delimiter,
			}))
			keyIndex++

		case '{':
			tok, newI, newKeyIndex, err := parseGroupedSegment(s, i, keyIndex)
			if err != nil {
				return nil, err
			}
			flush()
			tokens = append(tokens, tok)
			i = newI
			keyIndex = newKeyIndex

		case ')', '}':
			return nil, fmt.Errorf("%w: unbalanced %q at position %d", derrors.SchemaSyntax, c, i)

		case '?', '+', '*':
			return nil, fmt.Errorf("%w: modifier %q with no preceding parameter at position %d", derrors.SchemaSyntax, c, i)

		default:
			pending = append(pending, c)
			i++
		}
	}
	flush()
	return tokens, nil
}

func isNameChar(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_'
}

func parseModifier(s []rune, i int) (Modifier, int) {
	if i < len(s) {
		switch s[i] {
		case '?':
			return ModOptional, i + 1
		case '+':
			return ModOneOrMore, i + 1
		case '*':
			return ModZeroOrMore, i + 1
		}
	}
	return ModNone, i
}

// maybeParseGroup parses an optional "(regex)" group following a named
// parameter. If s[i] is not '(', it reports hasPattern=false and returns i
// unchanged.
func maybeParseGroup(s []rune, i int) (pattern string, hasPattern bool, newI int, err error) {
	if i >= len(s) || s[i] != '(' {
		return "", false, i, nil
	}
	pattern, newI, err = parseGroup(s, i)
	if err != nil {
		return "", false, i, err
	}
	return pattern, true, newI, nil
}

// parseGroup parses a balanced "(...)" group starting at s[i] == '(' and
// returns its inner contents (with escapes preserved verbatim, so the
// result remains valid regex source) and the index following the closing
// ')'.
func parseGroup(s []rune, i int) (pattern string, newI int, err error) {
	if i >= len(s) || s[i] != '(' {
		return "", i, fmt.Errorf("%w: expected '(' at position %d", derrors.SchemaSyntax, i)
	}
	depth := 1
	i++
	var buf []rune
	for i < len(s) {
		c := s[i]
		switch c {
		case '\\':
			if i+1 >= len(s) {
				return "", i, fmt.Errorf("%w: dangling escape in group", derrors.SchemaSyntax)
			}
			buf = append(buf, c, s[i+1])
			i += 2
			continue
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return string(buf), i + 1, nil
			}
		}
		buf = append(buf, c)
		i++
	}
	return "", i, fmt.Errorf("%w: unterminated group", derrors.SchemaSyntax)
}

// parseGroupedSegment parses a "{prefix:name(pattern)?suffix}" (or the bare
// "(pattern)" unnamed form in place of ":name(pattern)") group starting at
// s[i] == '{', followed by an optional modifier after the closing brace.
func parseGroupedSegment(s []rune, i int, keyIndex int) (Token, int, int, error) {
	if i >= len(s) || s[i] != '{' {
		return Token{}, i, keyIndex, fmt.Errorf("%w: expected '{' at position %d", derrors.SchemaSyntax, i)
	}
	i++
	var prefix []rune
	for i < len(s) && s[i] != ':' && s[i] != '(' {
		if s[i] == '\\' {
			if i+1 >= len(s) {
				return Token{}, i, keyIndex, fmt.Errorf("%w: dangling escape in group", derrors.SchemaSyntax)
			}
			prefix = append(prefix, s[i+1])
			i += 2
			continue
		}
		if s[i] == '}' {
			return Token{}, i, keyIndex, fmt.Errorf("%w: group %q has no parameter", derrors.SchemaSyntax, string(s[i-len(prefix):i+1]))
		}
		prefix = append(prefix, s[i])
		i++
	}
	if i >= len(s) {
		return Token{}, i, keyIndex, fmt.Errorf("%w: unterminated group", derrors.SchemaSyntax)
	}

	var name Name
	var pattern string
	hasPattern := false
	if s[i] == ':' {
		i++
		nameStart := i
		for i < len(s) && isNameChar(s[i]) {
			i++
		}
		if i == nameStart {
			return Token{}, i, keyIndex, fmt.Errorf("%w: expected parameter name at position %d", derrors.SchemaSyntax, i)
		}
		name = NameString(string(s[nameStart:i]))
		var err error
		pattern, hasPattern, i, err = maybeParseGroup(s, i)
		if err != nil {
			return Token{}, i, keyIndex, err
		}
	} else {
		var err error
		pattern, i, err = parseGroup(s, i)
		if err != nil {
			return Token{}, i, keyIndex, err
		}
		hasPattern = true
		name = NameNumber(keyIndex)
		keyIndex++
	}

	var suffix []rune
	for i < len(s) && s[i] != '}' {
		if s[i] == '\\' {
			if i+1 >= len(s) {
				return Token{}, i, keyIndex, fmt.Errorf("%w: dangling escape in group", derrors.SchemaSyntax)
			}
			suffix = append(suffix, s[i+1])
			i += 2
			continue
		}
		suffix = append(suffix, s[i])
		i++
	}
	if i >= len(s) {
		return Token{}, i, keyIndex, fmt.Errorf("%w: unterminated group", derrors.SchemaSyntax)
	}
	i++ // consume '}'

	modifier, i := parseModifier(s, i)

	delimiter := defaultDelimiter
	if string(prefix) != "" {
		delimiter = string(prefix)
	}
	if !hasPattern {
		pattern = defaultPattern(delimiter)
	}

	return KeyToken(Key{
		Name:      name,
		Prefix:    string(prefix),
		Suffix:    string(suffix),
		Pattern:   pattern,
		Modifier:  modifier,
		Delimiter: delimiter,
	}), i, keyIndex, nil
}

// defaultPattern is the inner regex source for a parameter with no
// explicit pattern: any run of one or more characters that does not
// contain the delimiter, matched non-greedily.
func defaultPattern(delimiter string) string {
	return "[^" + escapeCharClass(delimiter) + "]+?"
}

func escapeCharClass(s string) string {
	var buf []byte
	for _, r := range s {
		switch r {
		case '\\', ']', '^', '-':
			buf = append(buf, '\\')
		}
		buf = append(buf, string(r)...)
	}
	return string(buf)
}
