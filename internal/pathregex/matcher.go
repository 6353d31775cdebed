// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pathregex

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/modreg/intellisense/internal/derrors"
)

// MatchOptions controls how a Matcher's regex is anchored.
type MatchOptions struct {
	// EndAnchored, if true (the default), requires the match to consume
	// the input to its end (a trailing "$", preceded by one optional
	// trailing "/"). If false, a leading partial match against the start
	// of the input suffices. The completion engine uses the default,
	// end-anchored mode when it tests progressively shorter schema
	// prefixes against a specifier the user is still typing.
	EndAnchored bool
}

// DefaultMatchOptions returns the default, end-anchored options.
func DefaultMatchOptions() *MatchOptions { return &MatchOptions{EndAnchored: true} }

// Matcher matches paths against a compiled token sequence and recovers
// named parameters.
type Matcher struct {
	re      *regexp.Regexp
	groups  []*Key // groups[i] is the key owning capture group i+1
	options MatchOptions
}

// NewMatcher compiles tokens into a matcher. A nil opts uses
// DefaultMatchOptions.
func NewMatcher(tokens []Token, opts *MatchOptions) (_ *Matcher, err error) {
	defer derrors.Wrap(&err, "NewMatcher(%d tokens)", len(tokens))
	if opts == nil {
		opts = DefaultMatchOptions()
	}
	pattern, groups, err := compilePattern(tokens, opts.EndAnchored)
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", derrors.RegexCompile, err)
	}
	return &Matcher{re: re, groups: groups, options: *opts}, nil
}

// compilePattern concatenates the regex source for each token, returning
// the parallel list of keys owning each capture group (group i+1 in the
// returned regex corresponds to groups[i]).
func compilePattern(tokens []Token, endAnchored bool) (string, []*Key, error) {
	var b strings.Builder
	var groups []*Key
	b.WriteByte('^')
	for _, t := range tokens {
		if t.IsLiteral() {
			b.WriteString(regexp.QuoteMeta(t.Literal))
			continue
		}
		k := t.Key
		prefix := regexp.QuoteMeta(k.Prefix)
		suffix := regexp.QuoteMeta(k.Suffix)
		switch {
		case k.Modifier.Repeatable():
			// One outer capture group spans every repetition, since a
			// regex engine only retains the last iteration of an inner
			// capture group repeated by a quantifier.
			b.WriteString("(")
			b.WriteString("(?:")
			b.WriteString(prefix)
			b.WriteString(k.Pattern)
			b.WriteString(suffix)
			b.WriteString(")")
			if k.Modifier == ModZeroOrMore {
				b.WriteString("*")
			} else {
				b.WriteString("+")
			}
			b.WriteString(")")
			groups = append(groups, k)
		case k.Modifier == ModOptional:
			b.WriteString("(?:")
			b.WriteString(prefix)
			b.WriteString("(")
			b.WriteString(k.Pattern)
			b.WriteString(")")
			b.WriteString(suffix)
			b.WriteString(")?")
			groups = append(groups, k)
		default:
			b.WriteString(prefix)
			b.WriteString("(")
			b.WriteString(k.Pattern)
			b.WriteString(")")
			b.WriteString(suffix)
			groups = append(groups, k)
		}
	}
	if endAnchored {
		// Tolerate one trailing delimiter beyond the last token, the way a
		// non-strict path-to-regex match does: this is what lets a schema
		// prefix ending in a required parameter still match a path the
		// user has followed with a "/" while typing the next segment.
		b.WriteString("(?:/)?$")
	}
	return b.String(), groups, nil
}

// Matches attempts to match path against m's compiled tokens, returning
// the recovered parameters on success.
func (m *Matcher) Matches(path string) (*MatchResult, bool) {
	idx := m.re.FindStringSubmatchIndex(path)
	if idx == nil {
		return nil, false
	}
	result := NewMatchResult()
	for gi, k := range m.groups {
		start, end := idx[2*(gi+1)], idx[2*(gi+1)+1]
		if k.Modifier.Repeatable() {
			var raw string
			if start >= 0 {
				raw = path[start:end]
			}
			result.Set(k.Name, ListValue(splitCaptured(raw, k.Prefix, k.Suffix, k.Delimiter)))
			continue
		}
		if start < 0 {
			// Unmatched optional parameter: omit it entirely.
			continue
		}
		result.Set(k.Name, StringValue(path[start:end]))
	}
	return result, true
}

// splitCaptured recovers the list of element values from the raw text
// captured by a repeated parameter's single outer group, per spec: strip
// the parameter's prefix/suffix, then split on the separator implied by
// "suffix"+"prefix" occurring between consecutive repetitions (which
// degrades to the plain delimiter when prefix and suffix are both empty).
func splitCaptured(raw, prefix, suffix, delimiter string) []string {
	if raw == "" {
		return nil
	}
	trimmed := strings.TrimPrefix(raw, prefix)
	trimmed = strings.TrimSuffix(trimmed, suffix)
	if trimmed == "" {
		return nil
	}
	sep := suffix + prefix
	if sep == "" {
		sep = delimiter
	}
	if sep == "" {
		return []string{trimmed}
	}
	return strings.Split(trimmed, sep)
}
