// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pathregex

import (
	"fmt"
	"strings"

	"github.com/modreg/intellisense/internal/derrors"
)

// Compiler turns a MatchResult back into the path string that produced it,
// the inverse of Matcher.Matches.
type Compiler struct {
	tokens []Token
}

// NewCompiler returns a Compiler for the given tokens.
func NewCompiler(tokens []Token) *Compiler {
	return &Compiler{tokens: tokens}
}

// ToPath renders tokens using the values in result. A required parameter
// with no recorded value is an error; an absent optional parameter is
// simply omitted.
func (c *Compiler) ToPath(result *MatchResult) (_ string, err error) {
	defer derrors.Wrap(&err, "Compiler.ToPath")

	var b strings.Builder
	for _, t := range c.tokens {
		if t.IsLiteral() {
			b.WriteString(t.Literal)
			continue
		}
		k := t.Key
		v, ok := result.Get(k.Name)
		if !ok {
			if k.Modifier.Optional() {
				continue
			}
			return "", fmt.Errorf("%w: missing required parameter %q", derrors.InvalidConfig, k.Name)
		}
		if k.Modifier.Repeatable() {
			rendered := v.Render(k)
			if rendered == "" {
				if k.Modifier == ModZeroOrMore {
					continue
				}
				return "", fmt.Errorf("%w: empty value for required parameter %q", derrors.InvalidConfig, k.Name)
			}
			b.WriteString(k.Prefix)
			b.WriteString(rendered)
			b.WriteString(k.Suffix)
			continue
		}
		b.WriteString(k.Prefix)
		b.WriteString(v.Render(k))
		b.WriteString(k.Suffix)
	}
	return b.String(), nil
}
