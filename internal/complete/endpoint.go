// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package complete

import (
	"net/url"

	"github.com/modreg/intellisense/internal/pathregex"
	"github.com/modreg/intellisense/internal/urltemplate"
)

// resolveAgainstBase resolves raw as a URL, using base to complete it if
// raw is not itself absolute.
func resolveAgainstBase(raw, base string) (string, error) {
	if u, err := url.Parse(raw); err == nil && u.IsAbs() {
		return u.String(), nil
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	return baseURL.ResolveReference(ref).String(), nil
}

// keyForName finds the Key among tokens with the given name, or nil.
func keyForName(tokens []pathregex.Token, name pathregex.Name) *pathregex.Key {
	for _, t := range tokens {
		if !t.IsLiteral() && t.Key.Name == name {
			return t.Key
		}
	}
	return nil
}

// getEndpoint substitutes a single variable's own placeholder with value
// (raw for "${n}", percent-encoded for "${{n}}"), as used for
// documentation endpoints, where only one name is ever in play, and
// resolves the result against base.
func getEndpoint(template, base, variableName, value string) (string, error) {
	raw := urltemplate.Substitute(template, map[string]string{variableName: value})
	return resolveAgainstBase(raw, base)
}

// getEndpointWithMatch builds the fetch target for a variable's item
// endpoint: every named parameter already captured in result is
// substituted in (raw for "${n}", percent-encoded for "${{n}}"). The
// variable's own placeholder takes the value captured for it so far, if
// result holds one, and is blanked otherwise.
func getEndpointWithMatch(template, base string, tokens []pathregex.Token, result *pathregex.MatchResult, variableName string) (string, error) {
	values := map[string]string{}
	result.Range(func(name pathregex.Name, v pathregex.Value) bool {
		if name.IsString() {
			values[name.StringValue()] = v.Render(keyForName(tokens, name))
		}
		return true
	})
	raw := urltemplate.Substitute(template, values)
	raw = urltemplate.Blank(raw, variableName)
	return resolveAgainstBase(raw, base)
}
