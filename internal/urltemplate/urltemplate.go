// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package urltemplate substitutes named variables into the URL templates
// found in a registry configuration's "url" fields, using the two
// substitution syntaxes a template may mix: "${name}" for a raw value and
// "${{name}}" for a percent-encoded one.
package urltemplate

import (
	"regexp"
	"strings"
)

// replacementVariableRE matches both "${name}" and "${{name}}", capturing
// the variable name in either form.
var replacementVariableRE = regexp.MustCompile(`\$\{\{?(\w+)\}?\}`)

// ParseReplacementVariables returns the names of every "${name}" or
// "${{name}}" placeholder occurring in s, in order of appearance
// (duplicates included).
func ParseReplacementVariables(s string) []string {
	matches := replacementVariableRE.FindAllStringSubmatch(s, -1)
	if matches == nil {
		return nil
	}
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m[1]
	}
	return names
}

// Substitute replaces every "${name}" and "${{name}}" occurrence of a
// variable present in values within template. The raw form substitutes the
// value as-is; the doubled-brace form substitutes its component-encoded
// form. Variables not present in values are left untouched, so that a
// caller can substitute several variables across multiple passes.
func Substitute(template string, values map[string]string) string {
	for name, value := range values {
		template = strings.ReplaceAll(template, "${"+name+"}", value)
		template = strings.ReplaceAll(template, "${{"+name+"}}", PercentEncodeComponent(value))
	}
	return template
}

// Blank replaces every "${name}" and "${{name}}" occurrence of name within
// template with the empty string.
func Blank(template, name string) string {
	template = strings.ReplaceAll(template, "${"+name+"}", "")
	template = strings.ReplaceAll(template, "${{"+name+"}}", "")
	return template
}

// componentEscape reports whether b must be percent-encoded under the
// "component" encode set: ASCII controls, DEL, every non-ASCII byte, and a
// fixed list of ASCII characters that are unsafe inside a URL path/query
// component.
func componentEscape(b byte) bool {
	if b < 0x20 || b == 0x7f || b >= 0x80 {
		return true
	}
	switch b {
	case ' ', '"', '#', '<', '>', '?', '`', '{', '}', '/', ':', ';', '=', '@',
		'[', '\\', ']', '^', '|', '$', '&', '+', ',':
		return true
	}
	return false
}

const upperhex = "0123456789ABCDEF"

// PercentEncodeComponent percent-encodes s using the same encode set that
// the engine's URL template substitution applies to "${{name}}"
// placeholders.
func PercentEncodeComponent(s string) string {
	var needsEscape bool
	for i := 0; i < len(s); i++ {
		if componentEscape(s[i]) {
			needsEscape = true
			break
		}
	}
	if !needsEscape {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if componentEscape(c) {
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&0xf])
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
