// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pathregex

import "strings"

// Value is a captured parameter value: either a single string, or (for
// one-or-more/zero-or-more parameters) a list of strings.
type Value struct {
	single string
	list   []string
	isList bool
}

// StringValue wraps a single captured value.
func StringValue(s string) Value { return Value{single: s} }

// ListValue wraps a repeated parameter's captured values.
func ListValue(v []string) Value { return Value{list: v, isList: true} }

// IsList reports whether the value is a list (came from a +/* parameter).
func (v Value) IsList() bool { return v.isList }

// Single returns the scalar value. It is the empty string for list values.
func (v Value) Single() string { return v.single }

// List returns the list value. It is nil for scalar values.
func (v Value) List() []string { return v.list }

// Render renders the value the way it appears inside the matched path,
// given the owning key (for its prefix/suffix). For a scalar value this is
// just the value itself. For a list value, it is each element rejoined
// with the separator implied by repeating "prefix value suffix" for every
// element ("suffix"+"prefix" between consecutive elements) -- the inverse
// of the split performed when the value was captured.
func (v Value) Render(k *Key) string {
	if !v.isList {
		return v.single
	}
	if len(v.list) == 0 {
		return ""
	}
	sep := ""
	if k != nil {
		sep = k.Suffix + k.Prefix
	}
	return strings.Join(v.list, sep)
}

// MatchResult is an ordered mapping from parameter key to captured value,
// preserving the insertion order of the tokens that produced it.
type MatchResult struct {
	order []Name
	vals  map[Name]Value
}

// NewMatchResult returns an empty MatchResult.
func NewMatchResult() *MatchResult {
	return &MatchResult{vals: map[Name]Value{}}
}

// Get returns the value captured for name, if any.
func (m *MatchResult) Get(name Name) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	v, ok := m.vals[name]
	return v, ok
}

// Set records the captured value for name, appending it to the insertion
// order if it is new.
func (m *MatchResult) Set(name Name, v Value) {
	if _, ok := m.vals[name]; !ok {
		m.order = append(m.order, name)
	}
	m.vals[name] = v
}

// Clone returns an independent copy of m.
func (m *MatchResult) Clone() *MatchResult {
	if m == nil {
		return NewMatchResult()
	}
	order := append([]Name(nil), m.order...)
	vals := make(map[Name]Value, len(m.vals))
	for k, v := range m.vals {
		vals[k] = v
	}
	return &MatchResult{order: order, vals: vals}
}

// Range calls f for every entry in insertion order, stopping early if f
// returns false.
func (m *MatchResult) Range(f func(Name, Value) bool) {
	if m == nil {
		return
	}
	for _, k := range m.order {
		if !f(k, m.vals[k]) {
			return
		}
	}
}
