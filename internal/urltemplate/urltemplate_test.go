// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package urltemplate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseReplacementVariables(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"https://example.com/${module}/${{version}}/${path}", []string{"module", "version", "path"}},
		{"https://example.com/nothing/here", nil},
		{"${a}${a}", []string{"a", "a"}},
	}
	for _, test := range tests {
		got := ParseReplacementVariables(test.in)
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("ParseReplacementVariables(%q) mismatch (-want +got):\n%s", test.in, diff)
		}
	}
}

func TestSubstitute(t *testing.T) {
	tmpl := "https://cdn.example.com/${module}@${{version}}/${path}"
	got := Substitute(tmpl, map[string]string{
		"module":  "oak",
		"version": "v1.2 beta",
		"path":    "mod.ts",
	})
	want := "https://cdn.example.com/oak@v1.2%20beta/mod.ts"
	if got != want {
		t.Errorf("Substitute() = %q, want %q", got, want)
	}
}

func TestSubstituteLeavesUnknownVariables(t *testing.T) {
	tmpl := "${known}/${unknown}"
	got := Substitute(tmpl, map[string]string{"known": "x"})
	want := "x/${unknown}"
	if got != want {
		t.Errorf("Substitute() = %q, want %q", got, want)
	}
}

func TestBlank(t *testing.T) {
	tmpl := "https://example.com/${module}/${{module}}/rest"
	got := Blank(tmpl, "module")
	want := "https://example.com///rest"
	if got != want {
		t.Errorf("Blank() = %q, want %q", got, want)
	}
}

func TestPercentEncodeComponent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"simple", "simple"},
		{"a b", "a%20b"},
		{"a/b", "a%2Fb"},
		{"1.2.3", "1.2.3"},
		{"a@b:c", "a%40b%3Ac"},
	}
	for _, test := range tests {
		got := PercentEncodeComponent(test.in)
		if got != test.want {
			t.Errorf("PercentEncodeComponent(%q) = %q, want %q", test.in, got, test.want)
		}
	}
}
