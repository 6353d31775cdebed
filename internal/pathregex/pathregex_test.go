// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pathregex

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseLiteral(t *testing.T) {
	got, err := Parse("/x/y")
	if err != nil {
		t.Fatal(err)
	}
	want := []Token{LiteralToken("/x/y")}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(Token{})); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseNamedParameter(t *testing.T) {
	tokens, err := Parse("/x/:module@:version?/:path*")
	if err != nil {
		t.Fatal(err)
	}
	if len(tokens) != 4 {
		t.Fatalf("got %d tokens, want 4: %+v", len(tokens), tokens)
	}
	if tokens[0].Literal != "/x" {
		t.Errorf("tokens[0].Literal = %q, want %q", tokens[0].Literal, "/x")
	}
	mod := tokens[1].Key
	if mod == nil || mod.Name.StringValue() != "module" || mod.Prefix != "/" || mod.Modifier != ModNone {
		t.Errorf("tokens[1] = %+v, want module param with '/' prefix", tokens[1])
	}
	ver := tokens[2].Key
	if ver == nil || ver.Name.StringValue() != "version" || ver.Prefix != "@" || ver.Modifier != ModOptional {
		t.Errorf("tokens[2] = %+v, want version param with '@' prefix and '?' modifier", tokens[2])
	}
	path := tokens[3].Key
	if path == nil || path.Name.StringValue() != "path" || path.Prefix != "/" || path.Modifier != ModZeroOrMore {
		t.Errorf("tokens[3] = %+v, want path param with '/' prefix and '*' modifier", tokens[3])
	}
}

func TestParseUnnamedParameter(t *testing.T) {
	tokens, err := Parse("/x/([^/]+)")
	if err != nil {
		t.Fatal(err)
	}
	if len(tokens) != 2 {
		t.Fatalf("got %d tokens, want 2", len(tokens))
	}
	k := tokens[1].Key
	if k == nil || k.Name.IsString() || k.Name.NumberValue() != 0 {
		t.Errorf("tokens[1].Key = %+v, want unnamed key 0", k)
	}
}

func TestParseGroupedSegment(t *testing.T) {
	tokens, err := Parse("{/:lang.json}")
	if err != nil {
		t.Fatal(err)
	}
	if len(tokens) != 1 || tokens[0].Key == nil {
		t.Fatalf("got %+v, want a single key token", tokens)
	}
	k := tokens[0].Key
	if k.Name.StringValue() != "lang" || k.Prefix != "/" || k.Suffix != ".json" {
		t.Errorf("got %+v, want lang param with prefix '/' and suffix '.json'", k)
	}
}

func TestParseErrors(t *testing.T) {
	for _, schema := range []string{
		"/x/?",
		"/x/(abc",
		"/x/{abc",
		"/x/)",
		"/x/:",
		"/x\\",
	} {
		if _, err := Parse(schema); err == nil {
			t.Errorf("Parse(%q): got nil error, want non-nil", schema)
		}
	}
}

func TestMatcherMatches(t *testing.T) {
	tokens, err := Parse("/x/:module@:version?/:path*")
	if err != nil {
		t.Fatal(err)
	}
	m, err := NewMatcher(tokens, nil)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path    string
		wantOK  bool
		wantMod string
		wantVer string
		hasVer  bool
		wantSub []string
	}{
		{
			path:    "/x/oak@v1.2.3/sub1/sub2",
			wantOK:  true,
			wantMod: "oak",
			hasVer:  true,
			wantVer: "v1.2.3",
			wantSub: []string{"sub1", "sub2"},
		},
		{
			path:    "/x/oak/sub1",
			wantOK:  true,
			wantMod: "oak",
			hasVer:  false,
			wantSub: []string{"sub1"},
		},
		{
			path:   "/y/oak",
			wantOK: false,
		},
	}
	for _, test := range tests {
		res, ok := m.Matches(test.path)
		if ok != test.wantOK {
			t.Errorf("Matches(%q) ok = %v, want %v", test.path, ok, test.wantOK)
			continue
		}
		if !ok {
			continue
		}
		mod, _ := res.Get(NameString("module"))
		if mod.Single() != test.wantMod {
			t.Errorf("Matches(%q) module = %q, want %q", test.path, mod.Single(), test.wantMod)
		}
		ver, hasVer := res.Get(NameString("version"))
		if hasVer != test.hasVer {
			t.Errorf("Matches(%q) hasVer = %v, want %v", test.path, hasVer, test.hasVer)
		}
		if hasVer && ver.Single() != test.wantVer {
			t.Errorf("Matches(%q) version = %q, want %q", test.path, ver.Single(), test.wantVer)
		}
		sub, _ := res.Get(NameString("path"))
		if diff := cmp.Diff(test.wantSub, sub.List()); diff != "" {
			t.Errorf("Matches(%q) path list mismatch (-want +got):\n%s", test.path, diff)
		}
	}
}

func TestMatcherEndAnchoredFalse(t *testing.T) {
	tokens, err := Parse("/x/:module")
	if err != nil {
		t.Fatal(err)
	}
	m, err := NewMatcher(tokens, &MatchOptions{EndAnchored: false})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := m.Matches("/x/oa"); !ok {
		t.Error("Matches(\"/x/oa\") with EndAnchored=false: got false, want true (partial schema prefix)")
	}
}

func TestRoundTrip(t *testing.T) {
	schema := "/x/:module@:version?/:path*"
	tokens, err := Parse(schema)
	if err != nil {
		t.Fatal(err)
	}
	m, err := NewMatcher(tokens, nil)
	if err != nil {
		t.Fatal(err)
	}
	c := NewCompiler(tokens)

	for _, path := range []string{
		"/x/oak@v1.2.3/sub1/sub2",
		"/x/oak/sub1",
	} {
		res, ok := m.Matches(path)
		if !ok {
			t.Fatalf("Matches(%q) = false, want true", path)
		}
		got, err := c.ToPath(res)
		if err != nil {
			t.Fatalf("ToPath: %v", err)
		}
		if got != path {
			t.Errorf("round trip: got %q, want %q", got, path)
		}
	}
}
