// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package complete

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/modreg/intellisense/internal/fetchcache"
	"github.com/modreg/intellisense/internal/registry"
)

// fakeFetcher serves fixed bodies for a set of URLs, the way the real
// artifact fetcher would after a successful HTTP round trip.
type fakeFetcher struct {
	bodies map[string]string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (fetchcache.Entry, error) {
	body, ok := f.bodies[url]
	if !ok {
		return fetchcache.Entry{}, errNotFound
	}
	return fetchcache.Entry{Body: []byte(body)}, nil
}

func (f *fakeFetcher) Set(_ context.Context, url string, _ http.Header, body []byte) error {
	f.bodies[url] = string(body)
	return nil
}

type notFoundError struct{}

func (notFoundError) Error() string { return "not found" }

var errNotFound = notFoundError{}

func newTestEngine(t *testing.T) (*Engine, *fakeFetcher) {
	t.Helper()
	fetcher := &fakeFetcher{bodies: map[string]string{
		"http://localhost:4545/lsp/registries/modules.json":        `{"items": ["a", "b"], "isIncomplete": true}`,
		"http://localhost:4545/lsp/registries/a/versions.json":     `["v1.0.0", "v1.0.1"]`,
		"http://localhost:4545/lsp/registries/b/versions.json":     `["v1.0.0"]`,
		"http://localhost:4545/lsp/registries/a/v1.0.0/paths.json": `["mod.ts", "deps.ts"]`,
		"http://localhost:4545/lsp/registries/b/v1.0.0/paths.json": `["mod.ts"]`,
		"http://localhost:4545/lsp/registries/doc_a.json":          `{"kind": "markdown", "value": "**a**"}`,
		"http://localhost:4545/lsp/registries/doc_b.json":          `{"kind": "markdown", "value": "**b**"}`,
	}}
	mgr := registry.NewManager(fetcher)
	config := registry.ConfigurationJSON{
		Version: 2,
		Registries: []registry.Configuration{
			{
				Schema: "/x/:module@:version?/:path*",
				Variables: []registry.Variable{
					{
						Key:           "module",
						Documentation: "http://localhost:4545/lsp/registries/doc_${module}.json",
						URL:           "http://localhost:4545/lsp/registries/modules.json",
					},
					{
						Key: "version",
						URL: "http://localhost:4545/lsp/registries/${module}/versions.json",
					},
					{
						Key: "path",
						URL: "http://localhost:4545/lsp/registries/${module}/${version}/paths.json",
					},
				},
			},
		},
	}
	body, err := json.Marshal(config)
	if err != nil {
		t.Fatal(err)
	}
	fetcher.bodies["http://localhost:4545/.well-known/deno-import-intellisense.json"] = string(body)
	if err := mgr.Enable(context.Background(), "http://localhost:4545"); err != nil {
		t.Fatal(err)
	}
	return NewEngine(mgr, fetcher), fetcher
}

func labels(list *List) []string {
	var got []string
	for _, it := range list.Items {
		got = append(got, it.Label)
	}
	sort.Strings(got)
	return got
}

func alwaysExists(string) bool { return true }

func TestGetCompletionsOrigin(t *testing.T) {
	e, _ := newTestEngine(t)
	list := e.GetCompletions(context.Background(), "h", 1, Range{}, alwaysExists)
	if list == nil {
		t.Fatal("got nil, want a completion list")
	}
	want := []string{"http://localhost:4545"}
	if diff := diffStrings(want, labels(list)); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	if list.Items[0].TextEdit.NewText != "http://localhost:4545" {
		t.Errorf("textEdit.NewText = %q, want %q", list.Items[0].TextEdit.NewText, "http://localhost:4545")
	}
}

func TestGetCompletionsFirstSegment(t *testing.T) {
	e, _ := newTestEngine(t)
	list := e.GetCompletions(context.Background(), "http://localhost:4545", 21, Range{}, alwaysExists)
	if list == nil || len(list.Items) != 1 {
		t.Fatalf("got %+v, want a single completion", list)
	}
	if list.Items[0].Label != "/x" {
		t.Errorf("Label = %q, want %q", list.Items[0].Label, "/x")
	}
	if list.Items[0].TextEdit.NewText != "http://localhost:4545/x" {
		t.Errorf("NewText = %q, want %q", list.Items[0].TextEdit.NewText, "http://localhost:4545/x")
	}
}

func TestGetCompletionsModules(t *testing.T) {
	e, _ := newTestEngine(t)
	spec := "http://localhost:4545/x/"
	list := e.GetCompletions(context.Background(), spec, runeLen(spec), Range{}, alwaysExists)
	if list == nil {
		t.Fatal("got nil, want a completion list")
	}
	if !list.IsIncomplete {
		t.Error("IsIncomplete = false, want true")
	}
	want := []string{"a", "b"}
	if diff := diffStrings(want, labels(list)); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestGetCompletionsModulesWithDocumentation(t *testing.T) {
	e, _ := newTestEngine(t)
	// The cursor sits right after "a", with no delimiter typed yet: per
	// classify's boundary rule this still counts as inside the module
	// value, so it re-suggests modules rather than jumping ahead to
	// versions -- exercising the path where a key already captured by the
	// schema match gets completed with its documentation endpoint attached.
	spec := "http://localhost:4545/x/a"
	list := e.GetCompletions(context.Background(), spec, runeLen(spec), Range{}, alwaysExists)
	if list == nil {
		t.Fatal("got nil, want a completion list")
	}
	if !list.IsIncomplete {
		t.Error("IsIncomplete = false, want true")
	}
	if len(list.Items) == 0 {
		t.Fatal("got no items")
	}
	for _, it := range list.Items {
		if it.Data == nil {
			t.Errorf("item %q: Data = nil, want documentation data", it.Label)
			continue
		}
		doc, _ := it.Data["documentation"].(string)
		wantDoc := "http://localhost:4545/lsp/registries/doc_" + it.Label + ".json"
		if doc != wantDoc {
			t.Errorf("item %q: documentation = %q, want %q", it.Label, doc, wantDoc)
		}
	}
}

func TestGetDocumentation(t *testing.T) {
	e, _ := newTestEngine(t)
	doc := e.GetDocumentation(context.Background(), "http://localhost:4545/lsp/registries/doc_a.json")
	if doc == nil {
		t.Fatal("got nil, want a documentation value")
	}
	if doc.Kind != "markdown" || doc.Value != "**a**" {
		t.Errorf("got %+v, want kind=markdown value=**a**", doc)
	}
}

func TestGetCompletionsFinalSegmentIsFile(t *testing.T) {
	e, _ := newTestEngine(t)
	spec := "http://localhost:4545/x/a@v1.0.0/"
	list := e.GetCompletions(context.Background(), spec, runeLen(spec), Range{}, func(string) bool { return false })
	if list == nil {
		t.Fatal("got nil, want a completion list")
	}
	want := []string{"mod.ts", "deps.ts"}
	sort.Strings(want)
	if diff := diffStrings(want, labels(list)); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	for _, it := range list.Items {
		if it.Kind != KindFile {
			t.Errorf("item %q: Kind = %v, want KindFile", it.Label, it.Kind)
		}
		if it.Detail != "(path)" {
			t.Errorf("item %q: Detail = %q, want %q", it.Label, it.Detail, "(path)")
		}
		if it.Command == nil || it.Command.Command != "deno.cache" {
			t.Errorf("item %q: Command = %+v, want a deno.cache command", it.Label, it.Command)
		}
	}
}

func TestGetCompletionsNoMatchReturnsNil(t *testing.T) {
	e, _ := newTestEngine(t)
	if list := e.GetCompletions(context.Background(), "http://example.org/nope", 23, Range{}, alwaysExists); list != nil {
		t.Errorf("got %+v, want nil for an unenabled origin", list)
	}
}

func diffStrings(want, got []string) string {
	sort.Strings(want)
	sort.Strings(got)
	return cmp.Diff(want, got)
}
