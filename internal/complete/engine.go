// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package complete

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/modreg/intellisense/internal/fetchcache"
	"github.com/modreg/intellisense/internal/log"
	"github.com/modreg/intellisense/internal/pathregex"
	"github.com/modreg/intellisense/internal/registry"
)

// Engine answers completion requests by matching a partially typed
// specifier against the schemas enabled for its origin, and fetching the
// candidate values a matched schema parameter names from the registry's
// variable endpoints.
type Engine struct {
	manager *registry.Manager
	fetcher fetchcache.ArtifactFetcher
}

// NewEngine returns an Engine that resolves origins through manager and
// fetches variable endpoints through fetcher.
func NewEngine(manager *registry.Manager, fetcher fetchcache.ArtifactFetcher) *Engine {
	return &Engine{manager: manager, fetcher: fetcher}
}

// GetCompletions returns completions for the cursor at offset (counted in
// Unicode scalar values) within currentSpecifier. rng is copied verbatim
// into every returned TextEdit. specifierExists is consulted to decide
// whether a final-segment completion needs a follow-up "fetch and cache"
// command. It returns nil if there is nothing useful to suggest.
func (e *Engine) GetCompletions(ctx context.Context, currentSpecifier string, offset int, rng Range, specifierExists SpecifierExistsFunc) *List {
	u, err := url.Parse(currentSpecifier)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return e.originCompletions(currentSpecifier, rng)
	}
	origin := u.Scheme + "://" + u.Host
	originLen := runeLen(origin)
	if offset < originLen {
		return e.originCompletions(currentSpecifier, rng)
	}
	configs, ok := e.manager.Configurations(origin)
	if !ok {
		return e.originCompletions(currentSpecifier, rng)
	}
	return e.completeFromConfigs(ctx, u, configs, origin, currentSpecifier, offset-originLen, rng, specifierExists)
}

// originCompletions suggests whichever known origins begin with partial
// (its trailing slash, if any, stripped first), for when currentSpecifier
// does not yet parse as an absolute URL with enough of a host typed to
// look up a registry's configurations.
func (e *Engine) originCompletions(partial string, rng Range) *List {
	partial = strings.TrimSuffix(partial, "/")
	var list *List
	for _, origin := range e.manager.Origins() {
		if !strings.HasPrefix(origin, partial) {
			continue
		}
		if list == nil {
			list = &List{}
		}
		list.Items = append(list.Items, Item{
			Label:      origin,
			Kind:       KindFolder,
			Detail:     "(registry)",
			SortText:   "2",
			FilterText: origin,
			TextEdit:   &TextEdit{Range: rng, NewText: origin},
		})
	}
	return list
}

// completeFromConfigs matches path (currentSpecifier with its origin
// stripped) against every enabled schema for origin, longest prefix
// first, and assembles completions for whichever token the cursor (at
// pathOffset) classifies into.
func (e *Engine) completeFromConfigs(ctx context.Context, specURL *url.URL, configs []registry.Configuration, origin, currentSpecifier string, pathOffset int, rng Range, specifierExists SpecifierExistsFunc) *List {
	path := strings.TrimPrefix(currentSpecifier, origin)

	completions := map[string]Item{}
	var order []string
	set := func(key string, item Item) {
		if _, ok := completions[key]; !ok {
			order = append(order, key)
		}
		completions[key] = item
	}

	anyMatch := false
	isIncomplete := false

	for _, reg := range configs {
		tokens, err := pathregex.Parse(reg.Schema)
		if err != nil {
			log.Errorf(ctx, "parsing schema %q for origin %q: %v", reg.Schema, origin, err)
			continue
		}
		if len(tokens) == 0 {
			continue
		}
		lastKeyName, hasLastKeyName := lastStringKeyName(tokens)

		matched := false
		for i := len(tokens); i >= 1; i-- {
			m, merr := pathregex.NewMatcher(tokens[:i], nil)
			if merr != nil {
				log.Errorf(ctx, "compiling schema %q for origin %q: %v", reg.Schema, origin, merr)
				break
			}
			result, ok := m.Matches(path)
			if !ok {
				continue
			}
			matched = true
			ct := classify(pathOffset, tokens, result)
			switch ct.kind {
			case completorLiteral:
				fullText := insertAt(currentSpecifier, pathOffset+runeLen(origin), ct.literal)
				set(ct.literal, Item{
					Label:      ct.literal,
					Kind:       KindFolder,
					SortText:   "1",
					FilterText: fullText,
					TextEdit:   &TextEdit{Range: rng, NewText: fullText},
				})
			case completorKey:
				if inc := e.completeKey(ctx, reg, origin, currentSpecifier, tokens, result, ct, lastKeyName, hasLastKeyName, rng, specifierExists, set); inc {
					isIncomplete = true
				}
			}
			break
		}
		if matched {
			anyMatch = true
			continue
		}

		// No prefix of the schema matched at all: fall back to the first
		// token, the only one for which we can propose something without
		// any captured context.
		first := tokens[0]
		if first.IsLiteral() {
			if strings.HasPrefix(first.Literal, path) {
				modified := *specURL
				modified.Path = first.Literal
				modified.RawPath = ""
				fullText := modified.String()
				set(first.Literal, Item{
					Label:      first.Literal,
					Kind:       KindFolder,
					SortText:   "1",
					Preselect:  true,
					FilterText: fullText,
					TextEdit:   &TextEdit{Range: rng, NewText: fullText},
				})
			}
			continue
		}
		k := first.Key
		if !k.Name.IsString() || k.Prefix == "" {
			continue
		}
		// No earlier parameter is known yet, so classify as if the cursor
		// sat in this key's prefix against an empty match result; this
		// reuses the same item-assembly rules as a matched prefix.
		ct := completorType{kind: completorKey, key: k, prefix: k.Prefix, index: 0}
		if inc := e.completeKey(ctx, reg, origin, currentSpecifier, tokens[:1], pathregex.NewMatchResult(), ct, lastKeyName, hasLastKeyName, rng, specifierExists, set); inc {
			isIncomplete = true
		}
	}

	if !anyMatch && len(completions) == 0 {
		return nil
	}
	list := &List{IsIncomplete: isIncomplete}
	for _, key := range order {
		list.Items = append(list.Items, completions[key])
	}
	return list
}

// completeKey builds the completion items for a cursor classified into the
// prefix or value region of a matched key, one item per value the
// variable's endpoint returns.
func (e *Engine) completeKey(ctx context.Context, reg registry.Configuration, origin, currentSpecifier string, tokens []pathregex.Token, result *pathregex.MatchResult, ct completorType, lastKeyName string, hasLastKeyName bool, rng Range, specifierExists SpecifierExistsFunc, set func(string, Item)) (isIncomplete bool) {
	k := ct.key
	if !k.Name.IsString() {
		return false
	}
	v, ok := reg.VariableForKey(k.Name.StringValue())
	if !ok {
		return false
	}
	endpoint, err := getEndpointWithMatch(v.URL, origin, tokens, result, k.Name.StringValue())
	if err != nil {
		log.Errorf(ctx, "building endpoint for variable %q: %v", k.Name, err)
		return false
	}
	items := e.fetchVariableItems(ctx, endpoint)
	if items == nil {
		return false
	}

	compiler := pathregex.NewCompiler(tokens[:ct.index+1])
	base, err := url.Parse(origin)
	if err != nil {
		return items.IsIncomplete
	}
	isLast := hasLastKeyName && k.Name.StringValue() == lastKeyName

	for idx, item := range items.Items {
		params := result.Clone()
		params.Set(k.Name, pathregex.StringValue(item))
		itemPath, perr := compiler.ToPath(params)
		if perr != nil {
			continue
		}
		itemURL, perr := base.Parse(itemPath)
		if perr != nil {
			continue
		}
		itemSpecifier := itemURL.String()

		label := item
		if ct.prefix != "" {
			label = ct.prefix + item
		}
		kind := KindFolder
		if isLast {
			kind = KindFile
		}
		var command *Command
		if isLast && !specifierExists(itemSpecifier) {
			command = &Command{Command: "deno.cache", Arguments: []any{itemSpecifier}}
		}
		var data map[string]any
		if v.Documentation != "" {
			if docURL, derr := getEndpoint(v.Documentation, currentSpecifier, k.Name.StringValue(), item); derr == nil {
				data = map[string]any{"documentation": docURL}
			}
		}
		set(item, Item{
			Label:      label,
			Kind:       kind,
			Detail:     "(" + k.Name.StringValue() + ")",
			SortText:   fmt.Sprintf("%010d", idx+1),
			FilterText: itemSpecifier,
			TextEdit:   &TextEdit{Range: rng, NewText: itemSpecifier},
			Command:    command,
			Preselect:  items.HasPreselect && item == items.Preselect,
			Data:       data,
		})
	}
	return items.IsIncomplete
}

// fetchVariableItems fetches and decodes a variable's item list, logging
// and swallowing any failure: a registry that is briefly unreachable
// should not surface an editor-facing error, it should just offer no
// completions for that parameter.
func (e *Engine) fetchVariableItems(ctx context.Context, endpoint string) *VariableItems {
	entry, err := e.fetcher.Fetch(ctx, endpoint)
	if err != nil {
		log.Errorf(ctx, "fetching variable items from %q: %v", endpoint, err)
		return nil
	}
	var items VariableItems
	if err := json.Unmarshal(entry.Body, &items); err != nil {
		log.Errorf(ctx, "decoding variable items from %q: %v", endpoint, err)
		return nil
	}
	return &items
}

// GetDocumentation fetches and decodes the documentation payload at
// endpoint, returning nil if it cannot be retrieved or decoded.
func (e *Engine) GetDocumentation(ctx context.Context, endpoint string) *Documentation {
	entry, err := e.fetcher.Fetch(ctx, endpoint)
	if err != nil {
		log.Errorf(ctx, "fetching documentation from %q: %v", endpoint, err)
		return nil
	}
	var doc Documentation
	if err := json.Unmarshal(entry.Body, &doc); err != nil {
		log.Errorf(ctx, "decoding documentation from %q: %v", endpoint, err)
		return nil
	}
	return &doc
}

// lastStringKeyName returns the name of the final token, if it is a
// named key: the only parameter whose completions are files rather than
// folders, since nothing follows it in the path.
func lastStringKeyName(tokens []pathregex.Token) (string, bool) {
	last := tokens[len(tokens)-1]
	if last.IsLiteral() || !last.Key.Name.IsString() {
		return "", false
	}
	return last.Key.Name.StringValue(), true
}

// insertAt inserts s into text at the Unicode-scalar-value offset offset.
func insertAt(text string, offset int, s string) string {
	r := []rune(text)
	if offset < 0 {
		offset = 0
	}
	if offset > len(r) {
		offset = len(r)
	}
	return string(r[:offset]) + s + string(r[offset:])
}
