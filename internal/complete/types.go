// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package complete implements the completion engine: given a registry
// manager, a partially typed URL-form module specifier, and the cursor
// offset within it, it returns a ranked list of completion items.
package complete

// Position is a zero-based line/character position within a text document,
// the way an editor protocol typically represents one. The engine treats
// it as opaque: it only ever copies a Range it was given into the
// completions it returns.
type Position struct {
	Line      int
	Character int
}

// Range is a span within the document being edited.
type Range struct {
	Start Position
	End   Position
}

// TextEdit replaces the text in Range with NewText.
type TextEdit struct {
	Range   Range
	NewText string
}

// ItemKind classifies a completion item the way an editor groups icons in
// its completion popup.
type ItemKind int

const (
	// KindFolder marks an item that completes a path segment that is not
	// the final one (e.g. a module name, a version).
	KindFolder ItemKind = iota
	// KindFile marks an item that completes the final path segment.
	KindFile
)

// Command is a follow-up action the client should run after accepting a
// completion item.
type Command struct {
	Title     string
	Command   string
	Arguments []any
}

// Item is a single completion suggestion.
type Item struct {
	Label      string
	Kind       ItemKind
	Detail     string
	SortText   string
	FilterText string
	TextEdit   *TextEdit
	Command    *Command
	Preselect  bool
	// Data carries opaque information the client sends back on a
	// completion-item-resolve request; here, a "documentation" URL to
	// fetch lazily.
	Data map[string]any
}

// List is a set of completion items, plus whether the set is known to be
// incomplete (in which case the client should re-request as the user
// types further).
type List struct {
	Items        []Item
	IsIncomplete bool
}

// SpecifierExistsFunc reports whether a fully resolved module specifier is
// already known to exist (e.g. cached on disk), used to decide whether a
// "fetch and cache this module" follow-up command is needed.
type SpecifierExistsFunc func(specifier string) bool
