// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package registry holds the registry configuration model, its validator,
// and the Manager that maintains the origin -> configurations mapping for
// the completion engine.
package registry

import (
	"fmt"

	"github.com/modreg/intellisense/internal/derrors"
	"github.com/modreg/intellisense/internal/pathregex"
	"github.com/modreg/intellisense/internal/urltemplate"
)

// Variable attaches an endpoint URL (and optional documentation URL) to a
// schema parameter.
type Variable struct {
	Key           string `json:"key"`
	Documentation string `json:"documentation,omitempty"`
	URL           string `json:"url"`
}

// Configuration is a single schema and the variables that fill in its
// named parameters.
type Configuration struct {
	Schema    string     `json:"schema"`
	Variables []Variable `json:"variables"`
}

// VariableForKey returns the variable declared for the named parameter
// key, if any.
func (c Configuration) VariableForKey(key string) (Variable, bool) {
	for _, v := range c.Variables {
		if v.Key == key {
			return v, true
		}
	}
	return Variable{}, false
}

// ConfigurationJSON is the decoded body of a registry's well-known
// configuration endpoint.
type ConfigurationJSON struct {
	Version    int             `json:"version"`
	Registries []Configuration `json:"registries"`
}

// Validate enforces the version and variable-dependency invariants of a
// decoded registry configuration.
func Validate(config ConfigurationJSON) (err error) {
	defer derrors.Wrap(&err, "Validate")

	if config.Version != 1 && config.Version != 2 {
		return fmt.Errorf("%w: expected version 1 or 2, got %d", derrors.InvalidConfig, config.Version)
	}

	for _, reg := range config.Registries {
		tokens, perr := pathregex.Parse(reg.Schema)
		if perr != nil {
			return fmt.Errorf("%w: schema %q: %v", derrors.InvalidConfig, reg.Schema, perr)
		}

		var keyNames []string
		for _, t := range tokens {
			if t.IsLiteral() || !t.Key.Name.IsString() {
				continue
			}
			keyNames = append(keyNames, t.Key.Name.StringValue())
		}

		for _, name := range keyNames {
			if _, ok := reg.VariableForKey(name); !ok {
				return fmt.Errorf("%w: schema %q is missing a variable declaration for key %q", derrors.InvalidConfig, reg.Schema, name)
			}
		}

		for _, v := range reg.Variables {
			keyIndex := indexOf(keyNames, v.Key)
			if keyIndex < 0 {
				return fmt.Errorf("%w: schema %q is missing a path parameter for variable %q", derrors.InvalidConfig, reg.Schema, v.Key)
			}
			limitedKeys := keyNames[:keyIndex]
			for _, ref := range urltemplate.ParseReplacementVariables(v.URL) {
				if ref == v.Key && config.Version == 1 {
					return fmt.Errorf("%w: url %q (for variable %q in schema %q) references itself, which is not allowed in version 1", derrors.InvalidConfig, v.URL, v.Key, reg.Schema)
				}
				if indexOf(limitedKeys, ref) < 0 && ref != v.Key {
					return fmt.Errorf("%w: url %q (for variable %q in schema %q) references %q, which is defined to the right of %q", derrors.InvalidConfig, v.URL, v.Key, reg.Schema, ref, v.Key)
				}
			}
		}
	}
	return nil
}

func indexOf(ss []string, s string) int {
	for i, v := range ss {
		if v == s {
			return i
		}
	}
	return -1
}
