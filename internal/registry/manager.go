// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/modreg/intellisense/internal/derrors"
	"github.com/modreg/intellisense/internal/fetchcache"
)

// configPath is the well-known location of a registry's configuration
// document, relative to its origin.
const configPath = "/.well-known/deno-import-intellisense.json"

// negativeCacheHeaders is installed in place of a failed config fetch, so
// that subsequent attempts fail fast without a network round trip.
var negativeCacheHeaders = http.Header{"Cache-Control": {"max-age=604800, immutable"}}

// Manager maintains the mapping from origin to enabled registry
// configurations, and fetches/validates configuration documents through an
// injected ArtifactFetcher.
type Manager struct {
	fetcher fetchcache.ArtifactFetcher

	mu      sync.RWMutex
	origins map[string][]Configuration
}

// NewManager returns an empty Manager backed by fetcher.
func NewManager(fetcher fetchcache.ArtifactFetcher) *Manager {
	return &Manager{
		fetcher: fetcher,
		origins: map[string][]Configuration{},
	}
}

// baseURL returns the ASCII-serialised origin (scheme + authority) of u.
func baseURL(u *url.URL) string {
	return u.Scheme + "://" + u.Host
}

// parseOrigin parses s as an absolute URL, returning its base origin
// string, or BadOrigin if it does not parse as one.
func parseOrigin(s string) (string, error) {
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return "", fmt.Errorf("%w: %q", derrors.BadOrigin, s)
	}
	return baseURL(u), nil
}

// Enable fetches and stores the registry configuration for origin, if it
// is not already known. origin + "/.well-known/deno-import-intellisense.json"
// is guessed as the configuration URL.
func (m *Manager) Enable(ctx context.Context, origin string) (err error) {
	defer derrors.Wrap(&err, "Enable(%q)", origin)

	key, err := parseOrigin(origin)
	if err != nil {
		return err
	}
	if m.known(key) {
		return nil
	}
	configs, err := m.fetchConfig(ctx, key+configPath)
	if err != nil {
		return err
	}
	m.store(key, configs)
	return nil
}

// EnableCustom enables a registry from an exact configuration document URL
// rather than guessing origin + configPath. Intended for tests and custom
// bootstrapping, where the configuration does not live at the well-known
// path.
func (m *Manager) EnableCustom(ctx context.Context, specifier string) (err error) {
	defer derrors.Wrap(&err, "EnableCustom(%q)", specifier)

	u, perr := url.Parse(specifier)
	if perr != nil || !u.IsAbs() {
		return fmt.Errorf("%w: %q", derrors.BadOrigin, specifier)
	}
	key := baseURL(u)
	if m.known(key) {
		return nil
	}
	configs, err := m.fetchConfig(ctx, specifier)
	if err != nil {
		return err
	}
	m.store(key, configs)
	return nil
}

// Disable removes origin's configuration, if any, from memory.
func (m *Manager) Disable(origin string) (err error) {
	defer derrors.Wrap(&err, "Disable(%q)", origin)

	key, err := parseOrigin(origin)
	if err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.origins, key)
	m.mu.Unlock()
	return nil
}

// CheckOrigin fetches and validates origin's configuration without
// storing it. If the fetch itself fails, a negative-cache entry is
// installed so subsequent checks fail fast.
func (m *Manager) CheckOrigin(ctx context.Context, origin string) (err error) {
	defer derrors.Wrap(&err, "CheckOrigin(%q)", origin)

	key, err := parseOrigin(origin)
	if err != nil {
		return err
	}
	_, err = m.fetchConfig(ctx, key+configPath)
	return err
}

// Configurations returns the configurations stored for origin, if known.
func (m *Manager) Configurations(origin string) ([]Configuration, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	configs, ok := m.origins[origin]
	return configs, ok
}

// Origins returns every currently enabled origin.
func (m *Manager) Origins() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	origins := make([]string, 0, len(m.origins))
	for k := range m.origins {
		origins = append(origins, k)
	}
	return origins
}

func (m *Manager) known(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.origins[key]
	return ok
}

func (m *Manager) store(key string, configs []Configuration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.origins[key] = configs
}

// fetchConfig retrieves and validates the configuration document at
// specifier. On fetch failure, it installs a negative-cache entry for
// specifier so a subsequent call fails without a network round trip.
func (m *Manager) fetchConfig(ctx context.Context, specifier string) (_ []Configuration, err error) {
	defer derrors.Wrap(&err, "fetchConfig(%q)", specifier)

	entry, ferr := m.fetcher.Fetch(ctx, specifier)
	if ferr != nil {
		_ = m.fetcher.Set(ctx, specifier, negativeCacheHeaders, nil)
		return nil, fmt.Errorf("%w: %v", derrors.FetchFailed, ferr)
	}
	var config ConfigurationJSON
	if jerr := json.Unmarshal(entry.Body, &config); jerr != nil {
		return nil, fmt.Errorf("%w: %v", derrors.DecodeFailed, jerr)
	}
	if verr := Validate(config); verr != nil {
		return nil, verr
	}
	return config.Registries, nil
}
