// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fetchcache

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/modreg/intellisense/internal/derrors"
	"github.com/modreg/intellisense/internal/lru"
)

// MemFetcher is an ArtifactFetcher backed by an in-memory LRU cache and a
// real HTTP client for cache misses. It is the default, dependency-free
// ArtifactFetcher used by cmd/registryls and by this module's own tests.
type MemFetcher struct {
	client *http.Client
	cache  *lru.Cache[string, Entry]
}

// NewMemFetcher returns a MemFetcher that holds at most size cached
// entries, fetching misses with client (http.DefaultClient if nil).
func NewMemFetcher(size int, client *http.Client) *MemFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &MemFetcher{
		client: client,
		cache:  lru.New[string, Entry](size),
	}
}

// Fetch implements ArtifactFetcher.
func (f *MemFetcher) Fetch(ctx context.Context, url string) (_ Entry, err error) {
	defer derrors.Wrap(&err, "MemFetcher.Fetch(%q)", url)

	if e, ok := f.cache.Get(url); ok {
		return e, nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %v", derrors.FetchFailed, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %v", derrors.FetchFailed, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %v", derrors.FetchFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return Entry{}, fmt.Errorf("%w: %s returned status %d", derrors.FetchFailed, url, resp.StatusCode)
	}
	e := Entry{Body: body, Headers: resp.Header.Clone()}
	f.cache.Put(url, e)
	return e, nil
}

// Set implements ArtifactFetcher.
func (f *MemFetcher) Set(_ context.Context, url string, headers http.Header, body []byte) error {
	f.cache.Put(url, Entry{Body: body, Headers: headers})
	return nil
}
