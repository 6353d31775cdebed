// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fetchcache

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/modreg/intellisense/internal/derrors"
)

// defaultTTL is used for a successfully fetched, positively cached entry
// whose response carried no cache-control max-age.
const defaultTTL = 5 * time.Minute

// RedisFetcher is an ArtifactFetcher backed by Redis, for a language-server
// host that already runs Redis for its other caches and wants to share it
// for registry-config and variable-item caching.
type RedisFetcher struct {
	client *redis.Client
	http   *http.Client
}

// NewRedisFetcher returns a RedisFetcher using the given Redis client.
func NewRedisFetcher(client *redis.Client, httpClient *http.Client) *RedisFetcher {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &RedisFetcher{client: client, http: httpClient}
}

type redisEntry struct {
	Body    []byte      `json:"body"`
	Headers http.Header `json:"headers"`
}

// Fetch implements ArtifactFetcher.
func (f *RedisFetcher) Fetch(ctx context.Context, url string) (_ Entry, err error) {
	defer derrors.Wrap(&err, "RedisFetcher.Fetch(%q)", url)

	raw, err := f.client.Get(ctx, url).Bytes()
	if err == nil {
		var re redisEntry
		if jerr := json.Unmarshal(raw, &re); jerr == nil {
			return Entry{Body: re.Body, Headers: re.Headers}, nil
		}
	} else if err != redis.Nil {
		return Entry{}, fmt.Errorf("%w: %v", derrors.FetchFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %v", derrors.FetchFailed, err)
	}
	resp, err := f.http.Do(req)
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
	headers := resp.Header.Clone()
	if err := f.put(ctx, url, headers, body); err != nil {
		return Entry{}, err
	}
	return Entry{Body: body, Headers: headers}, nil
}

// Set implements ArtifactFetcher.
func (f *RedisFetcher) Set(ctx context.Context, url string, headers http.Header, body []byte) (err error) {
	defer derrors.Wrap(&err, "RedisFetcher.Set(%q)", url)
	return f.put(ctx, url, headers, body)
}

func (f *RedisFetcher) put(ctx context.Context, url string, headers http.Header, body []byte) error {
	buf, err := json.Marshal(redisEntry{Body: body, Headers: headers})
	if err != nil {
		return fmt.Errorf("%w: %v", derrors.FetchFailed, err)
	}
	if _, err := f.client.Set(ctx, url, buf, cacheControlTTL(headers)).Result(); err != nil {
		return fmt.Errorf("%w: %v", derrors.FetchFailed, err)
	}
	return nil
}

// cacheControlTTL parses the max-age directive of a Cache-Control header,
// falling back to defaultTTL when absent or malformed.
func cacheControlTTL(headers http.Header) time.Duration {
	cc := headers.Get("cache-control")
	for _, directive := range strings.Split(cc, ",") {
		directive = strings.TrimSpace(directive)
		if rest, ok := strings.CutPrefix(directive, "max-age="); ok {
			if secs, err := strconv.Atoi(rest); err == nil {
				return time.Duration(secs) * time.Second
			}
		}
	}
	return defaultTTL
}
