// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Registryls enables one or more module-registry origins and prints the
// completions the engine offers for a specifier typed on the command
// line, with the cursor at its end.
//
// Usage:
//
//	registryls -origin https://deno.land <partial-specifier>
//
// Pass -redis to back the artifact fetcher with Redis instead of the
// default in-memory cache.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/modreg/intellisense/internal/complete"
	"github.com/modreg/intellisense/internal/fetchcache"
	"github.com/modreg/intellisense/internal/log"
	"github.com/modreg/intellisense/internal/registry"
)

var (
	origins   = flag.String("origin", "", "comma-separated list of registry origins to enable before completing")
	redisAddr = flag.String("redis", "", "address of a Redis server to use for the artifact cache (default: in-memory)")
	cacheSize = flag.Int("cachesize", 1000, "entry capacity of the in-memory artifact cache (ignored with -redis)")
)

func main() {
	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintf(out, "usage: %s -origin ORIGIN[,ORIGIN...] <partial-specifier>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	ctx := context.Background()

	fetcher, err := newFetcher()
	if err != nil {
		die("%v", err)
	}
	mgr := registry.NewManager(fetcher)
	for _, origin := range collectOrigins(*origins) {
		if err := mgr.Enable(ctx, origin); err != nil {
			die("enabling %s: %v", origin, err)
		}
	}

	engine := complete.NewEngine(mgr, fetcher)
	specifier := flag.Arg(0)
	list := engine.GetCompletions(ctx, specifier, len([]rune(specifier)), complete.Range{}, alwaysFalse)
	if list == nil {
		fmt.Println("(no completions)")
		return
	}
	for _, item := range list.Items {
		detail := item.Detail
		if detail != "" {
			detail = " " + detail
		}
		fmt.Printf("%s%s -> %s\n", item.Label, detail, item.TextEdit.NewText)
	}
	if list.IsIncomplete {
		fmt.Println("(incomplete -- more results may exist)")
	}
}

// alwaysFalse treats every final-segment specifier as not yet fetched, so
// completions always carry their follow-up "deno.cache" command -- this
// CLI has no cache of previously resolved specifiers to consult.
func alwaysFalse(string) bool { return false }

func collectOrigins(flagValue string) []string {
	var out []string
	for _, o := range strings.Split(flagValue, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}

func newFetcher() (fetchcache.ArtifactFetcher, error) {
	if *redisAddr == "" {
		return fetchcache.NewMemFetcher(*cacheSize, http.DefaultClient), nil
	}
	client := redis.NewClient(&redis.Options{Addr: *redisAddr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis at %s: %w", *redisAddr, err)
	}
	return fetchcache.NewRedisFetcher(client, http.DefaultClient), nil
}

func die(format string, args ...any) {
	log.Errorf(context.Background(), format, args...)
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
