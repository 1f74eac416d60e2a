// Copyright 2019 eBay Inc.
// Primary authors: Simon Fell, Diego Ongaro,
//                  Raymond Kroeker, and Sathish Kandasamy.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package api

import (
	"fmt"

	"github.com/ebay/micrordb/query"
	lru "github.com/hashicorp/golang-lru/v2"
)

// parseCache is a fixed-size LRU cache of compile results, keyed by the
// program text's fingerprint. Results are shared between requests and must
// not be modified. A parseCache with a nil 'entries' caches nothing.
type parseCache struct {
	entries *lru.Cache[uint64, *cacheEntry]
}

type cacheEntry struct {
	// The program text, compared on lookup since fingerprints can collide.
	text string
	res  *query.Result
	err  error
}

// newParseCache returns a cache holding up to 'capacity' results. A capacity
// below 1 disables caching.
func newParseCache(capacity int) *parseCache {
	if capacity < 1 {
		return &parseCache{}
	}
	entries, err := lru.New[uint64, *cacheEntry](capacity)
	if err != nil {
		panic(fmt.Sprintf("unable to create parse cache of size %d: %v", capacity, err))
	}
	return &parseCache{entries: entries}
}

// get returns the cached outcome of compiling 'text', and whether there was
// one.
func (c *parseCache) get(key uint64, text string) (*query.Result, error, bool) {
	if c.entries == nil {
		return nil, nil, false
	}
	entry, ok := c.entries.Get(key)
	if !ok || entry.text != text {
		return nil, nil, false
	}
	return entry.res, entry.err, true
}

// put records the outcome of compiling 'text', evicting the least recently
// used entry if the cache is full. An entry with the same key is replaced.
func (c *parseCache) put(key uint64, text string, res *query.Result, err error) {
	if c.entries == nil {
		return
	}
	c.entries.Add(key, &cacheEntry{text: text, res: res, err: err})
	metrics.cacheEntries.Set(float64(c.entries.Len()))
}

func (c *parseCache) len() int {
	if c.entries == nil {
		return 0
	}
	return c.entries.Len()
}
