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

// Package config defines the configuration file format used by the micrordb
// tools and servers.
package config

// MicroRDB is the root of the configuration file. Every section is optional;
// a nil section means its defaults apply.
type MicroRDB struct {
	// Configuration for the HTTP front end.
	API *API `json:"api,omitempty"`

	// If non-nil, the configuration for distributed tracing (OpenTracing). If
	// nil, spans are recorded locally for metrics but not reported anywhere.
	Tracing *Tracing `json:"tracing,omitempty"`

	// Settings for rendering parse trees with Graphviz.
	Graphviz *Graphviz `json:"graphviz,omitempty"`
}

// API contains configuration specific to the HTTP front end.
type API struct {
	// The host:port or :port on which to serve HTTP requests. Defaults to
	// DefaultHTTPAddress.
	HTTPAddress string `json:"httpAddress"`

	// The maximum number of parsed programs to keep in the parse cache. Zero
	// selects DefaultCacheSize; a negative value disables the cache.
	CacheSize int `json:"cacheSize"`

	// The largest request body, in bytes, the server will read. Zero selects
	// DefaultMaxBodyBytes.
	MaxBodyBytes int64 `json:"maxBodyBytes"`
}

// Defaults for API fields left unset.
const (
	DefaultHTTPAddress  = "localhost:9987"
	DefaultCacheSize    = 1024
	DefaultMaxBodyBytes = 1 << 20
)

// WithDefaults returns a copy of cfg in which every unset field holds its
// default. cfg may be nil.
func (cfg *API) WithDefaults() API {
	var res API
	if cfg != nil {
		res = *cfg
	}
	if res.HTTPAddress == "" {
		res.HTTPAddress = DefaultHTTPAddress
	}
	if res.CacheSize == 0 {
		res.CacheSize = DefaultCacheSize
	}
	if res.MaxBodyBytes <= 0 {
		res.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return res
}

// Tracing contains the configuration for reporting traces.
type Tracing struct {
	// Must be "jaeger" (for now).
	Type string `json:"type"`

	// The host:port endpoints that accept jaeger.thrift over HTTP directly
	// from clients. Requests are spread over these when one fails.
	Collectors []string `json:"collectors"`
}

// Graphviz contains settings for rendering parse trees.
type Graphviz struct {
	// One of "pdf", "png" or "svg". Defaults to the output filename's
	// extension, then to "pdf".
	Format string `json:"format,omitempty"`
}
