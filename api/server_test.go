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
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ebay/micrordb/config"
	"github.com/ebay/micrordb/query"
	"github.com/ebay/micrordb/query/inventory"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func post(t *testing.T, s *Server, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func Test_New_defaults(t *testing.T) {
	assert := assert.New(t)
	s := New(nil)
	assert.Equal(config.DefaultHTTPAddress, s.cfg.HTTPAddress)
	assert.Equal(config.DefaultCacheSize, s.cfg.CacheSize)
	assert.Equal(int64(config.DefaultMaxBodyBytes), s.cfg.MaxBodyBytes)

	s = New(&config.API{HTTPAddress: ":1", CacheSize: -1, MaxBodyBytes: 5})
	assert.Equal(":1", s.cfg.HTTPAddress)
	assert.Equal(-1, s.cfg.CacheSize)
	assert.Equal(int64(5), s.cfg.MaxBodyBytes)
}

func Test_parse(t *testing.T) {
	assert := assert.New(t)
	text := "t = a: int;\nt <- 1 + 2;"
	rec := post(t, New(nil), "/parse", text)
	assert.Equal(http.StatusOK, rec.Code)
	assert.Equal("application/json", rec.Header().Get("Content-Type"))
	var resp parseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(parseResponse{
		Statements:  2,
		Fingerprint: fmt.Sprintf("%016x", query.Fingerprint(text)),
		Script:      "t = a: int;\nt <- (1 + 2);",
	}, resp)
}

func Test_parseSyntaxError(t *testing.T) {
	tests := []struct {
		name string
		body string
		line int
		msg  string
	}{
		{"lexer", "t ~;\n$", 2, "lexer: line 2 column 1: invalid character '$'"},
		{"parser", "t ~;\n\nt ~ ~;", 3, "parser: line 3: expected semicolon, got tilde \"~\""},
		{"float range", "t ~;\nt <- " + strings.Repeat("9", 400) + ".5;", 2,
			"lexer: line 2 column 6: the float " + strings.Repeat("9", 400) + ".5 is out of 64 bit float range"},
		{"chars width", "t = a: chars -5;", 1,
			"parser: line 1: invalid integer literal \"-5\": chars width must be at least 1"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rec := post(t, New(nil), "/parse", test.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var resp struct {
				Error string `json:"error"`
				Line  int    `json:"line"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, test.line, resp.Line)
			assert.Equal(t, test.msg, resp.Error)
		})
	}
}

func Test_bodyLimits(t *testing.T) {
	s := New(&config.API{MaxBodyBytes: 8})
	rec := post(t, s, "/parse", "t ~; u ~; v ~;")
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), "program exceeds 8 bytes")

	rec = post(t, s, "/parse", "\xff;")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "UTF-8")
}

func Test_tokens(t *testing.T) {
	rec := post(t, New(nil), "/tokens", "t <- -1,\n\"x\";")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp []tokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []tokenResponse{
		{Kind: "identifier", Text: "t", Line: 1},
		{Kind: "left arrow", Text: "<-", Line: 1},
		{Kind: "integer literal", Text: "-1", Line: 1},
		{Kind: "comma", Text: ",", Line: 1},
		{Kind: "characters literal", Text: "x", Line: 2},
		{Kind: "semicolon", Text: ";", Line: 2},
	}, resp)
}

func Test_dot(t *testing.T) {
	rec := post(t, New(nil), "/dot", "t ~;")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/vnd.graphviz; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "graph G {\nnode0 [label=\"program\"];\nnode1 [label=\"drop\\nt\"];\nnode0 -- node1;\n}\n",
		rec.Body.String())
}

func Test_dotEscapesLabels(t *testing.T) {
	rec := post(t, New(nil), "/dot", `t <- "a\";`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `node3 [label="chars literal\na\\"];`)
}

func Test_tables(t *testing.T) {
	s := New(nil)
	rec := post(t, s, "/tables", "b ~; a <- 1;")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `
 table | created | dropped | inserted | updated | deleted | read |
 ----- | ------- | ------- | -------- | ------- | ------- | ---- |
 a     | 0       | 0       | 1        | 0       | 0       | 0    |
 b     | 0       | 1       | 0        | 0       | 0       | 0    |
`, "\n"+rec.Body.String())

	rec = post(t, s, "/tables?format=json", "a = x: int;")
	assert.Equal(t, http.StatusOK, rec.Code)
	var resp []inventory.Usage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []inventory.Usage{{Table: "a", Created: 1, Columns: []string{"x"}}}, resp)
}

func Test_notFound(t *testing.T) {
	rec := post(t, New(nil), "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	req := httptest.NewRequest("GET", "/parse", nil)
	rec = httptest.NewRecorder()
	New(nil).Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func Test_cacheIsUsed(t *testing.T) {
	assert := assert.New(t)
	s := New(&config.API{CacheSize: 2})
	hits := testutil.ToFloat64(metrics.cacheHits)
	misses := testutil.ToFloat64(metrics.cacheMisses)
	post(t, s, "/parse", "t ~;")
	post(t, s, "/tokens", "t ~;")
	post(t, s, "/parse", "u ~")
	post(t, s, "/parse", "u ~")
	assert.Equal(hits+2, testutil.ToFloat64(metrics.cacheHits))
	assert.Equal(misses+2, testutil.ToFloat64(metrics.cacheMisses))
	assert.Equal(2, s.cache.len())
}

func Test_requestsAreCounted(t *testing.T) {
	s := New(nil)
	ok := testutil.ToFloat64(metrics.requestsTotal.WithLabelValues("dot", "200"))
	bad := testutil.ToFloat64(metrics.requestsTotal.WithLabelValues("dot", "400"))
	post(t, s, "/dot", "t ~;")
	post(t, s, "/dot", "t")
	assert.Equal(t, ok+1, testutil.ToFloat64(metrics.requestsTotal.WithLabelValues("dot", "200")))
	assert.Equal(t, bad+1, testutil.ToFloat64(metrics.requestsTotal.WithLabelValues("dot", "400")))
}

func Test_metricsEndpoint(t *testing.T) {
	s := New(nil)
	post(t, s, "/parse", "t ~;")
	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "micrordb_api_requests_total")
	assert.Contains(t, rec.Body.String(), "micrordb_query_compiles_total")
}

func Test_Run(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- New(&config.API{HTTPAddress: addr}).Run(ctx)
	}()
	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Post("http://"+addr+"/parse", "text/plain", strings.NewReader("t ~;"))
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
