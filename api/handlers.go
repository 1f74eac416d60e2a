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
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/ebay/micrordb/query"
	"github.com/ebay/micrordb/query/dot"
	"github.com/ebay/micrordb/query/inventory"
	"github.com/ebay/micrordb/util/table"
	"github.com/ebay/micrordb/util/web"
	"github.com/julienschmidt/httprouter"
	log "github.com/sirupsen/logrus"
)

// readProgram returns the request body as program text.
func (s *Server) readProgram(w http.ResponseWriter, r *http.Request) (string, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", web.NewError(http.StatusRequestEntityTooLarge,
				"program exceeds %d bytes", s.cfg.MaxBodyBytes)
		}
		return "", web.NewError(http.StatusBadRequest, "unable to read request body: %v", err)
	}
	if !utf8.Valid(body) {
		return "", web.NewError(http.StatusBadRequest, "program text must be UTF-8")
	}
	return string(body), nil
}

// compile returns the compiled program, from the cache if possible. Syntax
// errors are returned as an *web.APIError.
func (s *Server) compile(ctx context.Context, text string) (*query.Result, error) {
	key := query.Fingerprint(text)
	res, err, ok := s.cache.get(key, text)
	if ok {
		metrics.cacheHits.Inc()
	} else {
		metrics.cacheMisses.Inc()
		res, err = query.Compile(ctx, text)
		s.cache.put(key, text, res, err)
	}
	if err != nil {
		apiErr := web.NewError(http.StatusBadRequest, "%v", err)
		apiErr.Line = query.ErrorLine(err)
		return nil, apiErr
	}
	return res, nil
}

// program reads and compiles the request's program. If it returns false, it
// has already written an error response.
func (s *Server) program(w http.ResponseWriter, r *http.Request) (*query.Result, bool) {
	text, err := s.readProgram(w, r)
	if err != nil {
		web.Write(w, err)
		return nil, false
	}
	res, err := s.compile(r.Context(), text)
	if err != nil {
		web.Write(w, err)
		return nil, false
	}
	return res, true
}

type parseResponse struct {
	Statements  int    `json:"statements"`
	Fingerprint string `json:"fingerprint"`
	// The program rendered back to source text.
	Script string `json:"script"`
}

func (s *Server) parse(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	res, ok := s.program(w, r)
	if !ok {
		return
	}
	web.Write(w, parseResponse{
		Statements:  len(res.Script.Statements),
		Fingerprint: fmt.Sprintf("%016x", res.Fingerprint),
		Script:      res.Script.String(),
	})
}

type tokenResponse struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
	Line int    `json:"line"`
}

func (s *Server) tokens(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	res, ok := s.program(w, r)
	if !ok {
		return
	}
	resp := make([]tokenResponse, len(res.Tokens))
	for i, tok := range res.Tokens {
		resp[i] = tokenResponse{Kind: tok.Kind.String(), Text: tok.Text, Line: tok.Line}
	}
	web.Write(w, resp)
}

func (s *Server) dot(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	res, ok := s.program(w, r)
	if !ok {
		return
	}
	text, err := dot.Generate(res.Script)
	if err != nil {
		log.WithError(err).Warn("Unable to generate DOT output")
		web.Write(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	web.Write(w, []byte(text))
}

// tables responds with a text table, or with JSON if the format parameter is
// "json".
func (s *Server) tables(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	res, ok := s.program(w, r)
	if !ok {
		return
	}
	inv := inventory.Build(res.Script)
	if r.URL.Query().Get("format") == "json" {
		web.Write(w, inv.Tables())
		return
	}
	var buf bytes.Buffer
	if err := table.PrettyPrint(&buf, inv.Rows(), table.HeaderRow); err != nil {
		web.Write(w, err)
		return
	}
	web.Write(w, buf.String())
}
