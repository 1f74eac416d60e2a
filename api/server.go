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


// Package api serves the micrordb front end over HTTP. Clients POST program
// text and get back tokens, syntax trees, DOT graphs or table inventories.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/ebay/micrordb/config"
	"github.com/ebay/micrordb/util/parallel"
	"github.com/ebay/micrordb/util/tracing"
	"github.com/julienschmidt/httprouter"
	opentracing "github.com/opentracing/opentracing-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// Server handles HTTP requests. It's safe for concurrent use.
type Server struct {
	cfg   config.API
	cache *parseCache
}

// New returns a Server configured by cfg, which may be nil. Unset fields take
// their defaults from the config package.
func New(cfg *config.API) *Server {
	s := &Server{cfg: cfg.WithDefaults()}
	s.cache = newParseCache(s.cfg.CacheSize)
	return s
}

// Handler returns the routes served by s.
func (s *Server) Handler() http.Handler {
	m := httprouter.New()
	m.POST("/parse", s.instrument("parse", s.parse))
	m.POST("/tokens", s.instrument("tokens", s.tokens))
	m.POST("/dot", s.instrument("dot", s.dot))
	m.POST("/tables", s.instrument("tables", s.tables))
	m.Handler("GET", "/metrics", promhttp.Handler())

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Debugf("[API] %v %v", r.Method, r.URL)
		m.ServeHTTP(w, r)
	})
}

// Run listens for HTTP requests on the configured address. It blocks until
// the listener fails or ctx is canceled, in which case it shuts the server
// down gracefully and returns nil.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.HTTPAddress,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.WithFields(log.Fields{
		"address":   s.cfg.HTTPAddress,
		"cacheSize": s.cfg.CacheSize,
	}).Info("Serving HTTP")
	return parallel.Invoke(ctx,
		func(ctx context.Context) error {
			err := srv.ListenAndServe()
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		},
		func(ctx context.Context) error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
}

// statusRecorder remembers the status code written through it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// instrument wraps a handler with a tracing span, which also updates the
// request duration metric, and counts the response by status code.
func (s *Server) instrument(route string, h httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		span, ctx := opentracing.StartSpanFromContext(r.Context(), "http "+route)
		tracing.UpdateMetric(span, metrics.requestDurationSeconds)
		defer span.Finish()
		rec := &statusRecorder{ResponseWriter: w}
		h(rec, r.WithContext(ctx), p)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		span.SetTag("http.status_code", rec.status)
		metrics.requestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
	}
}
