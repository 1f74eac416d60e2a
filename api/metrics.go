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
	metricsutil "github.com/ebay/micrordb/util/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

type apiMetrics struct {
	requestDurationSeconds prometheus.Summary
	requestsTotal          *prometheus.CounterVec
	cacheHits              prometheus.Counter
	cacheMisses            prometheus.Counter
	cacheEntries           prometheus.Gauge
}

var metrics apiMetrics

func init() {
	mr := metricsutil.Registry{R: prometheus.DefaultRegisterer}
	metrics = apiMetrics{
		requestDurationSeconds: mr.NewSummary(prometheus.SummaryOpts{
			Namespace:  "micrordb",
			Subsystem:  "api",
			Name:       "request_duration_seconds",
			Help:       `The time it takes to handle a program submitted over HTTP.`,
			Objectives: metricsutil.Objectives(),
		}),
		requestsTotal: mr.NewCounterVec(prometheus.CounterOpts{
			Namespace: "micrordb",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      `The number of programs submitted over HTTP, by route and status code.`,
		}, "route", "code"),
		cacheHits: mr.NewCounter(prometheus.CounterOpts{
			Namespace: "micrordb",
			Subsystem: "api",
			Name:      "parse_cache_hits_total",
			Help:      `The number of requests answered from the parse cache.`,
		}),
		cacheMisses: mr.NewCounter(prometheus.CounterOpts{
			Namespace: "micrordb",
			Subsystem: "api",
			Name:      "parse_cache_misses_total",
			Help:      `The number of requests that had to compile their program.`,
		}),
		cacheEntries: mr.NewGauge(prometheus.GaugeOpts{
			Namespace: "micrordb",
			Subsystem: "api",
			Name:      "parse_cache_entries",
			Help:      `The number of compiled programs held in the parse cache.`,
		}),
	}
}
