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


package query

import (
	metricsutil "github.com/ebay/micrordb/util/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

type queryMetrics struct {
	lexDurationSeconds     prometheus.Summary
	parseDurationSeconds   prometheus.Summary
	compileDurationSeconds prometheus.Summary
	statementsPerProgram   prometheus.Histogram
	compilesTotal          *prometheus.CounterVec
}

var metrics queryMetrics

// Values of the "outcome" label on compilesTotal.
const (
	outcomeOK         = "ok"
	outcomeLexError   = "lex_error"
	outcomeParseError = "parse_error"
)

func init() {
	mr := metricsutil.Registry{R: prometheus.DefaultRegisterer}
	metrics = queryMetrics{
		lexDurationSeconds: mr.NewSummary(prometheus.SummaryOpts{
			Namespace:  "micrordb",
			Subsystem:  "query",
			Name:       "lex_duration_seconds",
			Help:       `The time it takes to turn program text into tokens.`,
			Objectives: metricsutil.Objectives(),
		}),
		parseDurationSeconds: mr.NewSummary(prometheus.SummaryOpts{
			Namespace: "micrordb",
			Subsystem: "query",
			Name:      "parse_duration_seconds",
			Help: `The time it takes to build a syntax tree from tokens.

This does not include lexing, and it is not observed when lexing fails.
`,
			Objectives: metricsutil.Objectives(),
		}),
		compileDurationSeconds: mr.NewSummary(prometheus.SummaryOpts{
			Namespace:  "micrordb",
			Subsystem:  "query",
			Name:       "compile_duration_seconds",
			Help:       `The time it takes to lex and parse a program, including failed attempts.`,
			Objectives: metricsutil.Objectives(),
		}),
		statementsPerProgram: mr.NewHistogram(prometheus.HistogramOpts{
			Namespace: "micrordb",
			Subsystem: "query",
			Name:      "statements_per_program",
			Help:      `The number of statements in each successfully parsed program.`,
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		compilesTotal: mr.NewCounterVec(prometheus.CounterOpts{
			Namespace: "micrordb",
			Subsystem: "query",
			Name:      "compiles_total",
			Help:      `The number of programs compiled, by outcome.`,
		}, "outcome"),
	}
}
