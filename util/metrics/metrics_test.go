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

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Registry(t *testing.T) {
	assert := assert.New(t)
	reg := prometheus.NewRegistry()
	mr := Registry{R: reg}
	counter := mr.NewCounter(prometheus.CounterOpts{Namespace: "test", Name: "things_total", Help: "things"})
	vec := mr.NewCounterVec(prometheus.CounterOpts{Namespace: "test", Name: "results_total", Help: "results"}, "result")
	gauge := mr.NewGauge(prometheus.GaugeOpts{Namespace: "test", Name: "level", Help: "level"})
	summary := mr.NewSummary(prometheus.SummaryOpts{Namespace: "test", Name: "latency_seconds", Help: "latency", Objectives: Objectives()})
	histogram := mr.NewHistogram(prometheus.HistogramOpts{Namespace: "test", Name: "sizes", Help: "sizes"})
	counter.Inc()
	vec.WithLabelValues("ok").Add(2)
	gauge.Set(3)
	summary.Observe(0.5)
	histogram.Observe(10)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, len(families))
	for i, f := range families {
		names[i] = f.GetName()
	}
	assert.Equal([]string{
		"test_latency_seconds",
		"test_level",
		"test_results_total",
		"test_sizes",
		"test_things_total",
	}, names)

	assert.Panics(func() {
		mr.NewCounter(prometheus.CounterOpts{Namespace: "test", Name: "things_total", Help: "things"})
	}, "registering the same metric twice should panic")
}
