// Copyright 2025 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tup

import "github.com/prometheus/client_golang/prometheus"

const metricsNamespace = "heaptuple"

var (
	offsetCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "offset_cache_hits_total",
		Help:      "Attribute fetches served from a cached offset.",
	})
	offsetCacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "offset_cache_misses_total",
		Help:      "Attribute fetches that extended the cached-offset prefix.",
	})
	slowWalks = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "slow_walks_total",
		Help:      "Attribute fetches that walked past a null or varlena.",
	})
	heapTuplesFormed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "heap_tuples_formed_total",
		Help:      "Heap tuples built.",
	})
	indexTuplesFormed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "index_tuples_formed_total",
		Help:      "Index tuples built.",
	})
)

// RegisterMetrics registers the codec's counters with |reg|.
// Metrics are collected regardless; registration only exposes them.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(
		offsetCacheHits,
		offsetCacheMisses,
		slowWalks,
		heapTuplesFormed,
		indexTuplesFormed,
	)
}
