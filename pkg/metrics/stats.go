// Copyright 2026 PingCAP, Inc.
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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Stats metrics.
var (
	StatsCacheCounter    *prometheus.CounterVec
	StatsCacheGauge      *prometheus.GaugeVec
	StatsUpdateCounter   *prometheus.CounterVec
	StatsBuildHistogram  prometheus.Histogram
	StatsFileLoadCounter *prometheus.CounterVec
)

// InitStatsMetrics initializes stats metrics.
func InitStatsMetrics() {
	StatsCacheCounter = NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tidb",
			Subsystem: "statistics",
			Name:      "stats_cache_op",
			Help:      "Counter for statsCache operation",
		}, []string{LblType})

	StatsCacheGauge = NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "tidb",
		Subsystem: "statistics",
		Name:      "stats_cache_val",
		Help:      "gauge of stats cache value",
	}, []string{LblType})

	StatsUpdateCounter = NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tidb",
			Subsystem: "statistics",
			Name:      "stats_update_total",
			Help:      "Counter of table statistics published or dropped.",
		}, []string{LblType})

	StatsBuildHistogram = NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "tidb",
			Subsystem: "statistics",
			Name:      "build_column_stats_duration_seconds",
			Help:      "Bucketed histogram of processing time (s) of building column statistics from a sample.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 20), // 10us ~ 5s
		})

	StatsFileLoadCounter = NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tidb",
			Subsystem: "statistics",
			Name:      "stats_file_load_total",
			Help:      "Counter of statistics files loaded.",
		}, []string{LblResult})
}
