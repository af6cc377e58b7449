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
	"github.com/pingcap/tidb-selectivity/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// statistics metrics vars
var (
	CacheHitCounter  prometheus.Counter
	CacheMissCounter prometheus.Counter
	TablesGauge      prometheus.Gauge

	UpdateTableCounter prometheus.Counter
	DeleteTableCounter prometheus.Counter

	LoadFileSuccessCounter prometheus.Counter
	LoadFileFailedCounter  prometheus.Counter
)

func init() {
	InitMetricsVars()
}

// InitMetricsVars init statistics metrics vars.
func InitMetricsVars() {
	CacheHitCounter = metrics.StatsCacheCounter.WithLabelValues(metrics.LblHit)
	CacheMissCounter = metrics.StatsCacheCounter.WithLabelValues(metrics.LblMiss)
	TablesGauge = metrics.StatsCacheGauge.WithLabelValues("tables")

	UpdateTableCounter = metrics.StatsUpdateCounter.WithLabelValues(metrics.LblUpdate)
	DeleteTableCounter = metrics.StatsUpdateCounter.WithLabelValues(metrics.LblDelete)

	LoadFileSuccessCounter = metrics.StatsFileLoadCounter.WithLabelValues(metrics.LblOK)
	LoadFileFailedCounter = metrics.StatsFileLoadCounter.WithLabelValues(metrics.LblError)
}
