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

// metrics labels.
const (
	LblType   = "type"
	LblResult = "result"

	LblHit    = "hit"
	LblMiss   = "miss"
	LblUpdate = "update"
	LblDelete = "delete"
	LblOK     = "ok"
	LblError  = "error"
)

var constLabels prometheus.Labels

func init() {
	InitMetrics()
}

// SetConstLabels sets constant labels for metrics, it must be called before InitMetrics.
func SetConstLabels(kv ...string) {
	if len(kv)%2 == 1 {
		panic("SetConstLabels requires an even number of arguments")
	}
	constLabels = make(prometheus.Labels, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		constLabels[kv[i]] = kv[i+1]
	}
}

// InitMetrics is used to initialize metrics.
func InitMetrics() {
	InitStatsMetrics()
}

// RegisterMetrics registers the metrics which are ONLY used in the estimator binaries.
func RegisterMetrics() {
	MustRegister(prometheus.DefaultRegisterer)
}

// MustRegister registers all metrics to r.
func MustRegister(r prometheus.Registerer) {
	r.MustRegister(StatsCacheCounter)
	r.MustRegister(StatsCacheGauge)
	r.MustRegister(StatsUpdateCounter)
	r.MustRegister(StatsBuildHistogram)
	r.MustRegister(StatsFileLoadCounter)
}

// NewCounter wraps a prometheus.NewCounter.
func NewCounter(opts prometheus.CounterOpts) prometheus.Counter {
	opts.ConstLabels = constLabels
	return prometheus.NewCounter(opts)
}

// NewCounterVec wraps a prometheus.NewCounterVec.
func NewCounterVec(opts prometheus.CounterOpts, labelNames []string) *prometheus.CounterVec {
	opts.ConstLabels = constLabels
	return prometheus.NewCounterVec(opts, labelNames)
}

// NewGauge wraps a prometheus.NewGauge.
func NewGauge(opts prometheus.GaugeOpts) prometheus.Gauge {
	opts.ConstLabels = constLabels
	return prometheus.NewGauge(opts)
}

// NewGaugeVec wraps a prometheus.NewGaugeVec.
func NewGaugeVec(opts prometheus.GaugeOpts, labelNames []string) *prometheus.GaugeVec {
	opts.ConstLabels = constLabels
	return prometheus.NewGaugeVec(opts, labelNames)
}

// NewHistogram wraps a prometheus.NewHistogram.
func NewHistogram(opts prometheus.HistogramOpts) prometheus.Histogram {
	opts.ConstLabels = constLabels
	return prometheus.NewHistogram(opts)
}

// RetLabel returns "ok" when err == nil and "error" when err != nil.
func RetLabel(err error) string {
	if err == nil {
		return LblOK
	}
	return LblError
}
