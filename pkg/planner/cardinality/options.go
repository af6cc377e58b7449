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

package cardinality

import (
	"github.com/pingcap/tidb-selectivity/pkg/config"
)

// Options are the tunables of the estimator.
type Options struct {
	// DefaultSelectivity is used for predicate shapes no statistic can answer,
	// such as ranges, pattern matching or set membership.
	DefaultSelectivity float64
	// DefaultEqualSelectivity is used for an equality that cannot use statistics.
	DefaultEqualSelectivity float64
}

// DefaultOptions returns the options used by EstimateRowCount.
func DefaultOptions() Options {
	return Options{
		DefaultSelectivity:      config.DefDefaultSelectivity,
		DefaultEqualSelectivity: config.DefDefaultEqualSelectivity,
	}
}

// OptionsFromConfig returns the options of the estimator section of the config.
func OptionsFromConfig(cfg *config.Estimator) Options {
	return Options{
		DefaultSelectivity:      cfg.DefaultSelectivity,
		DefaultEqualSelectivity: cfg.DefaultEqualSelectivity,
	}
}
