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

package statistics

import (
	"fmt"
	"sort"
	"time"

	"github.com/pingcap/errors"
	"github.com/pingcap/tidb-selectivity/pkg/config"
	"github.com/pingcap/tidb-selectivity/pkg/metrics"
	"github.com/pingcap/tidb-selectivity/pkg/types"
	"github.com/pingcap/tidb-selectivity/pkg/util/dbterror/plannererrors"
)

// DefaultMCVTarget is the default cap on the number of most common values kept for a column.
const DefaultMCVTarget = config.DefMCVTarget

// ColumnStats is the statistical summary of a column. It is immutable once created.
type ColumnStats struct {
	mcv            MostCommonValues
	nullFraction   float64
	approxDistinct int64
	valueType      types.EvalType
}

// NewColumnStats checks and creates a ColumnStats.
func NewColumnStats(nullFraction float64, approxDistinct int64, mcv MostCommonValues, valueType types.EvalType) (*ColumnStats, error) {
	if !(nullFraction >= 0 && nullFraction <= 1) {
		return nil, plannererrors.ErrDataIntegrity.GenWithStackByArgs(
			fmt.Sprintf("null fraction %v is out of [0, 1]", nullFraction))
	}
	if approxDistinct < 0 {
		return nil, plannererrors.ErrDataIntegrity.GenWithStackByArgs(
			fmt.Sprintf("negative distinct count %d", approxDistinct))
	}
	if int64(mcv.Len()) > approxDistinct {
		return nil, plannererrors.ErrDataIntegrity.GenWithStackByArgs(
			fmt.Sprintf("%d most common values exceed distinct count %d", mcv.Len(), approxDistinct))
	}
	for i := range mcv.values {
		if err := types.CheckComparable(mcv.values[i].EvalType(), valueType); err != nil {
			return nil, errors.Trace(err)
		}
	}
	return &ColumnStats{
		mcv:            mcv,
		nullFraction:   nullFraction,
		approxDistinct: approxDistinct,
		valueType:      valueType,
	}, nil
}

// NullFraction returns the fraction of rows whose value is NULL.
func (c *ColumnStats) NullFraction() float64 {
	return c.nullFraction
}

// ApproxDistinct returns the estimated number of distinct non-null values, 0 means unknown.
func (c *ColumnStats) ApproxDistinct() int64 {
	return c.approxDistinct
}

// MostCommonValues returns the most common values of the column.
func (c *ColumnStats) MostCommonValues() *MostCommonValues {
	return &c.mcv
}

// ValueType returns the type values of the column are compared as.
func (c *ColumnStats) ValueType() types.EvalType {
	return c.valueType
}

// String implements fmt.Stringer interface.
func (c *ColumnStats) String() string {
	return fmt.Sprintf("type:%s null_fraction:%v ndv:%d mcv:%s", c.valueType, c.nullFraction, c.approxDistinct, c.mcv)
}

type buildOptions struct {
	mcvTarget int
}

// BuildOption changes how BuildColumnStatsFromSortedValues summarizes a sample.
type BuildOption func(*buildOptions)

// WithMCVTarget sets the cap on the number of most common values.
func WithMCVTarget(target int) BuildOption {
	return func(o *buildOptions) {
		o.mcvTarget = target
	}
}

type valueRun struct {
	value types.Datum
	count int64
}

// BuildColumnStatsFromSortedValues builds a ColumnStats from the non-null values of a column,
// the count of NULL rows and the total row count. Equal values must be adjacent, usually because
// the sample is sorted, but the groups may come in any order.
// The sample is assumed to be the whole population, so the distinct count is not extrapolated.
func BuildColumnStatsFromSortedValues(sorted []types.Datum, valueType types.EvalType, nullCount, totalRowCount int64, opts ...BuildOption) (*ColumnStats, error) {
	start := time.Now()
	defer func() {
		metrics.StatsBuildHistogram.Observe(time.Since(start).Seconds())
	}()
	o := buildOptions{mcvTarget: DefaultMCVTarget}
	for _, opt := range opts {
		opt(&o)
	}
	if nullCount < 0 || totalRowCount < 0 {
		return nil, plannererrors.ErrDataIntegrity.GenWithStackByArgs(
			fmt.Sprintf("negative counts, null count %d, total row count %d", nullCount, totalRowCount))
	}
	if nullCount > totalRowCount {
		return nil, plannererrors.ErrDataIntegrity.GenWithStackByArgs(
			fmt.Sprintf("null count %d exceeds total row count %d", nullCount, totalRowCount))
	}
	nullFraction := 0.0
	if totalRowCount > 0 {
		nullFraction = float64(nullCount) / float64(totalRowCount)
	}

	runs, err := collectRuns(sorted, valueType)
	if err != nil {
		return nil, err
	}
	approxDistinct := int64(len(runs))
	values, freqs, err := pickMostCommonValues(runs, int64(len(sorted)), o.mcvTarget)
	if err != nil {
		return nil, err
	}
	mcv, err := NewMostCommonValues(values, freqs)
	if err != nil {
		return nil, err
	}
	return NewColumnStats(nullFraction, approxDistinct, mcv, valueType)
}

func newValueRun(d *types.Datum) valueRun {
	r := valueRun{count: 1}
	d.Copy(&r.value)
	return r
}

// collectRuns groups the sample into runs of equal values. A value showing up again after
// a different value breaks the grouping.
func collectRuns(sample []types.Datum, valueType types.EvalType) ([]valueRun, error) {
	runs := make([]valueRun, 0, 16)
	ascending := true
	for i := range sample {
		d := &sample[i]
		if d.IsNull() {
			return nil, plannererrors.ErrDataIntegrity.GenWithStackByArgs(
				fmt.Sprintf("NULL at position %d of the non-null sample", i))
		}
		if err := types.CheckComparable(d.EvalType(), valueType); err != nil {
			return nil, errors.Trace(err)
		}
		if len(runs) == 0 {
			runs = append(runs, newValueRun(d))
			continue
		}
		last := &runs[len(runs)-1]
		cmp, err := last.value.Compare(d)
		if err != nil {
			return nil, errors.Trace(err)
		}
		if cmp == 0 {
			last.count++
			continue
		}
		// Strictly ascending runs are grouped already.
		ascending = ascending && cmp < 0
		runs = append(runs, newValueRun(d))
	}
	if !ascending {
		if err := checkGrouped(runs); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

func checkGrouped(runs []valueRun) error {
	values := make([]types.Datum, 0, len(runs))
	for _, r := range runs {
		values = append(values, r.value)
	}
	if err := types.SortDatums(values); err != nil {
		return errors.Trace(err)
	}
	for i := 1; i < len(values); i++ {
		cmp, err := values[i-1].Compare(&values[i])
		if err != nil {
			return errors.Trace(err)
		}
		if cmp == 0 {
			return plannererrors.ErrDataIntegrity.GenWithStackByArgs(
				fmt.Sprintf("value %s is not grouped in the sample", values[i].ToString()))
		}
	}
	return nil
}

// pickMostCommonValues keeps the values that are more frequent than average, ties keep the
// order of the sample. When every
// value repeats and all of them fit in the target, the sample is small enough to keep them all.
func pickMostCommonValues(runs []valueRun, sampleSize int64, target int) ([]types.Datum, []float64, error) {
	if len(runs) <= 1 || target <= 0 {
		return nil, nil, nil
	}
	keepAll := len(runs) <= target
	for _, r := range runs {
		if r.count <= 1 {
			keepAll = false
			break
		}
	}
	baseline := 1 / float64(len(runs))
	picked := make([]valueRun, 0, min(len(runs), target))
	for _, r := range runs {
		freq := float64(r.count) / float64(sampleSize)
		if freq > 1 {
			return nil, nil, plannererrors.ErrDataIntegrity.GenWithStackByArgs(
				fmt.Sprintf("frequency %v of %s exceeds 1", freq, r.value.ToString()))
		}
		if keepAll || freq > baseline {
			picked = append(picked, r)
		}
	}
	sort.SliceStable(picked, func(i, j int) bool {
		return picked[i].count > picked[j].count
	})
	if len(picked) > target {
		picked = picked[:target]
	}
	values := make([]types.Datum, 0, len(picked))
	freqs := make([]float64, 0, len(picked))
	for _, r := range picked {
		values = append(values, r.value)
		freqs = append(freqs, float64(r.count)/float64(sampleSize))
	}
	return values, freqs, nil
}
