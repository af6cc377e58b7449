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
	"math"
	"testing"

	"github.com/pingcap/tidb-selectivity/pkg/config"
	"github.com/pingcap/tidb-selectivity/pkg/types"
	"github.com/pingcap/tidb-selectivity/pkg/util/dbterror/plannererrors"
	"github.com/stretchr/testify/require"
)

func intDatums(vals ...int64) []types.Datum {
	datums := make([]types.Datum, 0, len(vals))
	for _, v := range vals {
		datums = append(datums, types.NewIntDatum(v))
	}
	return datums
}

func repeat(v int64, n int) []int64 {
	vals := make([]int64, n)
	for i := range vals {
		vals[i] = v
	}
	return vals
}

func concat(parts ...[]int64) []int64 {
	var vals []int64
	for _, p := range parts {
		vals = append(vals, p...)
	}
	return vals
}

func requireMCV(t *testing.T, col *ColumnStats, values []int64, freqs []float64) {
	mcv := col.MostCommonValues()
	require.Equal(t, len(values), mcv.Len())
	for i, v := range values {
		require.Equal(t, v, mcv.Values()[i].GetInt64())
	}
	require.Equal(t, freqs, mcv.Frequencies())
}

func TestBuildAllDistinct(t *testing.T) {
	vals := make([]int64, 0, 20000)
	for i := int64(1); i <= 20000; i++ {
		vals = append(vals, i)
	}
	col, err := BuildColumnStatsFromSortedValues(intDatums(vals...), types.ETInt, 0, 20000)
	require.NoError(t, err)
	require.Equal(t, int64(20000), col.ApproxDistinct())
	require.Equal(t, 0.0, col.NullFraction())
	require.True(t, col.MostCommonValues().IsEmpty())
	require.Equal(t, types.ETInt, col.ValueType())
}

func TestBuildMostCommonValues(t *testing.T) {
	vals := concat(repeat(1, 7), repeat(5, 3), repeat(10, 8), []int64{11, 12, 13, 14})
	col, err := BuildColumnStatsFromSortedValues(intDatums(vals...), types.ETInt, 0, 22)
	require.NoError(t, err)
	require.Equal(t, int64(7), col.ApproxDistinct())
	// 5 occurs 3 times out of 22, which is below the uniform 1/7.
	requireMCV(t, col, []int64{10, 1}, []float64{8.0 / 22, 7.0 / 22})
	require.Contains(t, col.String(), "ndv:7 mcv:[10:")
}

func TestBuildKeepsAllRepeatedValues(t *testing.T) {
	x, err := BuildColumnStatsFromSortedValues(intDatums(concat(repeat(1, 30), repeat(2, 10))...), types.ETInt, 0, 40)
	require.NoError(t, err)
	requireMCV(t, x, []int64{1, 2}, []float64{0.75, 0.25})

	y, err := BuildColumnStatsFromSortedValues(intDatums(concat(repeat(2, 10), repeat(10, 30))...), types.ETInt, 0, 40)
	require.NoError(t, err)
	requireMCV(t, y, []int64{10, 2}, []float64{0.75, 0.25})

	// Falls back to the baseline once the distinct values don't fit in the target.
	z, err := BuildColumnStatsFromSortedValues(intDatums(concat(repeat(1, 30), repeat(2, 10))...), types.ETInt, 0, 40, WithMCVTarget(1))
	require.NoError(t, err)
	requireMCV(t, z, []int64{1}, []float64{0.75})
}

func TestBuildNullFraction(t *testing.T) {
	col, err := BuildColumnStatsFromSortedValues(intDatums(1, 2), types.ETInt, 2, 4)
	require.NoError(t, err)
	require.Equal(t, 0.5, col.NullFraction())
	require.Equal(t, int64(2), col.ApproxDistinct())
	require.True(t, col.MostCommonValues().IsEmpty())

	col, err = BuildColumnStatsFromSortedValues(nil, types.ETInt, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 0.0, col.NullFraction())
	require.Equal(t, int64(0), col.ApproxDistinct())

	col, err = BuildColumnStatsFromSortedValues(nil, types.ETString, 3, 3)
	require.NoError(t, err)
	require.Equal(t, 1.0, col.NullFraction())
	require.Equal(t, int64(0), col.ApproxDistinct())
}

func TestBuildSingleDistinctValue(t *testing.T) {
	col, err := BuildColumnStatsFromSortedValues(intDatums(5, 5, 5), types.ETInt, 0, 3)
	require.NoError(t, err)
	require.Equal(t, int64(1), col.ApproxDistinct())
	require.True(t, col.MostCommonValues().IsEmpty())
}

func TestBuildMCVTargetAndTies(t *testing.T) {
	vals := concat(repeat(1, 2), repeat(2, 3), repeat(3, 4), repeat(4, 5), repeat(5, 6))
	col, err := BuildColumnStatsFromSortedValues(intDatums(vals...), types.ETInt, 0, 20, WithMCVTarget(1))
	require.NoError(t, err)
	requireMCV(t, col, []int64{5}, []float64{0.3})

	col, err = BuildColumnStatsFromSortedValues(intDatums(vals...), types.ETInt, 0, 20, WithMCVTarget(0))
	require.NoError(t, err)
	require.True(t, col.MostCommonValues().IsEmpty())

	col, err = BuildColumnStatsFromSortedValues(intDatums(1, 1, 2, 2, 3), types.ETInt, 0, 5)
	require.NoError(t, err)
	requireMCV(t, col, []int64{1, 2}, []float64{0.4, 0.4})
}

func TestBuildStrings(t *testing.T) {
	sample := []types.Datum{
		types.NewStringDatum("a"), types.NewStringDatum("a"), types.NewStringDatum("a"),
		types.NewStringDatum("b"), types.NewStringDatum("c"),
	}
	col, err := BuildColumnStatsFromSortedValues(sample, types.ETString, 1, 6)
	require.NoError(t, err)
	require.Equal(t, int64(3), col.ApproxDistinct())
	mcv := col.MostCommonValues()
	require.Equal(t, 1, mcv.Len())
	require.Equal(t, "a", mcv.Values()[0].GetString())

	sample[0].GetBytes()[0] = 'z'
	require.Equal(t, "a", mcv.Values()[0].GetString())
}

func TestBuildIntegrityErrors(t *testing.T) {
	tests := []struct {
		sample    []types.Datum
		nullCount int64
		total     int64
	}{
		{intDatums(1), 5, 4},
		{intDatums(1), -1, 4},
		{intDatums(1), 0, -1},
		{[]types.Datum{types.NewIntDatum(1), {}}, 0, 2},
		{intDatums(1, 2, 1), 0, 3},
		{intDatums(3, 3, 1, 2, 2, 3), 0, 6},
	}
	for i, tt := range tests {
		_, err := BuildColumnStatsFromSortedValues(tt.sample, types.ETInt, tt.nullCount, tt.total)
		require.Error(t, err, i)
		require.True(t, plannererrors.ErrDataIntegrity.Equal(err), "case %d: %v", i, err)
	}

	_, err := BuildColumnStatsFromSortedValues([]types.Datum{types.NewStringDatum("a")}, types.ETInt, 0, 1)
	require.True(t, plannererrors.ErrTypeMismatch.Equal(err))
	_, err = BuildColumnStatsFromSortedValues([]types.Datum{types.NewIntDatum(1), types.NewStringDatum("a")}, types.ETString, 0, 2)
	require.True(t, plannererrors.ErrTypeMismatch.Equal(err))
}

func TestNewColumnStats(t *testing.T) {
	mcv, err := NewMostCommonValues(intDatums(1, 2), []float64{0.5, 0.25})
	require.NoError(t, err)
	col, err := NewColumnStats(0.1, 10, mcv, types.ETReal)
	require.NoError(t, err)
	require.Equal(t, 2, col.MostCommonValues().Len())

	for _, nf := range []float64{-0.1, 1.5, math.NaN()} {
		_, err = NewColumnStats(nf, 10, MostCommonValues{}, types.ETInt)
		require.True(t, plannererrors.ErrDataIntegrity.Equal(err))
	}
	_, err = NewColumnStats(0, -1, MostCommonValues{}, types.ETInt)
	require.True(t, plannererrors.ErrDataIntegrity.Equal(err))
	_, err = NewColumnStats(0, 1, mcv, types.ETInt)
	require.True(t, plannererrors.ErrDataIntegrity.Equal(err))
	_, err = NewColumnStats(0, 10, mcv, types.ETString)
	require.True(t, plannererrors.ErrTypeMismatch.Equal(err))
}

func TestNewMostCommonValuesIntegrity(t *testing.T) {
	tests := []struct {
		values []types.Datum
		freqs  []float64
	}{
		{intDatums(1), []float64{0.5, 0.5}},
		{intDatums(1), []float64{0}},
		{intDatums(1), []float64{1.5}},
		{intDatums(1, 2), []float64{0.2, 0.3}},
		{intDatums(1, 2), []float64{0.7, 0.6}},
		{intDatums(1, 1), []float64{0.3, 0.3}},
		{[]types.Datum{{}}, []float64{0.3}},
	}
	for i, tt := range tests {
		_, err := NewMostCommonValues(tt.values, tt.freqs)
		require.True(t, plannererrors.ErrDataIntegrity.Equal(err), "case %d: %v", i, err)
	}
	_, err := NewMostCommonValues([]types.Datum{types.NewIntDatum(1), types.NewStringDatum("1")}, []float64{0.3, 0.3})
	require.True(t, plannererrors.ErrTypeMismatch.Equal(err))

	// Frequencies that add up to one don't trip on rounding.
	_, err = NewMostCommonValues(intDatums(1, 2, 3), []float64{0.4, 0.3, 0.3})
	require.NoError(t, err)
}

func TestMostCommonValuesFrequency(t *testing.T) {
	mcv, err := NewMostCommonValues(intDatums(10, 1), []float64{0.5, 0.25})
	require.NoError(t, err)

	d := types.NewIntDatum(1)
	freq, ok, err := mcv.Frequency(&d)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 0.25, freq)

	d = types.NewFloat64Datum(10)
	freq, ok, err = mcv.Frequency(&d)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 0.5, freq)

	d = types.NewIntDatum(3)
	_, ok, err = mcv.Frequency(&d)
	require.NoError(t, err)
	require.False(t, ok)

	d = types.NewStringDatum("10")
	_, _, err = mcv.Frequency(&d)
	require.True(t, plannererrors.ErrTypeMismatch.Equal(err))

	var empty MostCommonValues
	_, ok, err = empty.Frequency(&d)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, "[]", empty.String())
}

func TestBuildGroupedSample(t *testing.T) {
	y, err := BuildColumnStatsFromSortedValues(intDatums(concat(repeat(10, 30), repeat(2, 10))...), types.ETInt, 0, 40)
	require.NoError(t, err)
	require.Equal(t, int64(2), y.ApproxDistinct())
	requireMCV(t, y, []int64{10, 2}, []float64{0.75, 0.25})

	col, err := BuildColumnStatsFromSortedValues(intDatums(3, 1, 1, 2, 2), types.ETInt, 0, 5)
	require.NoError(t, err)
	require.Equal(t, int64(3), col.ApproxDistinct())
	requireMCV(t, col, []int64{1, 2}, []float64{0.4, 0.4})

	_, err = BuildColumnStatsFromSortedValues(intDatums(3, 1, 3), types.ETInt, 0, 3)
	require.True(t, plannererrors.ErrDataIntegrity.Equal(err), "%v", err)
	require.ErrorContains(t, err, "value 3 is not grouped")
}

func TestBuildNaN(t *testing.T) {
	floats := func(vals ...float64) []types.Datum {
		datums := make([]types.Datum, 0, len(vals))
		for _, v := range vals {
			datums = append(datums, types.NewFloat64Datum(v))
		}
		return datums
	}
	col, err := BuildColumnStatsFromSortedValues(floats(1, math.NaN()), types.ETReal, 0, 2)
	require.NoError(t, err)
	require.Equal(t, int64(2), col.ApproxDistinct())

	col, err = BuildColumnStatsFromSortedValues(floats(math.NaN(), math.NaN(), 1), types.ETReal, 0, 3)
	require.NoError(t, err)
	require.Equal(t, int64(2), col.ApproxDistinct())
	mcv := col.MostCommonValues()
	require.Equal(t, 1, mcv.Len())
	require.True(t, math.IsNaN(mcv.Values()[0].GetFloat64()))
	nan := types.NewFloat64Datum(math.NaN())
	freq, ok, err := mcv.Frequency(&nan)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 2.0/3, freq)

	_, err = BuildColumnStatsFromSortedValues(floats(math.NaN(), 1, math.NaN()), types.ETReal, 0, 3)
	require.True(t, plannererrors.ErrDataIntegrity.Equal(err), "%v", err)

	_, err = NewMostCommonValues(floats(math.NaN(), math.NaN()), []float64{0.5, 0.5})
	require.True(t, plannererrors.ErrDataIntegrity.Equal(err), "%v", err)
}

func TestDefaultMCVTargetFollowsConfig(t *testing.T) {
	require.Equal(t, config.DefMCVTarget, DefaultMCVTarget)
	require.Equal(t, config.NewConfig().Estimator.MCVTarget, DefaultMCVTarget)
}
