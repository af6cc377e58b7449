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

package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pingcap/tidb-selectivity/pkg/statistics"
	"github.com/pingcap/tidb-selectivity/pkg/types"
	"github.com/pingcap/tidb-selectivity/pkg/util/dbterror/plannererrors"
	"github.com/stretchr/testify/require"
)

func TestLoadTableStats(t *testing.T) {
	tables, err := LoadTableStats(filepath.Join("testdata", "stats.toml"))
	require.NoError(t, err)
	require.Len(t, tables, 3)

	tbl := tables["t"]
	require.Equal(t, int64(22), tbl.NumDocs())
	require.Equal(t, int64(16), tbl.AverageRowSize())
	x, ok := tbl.ColumnStats("x")
	require.True(t, ok)
	require.Equal(t, int64(7), x.ApproxDistinct())
	require.Equal(t, []float64{8.0 / 22, 7.0 / 22}, x.MostCommonValues().Frequencies())

	j := tables["j"]
	require.Equal(t, int64(40), j.NumDocs())
	y, ok := j.ColumnStats("y")
	require.True(t, ok)
	require.Equal(t, int64(10), y.MostCommonValues().Values()[0].GetInt64())

	n := tables["n"]
	x, ok = n.ColumnStats("x")
	require.True(t, ok)
	require.Equal(t, 0.5, x.NullFraction())
	s, ok := n.ColumnStats("s")
	require.True(t, ok)
	require.Equal(t, types.ETString, s.ValueType())
	require.Equal(t, "a", s.MostCommonValues().Values()[0].GetString())
	require.Equal(t, []string{"s", "x"}, n.ColumnNames())
}

func TestLoadTableStatsMissingFile(t *testing.T) {
	_, err := LoadTableStats(filepath.Join(t.TempDir(), "absent.toml"))
	require.True(t, plannererrors.ErrInvalidStatsFile.Equal(err))

	path := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[table]\n"), 0o600))
	_, err = LoadTableStats(path)
	require.True(t, plannererrors.ErrInvalidStatsFile.Equal(err))
	require.Contains(t, err.Error(), path)
}

func TestDecodeTableStatsOptions(t *testing.T) {
	const data = `
[[table]]
name = "t"
[[table.column]]
name = "r"
type = "real"
values = [3, 1.5, 1.5, 3, 3]
`
	tables, err := DecodeTableStats(data)
	require.NoError(t, err)
	r, _ := tables["t"].ColumnStats("r")
	require.Equal(t, 2, r.MostCommonValues().Len())
	require.Equal(t, types.KindFloat64, r.MostCommonValues().Values()[0].Kind())
	require.Equal(t, 3.0, r.MostCommonValues().Values()[0].GetFloat64())
	require.Equal(t, int64(5), tables["t"].NumDocs())

	tables, err = DecodeTableStats(data, statistics.WithMCVTarget(1))
	require.NoError(t, err)
	r, _ = tables["t"].ColumnStats("r")
	require.Equal(t, 1, r.MostCommonValues().Len())
}

func TestDecodeTableStatsErrors(t *testing.T) {
	const data = `
[[table]]
name = "t"
unknown-key = 1
[[table.column]]
name = "a"
type = "int"
null-count = 3
total-count = 2
values = [1]
[[table.column]]
name = "b"
type = "int"
values = [1, "x"]
[[table.column]]
name = "c"
type = "json"
[[table.column]]
name = "c"
type = "int"
[[table.column]]
name = "d"
type = "int"
ndv = 1
mcv-values = [1, 2]
mcv-frequencies = [0.5, 0.5]
[[table.column]]
type = "int"

[[table]]
name = "t"

[[table]]
row-count = 1
`
	_, err := DecodeTableStats(data)
	require.True(t, plannererrors.ErrInvalidStatsFile.Equal(err))
	msg := err.Error()
	for _, part := range []string{
		"unknown key table.unknown-key",
		"table t column a",
		"table t column b",
		"table t column c",
		"duplicated column c",
		"table t column d",
		"column #5 has no name",
		"duplicated table t",
		"table #2 has no name",
	} {
		require.Contains(t, msg, part)
	}

	for _, bad := range []string{
		`[[table]]
name = "t"
[[table.column]]
name = "a"
type = "int"
ndv = 2
values = [1]`,
		`[[table]]
name = "t"
[[table.column]]
name = "a"
type = "int"
mcv-values = [1]`,
		`[[table]]
name = "t"
[[table.column]]
name = "a"
values = [1]`,
		`[[table]]
name = "t"
row-count = -1`,
	} {
		_, err := DecodeTableStats(bad)
		require.True(t, plannererrors.ErrInvalidStatsFile.Equal(err), bad)
	}
}
