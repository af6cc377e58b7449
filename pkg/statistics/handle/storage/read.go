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
	"github.com/BurntSushi/toml"
	"github.com/pingcap/errors"
	"github.com/pingcap/tidb-selectivity/pkg/statistics"
	"github.com/pingcap/tidb-selectivity/pkg/statistics/handle/logutil"
	"github.com/pingcap/tidb-selectivity/pkg/types"
	"github.com/pingcap/tidb-selectivity/pkg/util/dbterror/plannererrors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// statsFile is the TOML layout of a statistics file:
//
//	[[table]]
//	name = "t"
//	row-count = 22
//	average-row-size = 16
//
//	[[table.column]]
//	name = "x"
//	type = "int"
//	null-count = 0
//	values = [1, 1, 5, 10]
//
//	[[table.column]]
//	name = "y"
//	type = "int"
//	null-fraction = 0.1
//	ndv = 2
//	mcv-values = [10, 2]
//	mcv-frequencies = [0.75, 0.25]
//
// A column either carries its non-null sample in values, or an already computed summary.
type statsFile struct {
	Tables []tableFile `toml:"table"`
}

type tableFile struct {
	RowCount       *int64       `toml:"row-count"`
	Name           string       `toml:"name"`
	Columns        []columnFile `toml:"column"`
	AverageRowSize int64        `toml:"average-row-size"`
}

type columnFile struct {
	TotalCount     *int64    `toml:"total-count"`
	NDV            *int64    `toml:"ndv"`
	Name           string    `toml:"name"`
	Type           string    `toml:"type"`
	Values         []any     `toml:"values"`
	MCVValues      []any     `toml:"mcv-values"`
	MCVFrequencies []float64 `toml:"mcv-frequencies"`
	NullCount      int64     `toml:"null-count"`
	NullFraction   float64   `toml:"null-fraction"`
}

// LoadTableStats reads a statistics file and builds the statistics of every table in it.
func LoadTableStats(path string, opts ...statistics.BuildOption) (map[string]*statistics.Stats, error) {
	var f statsFile
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, plannererrors.ErrInvalidStatsFile.GenWithStackByArgs(path, err.Error())
	}
	return buildTables(path, &f, md, opts)
}

// DecodeTableStats is like LoadTableStats but reads the statistics from data.
func DecodeTableStats(data string, opts ...statistics.BuildOption) (map[string]*statistics.Stats, error) {
	var f statsFile
	md, err := toml.Decode(data, &f)
	if err != nil {
		return nil, plannererrors.ErrInvalidStatsFile.GenWithStackByArgs("<inline>", err.Error())
	}
	return buildTables("<inline>", &f, md, opts)
}

func buildTables(source string, f *statsFile, md toml.MetaData, opts []statistics.BuildOption) (map[string]*statistics.Stats, error) {
	var errs error
	for _, key := range md.Undecoded() {
		errs = multierr.Append(errs, errors.Errorf("unknown key %s", key.String()))
	}
	tables := make(map[string]*statistics.Stats, len(f.Tables))
	seen := make(map[string]struct{}, len(f.Tables))
	for i := range f.Tables {
		tbl := &f.Tables[i]
		if tbl.Name == "" {
			errs = multierr.Append(errs, errors.Errorf("table #%d has no name", i))
			continue
		}
		if _, ok := seen[tbl.Name]; ok {
			errs = multierr.Append(errs, errors.Errorf("duplicated table %s", tbl.Name))
			continue
		}
		seen[tbl.Name] = struct{}{}
		stats, err := buildTable(tbl, opts)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		tables[tbl.Name] = stats
		logutil.StatsLogger().Debug("table statistics decoded",
			zap.String("source", source),
			zap.String("table", tbl.Name),
			zap.Int64("rowCount", stats.NumDocs()),
			zap.Int("columns", stats.ColumnCount()))
	}
	if errs != nil {
		return nil, plannererrors.ErrInvalidStatsFile.GenWithStackByArgs(source, errs.Error())
	}
	return tables, nil
}

func buildTable(tbl *tableFile, opts []statistics.BuildOption) (*statistics.Stats, error) {
	var errs error
	columns := make(map[string]*statistics.ColumnStats, len(tbl.Columns))
	seen := make(map[string]struct{}, len(tbl.Columns))
	var maxTotal int64
	for i := range tbl.Columns {
		colFile := &tbl.Columns[i]
		if colFile.Name == "" {
			errs = multierr.Append(errs, errors.Errorf("table %s: column #%d has no name", tbl.Name, i))
			continue
		}
		if _, ok := seen[colFile.Name]; ok {
			errs = multierr.Append(errs, errors.Errorf("table %s: duplicated column %s", tbl.Name, colFile.Name))
			continue
		}
		seen[colFile.Name] = struct{}{}
		col, total, err := buildColumn(colFile, opts)
		if err != nil {
			errs = multierr.Append(errs, errors.Annotatef(err, "table %s column %s", tbl.Name, colFile.Name))
			continue
		}
		columns[colFile.Name] = col
		maxTotal = max(maxTotal, total)
	}
	if errs != nil {
		return nil, errs
	}
	rowCount := maxTotal
	if tbl.RowCount != nil {
		rowCount = *tbl.RowCount
	}
	stats, err := statistics.NewStats(rowCount, tbl.AverageRowSize, columns)
	return stats, errors.Annotatef(err, "table %s", tbl.Name)
}

// buildColumn returns the column statistics and the total row count they were built from.
func buildColumn(colFile *columnFile, opts []statistics.BuildOption) (*statistics.ColumnStats, int64, error) {
	if colFile.Type == "" {
		return nil, 0, errors.New("missing type")
	}
	et, err := types.ParseEvalType(colFile.Type)
	if err != nil {
		return nil, 0, errors.Trace(err)
	}
	if colFile.NDV != nil {
		if colFile.Values != nil {
			return nil, 0, errors.New("values and ndv are mutually exclusive")
		}
		values, err := toDatums(colFile.MCVValues, et)
		if err != nil {
			return nil, 0, err
		}
		mcv, err := statistics.NewMostCommonValues(values, colFile.MCVFrequencies)
		if err != nil {
			return nil, 0, err
		}
		col, err := statistics.NewColumnStats(colFile.NullFraction, *colFile.NDV, mcv, et)
		var total int64
		if colFile.TotalCount != nil {
			total = *colFile.TotalCount
		}
		return col, total, err
	}
	if colFile.MCVValues != nil || colFile.MCVFrequencies != nil {
		return nil, 0, errors.New("mcv-values and mcv-frequencies require ndv")
	}
	sample, err := toDatums(colFile.Values, et)
	if err != nil {
		return nil, 0, err
	}
	if err := types.SortDatums(sample); err != nil {
		return nil, 0, err
	}
	total := int64(len(sample)) + colFile.NullCount
	if colFile.TotalCount != nil {
		total = *colFile.TotalCount
	}
	col, err := statistics.BuildColumnStatsFromSortedValues(sample, et, colFile.NullCount, total, opts...)
	return col, total, err
}

func toDatums(values []any, et types.EvalType) ([]types.Datum, error) {
	datums := make([]types.Datum, 0, len(values))
	for i, v := range values {
		d, err := types.ToDatum(v)
		if err != nil {
			return nil, errors.Annotatef(err, "value #%d", i)
		}
		if d.IsNull() {
			return nil, errors.Errorf("value #%d is null", i)
		}
		if err := types.CheckComparable(d.EvalType(), et); err != nil {
			return nil, errors.Annotatef(err, "value #%d", i)
		}
		if et == types.ETReal && d.Kind() == types.KindInt64 {
			d = types.NewFloat64Datum(float64(d.GetInt64()))
		}
		datums = append(datums, d)
	}
	return datums, nil
}
