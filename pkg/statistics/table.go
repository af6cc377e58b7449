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
	"slices"

	"github.com/pingcap/tidb-selectivity/pkg/util/dbterror/plannererrors"
)

// EmptyStats is the statistics of a relation without rows.
var EmptyStats = &Stats{}

// Stats is the statistics of a relation: its row count, average row width and column summaries.
// It is immutable once created, a refresh publishes a new instance.
type Stats struct {
	columns        map[string]*ColumnStats
	numDocs        int64
	averageRowSize int64
}

// NewStats checks and creates a Stats. The column map is copied.
func NewStats(numDocs, averageRowSize int64, columns map[string]*ColumnStats) (*Stats, error) {
	if numDocs < 0 || averageRowSize < 0 {
		return nil, plannererrors.ErrDataIntegrity.GenWithStackByArgs(
			fmt.Sprintf("negative row count %d or row size %d", numDocs, averageRowSize))
	}
	cols := make(map[string]*ColumnStats, len(columns))
	for name, col := range columns {
		if col == nil {
			return nil, plannererrors.ErrDataIntegrity.GenWithStackByArgs(
				fmt.Sprintf("nil statistics for column %s", name))
		}
		cols[name] = col
	}
	return &Stats{columns: cols, numDocs: numDocs, averageRowSize: averageRowSize}, nil
}

// NumDocs returns the estimated row count.
func (s *Stats) NumDocs() int64 {
	return s.numDocs
}

// AverageRowSize returns the average width of a row in bytes.
func (s *Stats) AverageRowSize() int64 {
	return s.averageRowSize
}

// ColumnStats returns the statistics of a column, or false if none were collected for it.
func (s *Stats) ColumnStats(name string) (*ColumnStats, bool) {
	col, ok := s.columns[name]
	return col, ok
}

// ColumnNames returns the names of the columns with statistics in ascending order.
func (s *Stats) ColumnNames() []string {
	names := make([]string, 0, len(s.columns))
	for name := range s.columns {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ColumnCount returns the number of columns with statistics.
func (s *Stats) ColumnCount() int {
	return len(s.columns)
}

// EstimateSizeForColumns estimates the width in bytes of a row projected to numColumns columns,
// assuming every column contributes equally to the average row size.
func (s *Stats) EstimateSizeForColumns(numColumns int) int64 {
	if numColumns <= 0 {
		return 0
	}
	return int64(numColumns) * s.averageRowSize / int64(max(1, len(s.columns)))
}
