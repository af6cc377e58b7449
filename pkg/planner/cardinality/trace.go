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
	"bytes"
	"fmt"
)

// Types of CE trace records, they tell which policy produced an estimate.
const (
	traceConstant     = "constant"
	traceNullLiteral  = "null"
	traceMCV          = "mcv"
	traceNDV          = "ndv"
	traceMCVOverlap   = "mcv-overlap"
	traceNullFraction = "null-fraction"
	traceDefault      = "default"
	traceDefaultEqual = "default-eq"
	traceNot          = "not"
	traceAnd          = "and"
	traceOr           = "or"
)

// CETraceRecord records an expression and related cardinality estimation result.
type CETraceRecord struct {
	Expr     string `json:"expr"`
	Type     string `json:"type"`
	RowCount uint64 `json:"row_count"`
}

// FormatTrace renders the records as an aligned table, one record per line.
func FormatTrace(records []*CETraceRecord) string {
	width := len("expr")
	for _, rec := range records {
		width = max(width, len(rec.Expr))
	}
	var buffer bytes.Buffer
	fmt.Fprintf(&buffer, "%-*s  %-13s  %s\n", width, "expr", "type", "row_count")
	for _, rec := range records {
		fmt.Fprintf(&buffer, "%-*s  %-13s  %d\n", width, rec.Expr, rec.Type, rec.RowCount)
	}
	return buffer.String()
}
