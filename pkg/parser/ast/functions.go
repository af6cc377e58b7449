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

package ast

// List scalar function names used by predicates.
const (
	LogicAnd  = "and"
	LogicOr   = "or"
	UnaryNot  = "not"
	EQ        = "eq"
	NE        = "ne"
	LT        = "lt"
	LE        = "le"
	GT        = "gt"
	GE        = "ge"
	NullEQ    = "nulleq"
	IsNull    = "isnull"
	IsNotNull = "isnotnull"
	Like      = "like"
	In        = "in"
)

var comparisonFuncs = map[string]struct{}{
	EQ: {}, NE: {}, LT: {}, LE: {}, GT: {}, GE: {}, NullEQ: {},
}

// IsComparisonFunc reports whether name is a binary comparison operator.
func IsComparisonFunc(name string) bool {
	_, ok := comparisonFuncs[name]
	return ok
}
