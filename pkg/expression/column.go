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

package expression

import (
	"github.com/pingcap/tidb-selectivity/pkg/types"
)

// Column represents a column.
type Column struct {
	// Name identifies the column inside the relation statistics.
	Name    string
	RetType types.EvalType
}

// NewColumn creates a column reference.
func NewColumn(name string, retType types.EvalType) *Column {
	return &Column{Name: name, RetType: retType}
}

// String implements Stringer interface.
func (col *Column) String() string {
	return col.Name
}

// GetType implements Expression interface.
func (col *Column) GetType() types.EvalType {
	return col.RetType
}

func (*Column) exprNode() {}
