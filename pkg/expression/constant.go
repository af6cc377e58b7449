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
	"fmt"
	"strconv"

	"github.com/pingcap/tidb-selectivity/pkg/types"
)

// NewOne stands for the boolean constant TRUE.
func NewOne() *Constant {
	return &Constant{
		Value:   types.NewDatum(1),
		RetType: types.ETBool,
	}
}

// NewZero stands for the boolean constant FALSE.
func NewZero() *Constant {
	return &Constant{
		Value:   types.NewDatum(0),
		RetType: types.ETBool,
	}
}

// NewNull stands for null constant.
func NewNull() *Constant {
	return &Constant{
		Value:   types.Datum{},
		RetType: types.ETInt,
	}
}

// NewConstant creates a literal with the declared type.
func NewConstant(value types.Datum, retType types.EvalType) *Constant {
	return &Constant{Value: value, RetType: retType}
}

// Constant stands for a constant value.
type Constant struct {
	Value   types.Datum
	RetType types.EvalType
}

// String implements fmt.Stringer interface.
func (c *Constant) String() string {
	if c.RetType == types.ETBool && !c.Value.IsNull() {
		if c.Value.GetInt64() != 0 {
			return "true"
		}
		return "false"
	}
	switch c.Value.Kind() {
	case types.KindString, types.KindBytes:
		return strconv.Quote(c.Value.GetString())
	}
	return c.Value.ToString()
}

// GetType implements Expression interface.
func (c *Constant) GetType() types.EvalType {
	return c.RetType
}

func (*Constant) exprNode() {}

// IsTrue reports whether the constant is a non-null number other than zero.
func (c *Constant) IsTrue() bool {
	switch c.Value.Kind() {
	case types.KindInt64, types.KindUint64:
		return c.Value.GetInt64() != 0
	case types.KindFloat64:
		return c.Value.GetFloat64() != 0
	}
	return false
}

// IsFalse reports whether the constant is numeric zero.
func (c *Constant) IsFalse() bool {
	switch c.Value.Kind() {
	case types.KindInt64, types.KindUint64:
		return c.Value.GetInt64() == 0
	case types.KindFloat64:
		return c.Value.GetFloat64() == 0
	}
	return false
}

// ParamMarker is a placeholder resolved against the bound parameter row.
type ParamMarker struct {
	// Order is the 0-based position inside the bound row.
	Order int
}

// NewParamMarker creates a placeholder for the parameter at order.
func NewParamMarker(order int) *ParamMarker {
	return &ParamMarker{Order: order}
}

// String implements fmt.Stringer interface.
func (p *ParamMarker) String() string {
	return fmt.Sprintf("?%d", p.Order)
}

// GetType implements Expression interface. A placeholder takes the type of
// the value bound to it, so its static type is unknown.
func (*ParamMarker) GetType() types.EvalType {
	return types.ETInt
}

func (*ParamMarker) exprNode() {}

// Resolve returns the value bound to the placeholder, or false when there's no such value.
func (p *ParamMarker) Resolve(params []types.Datum) (types.Datum, bool) {
	if p.Order < 0 || p.Order >= len(params) {
		return types.Datum{}, false
	}
	return params[p.Order], true
}
