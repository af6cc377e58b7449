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
	"bytes"

	"github.com/pingcap/errors"
	"github.com/pingcap/tidb-selectivity/pkg/parser/ast"
	"github.com/pingcap/tidb-selectivity/pkg/types"
)

// ScalarFunction is the function that returns a value.
type ScalarFunction struct {
	FuncName string
	Args     []Expression
}

// NewFunction creates a new scalar function.
// Logic and comparison functions have their arity checked, any other name is kept as is.
func NewFunction(funcName string, args ...Expression) (Expression, error) {
	if err := checkArgs(funcName, args); err != nil {
		return nil, err
	}
	for i, arg := range args {
		if arg == nil {
			return nil, errors.Errorf("argument %d of %s is nil", i, funcName)
		}
	}
	return &ScalarFunction{FuncName: funcName, Args: args}, nil
}

// NewFunctionInternal is similar to NewFunction, but do not return error, should only be used internally.
func NewFunctionInternal(funcName string, args ...Expression) Expression {
	expr, err := NewFunction(funcName, args...)
	if err != nil {
		panic(err)
	}
	return expr
}

func checkArgs(funcName string, args []Expression) error {
	want := -1
	switch {
	case funcName == ast.UnaryNot || funcName == ast.IsNull || funcName == ast.IsNotNull:
		want = 1
	case ast.IsComparisonFunc(funcName):
		want = 2
	case funcName == ast.LogicAnd || funcName == ast.LogicOr:
		if len(args) == 0 {
			return errors.Errorf("%s requires at least one argument", funcName)
		}
	}
	if want >= 0 && len(args) != want {
		return errors.Errorf("%s requires %d argument(s), got %d", funcName, want, len(args))
	}
	return nil
}

// String implements fmt.Stringer interface.
func (sf *ScalarFunction) String() string {
	var buffer bytes.Buffer
	buffer.WriteString(sf.FuncName)
	buffer.WriteString("(")
	for i, arg := range sf.Args {
		if arg == nil {
			buffer.WriteString("<nil>")
		} else {
			buffer.WriteString(arg.String())
		}
		if i+1 != len(sf.Args) {
			buffer.WriteString(", ")
		}
	}
	buffer.WriteString(")")
	return buffer.String()
}

// GetType implements Expression interface. Predicates are boolean.
func (*ScalarFunction) GetType() types.EvalType {
	return types.ETBool
}

func (*ScalarFunction) exprNode() {}
