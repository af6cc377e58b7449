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

	"github.com/pingcap/tidb-selectivity/pkg/parser/ast"
	"github.com/pingcap/tidb-selectivity/pkg/types"
)

// Expression represents a node of an already type-checked predicate tree.
// The set of implementations is closed: *Constant, *Column, *ParamMarker and *ScalarFunction.
type Expression interface {
	fmt.Stringer

	// GetType gets the type that the expression returns.
	GetType() types.EvalType

	// exprNode seals the interface.
	exprNode()
}

var (
	_ Expression = &Constant{}
	_ Expression = &Column{}
	_ Expression = &ParamMarker{}
	_ Expression = &ScalarFunction{}
)

// ComposeCNFCondition composes CNF items into a balance deep CNF tree, which benefits a lot for pb decoder/encoder.
// An empty list composes to TRUE.
func ComposeCNFCondition(conditions ...Expression) Expression {
	if len(conditions) == 0 {
		return NewOne()
	}
	return composeConditionWithBinaryOp(conditions, ast.LogicAnd)
}

// ComposeDNFCondition composes DNF items into a balance deep DNF tree.
// An empty list composes to FALSE.
func ComposeDNFCondition(conditions ...Expression) Expression {
	if len(conditions) == 0 {
		return NewZero()
	}
	return composeConditionWithBinaryOp(conditions, ast.LogicOr)
}

func composeConditionWithBinaryOp(conditions []Expression, funcName string) Expression {
	length := len(conditions)
	if length == 1 {
		return conditions[0]
	}
	return NewFunctionInternal(funcName,
		composeConditionWithBinaryOp(conditions[:length/2], funcName),
		composeConditionWithBinaryOp(conditions[length/2:], funcName))
}

// SplitCNFItems splits CNF items.
// CNF means conjunctive normal form, e.g. "a and b and c".
func SplitCNFItems(onExpr Expression) []Expression {
	return splitNormalFormItems(onExpr, ast.LogicAnd)
}

// SplitDNFItems splits DNF items.
// DNF means disjunctive normal form, e.g. "a or b or c".
func SplitDNFItems(onExpr Expression) []Expression {
	return splitNormalFormItems(onExpr, ast.LogicOr)
}

func splitNormalFormItems(onExpr Expression, funcName string) []Expression {
	sf, ok := onExpr.(*ScalarFunction)
	if !ok || sf.FuncName != funcName {
		return []Expression{onExpr}
	}
	ret := make([]Expression, 0, len(sf.Args))
	for _, arg := range sf.Args {
		ret = append(ret, splitNormalFormItems(arg, funcName)...)
	}
	return ret
}
