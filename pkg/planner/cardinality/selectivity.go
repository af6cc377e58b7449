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
	"math"

	"github.com/pingcap/errors"
	"github.com/pingcap/tidb-selectivity/pkg/expression"
	"github.com/pingcap/tidb-selectivity/pkg/parser/ast"
	"github.com/pingcap/tidb-selectivity/pkg/statistics"
	"github.com/pingcap/tidb-selectivity/pkg/types"
)

// Estimator estimates how many rows of a relation satisfy a predicate.
// It never mutates the statistics and is safe for concurrent use.
type Estimator struct {
	opts Options
}

// NewEstimator creates an Estimator with the given options.
func NewEstimator(opts Options) *Estimator {
	return &Estimator{opts: opts}
}

var defaultEstimator = NewEstimator(DefaultOptions())

// EstimateRowCount estimates the row count of expr with the default options.
func EstimateRowCount(stats *statistics.Stats, expr expression.Expression, params []types.Datum) (int64, error) {
	return defaultEstimator.EstimateRowCount(stats, expr, params)
}

// EstimateRowCount estimates the number of rows of stats selected by expr. params is the
// bound parameter row that resolves placeholders, nil when no parameters are bound.
// The result is in [0, stats.NumDocs()].
func (e *Estimator) EstimateRowCount(stats *statistics.Stats, expr expression.Expression, params []types.Datum) (int64, error) {
	rows, _, err := e.estimate(stats, expr, params, false)
	return rows, err
}

// EstimateRowCountWithTrace is like EstimateRowCount and also returns one trace record per
// evaluated node in post order, the root being the last one.
func (e *Estimator) EstimateRowCountWithTrace(stats *statistics.Stats, expr expression.Expression, params []types.Datum) (int64, []*CETraceRecord, error) {
	return e.estimate(stats, expr, params, true)
}

type estimateCtx struct {
	stats   *statistics.Stats
	params  []types.Datum
	opts    *Options
	trace   []*CETraceRecord
	numDocs float64
	tracing bool
}

func (c *estimateCtx) clamp(rows float64) float64 {
	if math.IsNaN(rows) || rows < 0 {
		return 0
	}
	return math.Min(rows, c.numDocs)
}

func (c *estimateCtx) record(expr expression.Expression, tp string, rows float64) {
	if !c.tracing {
		return
	}
	c.trace = append(c.trace, &CETraceRecord{
		Expr:     expr.String(),
		Type:     tp,
		RowCount: uint64(rows),
	})
}

// frame is a predicate node waiting for the estimates of its children.
type frame struct {
	sf *expression.ScalarFunction
	// base is where the estimates of the children start on the result stack.
	base int
	next int
}

func isLogicFunc(expr expression.Expression) (*expression.ScalarFunction, bool) {
	sf, ok := expr.(*expression.ScalarFunction)
	if !ok {
		return nil, false
	}
	switch sf.FuncName {
	case ast.LogicAnd, ast.LogicOr:
		return sf, true
	case ast.UnaryNot:
		return sf, len(sf.Args) == 1
	}
	return nil, false
}

// estimate walks the predicate tree in post order with an explicit stack, so the depth of
// the tree doesn't grow the goroutine stack. Every node yields an untruncated row count
// clamped into [0, numDocs], only the final result is truncated.
func (e *Estimator) estimate(stats *statistics.Stats, expr expression.Expression, params []types.Datum, tracing bool) (int64, []*CETraceRecord, error) {
	if stats == nil {
		stats = statistics.EmptyStats
	}
	c := &estimateCtx{
		stats:   stats,
		params:  params,
		opts:    &e.opts,
		numDocs: float64(stats.NumDocs()),
		tracing: tracing,
	}
	results := make([]float64, 0, 8)
	var stack []frame
	push := func(expr expression.Expression) error {
		if expr == nil {
			return errors.New("nil predicate")
		}
		if sf, ok := isLogicFunc(expr); ok {
			stack = append(stack, frame{sf: sf, base: len(results)})
			return nil
		}
		rows, tp, err := c.estimateLeaf(expr)
		if err != nil {
			return err
		}
		rows = c.clamp(rows)
		c.record(expr, tp, rows)
		results = append(results, rows)
		return nil
	}
	if err := push(expr); err != nil {
		return 0, nil, err
	}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next < len(top.sf.Args) {
			child := top.sf.Args[top.next]
			top.next++
			if err := push(child); err != nil {
				return 0, nil, err
			}
			continue
		}
		sf, children := top.sf, results[top.base:]
		var rows float64
		var tp string
		switch sf.FuncName {
		case ast.UnaryNot:
			rows, tp = c.numDocs-math.Trunc(children[0]), traceNot
		case ast.LogicAnd:
			rows, tp = c.combineAnd(children), traceAnd
		default:
			rows, tp = c.combineOr(children), traceOr
		}
		rows = c.clamp(rows)
		c.record(sf, tp, rows)
		results = append(results[:top.base], rows)
		stack = stack[:len(stack)-1]
	}
	return int64(results[0]), c.trace, nil
}

// combineAnd assumes the conjuncts are independent. A conjunct selecting every row
// is the identity of the product and is skipped.
func (c *estimateCtx) combineAnd(children []float64) float64 {
	if c.numDocs == 0 {
		return 0
	}
	rows := c.numDocs
	first := true
	for _, r := range children {
		if r >= c.numDocs {
			continue
		}
		if first {
			rows, first = r, false
			continue
		}
		rows *= r / c.numDocs
	}
	return rows
}

// combineOr assumes the disjuncts are independent. A disjunct selecting no row
// is the identity and is skipped.
func (c *estimateCtx) combineOr(children []float64) float64 {
	if c.numDocs == 0 {
		return 0
	}
	var selected []float64
	for _, r := range children {
		if r >= c.numDocs {
			return c.numDocs
		}
		if r > 0 {
			selected = append(selected, r)
		}
	}
	switch len(selected) {
	case 0:
		return 0
	case 1:
		return selected[0]
	}
	unselected := 1.0
	for _, r := range selected {
		unselected *= 1 - r/c.numDocs
	}
	return c.numDocs * (1 - unselected)
}

func (c *estimateCtx) byDefault() (float64, string) {
	return c.numDocs * c.opts.DefaultSelectivity, traceDefault
}

func (c *estimateCtx) byDefaultEqual() (float64, string) {
	return c.numDocs * c.opts.DefaultEqualSelectivity, traceDefaultEqual
}

// checkLeafArgs rejects hand built functions with a nil argument at any depth.
func checkLeafArgs(sf *expression.ScalarFunction) error {
	pending := []*expression.ScalarFunction{sf}
	for len(pending) > 0 {
		f := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		for i, arg := range f.Args {
			if arg == nil {
				return errors.Errorf("argument %d of %s is nil", i, f.FuncName)
			}
			if inner, ok := arg.(*expression.ScalarFunction); ok {
				pending = append(pending, inner)
			}
		}
	}
	return nil
}

func (c *estimateCtx) estimateLeaf(expr expression.Expression) (float64, string, error) {
	if sf, ok := expr.(*expression.ScalarFunction); ok {
		if err := checkLeafArgs(sf); err != nil {
			return 0, "", err
		}
	}
	switch x := expr.(type) {
	case *expression.Constant:
		switch {
		case x.Value.IsNull():
			return 0, traceNullLiteral, nil
		case x.IsTrue():
			return c.numDocs, traceConstant, nil
		case x.IsFalse():
			return 0, traceConstant, nil
		}
		rows, tp := c.byDefault()
		return rows, tp, nil
	case *expression.ScalarFunction:
		switch x.FuncName {
		case ast.EQ:
			if len(x.Args) == 2 {
				return c.estimateEqual(x.Args[0], x.Args[1])
			}
		case ast.IsNull:
			if len(x.Args) == 1 {
				return c.estimateIsNull(x.Args[0], false)
			}
		case ast.IsNotNull:
			if len(x.Args) == 1 {
				return c.estimateIsNull(x.Args[0], true)
			}
		}
	}
	rows, tp := c.byDefault()
	return rows, tp, nil
}

type operandKind byte

const (
	operandOther operandKind = iota
	operandColumn
	operandValue
	// operandUnresolved is a placeholder without a bound value.
	operandUnresolved
)

type operand struct {
	col     *expression.Column
	value   types.Datum
	kind    operandKind
	retType types.EvalType
}

func (c *estimateCtx) resolve(expr expression.Expression) operand {
	switch x := expr.(type) {
	case *expression.Column:
		return operand{kind: operandColumn, col: x}
	case *expression.Constant:
		return operand{kind: operandValue, value: x.Value, retType: x.RetType}
	case *expression.ParamMarker:
		d, ok := x.Resolve(c.params)
		if !ok {
			return operand{kind: operandUnresolved}
		}
		return operand{kind: operandValue, value: d, retType: d.EvalType()}
	}
	return operand{kind: operandOther}
}

func (c *estimateCtx) estimateEqual(lhsExpr, rhsExpr expression.Expression) (float64, string, error) {
	lhs, rhs := c.resolve(lhsExpr), c.resolve(rhsExpr)
	// Equality against NULL is never true.
	if (lhs.kind == operandValue && lhs.value.IsNull()) || (rhs.kind == operandValue && rhs.value.IsNull()) {
		return 0, traceNullLiteral, nil
	}
	if lhs.kind == operandValue && rhs.kind == operandColumn {
		lhs, rhs = rhs, lhs
	}
	switch {
	case lhs.kind == operandColumn && rhs.kind == operandValue:
		return c.estimateColumnEqualValue(lhs.col, &rhs.value, rhs.retType)
	case lhs.kind == operandColumn && rhs.kind == operandColumn:
		return c.estimateColumnEqualColumn(lhs.col, rhs.col)
	case lhs.kind == operandValue && rhs.kind == operandValue:
		cmp, err := lhs.value.Compare(&rhs.value)
		if err != nil {
			return 0, "", errors.Trace(err)
		}
		if cmp == 0 {
			return c.numDocs, traceConstant, nil
		}
		return 0, traceConstant, nil
	case lhs.kind == operandUnresolved || rhs.kind == operandUnresolved:
		rows, tp := c.byDefaultEqual()
		return rows, tp, nil
	}
	rows, tp := c.byDefault()
	return rows, tp, nil
}

func (c *estimateCtx) estimateColumnEqualValue(col *expression.Column, value *types.Datum, retType types.EvalType) (float64, string, error) {
	colStats, ok := c.stats.ColumnStats(col.Name)
	if !ok {
		rows, tp := c.byDefaultEqual()
		return rows, tp, nil
	}
	if err := types.CheckComparable(retType, colStats.ValueType()); err != nil {
		return 0, "", errors.Trace(err)
	}
	freq, found, err := colStats.MostCommonValues().Frequency(value)
	if err != nil {
		return 0, "", errors.Trace(err)
	}
	if found {
		return c.numDocs * freq, traceMCV, nil
	}
	if ndv := colStats.ApproxDistinct(); ndv > 0 {
		return c.numDocs * (1 / float64(ndv)), traceNDV, nil
	}
	rows, tp := c.byDefaultEqual()
	return rows, tp, nil
}

func (c *estimateCtx) estimateColumnEqualColumn(lhs, rhs *expression.Column) (float64, string, error) {
	lhsStats, lhsOK := c.stats.ColumnStats(lhs.Name)
	rhsStats, rhsOK := c.stats.ColumnStats(rhs.Name)
	if lhsOK && rhsOK {
		if err := types.CheckComparable(lhsStats.ValueType(), rhsStats.ValueType()); err != nil {
			return 0, "", errors.Trace(err)
		}
		lhsMCV, rhsMCV := lhsStats.MostCommonValues(), rhsStats.MostCommonValues()
		if !lhsMCV.IsEmpty() && !rhsMCV.IsEmpty() {
			sel := 0.0
			values, freqs := lhsMCV.Values(), lhsMCV.Frequencies()
			for i := range values {
				rhsFreq, found, err := rhsMCV.Frequency(&values[i])
				if err != nil {
					return 0, "", errors.Trace(err)
				}
				if found {
					sel += freqs[i] * rhsFreq
				}
			}
			return c.numDocs * sel, traceMCVOverlap, nil
		}
	}
	// Columns without statistics don't take part in the max.
	var maxNDV int64
	if lhsOK {
		maxNDV = max(maxNDV, lhsStats.ApproxDistinct())
	}
	if rhsOK {
		maxNDV = max(maxNDV, rhsStats.ApproxDistinct())
	}
	if maxNDV == 0 {
		rows, tp := c.byDefaultEqual()
		return rows, tp, nil
	}
	return c.numDocs * (1 / float64(maxNDV)), traceNDV, nil
}

func (c *estimateCtx) estimateIsNull(arg expression.Expression, negated bool) (float64, string, error) {
	var sel float64
	tp := traceNullFraction
	switch op := c.resolve(arg); op.kind {
	case operandColumn:
		if colStats, ok := c.stats.ColumnStats(op.col.Name); ok {
			sel = colStats.NullFraction()
		}
	case operandValue:
		tp = traceConstant
		if op.value.IsNull() {
			sel = 1
		}
	default:
		rows, tp := c.byDefault()
		return rows, tp, nil
	}
	if negated {
		sel = 1 - sel
	}
	return c.numDocs * sel, tp, nil
}
