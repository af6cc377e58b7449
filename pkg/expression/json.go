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
	"encoding/json"
	"strconv"

	"github.com/pingcap/errors"
	"github.com/pingcap/tidb-selectivity/pkg/types"
)

// DecodeJSON decodes the JSON form of a predicate tree. Each node is an object with one of:
//
//	{"func": "eq", "args": [...]}
//	{"column": "x", "type": "int"}
//	{"param": 0}
//	{"value": 10, "type": "int"}
//
// "type" is optional, a literal without it takes the type of its value.
func DecodeJSON(data []byte) (Expression, error) {
	var node map[string]json.RawMessage
	if err := json.Unmarshal(data, &node); err != nil {
		return nil, errors.Annotatef(err, "decode predicate %s", data)
	}
	retType, hasType, err := decodeType(node)
	if err != nil {
		return nil, err
	}
	if raw, ok := node["func"]; ok {
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			return nil, errors.Annotate(err, "decode function name")
		}
		var rawArgs []json.RawMessage
		if raw, ok := node["args"]; ok {
			if err := json.Unmarshal(raw, &rawArgs); err != nil {
				return nil, errors.Annotatef(err, "decode arguments of %s", name)
			}
		}
		args := make([]Expression, 0, len(rawArgs))
		for _, rawArg := range rawArgs {
			arg, err := DecodeJSON(rawArg)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		return NewFunction(name, args...)
	}
	if raw, ok := node["column"]; ok {
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			return nil, errors.Annotate(err, "decode column name")
		}
		if !hasType {
			retType = types.ETInt
		}
		return NewColumn(name, retType), nil
	}
	if raw, ok := node["param"]; ok {
		var order int
		if err := json.Unmarshal(raw, &order); err != nil {
			return nil, errors.Annotate(err, "decode parameter order")
		}
		if order < 0 {
			return nil, errors.Errorf("negative parameter order %d", order)
		}
		return NewParamMarker(order), nil
	}
	if raw, ok := node["value"]; ok {
		d, err := DecodeJSONValue(raw)
		if err != nil {
			return nil, err
		}
		if !hasType {
			return NewConstant(d, literalType(&d, raw)), nil
		}
		if d.IsNull() {
			return NewConstant(d, retType), nil
		}
		if err := types.CheckComparable(d.EvalType(), retType); err != nil {
			return nil, errors.Trace(err)
		}
		if retType == types.ETReal && d.Kind() == types.KindInt64 {
			d = types.NewFloat64Datum(float64(d.GetInt64()))
		}
		return NewConstant(d, retType), nil
	}
	return nil, errors.Errorf("unknown predicate node %s", data)
}

func decodeType(node map[string]json.RawMessage) (types.EvalType, bool, error) {
	raw, ok := node["type"]
	if !ok {
		return 0, false, nil
	}
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return 0, false, errors.Annotate(err, "decode type")
	}
	et, err := types.ParseEvalType(name)
	if err != nil {
		return 0, false, errors.Trace(err)
	}
	return et, true, nil
}

func literalType(d *types.Datum, raw json.RawMessage) types.EvalType {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("true")) || bytes.Equal(bytes.TrimSpace(raw), []byte("false")) {
		return types.ETBool
	}
	return d.EvalType()
}

// DecodeJSONValue decodes a scalar JSON value into a Datum.
// Integral numbers become int64 (uint64 when they overflow it), other numbers float64.
func DecodeJSONValue(data []byte) (types.Datum, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return types.Datum{}, errors.Annotatef(err, "decode value %s", data)
	}
	switch x := v.(type) {
	case nil:
		return types.Datum{}, nil
	case bool:
		return types.NewDatum(x), nil
	case string:
		return types.NewStringDatum(x), nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return types.NewIntDatum(i), nil
		}
		if u, err := strconv.ParseUint(x.String(), 10, 64); err == nil {
			return types.NewUintDatum(u), nil
		}
		f, err := x.Float64()
		if err != nil {
			return types.Datum{}, errors.Annotatef(err, "decode number %s", x)
		}
		return types.NewFloat64Datum(f), nil
	}
	return types.Datum{}, errors.Errorf("value %s is not a scalar", data)
}
