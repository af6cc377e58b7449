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

package types

import (
	"strings"

	"github.com/pingcap/errors"
	"github.com/pingcap/tidb-selectivity/pkg/util/dbterror/plannererrors"
)

// EvalType indicates the type a value is compared as.
type EvalType byte

const (
	// ETInt represents type INT in evaluation.
	ETInt EvalType = iota
	// ETReal represents type REAL in evaluation.
	ETReal
	// ETString represents type STRING in evaluation.
	ETString
	// ETBool represents type BOOLEAN in evaluation.
	ETBool
)

var etNames = [...]string{
	ETInt:    "Int",
	ETReal:   "Real",
	ETString: "String",
	ETBool:   "Bool",
}

// String implements fmt.Stringer interface.
func (et EvalType) String() string {
	if int(et) < len(etNames) {
		return etNames[et]
	}
	return "Unknown"
}

// IsNumeric returns true if the EvalType is compared by numeric value.
func (et EvalType) IsNumeric() bool {
	return et == ETInt || et == ETReal || et == ETBool
}

// IsStringKind returns true if the EvalType is compared byte by byte.
func (et EvalType) IsStringKind() bool {
	return et == ETString
}

// CheckComparable returns ErrTypeMismatch when values of lhs and rhs cannot be compared.
func CheckComparable(lhs, rhs EvalType) error {
	if lhs.IsNumeric() && rhs.IsNumeric() {
		return nil
	}
	if lhs.IsStringKind() && rhs.IsStringKind() {
		return nil
	}
	return plannererrors.ErrTypeMismatch.GenWithStackByArgs(lhs, rhs)
}

// ParseEvalType parses the name of an EvalType, as written in config and statistics files.
func ParseEvalType(name string) (EvalType, error) {
	switch strings.ToLower(name) {
	case "int", "integer", "bigint":
		return ETInt, nil
	case "real", "double", "float":
		return ETReal, nil
	case "string", "text", "varchar":
		return ETString, nil
	case "bool", "boolean":
		return ETBool, nil
	}
	return 0, errors.Errorf("unknown type %q", name)
}
