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

package dbterror

import (
	"fmt"

	"github.com/pingcap/errors"
	"github.com/pingcap/tidb-selectivity/pkg/errno"
)

// ErrClass represents a class of errors.
type ErrClass struct {
	name string
}

// Error classes.
var (
	ClassConfig     = ErrClass{name: "config"}
	ClassOptimizer  = ErrClass{name: "planner"}
	ClassStatistics = ErrClass{name: "statistics"}
	ClassTypes      = ErrClass{name: "types"}
)

// String implements fmt.Stringer.
func (ec ErrClass) String() string {
	return ec.name
}

// NewStd calls New using the standard message for the error code.
func (ec ErrClass) NewStd(code int) *errors.Error {
	msg, ok := errno.MySQLErrName[code]
	if !ok {
		msg = errno.MySQLErrName[errno.ErrUnknown]
	}
	return ec.NewStdErr(code, msg)
}

// NewStdErr defines an *Error with the given code and message template.
func (ec ErrClass) NewStdErr(code int, message string) *errors.Error {
	return errors.Normalize(message,
		errors.RFCCodeText(fmt.Sprintf("%s:%d", ec.name, code)),
		errors.MySQLErrorCode(code),
	)
}
