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

package plannererrors

import (
	"github.com/pingcap/tidb-selectivity/pkg/errno"
	"github.com/pingcap/tidb-selectivity/pkg/util/dbterror"
)

// error definitions.
var (
	// ErrDataIntegrity is returned when statistics input is internally inconsistent.
	ErrDataIntegrity = dbterror.ClassStatistics.NewStd(errno.ErrStatsDataIntegrity)
	// ErrTypeMismatch is returned when a value cannot be compared against a statistic's type.
	ErrTypeMismatch     = dbterror.ClassTypes.NewStd(errno.ErrTypeMismatch)
	ErrInvalidStatsFile = dbterror.ClassStatistics.NewStd(errno.ErrInvalidStatsFile)
	ErrInvalidConfig    = dbterror.ClassConfig.NewStd(errno.ErrInvalidConfig)
	ErrInternal         = dbterror.ClassOptimizer.NewStd(errno.ErrInternal)
)
