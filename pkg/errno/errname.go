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

package errno

// MySQLErrName maps error codes to their message templates.
var MySQLErrName = map[int]string{
	ErrUnknown:  "Unknown error",
	ErrInternal: "Internal error: %s",

	ErrStatsDataIntegrity: "Statistics data integrity violation: %s",
	ErrTypeMismatch:       "Cannot compare value of type %s with value of type %s",
	ErrInvalidStatsFile:   "Invalid statistics file '%s': %s",
	ErrInvalidConfig:      "Invalid config: %s",
}
