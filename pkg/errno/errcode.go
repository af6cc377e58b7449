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

// Error codes. The 8xxx range is reserved for errors that have no MySQL counterpart.
const (
	ErrUnknown  = 1105
	ErrInternal = 8141

	ErrStatsDataIntegrity = 8270
	ErrTypeMismatch       = 8271
	ErrInvalidStatsFile   = 8272
	ErrInvalidConfig      = 8273
)
