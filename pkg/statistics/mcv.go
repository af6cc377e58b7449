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

package statistics

import (
	"fmt"

	"github.com/pingcap/errors"
	"github.com/pingcap/tidb-selectivity/pkg/types"
	"github.com/pingcap/tidb-selectivity/pkg/util/dbterror/plannererrors"
)

// frequencyEpsilon absorbs rounding when frequencies that sum to one are added up.
const frequencyEpsilon = 1e-9

// MostCommonValues stores the most frequent values of a column and their frequencies.
// Frequencies are fractions of the non-null rows, sorted in descending order.
type MostCommonValues struct {
	values      []types.Datum
	frequencies []float64
}

// NewMostCommonValues checks and creates a MostCommonValues. It takes the ownership of the slices.
func NewMostCommonValues(values []types.Datum, frequencies []float64) (MostCommonValues, error) {
	if len(values) != len(frequencies) {
		return MostCommonValues{}, plannererrors.ErrDataIntegrity.GenWithStackByArgs(
			fmt.Sprintf("%d most common values but %d frequencies", len(values), len(frequencies)))
	}
	var total float64
	for i, freq := range frequencies {
		if !(freq > 0 && freq <= 1) {
			return MostCommonValues{}, plannererrors.ErrDataIntegrity.GenWithStackByArgs(
				fmt.Sprintf("frequency %v of %s is out of (0, 1]", freq, values[i].ToString()))
		}
		if i > 0 && freq > frequencies[i-1] {
			return MostCommonValues{}, plannererrors.ErrDataIntegrity.GenWithStackByArgs(
				"most common values are not sorted by descending frequency")
		}
		if values[i].IsNull() {
			return MostCommonValues{}, plannererrors.ErrDataIntegrity.GenWithStackByArgs("NULL in most common values")
		}
		total += freq
	}
	if total > 1+frequencyEpsilon {
		return MostCommonValues{}, plannererrors.ErrDataIntegrity.GenWithStackByArgs(
			fmt.Sprintf("frequencies of most common values add up to %v", total))
	}
	if err := checkDistinct(values); err != nil {
		return MostCommonValues{}, err
	}
	return MostCommonValues{values: values, frequencies: frequencies}, nil
}

func checkDistinct(values []types.Datum) error {
	sorted := make([]types.Datum, len(values))
	copy(sorted, values)
	if err := types.SortDatums(sorted); err != nil {
		return err
	}
	for i := 1; i < len(sorted); i++ {
		cmp, err := sorted[i-1].Compare(&sorted[i])
		if err != nil {
			return errors.Trace(err)
		}
		if cmp == 0 {
			return plannererrors.ErrDataIntegrity.GenWithStackByArgs(
				fmt.Sprintf("duplicated most common value %s", sorted[i].ToString()))
		}
	}
	return nil
}

// Len returns the number of most common values.
func (m *MostCommonValues) Len() int {
	return len(m.values)
}

// IsEmpty checks whether there is no most common value.
func (m *MostCommonValues) IsEmpty() bool {
	return len(m.values) == 0
}

// Values returns the values in descending frequency order. The result must not be modified.
func (m *MostCommonValues) Values() []types.Datum {
	return m.values
}

// Frequencies returns the frequencies in descending order. The result must not be modified.
func (m *MostCommonValues) Frequencies() []float64 {
	return m.frequencies
}

// Frequency returns the frequency of d, or false if d is not a most common value.
// A value that cannot be compared with the stored values returns ErrTypeMismatch.
func (m *MostCommonValues) Frequency(d *types.Datum) (float64, bool, error) {
	for i := range m.values {
		cmp, err := m.values[i].Compare(d)
		if err != nil {
			return 0, false, errors.Trace(err)
		}
		if cmp == 0 {
			return m.frequencies[i], true, nil
		}
	}
	return 0, false, nil
}

// String implements fmt.Stringer interface.
func (m MostCommonValues) String() string {
	s := "["
	for i := range m.values {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%s:%v", m.values[i].ToString(), m.frequencies[i])
	}
	return s + "]"
}
