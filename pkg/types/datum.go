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
	"bytes"
	"cmp"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/pingcap/errors"
	"github.com/pingcap/tidb-selectivity/pkg/util/dbterror/plannererrors"
)

// Kind constants.
const (
	KindNull    byte = 0
	KindInt64   byte = 1
	KindUint64  byte = 2
	KindFloat64 byte = 4
	KindString  byte = 5
	KindBytes   byte = 6
)

var kind2Str = map[byte]string{
	KindNull:    "null",
	KindInt64:   "bigint",
	KindUint64:  "unsigned bigint",
	KindFloat64: "double",
	KindString:  "char",
	KindBytes:   "bytes",
}

// Datum is a data box holds different kind of data.
// It has better performance and is easier to use than `interface{}`.
type Datum struct {
	k byte   // datum kind.
	i int64  // i can hold int64 uint64 float64 values.
	b []byte // b can hold string or []byte values.
}

// NewDatum creates a new Datum from an interface{}.
// It panics on a type that has no Datum representation, use ToDatum for untrusted input.
func NewDatum(in any) Datum {
	d, err := ToDatum(in)
	if err != nil {
		panic(err)
	}
	return d
}

// ToDatum converts a Go value into a Datum.
func ToDatum(in any) (d Datum, err error) {
	switch x := in.(type) {
	case nil:
		d.SetNull()
	case bool:
		if x {
			d.SetInt64(1)
		} else {
			d.SetInt64(0)
		}
	case int:
		d.SetInt64(int64(x))
	case int32:
		d.SetInt64(int64(x))
	case int64:
		d.SetInt64(x)
	case uint:
		d.SetUint64(uint64(x))
	case uint32:
		d.SetUint64(uint64(x))
	case uint64:
		d.SetUint64(x)
	case float32:
		d.SetFloat64(float64(x))
	case float64:
		d.SetFloat64(x)
	case string:
		d.SetString(x)
	case []byte:
		d.SetBytes(x)
	case Datum:
		d = x
	default:
		return d, errors.Errorf("unsupported datum type %T", in)
	}
	return d, nil
}

// NewIntDatum creates a new Datum from an int64 value.
func NewIntDatum(i int64) (d Datum) {
	d.SetInt64(i)
	return d
}

// NewUintDatum creates a new Datum from an uint64 value.
func NewUintDatum(i uint64) (d Datum) {
	d.SetUint64(i)
	return d
}

// NewFloat64Datum creates a new Datum from a float64 value.
func NewFloat64Datum(f float64) (d Datum) {
	d.SetFloat64(f)
	return d
}

// NewStringDatum creates a new Datum from a string.
func NewStringDatum(s string) (d Datum) {
	d.SetString(s)
	return d
}

// NewBytesDatum creates a new Datum from a byte slice.
func NewBytesDatum(b []byte) (d Datum) {
	d.SetBytes(b)
	return d
}

// MakeDatums creates datum slice from interfaces.
func MakeDatums(args ...any) []Datum {
	datums := make([]Datum, len(args))
	for i, v := range args {
		datums[i] = NewDatum(v)
	}
	return datums
}

// Kind gets the kind of the datum.
func (d *Datum) Kind() byte {
	return d.k
}

// IsNull checks if datum is null.
func (d *Datum) IsNull() bool {
	return d.k == KindNull
}

// SetNull sets datum to nil.
func (d *Datum) SetNull() {
	d.k = KindNull
	d.b = nil
	d.i = 0
}

// GetInt64 gets int64 value.
func (d *Datum) GetInt64() int64 {
	return d.i
}

// SetInt64 sets int64 value.
func (d *Datum) SetInt64(i int64) {
	d.k = KindInt64
	d.i = i
}

// GetUint64 gets uint64 value.
func (d *Datum) GetUint64() uint64 {
	return uint64(d.i)
}

// SetUint64 sets uint64 value.
func (d *Datum) SetUint64(i uint64) {
	d.k = KindUint64
	d.i = int64(i)
}

// GetFloat64 gets float64 value.
func (d *Datum) GetFloat64() float64 {
	return math.Float64frombits(uint64(d.i))
}

// SetFloat64 sets float64 value.
func (d *Datum) SetFloat64(f float64) {
	d.k = KindFloat64
	d.i = int64(math.Float64bits(f))
}

// GetString gets string value.
func (d *Datum) GetString() string {
	return string(d.b)
}

// SetString sets string value.
func (d *Datum) SetString(s string) {
	d.k = KindString
	d.b = []byte(s)
}

// GetBytes gets bytes value.
func (d *Datum) GetBytes() []byte {
	return d.b
}

// SetBytes sets bytes value to datum.
func (d *Datum) SetBytes(b []byte) {
	d.k = KindBytes
	d.b = b
}

// GetValue gets the value of the datum of any kind.
func (d *Datum) GetValue() any {
	switch d.k {
	case KindInt64:
		return d.GetInt64()
	case KindUint64:
		return d.GetUint64()
	case KindFloat64:
		return d.GetFloat64()
	case KindString:
		return d.GetString()
	case KindBytes:
		return d.GetBytes()
	default:
		return nil
	}
}

// EvalType returns the type the datum is compared as.
// A NULL datum has no comparison type and reports ETInt, callers check IsNull first.
func (d *Datum) EvalType() EvalType {
	switch d.k {
	case KindFloat64:
		return ETReal
	case KindString, KindBytes:
		return ETString
	default:
		return ETInt
	}
}

// Copy deep copies a Datum into dst.
func (d *Datum) Copy(dst *Datum) {
	*dst = *d
	if d.b != nil {
		dst.b = make([]byte, len(d.b))
		copy(dst.b, d.b)
	}
}

// String returns a human-readable description of Datum. It is intended only for debugging.
func (d Datum) String() string {
	return fmt.Sprintf("%s %s", kind2Str[d.k], d.ToString())
}

// ToString gets the string representation of the datum.
func (d *Datum) ToString() string {
	switch d.k {
	case KindNull:
		return "NULL"
	case KindInt64:
		return strconv.FormatInt(d.GetInt64(), 10)
	case KindUint64:
		return strconv.FormatUint(d.GetUint64(), 10)
	case KindFloat64:
		return strconv.FormatFloat(d.GetFloat64(), 'g', -1, 64)
	default:
		return string(d.b)
	}
}

// Compare compares datum to another datum.
// NULL is smaller than any other value. Values of different comparison families
// (numeric and string) cannot be compared and ErrTypeMismatch is returned.
func (d *Datum) Compare(ad *Datum) (int, error) {
	if d.k == KindNull || ad.k == KindNull {
		return cmp.Compare(boolToInt(d.k != KindNull), boolToInt(ad.k != KindNull)), nil
	}
	switch d.k {
	case KindInt64:
		return d.compareInt64(ad)
	case KindUint64:
		return d.compareUint64(ad)
	case KindFloat64:
		return d.compareFloat64(ad)
	case KindString, KindBytes:
		return d.compareBytes(ad)
	}
	return 0, plannererrors.ErrInternal.GenWithStackByArgs(fmt.Sprintf("unknown datum kind %d", d.k))
}

func (d *Datum) compareInt64(ad *Datum) (int, error) {
	switch ad.k {
	case KindInt64:
		return cmp.Compare(d.GetInt64(), ad.GetInt64()), nil
	case KindUint64:
		i := d.GetInt64()
		if i < 0 {
			return -1, nil
		}
		return cmp.Compare(uint64(i), ad.GetUint64()), nil
	case KindFloat64:
		return compareFloat64(float64(d.GetInt64()), ad.GetFloat64()), nil
	}
	return 0, mismatch(d, ad)
}

func (d *Datum) compareUint64(ad *Datum) (int, error) {
	switch ad.k {
	case KindInt64:
		i := ad.GetInt64()
		if i < 0 {
			return 1, nil
		}
		return cmp.Compare(d.GetUint64(), uint64(i)), nil
	case KindUint64:
		return cmp.Compare(d.GetUint64(), ad.GetUint64()), nil
	case KindFloat64:
		return compareFloat64(float64(d.GetUint64()), ad.GetFloat64()), nil
	}
	return 0, mismatch(d, ad)
}

func (d *Datum) compareFloat64(ad *Datum) (int, error) {
	switch ad.k {
	case KindInt64:
		return compareFloat64(d.GetFloat64(), float64(ad.GetInt64())), nil
	case KindUint64:
		return compareFloat64(d.GetFloat64(), float64(ad.GetUint64())), nil
	case KindFloat64:
		return compareFloat64(d.GetFloat64(), ad.GetFloat64()), nil
	}
	return 0, mismatch(d, ad)
}

func (d *Datum) compareBytes(ad *Datum) (int, error) {
	switch ad.k {
	case KindString, KindBytes:
		return bytes.Compare(d.b, ad.b), nil
	}
	return 0, mismatch(d, ad)
}

// compareFloat64 treats -0 and +0 as equal. NaN equals NaN and is smaller than any other number.
func compareFloat64(x, y float64) int {
	return cmp.Compare(x, y)
}

func mismatch(d, ad *Datum) error {
	return plannererrors.ErrTypeMismatch.GenWithStackByArgs(kind2Str[d.k], kind2Str[ad.k])
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// SortDatums sorts a slice of datum in ascending order.
func SortDatums(datums []Datum) error {
	var err error
	sort.SliceStable(datums, func(i, j int) bool {
		res, cmpErr := datums[i].Compare(&datums[j])
		if cmpErr != nil && err == nil {
			err = cmpErr
		}
		return res < 0
	})
	return errors.Trace(err)
}
