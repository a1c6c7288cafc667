//
// Copyright 2020 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

package dpagg

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// Bounds of the int64 range, as float64. 2^63 is exact; MaxInt64 is not
// representable.
const (
	maxInt64AsFloat = float64(1 << 63)
	minInt64AsFloat = -maxInt64AsFloat
)

// SaturatingCastToInt64 converts x to int64, clamping to the int64 range
// instead of overflowing. NaN converts to 0. The fractional part of x is
// truncated, so callers round first.
func SaturatingCastToInt64(x float64) int64 {
	switch {
	case math.IsNaN(x):
		return 0
	case x >= maxInt64AsFloat:
		return math.MaxInt64
	case x <= minInt64AsFloat:
		return math.MinInt64
	}
	return int64(x)
}

// saturatingAddUint64 returns a+b, or math.MaxUint64 if the sum overflows.
func saturatingAddUint64(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}

// saturatingAddFloat64 returns a+b for finite a and b, clamped to
// [-math.MaxFloat64, math.MaxFloat64] instead of overflowing to ±Inf.
func saturatingAddFloat64(a, b float64) float64 {
	sum := a + b
	switch {
	case math.IsInf(sum, 1):
		return math.MaxFloat64
	case math.IsInf(sum, -1):
		return -math.MaxFloat64
	}
	return sum
}

// ClampFloat64 clamps e within lower and upper, such that lower is returned
// if e < lower, and upper is returned if e > upper. Otherwise, e is returned.
func ClampFloat64(e, lower, upper float64) (float64, error) {
	return clamp(e, lower, upper)
}

// ClampInt64 clamps e within lower and upper.
func ClampInt64(e, lower, upper int64) (int64, error) {
	return clamp(e, lower, upper)
}

func clamp[T constraints.Integer | constraints.Float](e, lower, upper T) (T, error) {
	if lower > upper {
		return 0, fmt.Errorf("lower must be less than or equal to upper, got lower = %v, upper = %v", lower, upper)
	}
	return max(lower, min(e, upper)), nil
}
