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

package mechanism

import "math"

// ceilPowerOfTwo returns the smallest power of 2 larger or equal to x. x must
// be a finite positive number not greater than 2^1023; NaN is returned
// otherwise.
func ceilPowerOfTwo(x float64) float64 {
	if x <= 0.0 || math.IsInf(x, 0) || math.IsNaN(x) {
		return math.NaN()
	}

	// IEEE 754 layout: 1 sign bit, 11 exponent bits, 52 mantissa bits.
	const (
		exponentMask uint64 = 0x7ff0000000000000
		mantissaMask uint64 = 0x000fffffffffffff
		exponentOne  uint64 = 0x0010000000000000
	)

	b := math.Float64bits(x)
	if b&mantissaMask == 0 {
		return x
	}
	exponentBits := b & exponentMask
	if exponentBits >= math.Float64bits(math.MaxFloat64)&exponentMask {
		return math.NaN()
	}
	return math.Float64frombits(exponentBits + exponentOne)
}

// roundToMultipleOfPowerOfTwo returns the multiple of granularity closest to
// x. granularity must be an exact power of 2 for the result to be exact.
func roundToMultipleOfPowerOfTwo(x, granularity float64) float64 {
	return math.Round(x/granularity) * granularity
}
