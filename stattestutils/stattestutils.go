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

// Package stattestutils provides sample statistics and tolerance helpers for
// statistical tests of noisy aggregations.
//
// It is not optimized for performance and is only intended to be used in
// tests.
package stattestutils

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Number is a value statistical helpers accept.
type Number interface {
	constraints.Integer | constraints.Float
}

// FalseRejectionQuantile is the 99.9995% quantile of the standard normal
// distribution. Tolerances scaled by it make a test falsely reject with a
// probability of 10⁻⁵.
const FalseRejectionQuantile = 4.41717

// SampleMean returns the average of the values, or 0 for no values.
func SampleMean[T Number](values []T) float64 {
	var sum float64
	for _, v := range values {
		sum += float64(v)
	}
	return sum / math.Max(1, float64(len(values)))
}

// SampleVariance returns the mean squared distance of the values to their
// mean.
func SampleVariance[T Number](values []T) float64 {
	mean := SampleMean(values)
	var sumOfSquares float64
	for _, v := range values {
		d := float64(v) - mean
		sumOfSquares += d * d
	}
	return sumOfSquares / math.Max(1, float64(len(values)))
}

// MeanTolerance returns the tolerance for the sample mean of n draws from a
// distribution with the given variance.
func MeanTolerance(variance float64, n int) float64 {
	return FalseRejectionQuantile * math.Sqrt(variance/float64(n))
}
