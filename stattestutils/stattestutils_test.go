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

package stattestutils

import (
	"math"
	"testing"
)

func TestSampleMean(t *testing.T) {
	for _, tc := range []struct {
		input    []float64
		wantMean float64
	}{
		{input: []float64{}, wantMean: 0},
		{input: []float64{100.123}, wantMean: 100.123},
		{input: []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, wantMean: 5},
	} {
		if got := SampleMean(tc.input); math.Abs(got-tc.wantMean) > 1e-9 {
			t.Errorf("SampleMean(%v): got %f, want %f", tc.input, got, tc.wantMean)
		}
	}
}

func TestSampleMeanInt64(t *testing.T) {
	if got, want := SampleMean([]int64{-3, 3, 6}), 2.0; got != want {
		t.Errorf("SampleMean: got %f, want %f", got, want)
	}
}

func TestSampleVariance(t *testing.T) {
	for _, tc := range []struct {
		input        []float64
		wantVariance float64
	}{
		{input: []float64{}, wantVariance: 0},
		{input: []float64{100.123}, wantVariance: 0},
		{input: []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, wantVariance: 10},
	} {
		if got := SampleVariance(tc.input); math.Abs(got-tc.wantVariance) > 1e-9 {
			t.Errorf("SampleVariance(%v): got %f, want %f", tc.input, got, tc.wantVariance)
		}
	}
}

func TestMeanTolerance(t *testing.T) {
	if got, want := MeanTolerance(4, 100), FalseRejectionQuantile*0.2; math.Abs(got-want) > 1e-12 {
		t.Errorf("MeanTolerance(4, 100): got %f, want %f", got, want)
	}
}
