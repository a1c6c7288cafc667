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
	"math"
	"testing"

	"github.com/dpcore/dpalgo/mechanism/mechanismtest"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// This file contains functions and values used to test DP aggregations.

var (
	ln3    = math.Log(3)
	tenten = math.Pow10(-10)
)

func ApproxEqual(x, y float64) bool {
	return cmp.Equal(x, y, cmpopts.EquateApprox(0, tenten))
}

// zeroNoise returns options for an aggregation whose results are exact.
func zeroNoise() *Options {
	return &Options{Epsilon: ln3, MechanismBuilder: mechanismtest.ZeroNoiseBuilder{}}
}

func mustCount(t *testing.T, opt *Options) *Count[int] {
	t.Helper()
	c, err := NewCount[int](opt)
	if err != nil {
		t.Fatalf("NewCount(%+v): got err %v", opt, err)
	}
	return c
}

func mustBoundedSum(t *testing.T, opt *Options) *BoundedSum[float64] {
	t.Helper()
	bs, err := NewBoundedSum[float64](opt)
	if err != nil {
		t.Fatalf("NewBoundedSum(%+v): got err %v", opt, err)
	}
	return bs
}
