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

package secrand

import (
	"bytes"
	"math"
	"testing"
)

func TestBooleanConsumesBitsInOrder(t *testing.T) {
	s := New(bytes.NewReader([]byte{0b00000101}))
	want := []bool{true, false, true, false, false, false, false, false}
	for i, w := range want {
		if got := s.Boolean(); got != w {
			t.Errorf("Boolean: bit %d got %t, want %t", i, got, w)
		}
	}
}

func TestUint64LittleEndian(t *testing.T) {
	s := New(bytes.NewReader([]byte{1, 0, 0, 0, 0, 0, 0, 0}))
	if got := s.Uint64(); got != 1 {
		t.Errorf("Uint64: got %d, want 1", got)
	}
}

func TestGeometricCountsLeadingZeros(t *testing.T) {
	// Two zero bytes contribute 16 failures, 0b00100000 two more.
	s := New(bytes.NewReader([]byte{0, 0, 0b00100000}))
	if got, want := s.Geometric(), 19.0; got != want {
		t.Errorf("Geometric: got %f, want %f", got, want)
	}
}

func TestInt63nRange(t *testing.T) {
	for _, n := range []int64{1, 2, 7, 1 << 40} {
		for i := 0; i < 1000; i++ {
			if got := Default.Int63n(n); got < 0 || got >= n {
				t.Fatalf("Int63n(%d): got %d, want value in [0, %d)", n, got, n)
			}
		}
	}
}

func TestUniformRange(t *testing.T) {
	var sum float64
	const samples = 100000
	for i := 0; i < samples; i++ {
		u := Default.Uniform()
		if u <= 0 || u > 1 {
			t.Fatalf("Uniform: got %f, want value in (0, 1]", u)
		}
		sum += u
	}
	// The sample mean of 10⁵ uniform draws has a standard deviation of about 0.0009.
	if mean := sum / samples; math.Abs(mean-0.5) > 0.01 {
		t.Errorf("Uniform: got sample mean %f, want approximately 0.5", mean)
	}
}

func TestSignBalanced(t *testing.T) {
	var sum float64
	const samples = 100000
	for i := 0; i < samples; i++ {
		sum += Default.Sign()
	}
	if mean := sum / samples; math.Abs(mean) > 0.02 {
		t.Errorf("Sign: got sample mean %f, want approximately 0", mean)
	}
}
