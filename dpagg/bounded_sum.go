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
	"unsafe"

	"github.com/dpcore/dpalgo/checks"
	"github.com/dpcore/dpalgo/summary"
	log "github.com/golang/glog"
	"golang.org/x/exp/constraints"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const boundedSumTag = "bounded_sum"

// Number is the set of entry types BoundedSum accepts.
type Number interface {
	constraints.Integer | constraints.Float
}

// BoundedSum calculates a differentially private sum of a collection of
// values. Each entry is clamped into [Lower, Upper] before being added.
//
// NaN entries are ignored. The sum saturates at ±math.MaxFloat64.
//
// Not thread-safe.
type BoundedSum[T Number] struct {
	base
	lower, upper float64
	sum          float64
}

// NewBoundedSum returns a new BoundedSum, initialized at 0. Lower and Upper
// are required; they cannot both be 0.
func NewBoundedSum[T Number](opt *Options) (*BoundedSum[T], error) {
	var lower, upper float64
	if opt != nil {
		lower, upper = opt.Lower, opt.Upper
	}
	var boundsErr error
	if lower == 0 && upper == 0 {
		boundsErr = fmt.Errorf("BoundedSum: Lower and Upper are both 0, bounds must be set")
	} else {
		boundsErr = checks.CheckBoundsFloat64("BoundedSum", lower, upper)
	}
	// newBase fails on boundsErr before building the mechanism.
	b, err := newBase("BoundedSum", opt, math.Max(math.Abs(lower), math.Abs(upper)), boundsErr)
	if err != nil {
		return nil, err
	}
	return &BoundedSum[T]{base: b, lower: lower, upper: upper}, nil
}

// AddEntry adds the clamped value of v to the sum.
func (bs *BoundedSum[T]) AddEntry(v T) {
	e := float64(v)
	if math.IsNaN(e) {
		return
	}
	clamped, err := ClampFloat64(e, bs.lower, bs.upper)
	if err != nil {
		log.Exitf("BoundedSum: couldn't clamp input value %v: %v", e, err)
	}
	bs.sum = saturatingAddFloat64(bs.sum, clamped)
}

// AddEntries adds the clamped value of each of vs to the sum.
func (bs *BoundedSum[T]) AddEntries(vs ...T) {
	for _, v := range vs {
		bs.AddEntry(v)
	}
}

// PartialResult returns a differentially private estimate of the current
// sum spending privacyBudget, without clearing it.
func (bs *BoundedSum[T]) PartialResult(privacyBudget, confidenceLevel float64) (*Output[float64], error) {
	budget, err := bs.spend(privacyBudget)
	if err != nil {
		return nil, err
	}
	return &Output[float64]{
		Value:       bs.mech.AddNoise(bs.sum, budget),
		ErrorReport: bs.errorReport(confidenceLevel, budget),
	}, nil
}

// Result returns a differentially private estimate of the current sum and
// resets it to 0.
func (bs *BoundedSum[T]) Result(privacyBudget, confidenceLevel float64) (*Output[float64], error) {
	out, err := bs.PartialResult(privacyBudget, confidenceLevel)
	if err != nil {
		return nil, err
	}
	bs.ResetState()
	return out, nil
}

// Serialize returns the raw sum.
func (bs *BoundedSum[T]) Serialize() (*summary.Summary, error) {
	return summary.Pack(boundedSumTag, wrapperspb.Double(bs.sum))
}

// Merge adds the sum of a summary produced by another BoundedSum.
func (bs *BoundedSum[T]) Merge(s *summary.Summary) error {
	v := &wrapperspb.DoubleValue{}
	if err := s.UnpackTo(boundedSumTag, v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSummary, err)
	}
	if math.IsNaN(v.GetValue()) || math.IsInf(v.GetValue(), 0) {
		return fmt.Errorf("%w: %w: bounded sum is %v, must be finite", ErrInvalidSummary, summary.ErrMalformed, v.GetValue())
	}
	bs.sum = saturatingAddFloat64(bs.sum, v.GetValue())
	return nil
}

// ResetState sets the sum to 0.
func (bs *BoundedSum[T]) ResetState() {
	bs.sum = 0
}

// MemoryUsed returns the approximate size of bs in bytes.
func (bs *BoundedSum[T]) MemoryUsed() int64 {
	return int64(unsafe.Sizeof(bs.lower)+unsafe.Sizeof(bs.upper)+unsafe.Sizeof(bs.sum)) + bs.base.memoryUsed()
}
