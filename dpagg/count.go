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

	"github.com/dpcore/dpalgo/summary"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const countTag = "count"

// Count calculates a differentially private count of a collection of values
// using a numerical mechanism, Laplace or Gaussian by default.
//
// It supports privacy units that contribute to multiple partitions (via the
// MaxPartitionsContributed option) by scaling the added noise appropriately.
// Each entry contributes exactly 1, whatever its value.
//
// The raw count saturates at math.MaxUint64 and the released value saturates
// at the int64 range, so Count never overflows.
//
// Not thread-safe.
type Count[T any] struct {
	base
	count uint64
}

// NewCount returns a new Count, initialized at 0. It returns an error
// wrapping ErrInvalidConfig if opt is invalid.
func NewCount[T any](opt *Options) (*Count[T], error) {
	b, err := newBase("Count", opt, 1, nil)
	if err != nil {
		return nil, err
	}
	return &Count[T]{base: b}, nil
}

// AddEntry increments the count by one.
func (c *Count[T]) AddEntry(T) {
	c.addMultipleEntries(1)
}

// AddEntries increments the count by len(vs).
func (c *Count[T]) AddEntries(vs ...T) {
	c.addMultipleEntries(uint64(len(vs)))
}

func (c *Count[T]) addMultipleEntries(n uint64) {
	c.count = saturatingAddUint64(c.count, n)
}

// PartialResult returns a differentially private estimate of the current
// count spending privacyBudget, without clearing it.
//
// The returned value is an unbiased estimate of the raw count and may be
// negative.
func (c *Count[T]) PartialResult(privacyBudget, confidenceLevel float64) (*Output[int64], error) {
	budget, err := c.spend(privacyBudget)
	if err != nil {
		return nil, err
	}
	noised := c.mech.AddNoise(float64(c.count), budget)
	return &Output[int64]{
		Value:       SaturatingCastToInt64(math.Round(noised)),
		ErrorReport: c.errorReport(confidenceLevel, budget),
	}, nil
}

// Result returns a differentially private estimate of the current count and
// resets it to 0.
func (c *Count[T]) Result(privacyBudget, confidenceLevel float64) (*Output[int64], error) {
	out, err := c.PartialResult(privacyBudget, confidenceLevel)
	if err != nil {
		return nil, err
	}
	c.ResetState()
	return out, nil
}

// Serialize returns the raw count.
func (c *Count[T]) Serialize() (*summary.Summary, error) {
	return summary.Pack(countTag, wrapperspb.UInt64(c.count))
}

// Merge adds the count of a summary produced by another Count. Summaries of
// Counts with different privacy parameters may be merged.
func (c *Count[T]) Merge(s *summary.Summary) error {
	v := &wrapperspb.UInt64Value{}
	if err := s.UnpackTo(countTag, v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSummary, err)
	}
	c.addMultipleEntries(v.GetValue())
	return nil
}

// ResetState sets the count to 0.
func (c *Count[T]) ResetState() {
	c.count = 0
}

// MemoryUsed returns the approximate size of c in bytes.
func (c *Count[T]) MemoryUsed() int64 {
	return int64(unsafe.Sizeof(c.count)) + c.base.memoryUsed()
}
