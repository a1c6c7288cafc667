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

// Package dpagg contains differentially private aggregations that share a
// common contract: privacy budget bookkeeping across repeated queries, exact
// merge of independently accumulated state through summaries and
// overflow-safe conversion of the noised result.
package dpagg

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/dpcore/dpalgo/checks"
	"github.com/dpcore/dpalgo/mechanism"
	"github.com/dpcore/dpalgo/summary"
	log "github.com/golang/glog"
)

// Default arguments for PartialResult and Result.
const (
	DefaultPrivacyBudget   = 1.0
	DefaultConfidenceLevel = 0.95
)

// Errors returned by aggregations. Use errors.Is to match them.
var (
	// ErrInvalidConfig is returned when an aggregation cannot be built from
	// its Options.
	ErrInvalidConfig = errors.New("dpagg: invalid configuration")
	// ErrFailedPrecondition is returned when a result is requested with an
	// invalid privacy budget fraction.
	ErrFailedPrecondition = errors.New("dpagg: failed precondition")
	// ErrBudgetExhausted is returned under BudgetStrict when a request would
	// spend more than the remaining privacy budget.
	ErrBudgetExhausted = fmt.Errorf("%w: privacy budget exhausted", ErrFailedPrecondition)
	// ErrInvalidSummary is returned when a summary cannot be merged.
	ErrInvalidSummary = errors.New("dpagg: invalid summary")
)

// ErrorReport describes the uncertainty of a noised result.
type ErrorReport struct {
	// NoiseConfidenceInterval is nil when the mechanism cannot provide one.
	NoiseConfidenceInterval *mechanism.ConfidenceInterval
}

// Output is a noised result.
type Output[V any] struct {
	Value       V
	ErrorReport *ErrorReport
}

// Algorithm is implemented by every aggregation in this package. T is the
// type of the entries and V the type of the released value.
//
// Implementations are not safe for concurrent use. To aggregate in parallel,
// use one instance per worker and Merge their summaries.
type Algorithm[T, V any] interface {
	// AddEntry adds a single entry.
	AddEntry(v T)
	// AddEntries adds each of vs.
	AddEntries(vs ...T)
	// PartialResult returns a noised result spending privacyBudget, a fraction
	// of the configured budget in (0, 1]. The state is kept.
	PartialResult(privacyBudget, confidenceLevel float64) (*Output[V], error)
	// Result is PartialResult followed by ResetState.
	Result(privacyBudget, confidenceLevel float64) (*Output[V], error)
	// NoiseConfidenceInterval returns the interval of the noise a result
	// spending privacyBudget would carry.
	NoiseConfidenceInterval(confidenceLevel, privacyBudget float64) (mechanism.ConfidenceInterval, error)
	// Serialize captures the raw accumulated state.
	Serialize() (*summary.Summary, error)
	// Merge adds the state of s. On error, the state is unchanged.
	Merge(s *summary.Summary) error
	// ResetState clears the accumulated state. Consumed budget is not refunded.
	ResetState()
	// MemoryUsed approximates the memory footprint in bytes.
	MemoryUsed() int64
}

var (
	_ Algorithm[string, int64]    = (*Count[string])(nil)
	_ Algorithm[float64, float64] = (*BoundedSum[float64])(nil)
	_ Algorithm[int64, float64]   = (*BoundedSum[int64])(nil)
)

// base holds what every aggregation carries besides its accumulator.
type base struct {
	label   string
	epsilon float64
	delta   float64
	mech    mechanism.Mechanism
	budget  budgetLedger
}

// Epsilon returns the privacy parameter ε.
func (b *base) Epsilon() float64 { return b.epsilon }

// Delta returns the privacy parameter δ.
func (b *base) Delta() float64 { return b.delta }

// BudgetConsumed returns the cumulative fraction of the privacy budget spent
// by results so far.
func (b *base) BudgetConsumed() float64 { return b.budget.consumed }

// NoiseConfidenceInterval returns the confidence interval of the noise that
// a result spending privacyBudget would carry.
func (b *base) NoiseConfidenceInterval(confidenceLevel, privacyBudget float64) (mechanism.ConfidenceInterval, error) {
	return b.mech.NoiseConfidenceInterval(confidenceLevel, privacyBudget)
}

// spend validates privacyBudget and records it in the ledger. It returns the
// fraction to pass to the mechanism. Nothing is recorded on error.
func (b *base) spend(privacyBudget float64) (float64, error) {
	if err := checks.CheckPrivacyBudget(b.label, privacyBudget); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrFailedPrecondition, err)
	}
	fraction, err := b.budget.check(b.label, privacyBudget)
	if err != nil {
		return 0, err
	}
	b.budget.consume(fraction)
	return fraction, nil
}

func (b *base) errorReport(confidenceLevel, privacyBudget float64) *ErrorReport {
	ci, err := b.mech.NoiseConfidenceInterval(confidenceLevel, privacyBudget)
	if err != nil {
		log.V(1).Infof("%s: omitting noise confidence interval: %v", b.label, err)
		return &ErrorReport{}
	}
	return &ErrorReport{NoiseConfidenceInterval: &ci}
}

func (b *base) memoryUsed() int64 {
	return int64(unsafe.Sizeof(*b)) + int64(len(b.label)) + b.mech.MemoryUsed()
}
