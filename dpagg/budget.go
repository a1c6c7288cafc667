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
	"strings"

	log "github.com/golang/glog"
)

// BudgetPolicy selects how an aggregation accounts for the privacy budget
// spent across repeated results.
type BudgetPolicy int

const (
	// BudgetUnchecked records consumption but never rejects a request. The
	// caller is responsible for the overall budget.
	BudgetUnchecked BudgetPolicy = iota
	// BudgetStrict rejects any request that would bring the cumulative
	// consumption above the full budget.
	BudgetStrict
)

func (p BudgetPolicy) String() string {
	switch p {
	case BudgetUnchecked:
		return "unchecked"
	case BudgetStrict:
		return "strict"
	}
	return fmt.Sprintf("BudgetPolicy(%d)", int(p))
}

// ParseBudgetPolicy converts "unchecked" or "strict" into a BudgetPolicy.
func ParseBudgetPolicy(name string) (BudgetPolicy, error) {
	switch strings.ToLower(name) {
	case "", "unchecked":
		return BudgetUnchecked, nil
	case "strict":
		return BudgetStrict, nil
	}
	return BudgetUnchecked, fmt.Errorf("unknown budget policy %q, must be unchecked or strict", name)
}

func (p BudgetPolicy) validate(label string) error {
	if p != BudgetUnchecked && p != BudgetStrict {
		return fmt.Errorf("%s: BudgetPolicy is %v, must be BudgetUnchecked or BudgetStrict", label, p)
	}
	return nil
}

// Relative tolerance of the remaining budget under which an overshoot is
// treated as a rounding error.
const eqBudgetRelTol = 1e9

// budgetLedger tracks the fraction of the privacy budget consumed by one
// aggregation instance.
type budgetLedger struct {
	policy   BudgetPolicy
	consumed float64
}

// check returns the fraction to consume for a request of requested, or an
// error if the policy forbids it.
func (l *budgetLedger) check(label string, requested float64) (float64, error) {
	if l.policy != BudgetStrict {
		return requested, nil
	}
	remaining := math.Max(1-l.consumed, 0)
	if budgetSlightlyTooLarge(remaining, requested) {
		log.Infof("%s: corrected rounding error for privacy budget request (requested: %f, available: %f, difference: %e)", label, requested, remaining, requested-remaining)
		return remaining, nil
	}
	if requested > remaining {
		return 0, fmt.Errorf("%w: %s: trying to consume %f of the privacy budget with only %f remaining", ErrBudgetExhausted, label, requested, remaining)
	}
	return requested, nil
}

func (l *budgetLedger) consume(fraction float64) {
	l.consumed += fraction
}

// budgetSlightlyTooLarge reports whether requested exceeds remaining by no
// more than a rounding error (remaining/eqBudgetRelTol).
func budgetSlightlyTooLarge(remaining, requested float64) bool {
	diff := remaining - requested
	if diff >= 0 {
		return false
	}
	return math.Abs(diff) <= remaining/eqBudgetRelTol
}
