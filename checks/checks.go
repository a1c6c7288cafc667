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

// Package checks contains argument checks for differentially private
// algorithms and the mechanisms they consume.
package checks

import (
	"fmt"
	"math"

	log "github.com/golang/glog"
)

// CheckEpsilonStrict returns an error if ε is nonpositive or +∞.
func CheckEpsilonStrict(label string, epsilon float64) error {
	if epsilon <= 0 || math.IsInf(epsilon, 0) || math.IsNaN(epsilon) {
		return fmt.Errorf("%s: Epsilon is %f, must be strictly positive and finite", label, epsilon)
	}
	return nil
}

// CheckDelta returns an error if δ is negative or greater than or equal to 1.
func CheckDelta(label string, delta float64) error {
	if math.IsNaN(delta) {
		return fmt.Errorf("%s: Delta is %e, cannot be NaN", label, delta)
	}
	if delta < 0 {
		return fmt.Errorf("%s: Delta is %e, cannot be negative", label, delta)
	}
	if delta >= 1 {
		return fmt.Errorf("%s: Delta is %e, must be strictly less than 1", label, delta)
	}
	return nil
}

// CheckDeltaStrict returns an error if δ is nonpositive or greater than or equal to 1.
func CheckDeltaStrict(label string, delta float64) error {
	if err := CheckDelta(label, delta); err != nil {
		return err
	}
	if delta == 0 {
		return fmt.Errorf("%s: Delta is %e, must be strictly positive", label, delta)
	}
	return nil
}

// CheckNoDelta returns an error if δ is non-zero.
func CheckNoDelta(label string, delta float64) error {
	if delta != 0 {
		return fmt.Errorf("%s: Delta is %e, must be 0", label, delta)
	}
	return nil
}

// CheckPrivacyBudget returns an error if the fraction of the configured
// privacy budget to spend is not within (0, 1].
func CheckPrivacyBudget(label string, privacyBudget float64) error {
	if math.IsNaN(privacyBudget) || privacyBudget <= 0 || privacyBudget > 1 {
		return fmt.Errorf("%s: Privacy budget is %f, must be within (0, 1]", label, privacyBudget)
	}
	return nil
}

// CheckConfidenceLevel returns an error if the confidence level is not within (0, 1).
func CheckConfidenceLevel(label string, confidenceLevel float64) error {
	if math.IsNaN(confidenceLevel) || confidenceLevel <= 0 || confidenceLevel >= 1 {
		return fmt.Errorf("%s: Confidence level is %f, must be within (0, 1)", label, confidenceLevel)
	}
	return nil
}

// CheckL0Sensitivity returns an error if l0Sensitivity is nonpositive.
func CheckL0Sensitivity(label string, l0Sensitivity int64) error {
	if l0Sensitivity <= 0 {
		return fmt.Errorf("%s: L0Sensitivity is %d, must be strictly positive", label, l0Sensitivity)
	}
	return nil
}

// CheckLInfSensitivity returns an error if lInfSensitivity is nonpositive or +∞.
func CheckLInfSensitivity(label string, lInfSensitivity float64) error {
	if lInfSensitivity <= 0 || math.IsInf(lInfSensitivity, 0) || math.IsNaN(lInfSensitivity) {
		return fmt.Errorf("%s: LInfSensitivity is %f, must be strictly positive and finite", label, lInfSensitivity)
	}
	return nil
}

// CheckMaxPartitionsContributed returns an error if maxPartitionsContributed
// is negative. Zero means the caller relies on the default.
func CheckMaxPartitionsContributed(label string, maxPartitionsContributed int64) error {
	if maxPartitionsContributed < 0 {
		return fmt.Errorf("%s: MaxPartitionsContributed is %d, cannot be negative", label, maxPartitionsContributed)
	}
	return nil
}

// CheckBoundsFloat64 returns an error if lower is larger than upper, or if
// either bound is NaN or ±∞.
func CheckBoundsFloat64(label string, lower, upper float64) error {
	if math.IsNaN(lower) {
		return fmt.Errorf("%s: Lower bound cannot be NaN", label)
	}
	if math.IsNaN(upper) {
		return fmt.Errorf("%s: Upper bound cannot be NaN", label)
	}
	if math.IsInf(lower, 0) {
		return fmt.Errorf("%s: Lower bound cannot be infinity", label)
	}
	if math.IsInf(upper, 0) {
		return fmt.Errorf("%s: Upper bound cannot be infinity", label)
	}
	if lower > upper {
		return fmt.Errorf("%s: Upper bound (%f) must be larger than lower bound (%f)", label, upper, lower)
	}
	if lower == upper {
		log.Warningf("%s: Lower bound is equal to upper bound: all added elements will be clamped to %f", label, upper)
	}
	return nil
}
