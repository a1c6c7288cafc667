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

package checks

import (
	"math"
	"testing"
)

func TestCheckEpsilonStrict(t *testing.T) {
	for _, tc := range []struct {
		desc    string
		epsilon float64
		wantErr bool
	}{
		{"negative epsilon", -2, true},
		{"zero epsilon", 0, true},
		{"epsilon is NaN", math.NaN(), true},
		{"epsilon is negative infinity", math.Inf(-1), true},
		{"epsilon is positive infinity", math.Inf(1), true},
		{"tiny positive epsilon", math.Exp2(-60.0), false},
		{"positive epsilon", 50, false},
	} {
		if err := CheckEpsilonStrict("test", tc.epsilon); (err != nil) != tc.wantErr {
			t.Errorf("CheckEpsilonStrict: when %s for err got %v, wantErr %t", tc.desc, err, tc.wantErr)
		}
	}
}

func TestCheckDelta(t *testing.T) {
	for _, tc := range []struct {
		desc    string
		delta   float64
		wantErr bool
	}{
		{"negative delta", -1, true},
		{"delta is NaN", math.NaN(), true},
		{"delta is negative infinity", math.Inf(-1), true},
		{"delta is positive infinity", math.Inf(1), true},
		{"delta is one", 1, true},
		{"delta greater than one", 1.1, true},
		{"zero delta", 0, false},
		{"small delta", 1e-10, false},
	} {
		if err := CheckDelta("test", tc.delta); (err != nil) != tc.wantErr {
			t.Errorf("CheckDelta: when %s for err got %v, wantErr %t", tc.desc, err, tc.wantErr)
		}
	}
}

func TestCheckDeltaStrict(t *testing.T) {
	for _, tc := range []struct {
		desc    string
		delta   float64
		wantErr bool
	}{
		{"negative delta", -1, true},
		{"delta is NaN", math.NaN(), true},
		{"zero delta", 0, true},
		{"delta is one", 1, true},
		{"small delta", 1e-10, false},
	} {
		if err := CheckDeltaStrict("test", tc.delta); (err != nil) != tc.wantErr {
			t.Errorf("CheckDeltaStrict: when %s for err got %v, wantErr %t", tc.desc, err, tc.wantErr)
		}
	}
}

func TestCheckNoDelta(t *testing.T) {
	if err := CheckNoDelta("test", 0); err != nil {
		t.Errorf("CheckNoDelta(0): got err %v, want nil", err)
	}
	if err := CheckNoDelta("test", 1e-5); err == nil {
		t.Errorf("CheckNoDelta(1e-5): got nil err, want error")
	}
}

func TestCheckPrivacyBudget(t *testing.T) {
	for _, tc := range []struct {
		desc          string
		privacyBudget float64
		wantErr       bool
	}{
		{"negative budget", -0.5, true},
		{"zero budget", 0, true},
		{"budget is NaN", math.NaN(), true},
		{"budget greater than one", 1.5, true},
		{"budget is positive infinity", math.Inf(1), true},
		{"half budget", 0.5, false},
		{"full budget", 1, false},
	} {
		if err := CheckPrivacyBudget("test", tc.privacyBudget); (err != nil) != tc.wantErr {
			t.Errorf("CheckPrivacyBudget: when %s for err got %v, wantErr %t", tc.desc, err, tc.wantErr)
		}
	}
}

func TestCheckConfidenceLevel(t *testing.T) {
	for _, tc := range []struct {
		desc            string
		confidenceLevel float64
		wantErr         bool
	}{
		{"negative level", -0.1, true},
		{"zero level", 0, true},
		{"level is one", 1, true},
		{"level is NaN", math.NaN(), true},
		{"typical level", 0.95, false},
		{"tiny level", 1e-9, false},
	} {
		if err := CheckConfidenceLevel("test", tc.confidenceLevel); (err != nil) != tc.wantErr {
			t.Errorf("CheckConfidenceLevel: when %s for err got %v, wantErr %t", tc.desc, err, tc.wantErr)
		}
	}
}

func TestCheckSensitivities(t *testing.T) {
	for _, tc := range []struct {
		desc            string
		l0Sensitivity   int64
		lInfSensitivity float64
		wantErr         bool
	}{
		{"zero l0", 0, 1, true},
		{"negative l0", -1, 1, true},
		{"zero lInf", 1, 0, true},
		{"infinite lInf", 1, math.Inf(1), true},
		{"NaN lInf", 1, math.NaN(), true},
		{"valid sensitivities", 3, 2.5, false},
	} {
		err := CheckL0Sensitivity("test", tc.l0Sensitivity)
		if err == nil {
			err = CheckLInfSensitivity("test", tc.lInfSensitivity)
		}
		if (err != nil) != tc.wantErr {
			t.Errorf("sensitivity checks: when %s for err got %v, wantErr %t", tc.desc, err, tc.wantErr)
		}
	}
}

func TestCheckMaxPartitionsContributed(t *testing.T) {
	for _, tc := range []struct {
		maxPartitionsContributed int64
		wantErr                  bool
	}{
		{-1, true},
		{0, false},
		{5, false},
	} {
		if err := CheckMaxPartitionsContributed("test", tc.maxPartitionsContributed); (err != nil) != tc.wantErr {
			t.Errorf("CheckMaxPartitionsContributed(%d): for err got %v, wantErr %t", tc.maxPartitionsContributed, err, tc.wantErr)
		}
	}
}

func TestCheckBoundsFloat64(t *testing.T) {
	for _, tc := range []struct {
		desc         string
		lower, upper float64
		wantErr      bool
	}{
		{"lower > upper", 6.0, 5.0, true},
		{"lower is NaN", math.NaN(), 5.0, true},
		{"upper is NaN", 5.0, math.NaN(), true},
		{"lower is negative infinity", math.Inf(-1), 5.0, true},
		{"upper is positive infinity", -5.0, math.Inf(1), true},
		{"lower == upper", 5.0, 5.0, false},
		{"lower < upper", -1.0, 5.0, false},
	} {
		if err := CheckBoundsFloat64("test", tc.lower, tc.upper); (err != nil) != tc.wantErr {
			t.Errorf("CheckBoundsFloat64: when %s for err got %v, wantErr %t", tc.desc, err, tc.wantErr)
		}
	}
}
