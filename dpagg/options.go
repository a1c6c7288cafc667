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

	"github.com/dpcore/dpalgo/checks"
	"github.com/dpcore/dpalgo/mechanism"
	log "github.com/golang/glog"
	"go.uber.org/multierr"
)

// Options contains the options necessary to initialize an aggregation.
type Options struct {
	Epsilon float64 // Privacy parameter ε. Required.
	Delta   float64 // Privacy parameter δ. Must be 0 with Laplace noise, positive with Gaussian noise. Defaults to 0.
	// Builds the mechanism that adds noise. Defaults to Laplace noise if Delta
	// is 0 and Gaussian noise otherwise.
	MechanismBuilder mechanism.Builder
	// How many distinct partitions may a single privacy unit contribute to?
	// Defaults to 1.
	MaxPartitionsContributed int64
	// Bounds of the entries. Required by BoundedSum, ignored by Count.
	Lower, Upper float64
	// Accounting of the privacy budget across results. Defaults to
	// BudgetUnchecked.
	BudgetPolicy BudgetPolicy
}

// newBase validates the options shared by all aggregations, together with
// the statistic-specific errs, and builds the mechanism with the given L∞
// sensitivity. All validation errors are reported at once.
func newBase(label string, opt *Options, lInfSensitivity float64, errs error) (base, error) {
	if opt == nil {
		opt = &Options{}
	}
	errs = multierr.Combine(errs,
		checks.CheckEpsilonStrict(label, opt.Epsilon),
		checks.CheckDelta(label, opt.Delta),
		checks.CheckMaxPartitionsContributed(label, opt.MaxPartitionsContributed),
		opt.BudgetPolicy.validate(label),
	)
	if errs != nil {
		return base{}, fmt.Errorf("%w: %v", ErrInvalidConfig, errs)
	}

	l0 := opt.MaxPartitionsContributed
	if l0 == 0 {
		l0 = 1
	}
	builder := opt.MechanismBuilder
	if builder == nil {
		builder = mechanism.DefaultBuilder(opt.Delta)
	}
	mech, err := builder.Build(mechanism.Options{
		Epsilon:         opt.Epsilon,
		Delta:           opt.Delta,
		L0Sensitivity:   l0,
		LInfSensitivity: lInfSensitivity,
	})
	if err != nil {
		return base{}, fmt.Errorf("%w: %s: couldn't build mechanism: %v", ErrInvalidConfig, label, err)
	}
	if mech == nil {
		return base{}, fmt.Errorf("%w: %s: mechanism builder returned no mechanism", ErrInvalidConfig, label)
	}
	if opt.MechanismBuilder == nil {
		log.Infof("%s: no mechanism given, defaulting to %v noise for delta = %e", label, mechanism.KindOf(mech), opt.Delta)
	}

	return base{
		label:   label,
		epsilon: opt.Epsilon,
		delta:   opt.Delta,
		mech:    mech,
		budget:  budgetLedger{policy: opt.BudgetPolicy},
	}, nil
}
