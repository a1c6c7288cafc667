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

// Package mechanismtest provides deterministic mechanisms and builders for
// testing aggregations that consume the mechanism package.
package mechanismtest

import (
	"unsafe"

	"github.com/dpcore/dpalgo/checks"
	"github.com/dpcore/dpalgo/mechanism"
)

// Fixed is a mechanism that adds Offset to every value and records the
// privacy budget of each AddNoise call. Its confidence interval is the
// degenerate interval [0, 0], or unavailable if NoInterval is set.
type Fixed struct {
	Offset     float64
	NoInterval bool
	// Budgets lists the privacy budget passed to each AddNoise call, in order.
	Budgets []float64
}

// AddNoise returns x + f.Offset.
func (f *Fixed) AddNoise(x, privacyBudget float64) float64 {
	f.Budgets = append(f.Budgets, privacyBudget)
	return x + f.Offset
}

// NoiseConfidenceInterval returns [0, 0] at the requested level.
func (f *Fixed) NoiseConfidenceInterval(confidenceLevel, privacyBudget float64) (mechanism.ConfidenceInterval, error) {
	if f.NoInterval {
		return mechanism.ConfidenceInterval{}, mechanism.ErrNoConfidenceInterval
	}
	if err := checks.CheckConfidenceLevel("Fixed", confidenceLevel); err != nil {
		return mechanism.ConfidenceInterval{}, err
	}
	return mechanism.ConfidenceInterval{ConfidenceLevel: confidenceLevel}, nil
}

// MemoryUsed returns the size of the mechanism in bytes.
func (f *Fixed) MemoryUsed() int64 {
	return int64(unsafe.Sizeof(*f)) + int64(cap(f.Budgets))*8
}

// ZeroNoiseBuilder builds mechanisms that add no noise.
type ZeroNoiseBuilder struct{}

// Build returns a fresh zero-noise mechanism.
func (ZeroNoiseBuilder) Build(mechanism.Options) (mechanism.Mechanism, error) {
	return &Fixed{}, nil
}

// NoIntervalBuilder builds zero-noise mechanisms that cannot produce a
// confidence interval.
type NoIntervalBuilder struct{}

// Build returns a fresh zero-noise mechanism without interval support.
func (NoIntervalBuilder) Build(mechanism.Options) (mechanism.Mechanism, error) {
	return &Fixed{NoInterval: true}, nil
}

// InstanceBuilder hands out Mechanism on Build and records the options it
// was called with, so tests can inspect both.
type InstanceBuilder struct {
	Mechanism *Fixed
	Options   []mechanism.Options
}

// Build returns b.Mechanism.
func (b *InstanceBuilder) Build(opts mechanism.Options) (mechanism.Mechanism, error) {
	b.Options = append(b.Options, opts)
	return b.Mechanism, nil
}

// FailingBuilder fails every Build with Err.
type FailingBuilder struct {
	Err error
}

// Build returns b.Err.
func (b FailingBuilder) Build(mechanism.Options) (mechanism.Mechanism, error) {
	return nil, b.Err
}
