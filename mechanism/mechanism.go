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

// Package mechanism defines the numerical mechanism capability consumed by
// differentially private aggregations, and provides reference Laplace and
// Gaussian implementations.
package mechanism

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoConfidenceInterval is returned when a mechanism cannot produce a noise
// confidence interval for the requested parameters.
var ErrNoConfidenceInterval = errors.New("mechanism: no confidence interval available")

// Kind is an enum type. Its values are the noise distributions known to this
// package.
type Kind int

// Noise distributions used to achieve differential privacy.
const (
	LaplaceNoise Kind = iota
	GaussianNoise
	CustomNoise
)

func (k Kind) String() string {
	switch k {
	case LaplaceNoise:
		return "Laplace"
	case GaussianNoise:
		return "Gaussian"
	default:
		return "Custom"
	}
}

// ParseKind converts a case-insensitive noise name into a Kind.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(name) {
	case "laplace":
		return LaplaceNoise, nil
	case "gaussian":
		return GaussianNoise, nil
	}
	return CustomNoise, fmt.Errorf("unknown noise kind %q, must be laplace or gaussian", name)
}

// Builder returns the builder of the reference mechanism of this kind, or nil
// for CustomNoise.
func (k Kind) Builder() Builder {
	switch k {
	case LaplaceNoise:
		return LaplaceBuilder{}
	case GaussianNoise:
		return GaussianBuilder{}
	}
	return nil
}

// KindOf reports which reference distribution m draws from.
func KindOf(m Mechanism) Kind {
	switch m.(type) {
	case *Laplace:
		return LaplaceNoise
	case *Gaussian:
		return GaussianNoise
	}
	return CustomNoise
}

// ConfidenceInterval describes the interval around zero that contains the
// noise added by a mechanism with probability ConfidenceLevel.
type ConfidenceInterval struct {
	LowerBound, UpperBound float64
	ConfidenceLevel        float64
}

// Mechanism adds calibrated noise to values. Both methods take the fraction
// of the configured privacy budget to spend, which must be within (0, 1].
//
// Implementations may be non-deterministic; callers must not assume repeated
// calls return equal values.
type Mechanism interface {
	// AddNoise returns value with noise calibrated to the given fraction of the
	// mechanism's budget.
	AddNoise(value, privacyBudget float64) float64
	// NoiseConfidenceInterval returns the interval containing the noise with
	// probability confidenceLevel when privacyBudget is spent.
	NoiseConfidenceInterval(confidenceLevel, privacyBudget float64) (ConfidenceInterval, error)
	// MemoryUsed approximates the memory footprint of the mechanism in bytes.
	MemoryUsed() int64
}

// Options contains the parameters a Builder calibrates a Mechanism to.
type Options struct {
	Epsilon float64 // Privacy parameter ε.
	Delta   float64 // Privacy parameter δ.
	// Maximum number of partitions a privacy unit contributes to. Defaults to 1.
	L0Sensitivity int64
	// Maximum absolute change of a single partition caused by one privacy unit.
	// Defaults to 1.
	LInfSensitivity float64
}

func (opts Options) withDefaults() Options {
	if opts.L0Sensitivity == 0 {
		opts.L0Sensitivity = 1
	}
	if opts.LInfSensitivity == 0 {
		opts.LInfSensitivity = 1
	}
	return opts
}

// Builder materializes a Mechanism for the given options.
type Builder interface {
	Build(opts Options) (Mechanism, error)
}

// BuilderFunc adapts a function to the Builder interface.
type BuilderFunc func(opts Options) (Mechanism, error)

// Build calls f(opts).
func (f BuilderFunc) Build(opts Options) (Mechanism, error) {
	return f(opts)
}

// DefaultBuilder returns the builder of the standard mechanism for the given
// δ: Laplace for pure ε-differential privacy, Gaussian otherwise.
func DefaultBuilder(delta float64) Builder {
	if delta == 0 {
		return LaplaceBuilder{}
	}
	return GaussianBuilder{}
}
