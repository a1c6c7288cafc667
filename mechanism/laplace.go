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

package mechanism

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/dpcore/dpalgo/checks"
	"github.com/dpcore/dpalgo/internal/secrand"
	log "github.com/golang/glog"
)

// granularityParam determines the resolution of the noise relative to the
// diversity of the distribution. It must be a power of 2. With 2⁴⁰ and
// ε ≥ 2⁻⁵⁰ the probability of an overflow in the geometric sampler is below
// 2⁻¹⁰⁰⁰.
var granularityParam = math.Exp2(40)

// LaplaceBuilder builds Laplace mechanisms. Build fails if δ is non-zero.
type LaplaceBuilder struct{}

// Build returns a Laplace mechanism calibrated to opts.
func (LaplaceBuilder) Build(opts Options) (Mechanism, error) {
	return NewLaplace(opts)
}

// Laplace adds noise drawn from a Laplace distribution with diversity
// L1 sensitivity / (ε · privacy budget). Samples come from a two-sided
// geometric distribution on a power-of-two grid, which avoids the privacy
// leaks of naive floating-point sampling.
type Laplace struct {
	epsilon       float64
	l1Sensitivity float64
	src           *secrand.Source
}

// NewLaplace returns a Laplace mechanism for opts.
func NewLaplace(opts Options) (*Laplace, error) {
	opts = opts.withDefaults()
	const label = "Laplace"
	if err := checks.CheckEpsilonStrict(label, opts.Epsilon); err != nil {
		return nil, err
	}
	if err := checks.CheckNoDelta(label, opts.Delta); err != nil {
		return nil, err
	}
	if err := checks.CheckL0Sensitivity(label, opts.L0Sensitivity); err != nil {
		return nil, err
	}
	if err := checks.CheckLInfSensitivity(label, opts.LInfSensitivity); err != nil {
		return nil, err
	}
	return &Laplace{
		epsilon:       opts.Epsilon,
		l1Sensitivity: opts.LInfSensitivity * float64(opts.L0Sensitivity),
		src:           secrand.Default,
	}, nil
}

// Diversity returns the scale of the noise added when privacyBudget is spent.
func (l *Laplace) Diversity(privacyBudget float64) float64 {
	return l.l1Sensitivity / (l.epsilon * privacyBudget)
}

// AddNoise adds Laplace noise to x spending privacyBudget.
func (l *Laplace) AddNoise(x, privacyBudget float64) float64 {
	if err := checks.CheckPrivacyBudget("Laplace.AddNoise", privacyBudget); err != nil {
		log.Fatalf("Laplace.AddNoise(privacyBudget %f) checks failed with %v", privacyBudget, err)
	}
	epsilon := l.epsilon * privacyBudget
	granularity := ceilPowerOfTwo((l.l1Sensitivity / epsilon) / granularityParam)
	sample := l.twoSidedGeometric(granularity * epsilon / (l.l1Sensitivity + granularity))
	return roundToMultipleOfPowerOfTwo(x, granularity) + float64(sample)*granularity
}

// NoiseConfidenceInterval returns [b·ln(1-level), -b·ln(1-level)] where b is
// the diversity for privacyBudget.
func (l *Laplace) NoiseConfidenceInterval(confidenceLevel, privacyBudget float64) (ConfidenceInterval, error) {
	if err := checkIntervalArgs("Laplace", confidenceLevel, privacyBudget); err != nil {
		return ConfidenceInterval{}, err
	}
	bound := l.Diversity(privacyBudget) * math.Log(1-confidenceLevel)
	return ConfidenceInterval{LowerBound: bound, UpperBound: -bound, ConfidenceLevel: confidenceLevel}, nil
}

// MemoryUsed returns the size of the mechanism in bytes.
func (l *Laplace) MemoryUsed() int64 {
	return int64(unsafe.Sizeof(*l))
}

func (l *Laplace) String() string {
	return fmt.Sprintf("Laplace(ε=%g, l1=%g)", l.epsilon, l.l1Sensitivity)
}

func checkIntervalArgs(label string, confidenceLevel, privacyBudget float64) error {
	if err := checks.CheckConfidenceLevel(label, confidenceLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrNoConfidenceInterval, err)
	}
	if err := checks.CheckPrivacyBudget(label, privacyBudget); err != nil {
		return fmt.Errorf("%w: %v", ErrNoConfidenceInterval, err)
	}
	return nil
}

// geometric draws the number of Bernoulli trials until the first success for
// a success probability of p = 1 - e^-λ, truncated to MaxInt64. λ should be
// greater than 2⁻⁵⁹ to keep the truncation probability below 10⁻⁶.
func (l *Laplace) geometric(lambda float64) int64 {
	if l.src.Uniform() > -1.0*math.Expm1(-1.0*lambda*math.MaxInt64) {
		return math.MaxInt64
	}

	// Binary search over (left, right]. Each step keeps the subinterval that
	// contains the sample, chosen by its probability mass.
	var left int64 = 0
	var right int64 = math.MaxInt64
	for left+1 < right {
		// The midpoint splits the probability mass roughly in half, which
		// needs fewer steps than the arithmetic mean for large p.
		mid := left - int64(math.Floor((math.Log(0.5)+math.Log1p(math.Exp(lambda*float64(left-right))))/lambda))
		if mid <= left {
			mid = left + 1
		} else if mid >= right {
			mid = right - 1
		}

		// q = Pr[X ≤ mid | left < X ≤ right]
		q := math.Expm1(lambda*float64(left-mid)) / math.Expm1(lambda*float64(left-right))
		if l.src.Uniform() <= q {
			right = mid
		} else {
			left = mid
		}
	}
	return right
}

// twoSidedGeometric draws from a geometric distribution with parameter
// p = 1 - e^-λ, shifted left by 1 and mirrored at 0.
func (l *Laplace) twoSidedGeometric(lambda float64) int64 {
	var sample int64 = 0
	var sign int64 = -1
	// Zero is kept only with a positive sign, otherwise its probability would
	// be doubled.
	for sample == 0 && sign == -1 {
		sample = l.geometric(lambda) - 1
		sign = int64(l.src.Sign())
	}
	return sample * sign
}
