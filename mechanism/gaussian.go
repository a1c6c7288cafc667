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
	"gonum.org/v1/gonum/stat/distuv"
)

// gaussianSigmaAccuracy is the relative accuracy up to which sigmaForGaussian
// approximates the smallest σ satisfying the privacy parameters.
var gaussianSigmaAccuracy = 1e-3

// GaussianBuilder builds Gaussian mechanisms. Build fails if δ is zero.
type GaussianBuilder struct{}

// Build returns a Gaussian mechanism calibrated to opts.
func (GaussianBuilder) Build(opts Options) (Mechanism, error) {
	return NewGaussian(opts)
}

// Gaussian adds normally distributed noise whose standard deviation is the
// smallest σ making the release (ε·budget, δ·budget)-differentially private
// for the configured L2 sensitivity. Samples are snapped to a power-of-two
// grid relative to σ.
type Gaussian struct {
	epsilon, delta  float64
	l0Sensitivity   int64
	lInfSensitivity float64
	src             *secrand.Source
}

// NewGaussian returns a Gaussian mechanism for opts.
func NewGaussian(opts Options) (*Gaussian, error) {
	opts = opts.withDefaults()
	const label = "Gaussian"
	if err := checks.CheckEpsilonStrict(label, opts.Epsilon); err != nil {
		return nil, err
	}
	if err := checks.CheckDeltaStrict(label, opts.Delta); err != nil {
		return nil, err
	}
	if err := checks.CheckL0Sensitivity(label, opts.L0Sensitivity); err != nil {
		return nil, err
	}
	if err := checks.CheckLInfSensitivity(label, opts.LInfSensitivity); err != nil {
		return nil, err
	}
	return &Gaussian{
		epsilon:         opts.Epsilon,
		delta:           opts.Delta,
		l0Sensitivity:   opts.L0Sensitivity,
		lInfSensitivity: opts.LInfSensitivity,
		src:             secrand.Default,
	}, nil
}

// Sigma returns the standard deviation of the noise added when privacyBudget
// is spent.
func (g *Gaussian) Sigma(privacyBudget float64) float64 {
	return sigmaForGaussian(g.l0Sensitivity, g.lInfSensitivity, g.epsilon*privacyBudget, g.delta*privacyBudget)
}

// AddNoise adds Gaussian noise to x spending privacyBudget.
func (g *Gaussian) AddNoise(x, privacyBudget float64) float64 {
	if err := checks.CheckPrivacyBudget("Gaussian.AddNoise", privacyBudget); err != nil {
		log.Fatalf("Gaussian.AddNoise(privacyBudget %f) checks failed with %v", privacyBudget, err)
	}
	sigma := g.Sigma(privacyBudget)
	granularity := ceilPowerOfTwo(sigma / granularityParam)
	sample := distuv.Normal{Mu: 0, Sigma: sigma, Src: g.src}.Rand()
	return roundToMultipleOfPowerOfTwo(x, granularity) + roundToMultipleOfPowerOfTwo(sample, granularity)
}

// NoiseConfidenceInterval returns the symmetric interval around zero holding
// confidenceLevel of the noise distribution's mass.
func (g *Gaussian) NoiseConfidenceInterval(confidenceLevel, privacyBudget float64) (ConfidenceInterval, error) {
	if err := checkIntervalArgs("Gaussian", confidenceLevel, privacyBudget); err != nil {
		return ConfidenceInterval{}, err
	}
	dist := distuv.Normal{Mu: 0, Sigma: g.Sigma(privacyBudget)}
	bound := dist.Quantile((1 - confidenceLevel) / 2)
	return ConfidenceInterval{LowerBound: bound, UpperBound: -bound, ConfidenceLevel: confidenceLevel}, nil
}

// MemoryUsed returns the size of the mechanism in bytes.
func (g *Gaussian) MemoryUsed() int64 {
	return int64(unsafe.Sizeof(*g))
}

func (g *Gaussian) String() string {
	return fmt.Sprintf("Gaussian(ε=%g, δ=%g, l0=%d, lInf=%g)", g.epsilon, g.delta, g.l0Sensitivity, g.lInfSensitivity)
}

// deltaForGaussian computes the smallest δ such that the Gaussian mechanism
// with standard deviation σ is (ε,δ)-differentially private, following
// Theorem 8 of Balle and Wang, "Improving the Gaussian Mechanism for
// Differential Privacy" (https://arxiv.org/abs/1805.06530v2):
//
//	δ(σ,s,ε) = Φ(s/(2σ) - εσ/s) - exp(ε)Φ(-s/(2σ) - εσ/s)
//
// where s is the L2 sensitivity and Φ the standard normal CDF.
func deltaForGaussian(sigma float64, l0Sensitivity int64, lInfSensitivity, epsilon float64) float64 {
	l2Sensitivity := lInfSensitivity * math.Sqrt(float64(l0Sensitivity))
	a := l2Sensitivity / (2 * sigma)
	b := epsilon * sigma / l2Sensitivity
	c := math.Exp(epsilon)

	// δ tends to 0 as ε or σ/s grow without bound.
	if math.IsInf(c, +1) || math.IsInf(b, +1) {
		return 0
	}
	return distuv.UnitNormal.CDF(a-b) - c*distuv.UnitNormal.CDF(-a-b)
}

// sigmaForGaussian binary searches the smallest σ for which deltaForGaussian
// does not exceed delta. The result is within gaussianSigmaAccuracy·σ of the
// tight value.
func sigmaForGaussian(l0Sensitivity int64, lInfSensitivity, epsilon, delta float64) float64 {
	if delta >= 1 {
		return 0
	}

	// The required noise grows linearly with the sensitivity, so the L2
	// sensitivity is the starting guess for the upper bound.
	upperBound := lInfSensitivity * math.Sqrt(float64(l0Sensitivity))
	var lowerBound float64
	for deltaForGaussian(upperBound, l0Sensitivity, lInfSensitivity, epsilon) > delta {
		lowerBound = upperBound
		upperBound = upperBound * 2
	}

	for upperBound-lowerBound > gaussianSigmaAccuracy*lowerBound {
		middle := lowerBound*0.5 + upperBound*0.5
		if deltaForGaussian(middle, l0Sensitivity, lInfSensitivity, epsilon) > delta {
			lowerBound = middle
		} else {
			upperBound = middle
		}
	}
	return upperBound
}
