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

package mechanismtest

import (
	"errors"
	"testing"

	"github.com/dpcore/dpalgo/mechanism"
	"github.com/google/go-cmp/cmp"
)

func TestFixedAddsOffsetAndRecordsBudgets(t *testing.T) {
	f := &Fixed{Offset: -2}
	if got := f.AddNoise(5, 0.5); got != 3 {
		t.Errorf("AddNoise(5, 0.5): got %f, want 3", got)
	}
	f.AddNoise(5, 0.25)
	if diff := cmp.Diff([]float64{0.5, 0.25}, f.Budgets); diff != "" {
		t.Errorf("Budgets: diff (-want +got):\n%s", diff)
	}
}

func TestFixedNoiseConfidenceInterval(t *testing.T) {
	got, err := (&Fixed{}).NoiseConfidenceInterval(0.9, 1)
	if err != nil {
		t.Fatalf("NoiseConfidenceInterval: got err %v", err)
	}
	if want := (mechanism.ConfidenceInterval{ConfidenceLevel: 0.9}); got != want {
		t.Errorf("NoiseConfidenceInterval: got %+v, want %+v", got, want)
	}
	if _, err := (&Fixed{NoInterval: true}).NoiseConfidenceInterval(0.9, 1); !errors.Is(err, mechanism.ErrNoConfidenceInterval) {
		t.Errorf("NoiseConfidenceInterval without interval: got err %v, want ErrNoConfidenceInterval", err)
	}
}

func TestBuilders(t *testing.T) {
	var _ mechanism.Builder = ZeroNoiseBuilder{}
	var _ mechanism.Builder = NoIntervalBuilder{}
	var _ mechanism.Builder = &InstanceBuilder{}

	wantErr := errors.New("cannot build")
	if _, err := (FailingBuilder{Err: wantErr}).Build(mechanism.Options{}); !errors.Is(err, wantErr) {
		t.Errorf("FailingBuilder.Build: got err %v, want %v", err, wantErr)
	}

	f := &Fixed{}
	b := &InstanceBuilder{Mechanism: f}
	m, err := b.Build(mechanism.Options{Epsilon: 1})
	if err != nil || m != mechanism.Mechanism(f) {
		t.Errorf("InstanceBuilder.Build: got (%v, %v), want (%v, nil)", m, err, f)
	}
	if len(b.Options) != 1 || b.Options[0].Epsilon != 1 {
		t.Errorf("InstanceBuilder.Options: got %+v, want one call with Epsilon 1", b.Options)
	}
}
