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

// Package secrand provides a cryptographically secure random source and the
// sampling primitives the reference noise mechanisms are built on.
package secrand

import (
	"bufio"
	cryptorand "crypto/rand"
	"encoding/binary"
	"io"
	"math"
	"math/bits"
	"sync"

	log "github.com/golang/glog"
)

const bufferSize = 65536

// Default is the process-wide source backed by crypto/rand.
var Default = New(cryptorand.Reader)

// Source draws random bits from an underlying reader. It is safe for
// concurrent use. Source also satisfies golang.org/x/exp/rand.Source so that
// gonum samplers can be driven by it.
type Source struct {
	mu     sync.Mutex
	r      io.Reader
	bitBuf uint8
	bitPos uint8
}

// New returns a Source reading from r through a buffer.
func New(r io.Reader) *Source {
	return &Source{r: bufio.NewReaderSize(r, bufferSize), bitPos: 8}
}

func (s *Source) readLocked(b []byte) {
	if _, err := io.ReadFull(s.r, b); err != nil {
		log.Fatalf("out of randomness, should never happen: %v", err)
	}
}

// Uint64 returns a uniformly random uint64.
func (s *Source) Uint64() uint64 {
	var b [8]byte
	s.mu.Lock()
	s.readLocked(b[:])
	s.mu.Unlock()
	return binary.LittleEndian.Uint64(b[:])
}

// Seed is a no-op; the source cannot be seeded.
func (s *Source) Seed(uint64) {}

func (s *Source) uint8() uint8 {
	var b [1]byte
	s.mu.Lock()
	s.readLocked(b[:])
	s.mu.Unlock()
	return b[0]
}

// Boolean returns true or false with equal probability. Bits of a drawn byte
// are consumed from least to most significant.
func (s *Source) Boolean() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bitPos > 7 {
		var b [1]byte
		s.readLocked(b[:])
		s.bitBuf, s.bitPos = b[0], 0
	}
	res := s.bitBuf&(1<<s.bitPos) != 0
	s.bitPos++
	return res
}

// Sign returns +1.0 or -1.0 with equal probabilities.
func (s *Source) Sign() float64 {
	if s.Boolean() {
		return 1.0
	}
	return -1.0
}

// Int63n returns an integer from {0,...,n-1} uniformly at random. n must be
// positive.
func (s *Source) Int63n(n int64) int64 {
	largestMultipleOfN := (math.MaxInt64 / n) * n
	for {
		r := int64(s.Uint64() & math.MaxInt64)
		if r < largestMultipleOfN {
			return r % n
		}
	}
}

// Uniform returns a float64 from (0,1] such that every representable float in
// the interval has positive probability.
func (s *Source) Uniform() float64 {
	i := s.Uint64() % (1 << 53)
	r := (1 + float64(i)/(1<<53)) / math.Exp2(s.Geometric())
	// The result feeds logarithms, so 0 is never returned.
	if r == 0 {
		return 1
	}
	return r
}

// Geometric returns the number of fair Bernoulli trials until the first
// success.
func (s *Source) Geometric() float64 {
	n := 1
	var r uint8
	for r == 0 {
		r = s.uint8()
		n += bits.LeadingZeros8(r)
	}
	return float64(n)
}
