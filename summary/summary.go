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

// Package summary defines the serialized form of an aggregation's raw,
// unnoised state, used to merge partial aggregations computed
// independently.
//
// A Summary carries a format version, the tag of the statistic that produced
// it and the statistic's payload packed in an Any message. It never carries
// privacy parameters or mechanism state.
package summary

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/anypb"
)

// CurrentVersion is the only Summary format version this package reads and
// writes.
const CurrentVersion uint32 = 1

// Errors returned when a Summary cannot be unpacked or decoded.
var (
	ErrNoData             = errors.New("summary: no data")
	ErrTagMismatch        = errors.New("summary: statistic tag mismatch")
	ErrUnsupportedVersion = errors.New("summary: unsupported version")
	ErrMalformed          = errors.New("summary: malformed")
)

// Wire field numbers.
const (
	versionField protowire.Number = 1
	tagField     protowire.Number = 2
	dataField    protowire.Number = 3
)

// Summary is the raw state of one aggregation. It is an independent value:
// it may be copied, transmitted or discarded freely.
type Summary struct {
	Version uint32
	Tag     string
	Data    *anypb.Any
}

// Pack returns a Summary of the current version holding payload under tag.
func Pack(tag string, payload proto.Message) (*Summary, error) {
	data, err := anypb.New(payload)
	if err != nil {
		return nil, fmt.Errorf("summary: couldn't pack %s payload: %w", tag, err)
	}
	return &Summary{Version: CurrentVersion, Tag: tag, Data: data}, nil
}

// UnpackTo checks that s was produced by the statistic tag and unpacks its
// payload into m. m is left untouched on failure.
func (s *Summary) UnpackTo(tag string, m proto.Message) error {
	if s == nil || s.Data == nil {
		return fmt.Errorf("%w: cannot merge summary with no %s data", ErrNoData, tag)
	}
	if s.Version != CurrentVersion {
		return fmt.Errorf("%w: got version %d, want %d", ErrUnsupportedVersion, s.Version, CurrentVersion)
	}
	if s.Tag != tag {
		return fmt.Errorf("%w: got %q, want %q", ErrTagMismatch, s.Tag, tag)
	}
	tmp := m.ProtoReflect().New().Interface()
	if err := s.Data.UnmarshalTo(tmp); err != nil {
		return fmt.Errorf("%w: %s summary unable to be unpacked: %v", ErrMalformed, tag, err)
	}
	proto.Reset(m)
	proto.Merge(m, tmp)
	return nil
}

// Marshal encodes s in its binary wire format.
func Marshal(s *Summary) ([]byte, error) {
	if s == nil || s.Data == nil {
		return nil, fmt.Errorf("%w: cannot marshal empty summary", ErrNoData)
	}
	data, err := proto.MarshalOptions{Deterministic: true}.Marshal(s.Data)
	if err != nil {
		return nil, fmt.Errorf("summary: couldn't marshal %s payload: %w", s.Tag, err)
	}
	var b []byte
	b = protowire.AppendTag(b, versionField, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(s.Version))
	b = protowire.AppendTag(b, tagField, protowire.BytesType)
	b = protowire.AppendString(b, s.Tag)
	b = protowire.AppendTag(b, dataField, protowire.BytesType)
	b = protowire.AppendBytes(b, data)
	return b, nil
}

// Unmarshal decodes a Summary from its binary wire format. Unknown fields are
// skipped.
func Unmarshal(b []byte) (*Summary, error) {
	s := &Summary{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
		}
		b = b[n:]
		n, err := s.consumeField(num, typ, b)
		if err != nil {
			return nil, err
		}
		b = b[n:]
	}
	if s.Version != CurrentVersion {
		return nil, fmt.Errorf("%w: got version %d, want %d", ErrUnsupportedVersion, s.Version, CurrentVersion)
	}
	if s.Data == nil {
		return nil, fmt.Errorf("%w: decoded summary has no data", ErrNoData)
	}
	return s, nil
}

func (s *Summary) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	var n int
	switch {
	case num == versionField && typ == protowire.VarintType:
		var v uint64
		v, n = protowire.ConsumeVarint(b)
		if n >= 0 && v > math.MaxUint32 {
			return 0, fmt.Errorf("%w: version %d out of range", ErrMalformed, v)
		}
		s.Version = uint32(v)
	case num == tagField && typ == protowire.BytesType:
		s.Tag, n = protowire.ConsumeString(b)
	case num == dataField && typ == protowire.BytesType:
		var v []byte
		v, n = protowire.ConsumeBytes(b)
		if n >= 0 {
			data := &anypb.Any{}
			if err := proto.Unmarshal(v, data); err != nil {
				return 0, fmt.Errorf("%w: %v", ErrMalformed, err)
			}
			s.Data = data
		}
	default:
		n = protowire.ConsumeFieldValue(num, typ, b)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: field %d: %v", ErrMalformed, num, protowire.ParseError(n))
	}
	return n, nil
}
