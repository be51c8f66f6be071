// Copyright 2016 The Go Authors. All rights reserved.
// Copyright 2019 George Tankersley. All rights reserved.
// Copyright (c) 2021 Oasis Labs Inc.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ristretto255

import (
	"encoding/base64"
	"errors"

	"github.com/oasislabs/ristretto255/internal/scalar"
)

// A Scalar is an element of the ristretto255 scalar field, an integer modulo
//
//	l = 2^252 + 27742317777372353535851937790883648493
//
// The zero value is a valid zero element.
type Scalar struct {
	s scalar.Scalar
}

// NewScalar returns a Scalar set to the value 0.
func NewScalar() *Scalar {
	return &Scalar{}
}

// Set sets the value of s to x and returns s.
func (s *Scalar) Set(x *Scalar) *Scalar {
	s.s.Set(&x.s)
	return s
}

// Add sets s = x + y mod l and returns s.
func (s *Scalar) Add(x, y *Scalar) *Scalar {
	s.s.Add(&x.s, &y.s)
	return s
}

// Subtract sets s = x - y mod l and returns s.
func (s *Scalar) Subtract(x, y *Scalar) *Scalar {
	s.s.Subtract(&x.s, &y.s)
	return s
}

// Negate sets s = -x mod l and returns s.
func (s *Scalar) Negate(x *Scalar) *Scalar {
	s.s.Negate(&x.s)
	return s
}

// Multiply sets s = x * y mod l and returns s.
func (s *Scalar) Multiply(x, y *Scalar) *Scalar {
	s.s.Multiply(&x.s, &y.s)
	return s
}

// Halve sets s = x / 2 mod l and returns s.
func (s *Scalar) Halve(x *Scalar) *Scalar {
	s.s.Halve(&x.s)
	return s
}

// Invert sets s = 1 / x such that s * x = 1 mod l and returns s, along with
// an error if x is zero (in which case s is set to zero).
func (s *Scalar) Invert(x *Scalar) (*Scalar, error) {
	_, ok := s.s.Invert(&x.s)
	if ok == 0 {
		return s, errInvertZero
	}
	return s, nil
}

var errInvertZero = errors.New("ristretto255: cannot invert zero scalar")

// SetUint64 sets s to x and returns s.
func (s *Scalar) SetUint64(x uint64) *Scalar {
	s.s.SetUint64(x)
	return s
}

// SetUniformBytes sets s to an uniformly distributed value given 64
// uniformly distributed random bytes, reducing modulo l as needed
// (spec.md's decode_long). If x is not 64 bytes long, SetUniformBytes
// returns nil and an error, and the receiver is unchanged.
func (s *Scalar) SetUniformBytes(x []byte) (*Scalar, error) {
	if len(x) != 64 {
		return nil, errors.New("ristretto255: SetUniformBytes input is not 64 bytes long")
	}
	s.s.SetBytesWide(x)
	return s, nil
}

// FromUniformBytes sets s to an uniformly distributed value given 64
// uniformly distributed random bytes.
//
// Deprecated: use SetUniformBytes. This API will be removed before v1.0.0.
func (s *Scalar) FromUniformBytes(x []byte) *Scalar {
	if _, err := s.SetUniformBytes(x); err != nil {
		panic(err.Error())
	}
	return s
}

// SetCanonicalBytes sets s = x, where x is a 32 bytes little-endian encoding
// of s. If x is not a canonical encoding of s, SetCanonicalBytes returns nil
// and an error and the receiver is unchanged. This matches spec.md's
// Scalar.decode.
func (s *Scalar) SetCanonicalBytes(x []byte) (*Scalar, error) {
	if len(x) != 32 {
		return nil, errors.New("ristretto255: invalid scalar length")
	}
	var sc scalar.Scalar
	_, ok := sc.SetCanonicalBytes(x)
	if !ok {
		return nil, scalar.ErrInvalidScalar()
	}
	s.s = sc
	return s, nil
}

// Decode sets s = x, where x is a 32 bytes little-endian encoding of s. If x
// is not a canonical encoding of s, Decode returns an error and the
// receiver is unchanged.
//
// Deprecated: use SetCanonicalBytes. This API will be removed before
// v1.0.0.
func (s *Scalar) Decode(x []byte) error {
	_, err := s.SetCanonicalBytes(x)
	return err
}

// Bytes returns the 32 bytes little-endian encoding of s.
func (s *Scalar) Bytes() []byte {
	return s.s.Bytes()
}

// Encode appends a 32 bytes little-endian encoding of s to b.
//
// Deprecated: use Bytes. This API will be removed before v1.0.0.
func (s *Scalar) Encode(b []byte) []byte {
	ret, out := sliceForAppend(b, 32)
	copy(out, s.s.Bytes())
	return ret
}

// Equal returns 1 if s and t are equal, and 0 otherwise.
func (s *Scalar) Equal(t *Scalar) int {
	return s.s.Equal(&t.s)
}

// Zero sets s = 0 and returns s.
func (s *Scalar) Zero() *Scalar {
	s.s = scalar.Scalar{}
	return s
}

// Destroy zeroes s, for use on secret scalars once they are no longer
// needed.
func (s *Scalar) Destroy() *Scalar {
	s.s.Destroy()
	return s
}

// MarshalText implements encoding.TextMarshaler.
func (s *Scalar) MarshalText() (text []byte, err error) {
	b := s.Encode([]byte{})
	return []byte(base64.StdEncoding.EncodeToString(b)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Scalar) UnmarshalText(text []byte) error {
	sb, err := base64.StdEncoding.DecodeString(string(text))
	if err != nil {
		return err
	}
	return s.Decode(sb)
}

// String implements fmt.Stringer.
func (s *Scalar) String() string {
	result, _ := s.MarshalText()
	return string(result)
}

// sliceForAppend extends the input slice by n bytes. head is the full
// extended slice, while tail is the appended part. If the original slice has
// sufficient capacity no allocation is performed.
func sliceForAppend(in []byte, n int) (head, tail []byte) {
	if total := len(in) + n; cap(in) >= total {
		head = in[:total]
	} else {
		head = make([]byte, total)
		copy(head, in)
	}
	tail = head[len(in):]
	return
}
