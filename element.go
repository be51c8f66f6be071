// Copyright 2016 The Go Authors. All rights reserved.
// Copyright 2019 George Tankersley. All rights reserved.
// Copyright (c) 2021 Oasis Labs Inc.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ristretto255 implements the ristretto255 prime-order group.
package ristretto255

import (
	"encoding/base64"
	"errors"

	"github.com/oasislabs/ristretto255/internal/edwards"
	"github.com/oasislabs/ristretto255/internal/field"
)

// An Element is an element of the ristretto255 prime-order group.
type Element struct {
	r edwards.Point
}

// NewElement returns a new Element set to the identity value.
func NewElement() *Element {
	e := &Element{}
	e.r.Identity()
	return e
}

// Zero sets e to the identity element and returns e.
func (e *Element) Zero() *Element {
	e.r.Identity()
	return e
}

// Base sets e to the canonical generator of the ristretto255 group and
// returns e.
func (e *Element) Base() *Element {
	e.r.Set(&basepoint)
	return e
}

// Set sets e = x and returns e.
func (e *Element) Set(x *Element) *Element {
	e.r.Set(&x.r)
	return e
}

// Add sets e = p + q and returns e.
func (e *Element) Add(p, q *Element) *Element {
	e.r.Add(&p.r, &q.r)
	return e
}

// Subtract sets e = p - q and returns e.
func (e *Element) Subtract(p, q *Element) *Element {
	e.r.Subtract(&p.r, &q.r)
	return e
}

// Negate sets e = -p and returns e.
func (e *Element) Negate(p *Element) *Element {
	e.r.Negate(&p.r)
	return e
}

// Double sets e = 2*p and returns e.
func (e *Element) Double(p *Element) *Element {
	e.r.Double(&p.r)
	return e
}

// Equal returns 1 if e is the same group element as ee, and 0 otherwise.
// This is spec.md's point_eq, testing equality under the ristretto
// quotient, not raw Edwards-coordinate equality.
func (e *Element) Equal(ee *Element) int {
	var f0, f1 field.Element

	f0.Multiply(&e.r.X, &ee.r.Y) // x1 * y2
	f1.Multiply(&e.r.Y, &ee.r.X) // y1 * x2
	out := f0.Equal(&f1)

	f0.Multiply(&e.r.X, &ee.r.X) // x1 * x2
	f1.Multiply(&e.r.Y, &ee.r.Y) // y1 * y2
	out |= f0.Equal(&f1)

	return out
}

// Encode appends the canonical 32-byte encoding of e to b and returns the
// result, per spec.md §4.4.
func (e *Element) Encode(b []byte) []byte {
	var u1, u2 field.Element
	u1.Add(&e.r.Z, &e.r.Y)
	var zMinusY field.Element
	zMinusY.Subtract(&e.r.Z, &e.r.Y)
	u1.Multiply(&u1, &zMinusY)

	u2.Multiply(&e.r.X, &e.r.Y)

	var invSqrt, u2Sq field.Element
	u2Sq.Square(&u2)
	var u1u2Sq field.Element
	u1u2Sq.Multiply(&u1, &u2Sq)
	field.InvSqrt(&invSqrt, &u1u2Sq)

	var d1, d2 field.Element
	d1.Multiply(&invSqrt, &u1)
	d2.Multiply(&invSqrt, &u2)

	var zInv field.Element
	zInv.Multiply(&d1, &d2)
	zInv.Multiply(&zInv, &e.r.T)

	var x, y field.Element
	x.Set(&e.r.X)
	y.Set(&e.r.Y)

	var tZInv field.Element
	tZInv.Multiply(&e.r.T, &zInv)
	rotate := tZInv.IsNegative()

	var rotatedX, rotatedY, rotatedD2 field.Element
	rotatedX.Multiply(&y, field.SqrtM1)
	rotatedY.Multiply(&x, field.SqrtM1)
	rotatedD2.Multiply(&d1, field.InvSqrtAMinusD)

	x.Select(&rotatedX, &x, rotate)
	y.Select(&rotatedY, &y, rotate)
	d2.Select(&rotatedD2, &d2, rotate)

	var xZInv field.Element
	xZInv.Multiply(&x, &zInv)
	y.CondNegate(xZInv.IsNegative())

	var s field.Element
	s.Subtract(&e.r.Z, &y)
	s.Multiply(&s, &d2)
	s.Abs(&s)

	ret, out := sliceForAppend(b, 32)
	copy(out, s.Bytes())
	return ret
}

// ErrMalformedPoint is returned when Element.SetCanonicalBytes (or
// Element.Decode, or SetCanonicalBytesDisallowIdentity) is given a 32-byte
// string that is not a valid encoding of a ristretto255 group element
// (spec.md §7's non-canonical-or-malformed-point failure).
var ErrMalformedPoint = errors.New("ristretto255: malformed point encoding")

// ErrIdentityNotAllowed is returned by SetCanonicalBytesDisallowIdentity
// when the input decodes to the identity element.
var ErrIdentityNotAllowed = errors.New("ristretto255: identity element not allowed")

// Decode sets e to the decoding of the 32-byte encoding in, rejecting
// non-canonical encodings, negative s, non-residues, negative T, and Y = 0.
// The identity point is accepted.
//
// Deprecated: use SetCanonicalBytes. This API will be removed before
// v1.0.0.
func (e *Element) Decode(in []byte) error {
	_, err := e.setCanonicalBytes(in, true)
	return err
}

// SetCanonicalBytes sets e to the decoding of in and returns e. If in is not
// a valid, canonical encoding, SetCanonicalBytes returns nil and an error,
// leaving e unmodified. The identity point is accepted.
func (e *Element) SetCanonicalBytes(in []byte) (*Element, error) {
	return e.setCanonicalBytes(in, true)
}

// SetCanonicalBytesDisallowIdentity is SetCanonicalBytes with
// allow_identity = false: it additionally rejects the identity element,
// per spec.md's decode(bytes, allow_identity) parameter.
func (e *Element) SetCanonicalBytesDisallowIdentity(in []byte) (*Element, error) {
	return e.setCanonicalBytes(in, false)
}

func (e *Element) setCanonicalBytes(in []byte, allowIdentity bool) (*Element, error) {
	if len(in) != 32 {
		return nil, errors.New("ristretto255: invalid point encoding length")
	}

	var s field.Element
	if _, err := s.SetCanonicalBytes(in, 0xff); err != nil {
		return nil, ErrMalformedPoint
	}
	if s.IsNegative() == 1 {
		return nil, ErrMalformedPoint
	}

	var ss field.Element
	ss.Square(&s)

	var u1, u2 field.Element
	u1.Subtract(field.One, &ss)
	u2.Add(field.One, &ss)

	var u1sq field.Element
	u1sq.Square(&u1)
	var u2sq field.Element
	u2sq.Square(&u2)

	// v = a*d*u1^2 - u2^2, with a = -1 (so -d*u1^2 - u2^2); this is the
	// well-established ristretto255 decode formula (curve25519-dalek's
	// decompress), which spec.md's "v = -d*ss^2-u1^2" paraphrases loosely
	// using u1^2 where it wrote ss^2.
	var v field.Element
	v.Multiply(field.D, &u1sq)
	v.Negate(&v)
	v.Subtract(&v, &u2sq)

	var vu2sq field.Element
	vu2sq.Multiply(&v, &u2sq)

	var invSqrt field.Element
	wasQR := field.InvSqrt(&invSqrt, &vu2sq)

	var dx, dy field.Element
	dx.Multiply(&invSqrt, &u2)
	dy.Multiply(&invSqrt, &dx)
	dy.Multiply(&dy, &v)

	var x field.Element
	x.Add(&s, &s)
	x.Multiply(&x, &dx)
	x.Abs(&x)

	var y field.Element
	y.Multiply(&u1, &dy)

	var t field.Element
	t.Multiply(&x, &y)

	ok := wasQR
	ok &= 1 - t.IsNegative()
	ok &= 1 - y.IsZero()
	if ok != 1 {
		return nil, ErrMalformedPoint
	}
	if !allowIdentity && x.IsZero() == 1 {
		return nil, ErrIdentityNotAllowed
	}

	var z field.Element
	z.One()
	e.r.SetExtended(&x, &y, &z, &t)
	return e, nil
}

// MarshalText implements encoding.TextMarshaler.
func (e *Element) MarshalText() (text []byte, err error) {
	b := e.Encode(nil)
	return []byte(base64.StdEncoding.EncodeToString(b)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Element) UnmarshalText(text []byte) error {
	eb, err := base64.StdEncoding.DecodeString(string(text))
	if err != nil {
		return err
	}
	return e.Decode(eb)
}

// String implements fmt.Stringer.
func (e *Element) String() string {
	result, _ := e.MarshalText()
	return string(result)
}

// Valid reports whether e satisfies the curve equation and the extended
// coordinates' internal coherence invariant. It is a debugging aid
// (spec.md's Point.valid), not part of the decode path.
func (e *Element) Valid() bool {
	return e.r.Valid()
}

// DebuggingTorque sets e = p + T, where T is a fixed point of order 4. Every
// torque of a valid representative encodes to the same bytes, per spec.md's
// debugging_torque; used by tests to probe that invariant.
func (e *Element) DebuggingTorque(p *Element) *Element {
	e.r.DebuggingTorque(&p.r)
	return e
}

// DebuggingPScale rescales p's internal coordinates by the nonzero field
// element encoded in f, per spec.md's debugging_pscale; used by tests.
func (e *Element) DebuggingPScale(p *Element, f []byte) (*Element, error) {
	var fe field.Element
	if _, err := fe.SetCanonicalBytes(f, 0xff); err != nil {
		return nil, err
	}
	if fe.IsZero() == 1 {
		return nil, errors.New("ristretto255: debugging_pscale requires a nonzero factor")
	}
	e.r.DebuggingPScale(&p.r, &fe)
	return e, nil
}
